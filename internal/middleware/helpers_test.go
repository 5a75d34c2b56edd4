package middleware_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
)

type okOutput struct {
	Body struct {
		OK bool `json:"ok"`
	}
}

func ok(context.Context, *struct{}) (*okOutput, error) {
	out := &okOutput{}
	out.Body.OK = true

	return out, nil
}

// register adds a GET operation at path, optionally with metadata and security.
func register(api huma.API, path string, metadata map[string]any, security []map[string][]string) {
	huma.Register(api, huma.Operation{
		OperationID: "get" + path,
		Method:      http.MethodGet,
		Path:        path,
		Metadata:    metadata,
		Security:    security,
	}, ok)
}

func newAPI(t *testing.T) humatest.TestAPI {
	t.Helper()

	_, api := humatest.New(t)

	return api
}
