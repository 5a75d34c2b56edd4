package ratelimit_test

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlinks/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMultipartNotSupported = errors.New("multipart not supported in mock")

// fakeContext implements huma.Context for scope resolution.
type fakeContext struct {
	method    string
	operation *huma.Operation
}

func (m *fakeContext) Operation() *huma.Operation        { return m.operation }
func (m *fakeContext) Context() context.Context          { return context.Background() }
func (m *fakeContext) TLS() *tls.ConnectionState         { return nil }
func (m *fakeContext) Version() huma.ProtoVersion        { return huma.ProtoVersion{} }
func (m *fakeContext) Method() string                    { return m.method }
func (m *fakeContext) Host() string                      { return "" }
func (m *fakeContext) RemoteAddr() string                { return "" }
func (m *fakeContext) URL() url.URL                      { return url.URL{} }
func (m *fakeContext) Param(_ string) string             { return "" }
func (m *fakeContext) Query(_ string) string             { return "" }
func (m *fakeContext) Header(_ string) string            { return "" }
func (m *fakeContext) EachHeader(_ func(string, string)) {}
func (m *fakeContext) BodyReader() io.Reader             { return nil }
func (m *fakeContext) GetMultipartForm() (*multipart.Form, error) {
	return nil, errMultipartNotSupported
}
func (m *fakeContext) SetReadDeadline(_ time.Time) error { return nil }
func (m *fakeContext) SetStatus(_ int)                   {}
func (m *fakeContext) Status() int                       { return 0 }
func (m *fakeContext) AppendHeader(_, _ string)          {}
func (m *fakeContext) SetHeader(_, _ string)             {}
func (m *fakeContext) BodyWriter() io.Writer             { return nil }

func TestMethodScope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method string
		want   ratelimit.Scope
	}{
		{http.MethodGet, ratelimit.ScopeRead},
		{http.MethodHead, ratelimit.ScopeRead},
		{http.MethodOptions, ratelimit.ScopeRead},
		{http.MethodPost, ratelimit.ScopeWrite},
		{http.MethodPut, ratelimit.ScopeWrite},
		{http.MethodPatch, ratelimit.ScopeWrite},
		{http.MethodDelete, ratelimit.ScopeWrite},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ratelimit.MethodScope(tt.method))
		})
	}
}

func TestOperationScopeResolver_Resolve(t *testing.T) {
	t.Parallel()

	resolver := ratelimit.NewOperationScopeResolver()

	t.Run("falls back to the method without an operation", func(t *testing.T) {
		t.Parallel()

		scopes := resolver.Resolve(&fakeContext{method: http.MethodPost})
		assert.Equal(t, []ratelimit.Scope{ratelimit.ScopeGlobal, ratelimit.ScopeWrite}, scopes)
	})

	t.Run("falls back to the method when metadata has no scope", func(t *testing.T) {
		t.Parallel()

		op := &huma.Operation{Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: false},
		}}
		scopes := resolver.Resolve(&fakeContext{method: http.MethodGet, operation: op})
		assert.Equal(t, []ratelimit.Scope{ratelimit.ScopeGlobal, ratelimit.ScopeRead}, scopes)
	})

	t.Run("metadata scope wins over the method", func(t *testing.T) {
		t.Parallel()

		op := &huma.Operation{Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeWrite},
		}}
		scopes := resolver.Resolve(&fakeContext{method: http.MethodGet, operation: op})
		assert.Equal(t, []ratelimit.Scope{ratelimit.ScopeGlobal, ratelimit.ScopeWrite}, scopes)
	})
}

func TestGetEndpointConfig(t *testing.T) {
	t.Parallel()

	t.Run("nil operation", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, ratelimit.GetEndpointConfig(&fakeContext{}))
	})

	t.Run("wrong metadata type", func(t *testing.T) {
		t.Parallel()

		op := &huma.Operation{Metadata: map[string]any{ratelimit.MetadataKey: "nope"}}
		assert.Nil(t, ratelimit.GetEndpointConfig(&fakeContext{operation: op}))
	})

	t.Run("returns configured limits", func(t *testing.T) {
		t.Parallel()

		limits := []ratelimit.LimitConfig{{Window: time.Minute, Max: 15}}
		op := &huma.Operation{Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Limits: limits},
		}}

		cfg := ratelimit.GetEndpointConfig(&fakeContext{operation: op})
		require.NotNil(t, cfg)
		assert.Equal(t, limits, cfg.Limits)
	})
}
