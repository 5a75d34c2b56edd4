package shortener

import (
	"context"
	"fmt"
)

// DefaultMaxAttempts bounds how many candidates are tried before giving up.
const DefaultMaxAttempts = 10

// ExistsFunc reports whether a code is already in use.
type ExistsFunc func(ctx context.Context, code Code) (bool, error)

// ResolveUniqueCode generates candidates until exists reports a free one.
// It returns ErrCodeSpaceExhausted after maxAttempts taken candidates.
func ResolveUniqueCode(ctx context.Context, generate CodeGenerator, exists ExistsFunc, maxAttempts int) (Code, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	for range maxAttempts {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		candidate := Code(generate())

		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check code %q: %w", candidate, err)
		}

		if !taken {
			return candidate, nil
		}
	}

	return "", ErrCodeSpaceExhausted
}
