package shortener

import (
	"fmt"

	"github.com/jaevor/go-nanoid"
)

// Alphabet is the set of symbols short codes are drawn from.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultCodeLength is the length of generated short codes.
const DefaultCodeLength = 6

// MaxCodeLength is the widest code the short_code column and the {code}
// path parameter accept.
const MaxCodeLength = 16

// CodeGenerator generates candidate short codes. Candidates are not guaranteed to be unique.
type CodeGenerator func() string

// NewCodeGenerator returns a generator of length-symbol codes drawn uniformly from Alphabet.
func NewCodeGenerator(length int) (CodeGenerator, error) {
	if length <= 0 || length > MaxCodeLength {
		return nil, fmt.Errorf("code length must be between 1 and %d, got %d", MaxCodeLength, length)
	}

	gen, err := nanoid.CustomASCII(Alphabet, length)
	if err != nil {
		return nil, fmt.Errorf("create code generator: %w", err)
	}

	return CodeGenerator(gen), nil
}
