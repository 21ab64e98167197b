package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"pharmadelivery/internal/pkg/errs"
)

const (
	// DefaultMaxAttempts bounds every generation loop.
	DefaultMaxAttempts = 32

	barcodeBodyLength = 12
	tourIDBytes       = 10
)

// ErrIDSpaceExhausted is returned when every attempt produced an id already
// in use. Callers treat it as fatal.
var ErrIDSpaceExhausted = errors.New("id space exhausted")

// ExistsFunc reports whether a candidate id is already taken.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// IDGenerator produces tour ids and package barcodes, retrying on collision.
//
// Tour ids are 20 lowercase hex characters. Barcodes are
// <prefix><12 random digits><check digit>, where the check digit is a mod-10
// weighted checksum over every digit before it (weight 1 at even, 3 at odd
// 0-indexed positions).
//
// Example usage:
//
//	gen := services.NewIDGenerator()
//	id, err := gen.TourID(ctx, tourRepo.Exists)
//	code, err := gen.Barcode(ctx, "75011", packageRepo.BarcodeExists)
type IDGenerator struct {
	random      io.Reader
	maxAttempts int
}

// NewIDGenerator returns a generator backed by crypto/rand.
func NewIDGenerator() IDGenerator {
	return IDGenerator{random: rand.Reader, maxAttempts: DefaultMaxAttempts}
}

// NewIDGeneratorWithSource uses a custom entropy source and attempt bound.
func NewIDGeneratorWithSource(random io.Reader, maxAttempts int) IDGenerator {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return IDGenerator{random: random, maxAttempts: maxAttempts}
}

// TourID returns a tour id unknown to exists.
func (g IDGenerator) TourID(ctx context.Context, exists ExistsFunc) (string, error) {
	buf := make([]byte, tourIDBytes)
	return g.generate(ctx, exists, func() (string, error) {
		if _, err := io.ReadFull(g.random, buf); err != nil {
			return "", err
		}
		return hex.EncodeToString(buf), nil
	})
}

// Barcode returns a barcode under prefix unknown to exists. Only the random
// body is regenerated between attempts.
func (g IDGenerator) Barcode(ctx context.Context, prefix string, exists ExistsFunc) (string, error) {
	if !isDigits(prefix) {
		return "", errs.NewValueIsInvalidErrorWithCause("prefix", fmt.Errorf("%q is not numeric", prefix))
	}
	return g.generate(ctx, exists, func() (string, error) {
		body, err := g.digits(barcodeBodyLength)
		if err != nil {
			return "", err
		}
		payload := prefix + body
		return payload + string('0'+CheckDigit(payload)), nil
	})
}

func (g IDGenerator) generate(ctx context.Context, exists ExistsFunc, next func() (string, error)) (string, error) {
	for range g.maxAttempts {
		candidate, err := next()
		if err != nil {
			return "", err
		}

		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrIDSpaceExhausted, g.maxAttempts)
}

// digits draws n uniformly distributed decimal digits. Bytes >= 250 are
// rejected so every digit keeps the same weight.
func (g IDGenerator) digits(n int) (string, error) {
	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := io.ReadFull(g.random, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= 250 || len(out) == n {
				continue
			}
			out = append(out, '0'+b%10)
		}
	}
	return string(out), nil
}

// CheckDigit computes the check digit for the numeric payload.
// Non-digit characters are ignored.
func CheckDigit(payload string) byte {
	sum := 0
	pos := 0
	for i := 0; i < len(payload); i++ {
		c := payload[i]
		if c < '0' || c > '9' {
			continue
		}
		weight := 1
		if pos%2 == 1 {
			weight = 3
		}
		sum += int(c-'0') * weight
		pos++
	}
	return byte((10 - sum%10) % 10)
}

// ValidBarcode reports whether the last digit of code is the check digit of
// everything before it.
func ValidBarcode(code string) bool {
	if len(code) < 2 || !isDigits(code) {
		return false
	}
	payload, check := code[:len(code)-1], code[len(code)-1]
	return check-'0' == CheckDigit(payload)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
