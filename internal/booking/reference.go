package booking

import (
	"context"
	"crypto/rand"
	"fmt"
)

// referenceAlphabet is the character set booking references are drawn
// from: 36 symbols, so an 8-character reference carries ~41 bits of
// entropy and collisions are vanishingly rare.
const referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// referenceLength is the fixed length of a booking reference.
const referenceLength = 8

// maxReferenceAttempts caps collision retries so a degenerate store
// (or a broken random source) cannot stall a booking forever.
const maxReferenceAttempts = 10

// ExistsFunc reports whether a reference is already in use by any
// existing booking.  The coordinator passes a transaction-bound check
// so the lookup sees bookings created earlier in the same transaction.
type ExistsFunc func(ctx context.Context, reference string) (bool, error)

// NewReference draws random 8-character references until one is not in
// use, retrying only on collision.  Business failures from exists are
// returned as-is.  After maxReferenceAttempts collisions it gives up
// with ErrReferenceExhausted.
func NewReference(ctx context.Context, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		ref, err := randomReference()
		if err != nil {
			return "", fmt.Errorf("generate reference: %w", err)
		}
		inUse, err := exists(ctx, ref)
		if err != nil {
			return "", fmt.Errorf("check reference: %w", err)
		}
		if !inUse {
			return ref, nil
		}
	}
	return "", ErrReferenceExhausted
}

// randomReference builds one candidate from crypto/rand.  Bytes >= 252
// are discarded rather than taken modulo 36, which would skew the
// distribution toward the start of the alphabet.
func randomReference() (string, error) {
	out := make([]byte, 0, referenceLength)
	buf := make([]byte, referenceLength)
	for len(out) < referenceLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if len(out) == referenceLength {
				break
			}
			if b >= 252 { // 252 = 36*7, the largest multiple of 36 below 256
				continue
			}
			out = append(out, referenceAlphabet[int(b)%len(referenceAlphabet)])
		}
	}
	return string(out), nil
}
