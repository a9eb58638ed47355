// Package salenumber generates human-readable sale numbers.
//
// A sale number is derived from the current UTC timestamp plus a random
// token, truncated to exactly 10 characters. It is assigned once at
// creation and never regenerated for an existing sale.
package salenumber

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"strconv"
	"strings"
	"time"
)

// Length is the exact length of every generated sale number.
const Length = 10

// Generator produces sale numbers for newly created sales.
type Generator interface {
	Next() string
}

// Service is the default Generator. The clock and randomness source are
// injectable so tests can pin both.
type Service struct {
	now  func() time.Time
	rand io.Reader
}

// New creates a Service using the system clock and crypto/rand.
func New() *Service {
	return NewWithSources(time.Now, rand.Reader)
}

// NewWithSources creates a Service with explicit clock and randomness.
func NewWithSources(now func() time.Time, r io.Reader) *Service {
	return &Service{now: now, rand: r}
}

// Next returns a new 10-character sale number.
// The prefix encodes the UTC unix timestamp in base36 so numbers sort
// roughly by creation time; the random suffix disambiguates sales created
// within the same second.
func (s *Service) Next() string {
	ts := strconv.FormatInt(s.now().UTC().Unix(), 36)

	buf := make([]byte, 4)
	if _, err := io.ReadFull(s.rand, buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to
		// a timestamp-only suffix rather than returning an error here.
		buf = []byte{0, 0, 0, 0}
	}
	token := hex.EncodeToString(buf)

	number := strings.ToUpper(ts + token)
	return number[:Length]
}
