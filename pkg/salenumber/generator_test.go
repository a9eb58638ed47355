package salenumber

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNext_Length(t *testing.T) {
	gen := New()
	for i := 0; i < 100; i++ {
		number := gen.Next()
		if len(number) != Length {
			t.Fatalf("expected length %d, got %d (%q)", Length, len(number), number)
		}
	}
}

func TestNext_Uppercase(t *testing.T) {
	gen := New()
	number := gen.Next()
	assert.Equal(t, strings.ToUpper(number), number)
}

func TestNext_Deterministic(t *testing.T) {
	now := func() time.Time { return time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC) }

	genA := NewWithSources(now, bytes.NewReader([]byte{0xAB, 0xCD, 0xEF, 0x01}))
	genB := NewWithSources(now, bytes.NewReader([]byte{0xAB, 0xCD, 0xEF, 0x01}))

	a := genA.Next()
	b := genB.Next()

	assert.Equal(t, a, b)
	assert.Len(t, a, Length)
}

func TestNext_DifferentTokensDiffer(t *testing.T) {
	now := func() time.Time { return time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC) }

	a := NewWithSources(now, bytes.NewReader([]byte{0xAA, 0x00, 0x00, 0x00})).Next()
	b := NewWithSources(now, bytes.NewReader([]byte{0xBB, 0x00, 0x00, 0x00})).Next()

	assert.NotEqual(t, a, b)
}
