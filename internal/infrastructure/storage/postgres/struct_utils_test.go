package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"salesdesk/internal/core/entity"
	"salesdesk/internal/core/id"
)

type MockDocument struct {
	entity.BaseDocument
	Number   string    `db:"number" json:"number"`
	Customer string    `db:"customer" json:"customer"`
	Date     time.Time `db:"date" json:"date"`
	Ignored  string    `db:"-" json:"ignored"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[MockDocument]()

	expectedCols := []string{
		"id", "deletion_mark", "version", "created_at", "updated_at",
		"number", "customer", "date",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "-")
	assert.NotContains(t, cols, "ignored")
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	doc := MockDocument{
		BaseDocument: entity.BaseDocument{
			BaseEntity: entity.BaseEntity{
				ID:           id.New(),
				DeletionMark: true,
				Version:      5,
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		Number:   "SAL0000001",
		Customer: "ACME Corp",
		Date:     now,
	}

	m := StructToMap(doc)

	assert.Equal(t, doc.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, "SAL0000001", m["number"])
	assert.Equal(t, "ACME Corp", m["customer"])
	assert.NotContains(t, m, "-")
}

func TestStructToMap_Pointer(t *testing.T) {
	doc := &MockDocument{Number: "SAL0000002"}
	m := StructToMap(doc)
	assert.Equal(t, "SAL0000002", m["number"])
}
