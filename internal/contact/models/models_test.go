package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "helpapp/pkg/domain-errors"
)

func TestNewContact(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("trims and stamps", func(t *testing.T) {
		c, err := NewContact(Entry{Name: "  Mom ", Number: " +15550001 "}, SourceManual, now)
		require.NoError(t, err)
		assert.Equal(t, "Mom", c.Name)
		assert.Equal(t, "+15550001", c.Number)
		assert.Equal(t, SourceManual, c.Source)
		assert.Equal(t, now, c.CreatedAt)
		assert.False(t, c.ID.IsNil())
	})

	tests := []struct {
		name  string
		entry Entry
		src   Source
	}{
		{"blank name", Entry{Name: "  ", Number: "+15550001"}, SourceManual},
		{"letters in number", Entry{Name: "Dad", Number: "call me"}, SourceManual},
		{"empty number", Entry{Name: "Dad", Number: ""}, SourceImport},
		{"unknown source", Entry{Name: "Dad", Number: "555"}, Source("sim")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewContact(tt.entry, tt.src, now)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
	}
}
