package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReadingKind(t *testing.T) {
	tests := []struct {
		in   string
		want ReadingKind
	}{
		{"coffee", KindCoffee},
		{"palm", KindPalm},
		{"kahve", KindCoffee},
		{"el", KindPalm},
	}
	for _, tt := range tests {
		got, err := ParseReadingKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseReadingKind("all")
	assert.ErrorIs(t, err, ErrUnknownKind)
	_, err = ParseReadingKind("")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestParseKindFilter(t *testing.T) {
	k, err := ParseKindFilter("")
	require.NoError(t, err)
	assert.Equal(t, KindAll, k)

	k, err = ParseKindFilter("all")
	require.NoError(t, err)
	assert.Equal(t, KindAll, k)

	k, err = ParseKindFilter("el")
	require.NoError(t, err)
	assert.Equal(t, KindPalm, k)

	_, err = ParseKindFilter("tarot")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestReadingKind_Title(t *testing.T) {
	assert.Equal(t, "Kahve Falı", KindCoffee.Title())
	assert.Equal(t, "El Falı", KindPalm.Title())
}
