package cities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Ташкент", "ташкент"},
		{"country suffix dropped", "Ташкент, Узбекистан", "ташкент"},
		{"latin with region", "Samarkand, Samarqand viloyati, Uzbekistan", "samarkand"},
		{"whitespace collapsed", "  Нукус   сити  ", "нукус сити"},
		{"empty", "", ""},
		{"only comma", ",", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("Ташкент, Узбекистан", "ташкент"))
	assert.True(t, Equal("  САМАРКАНД ", "Самарканд"))
	assert.False(t, Equal("Ташкент", "Самарканд"))
}

func TestStandardize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"latin alias", "tashkent", "Ташкент"},
		{"uzbek latin alias", "Buxoro", "Бухара"},
		{"cyrillic uzbek spelling", "Тошкент", "Ташкент"},
		{"canonical passes through", "Фергана", "Фергана"},
		{"with country suffix", "Samarkand, Uzbekistan", "Самарканд"},
		{"unknown city unchanged", "Unknown City", "Unknown City"},
		{"unknown keeps casing, drops suffix", "Some Town, Somewhere", "Some Town"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Standardize(tt.input))
		})
	}
}

func TestAll(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)

	for _, c := range all {
		assert.NotEmpty(t, c.Name)
		assert.NotZero(t, c.Lat)
		assert.NotZero(t, c.Lng)
	}

	// Returned slice is a copy; mutating it must not affect the registry.
	all[0].Name = "mutated"
	assert.NotEqual(t, "mutated", All()[0].Name)
}

func TestFind(t *testing.T) {
	c, ok := Find("toshkent")
	require.True(t, ok)
	assert.Equal(t, "Ташкент", c.Name)
	assert.InDelta(t, 41.2995, c.Lat, 0.001)

	_, ok = Find("Atlantis")
	assert.False(t, ok)
}
