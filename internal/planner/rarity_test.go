package planner

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrueLevel(t *testing.T) {
	tests := []struct {
		name      string
		displayed int
		rarity    Rarity
		expected  int
	}{
		{name: "common", displayed: 1, rarity: RarityCommon, expected: 1},
		{name: "rare", displayed: 1, rarity: RarityRare, expected: 3},
		{name: "epic", displayed: 4, rarity: RarityEpic, expected: 9},
		{name: "legendary", displayed: 5, rarity: RarityLegendary, expected: 13},
		{name: "champion", displayed: 2, rarity: RarityChampion, expected: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := TrueLevel(tt.displayed, tt.rarity)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)

			// Повторный вызов дает тот же результат
			again, err := TrueLevel(tt.displayed, tt.rarity)
			require.NoError(t, err)
			assert.Equal(t, level, again)
		})
	}
}

func TestTrueLevel_UnknownRarity(t *testing.T) {
	_, err := TrueLevel(3, Rarity("mythic"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRarity))
}

func TestParseRarity(t *testing.T) {
	r, err := ParseRarity("  Legendary ")
	require.NoError(t, err)
	assert.Equal(t, RarityLegendary, r)

	_, err = ParseRarity("")
	assert.True(t, errors.Is(err, ErrInvalidRarity))
}

func TestNormalizeCards(t *testing.T) {
	cards, err := NormalizeCards([]RawCard{
		{Name: "Knight", Rarity: "common", Level: 11, Count: 120},
		{Name: "Musketeer", Rarity: "Rare", Level: 9, Count: 40},
		{Name: "The Log", Rarity: "legendary", Level: 5, Count: 1},
	})
	require.NoError(t, err)
	require.Len(t, cards, 3)

	assert.Equal(t, Card{Name: "Knight", Rarity: RarityCommon, Count: 120, TrueLevel: 11}, cards[0])
	assert.Equal(t, Card{Name: "Musketeer", Rarity: RarityRare, Count: 40, TrueLevel: 11}, cards[1])
	assert.Equal(t, Card{Name: "The Log", Rarity: RarityLegendary, Count: 1, TrueLevel: 13}, cards[2])
}

func TestNormalizeCards_Errors(t *testing.T) {
	tests := []struct {
		name     string
		cards    []RawCard
		expected error
	}{
		{
			name:     "negative count",
			cards:    []RawCard{{Name: "Knight", Rarity: "common", Level: 1, Count: -1}},
			expected: ErrMalformedInput,
		},
		{
			name:     "zero level",
			cards:    []RawCard{{Name: "Knight", Rarity: "common", Level: 0}},
			expected: ErrMalformedInput,
		},
		{
			name: "duplicate name",
			cards: []RawCard{
				{Name: "Knight", Rarity: "common", Level: 1},
				{Name: "Knight", Rarity: "common", Level: 2},
			},
			expected: ErrMalformedInput,
		},
		{
			name:     "missing name",
			cards:    []RawCard{{Rarity: "common", Level: 1}},
			expected: ErrMalformedInput,
		},
		{
			name:     "unknown rarity",
			cards:    []RawCard{{Name: "Knight", Rarity: "mythic", Level: 1}},
			expected: ErrInvalidRarity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeCards(tt.cards)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.expected), "got %v", err)
		})
	}
}

func TestWildcardPool_Clone(t *testing.T) {
	pool := WildcardPool{RarityCommon: 5, RarityEpic: 1}
	clone := pool.Clone()
	clone[RarityCommon] = 0

	assert.Equal(t, 5, pool[RarityCommon])
	assert.Equal(t, 1, clone[RarityEpic])
}
