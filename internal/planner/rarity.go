package planner

import (
	"strings"

	"github.com/pkg/errors"
)

// Rarity редкость карты
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
	RarityChampion  Rarity = "champion"
)

// Rarities перечисляет все редкости в порядке возрастания
var Rarities = []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary, RarityChampion}

// levelOffsets переводит уровень карты из шкалы редкости в единую шкалу
var levelOffsets = map[Rarity]int{
	RarityCommon:    0,
	RarityRare:      2,
	RarityEpic:      5,
	RarityLegendary: 8,
	RarityChampion:  10,
}

// rarityWeights веса дефицитности вайлдкардов по редкости
var rarityWeights = map[Rarity]float64{
	RarityCommon:    0.5,
	RarityRare:      1,
	RarityEpic:      2,
	RarityLegendary: 3,
	RarityChampion:  4,
}

// Valid проверяет, что редкость известна
func (r Rarity) Valid() bool {
	_, ok := levelOffsets[r]
	return ok
}

// ParseRarity разбирает тег редкости без учета регистра
func ParseRarity(s string) (Rarity, error) {
	r := Rarity(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", errors.Wrapf(ErrInvalidRarity, "unknown rarity %q", s)
	}
	return r, nil
}

// TrueLevel возвращает уровень карты в единой шкале для всех редкостей
func TrueLevel(displayed int, r Rarity) (int, error) {
	offset, ok := levelOffsets[r]
	if !ok {
		return 0, errors.Wrapf(ErrInvalidRarity, "unknown rarity %q", r)
	}
	return displayed + offset, nil
}

// WildcardPool запас вайлдкардов по редкостям
type WildcardPool map[Rarity]int

// Clone возвращает независимую копию пула
func (p WildcardPool) Clone() WildcardPool {
	clone := make(WildcardPool, len(p))
	for r, n := range p {
		clone[r] = n
	}
	return clone
}

// RawCard карта в том виде, в котором ее отдает провайдер данных игрока
type RawCard struct {
	Name   string
	Rarity string
	Level  int
	Count  int
}

// Card нормализованная карта игрока
type Card struct {
	Name      string
	Rarity    Rarity
	Count     int
	TrueLevel int
}

// NormalizeCards переводит снимок карт игрока в единую шкалу уровней
func NormalizeCards(raw []RawCard) ([]Card, error) {
	cards := make([]Card, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, rc := range raw {
		if rc.Name == "" {
			return nil, errors.Wrap(ErrMalformedInput, "card without name")
		}
		if _, dup := seen[rc.Name]; dup {
			return nil, errors.Wrapf(ErrMalformedInput, "duplicate card %q", rc.Name)
		}
		seen[rc.Name] = struct{}{}

		if rc.Count < 0 {
			return nil, errors.Wrapf(ErrMalformedInput, "card %q has negative count %d", rc.Name, rc.Count)
		}
		if rc.Level < 1 {
			return nil, errors.Wrapf(ErrMalformedInput, "card %q has level %d", rc.Name, rc.Level)
		}

		rarity, err := ParseRarity(rc.Rarity)
		if err != nil {
			return nil, errors.Wrapf(err, "card %q", rc.Name)
		}

		level, err := TrueLevel(rc.Level, rarity)
		if err != nil {
			return nil, err
		}

		cards = append(cards, Card{
			Name:      rc.Name,
			Rarity:    rarity,
			Count:     rc.Count,
			TrueLevel: level,
		})
	}

	return cards, nil
}
