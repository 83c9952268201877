package models

import (
	"github.com/shard-legends/upgrade-planner-service/internal/planner"
)

// PlayerSnapshot профиль игрока в формате публичного API игры
type PlayerSnapshot struct {
	Tag       string       `json:"tag"`
	Name      string       `json:"name"`
	ExpLevel  int          `json:"expLevel"`
	ExpPoints int          `json:"expPoints"`
	Cards     []PlayerCard `json:"cards"`
}

// PlayerCard карта из коллекции игрока. Level отображаемый, относительно редкости.
type PlayerCard struct {
	Name     string `json:"name"`
	Level    int    `json:"level"`
	MaxLevel int    `json:"maxLevel"`
	Count    int    `json:"count"`
	Rarity   string `json:"rarity"`
}

// RawCards возвращает карты игрока в виде входа нормализатора
func (p *PlayerSnapshot) RawCards() []planner.RawCard {
	raw := make([]planner.RawCard, 0, len(p.Cards))
	for _, c := range p.Cards {
		raw = append(raw, planner.RawCard{
			Name:   c.Name,
			Rarity: c.Rarity,
			Level:  c.Level,
			Count:  c.Count,
		})
	}
	return raw
}
