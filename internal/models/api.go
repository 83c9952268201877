package models

import (
	"github.com/google/uuid"
	"github.com/shard-legends/upgrade-planner-service/internal/planner"
)

// Resources золото и вайлдкарды игрока
type Resources struct {
	TotalGold          int `json:"total_gold" validate:"min=0"`
	CommonWildcards    int `json:"common_wildcards" validate:"min=0"`
	RareWildcards      int `json:"rare_wildcards" validate:"min=0"`
	EpicWildcards      int `json:"epic_wildcards" validate:"min=0"`
	LegendaryWildcards int `json:"legendary_wildcards" validate:"min=0"`
	ChampionWildcards  int `json:"champion_wildcards" validate:"min=0"`
}

// WildcardPool возвращает вайлдкарды по редкостям
func (r Resources) WildcardPool() planner.WildcardPool {
	return planner.WildcardPool{
		planner.RarityCommon:    r.CommonWildcards,
		planner.RarityRare:      r.RareWildcards,
		planner.RarityEpic:      r.EpicWildcards,
		planner.RarityLegendary: r.LegendaryWildcards,
		planner.RarityChampion:  r.ChampionWildcards,
	}
}

// PlayerPlanRequest представляет запрос POST /planner/upgrade-plan
type PlayerPlanRequest struct {
	PlayerTag string `json:"player_tag" validate:"required,max=20"`
	Resources
	SequentialUpgrades *bool `json:"sequential_upgrades,omitempty"`
}

// SnapshotPlanRequest представляет запрос POST /planner/upgrade-plan/snapshot
type SnapshotPlanRequest struct {
	PlayerName string `json:"player_name,omitempty" validate:"max=64"`
	Resources
	AccountLevel       int            `json:"account_level" validate:"min=0"`
	AccountExperience  int            `json:"account_experience" validate:"min=0"`
	TargetXP           *int           `json:"target_xp,omitempty" validate:"omitempty,min=0"`
	Cards              []SnapshotCard `json:"cards" validate:"max=500,dive"`
	SequentialUpgrades *bool          `json:"sequential_upgrades,omitempty"`
}

// SnapshotCard карта из переданного клиентом снимка коллекции
type SnapshotCard struct {
	Name   string `json:"name" validate:"required,max=64"`
	Rarity string `json:"rarity" validate:"required"`
	Level  int    `json:"level" validate:"min=1"`
	Count  int    `json:"count" validate:"min=0"`
}

// RawCards возвращает карты снимка в виде входа нормализатора
func (r *SnapshotPlanRequest) RawCards() []planner.RawCard {
	raw := make([]planner.RawCard, 0, len(r.Cards))
	for _, c := range r.Cards {
		raw = append(raw, planner.RawCard{
			Name:   c.Name,
			Rarity: c.Rarity,
			Level:  c.Level,
			Count:  c.Count,
		})
	}
	return raw
}

// UpgradePlanResponse представляет ответ с планом улучшений
type UpgradePlanResponse struct {
	PlanID             uuid.UUID      `json:"plan_id"`
	Player             string         `json:"player"`
	PlayerTag          string         `json:"player_tag,omitempty"`
	AccountLevel       int            `json:"account_level"`
	TargetXP           int            `json:"target_xp"`
	XPGained           int            `json:"xp_gained"`
	GoldSpent          int            `json:"gold_spent"`
	GoldLeft           int            `json:"gold_left"`
	TargetReached      bool           `json:"target_reached"`
	WildcardsLeft      map[string]int `json:"wildcards_left"`
	Strategy           string         `json:"strategy"`
	SequentialUpgrades bool           `json:"sequential_upgrades"`
	Plan               []PlanStep     `json:"plan"`
}

// PlanStep шаг плана в ответе API
type PlanStep struct {
	Card           string  `json:"card"`
	FromTo         string  `json:"from_to"`
	FromLevel      int     `json:"from_level"`
	ToLevel        int     `json:"to_level"`
	Rarity         string  `json:"rarity"`
	Gold           int     `json:"gold"`
	XP             int     `json:"xp"`
	CardsOwnedUsed int     `json:"cards_owned_used"`
	WildcardsUsed  int     `json:"wildcards_used"`
	Efficiency     float64 `json:"efficiency"`
}

// TablesResponse представляет ответ GET /planner/tables
type TablesResponse struct {
	ExperienceLevels map[int]int       `json:"experience_levels"`
	CardRequirements map[string][]int  `json:"card_requirements"`
	LevelProgression []ProgressionStep `json:"level_progression"`
	MaxLevels        map[string]int    `json:"max_levels"`
}

// ProgressionStep стоимость и награда одного шага прокачки
type ProgressionStep struct {
	Level int `json:"level"`
	Gold  int `json:"gold"`
	Exp   int `json:"exp"`
}

// ErrorResponse представляет стандартный ответ с ошибкой
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationFieldError представляет ошибку валидации поля
type ValidationFieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// Constants для ошибок
const (
	ErrorCodeValidation      = "validation_error"
	ErrorCodeBadRequest      = "bad_request"
	ErrorCodeInvalidRarity   = "invalid_rarity"
	ErrorCodeInvalidTag      = "invalid_player_tag"
	ErrorCodePlayerNotFound  = "player_not_found"
	ErrorCodeUpstream        = "player_api_unavailable"
	ErrorCodeReferenceTables = "invalid_reference_tables"
	ErrorCodeInternalError   = "internal_error"
)
