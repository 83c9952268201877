package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/shard-legends/upgrade-planner-service/internal/planner"
)

// postgresTableSource читает справочные таблицы из схемы planner
type postgresTableSource struct {
	db      DatabaseInterface
	metrics MetricsInterface
}

// NewPostgresTableSource создает источник таблиц из PostgreSQL
func NewPostgresTableSource(deps *RepositoryDependencies) TableSource {
	return &postgresTableSource{
		db:      deps.DB,
		metrics: deps.MetricsCollector,
	}
}

// LoadTables загружает все три таблицы и проверяет их целостность
func (s *postgresTableSource) LoadTables(ctx context.Context) (*planner.Tables, error) {
	experience, err := s.loadExperience(ctx)
	if err != nil {
		return nil, err
	}

	requirements, err := s.loadRequirements(ctx)
	if err != nil {
		return nil, err
	}

	progression, err := s.loadProgression(ctx)
	if err != nil {
		return nil, err
	}

	tables := &planner.Tables{
		Experience:   experience,
		Requirements: requirements,
		Progression:  progression,
	}
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tables in database: %w", err)
	}

	return tables, nil
}

// observe учитывает запрос в метриках
func (s *postgresTableSource) observe(operation string) func() {
	if s.metrics == nil {
		return func() {}
	}
	start := time.Now()
	s.metrics.IncDBQuery(operation)
	return func() {
		s.metrics.ObserveDBQueryDuration(operation, time.Since(start))
	}
}

func (s *postgresTableSource) loadExperience(ctx context.Context) (planner.ExperienceTable, error) {
	defer s.observe("load_experience_levels")()

	rows, err := s.db.Query(ctx, `
		SELECT level, experience
		FROM planner.experience_levels
		ORDER BY level
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query experience levels: %w", err)
	}
	defer rows.Close()

	table := planner.ExperienceTable{}
	for rows.Next() {
		var level, experience int
		if err := rows.Scan(&level, &experience); err != nil {
			return nil, fmt.Errorf("failed to scan experience level: %w", err)
		}
		table[level] = experience
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return table, nil
}

func (s *postgresTableSource) loadRequirements(ctx context.Context) (planner.LevelRequirementTable, error) {
	defer s.observe("load_card_requirements")()

	rows, err := s.db.Query(ctx, `
		SELECT rarity_code, from_level, cards_required
		FROM planner.card_requirements
		ORDER BY rarity_code, from_level
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query card requirements: %w", err)
	}
	defer rows.Close()

	table := planner.LevelRequirementTable{}
	for rows.Next() {
		var code string
		var fromLevel, required int
		if err := rows.Scan(&code, &fromLevel, &required); err != nil {
			return nil, fmt.Errorf("failed to scan card requirement: %w", err)
		}

		rarity, err := planner.ParseRarity(code)
		if err != nil {
			return nil, fmt.Errorf("card requirement: %w", err)
		}

		// Уровни должны идти подряд, начиная с 1
		if expected := len(table[rarity]) + 1; fromLevel != expected {
			return nil, fmt.Errorf("card requirement for %s: expected level %d, got %d", rarity, expected, fromLevel)
		}
		table[rarity] = append(table[rarity], required)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return table, nil
}

func (s *postgresTableSource) loadProgression(ctx context.Context) (planner.ProgressionTable, error) {
	defer s.observe("load_level_progression")()

	rows, err := s.db.Query(ctx, `
		SELECT level, gold_cost, exp_reward
		FROM planner.level_progression
		ORDER BY level
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query level progression: %w", err)
	}
	defer rows.Close()

	var table planner.ProgressionTable
	for rows.Next() {
		var step planner.ProgressionStep
		if err := rows.Scan(&step.Level, &step.Gold, &step.Exp); err != nil {
			return nil, fmt.Errorf("failed to scan level progression: %w", err)
		}
		table = append(table, step)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return table, nil
}
