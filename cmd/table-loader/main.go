package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shard-legends/upgrade-planner-service/internal/config"
	"github.com/shard-legends/upgrade-planner-service/internal/planner"
	"github.com/shard-legends/upgrade-planner-service/internal/storage"
	"github.com/spf13/pflag"
)

const schemaDDL = `
CREATE SCHEMA IF NOT EXISTS planner;

CREATE TABLE IF NOT EXISTS planner.experience_levels (
	level      INTEGER PRIMARY KEY CHECK (level >= 1),
	experience INTEGER NOT NULL CHECK (experience >= 0)
);

CREATE TABLE IF NOT EXISTS planner.card_requirements (
	rarity_code    TEXT    NOT NULL,
	from_level     INTEGER NOT NULL CHECK (from_level >= 1),
	cards_required INTEGER NOT NULL CHECK (cards_required >= 0),
	PRIMARY KEY (rarity_code, from_level)
);

CREATE TABLE IF NOT EXISTS planner.level_progression (
	level      INTEGER PRIMARY KEY CHECK (level >= 1),
	gold_cost  INTEGER NOT NULL CHECK (gold_cost > 0),
	exp_reward INTEGER NOT NULL CHECK (exp_reward >= 0)
);
`

// ImportStats counts inserted rows per table
type ImportStats struct {
	experienceRows  int
	requirementRows int
	progressionRows int
}

// requirementRow is one row of planner.card_requirements
type requirementRow struct {
	rarity    planner.Rarity
	fromLevel int
	required  int
}

// requirementRows flattens the requirement table in a stable order
func requirementRows(tables *planner.Tables) []requirementRow {
	var rows []requirementRow
	for _, rarity := range planner.Rarities {
		for i, n := range tables.Requirements[rarity] {
			rows = append(rows, requirementRow{rarity: rarity, fromLevel: i + 1, required: n})
		}
	}
	return rows
}

// sortedLevels returns experience table levels in ascending order
func sortedLevels(table planner.ExperienceTable) []int {
	levels := make([]int, 0, len(table))
	for level := range table {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	return levels
}

// replaceTables replaces all reference tables in a single transaction
func replaceTables(ctx context.Context, pool *pgxpool.Pool, tables *planner.Tables) (*ImportStats, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("tx begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, schemaDDL); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.Exec(ctx, `TRUNCATE planner.experience_levels, planner.card_requirements, planner.level_progression`); err != nil {
		return nil, fmt.Errorf("truncate: %w", err)
	}

	stats := &ImportStats{}
	batch := &pgx.Batch{}

	for _, level := range sortedLevels(tables.Experience) {
		batch.Queue(`INSERT INTO planner.experience_levels (level, experience) VALUES ($1, $2)`, level, tables.Experience[level])
		stats.experienceRows++
	}
	for _, row := range requirementRows(tables) {
		batch.Queue(`INSERT INTO planner.card_requirements (rarity_code, from_level, cards_required) VALUES ($1, $2, $3)`,
			string(row.rarity), row.fromLevel, row.required)
		stats.requirementRows++
	}
	for _, step := range tables.Progression {
		batch.Queue(`INSERT INTO planner.level_progression (level, gold_cost, exp_reward) VALUES ($1, $2, $3)`,
			step.Level, step.Gold, step.Exp)
		stats.progressionRows++
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("insert rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("tx commit: %w", err)
	}
	return stats, nil
}

func main() {
	_ = godotenv.Load()

	tablesFile := pflag.String("file", "", "reference tables YAML (embedded defaults when empty)")
	dsn := pflag.String("dsn", os.Getenv(config.EnvName("database.url")), "PostgreSQL DSN")
	pflag.Parse()

	if *dsn == "" {
		log.Fatalf("database DSN is required (--dsn or %s)", config.EnvName("database.url"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	tables, err := storage.NewFileTableSource(*tablesFile).LoadTables(ctx)
	if err != nil {
		log.Fatalf("load tables: %v", err)
	}

	pool, err := pgxpool.New(ctx, *dsn)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	stats, err := replaceTables(ctx, pool, tables)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	log.Printf("Imported %d experience levels, %d card requirements, %d progression steps",
		stats.experienceRows, stats.requirementRows, stats.progressionRows)
}
