package storage

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/shard-legends/upgrade-planner-service/internal/planner"
	"gopkg.in/yaml.v3"
)

//go:embed default_tables.yaml
var defaultTablesYAML []byte

// tablesDocument YAML представление справочных таблиц
type tablesDocument struct {
	ExperienceLevels map[int]int           `yaml:"experience_levels"`
	CardRequirements map[string][]int      `yaml:"card_requirements"`
	LevelProgression []progressionDocument `yaml:"level_progression"`
}

type progressionDocument struct {
	Level int `yaml:"level"`
	Gold  int `yaml:"gold"`
	Exp   int `yaml:"exp"`
}

// fileTableSource читает таблицы из YAML файла или из встроенных данных
type fileTableSource struct {
	path string
}

// NewFileTableSource создает источник таблиц из файла. Пустой путь означает встроенные таблицы.
func NewFileTableSource(path string) TableSource {
	return &fileTableSource{path: path}
}

// LoadTables читает и проверяет таблицы
func (s *fileTableSource) LoadTables(ctx context.Context) (*planner.Tables, error) {
	data := defaultTablesYAML
	if s.path != "" {
		raw, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read tables file %s: %w", s.path, err)
		}
		data = raw
	}

	return ParseTables(data)
}

// ParseTables разбирает YAML документ с таблицами
func ParseTables(data []byte) (*planner.Tables, error) {
	var doc tablesDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse tables: %w", err)
	}

	tables := &planner.Tables{
		Experience:   planner.ExperienceTable(doc.ExperienceLevels),
		Requirements: make(planner.LevelRequirementTable, len(doc.CardRequirements)),
		Progression:  make(planner.ProgressionTable, 0, len(doc.LevelProgression)),
	}
	if tables.Experience == nil {
		tables.Experience = planner.ExperienceTable{}
	}

	for name, reqs := range doc.CardRequirements {
		rarity, err := planner.ParseRarity(name)
		if err != nil {
			return nil, fmt.Errorf("card_requirements: %w", err)
		}
		tables.Requirements[rarity] = reqs
	}

	for _, p := range doc.LevelProgression {
		tables.Progression = append(tables.Progression, planner.ProgressionStep{
			Level: p.Level,
			Gold:  p.Gold,
			Exp:   p.Exp,
		})
	}

	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tables: %w", err)
	}

	return tables, nil
}
