package planner

import (
	"github.com/pkg/errors"
)

// ExperienceTable опыт, необходимый для перехода на уровень аккаунта (ключ - целевой уровень).
// Отсутствие записи для следующего уровня означает, что аккаунт на максимальном уровне.
type ExperienceTable map[int]int

// LevelRequirementTable количество карт для перехода с уровня i на i+1, индекс from_level-1
type LevelRequirementTable map[Rarity][]int

// ProgressionStep стоимость и награда одного повышения уровня
type ProgressionStep struct {
	Level int
	Gold  int
	Exp   int
}

// ProgressionTable стоимость повышений, общая для всех редкостей, индекс from_level-1
type ProgressionTable []ProgressionStep

// Tables справочные таблицы планировщика. После загрузки не изменяются.
type Tables struct {
	Experience   ExperienceTable
	Requirements LevelRequirementTable
	Progression  ProgressionTable
}

// Validate проверяет целостность справочных таблиц
func (t *Tables) Validate() error {
	if t == nil {
		return errors.Wrap(ErrMalformedInput, "tables are not loaded")
	}

	for i, step := range t.Progression {
		if step.Level != i+1 {
			return errors.Wrapf(ErrMalformedInput, "progression entry %d has level %d", i, step.Level)
		}
		if step.Gold <= 0 {
			return errors.Wrapf(ErrInvalidStepCost, "progression level %d costs %d gold", step.Level, step.Gold)
		}
		if step.Exp < 0 {
			return errors.Wrapf(ErrMalformedInput, "progression level %d rewards %d exp", step.Level, step.Exp)
		}
	}

	for rarity, reqs := range t.Requirements {
		if !rarity.Valid() {
			return errors.Wrapf(ErrInvalidRarity, "requirements for %q", rarity)
		}
		for i, n := range reqs {
			if n < 0 {
				return errors.Wrapf(ErrMalformedInput, "%s requirement for level %d is %d", rarity, i+1, n)
			}
		}
	}

	for _, rarity := range Rarities {
		if _, ok := t.Requirements[rarity]; !ok {
			return errors.Wrapf(ErrMalformedInput, "missing requirements for %s", rarity)
		}
	}

	for level, exp := range t.Experience {
		if level < 1 || exp < 0 {
			return errors.Wrapf(ErrMalformedInput, "experience entry %d: %d", level, exp)
		}
	}

	return nil
}

// MaxLevel возвращает последний достижимый уровень для редкости
func (t *Tables) MaxLevel(r Rarity) int {
	limit := len(t.Requirements[r])
	if len(t.Progression) < limit {
		limit = len(t.Progression)
	}
	return limit + 1
}

// TargetExperience возвращает опыт, которого не хватает до следующего уровня аккаунта.
// Для максимального уровня возвращает 0.
func TargetExperience(table ExperienceTable, accountLevel, accountExp int) int {
	required, ok := table[accountLevel+1]
	if !ok {
		return 0
	}
	if remaining := required - accountExp; remaining > 0 {
		return remaining
	}
	return 0
}
