package planner

import (
	"sort"

	"github.com/pkg/errors"
)

// wildcardPenaltyScale масштаб штрафа за вайлдкарды; штраф только разбивает близкие значения
const wildcardPenaltyScale = 0.001

const (
	StrategyGreedy = "greedy"
)

// Inventory рабочее состояние ресурсов одного расчета. Оптимизатор изменяет его на месте.
type Inventory struct {
	Gold      int
	Owned     map[string]int
	Levels    map[string]int
	Wildcards WildcardPool
}

// NewInventory создает независимую копию ресурсов игрока
func NewInventory(cards []Card, gold int, wildcards WildcardPool) *Inventory {
	inv := &Inventory{
		Gold:      gold,
		Owned:     make(map[string]int, len(cards)),
		Levels:    make(map[string]int, len(cards)),
		Wildcards: wildcards.Clone(),
	}
	for _, card := range cards {
		inv.Owned[card.Name] = card.Count
		inv.Levels[card.Name] = card.TrueLevel
	}
	return inv
}

// Selection принятый шаг и распределение потраченных карт
type Selection struct {
	Step         UpgradeStep
	UsedOwned    int
	UsedWildcard int
}

// Outcome результат работы оптимизатора
type Outcome struct {
	Selections       []Selection
	ExperienceGained int
	GoldSpent        int
}

// Optimizer выбирает шаги улучшений в рамках ресурсов инвентаря
type Optimizer interface {
	Optimize(steps []UpgradeStep, inv *Inventory, targetExp int) (*Outcome, error)
}

// Options настройки расчета плана
type Options struct {
	// Strategy имя стратегии, пустое значение означает greedy
	Strategy string
	// EnforceSequence запрещает принимать шаг карты, если предыдущий уровень этой карты не был принят
	EnforceSequence bool
}

// NewOptimizer создает оптимизатор по настройкам
func NewOptimizer(opts Options) (Optimizer, error) {
	switch opts.Strategy {
	case "", StrategyGreedy:
		return &GreedyOptimizer{EnforceSequence: opts.EnforceSequence}, nil
	default:
		return nil, errors.Wrapf(ErrMalformedInput, "unknown strategy %q", opts.Strategy)
	}
}

// ScoreSteps вычисляет эффективность каждого шага по стартовому состоянию ресурсов
func ScoreSteps(steps []UpgradeStep, owned map[string]int, wildcards WildcardPool) error {
	for i := range steps {
		step := &steps[i]
		if step.GoldCost <= 0 {
			return errors.Wrapf(ErrInvalidStepCost, "%s %d→%d costs %d gold",
				step.Card, step.FromLevel, step.ToLevel, step.GoldCost)
		}

		weight, ok := rarityWeights[step.Rarity]
		if !ok {
			return errors.Wrapf(ErrInvalidRarity, "step for %s has rarity %q", step.Card, step.Rarity)
		}

		stock := owned[step.Card] + wildcards[step.Rarity]
		if stock < 1 {
			stock = 1
		}
		penalty := weight * float64(step.CardsNeeded) / float64(stock)

		step.Efficiency = float64(step.ExpReward)/float64(step.GoldCost) - wildcardPenaltyScale*penalty
	}
	return nil
}

// GreedyOptimizer однопроходный жадный выбор шагов по убыванию эффективности
type GreedyOptimizer struct {
	EnforceSequence bool
}

// Optimize оценивает шаги, сортирует их и расходует ресурсы до достижения цели.
// Цель 0 означает отсутствие цели: шаги принимаются, пока хватает ресурсов.
func (g *GreedyOptimizer) Optimize(steps []UpgradeStep, inv *Inventory, targetExp int) (*Outcome, error) {
	if err := ScoreSteps(steps, inv.Owned, inv.Wildcards); err != nil {
		return nil, err
	}

	// Стабильная сортировка: при равной эффективности сохраняется порядок перечисления
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].Efficiency > steps[j].Efficiency
	})

	outcome := &Outcome{}

	for _, step := range steps {
		if inv.Gold < step.GoldCost {
			continue
		}

		if g.EnforceSequence && inv.Levels[step.Card] != step.FromLevel {
			continue
		}

		useOwned := step.CardsNeeded
		if owned := inv.Owned[step.Card]; owned < useOwned {
			useOwned = owned
		}
		useWild := step.CardsNeeded - useOwned

		if useWild > inv.Wildcards[step.Rarity] {
			continue
		}

		inv.Gold -= step.GoldCost
		inv.Wildcards[step.Rarity] -= useWild
		inv.Owned[step.Card] -= useOwned
		inv.Levels[step.Card] = step.ToLevel

		outcome.GoldSpent += step.GoldCost
		outcome.ExperienceGained += step.ExpReward
		outcome.Selections = append(outcome.Selections, Selection{
			Step:         step,
			UsedOwned:    useOwned,
			UsedWildcard: useWild,
		})

		if targetExp > 0 && outcome.ExperienceGained >= targetExp {
			break
		}
	}

	return outcome, nil
}
