package planner

import (
	"math"

	"github.com/pkg/errors"
)

// PlanEntry принятый шаг плана в порядке принятия
type PlanEntry struct {
	Card              string
	Rarity            Rarity
	FromLevel         int
	ToLevel           int
	GoldCost          int
	ExpReward         int
	CardsNeeded       int
	CardsUsedOwned    int
	CardsUsedWildcard int
	Efficiency        float64
}

// Result план улучшений и итоговые суммы
type Result struct {
	ExperienceGained int
	GoldSpent        int
	GoldLeft         int
	TargetExperience int
	TargetReached    bool
	WildcardsLeft    WildcardPool
	Plan             []PlanEntry
}

// ComputePlan строит план улучшений карт. Входные карты и пул вайлдкардов не изменяются.
func ComputePlan(cards []Card, goldBudget int, wildcards WildcardPool, targetExp int, tables *Tables, opts Options) (*Result, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	if err := validateInput(cards, goldBudget, wildcards, targetExp); err != nil {
		return nil, err
	}

	optimizer, err := NewOptimizer(opts)
	if err != nil {
		return nil, err
	}

	steps := EnumerateSteps(cards, wildcards, tables)
	inv := NewInventory(cards, goldBudget, wildcards)

	outcome, err := optimizer.Optimize(steps, inv, targetExp)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ExperienceGained: outcome.ExperienceGained,
		GoldSpent:        outcome.GoldSpent,
		GoldLeft:         inv.Gold,
		TargetExperience: targetExp,
		TargetReached:    outcome.ExperienceGained >= targetExp,
		WildcardsLeft:    inv.Wildcards,
		Plan:             make([]PlanEntry, 0, len(outcome.Selections)),
	}

	for _, sel := range outcome.Selections {
		result.Plan = append(result.Plan, PlanEntry{
			Card:              sel.Step.Card,
			Rarity:            sel.Step.Rarity,
			FromLevel:         sel.Step.FromLevel,
			ToLevel:           sel.Step.ToLevel,
			GoldCost:          sel.Step.GoldCost,
			ExpReward:         sel.Step.ExpReward,
			CardsNeeded:       sel.Step.CardsNeeded,
			CardsUsedOwned:    sel.UsedOwned,
			CardsUsedWildcard: sel.UsedWildcard,
			Efficiency:        roundEfficiency(sel.Step.Efficiency),
		})
	}

	return result, nil
}

func validateInput(cards []Card, goldBudget int, wildcards WildcardPool, targetExp int) error {
	if goldBudget < 0 {
		return errors.Wrapf(ErrMalformedInput, "negative gold budget %d", goldBudget)
	}
	if targetExp < 0 {
		return errors.Wrapf(ErrMalformedInput, "negative target experience %d", targetExp)
	}

	for rarity, n := range wildcards {
		if !rarity.Valid() {
			return errors.Wrapf(ErrInvalidRarity, "wildcards for %q", rarity)
		}
		if n < 0 {
			return errors.Wrapf(ErrMalformedInput, "negative %s wildcards %d", rarity, n)
		}
	}

	seen := make(map[string]struct{}, len(cards))
	for _, card := range cards {
		if _, dup := seen[card.Name]; dup {
			return errors.Wrapf(ErrMalformedInput, "duplicate card %q", card.Name)
		}
		seen[card.Name] = struct{}{}

		if !card.Rarity.Valid() {
			return errors.Wrapf(ErrInvalidRarity, "card %q has rarity %q", card.Name, card.Rarity)
		}
		if card.Count < 0 {
			return errors.Wrapf(ErrMalformedInput, "card %q has negative count %d", card.Name, card.Count)
		}
		if card.TrueLevel < 1 {
			return errors.Wrapf(ErrMalformedInput, "card %q has level %d", card.Name, card.TrueLevel)
		}
	}

	return nil
}

func roundEfficiency(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
