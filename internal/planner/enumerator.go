package planner

// UpgradeStep кандидат на повышение уровня карты на единицу
type UpgradeStep struct {
	Card        string
	Rarity      Rarity
	FromLevel   int
	ToLevel     int
	CardsNeeded int
	GoldCost    int
	ExpReward   int
	Efficiency  float64
}

// EnumerateSteps перечисляет все шаги, достижимые для каждой карты, если она первой
// претендует на текущий пул вайлдкардов своей редкости. Состояние карт и пула не меняется.
// Шаги одной карты идут подряд в порядке возрастания уровня.
func EnumerateSteps(cards []Card, wildcards WildcardPool, tables *Tables) []UpgradeStep {
	var steps []UpgradeStep

	for _, card := range cards {
		reqs := tables.Requirements[card.Rarity]
		maxLevel := tables.MaxLevel(card.Rarity)
		available := card.Count + wildcards[card.Rarity]

		for level := card.TrueLevel; level >= 1 && level < maxLevel; level++ {
			need := reqs[level-1]
			if available < need {
				break
			}

			progression := tables.Progression[level-1]
			steps = append(steps, UpgradeStep{
				Card:        card.Name,
				Rarity:      card.Rarity,
				FromLevel:   level,
				ToLevel:     level + 1,
				CardsNeeded: need,
				GoldCost:    progression.Gold,
				ExpReward:   progression.Exp,
			})
			available -= need
		}
	}

	return steps
}
