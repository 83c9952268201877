package planner

// referenceTables справочные данные игры для тестов
func referenceTables() *Tables {
	return &Tables{
		Experience: ExperienceTable{
			1: 20, 2: 50, 3: 50, 4: 50, 5: 80, 6: 120, 7: 125, 8: 130, 9: 145, 10: 200,
			11: 220, 12: 280, 13: 300, 14: 350, 15: 450,
		},
		Requirements: LevelRequirementTable{
			RarityCommon:    {2, 4, 10, 20, 50, 100, 200, 400, 800, 1000, 1500, 3000, 5000},
			RarityRare:      {0, 1, 2, 4, 10, 20, 50, 100, 200, 400, 500, 750, 1250},
			RarityEpic:      {0, 0, 0, 0, 1, 2, 4, 10, 20, 40, 50, 100, 200},
			RarityLegendary: {0, 0, 0, 0, 0, 0, 0, 1, 2, 4, 6, 10, 20},
			RarityChampion:  {0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 2, 8, 20},
		},
		Progression: ProgressionTable{
			{Level: 1, Gold: 5, Exp: 4},
			{Level: 2, Gold: 20, Exp: 5},
			{Level: 3, Gold: 50, Exp: 6},
			{Level: 4, Gold: 150, Exp: 10},
			{Level: 5, Gold: 400, Exp: 25},
			{Level: 6, Gold: 1000, Exp: 50},
			{Level: 7, Gold: 2000, Exp: 100},
			{Level: 8, Gold: 4000, Exp: 200},
			{Level: 9, Gold: 8000, Exp: 400},
			{Level: 10, Gold: 15000, Exp: 600},
			{Level: 11, Gold: 35000, Exp: 800},
			{Level: 12, Gold: 75000, Exp: 1600},
			{Level: 13, Gold: 100000, Exp: 2000},
		},
	}
}

// customTables строит таблицы с заданной прогрессией; требования для common заданы явно,
// для остальных редкостей нулевые той же длины
func customTables(progression ProgressionTable, common []int) *Tables {
	reqs := LevelRequirementTable{RarityCommon: common}
	for _, r := range Rarities[1:] {
		reqs[r] = make([]int, len(common))
	}
	return &Tables{
		Experience:   ExperienceTable{2: 100},
		Requirements: reqs,
		Progression:  progression,
	}
}

func emptyPool() WildcardPool {
	return WildcardPool{}
}
