package planner

import "github.com/pkg/errors"

var (
	// ErrInvalidRarity возвращается для неизвестного тега редкости
	ErrInvalidRarity = errors.New("invalid rarity")

	// ErrInvalidStepCost возвращается для шага с нулевой или отрицательной стоимостью в золоте
	ErrInvalidStepCost = errors.New("invalid step cost")

	// ErrMalformedInput возвращается для некорректных входных данных до начала расчета
	ErrMalformedInput = errors.New("malformed input")
)
