package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shard-legends/upgrade-planner-service/internal/models"
	"github.com/shard-legends/upgrade-planner-service/internal/planner"
	"github.com/shard-legends/upgrade-planner-service/pkg/metrics"
	"go.uber.org/zap"
)

// Источники входных данных плана (метка метрик)
const (
	SourcePlayer   = "player"
	SourceSnapshot = "snapshot"
)

type planService struct {
	tables  *planner.Tables
	players PlayerClient
	options planner.Options
	logger  *zap.Logger
}

// planInput нормализованный вход одного расчета
type planInput struct {
	source       string
	player       string
	playerTag    string
	accountLevel int
	cards        []planner.Card
	resources    models.Resources
	targetExp    int
	options      planner.Options
}

// NewPlanService создает сервис расчета планов
func NewPlanService(deps *ServiceDependencies) Planner {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &planService{
		tables:  deps.Tables,
		players: deps.Players,
		options: deps.Options,
		logger:  logger,
	}
}

// PlanForPlayer загружает профиль игрока и строит план до следующего уровня аккаунта
func (s *planService) PlanForPlayer(ctx context.Context, req *models.PlayerPlanRequest) (*models.UpgradePlanResponse, error) {
	if s.players == nil {
		metrics.RecordPlanFailure(SourcePlayer)
		return nil, fmt.Errorf("%w: player client is not configured", ErrPlayerAPI)
	}

	player, err := s.players.GetPlayer(ctx, req.PlayerTag)
	if err != nil {
		metrics.RecordPlanFailure(SourcePlayer)
		return nil, err
	}

	cards, err := planner.NormalizeCards(player.RawCards())
	if err != nil {
		metrics.RecordPlanFailure(SourcePlayer)
		return nil, fmt.Errorf("player %s: %w", player.Tag, err)
	}

	return s.compute(ctx, planInput{
		source:       SourcePlayer,
		player:       player.Name,
		playerTag:    player.Tag,
		accountLevel: player.ExpLevel,
		cards:        cards,
		resources:    req.Resources,
		targetExp:    planner.TargetExperience(s.tables.Experience, player.ExpLevel, player.ExpPoints),
		options:      s.optionsFor(req.SequentialUpgrades),
	})
}

// PlanForSnapshot строит план по снимку коллекции. Явный target_xp имеет приоритет над уровнем аккаунта.
func (s *planService) PlanForSnapshot(ctx context.Context, req *models.SnapshotPlanRequest) (*models.UpgradePlanResponse, error) {
	cards, err := planner.NormalizeCards(req.RawCards())
	if err != nil {
		metrics.RecordPlanFailure(SourceSnapshot)
		return nil, err
	}

	target := 0
	switch {
	case req.TargetXP != nil:
		target = *req.TargetXP
	case req.AccountLevel > 0:
		target = planner.TargetExperience(s.tables.Experience, req.AccountLevel, req.AccountExperience)
	}

	return s.compute(ctx, planInput{
		source:       SourceSnapshot,
		player:       req.PlayerName,
		accountLevel: req.AccountLevel,
		cards:        cards,
		resources:    req.Resources,
		targetExp:    target,
		options:      s.optionsFor(req.SequentialUpgrades),
	})
}

// ReferenceTables возвращает справочные таблицы в формате API
func (s *planService) ReferenceTables(ctx context.Context) *models.TablesResponse {
	resp := &models.TablesResponse{
		ExperienceLevels: make(map[int]int, len(s.tables.Experience)),
		CardRequirements: make(map[string][]int, len(s.tables.Requirements)),
		LevelProgression: make([]models.ProgressionStep, 0, len(s.tables.Progression)),
		MaxLevels:        make(map[string]int, len(planner.Rarities)),
	}

	for level, exp := range s.tables.Experience {
		resp.ExperienceLevels[level] = exp
	}
	for _, rarity := range planner.Rarities {
		reqs := s.tables.Requirements[rarity]
		resp.CardRequirements[string(rarity)] = append([]int(nil), reqs...)
		resp.MaxLevels[string(rarity)] = s.tables.MaxLevel(rarity)
	}
	for _, step := range s.tables.Progression {
		resp.LevelProgression = append(resp.LevelProgression, models.ProgressionStep{
			Level: step.Level,
			Gold:  step.Gold,
			Exp:   step.Exp,
		})
	}

	return resp
}

func (s *planService) optionsFor(sequential *bool) planner.Options {
	opts := s.options
	if sequential != nil {
		opts.EnforceSequence = *sequential
	}
	return opts
}

func (s *planService) compute(ctx context.Context, in planInput) (*models.UpgradePlanResponse, error) {
	if err := ctx.Err(); err != nil {
		metrics.RecordPlanFailure(in.source)
		return nil, err
	}

	start := time.Now()
	result, err := planner.ComputePlan(in.cards, in.resources.TotalGold, in.resources.WildcardPool(), in.targetExp, s.tables, in.options)
	duration := time.Since(start)
	if err != nil {
		metrics.RecordPlanFailure(in.source)
		return nil, err
	}

	metrics.RecordPlan(in.source, result.TargetReached, len(result.Plan), result.ExperienceGained, duration.Seconds())

	strategy := in.options.Strategy
	if strategy == "" {
		strategy = planner.StrategyGreedy
	}

	resp := &models.UpgradePlanResponse{
		PlanID:             uuid.New(),
		Player:             in.player,
		PlayerTag:          in.playerTag,
		AccountLevel:       in.accountLevel,
		TargetXP:           result.TargetExperience,
		XPGained:           result.ExperienceGained,
		GoldSpent:          result.GoldSpent,
		GoldLeft:           result.GoldLeft,
		TargetReached:      result.TargetReached,
		WildcardsLeft:      make(map[string]int, len(planner.Rarities)),
		Strategy:           strategy,
		SequentialUpgrades: in.options.EnforceSequence,
		Plan:               make([]models.PlanStep, 0, len(result.Plan)),
	}

	for _, rarity := range planner.Rarities {
		resp.WildcardsLeft[string(rarity)] = result.WildcardsLeft[rarity]
	}

	for _, entry := range result.Plan {
		resp.Plan = append(resp.Plan, models.PlanStep{
			Card:           entry.Card,
			FromTo:         fmt.Sprintf("%d → %d", entry.FromLevel, entry.ToLevel),
			FromLevel:      entry.FromLevel,
			ToLevel:        entry.ToLevel,
			Rarity:         string(entry.Rarity),
			Gold:           entry.GoldCost,
			XP:             entry.ExpReward,
			CardsOwnedUsed: entry.CardsUsedOwned,
			WildcardsUsed:  entry.CardsUsedWildcard,
			Efficiency:     entry.Efficiency,
		})
	}

	s.logger.Info("Upgrade plan computed",
		zap.String("plan_id", resp.PlanID.String()),
		zap.String("source", in.source),
		zap.String("player_tag", in.playerTag),
		zap.Int("cards", len(in.cards)),
		zap.Int("steps", len(resp.Plan)),
		zap.Int("target_xp", resp.TargetXP),
		zap.Int("xp_gained", resp.XPGained),
		zap.Int("gold_spent", resp.GoldSpent),
		zap.Bool("target_reached", resp.TargetReached),
		zap.Duration("duration", duration),
	)

	return resp, nil
}
