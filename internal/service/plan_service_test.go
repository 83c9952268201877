package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shard-legends/upgrade-planner-service/internal/models"
	"github.com/shard-legends/upgrade-planner-service/internal/planner"
	"github.com/shard-legends/upgrade-planner-service/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockPlayerClient мок клиента API игроков
type MockPlayerClient struct {
	mock.Mock
}

func (m *MockPlayerClient) GetPlayer(ctx context.Context, tag string) (*models.PlayerSnapshot, error) {
	args := m.Called(ctx, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayerSnapshot), args.Error(1)
}

func loadDefaultTables(t *testing.T) *planner.Tables {
	t.Helper()
	tables, err := storage.NewFileTableSource("").LoadTables(context.Background())
	require.NoError(t, err)
	return tables
}

func newTestPlanner(t *testing.T, players PlayerClient, opts planner.Options) Planner {
	t.Helper()
	return NewService(&ServiceDependencies{
		Tables:  loadDefaultTables(t),
		Players: players,
		Options: opts,
		Logger:  zap.NewNop(),
	}).Planner
}

func knightPlayer() *models.PlayerSnapshot {
	return &models.PlayerSnapshot{
		Tag:       "#2PP",
		Name:      "Tester",
		ExpLevel:  1,
		ExpPoints: 10,
		Cards: []models.PlayerCard{
			{Name: "Knight", Level: 1, MaxLevel: 14, Count: 5, Rarity: "common"},
		},
	}
}

func boolPtr(v bool) *bool { return &v }

func intPtr(v int) *int { return &v }

func TestPlanService_PlanForPlayer(t *testing.T) {
	players := new(MockPlayerClient)
	players.On("GetPlayer", mock.Anything, "#2pp").Return(knightPlayer(), nil)

	svc := newTestPlanner(t, players, planner.Options{})

	resp, err := svc.PlanForPlayer(context.Background(), &models.PlayerPlanRequest{
		PlayerTag: "#2pp",
		Resources: models.Resources{TotalGold: 100, CommonWildcards: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, "Tester", resp.Player)
	assert.Equal(t, "#2PP", resp.PlayerTag)
	assert.Equal(t, 1, resp.AccountLevel)
	assert.Equal(t, 40, resp.TargetXP)
	assert.Equal(t, 9, resp.XPGained)
	assert.Equal(t, 25, resp.GoldSpent)
	assert.Equal(t, 75, resp.GoldLeft)
	assert.False(t, resp.TargetReached)
	assert.Equal(t, "greedy", resp.Strategy)
	assert.NotEmpty(t, resp.PlanID.String())

	require.Len(t, resp.Plan, 2)
	assert.Equal(t, "1 → 2", resp.Plan[0].FromTo)
	assert.Equal(t, 2, resp.Plan[0].CardsOwnedUsed)
	assert.Equal(t, "2 → 3", resp.Plan[1].FromTo)
	assert.Equal(t, 3, resp.Plan[1].CardsOwnedUsed)
	assert.Equal(t, 1, resp.Plan[1].WildcardsUsed)
	assert.InDelta(t, 0.799833, resp.Plan[0].Efficiency, 1e-6)

	assert.Equal(t, 0, resp.WildcardsLeft["common"])
	assert.Len(t, resp.WildcardsLeft, 5)

	players.AssertExpectations(t)
}

func TestPlanService_PlanForPlayer_ErrorsPassThrough(t *testing.T) {
	players := new(MockPlayerClient)
	players.On("GetPlayer", mock.Anything, "#999").Return(nil, ErrPlayerNotFound)

	svc := newTestPlanner(t, players, planner.Options{})

	_, err := svc.PlanForPlayer(context.Background(), &models.PlayerPlanRequest{PlayerTag: "#999"})
	assert.True(t, errors.Is(err, ErrPlayerNotFound))
}

func TestPlanService_PlanForPlayer_UnknownRarityInProfile(t *testing.T) {
	player := knightPlayer()
	player.Cards = append(player.Cards, models.PlayerCard{Name: "Mystery", Level: 1, Count: 1, Rarity: "mythic"})

	players := new(MockPlayerClient)
	players.On("GetPlayer", mock.Anything, mock.Anything).Return(player, nil)

	svc := newTestPlanner(t, players, planner.Options{})

	_, err := svc.PlanForPlayer(context.Background(), &models.PlayerPlanRequest{PlayerTag: "#2PP"})
	assert.True(t, errors.Is(err, planner.ErrInvalidRarity))
}

func TestPlanService_PlanForPlayer_NoClient(t *testing.T) {
	svc := newTestPlanner(t, nil, planner.Options{})

	_, err := svc.PlanForPlayer(context.Background(), &models.PlayerPlanRequest{PlayerTag: "#2PP"})
	assert.True(t, errors.Is(err, ErrPlayerAPI))
}

func TestPlanService_PlanForSnapshot(t *testing.T) {
	svc := newTestPlanner(t, nil, planner.Options{})

	t.Run("explicit target stops early", func(t *testing.T) {
		resp, err := svc.PlanForSnapshot(context.Background(), &models.SnapshotPlanRequest{
			PlayerName: "offline",
			Resources:  models.Resources{TotalGold: 100, CommonWildcards: 1},
			TargetXP:   intPtr(4),
			Cards:      []models.SnapshotCard{{Name: "Knight", Rarity: "Common", Level: 1, Count: 5}},
		})
		require.NoError(t, err)

		require.Len(t, resp.Plan, 1)
		assert.Equal(t, 4, resp.XPGained)
		assert.True(t, resp.TargetReached)
		assert.Equal(t, 1, resp.WildcardsLeft["common"])
	})

	t.Run("account level drives target", func(t *testing.T) {
		resp, err := svc.PlanForSnapshot(context.Background(), &models.SnapshotPlanRequest{
			AccountLevel:      1,
			AccountExperience: 45,
			Cards:             []models.SnapshotCard{{Name: "Knight", Rarity: "common", Level: 1, Count: 5}},
			Resources:         models.Resources{TotalGold: 100},
		})
		require.NoError(t, err)

		assert.Equal(t, 5, resp.TargetXP)
		assert.Equal(t, 4, resp.XPGained)
		assert.False(t, resp.TargetReached)
	})

	t.Run("empty snapshot", func(t *testing.T) {
		resp, err := svc.PlanForSnapshot(context.Background(), &models.SnapshotPlanRequest{
			Resources: models.Resources{TotalGold: 1000},
		})
		require.NoError(t, err)

		assert.NotNil(t, resp.Plan)
		assert.Empty(t, resp.Plan)
		assert.Equal(t, 0, resp.GoldSpent)
		assert.Equal(t, 1000, resp.GoldLeft)
	})

	t.Run("duplicate cards", func(t *testing.T) {
		_, err := svc.PlanForSnapshot(context.Background(), &models.SnapshotPlanRequest{
			Cards: []models.SnapshotCard{
				{Name: "Knight", Rarity: "common", Level: 1, Count: 5},
				{Name: "Knight", Rarity: "common", Level: 2, Count: 5},
			},
		})
		assert.True(t, errors.Is(err, planner.ErrMalformedInput))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := svc.PlanForSnapshot(ctx, &models.SnapshotPlanRequest{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPlanService_SequentialOverride(t *testing.T) {
	svc := newTestPlanner(t, nil, planner.Options{EnforceSequence: true})

	req := &models.SnapshotPlanRequest{
		Resources: models.Resources{TotalGold: 100},
		Cards:     []models.SnapshotCard{{Name: "Knight", Rarity: "common", Level: 1, Count: 5}},
	}

	resp, err := svc.PlanForSnapshot(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.SequentialUpgrades)

	req.SequentialUpgrades = boolPtr(false)
	resp, err = svc.PlanForSnapshot(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, resp.SequentialUpgrades)
}

func TestPlanService_ReferenceTables(t *testing.T) {
	svc := newTestPlanner(t, nil, planner.Options{})

	resp := svc.ReferenceTables(context.Background())

	assert.Len(t, resp.LevelProgression, 13)
	assert.Equal(t, 14, resp.MaxLevels["common"])
	assert.Equal(t, 20, resp.ExperienceLevels[1])
	assert.Len(t, resp.CardRequirements, 5)
}
