package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/shard-legends/upgrade-planner-service/internal/config"
	"github.com/shard-legends/upgrade-planner-service/internal/models"
	"github.com/shard-legends/upgrade-planner-service/internal/planner"
	"github.com/shard-legends/upgrade-planner-service/internal/service"
	"github.com/shard-legends/upgrade-planner-service/internal/storage"
	"github.com/shard-legends/upgrade-planner-service/pkg/logger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Failed to read .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cliOptions flags merged with PLANNER_SVC_* environment variables
type cliOptions struct {
	Tag        string
	Snapshot   string
	Tables     string
	Sequential bool
	LogLevel   string
	LogOutput  string
	BaseURL    string
	Token      string
	Timeout    time.Duration
	Resources  models.Resources
}

func parseOptions(args []string) (*cliOptions, error) {
	flags := pflag.NewFlagSet("planner", pflag.ContinueOnError)
	flags.String("tag", "", "player tag, with or without the leading #")
	flags.String("snapshot", "", "read the player profile from a JSON file instead of the API")
	flags.String("tables", "", "reference tables YAML file (embedded tables when empty)")
	flags.Bool("sequential", false, "only plan a card level after the previous level of that card")
	flags.String("log-level", "warn", "log level")
	flags.String("log-output", "stderr", "log destination: stderr, stdout or a file path")
	flags.Int("gold", 0, "gold available")
	flags.Int("common", 0, "common wildcards")
	flags.Int("rare", 0, "rare wildcards")
	flags.Int("epic", 0, "epic wildcards")
	flags.Int("legendary", 0, "legendary wildcards")
	flags.Int("champion", 0, "champion wildcards")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("PLANNER_SVC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	v.SetDefault("player_api.base_url", "https://api.clashroyale.com/v1")
	v.SetDefault("player_api.timeout", "10s")
	if err := v.BindEnv("player_api.token"); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	opts := &cliOptions{
		Tag:        v.GetString("tag"),
		Snapshot:   v.GetString("snapshot"),
		Tables:     v.GetString("tables"),
		Sequential: v.GetBool("sequential"),
		LogLevel:   v.GetString("log-level"),
		LogOutput:  v.GetString("log-output"),
		BaseURL:    v.GetString("player_api.base_url"),
		Token:      v.GetString("player_api.token"),
		Timeout:    v.GetDuration("player_api.timeout"),
		Resources: models.Resources{
			TotalGold:          v.GetInt("gold"),
			CommonWildcards:    v.GetInt("common"),
			RareWildcards:      v.GetInt("rare"),
			EpicWildcards:      v.GetInt("epic"),
			LegendaryWildcards: v.GetInt("legendary"),
			ChampionWildcards:  v.GetInt("champion"),
		},
	}

	if opts.Tag == "" && opts.Snapshot == "" {
		return nil, fmt.Errorf("either --tag or --snapshot is required")
	}
	if opts.Tag != "" && opts.Token == "" {
		return nil, fmt.Errorf("--tag needs an API token (set %s)", config.EnvName("player_api.token"))
	}

	return opts, nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}

	// The plan table owns out; logs go elsewhere
	if err := logger.Init(logger.Options{
		Level:   opts.LogLevel,
		Format:  logger.FormatConsole,
		Output:  opts.LogOutput,
		Service: "upgrade-planner-cli",
	}); err != nil {
		return err
	}
	defer logger.Sync()

	tables, err := storage.NewFileTableSource(opts.Tables).LoadTables(ctx)
	if err != nil {
		return err
	}

	var players service.PlayerClient
	if opts.Snapshot != "" {
		players = &fileSnapshotClient{path: opts.Snapshot}
	} else {
		players = service.NewHTTPPlayerClient(service.PlayerClientConfig{
			BaseURL: opts.BaseURL,
			Token:   opts.Token,
			Timeout: opts.Timeout,
			Burst:   1,
		}, logger.Get())
	}

	svc := service.NewService(&service.ServiceDependencies{
		Tables:  tables,
		Players: players,
		Options: planner.Options{EnforceSequence: opts.Sequential},
		Logger:  logger.Get(),
	})

	resp, err := svc.Planner.PlanForPlayer(ctx, &models.PlayerPlanRequest{
		PlayerTag: opts.Tag,
		Resources: opts.Resources,
	})
	if err != nil {
		return err
	}

	logger.Debug("Plan ready", zap.String("plan_id", resp.PlanID.String()))
	return printPlan(out, resp)
}

// fileSnapshotClient serves a player profile from a saved API response
type fileSnapshotClient struct {
	path string
}

func (c *fileSnapshotClient) GetPlayer(ctx context.Context, tag string) (*models.PlayerSnapshot, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var player models.PlayerSnapshot
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, fmt.Errorf("%w: failed to parse snapshot %s: %v", planner.ErrMalformedInput, c.path, err)
	}
	return &player, nil
}

func printPlan(out io.Writer, resp *models.UpgradePlanResponse) error {
	fmt.Fprintf(out, "Player: %s %s (level %d)\n", resp.Player, resp.PlayerTag, resp.AccountLevel)
	if resp.TargetXP > 0 {
		fmt.Fprintf(out, "XP to next level: %s\n\n", humanize.Comma(int64(resp.TargetXP)))
	} else {
		fmt.Fprintf(out, "Account is at the top level, spending the whole budget\n\n")
	}

	if len(resp.Plan) == 0 {
		fmt.Fprintln(out, "No affordable upgrades.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tCard\tRarity\tLevels\tGold\tXP\tOwned\tWildcards\tEfficiency\t")
	for i, step := range resp.Plan {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%d\t%d\t%.6f\t\n",
			i+1, step.Card, step.Rarity, step.FromTo,
			humanize.Comma(int64(step.Gold)), humanize.Comma(int64(step.XP)),
			step.CardsOwnedUsed, step.WildcardsUsed, step.Efficiency,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	status := "not reached"
	if resp.TargetReached {
		status = "reached"
	}
	fmt.Fprintf(out, "\nXP gained: %s (target %s)\n", humanize.Comma(int64(resp.XPGained)), status)
	fmt.Fprintf(out, "Gold spent: %s, left: %s\n", humanize.Comma(int64(resp.GoldSpent)), humanize.Comma(int64(resp.GoldLeft)))
	return nil
}
