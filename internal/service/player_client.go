package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shard-legends/upgrade-planner-service/internal/models"
	"github.com/shard-legends/upgrade-planner-service/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Ошибки получения профиля игрока
var (
	ErrInvalidPlayerTag = errors.New("invalid player tag")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrPlayerAPI        = errors.New("player api error")
)

const getPlayerEndpoint = "get_player"

var playerTagPattern = regexp.MustCompile(`^[0289PYLQGRJCUV]{3,15}$`)

// PlayerClient интерфейс для получения профиля игрока
type PlayerClient interface {
	GetPlayer(ctx context.Context, tag string) (*models.PlayerSnapshot, error)
}

// PlayerClientConfig параметры клиента публичного API игры
type PlayerClientConfig struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	RateLimit float64
	Burst     int
}

// HTTPPlayerClient реализация клиента через HTTP
type HTTPPlayerClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewHTTPPlayerClient создает новый HTTP клиент публичного API игры
func NewHTTPPlayerClient(cfg PlayerClientConfig, logger *zap.Logger) *HTTPPlayerClient {
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &HTTPPlayerClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

// NormalizePlayerTag убирает пробелы и ведущий '#', приводит тег к верхнему регистру и проверяет алфавит
func NormalizePlayerTag(tag string) (string, error) {
	normalized := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
	if !playerTagPattern.MatchString(normalized) {
		return "", errors.Wrapf(ErrInvalidPlayerTag, "%q", tag)
	}
	return normalized, nil
}

// GetPlayer получает профиль игрока по тегу
func (c *HTTPPlayerClient) GetPlayer(ctx context.Context, tag string) (*models.PlayerSnapshot, error) {
	normalized, err := NormalizePlayerTag(tag)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", ErrPlayerAPI, err)
	}

	endpoint := fmt.Sprintf("%s/players/%s", c.baseURL, url.PathEscape("#"+normalized))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordPlayerAPICall(getPlayerEndpoint, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: failed to send request: %v", ErrPlayerAPI, err)
	}
	defer resp.Body.Close()

	metrics.RecordPlayerAPICall(getPlayerEndpoint, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, errors.Wrapf(ErrPlayerNotFound, "tag #%s", normalized)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("Player API returned error",
			zap.String("tag", normalized),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return nil, fmt.Errorf("%w: status %d", ErrPlayerAPI, resp.StatusCode)
	}

	var player models.PlayerSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&player); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrPlayerAPI, err)
	}

	if player.Tag == "" {
		player.Tag = "#" + normalized
	}

	return &player, nil
}
