package prompts

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultPrompt is the fixed fallback shown when no daily prompt can be
// resolved.
const DefaultPrompt = "Want to add a photo of this win?"

// promptPool is the rotation source for the daily capture prompt.
var promptPool = []string{
	"Want to add a photo of this win?",
	"Snap a picture to remember this one!",
	"A photo makes the win feel real. Add one?",
	"Capture the moment! Camera or gallery?",
	"Show yourself what you did today. Photo?",
	"One small win, one small photo?",
	"Proof of progress: add a picture?",
}

// Service rotates the capture prompt once per day and serves today's prompt
// with a Redis cache in front of Postgres.
type Service struct {
	postgres *pgxpool.Pool
	redis    *redis.Client
	logger   *zap.SugaredLogger
	cron     *cron.Cron
}

// NewService creates the daily prompt service.
func NewService(postgres *pgxpool.Pool, redisClient *redis.Client, logger *zap.SugaredLogger) *Service {
	return &Service{
		postgres: postgres,
		redis:    redisClient,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start seeds today's prompt and schedules the nightly rotation.
func (s *Service) Start() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := s.ensurePrompt(ctx, time.Now()); err != nil {
		return fmt.Errorf("seed daily prompt: %w", err)
	}

	_, err := s.cron.AddFunc("5 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := s.ensurePrompt(ctx, time.Now()); err != nil {
			s.logger.Errorw("daily prompt rotation failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule daily prompt rotation: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop halts the rotation schedule.
func (s *Service) Stop() {
	s.cron.Stop()
}

// PromptForToday returns today's capture prompt. Lookup order is Redis, then
// Postgres; any failure falls back to DefaultPrompt so the capture flow is
// never blocked on the prompt.
func (s *Service) PromptForToday(ctx context.Context) string {
	day := time.Now().Format("2006-01-02")
	redisKey := "daily_prompt:" + day

	if cached, err := s.redis.Get(ctx, redisKey).Result(); err == nil && cached != "" {
		return cached
	}

	prompt, err := s.ensurePrompt(ctx, time.Now())
	if err != nil {
		s.logger.Warnw("failed to resolve daily prompt, using default", "error", err)
		return DefaultPrompt
	}

	s.redis.Set(ctx, redisKey, prompt, 24*time.Hour)
	return prompt
}

// ensurePrompt returns the prompt stored for the given day, inserting one
// from the rotation pool if the day has none yet.
func (s *Service) ensurePrompt(ctx context.Context, now time.Time) (string, error) {
	day := now.Format("2006-01-02")

	var prompt string
	err := s.postgres.QueryRow(ctx, `SELECT prompt FROM daily_prompts WHERE date = $1`, day).Scan(&prompt)
	if err == nil {
		return prompt, nil
	}

	// Deterministic pick so every replica agrees without coordination.
	candidate := promptPool[now.YearDay()%len(promptPool)]
	_, err = s.postgres.Exec(ctx,
		`INSERT INTO daily_prompts (prompt, date) VALUES ($1, $2) ON CONFLICT (date) DO NOTHING`,
		candidate, day)
	if err != nil {
		return "", fmt.Errorf("insert daily prompt: %w", err)
	}

	// Re-read in case a concurrent writer won the insert.
	if err := s.postgres.QueryRow(ctx, `SELECT prompt FROM daily_prompts WHERE date = $1`, day).Scan(&prompt); err != nil {
		return "", fmt.Errorf("read daily prompt: %w", err)
	}
	return prompt, nil
}
