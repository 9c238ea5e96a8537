package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"backoffice/api/internal/repository"
)

const pruneLockKey = "jobs:prune-active-sessions:lock"

// Scheduler prunes active-session rows whose token has already expired.
// Verification reconciles per operator, but abandoned ceremonies would
// otherwise pile up forever. The redis lock keeps one instance running the
// prune when several replicas share the database.
type Scheduler struct {
	cron     *cron.Cron
	sessions *repository.SessionRepository
	locker   *redis.Client
	tokenTTL time.Duration
	log      zerolog.Logger
}

func NewScheduler(sessions *repository.SessionRepository, locker *redis.Client, tokenTTL time.Duration, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:     c,
		sessions: sessions,
		locker:   locker,
		tokenTTL: tokenTTL,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 3 * * *", s.pruneExpiredSessions); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() context.CancelFunc {
	_, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	go func() {
		s.cron.Stop()
		cancel()
	}()
	return cancel
}

func (s *Scheduler) pruneExpiredSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if s.locker != nil {
		ok, err := s.locker.SetNX(ctx, pruneLockKey, "1", 10*time.Minute).Result()
		if err != nil {
			s.log.Error().Err(err).Msg("prune lock failed")
			return
		}
		if !ok {
			return
		}
	}

	cutoff := time.Now().Add(-s.tokenTTL)
	deleted, err := s.sessions.DeleteActiveExpired(ctx, cutoff)
	if err != nil {
		s.log.Error().Err(err).Msg("prune expired sessions failed")
		return
	}
	if deleted > 0 {
		s.log.Info().Int64("deleted", deleted).Msg("expired active sessions pruned")
	}
}
