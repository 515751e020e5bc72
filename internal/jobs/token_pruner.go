// Package jobs runs periodic maintenance in the background.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/baharkarakas/taskmanager-backend/internal/metrics"
	repo "github.com/baharkarakas/taskmanager-backend/internal/repository"
)

// TokenPruner deletes expired session tokens on a cron schedule.
type TokenPruner struct {
	tokens repo.Tokens
	log    *slog.Logger
	cron   *cron.Cron
	now    func() time.Time
}

func NewTokenPruner(tokens repo.Tokens, schedule string, log *slog.Logger) (*TokenPruner, error) {
	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return nil, fmt.Errorf("token prune schedule %q: %w", schedule, err)
	}
	p := &TokenPruner{
		tokens: tokens,
		log:    log,
		cron:   cron.New(),
		now:    time.Now,
	}
	p.cron.Schedule(sched, cron.FuncJob(p.tick))
	return p, nil
}

func (p *TokenPruner) Start() {
	p.log.Info("token pruner started")
	p.cron.Start()
}

// Stop waits for a running prune to finish or ctx to expire.
func (p *TokenPruner) Stop(ctx context.Context) {
	select {
	case <-p.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// RunOnce prunes immediately and returns the number of removed tokens.
func (p *TokenPruner) RunOnce(ctx context.Context) (int64, error) {
	n, err := p.tokens.PruneExpired(ctx, p.now())
	if err != nil {
		return 0, err
	}
	metrics.TokensPruned.Add(float64(n))
	return n, nil
}

func (p *TokenPruner) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	n, err := p.RunOnce(ctx)
	if err != nil {
		p.log.Error("token prune failed", "err", err)
		return
	}
	if n > 0 {
		p.log.Info("expired tokens pruned", "count", n)
	}
}
