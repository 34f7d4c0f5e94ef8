package push

import (
	"context"
	"fmt"
	"time"

	"github.com/woonstad/datamakelaar/pkg/models"
)

// Updater sends object updates to the platform. *luxs.Client satisfies
// this interface.
type Updater interface {
	UpdateObjects(ctx context.Context, updates []models.ObjectUpdate) ([]models.UpdateResult, error)
}

// Config tunes batching and retry behavior.
type Config struct {
	// BatchSize is the number of objects per request.
	BatchSize int
	// MaxRetries is the number of attempts per batch.
	MaxRetries int
	// RetryDelay is the delay before the first retry; it doubles on
	// each subsequent attempt.
	RetryDelay time.Duration
}

// DefaultConfig returns the batching defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:  100,
		MaxRetries: 3,
		RetryDelay: 2 * time.Second,
	}
}

// Report summarizes one push run.
type Report struct {
	// Total is the number of updates attempted.
	Total int
	// Batches is the number of batches sent.
	Batches int
	// Updated counts objects the platform reported as updated.
	Updated int
	// Created counts objects the platform reported as newly created.
	Created int
	// Failed lists per-object failures reported by the platform.
	Failed []models.UpdateResult
}

// Pusher sends updates in batches with bounded retries.
type Pusher struct {
	api Updater
	cfg Config
}

// New creates a Pusher. Zero config values fall back to defaults.
func New(api Updater, cfg Config) *Pusher {
	def := DefaultConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = def.RetryDelay
	}
	return &Pusher{api: api, cfg: cfg}
}

// Push sends all updates. A batch that keeps failing after the
// configured retries aborts the run; the returned report covers what
// was sent up to that point.
func (p *Pusher) Push(ctx context.Context, updates []models.ObjectUpdate) (*Report, error) {
	report := &Report{Total: len(updates)}

	for start := 0; start < len(updates); start += p.cfg.BatchSize {
		end := start + p.cfg.BatchSize
		if end > len(updates) {
			end = len(updates)
		}
		batch := updates[start:end]
		batchNum := start/p.cfg.BatchSize + 1

		results, err := p.sendBatch(ctx, batch)
		if err != nil {
			return report, fmt.Errorf("batch %d failed after %d attempts: %w", batchNum, p.cfg.MaxRetries, err)
		}
		report.Batches++

		for _, res := range results {
			switch {
			case !res.Success:
				report.Failed = append(report.Failed, res)
			case res.IsCreation:
				report.Created++
			default:
				report.Updated++
			}
		}
	}
	return report, nil
}

// sendBatch attempts one batch with exponential backoff between
// attempts. Per-object failures in the response are not retried; only
// transport and API-level errors are.
func (p *Pusher) sendBatch(ctx context.Context, batch []models.ObjectUpdate) ([]models.UpdateResult, error) {
	var lastErr error
	delay := p.cfg.RetryDelay

	for attempt := 1; attempt <= p.cfg.MaxRetries; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			delay *= 2
		}

		results, err := p.api.UpdateObjects(ctx, batch)
		if err == nil {
			return results, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}
