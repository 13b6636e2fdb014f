// Package scheduler provides background task scheduling on asynq. The only
// recurring job is the portfolio rescan, which recomputes every owner's
// lead scores so time-decayed factors stay current without traffic.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"crm_insights_backend/platform/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	client *asynq.Client
	queue  string
}

// RescanScheduler enqueues portfolio rescans.
type RescanScheduler interface {
	SchedulePortfolioRescan(ctx context.Context, payload PortfolioRescanPayload, runAt time.Time) error
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ScheduleOwnerRescan enqueues an immediate rescan of a single owner's
// portfolio, for on-demand refreshes from the API.
func (c *Client) ScheduleOwnerRescan(ctx context.Context, ownerID uuid.UUID) error {
	return c.SchedulePortfolioRescan(ctx, PortfolioRescanPayload{OwnerID: ownerID.String()}, time.Now())
}

func (c *Client) SchedulePortfolioRescan(ctx context.Context, payload PortfolioRescanPayload, runAt time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewPortfolioRescanTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.ProcessAt(runAt), asynq.Queue(c.queue))
	return err
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}
