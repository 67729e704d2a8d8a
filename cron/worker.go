package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tableorder/config"
	orderRepo "tableorder/database/repository/order"
	"tableorder/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeOrderArchive = "order:archive"

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewArchiveTask builds the task for one placed order. The task id is derived
// from the order id so a retried placement never queues the order twice.
func NewArchiveTask(order models.Order) (*asynq.Task, error) {
	payload, err := json.Marshal(models.OrderArchivePayload{Order: order})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeOrderArchive, payload,
		asynq.TaskID("archive:"+order.OrderID),
		asynq.MaxRetry(10),
		asynq.Timeout(30*time.Second),
	), nil
}

// ArchiveQueue enqueues placed orders for the archive worker.
type ArchiveQueue struct {
	client *asynq.Client
}

func NewArchiveQueue() *ArchiveQueue {
	return &ArchiveQueue{client: asynq.NewClient(redisOpts())}
}

func (q *ArchiveQueue) ArchiveOrder(ctx context.Context, order models.Order) error {
	task, err := NewArchiveTask(order)
	if err != nil {
		return err
	}
	_, err = q.client.EnqueueContext(ctx, task)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func (q *ArchiveQueue) Close() error {
	return q.client.Close()
}

// InitArchiveWorker runs the archive worker in background and returns the
// server so the caller can shut it down.
func InitArchiveWorker(repo orderRepo.OrderRepository, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeOrderArchive, handleOrderArchiveTask(repo, logger))

	// Start async worker with retry logic
	go func() {
		logger.Info("Starting order archive worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("Archive worker failed to start",
				zap.Int("attempt", attempts), zap.Int("max_attempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("Archive worker gave up, placed orders stay queued")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func handleOrderArchiveTask(repo orderRepo.OrderRepository, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.OrderArchivePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid archive payload", zap.Error(err))
			return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
		}
		if p.Order.OrderID == "" {
			return fmt.Errorf("archive payload without order id: %w", asynq.SkipRetry)
		}

		if err := repo.Upsert(ctx, p.Order); err != nil {
			logger.Warn("Failed to archive order", zap.String("order_id", p.Order.OrderID), zap.Error(err))
			return err
		}
		logger.Info("Order archived", zap.String("order_id", p.Order.OrderID), zap.String("table_id", p.Order.TableID))
		return nil
	}
}
