package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"mkulima/soko/internal/config"
	"mkulima/soko/internal/tradeflow"
)

// TaskType defines the type of a background task.
const (
	TypeMarketRefresh = "market:refresh"
)

// --- Task Client (Enqueuing tasks) ---

func NewClient(rdb *redis.Client) *asynq.Client {
	clientOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}
	return asynq.NewClient(clientOpt)
}

// --- Task Server (Processing tasks) ---

// TaskProcessor handles the processing of tasks.
// It holds dependencies needed by task handlers.
type TaskProcessor struct {
	cfg  *config.Config
	flow *tradeflow.Flow
}

func NewTaskProcessor(cfg *config.Config, flow *tradeflow.Flow) *TaskProcessor {
	return &TaskProcessor{
		cfg:  cfg,
		flow: flow,
	}
}

// SetupServer configures and returns an Asynq server instance.
// Returns nil when this run mode processes no tasks.
func SetupServer(rdb *redis.Client, processor *TaskProcessor, isBgWorker bool) *asynq.Server {
	if !isBgWorker {
		log.Println("Running in API mode, no task server started.")
		return nil
	}

	serverOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}

	srv := asynq.NewServer(
		serverOpt,
		asynq.Config{
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq Error] Task Type: %s, Error: %v", task.Type(), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeMarketRefresh, processor.HandleMarketRefreshTask)
	log.Println("Registered background task handlers.")

	go func() {
		if err := srv.Run(mux); err != nil {
			log.Fatalf("Could not run Asynq server: %v", err)
		}
	}()

	return srv
}

// --- Task Handlers ---

// HandleMarketRefreshTask pulls the current product collection from the
// backend into the shared index. The payload is empty; the task is a tick.
func (p *TaskProcessor) HandleMarketRefreshTask(ctx context.Context, t *asynq.Task) error {
	if err := p.flow.RefreshListings(ctx); err != nil {
		return fmt.Errorf("market refresh failed: %w", err)
	}
	log.Println("Market refresh task processed successfully.")
	return nil
}

// --- Periodic scheduling ---

// StartRefreshLoop enqueues a market refresh task on a fixed interval until
// the context is cancelled. One immediate tick fires at startup so the index
// is warm before the first page render.
func StartRefreshLoop(ctx context.Context, client *asynq.Client, interval time.Duration) {
	enqueue := func() {
		task := asynq.NewTask(TypeMarketRefresh, nil)
		if _, err := client.EnqueueContext(ctx, task, asynq.Queue("default"), asynq.MaxRetry(3)); err != nil {
			log.Printf("ERROR failed to enqueue market refresh task: %v", err)
		}
	}

	enqueue()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			enqueue()
		}
	}
}
