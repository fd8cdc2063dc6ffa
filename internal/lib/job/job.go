// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue:
//   - You enqueue tasks (producer) using asynq.Client.
//   - A server runs workers that process those tasks (consumer) using asynq.Server.
package job

import (
	"context"

	"github.com/deppfellow/media-library/internal/config"
	"github.com/deppfellow/media-library/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Enqueuer pushes tasks onto the queue. *asynq.Client implements it.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// JobService holds the Asynq client (enqueue) and server (worker execution).
type JobService struct {
	// Client is used to enqueue tasks into Redis.
	Client *asynq.Client

	// server runs worker processes that pull tasks from Redis and execute handlers.
	server *asynq.Server

	mailer  albumMailer
	curator string

	logger *zerolog.Logger
}

// NewJobService creates a JobService configured to use Redis from cfg.
//
// The curator mailer is only set up when a Resend key and curator
// address are configured.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	// Concurrency = 5 shared between queues by weight:
	//   default: 3
	//   low:     1
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 3,
				"low":     1,
			},
			Logger:   newAsynqLogger(logger),
			LogLevel: asynq.WarnLevel,
		},
	)

	j := &JobService{
		Client: asynq.NewClient(redisOpt),
		server: server,
		logger: logger,
	}

	if cfg.Integration.NotificationsEnabled() {
		j.mailer = email.NewClient(cfg, logger)
		j.curator = cfg.Integration.CuratorEmail
	}

	return j
}

func (j *JobService) mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskAlbumAcquired, j.handleAlbumAcquiredTask)
	return mux
}

// Start registers task handlers and starts the worker server. It does not
// block; workers run until Stop.
func (j *JobService) Start() error {
	j.logger.Info().Msg("Starting background job server")
	return j.server.Start(j.mux())
}

// Stop gracefully stops the job server and closes client resources.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Warn().Err(err).Msg("failed to close job client")
	}
}
