package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/media-library/internal/lib/email"
	"github.com/hibiken/asynq"
)

// albumMailer sends the curator notification; *email.Client implements it.
type albumMailer interface {
	SendAlbumAcquiredEmail(to string, album email.AlbumAcquired) error
}

// handleAlbumAcquiredTask emails the curator about a new album.
//
// Without a mailer or a curator address the task is logged and dropped;
// returning nil keeps Asynq from retrying it.
func (j *JobService) handleAlbumAcquiredTask(ctx context.Context, t *asynq.Task) error {
	var p AlbumAcquiredPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal album acquired payload: %w: %w", err, asynq.SkipRetry)
	}

	log := j.logger.With().
		Str("type", TaskAlbumAcquired).
		Int64("album_id", p.AlbumID).
		Logger()

	if j.mailer == nil || j.curator == "" {
		log.Info().Msg("Notifications not configured, skipping album acquired email")
		return nil
	}

	log.Info().Str("to", j.curator).Msg("Processing album acquired task")

	err := j.mailer.SendAlbumAcquiredEmail(j.curator, email.AlbumAcquired{
		ID:           p.AlbumID,
		Title:        p.Title,
		Artist:       p.Artist,
		Genre:        p.Genre,
		DateAcquired: p.DateAcquired,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to send album acquired email")
		return err // returning err makes Asynq mark it failed and schedule retry
	}

	log.Info().Msg("Successfully sent album acquired email")
	return nil
}
