package job

import (
	"encoding/json"
	"time"

	"github.com/deppfellow/media-library/internal/model"
	"github.com/hibiken/asynq"
)

const (
	// TaskAlbumAcquired is the job type name stored in Redis.
	// Asynq uses task type strings to route to handlers.
	TaskAlbumAcquired = "album:acquired"
)

// AlbumAcquiredPayload is the JSON payload of the album acquired task.
type AlbumAcquiredPayload struct {
	AlbumID      int64  `json:"album_id"`
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	Genre        string `json:"genre"`
	DateAcquired string `json:"date_acquired"`
}

// NewAlbumAcquiredTask constructs an Asynq task announcing a new album.
//
// Task options:
//   - MaxRetry(3): retry up to 3 times on failure
//   - Queue("low"): the notification is not urgent
//   - Timeout(30s): kill the task if the handler runs longer than 30 seconds
func NewAlbumAcquiredTask(album *model.Album) (*asynq.Task, error) {
	p := AlbumAcquiredPayload{
		AlbumID:      album.ID,
		Title:        album.Title,
		Artist:       album.Artist,
		DateAcquired: album.DateAcquiredString(),
	}
	if album.Genre != nil {
		p.Genre = album.Genre.Name
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskAlbumAcquired,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("low"),
		asynq.Timeout(30*time.Second),
	), nil
}
