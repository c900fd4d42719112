package statusstore

import (
	"time"

	"github.com/programme-lv/judge/pkg/messaging/statuses"
)

// Entry is the stored state of one submission.
type Entry struct {
	Status    statuses.Status
	Output    string
	UpdatedAt time.Time
	// History lists every status written, oldest first. Only the in-memory
	// store keeps it.
	History []statuses.Status
}
