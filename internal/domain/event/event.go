package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeWorkerStarted Type = "worker_started"
	TypeWorkerStopped Type = "worker_stopped"
	TypeWorkerFailed  Type = "worker_failed"
	TypePiecePlaced   Type = "piece_placed"
)

// Channel is a Postgres NOTIFY channel. All event types within a channel
// share one LISTEN connection.
type Channel string

const (
	ChannelWorker Channel = "worker"
	ChannelPiece  Channel = "piece"
)

var Channels = []Channel{ChannelWorker, ChannelPiece}

var typeToChannel = map[Type]Channel{
	TypeWorkerStarted: ChannelWorker,
	TypeWorkerStopped: ChannelWorker,
	TypeWorkerFailed:  ChannelWorker,
	TypePiecePlaced:   ChannelPiece,
}

// ChannelFor returns the channel for a given event type.
func ChannelFor(t Type) Channel { return typeToChannel[t] }

// Event carries identifiers only. Subscribers read the mosaic itself for
// anything else.
type Event struct {
	Type      Type      `json:"type"`
	WorkerID  uuid.UUID `json:"worker_id"`
	PostID    string    `json:"post_id,omitempty"`
	Evicted   string    `json:"evicted,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func New(eventType Type, workerID uuid.UUID) Event {
	return Event{
		Type:      eventType,
		WorkerID:  workerID,
		Timestamp: time.Now().UTC(),
	}
}

func PiecePlaced(workerID uuid.UUID, postID, evicted string) Event {
	e := New(TypePiecePlaced, workerID)
	e.PostID = postID
	e.Evicted = evicted
	return e
}
