// Package notify forwards built scenes to external systems.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/bhargavsai259/collegeproject/internal/scene"
	"github.com/bhargavsai259/collegeproject/internal/service"
)

// SceneEvent is one successful upload, as sent to sinks
type SceneEvent struct {
	RequestID string             `json:"request_id"`
	Timestamp time.Time          `json:"timestamp"`
	Rooms     []scene.RoomRecord `json:"rooms"`
}

// Sink delivers scene events to one external system
type Sink interface {
	Name() string
	Send(ctx context.Context, event SceneEvent) error
	Close() error
}

// SceneBuiltData builds the event bus payload for a scene.built event
func SceneBuiltData(requestID string, rooms []scene.RoomRecord) map[string]interface{} {
	return map[string]interface{}{
		"request_id": requestID,
		"room_count": len(rooms),
		"rooms":      rooms,
	}
}

// SceneEventFrom reads a scene.built bus event
func SceneEventFrom(event service.Event) (SceneEvent, error) {
	rooms, ok := event.Data["rooms"].([]scene.RoomRecord)
	if !ok {
		return SceneEvent{}, fmt.Errorf("event %s has no rooms", event.Type)
	}
	requestID, _ := event.Data["request_id"].(string)

	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return SceneEvent{
		RequestID: requestID,
		Timestamp: ts.UTC(),
		Rooms:     rooms,
	}, nil
}
