package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bhargavsai259/collegeproject/internal/config"
	"github.com/bhargavsai259/collegeproject/internal/scene"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() SceneEvent {
	return SceneEvent{
		RequestID: "req-1",
		Timestamp: time.Unix(1700000000, 0).UTC(),
		Rooms: []scene.RoomRecord{{
			RoomNo:         1,
			RoomType:       scene.Kitchen,
			Position:       scene.Position{0, 0},
			Dimensions:     scene.Dimensions{Breadth: 5, Length: 4},
			RoomColor:      "#ffffff",
			Colors:         []string{"#ffffff"},
			Furniture:      []scene.FurnitureItem{},
			FurnitureCount: 0,
		}},
	}
}

func TestRedisStreamSink_Send(t *testing.T) {
	mr := miniredis.RunT(t)
	sink := NewRedisStreamSink(config.RedisConfig{Addr: mr.Addr(), Stream: "roomify:scenes", MaxLen: 100})
	defer sink.Close()

	ctx := context.Background()
	require.NoError(t, sink.Ping(ctx))
	require.NoError(t, sink.Send(ctx, sampleEvent()))
	assert.Equal(t, "redis", sink.Name())

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	entries, err := client.XRange(ctx, "roomify:scenes", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	values := entries[0].Values
	assert.Equal(t, "req-1", values["request_id"])
	assert.Equal(t, "1700000000", values["timestamp"])

	var rooms []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(values["data"].(string)), &rooms))
	require.Len(t, rooms, 1)
	assert.Equal(t, "kitchen", rooms[0]["roomtype"])
}

func TestRedisStreamSink_SendFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	sink := NewRedisStreamSink(config.RedisConfig{Addr: mr.Addr(), Stream: "roomify:scenes"})
	defer sink.Close()

	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.Error(t, sink.Send(ctx, sampleEvent()))
}
