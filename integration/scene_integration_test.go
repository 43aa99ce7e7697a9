package integration

import (
	"context"
	"encoding/json"
	"image/color"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bhargavsai259/collegeproject/internal/ai"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roomJSON struct {
	RoomNo     int       `json:"roomno"`
	RoomType   string    `json:"roomtype"`
	Position   []float64 `json:"position"`
	Dimensions struct {
		Breadth float64 `json:"breadth"`
		Length  float64 `json:"length"`
	} `json:"dimensions"`
	RoomColor string   `json:"room_color"`
	Colors    []string `json:"colors"`
	Furniture []struct {
		Type     string    `json:"type"`
		Position []float64 `json:"position"`
	} `json:"furniture"`
	FurnitureCount int `json:"furniture_count"`
}

func decodeRooms(t *testing.T, resp *http.Response) []roomJSON {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var rooms []roomJSON
	require.NoError(t, json.Unmarshal(body, &rooms))
	return rooms
}

// TestUpload_EndToEnd runs the full service against a fake model service
func TestUpload_EndToEnd(t *testing.T) {
	models := NewFakeModelService(t,
		[]string{"kitchen", "park"},
		[]ai.BoundingBox{
			{X1: 9, Y1: 4, X2: 21, Y2: 16, Confidence: 0.9, ClassName: "chair"},
			{X1: 0, Y1: 0, X2: 30, Y2: 20, Confidence: 0.95, ClassName: "person"},
			{X1: 0, Y1: 0, X2: 10, Y2: 10, Confidence: 0.2, ClassName: "tv"},
		},
		[]int{20, 30},
	)
	a := StartApp(t, TestConfig(models.Server.URL))

	red := color.RGBA{R: 200, G: 30, B: 30, A: 255}
	resp := PostMultipart(t, "http://"+a.Addr()+"/upload", []Part{
		{Field: "files", Filename: "kitchen.png", ContentType: "image/png", Data: SolidPNG(t, 30, 20, red)},
		{Field: "files", Filename: "readme.txt", ContentType: "text/plain", Data: []byte("not an image")},
		{Field: "files", Filename: "garden.png", ContentType: "image/png", Data: SolidPNG(t, 30, 20, red)},
	})
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	rooms := decodeRooms(t, resp)
	require.Len(t, rooms, 2)

	kitchen := rooms[0]
	assert.Equal(t, 1, kitchen.RoomNo)
	assert.Equal(t, "kitchen", kitchen.RoomType)
	assert.Equal(t, []float64{0, 0}, kitchen.Position)
	assert.Equal(t, 3.0, kitchen.Dimensions.Breadth)
	assert.Equal(t, 2.0, kitchen.Dimensions.Length)
	assert.Regexp(t, `^#[0-9a-f]{6}$`, kitchen.RoomColor)
	assert.Equal(t, kitchen.RoomColor, kitchen.Colors[0])
	require.Len(t, kitchen.Furniture, 1)
	assert.Equal(t, "chair", kitchen.Furniture[0].Type)
	assert.Equal(t, []float64{1.5, 1.0}, kitchen.Furniture[0].Position)
	assert.Equal(t, 1, kitchen.FurnitureCount)

	garden := rooms[1]
	assert.Equal(t, 2, garden.RoomNo)
	assert.Equal(t, "outdoor", garden.RoomType)
	assert.Equal(t, []float64{53, 0}, garden.Position)
	assert.Empty(t, garden.Furniture)
	assert.Equal(t, 0, garden.FurnitureCount)

	classify, infer := models.Calls()
	assert.Equal(t, 2, classify)
	assert.Equal(t, 1, infer, "outdoor rooms skip detection")
}

// TestUpload_ModelServiceDown falls back to defaults and still answers 200
func TestUpload_ModelServiceDown(t *testing.T) {
	models := NewFakeModelService(t, []string{"kitchen"}, nil, []int{20, 30})
	url := models.Server.URL
	models.Server.Close()

	cfg := TestConfig(url)
	cfg.Models.Detector.Timeout = time.Second
	cfg.Models.Classifier.Timeout = time.Second
	a := StartApp(t, cfg)

	resp := PostMultipart(t, "http://"+a.Addr()+"/upload", []Part{
		{Field: "files", Filename: "broken.jpg", ContentType: "image/jpeg", Data: []byte("not really a jpeg")},
	})
	rooms := decodeRooms(t, resp)
	require.Len(t, rooms, 1)

	room := rooms[0]
	assert.Equal(t, "living_room", room.RoomType)
	assert.Equal(t, 5.0, room.Dimensions.Breadth)
	assert.Equal(t, 4.0, room.Dimensions.Length)
	assert.Equal(t, "#ffffff", room.RoomColor)
	require.Len(t, room.Furniture, 1)
	assert.Equal(t, "chair", room.Furniture[0].Type)
	assert.Equal(t, []float64{2.0, 1.0}, room.Furniture[0].Position)

	health, err := http.Get("http://" + a.Addr() + "/health")
	require.NoError(t, err)
	defer health.Body.Close()
	var report struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(health.Body).Decode(&report))
	assert.Equal(t, "degraded", report.Status)
}

// TestUpload_RotationWithoutModels uses the rotation strategy and no backends
func TestUpload_RotationWithoutModels(t *testing.T) {
	cfg := TestConfig("")
	cfg.Pipeline.Classifier = "rotation"
	cfg.Models.Detector.Backend = "none"
	cfg.Models.Classifier.Backend = "none"
	cfg.Pipeline.Layout.Dimensions = 3
	a := StartApp(t, cfg)

	img := SolidPNG(t, 40, 40, color.RGBA{R: 10, G: 120, B: 200, A: 255})
	parts := make([]Part, 5)
	for i := range parts {
		parts[i] = Part{Field: "files", Filename: "room.png", ContentType: "image/png", Data: img}
	}
	rooms := decodeRooms(t, PostMultipart(t, "http://"+a.Addr()+"/upload", parts))
	require.Len(t, rooms, 5)

	want := []string{"living_room", "kitchen", "bedroom", "bathroom", "living_room"}
	for i, room := range rooms {
		assert.Equal(t, want[i], room.RoomType)
		assert.Equal(t, []float64{float64(i) * 54, 0, 0}, room.Position)
		require.Len(t, room.Furniture, 1)
		assert.Equal(t, []float64{2.0, 0, 1.0}, room.Furniture[0].Position)
	}
}

// TestUpload_PublishesToRedis checks the scene notification reaches the stream
func TestUpload_PublishesToRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := TestConfig("")
	cfg.Pipeline.Classifier = "rotation"
	cfg.Models.Detector.Backend = "none"
	cfg.Models.Classifier.Backend = "none"
	cfg.Notify.Redis.Enabled = true
	cfg.Notify.Redis.Addr = mr.Addr()
	a := StartApp(t, cfg)

	resp := PostMultipart(t, "http://"+a.Addr()+"/upload", []Part{
		{Field: "files", Filename: "a.png", ContentType: "image/png", Data: SolidPNG(t, 10, 10, color.RGBA{A: 255})},
	})
	requestID := resp.Header.Get("X-Request-ID")
	decodeRooms(t, resp)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	var entries []redis.XMessage
	ok := WaitForCondition(2*time.Second, func() bool {
		var err error
		entries, err = client.XRange(context.Background(), cfg.Notify.Redis.Stream, "-", "+").Result()
		return err == nil && len(entries) == 1
	})
	require.True(t, ok, "expected one stream entry")
	assert.Equal(t, requestID, entries[0].Values["request_id"])
	assert.Contains(t, entries[0].Values["data"], `"roomtype":"living_room"`)
}

func TestRootAndNotMultipart(t *testing.T) {
	cfg := TestConfig("")
	cfg.Models.Detector.Backend = "none"
	cfg.Models.Classifier.Backend = "none"
	a := StartApp(t, cfg)

	resp, err := http.Get("http://" + a.Addr() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Roomify Backend API is running"}`, string(body))

	resp, err = http.Post("http://"+a.Addr()+"/upload", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
