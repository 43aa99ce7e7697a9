package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/bhargavsai259/collegeproject/internal/config"
	"github.com/bhargavsai259/collegeproject/internal/health"
	"github.com/bhargavsai259/collegeproject/internal/logger"
	"github.com/bhargavsai259/collegeproject/internal/scene"
	"github.com/bhargavsai259/collegeproject/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBuilder struct {
	mu      sync.Mutex
	uploads []scene.Upload
	ctx     context.Context
}

func (b *recordingBuilder) Build(ctx context.Context, uploads []scene.Upload) []scene.RoomRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uploads = uploads
	b.ctx = ctx

	rooms := make([]scene.RoomRecord, 0, len(uploads))
	for i := range uploads {
		rooms = append(rooms, scene.RoomRecord{
			RoomNo:         i + 1,
			RoomType:       scene.Kitchen,
			Position:       scene.Position{float64(i) * 10, 0},
			Dimensions:     scene.Dimensions{Breadth: 5, Length: 4},
			RoomColor:      "#ffffff",
			Colors:         []string{"#ffffff"},
			Furniture:      []scene.FurnitureItem{{Type: "chair", Position: scene.Position{2, 1}}},
			FurnitureCount: 1,
		})
	}
	return rooms
}

type filePart struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func multipartBody(t *testing.T, parts []filePart, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, p.field, p.filename))
		if p.contentType != "" {
			h.Set("Content-Type", p.contentType)
		}
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		Host:         "127.0.0.1",
		Port:         0,
		MaxUploadMB:  1,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

func setupTestServer(t *testing.T) (*Server, *recordingBuilder, *service.EventBus) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	builder := &recordingBuilder{}
	s := NewServer(testServerConfig(), builder, logger.NewNopLogger())
	bus := service.NewEventBus(10)
	s.SetEventBus(bus)
	return s, builder, bus
}

func TestHandleRoot(t *testing.T) {
	s, _, _ := setupTestServer(t)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Roomify Backend API is running"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandleUpload(t *testing.T) {
	s, builder, bus := setupTestServer(t)
	built := bus.Subscribe(service.EventTypeSceneBuilt)

	body, ct := multipartBody(t, []filePart{
		{field: "files", filename: "a.png", contentType: "image/png", data: pngBytes(t, 4, 4)},
		{field: "files", filename: "notes.txt", contentType: "text/plain", data: []byte("hello")},
		{field: "other", filename: "b.jpg", contentType: "IMAGE/JPEG", data: []byte{0xff, 0xd8}},
	}, map[string]string{"comment": "ignored"})

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set(requestIDHeader, "req-abc")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "req-abc", w.Header().Get(requestIDHeader))

	require.Len(t, builder.uploads, 2)
	assert.Equal(t, "a.png", builder.uploads[0].Filename)
	assert.Equal(t, "b.jpg", builder.uploads[1].Filename)
	assert.Equal(t, "IMAGE/JPEG", builder.uploads[1].ContentType)
	assert.NotNil(t, logger.FromContext(builder.ctx, nil))

	var rooms []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rooms))
	require.Len(t, rooms, 2)
	assert.Equal(t, float64(1), rooms[0]["roomno"])
	assert.Equal(t, float64(2), rooms[1]["roomno"])
	for _, key := range []string{"roomtype", "position", "dimensions", "room_color", "colors", "furniture", "furniture_count"} {
		assert.Contains(t, rooms[0], key)
	}

	select {
	case ev := <-built:
		assert.Equal(t, "req-abc", ev.Data["request_id"])
		assert.Equal(t, 2, ev.Data["room_count"])
	case <-time.After(time.Second):
		t.Fatal("expected scene.built event")
	}
}

func TestHandleUpload_NoFiles(t *testing.T) {
	s, _, _ := setupTestServer(t)

	body, ct := multipartBody(t, nil, map[string]string{"name": "x"})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestHandleUpload_NotMultipart(t *testing.T) {
	s, builder, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewBufferString(`{"files":[]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "multipart")
	assert.Nil(t, builder.uploads)
}

func TestHandleUpload_PartTooLarge(t *testing.T) {
	s, builder, _ := setupTestServer(t)

	big := bytes.Repeat([]byte{0x01}, (1<<20)+1)
	body, ct := multipartBody(t, []filePart{
		{field: "files", filename: "huge.png", contentType: "image/png", data: big},
	}, nil)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "huge.png")
	assert.Nil(t, builder.uploads)
}

func TestHandleExport(t *testing.T) {
	s, builder, _ := setupTestServer(t)

	body, ct := multipartBody(t, []filePart{
		{field: "files", filename: "a.png", contentType: "image/png", data: pngBytes(t, 2, 2)},
	}, nil)
	req := httptest.NewRequest(http.MethodPost, "/export", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, builder.uploads, 1)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "rooms.xlsx")
	// XLSX is a zip archive
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestCORSPreflight(t *testing.T) {
	s, _, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/upload", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Headers", "x-custom")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "x-custom", w.Header().Get("Access-Control-Allow-Headers"))
}

func TestHealthRoutes(t *testing.T) {
	s, _, _ := setupTestServer(t)
	s.SetHealth(health.NewManager(logger.NewNopLogger(), nil))

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_StartStop(t *testing.T) {
	s, _, _ := setupTestServer(t)

	require.NoError(t, s.Start(context.Background()))
	addr := s.Addr()
	require.NotEmpty(t, addr)
	assert.True(t, s.GetStatus().IsRunning())

	resp, err := http.Get("http://" + addr + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.Empty(t, s.Addr())
	assert.False(t, s.GetStatus().IsRunning())
}

func TestServer_StartBindError(t *testing.T) {
	first, _, _ := setupTestServer(t)
	require.NoError(t, first.Start(context.Background()))
	defer first.Stop(context.Background())

	_, port, err := splitPort(first.Addr())
	require.NoError(t, err)

	cfg := testServerConfig()
	cfg.Port = port
	second := NewServer(cfg, &recordingBuilder{}, logger.NewNopLogger())
	assert.Error(t, second.Start(context.Background()))
}

func splitPort(addr string) (string, int, error) {
	tcp, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return "", 0, err
	}
	return tcp.IP.String(), tcp.Port, nil
}
