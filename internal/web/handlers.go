package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/bhargavsai259/collegeproject/internal/logger"
	"github.com/bhargavsai259/collegeproject/internal/notify"
	"github.com/bhargavsai259/collegeproject/internal/report"
	"github.com/bhargavsai259/collegeproject/internal/scene"
	"github.com/bhargavsai259/collegeproject/internal/service"
	"github.com/gin-gonic/gin"
)

// errPartTooLarge is returned when one file part exceeds the upload cap
var errPartTooLarge = errors.New("file exceeds upload size limit")

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Roomify Backend API is running"})
}

// handleUpload builds a scene from the uploaded photos
func (s *Server) handleUpload(c *gin.Context) {
	rooms, ok := s.buildFromRequest(c)
	if !ok {
		return
	}

	s.PublishEvent(service.EventTypeSceneBuilt, notify.SceneBuiltData(c.GetString(requestIDKey), rooms))
	c.JSON(http.StatusOK, rooms)
}

// handleExport builds a scene and returns it as a spreadsheet
func (s *Server) handleExport(c *gin.Context) {
	rooms, ok := s.buildFromRequest(c)
	if !ok {
		return
	}

	data, err := report.RoomsWorkbook(rooms)
	if err != nil {
		logger.FromContext(c.Request.Context(), s.logger).Error("Failed to render workbook", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render workbook"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="rooms.xlsx"`)
	c.Data(http.StatusOK, report.ContentType, data)
}

// buildFromRequest reads the multipart body and runs the builder. On a
// request-level problem it writes the error response and returns false.
func (s *Server) buildFromRequest(c *gin.Context) ([]scene.RoomRecord, bool) {
	log := logger.FromContext(c.Request.Context(), s.logger)

	uploads, err := s.readUploads(c.Request, log)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errPartTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		log.Warn("Rejected upload request", "error", err, "status", status)
		c.JSON(status, gin.H{"error": err.Error()})
		return nil, false
	}

	return s.builder.Build(c.Request.Context(), uploads), true
}

// readUploads streams the multipart body in order. Parts without a
// filename and non-image parts are skipped without buffering.
func (s *Server) readUploads(r *http.Request, log *logger.Logger) ([]scene.Upload, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("expected multipart/form-data body: %w", err)
	}

	limit := s.config.MaxUploadBytes()
	var uploads []scene.Upload
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return uploads, nil
		}
		if err != nil {
			return nil, fmt.Errorf("malformed multipart body: %w", err)
		}

		up, keep, err := readPart(part, limit)
		part.Close()
		if err != nil {
			return nil, err
		}
		if !keep {
			log.Debug("Skipping upload part",
				"field", part.FormName(),
				"filename", part.FileName(),
				"content_type", part.Header.Get("Content-Type"),
			)
			continue
		}
		uploads = append(uploads, up)
	}
}

func readPart(part *multipart.Part, limit int64) (scene.Upload, bool, error) {
	filename := part.FileName()
	contentType := part.Header.Get("Content-Type")
	if filename == "" || !scene.IsImageContentType(contentType) {
		return scene.Upload{}, false, nil
	}

	data, err := io.ReadAll(io.LimitReader(part, limit+1))
	if err != nil {
		return scene.Upload{}, false, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if int64(len(data)) > limit {
		return scene.Upload{}, false, fmt.Errorf("%s: %w", filename, errPartTooLarge)
	}

	return scene.Upload{
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
	}, true, nil
}
