package scene

import (
	"context"
	"image"
	"mime"
	"strings"
	"time"

	"github.com/bhargavsai259/collegeproject/internal/logger"
)

// Upload is one file part received from a client
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// IsImageContentType reports whether a declared MIME type is image/*.
// Case and parameters are ignored.
func IsImageContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.HasPrefix(mediaType, "image/")
}

// Builder runs the per-image stages and the layout pass
type Builder struct {
	codec     ImageCodec
	dims      DimensionEstimator
	colors    ColorExtractor
	assigner  RoomTypeAssigner
	furniture *FurnitureDetector
	layout    *Composer
	logger    *logger.Logger
}

// Options wires the stages of a Builder
type Options struct {
	Codec      ImageCodec
	Dimensions DimensionEstimator
	Colors     ColorExtractor
	Assigner   RoomTypeAssigner
	Furniture  *FurnitureDetector
	Layout     *Composer
}

// NewBuilder creates a scene builder
func NewBuilder(opts Options, log *logger.Logger) *Builder {
	assigner := opts.Assigner
	if assigner == nil {
		assigner = NewRotationAssigner(nil)
	}
	furniture := opts.Furniture
	if furniture == nil {
		furniture = NewFurnitureDetector(nil, FurnitureOptions{FallbackPosition: [2]float64{2.0, 1.0}})
	}
	layout := opts.Layout
	if layout == nil {
		layout = NewComposer(50.0, 2, log)
	}
	return &Builder{
		codec:     opts.Codec,
		dims:      opts.Dimensions,
		colors:    opts.Colors,
		assigner:  assigner,
		furniture: furniture,
		layout:    layout,
		logger:    log,
	}
}

// Build turns uploads into laid-out room records. Non-image uploads are
// skipped and room numbers stay dense over the accepted images. Uploads are
// processed one at a time in order. Stage failures are logged and replaced
// by defaults, so Build always returns a record per accepted image.
func (b *Builder) Build(ctx context.Context, uploads []Upload) []RoomRecord {
	log := logger.FromContext(ctx, b.logger)
	start := time.Now()

	rooms := make([]RoomRecord, 0, len(uploads))
	for _, up := range uploads {
		if !IsImageContentType(up.ContentType) {
			log.Debug("Skipping non-image upload",
				"filename", up.Filename,
				"content_type", up.ContentType,
			)
			continue
		}
		rooms = append(rooms, b.buildRoom(ctx, log, len(rooms)+1, up))
	}

	b.layout.Arrange(rooms)

	log.Info("Scene built",
		"uploads", len(uploads),
		"rooms", len(rooms),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return rooms
}

func (b *Builder) buildRoom(ctx context.Context, log *logger.Logger, roomNo int, up Upload) RoomRecord {
	log = log.With("room", roomNo, "filename", up.Filename)

	var img image.Image
	if b.codec != nil {
		decoded, err := b.codec.Decode(up.Data)
		if err != nil {
			log.Warn("Image decode failed, using default dimensions and colors", "stage", "decode", "error", err)
		} else {
			img = decoded
		}
	}

	payload := up.Data
	if img != nil {
		if prepared, err := b.codec.PrepareForModel(img); err != nil {
			log.Warn("Model image preparation failed, sending original bytes", "stage", "prepare", "error", err)
		} else {
			payload = prepared
		}
	}

	dims := b.dims.Default()
	if img != nil {
		bounds := img.Bounds()
		if d, err := b.dims.Estimate(bounds.Dx(), bounds.Dy()); err != nil {
			log.Warn("Dimension estimation failed", "stage", "dimensions", "error", err)
		} else {
			dims = d
		}
	}

	colors, err := b.colors.Extract(img)
	if err != nil {
		if img != nil {
			log.Warn("Color extraction failed", "stage", "colors", "error", err)
		}
		colors = DefaultColors(b.colors.Count)
	}

	roomType, err := b.assigner.Assign(ctx, roomNo, payload)
	if err != nil {
		log.Warn("Room type assignment failed", "stage", "room_type", "error", err)
		roomType = LivingRoom
	}

	furniture := []FurnitureItem{}
	if roomType != Outdoor {
		items, err := b.furniture.Detect(ctx, payload, dims)
		switch {
		case err != nil:
			log.Warn("Furniture detection failed", "stage", "furniture", "error", err)
			furniture = b.furniture.Fallback()
		case len(items) == 0:
			log.Debug("No furniture detected, using fallback item", "stage", "furniture")
			furniture = b.furniture.Fallback()
		default:
			furniture = items
		}
	}

	return RoomRecord{
		RoomNo:         roomNo,
		RoomType:       roomType,
		Position:       origin(b.layout.dims),
		Dimensions:     dims,
		RoomColor:      colors[0],
		Colors:         colors,
		Furniture:      furniture,
		FurnitureCount: len(furniture),
	}
}
