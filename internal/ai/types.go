package ai

// InferenceRequest is the body of a detection request
type InferenceRequest struct {
	Image               string   `json:"image"` // base64-encoded JPEG
	ConfidenceThreshold *float64 `json:"confidence_threshold,omitempty"`
	EnabledClasses      []string `json:"enabled_classes,omitempty"`
}

// BoundingBox is a detected object in pixel coordinates
type BoundingBox struct {
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
	X2         float64 `json:"x2"`
	Y2         float64 `json:"y2"`
	Confidence float64 `json:"confidence"`
	ClassID    int     `json:"class_id"`
	ClassName  string  `json:"class_name"`
}

// InferenceResponse is the detection service reply
type InferenceResponse struct {
	BoundingBoxes   []BoundingBox `json:"bounding_boxes"`
	InferenceTimeMs float64       `json:"inference_time_ms"`
	FrameShape      []int         `json:"frame_shape"` // [height, width]
	DetectionCount  int           `json:"detection_count"`
}

// ClassifyRequest is the body of a zero-shot classification request
type ClassifyRequest struct {
	Image  string   `json:"image"`
	Labels []string `json:"labels"`
}

// LabelScore is one candidate label with its probability
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ClassifyResponse is the classification service reply. Services may send
// the full score list, the winning label, or both.
type ClassifyResponse struct {
	Label           string       `json:"label,omitempty"`
	Scores          []LabelScore `json:"scores,omitempty"`
	InferenceTimeMs float64      `json:"inference_time_ms"`
}

// ErrorResponse is the error body returned by the inference service
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}
