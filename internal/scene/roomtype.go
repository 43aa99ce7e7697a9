package scene

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DefaultLabels are the zero-shot labels offered to a classifier
var DefaultLabels = []string{
	"living room", "kitchen", "bedroom", "bathroom",
	"outdoor", "desert", "park", "street",
}

// DefaultOutdoorLabels collapse to the outdoor room type
var DefaultOutdoorLabels = []string{"outdoor", "desert", "park", "street"}

// DefaultRotation is the room type cycle used without a classifier
var DefaultRotation = []RoomType{LivingRoom, Kitchen, Bedroom, Bathroom}

// RoomTypeAssigner decides the type of a room
type RoomTypeAssigner interface {
	Assign(ctx context.Context, roomNo int, image []byte) (RoomType, error)
}

// ModelAssigner asks a zero-shot classifier to pick among fixed labels
type ModelAssigner struct {
	classifier Classifier
	labels     []string
	outdoor    map[string]bool
}

// NewModelAssigner creates an assigner backed by a classifier. Empty label
// lists fall back to the defaults.
func NewModelAssigner(classifier Classifier, labels, outdoorLabels []string) *ModelAssigner {
	if len(labels) == 0 {
		labels = DefaultLabels
	}
	if len(outdoorLabels) == 0 {
		outdoorLabels = DefaultOutdoorLabels
	}
	outdoor := make(map[string]bool, len(outdoorLabels))
	for _, l := range outdoorLabels {
		outdoor[normalizeLabel(l)] = true
	}
	return &ModelAssigner{classifier: classifier, labels: labels, outdoor: outdoor}
}

// Assign classifies the image and maps the winning label to a room type
func (a *ModelAssigner) Assign(ctx context.Context, _ int, image []byte) (RoomType, error) {
	if a.classifier == nil {
		return "", errors.New("no classifier configured")
	}
	label, err := a.classifier.Classify(ctx, image, a.labels)
	if err != nil {
		return "", fmt.Errorf("classify: %w", err)
	}
	rt, ok := a.Canonical(label)
	if !ok {
		return "", fmt.Errorf("classifier returned unknown label %q", label)
	}
	return rt, nil
}

// Canonical maps a classifier label to a room type: outdoor-like labels
// collapse to outdoor, the rest have spaces replaced by underscores.
func (a *ModelAssigner) Canonical(label string) (RoomType, bool) {
	norm := normalizeLabel(label)
	if a.outdoor[norm] {
		return Outdoor, true
	}
	rt := RoomType(strings.ReplaceAll(norm, " ", "_"))
	return rt, rt.Valid()
}

func normalizeLabel(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), " ")
}

// RotationAssigner cycles through a fixed list by room number
type RotationAssigner struct {
	rotation []RoomType
}

// NewRotationAssigner creates a rotation assigner; an empty list uses the default cycle
func NewRotationAssigner(rotation []RoomType) *RotationAssigner {
	if len(rotation) == 0 {
		rotation = DefaultRotation
	}
	return &RotationAssigner{rotation: rotation}
}

// Assign returns rotation[(roomNo-1) mod len(rotation)]
func (a *RotationAssigner) Assign(_ context.Context, roomNo int, _ []byte) (RoomType, error) {
	n := len(a.rotation)
	idx := ((roomNo-1)%n + n) % n
	return a.rotation[idx], nil
}
