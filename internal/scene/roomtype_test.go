package scene

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelAssigner_Canonical(t *testing.T) {
	a := NewModelAssigner(nil, nil, nil)

	cases := map[string]RoomType{
		"living room": LivingRoom,
		"Living Room": LivingRoom,
		"kitchen":     Kitchen,
		"bedroom":     Bedroom,
		"bathroom":    Bathroom,
		"outdoor":     Outdoor,
		"desert":      Outdoor,
		"park":        Outdoor,
		" street ":    Outdoor,
	}
	for label, want := range cases {
		got, ok := a.Canonical(label)
		assert.True(t, ok, label)
		assert.Equal(t, want, got, label)
	}

	_, ok := a.Canonical("garage")
	assert.False(t, ok)
}

func TestModelAssigner_Assign(t *testing.T) {
	cls := &stubClassifier{label: "park"}
	a := NewModelAssigner(cls, nil, nil)

	rt, err := a.Assign(context.Background(), 1, []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, Outdoor, rt)
	assert.Equal(t, DefaultLabels, cls.labels)
}

func TestModelAssigner_Errors(t *testing.T) {
	_, err := NewModelAssigner(&stubClassifier{err: errBackendDown}, nil, nil).Assign(context.Background(), 1, nil)
	assert.ErrorIs(t, err, errBackendDown)

	_, err = NewModelAssigner(&stubClassifier{label: "attic"}, nil, nil).Assign(context.Background(), 1, nil)
	assert.ErrorContains(t, err, "unknown label")

	_, err = NewModelAssigner(nil, nil, nil).Assign(context.Background(), 1, nil)
	assert.Error(t, err)
}

func TestRotationAssigner(t *testing.T) {
	a := NewRotationAssigner(nil)
	want := []RoomType{LivingRoom, Kitchen, Bedroom, Bathroom, LivingRoom, Kitchen}
	for i, expected := range want {
		rt, err := a.Assign(context.Background(), i+1, nil)
		require.NoError(t, err)
		assert.Equal(t, expected, rt, "room %d", i+1)
	}
}

func TestRotationAssigner_CustomCycle(t *testing.T) {
	a := NewRotationAssigner([]RoomType{Bedroom, Outdoor})
	rt, _ := a.Assign(context.Background(), 4, nil)
	assert.Equal(t, Outdoor, rt)
}
