package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zucenko/mazekeys/model"
)

func TestCommandNamesRoundTrip(t *testing.T) {
	for c := CmdStart; c <= CmdGamepad; c++ {
		w := model.WireCommand{Type: c.Name(), Direction: "left", Ray: &model.Ray{}}
		cmd, err := CommandFromWire(w)
		require.NoError(t, err, c.Name())
		assert.Equal(t, c, cmd.Type)
	}
	assert.Equal(t, "n/a:99", CommandType(99).Name())
}

func TestCommandFromWireErrors(t *testing.T) {
	_, err := CommandFromWire(model.WireCommand{Type: "fly"})
	assert.True(t, errors.Is(err, ErrUnknownCommand))

	_, err = CommandFromWire(model.WireCommand{Type: "touchPress", Direction: "up"})
	assert.Error(t, err)

	_, err = CommandFromWire(model.WireCommand{Type: "worldSelect"})
	assert.Error(t, err)
}

func TestCommandFromWireFields(t *testing.T) {
	cmd, err := CommandFromWire(model.WireCommand{Type: "touchRelease", Direction: "backward"})
	require.NoError(t, err)
	assert.Equal(t, DirBackward, cmd.Direction)

	head := &model.Pose{Position: model.Vec3{Y: 1.7}}
	cmd, err = CommandFromWire(model.WireCommand{
		Type:        "xrFrame",
		Head:        head,
		Controllers: []model.ControllerInput{{Axes: []float64{1}}},
	})
	require.NoError(t, err)
	assert.Equal(t, head, cmd.Head)
	assert.Len(t, cmd.Controllers, 1)

	cmd, err = CommandFromWire(model.WireCommand{Type: "look", DeltaYaw: 0.2, DeltaPitch: -0.1})
	require.NoError(t, err)
	assert.Equal(t, 0.2, cmd.DeltaYaw)
	assert.Equal(t, -0.1, cmd.DeltaPitch)
}

func TestEventWire(t *testing.T) {
	w := Event{Type: EventCollected, ID: 2, Progress: model.Progress{Collected: 1, Total: 3}}.Wire()
	assert.Equal(t, model.WireEvent{Type: "collected", ID: 2, Progress: model.Progress{Collected: 1, Total: 3}}, w)

	w = Event{Type: EventModeChanged, Mode: model.ModeImmersiveVR}.Wire()
	assert.Equal(t, "IMMERSIVE_VR", w.Mode)
	assert.Equal(t, "victory", EventVictory.Name())
}
