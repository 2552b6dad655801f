package robot

import (
	"errors"
	"testing"

	"github.com/hotspot-trainer/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capture struct {
	calls [][2]byte
}

func (c *capture) Transmit(left, right byte) error {
	c.calls = append(c.calls, [2]byte{left, right})
	return nil
}

func TestCompute_Both(t *testing.T) {
	p := NewPowerModel(models.ModeBoth, 80, 254, nil)

	left, right, ok, err := p.Compute(0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, byte(80), left)
	assert.Equal(t, byte(80), right)

	left, right, _, err = p.Compute(100)
	require.NoError(t, err)
	assert.Equal(t, byte(254), left)
	assert.Equal(t, byte(254), right)
}

func TestCompute_LeftTwoSegmentBoundary(t *testing.T) {
	p := NewPowerModel(models.ModeLeft, 80, 254, nil)

	left, right, _, err := p.Compute(50)
	require.NoError(t, err)
	assert.Equal(t, byte(167), left, "left is the midpoint of the full range")
	assert.Equal(t, byte(254), right, "right reaches the end of its lower segment")

	left, right, _, err = p.Compute(75)
	require.NoError(t, err)
	assert.Equal(t, byte(210), left)
	assert.Equal(t, byte(167), right, "upper segment restarts from min")

	left, right, _, err = p.Compute(100)
	require.NoError(t, err)
	assert.Equal(t, byte(254), left)
	assert.Equal(t, byte(254), right)
}

func TestCompute_RightMirrorsLeft(t *testing.T) {
	l := NewPowerModel(models.ModeLeft, 80, 254, nil)
	r := NewPowerModel(models.ModeRight, 80, 254, nil)

	for _, progress := range []float64{0, 10, 25, 50, 51, 80, 100} {
		ll, lr, _, err := l.Compute(progress)
		require.NoError(t, err)
		rl, rr, _, err := r.Compute(progress)
		require.NoError(t, err)
		assert.Equal(t, ll, rr, "progress %g", progress)
		assert.Equal(t, lr, rl, "progress %g", progress)
	}
}

func TestCompute_OutOfRangeForEveryMode(t *testing.T) {
	for _, mode := range []models.UpgradeMode{models.ModeBoth, models.ModeLeft, models.ModeRight, models.ModeDistance} {
		p := NewPowerModel(mode, 80, 254, nil)
		for _, progress := range []float64{150, -1} {
			_, _, _, err := p.Compute(progress)
			assert.True(t, errors.Is(err, ErrOutOfRange), "mode %s progress %g: %v", mode, progress, err)
			assert.ErrorIs(t, p.SetPower(progress), ErrOutOfRange)
		}
	}
}

func TestCompute_InvalidMode(t *testing.T) {
	p := NewPowerModel(models.UpgradeMode("sideways"), 80, 254, nil)
	_, _, _, err := p.Compute(10)
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestCompute_PowerRange(t *testing.T) {
	p := NewPowerModel(models.ModeBoth, 80, 300, nil)
	_, _, _, err := p.Compute(10)
	assert.ErrorIs(t, err, ErrPowerRange)
}

func TestCompute_DegenerateRange(t *testing.T) {
	assert.Equal(t, 7.0, interpolate(3, 5, 5, 7, 9))
}

func TestSetPower_Transmits(t *testing.T) {
	c := &capture{}
	p := NewPowerModel(models.ModeBoth, 80, 254, c)

	require.NoError(t, p.SetPower(100))
	assert.Equal(t, [][2]byte{{254, 254}}, c.calls)
}

func TestSetPower_DistanceIsNoOp(t *testing.T) {
	c := &capture{}
	p := NewPowerModel(models.ModeDistance, 80, 254, c)

	require.NoError(t, p.SetPower(60))
	assert.Empty(t, c.calls)
}

func TestSetPower_NoTransmitter(t *testing.T) {
	p := NewPowerModel(models.ModeBoth, 80, 254, nil)
	assert.NoError(t, p.SetPower(30))
}
