// Package robot translates game progress into motor power and sends it to
// serial base stations.
package robot

import (
	"errors"
	"fmt"

	"github.com/hotspot-trainer/backend/internal/models"
)

// Protocol errors. They abort one power update and leave the session alone.
var (
	ErrOutOfRange  = errors.New("progress outside [0,100]")
	ErrInvalidMode = errors.New("invalid upgrade mode")
	ErrPowerRange  = errors.New("power outside [0,255]")
)

// Transmitter sends one left/right power pair.
type Transmitter interface {
	Transmit(left, right byte) error
}

// PowerModel maps progress to left/right motor power.
type PowerModel struct {
	Mode     models.UpgradeMode
	MinPower int
	MaxPower int

	tx Transmitter
}

// NewPowerModel creates a power model that sends through tx. A nil tx
// computes without sending.
func NewPowerModel(mode models.UpgradeMode, minPower, maxPower int, tx Transmitter) *PowerModel {
	return &PowerModel{Mode: mode, MinPower: minPower, MaxPower: maxPower, tx: tx}
}

// SetTransmitter swaps the link power is sent through.
func (p *PowerModel) SetTransmitter(tx Transmitter) {
	p.tx = tx
}

// Compute returns the power pair for a progress value in [0,100]. ok is
// false when the mode emits nothing (distance).
func (p *PowerModel) Compute(progress float64) (left, right byte, ok bool, err error) {
	if progress < 0 || progress > 100 {
		return 0, 0, false, fmt.Errorf("%w: %g", ErrOutOfRange, progress)
	}
	if p.MinPower < 0 || p.MinPower > 255 || p.MaxPower < 0 || p.MaxPower > 255 {
		return 0, 0, false, fmt.Errorf("%w: min %d max %d", ErrPowerRange, p.MinPower, p.MaxPower)
	}

	lo, hi := float64(p.MinPower), float64(p.MaxPower)
	full := interpolate(progress, 0, 100, lo, hi)

	// The lagging side runs two segments, [0,50] and (50,100], each over
	// the whole power range. 50 itself belongs to the lower segment.
	var lagging float64
	if progress <= 50 {
		lagging = interpolate(progress, 0, 50, lo, hi)
	} else {
		lagging = interpolate(progress, 50, 100, lo, hi)
	}

	switch p.Mode {
	case models.ModeBoth:
		return toByte(full), toByte(full), true, nil
	case models.ModeLeft:
		return toByte(full), toByte(lagging), true, nil
	case models.ModeRight:
		return toByte(lagging), toByte(full), true, nil
	case models.ModeDistance:
		return 0, 0, false, nil
	}
	return 0, 0, false, fmt.Errorf("%w: %q", ErrInvalidMode, p.Mode)
}

// SetPower computes the power pair for progress and transmits it.
func (p *PowerModel) SetPower(progress float64) error {
	left, right, ok, err := p.Compute(progress)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("[Robot] mode %s emits no power change\n", p.Mode)
		return nil
	}
	if p.tx == nil {
		fmt.Printf("[Robot] no base station link, power %d/%d not sent\n", left, right)
		return nil
	}
	return p.tx.Transmit(left, right)
}

// interpolate maps in from [inMin,inMax] to [outMin,outMax].
func interpolate(in, inMin, inMax, outMin, outMax float64) float64 {
	if inMax == inMin {
		return outMin
	}
	return outMin + (in-inMin)*(outMax-outMin)/(inMax-inMin)
}

func toByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
