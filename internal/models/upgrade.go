package models

import (
	"fmt"
	"strings"
)

// UpgradeTrigger selects when robot power is recomputed.
type UpgradeTrigger string

const (
	TriggerHotspot UpgradeTrigger = "hotspot"
	TriggerLevel   UpgradeTrigger = "level"
)

// ParseUpgradeTrigger accepts the trigger names, plus "folder" which older
// settings files use for the per-level trigger.
func ParseUpgradeTrigger(s string) (UpgradeTrigger, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hotspot":
		return TriggerHotspot, nil
	case "level", "folder":
		return TriggerLevel, nil
	}
	return "", fmt.Errorf("unknown upgrade trigger %q", s)
}

// UpgradeMode selects how progress maps to left/right motor power.
type UpgradeMode string

const (
	ModeLeft     UpgradeMode = "left"
	ModeRight    UpgradeMode = "right"
	ModeBoth     UpgradeMode = "both"
	ModeDistance UpgradeMode = "distance"
)

// ParseUpgradeMode normalizes a mode name.
func ParseUpgradeMode(s string) (UpgradeMode, error) {
	m := UpgradeMode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeLeft, ModeRight, ModeBoth, ModeDistance:
		return m, nil
	}
	return "", fmt.Errorf("unknown upgrade mode %q", s)
}
