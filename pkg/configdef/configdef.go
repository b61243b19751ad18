package configdef

import (
	"errors"
	"fmt"

	"gopkg.in/dealancer/validate.v2"
)

// Output names accepted in the outputs list.
const (
	OutputColor      = "color"
	OutputDepth      = "depth"
	OutputBigDepth   = "big_depth"
	OutputRegistered = "registered"
)

type Values struct {
	Debug         bool     `json:"debug"`
	Driver        string   `json:"driver" validate:"empty=false"`
	Backend       string   `json:"backend"`
	DeviceID      int      `json:"device_id" validate:"gte=0"`
	FPS           int      `json:"fps" validate:"gte=1 & lte=30"`
	Outputs       []string `json:"outputs"`
	SnapshotEvery int      `json:"snapshot_every" validate:"gte=1"`
	PersistLoc    string   `json:"persist_location" validate:"empty=false"`
}

// RunValidate checks the field constraints and then Validate.
func (v Values) RunValidate() error {
	return validate.Validate(&v)
}

func (v Values) Validate() error {
	const validationErrorHeader = "validation failed: %w"
	if name, ok := unknownOutput(v.Outputs); ok {
		return fmt.Errorf(validationErrorHeader, fmt.Errorf("unknown output %q", name))
	}
	if HasDupOutputs(v.Outputs) {
		return fmt.Errorf(validationErrorHeader, errors.New("outputs must be unique"))
	}
	return nil
}

func unknownOutput(outputs []string) (string, bool) {
	for _, o := range outputs {
		switch o {
		case OutputColor, OutputDepth, OutputBigDepth, OutputRegistered:
		default:
			return o, true
		}
	}
	return "", false
}

func HasDupOutputs(outputs []string) bool {
	seen := map[string]struct{}{}
	for _, o := range outputs {
		if _, ok := seen[o]; ok {
			return true
		}
		seen[o] = struct{}{}
	}
	return false
}
