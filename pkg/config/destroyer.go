package config

import (
	"github.com/tauraamui/kinectone/internal/config"
	"github.com/tauraamui/kinectone/pkg/configdef"
)

type Destroyer interface {
	configdef.Destroyer
}

func DefaultDestroyer() Destroyer {
	return config.DefaultDestroyer()
}
