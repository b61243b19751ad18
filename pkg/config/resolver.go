package config

import (
	"github.com/tauraamui/kinectone/internal/config"
	"github.com/tauraamui/kinectone/pkg/configdef"
)

type Resolver interface {
	configdef.Resolver
}

func DefaultResolver() Resolver {
	return config.DefaultResolver()
}
