package config

import "github.com/spf13/afero"

const (
	vendorName     = "tacusci"
	appName        = "kinectone"
	configFileName = "config.json"

	configEnvKey  = "KINECTONE_CONFIG"
	backendEnvKey = "KINECTONE_BACKEND"
)

var fs afero.Fs = afero.NewOsFs()
