package config

import "github.com/tauraamui/kinectone/pkg/configdef"

type defaultSettingKey uint

const (
	DRIVER        defaultSettingKey = 0x0
	BACKEND       defaultSettingKey = 0x1
	FPS           defaultSettingKey = 0x2
	OUTPUTS       defaultSettingKey = 0x3
	SNAPSHOTEVERY defaultSettingKey = 0x4
	PERSISTDIR    defaultSettingKey = 0x5
)

var defaultSettings = map[defaultSettingKey]interface{}{
	DRIVER:        "freenect2",
	BACKEND:       "default",
	FPS:           30,
	OUTPUTS:       []string{configdef.OutputColor, configdef.OutputDepth, configdef.OutputBigDepth},
	SNAPSHOTEVERY: 30,
	PERSISTDIR:    "snapshots",
}

// defaultValues is what a freshly created config file holds and what
// any field missing from a loaded one falls back to.
func defaultValues() configdef.Values {
	outputs := defaultSettings[OUTPUTS].([]string)
	return configdef.Values{
		Driver:        defaultSettings[DRIVER].(string),
		Backend:       defaultSettings[BACKEND].(string),
		FPS:           defaultSettings[FPS].(int),
		Outputs:       append([]string(nil), outputs...),
		SnapshotEvery: defaultSettings[SNAPSHOTEVERY].(int),
		PersistLoc:    defaultSettings[PERSISTDIR].(string),
	}
}
