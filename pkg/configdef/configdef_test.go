package configdef_test

import (
	"encoding/json"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/kinectone/pkg/configdef"
)

const validBody = `{
	"driver": "simulated",
	"backend": "cpu",
	"device_id": 0,
	"fps": 15,
	"outputs": ["color", "big_depth"],
	"snapshot_every": 30,
	"persist_location": "/var/lib/kinectone"
}`

func parse(t *testing.T, body string) configdef.Values {
	t.Helper()
	config := configdef.Values{}
	if err := json.Unmarshal([]byte(body), &config); err != nil {
		t.Fatal(err)
	}
	return config
}

func TestValidatePopulatedConfigPassesValidation(t *testing.T) {
	is := is.New(t)
	config := parse(t, validBody)
	is.NoErr(config.RunValidate())
	is.Equal(config.Outputs, []string{"color", "big_depth"})
}

func TestValidateEmptyConfigFailsOnDriver(t *testing.T) {
	is := is.New(t)
	config := parse(t, `{}`)
	is.Equal(config.RunValidate().Error(), `Validation error in field "Driver" of type "string" using validator "empty=false"`)
}

func TestValidateFailsForMissingPersistLocation(t *testing.T) {
	is := is.New(t)
	config := parse(t, validBody)
	config.PersistLoc = ""
	is.Equal(config.RunValidate().Error(), `Validation error in field "PersistLoc" of type "string" using validator "empty=false"`)
}

func TestValidateFailsForFPSLessThan1(t *testing.T) {
	is := is.New(t)
	config := parse(t, validBody)
	config.FPS = -4
	is.Equal(config.RunValidate().Error(), `Validation error in field "FPS" of type "int" using validator "gte=1"`)
}

func TestValidateFailsForFPSMoreThan30(t *testing.T) {
	is := is.New(t)
	config := parse(t, validBody)
	config.FPS = 39
	is.Equal(config.RunValidate().Error(), `Validation error in field "FPS" of type "int" using validator "lte=30"`)
}

func TestValidateFailsForSnapshotEveryLessThan1(t *testing.T) {
	is := is.New(t)
	config := parse(t, validBody)
	config.SnapshotEvery = 0
	is.Equal(config.RunValidate().Error(), `Validation error in field "SnapshotEvery" of type "int" using validator "gte=1"`)
}

func TestValidateFailsForNegativeDeviceID(t *testing.T) {
	is := is.New(t)
	config := parse(t, validBody)
	config.DeviceID = -1
	is.Equal(config.RunValidate().Error(), `Validation error in field "DeviceID" of type "int" using validator "gte=0"`)
}

func TestValidateFailsForUnknownOutput(t *testing.T) {
	is := is.New(t)
	config := parse(t, validBody)
	config.Outputs = []string{"color", "thermal"}
	is.Equal(config.RunValidate().Error(), `validation failed: unknown output "thermal"`)
}

func TestValidateFailsForDuplicateOutputs(t *testing.T) {
	is := is.New(t)
	config := parse(t, validBody)
	config.Outputs = []string{"depth", "color", "depth"}
	is.Equal(config.RunValidate().Error(), "validation failed: outputs must be unique")
}

func TestHasDupOutputs(t *testing.T) {
	is := is.New(t)
	is.True(!configdef.HasDupOutputs(nil))
	is.True(!configdef.HasDupOutputs([]string{"color", "depth", "registered"}))
	is.True(configdef.HasDupOutputs([]string{"color", "depth", "big_depth", "registered", "color"}))
}
