package config

import (
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tauraamui/kinectone/pkg/configdef"
	"github.com/tauraamui/kinectone/pkg/log"
)

type LoadConfigTestSuite struct {
	suite.Suite
	configResolver configdef.Resolver
	fs             afero.Fs
	path           string
	configFile     afero.File
	restore        func()
}

func (suite *LoadConfigTestSuite) SetupSuite() {
	suite.fs = afero.NewMemMapFs()
	suite.configResolver = DefaultResolver()
	suite.restore = overloadUserConfigDir("/test")

	// use in memory FS in implementation for tests
	fs = suite.fs
}

func (suite *LoadConfigTestSuite) TearDownSuite() {
	fs = afero.NewOsFs()
	suite.restore()
}

func (suite *LoadConfigTestSuite) SetupTest() {
	os.Unsetenv(configEnvKey)
	os.Unsetenv(backendEnvKey)

	path, err := resolveConfigPath()
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), "/test/tacusci/kinectone/config.json", path)
	suite.path = path

	configFile, err := suite.fs.Create(path)
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), configFile)

	suite.configFile = configFile

	// can be overridden this so reset it back before
	// each test to ensure that it's an opt in thing per
	// individual test
	suite.overwriteTestConfig(
		`{
			"debug": true,
			"driver": "simulated",
			"backend": "opencl",
			"device_id": 1,
			"fps": 15,
			"outputs": ["color", "registered"],
			"snapshot_every": 10,
			"persist_location": "/data/kinect"
		}`,
	)
}

func (suite *LoadConfigTestSuite) overwriteTestConfig(config string) {
	require.NoError(suite.T(), suite.configFile.Truncate(0))
	_, err := suite.configFile.Seek(0, 0)
	require.NoError(suite.T(), err)
	_, err = suite.configFile.WriteString(config)
	assert.NoError(suite.T(), err)
}

func (suite *LoadConfigTestSuite) TearDownTest() {
	require.NoError(suite.T(), suite.configFile.Close())
	suite.fs.Remove(suite.path)
}

func (suite *LoadConfigTestSuite) TestLoadConfig() {
	config, err := suite.configResolver.Resolve()
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), configdef.Values{
		Debug:         true,
		Driver:        "simulated",
		Backend:       "opencl",
		DeviceID:      1,
		FPS:           15,
		Outputs:       []string{"color", "registered"},
		SnapshotEvery: 10,
		PersistLoc:    "/data/kinect",
	}, config)
}

func (suite *LoadConfigTestSuite) TestMissingFieldsTakeDefaults() {
	suite.overwriteTestConfig(`{"driver": "simulated"}`)

	config, err := suite.configResolver.Resolve()
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "simulated", config.Driver)
	assert.Equal(suite.T(), "default", config.Backend)
	assert.Equal(suite.T(), 30, config.FPS)
	assert.Equal(suite.T(), 30, config.SnapshotEvery)
	assert.Equal(suite.T(), []string{"color", "depth", "big_depth"}, config.Outputs)
	assert.Equal(suite.T(), "snapshots", config.PersistLoc)
}

func (suite *LoadConfigTestSuite) TestBackendOverriddenFromEnv() {
	os.Setenv(backendEnvKey, "cuda")
	defer os.Unsetenv(backendEnvKey)

	config, err := suite.configResolver.Resolve()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "cuda", config.Backend)
}

func (suite *LoadConfigTestSuite) TestConfigPathFromEnv() {
	require.NoError(suite.T(), afero.WriteFile(suite.fs, "/elsewhere/kinect.json", []byte(`{"fps": 5}`), 0666))
	os.Setenv(configEnvKey, "/elsewhere/kinect.json")
	defer os.Unsetenv(configEnvKey)

	config, err := suite.configResolver.Resolve()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 5, config.FPS)
	assert.Equal(suite.T(), "freenect2", config.Driver)
}

func (suite *LoadConfigTestSuite) TestConfigLoadFailsOnInvalidJSON() {
	suite.overwriteTestConfig(`{"debug" true}`)

	config, err := suite.configResolver.Resolve()
	require.Error(suite.T(), err)
	require.Empty(suite.T(), config)

	assert.EqualError(suite.T(), err, "parsing configuration error: invalid character 't' after object key")
}

func (suite *LoadConfigTestSuite) TestConfigLoadFailsValidationOnDupOutputs() {
	suite.overwriteTestConfig(`{"outputs": ["color", "depth", "color"]}`)

	config, err := suite.configResolver.Resolve()
	require.Error(suite.T(), err)
	require.Empty(suite.T(), config)

	assert.EqualError(suite.T(), err, "validation failed: outputs must be unique")
}

func (suite *LoadConfigTestSuite) TestConfigLoadFailsValidationOnFPS() {
	suite.overwriteTestConfig(`{"fps": 60}`)

	_, err := suite.configResolver.Resolve()
	assert.EqualError(suite.T(), err, `Validation error in field "FPS" of type "int" using validator "lte=30"`)
}

func TestLoadConfigTestSuite(t *testing.T) {
	defer log.Silence()()
	suite.Run(t, &LoadConfigTestSuite{})
}
