package utilities

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRestConfigJson struct {
	Port uint16 `json:"port" env:"PORT"`
}

type testConfigJson struct {
	Name string             `json:"name" env:"NAME"`
	Rest testRestConfigJson `json:"rest" envPrefix:"REST_"`
}

type testConfig struct {
	Name string
	Port uint16
}

func (c testConfigJson) ConvertToDomain() testConfig {
	return testConfig{Name: c.Name, Port: c.Rest.Port}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadConfig(t *testing.T) {
	path := writeFile(t, "config.json", `{"name":"fairpass","rest":{"port":9000}}`)

	cfg, err := ReadConfig[testConfigJson, testConfig](path)
	require.NoError(t, err)
	assert.Equal(t, testConfig{Name: "fairpass", Port: 9000}, cfg)
}

func TestReadConfigEnvOverrides(t *testing.T) {
	path := writeFile(t, "config.json", `{"name":"fairpass","rest":{"port":9000}}`)
	t.Setenv(EnvPrefix+"REST_PORT", "9100")

	cfg, err := ReadConfig[testConfigJson, testConfig](path)
	require.NoError(t, err)
	assert.Equal(t, uint16(9100), cfg.Port)
	assert.Equal(t, "fairpass", cfg.Name)
}

func TestReadConfigErrors(t *testing.T) {
	_, err := ReadConfig[testConfigJson, testConfig](filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	broken := writeFile(t, "config.json", `{"name":`)
	_, err = ReadConfig[testConfigJson, testConfig](broken)
	assert.Error(t, err)
}

func TestLoadEnvironment(t *testing.T) {
	path := writeFile(t, ".env", "FAIRPASS_TEST_LOADED=yes\n")
	t.Setenv("FAIRPASS_TEST_LOADED", "")
	require.NoError(t, os.Unsetenv("FAIRPASS_TEST_LOADED"))

	require.NoError(t, LoadEnvironment(path, filepath.Join(t.TempDir(), "absent.env")))
	assert.Equal(t, "yes", os.Getenv("FAIRPASS_TEST_LOADED"))
}

func TestMapAndConvert(t *testing.T) {
	assert.Equal(t, []string{"1", "2"}, Map([]int{1, 2}, strconv.Itoa))

	converted := ConvertJsonArrayToDomain[testConfigJson, testConfig]([]testConfigJson{{Name: "a"}, {Name: "b"}})
	assert.Equal(t, []testConfig{{Name: "a"}, {Name: "b"}}, converted)
	assert.Empty(t, ConvertJsonArrayToDomain[testConfigJson, testConfig](nil))
}

func TestTernary(t *testing.T) {
	assert.Equal(t, "yes", Ternary(true, "yes", "no"))
	assert.Equal(t, 2, Ternary(false, 1, 2))
}
