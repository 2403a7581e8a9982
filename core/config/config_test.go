package config

import (
	"io"
	"log"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestBuiltinConfig(t *testing.T) {
	rawConfig := make(map[string]interface{})
	assert.Nil(t, yaml.Unmarshal(defaultConfigData, &rawConfig))

	knownFields := make(map[string]bool)
	rt := reflect.TypeOf(Configuration{})
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		assert.NotEmpty(t, jsonTag)
		jsonField := strings.Split(jsonTag, ",")[0]
		knownFields[jsonField] = true

		if _, ok := rawConfig[jsonField]; !ok {
			assert.False(t, true, "default config missing field: %q", jsonField)
		}
	}

	for k := range rawConfig {
		_, ok := knownFields[k]
		assert.True(t, ok, "default config contains invalid field: %q", k)
	}
}

func TestDefaultConfig(t *testing.T) {
	// Will panic() on load failure because it should never happen at runtime.
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Configuration)
		wantErr bool
	}{
		{"default is valid", func(c *Configuration) {}, false},
		{"missing prompt", func(c *Configuration) { c.Prompt = "" }, true},
		{"bad color", func(c *Configuration) { c.Color = "sometimes" }, true},
		{"color always", func(c *Configuration) { c.Color = ColorAlways }, false},
		{"color never", func(c *Configuration) { c.Color = ColorNever }, false},
		{"history may be empty", func(c *Configuration) { c.HistoryFile = "" }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInitializeThenLoad(t *testing.T) {
	fsys := afero.NewMemMapFs()
	logger := log.New(io.Discard, "", 0)

	require.NoError(t, Initialize(fsys, "cfg", logger))

	got, err := Load(fsys, "cfg")
	require.NoError(t, err)
	assert.Equal(t, Default(), got)

	// Re-running leaves the existing file alone.
	require.NoError(t, afero.WriteFile(fsys, "cfg/config.yaml",
		[]byte("prompt: '> '\ncolor: never\n"), 0644))
	require.NoError(t, Initialize(fsys, "cfg", logger))

	got, err = Load(fsys, "cfg")
	require.NoError(t, err)
	assert.Equal(t, "> ", got.Prompt)
}

func TestLoadAcceptsConfigFilePath(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, Initialize(fsys, "cfg", log.New(io.Discard, "", 0)))

	_, err := Load(fsys, "cfg/config.yaml")
	assert.NoError(t, err)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "cfg/config.yaml",
		[]byte("prompt: '> '\ncolor: auto\nbogus: true\n"), 0644))

	_, err := Load(fsys, "cfg")
	assert.Error(t, err)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "nowhere")
	assert.Error(t, err)
}

func TestHistoryPath(t *testing.T) {
	cfg := &Configuration{HistoryFile: "/var/tmp/hist"}
	assert.Equal(t, "/var/tmp/hist", cfg.HistoryPath())

	cfg.HistoryFile = ""
	assert.Equal(t, "", cfg.HistoryPath())

	cfg.HistoryFile = ".pipesh_history"
	assert.True(t, strings.HasSuffix(cfg.HistoryPath(), "/.pipesh_history"))
}
