package config

import (
	_ "embed"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

const (
	ConfigurationName = "config.yaml"
	SessionLogName    = "session_log.json"

	// EnvHistFile overrides the configured history file.
	EnvHistFile = "HISTFILE"
	// EnvPath is the executable search path.
	EnvPath = "PATH"
	// EnvHome is the destination of `cd ~`.
	EnvHome = "HOME"
)

// Configuration holds the shell's settings. The zero value is unusable;
// build one with Default, Load or Initialize.
type Configuration struct {
	configFs afero.Fs

	// Prompt is printed before each command line.
	Prompt string `json:"prompt" validate:"required"`

	// HistoryFile is used when $HISTFILE is not set. Empty disables
	// persistence.
	HistoryFile string `json:"history_file"`

	// DefaultPath is the search path used when $PATH is not set.
	DefaultPath string `json:"default_path" validate:"required"`

	// SessionLog records a JSON event log of the session in the config
	// directory.
	SessionLog bool `json:"session_log"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	return c.configFs
}

// HasConfigDir reports whether the configuration is backed by a directory
// on disk.
func (c *Configuration) HasConfigDir() bool {
	return c.configFs != nil
}

// OpenSessionLog opens the session log in an append only state.
func (c *Configuration) OpenSessionLog() (afero.File, error) {
	return c.fs().OpenFile(SessionLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// HistoryPath resolves the history file: $HISTFILE wins over the configured
// file. Empty means history is not persisted.
func (c *Configuration) HistoryPath() string {
	if path := os.Getenv(EnvHistFile); path != "" {
		return path
	}
	return c.HistoryFile
}

// PathEnv resolves the executable search path: $PATH wins over the
// configured default.
func (c *Configuration) PathEnv() string {
	if path := os.Getenv(EnvPath); path != "" {
		return path
	}
	return c.DefaultPath
}

// Default returns the embedded default configuration, with no backing
// config directory.
func Default() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
