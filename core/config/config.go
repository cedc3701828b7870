package config

import (
	_ "embed"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

//go:embed default/config.yaml
var defaultConfigData []byte

// ConfigurationName is the file name looked up in the config directory.
const ConfigurationName = "config.yaml"

// Configuration holds the shell's user-tunable settings.
type Configuration struct {
	// Prompt is the prompt template. `\w` expands to the working directory
	// (with the home directory contracted to ~) and `\$` to the prompt
	// character.
	Prompt string `json:"prompt" validate:"required"`

	// HistoryFile persists readline history between sessions. Empty
	// disables persistence.
	HistoryFile string `json:"history_file"`

	// LogFile appends one JSON object per executed command line. Empty
	// disables session logging.
	LogFile string `json:"log_file"`

	// StrictErrors reproduces the legacy behavior of aborting the whole
	// shell on malformed redirects and missing HOME/PATH instead of
	// reporting them and reprinting the prompt.
	StrictErrors bool `json:"strict_errors"`
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
