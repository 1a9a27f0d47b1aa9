package config

import (
	"os"
	"sync"

	"emperror.dev/errors"
	"github.com/asaskevich/govalidator"
	"github.com/creasty/defaults"
	"gopkg.in/yaml.v2"
)

// DefaultLocation is the default location of the configuration file. The file
// is entirely optional: when it is missing every value falls back to its
// default, and flags can override everything anyway.
const DefaultLocation = "/etc/scrub/config.yml"

type Configuration struct {
	// Determines if scrub should emit debug level output.
	Debug bool `yaml:"debug" default:"false"`

	// The directory a rotating scrub.log is written to, in addition to the
	// console output. Leave empty to log only to the console.
	LogDirectory string `yaml:"log_directory" default:""`

	Shredder ShredderConfiguration `yaml:"shredder"`
}

type ShredderConfiguration struct {
	// The number of overwrite passes written to every file in a run. Values
	// below 1 are clamped to 1 when the run starts.
	Passes int `yaml:"passes" default:"3"`

	// The fill pattern written by every pass.
	Pattern string `yaml:"pattern" default:"random" valid:"in(zeros|ones|random)"`

	// Milliseconds slept after each completed pass so progress output stays
	// legible to a human observer. Zero disables the pause entirely; it has no
	// correctness role.
	PassPauseMs int `yaml:"pass_pause_ms" default:"50"`

	// Gitignore style patterns, matched relative to the processed directory,
	// naming entries that must survive a recursive run.
	Exclude []string `yaml:"exclude"`
}

var (
	mu      sync.RWMutex
	_config *Configuration
)

// NewDefault returns a configuration with every value at its default.
func NewDefault() (*Configuration, error) {
	c := new(Configuration)
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "config: failed to apply default values")
	}
	return c, nil
}

// FromFile reads the configuration from the given path on top of the defaults.
// A missing file is not an error.
func FromFile(path string) (*Configuration, error) {
	c, err := NewDefault()
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, errors.Wrap(err, "config: failed to read configuration file")
	}

	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, errors.Wrap(err, "config: failed to parse configuration file")
	}
	if _, err := govalidator.ValidateStruct(c); err != nil {
		return nil, errors.Wrap(err, "config: invalid configuration")
	}
	return c, nil
}

// Set stores the configuration for global access.
func Set(c *Configuration) {
	mu.Lock()
	_config = c
	mu.Unlock()
}

// Get returns the currently stored configuration.
func Get() *Configuration {
	mu.RLock()
	defer mu.RUnlock()
	return _config
}
