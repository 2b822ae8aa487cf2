package config

import (
	"os"

	"github.com/jrsteele09/lankaconnect-client/internal/errors"
	"gopkg.in/yaml.v3"
)

type Config interface {
	EnvConfig
	APIConfig
	StorageConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type mainConfig struct {
	EnvVars
	API
	Storage
}

// Values is the shape of the optional YAML config file. The same shape carries
// command-line overrides, which take precedence over everything else.
type Values struct {
	AppName    string `yaml:"app_name"`
	Env        string `yaml:"env"`
	LogLevel   string `yaml:"log_level"`
	APIURL     string `yaml:"api_url"`
	APITimeout string `yaml:"api_timeout"`
	StateDir   string `yaml:"state_dir"`
}

// sources resolves a setting: override, then env var, then file, then default.
type sources struct {
	overrides Values
	file      Values
}

func (s sources) resolve(override, envVar, fileValue, defaultValue string) string {
	if override != "" {
		return override
	}
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// New returns a Config backed only by environment variables.
func New() Config {
	return newConfig(sources{})
}

// Load reads the YAML file at path (or $LANKACONNECT_CONFIG when path is empty) and
// layers env vars and overrides on top. No path and no env var means no file.
func Load(path string, overrides Values) (Config, error) {
	if path == "" {
		path = os.Getenv(configFileVar)
	}
	src := sources{overrides: overrides}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "[config.Load] reading %s", path)
		}
		if err := yaml.Unmarshal(data, &src.file); err != nil {
			return nil, errors.Wrapf(err, "[config.Load] parsing %s", path)
		}
	}
	return newConfig(src), nil
}

func newConfig(src sources) Config {
	return mainConfig{
		EnvVars: EnvVars{src},
		API:     API{src},
		Storage: Storage{src},
	}
}
