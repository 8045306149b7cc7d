package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when no config file exists.
var ErrNotFound = errors.New("config file not found")

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "SANITY_YAML_"

// DefaultFileNames are tried in order when no config path is given.
var DefaultFileNames = []string{
	"sanity-yaml.config.yaml",
	"sanity-yaml.config.yml",
}

// envKeys maps supported environment variables to config paths.
var envKeys = map[string]string{
	EnvPrefix + "TEXT_ROWS":           "field_defaults.text.rows",
	EnvPrefix + "REMOVE_DEFINE_FIELD": "remove_define_field",
}

// LoadOptions controls Load.
type LoadOptions struct {
	// Path is an explicit config file. When empty the working directory is
	// searched for DefaultFileNames.
	Path string
	// Dir is the directory searched when Path is empty.
	Dir string
	// Required fails with ErrNotFound when no file exists.
	Required bool
	// Overrides are koanf paths set after every other source.
	Overrides map[string]any
	// Environ supplies environment variables; nil uses the process env.
	Environ func() []string
}

// Discover returns the first default config file in dir.
func Discover(fsys afero.Fs, dir string) (string, error) {
	for _, name := range DefaultFileNames {
		p := filepath.Join(dir, name)

		ok, err := afero.Exists(fsys, p)
		if err != nil {
			return "", fmt.Errorf("failed to stat %s: %w", p, err)
		}

		if ok {
			return p, nil
		}
	}

	return "", ErrNotFound
}

// Load builds the configuration from every source.
func Load(fsys afero.Fs, opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path, err := locate(fsys, opts)
	if err != nil {
		return nil, err
	}

	if path != "" {
		if err := loadFile(k, fsys, path); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnvKey,
		EnvironFunc:   opts.Environ,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	for key, value := range opts.Overrides {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set override %s: %w", key, err)
		}
	}

	cfg, err := unmarshalAndValidate(k)
	if err != nil {
		return nil, err
	}

	cfg.Path = path
	cfg.Dir = opts.Dir

	if path != "" {
		cfg.Dir = filepath.Dir(path)
	}

	if cfg.Dir == "" {
		cfg.Dir = "."
	}

	return cfg, nil
}

func locate(fsys afero.Fs, opts LoadOptions) (string, error) {
	if opts.Path != "" {
		ok, err := afero.Exists(fsys, opts.Path)
		if err != nil {
			return "", fmt.Errorf("failed to stat %s: %w", opts.Path, err)
		}

		if !ok {
			return "", fmt.Errorf("%w: %s", ErrNotFound, opts.Path)
		}

		return opts.Path, nil
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	path, err := Discover(fsys, dir)
	if errors.Is(err, ErrNotFound) && !opts.Required {
		return "", nil
	}

	return path, err
}

func loadFile(k *koanf.Koanf, fsys afero.Fs, path string) error {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(raw) == 0 {
		return nil
	}

	if err := k.Load(rawMap(raw), nil); err != nil {
		return fmt.Errorf("failed to apply config file %s: %w", path, err)
	}

	return nil
}

// transformEnvKey maps known variables to config paths and drops the rest.
func transformEnvKey(key, value string) (string, any) {
	path, ok := envKeys[strings.ToUpper(key)]
	if !ok {
		return "", nil
	}

	return path, value
}

func unmarshalAndValidate(k *koanf.Koanf) (*Config, error) {
	var cfg Config

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks cfg against its struct constraints.
func Validate(cfg *Config) error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(cfg)
}

// rawMap is a koanf.Provider adapter for map[string]any data.
type rawMap map[string]any

func (r rawMap) Read() (map[string]any, error) {
	return r, nil
}

func (r rawMap) ReadBytes() ([]byte, error) {
	return nil, errors.New("ReadBytes not implemented")
}
