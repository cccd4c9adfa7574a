package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"diceroll/internal/geometry"
	"diceroll/internal/roll"
)

// ErrInvalid is returned when a config file or the resolved settings are out of range.
var ErrInvalid = errors.New("config: invalid")

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "DICEROLL_"

//go:embed schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("diceroll-config.json", schemaJSON)

// Config holds all configurable paths, render and roll settings.
type Config struct {
	// Paths
	OutputDir    string `json:"output_dir" env:"OUTPUT_DIR"`
	TextureDir   string `json:"texture_dir" env:"TEXTURE_DIR"`
	TableTexture string `json:"table_texture" env:"TABLE_TEXTURE"`

	// Render settings
	Width       int     `json:"width" env:"WIDTH"`
	Height      int     `json:"height" env:"HEIGHT"`
	PixelRatio  float64 `json:"pixel_ratio" env:"PIXEL_RATIO"`
	Supersample int     `json:"supersample" env:"SUPERSAMPLE"`
	Workers     int     `json:"workers" env:"WORKERS"`

	// Roll settings
	Die           string  `json:"die" env:"DIE"`
	DropHeight    float64 `json:"drop_height" env:"DROP_HEIGHT"`
	MaxForce      float64 `json:"max_force" env:"MAX_FORCE"`
	NoPush        bool    `json:"no_push" env:"NO_PUSH"`
	Tolerance     float64 `json:"tolerance" env:"TOLERANCE"`
	Threshold     int     `json:"threshold" env:"THRESHOLD"`
	ToleranceMode string  `json:"tolerance_mode" env:"TOLERANCE_MODE"`
	MaxFrames     int     `json:"max_frames" env:"MAX_FRAMES"`
	FrameEvery    int     `json:"frame_every" env:"FRAME_EVERY"`
	Trace         bool    `json:"trace" env:"TRACE"`

	LogLevel  string `json:"log_level" env:"LOG_LEVEL"`
	LogFormat string `json:"log_format" env:"LOG_FORMAT"`
}

// Load reads a JSON, YAML or TOML config file (chosen by extension) and validates
// it against the embedded schema. Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
		if doc == nil {
			return Config{}, nil
		}
		// Validation and decoding both run on the JSON form.
		if data, err = json.Marshal(doc); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case ".toml":
		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
		if data, err = json.Marshal(doc); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case ".json":
	default:
		return Config{}, fmt.Errorf("config: %s: unsupported format", path)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := schema.Validate(doc); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Build assembles the effective config: the optional file at path, then
// DICEROLL_* environment overrides, then flags, then defaults.
func Build(path string, flags Flags) (Config, error) {
	var cfg Config
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files (".env" when none are
// named) into the process environment. Missing files are skipped; variables
// already set are not overridden.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("config: load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from DICEROLL_* environment variables that are set.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file and environment
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.TextureDir != "" {
		c.TextureDir = flags.TextureDir
	}
	if flags.Die != "" {
		c.Die = flags.Die
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.PixelRatio > 0 {
		c.PixelRatio = flags.PixelRatio
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.FrameEvery > 0 {
		c.FrameEvery = flags.FrameEvery
	}
	if flags.Trace {
		c.Trace = true
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}

	if c.OutputDir == "" {
		c.OutputDir = "renders"
	}
	if c.TableTexture == "" {
		c.TableTexture = "wood"
	}
	if c.Width <= 0 {
		c.Width = 800
	}
	if c.Height <= 0 {
		c.Height = 600
	}
	if c.PixelRatio <= 0 {
		c.PixelRatio = 1
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Die == "" {
		c.Die = "d20"
	}
	if c.DropHeight <= 0 {
		c.DropHeight = roll.DefaultDropHeight
	}
	if c.MaxForce <= 0 {
		c.MaxForce = roll.DefaultMaxForce
	}
	if c.Tolerance <= 0 {
		c.Tolerance = roll.DefaultTolerance
	}
	if c.Threshold <= 0 {
		c.Threshold = roll.DefaultThreshold
	}
	if c.ToleranceMode == "" {
		c.ToleranceMode = roll.Symmetric.String()
	}
	if c.MaxFrames <= 0 {
		c.MaxFrames = 7200
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
}

// Validate checks values that the schema cannot see, such as settings that
// arrived from the environment or flags.
func (c *Config) Validate() error {
	if _, err := roll.ParseToleranceMode(c.ToleranceMode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := geometry.SolidByName(c.Die, 1); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Supersample > 8 {
		return fmt.Errorf("%w: supersample %d above 8", ErrInvalid, c.Supersample)
	}
	return nil
}

// RollOptions converts the roll settings into scene options.
func (c *Config) RollOptions() roll.Options {
	mode, _ := roll.ParseToleranceMode(c.ToleranceMode)
	force := c.MaxForce
	if c.NoPush {
		force = 0
	}
	return roll.Options{
		DropHeight: c.DropHeight,
		MaxForce:   force,
		Tolerance:  c.Tolerance,
		Threshold:  c.Threshold,
		Mode:       mode,
	}
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir  string
	TextureDir string
	Die        string
	Width      int
	Height     int
	PixelRatio float64
	Workers    int
	FrameEvery int
	Trace      bool
	LogLevel   string
}
