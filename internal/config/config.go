// Package config loads the player configuration from TOML files and the environment.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/tejashwikalptaru/yorum/internal/domain"
)

const appName = "yorum"

// Storage backends.
const (
	BackendPreferences = "preferences"
	BackendSQLite      = "sqlite"
	BackendMemory      = "memory"
)

// Config represents the application configuration.
type Config struct {
	Library LibraryConfig `koanf:"library"`
	Storage StorageConfig `koanf:"storage"`
	Player  PlayerConfig  `koanf:"player"`
	Log     LogConfig     `koanf:"log"`
	Audio   AudioConfig   `koanf:"audio"`
}

// LibraryConfig describes where tracks come from.
type LibraryConfig struct {
	AudioDir       string `koanf:"audio_dir"`                                   // empty means $XDG_MUSIC_DIR/yorum
	Watch          bool   `koanf:"watch" default:"true"`                        // re-read the catalog when the directory changes
	FallbackArtist string `koanf:"fallback_artist" default:"Grup Yorum" validate:"required"`
}

// StorageConfig selects the key/value backend for persisted player state.
type StorageConfig struct {
	Backend    string `koanf:"backend" default:"preferences" validate:"oneof=preferences sqlite memory"`
	SQLitePath string `koanf:"sqlite_path"` // empty means $XDG_DATA_HOME/yorum/state.db
}

// PlayerConfig tunes the playback controller.
type PlayerConfig struct {
	DefaultVolume         float64       `koanf:"default_volume" default:"0.7" validate:"gte=0,lte=1"`
	PositionFlushInterval time.Duration `koanf:"position_flush_interval" default:"3s" validate:"gt=0"`
	RestartThreshold      time.Duration `koanf:"restart_threshold" default:"3s" validate:"gte=0"`
	VolumeStep            float64       `koanf:"volume_step" default:"0.05" validate:"gt=0,lte=1"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `koanf:"level" default:"info" validate:"oneof=debug info warn warning error"`
	Format string `koanf:"format" default:"text" validate:"oneof=text json"`
}

// AudioConfig selects the audio element.
type AudioConfig struct {
	Mock bool `koanf:"mock"` // simulated playback, no audio device
}

// Default returns the configuration used when no file is present.
func Default() (*Config, error) {
	return Load("")
}

// Load reads the configuration. Files are applied in increasing priority:
// $XDG_CONFIG_HOME/yorum/config.toml, ./yorum.toml, then path.
// Missing default files are skipped; a missing explicit path is an error.
// YORUM_AUDIO_DIR and YORUM_STORAGE override the file values.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	for _, candidate := range searchPaths() {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if err := k.Load(file.Provider(candidate), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config file %s", candidate)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config file %s", path)
		}
	}

	// Defaults first so the file can switch booleans off
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}

	cfg.overrideFromEnv()
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// Validate validates the configuration. The first failing field is reported
// as a *domain.ValidationError.
func (c *Config) Validate() error {
	validate := validator.New()
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return errors.WithStack(domain.NewValidationError(fe.Namespace(), fe.Value(), "failed '"+fe.Tag()+"' rule"))
	}
	return errors.Wrap(err, "struct validation failed")
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("YORUM_AUDIO_DIR"); v != "" {
		c.Library.AudioDir = v
	}
	if v := os.Getenv("YORUM_STORAGE"); v != "" {
		c.Storage.Backend = v
	}
}

func (c *Config) normalize() {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))

	if c.Library.AudioDir == "" {
		c.Library.AudioDir = filepath.Join(xdg.UserDirs.Music, appName)
	}
	c.Library.AudioDir = expandPath(c.Library.AudioDir)

	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = filepath.Join(xdg.DataHome, appName, "state.db")
	}
	c.Storage.SQLitePath = expandPath(c.Storage.SQLitePath)
}

func searchPaths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		appName + ".toml",
	}
}

func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		return filepath.Join(xdg.Home, path[1:])
	}
	return path
}
