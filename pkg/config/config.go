package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/clinicboard/calgrid/pkg/utils/errs"
)

// GridConfig carries the grid geometry and interaction defaults.
type GridConfig struct {
	StartHour   int     `yaml:"start_hour" validate:"min=0,max=23"`
	EndHour     int     `yaml:"end_hour" validate:"min=1,max=24"`
	CellHeight  float64 `yaml:"cell_height"`
	SnapMinutes int     `yaml:"snap_minutes"`
}

// Config is the application configuration. The database DSN comes from the
// environment, everything else from the YAML file.
type Config struct {
	Refresh string     `yaml:"refresh"` // cron spec for periodic re-fetch
	Grid    GridConfig `yaml:"grid"`

	PostgresDSN string `yaml:"-"`
}

// Load reads the YAML config at path, validates it, and pulls secrets from
// the environment (a .env file is honored when present).
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errs.New("failed to read config file").Arg("path", path).Wrap(err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errs.New("failed to unmarshal YAML").Wrap(err)
		}
	}
	cfg.normalize()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errs.New("config validation failed").Wrap(err)
	}

	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()
	cfg.PostgresDSN = os.Getenv("DATABASE_URL")

	return &cfg, nil
}

func (c *Config) normalize() {
	if c.Refresh == "" {
		c.Refresh = "*/15 * * * *"
	}
	if c.Grid.EndHour <= c.Grid.StartHour {
		c.Grid.StartHour = 0
		c.Grid.EndHour = 24
	}
	if c.Grid.CellHeight <= 0 {
		c.Grid.CellHeight = 80
	}
	if c.Grid.SnapMinutes <= 0 {
		c.Grid.SnapMinutes = 15
	}
}
