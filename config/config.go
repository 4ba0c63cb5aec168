// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/naev/naev-sub006/safelanes"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every decoding or validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the root of the configuration file.
type Config struct {
	Solver  Solver  `yaml:"solver"`
	Log     Log     `yaml:"log"`
	Metrics Metrics `yaml:"metrics"`
}

// Solver holds the lane solver tunables.
type Solver struct {
	Alpha            float64 `yaml:"alpha" validate:"gte=0"`
	Lambda           float64 `yaml:"lambda"`
	MinAngleDeg      float64 `yaml:"min_angle_deg" validate:"gte=0,lt=90"`
	JumpConductivity float64 `yaml:"jump_conductivity" validate:"gt=0"`
	Workers          int     `yaml:"workers" validate:"gte=1,lte=256"`
	MaxRounds        int     `yaml:"max_rounds" validate:"gte=0"`
}

// Log selects the zap preset and level.
type Log struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// Metrics configures the Prometheus endpoint; an empty Listen disables it.
type Metrics struct {
	Listen string `yaml:"listen" validate:"omitempty,hostname_port"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Solver: Solver{
			Alpha:            safelanes.DefaultAlpha,
			Lambda:           safelanes.DefaultLambda,
			MinAngleDeg:      safelanes.DefaultMinAngle,
			JumpConductivity: safelanes.DefaultJumpConductivity,
			Workers:          safelanes.DefaultWorkers,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		switch {
		case err == nil:
			defer f.Close()
			if err = cfg.decode(f); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("open config: %w", err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse decodes r over the defaults and validates the result. Environment
// variables are not consulted.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(r); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return nil
}

// applyEnv overlays SAFELANES_* variables read through lookup.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("SAFELANES_LAMBDA"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: SAFELANES_LAMBDA: %v", ErrInvalidConfig, err)
		}
		c.Solver.Lambda = f
	}
	if v, ok := lookup("SAFELANES_WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: SAFELANES_WORKERS: %v", ErrInvalidConfig, err)
		}
		c.Solver.Workers = n
	}
	if v, ok := lookup("SAFELANES_MAX_ROUNDS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: SAFELANES_MAX_ROUNDS: %v", ErrInvalidConfig, err)
		}
		c.Solver.MaxRounds = n
	}
	if v, ok := lookup("SAFELANES_LOG_LEVEL"); ok {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup("SAFELANES_METRICS_LISTEN"); ok {
		c.Metrics.Listen = v
	}

	return nil
}

var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}()

// Validate checks every field against its tag constraints.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s(%s)", strings.TrimPrefix(e.Namespace(), "Config."), e.Tag(), e.Param()))
	}

	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// SolverOptions maps the solver section onto safelanes options.
func (c *Config) SolverOptions() []safelanes.Option {
	s := c.Solver
	return []safelanes.Option{
		safelanes.WithAlpha(s.Alpha),
		safelanes.WithLambda(s.Lambda),
		safelanes.WithMinAngle(s.MinAngleDeg),
		safelanes.WithJumpConductivity(s.JumpConductivity),
		safelanes.WithWorkers(s.Workers),
		safelanes.WithMaxRounds(s.MaxRounds),
	}
}

// Logger builds the zap logger described by the log section.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level

	return zc.Build()
}
