// Package config loads simulator settings from flags, the environment, an
// optional .env file and an optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/signalnine/sicmmab/engine"
	"github.com/signalnine/sicmmab/simulation"
	"github.com/signalnine/sicmmab/strategy"
)

// EnvPrefix prefixes every environment variable, e.g. SICSIM_HORIZON.
const EnvPrefix = "SICSIM"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Output formats.
const (
	FormatJSON        = "json"
	FormatFlatBuffers = "flatbuffers"
)

// Keys, shared by flags, environment variables and config files.
const (
	KeyMeans    = "means"
	KeyArms     = "arms"
	KeyMeanHigh = "mean-high"
	KeyMeanLow  = "mean-low"
	KeyPlayers  = "players"
	KeyStrategy = "strategy"
	KeyHorizon  = "horizon"
	KeyRuns     = "runs"
	KeySeed     = "seed"
	KeyWorkers  = "workers"
	KeyDelta    = "delta"
	KeyWindow   = "window"
	KeyOutput   = "output"
	KeyFormat   = "format"
	KeyLogLevel = "log-level"
	KeyVerbose  = "verbose"
)

// Config holds every simulator setting.
type Config struct {
	Means    []float64 // Explicit arm means; empty means a linspace
	Arms     int       // Linspace size when Means is empty
	MeanHigh float64
	MeanLow  float64

	Players  int
	Strategy string
	Horizon  int
	Runs     int
	Seed     int64 // 0 = derive from the clock
	Workers  int   // 0 = one per CPU

	Delta  float64 // MusicalChairs gap confidence
	Window int     // SlidingWindow history, 0 = unbounded

	Output   string // Report path, empty = stdout summary only
	Format   string
	LogLevel string
	Verbose  bool
}

// Default mirrors the reference experiment: nine arms between 0.9 and 0.89,
// six players, horizon 5000.
func Default() Config {
	return Config{
		Arms:     9,
		MeanHigh: 0.9,
		MeanLow:  0.89,
		Players:  6,
		Strategy: strategy.KindSynchComm.String(),
		Horizon:  5000,
		Runs:     10,
		Delta:    strategy.DefaultConfig().Delta,
		Format:   FormatJSON,
		LogLevel: "info",
	}
}

// RegisterFlags adds one flag per key to fs, defaulting to Default().
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String(KeyMeans, "", "Comma-separated arm means (overrides --arms/--mean-high/--mean-low)")
	fs.Int(KeyArms, d.Arms, "Number of arms when means are generated")
	fs.Float64(KeyMeanHigh, d.MeanHigh, "Largest generated mean")
	fs.Float64(KeyMeanLow, d.MeanLow, "Smallest generated mean")
	fs.IntP(KeyPlayers, "m", d.Players, "Number of players")
	fs.StringP(KeyStrategy, "s", d.Strategy, "Player strategy (synchcomm, slidingwindow, musicalchairs)")
	fs.IntP(KeyHorizon, "T", d.Horizon, "Rounds per run")
	fs.IntP(KeyRuns, "n", d.Runs, "Independent runs per batch")
	fs.Int64(KeySeed, d.Seed, "Random seed (0 = use current time)")
	fs.Int(KeyWorkers, d.Workers, "Number of worker goroutines (0 = auto-detect CPU count)")
	fs.Float64(KeyDelta, d.Delta, "MusicalChairs gap confidence")
	fs.Int(KeyWindow, d.Window, "SlidingWindow history length (0 = unbounded)")
	fs.StringP(KeyOutput, "o", d.Output, "Write the batch report to this path")
	fs.String(KeyFormat, d.Format, "Report format (json, flatbuffers)")
	fs.String(KeyLogLevel, d.LogLevel, "Log level (debug, info, warn, error)")
	fs.BoolP(KeyVerbose, "v", d.Verbose, "Log protocol events (implies --log-level=debug)")
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is only
// an error when the path was given explicitly.
func LoadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// NewViper returns a viper instance with defaults, SICSIM_* environment
// binding, the optional config file and the flags in fs (may be nil).
func NewViper(fs *pflag.FlagSet, configFile string) (*viper.Viper, error) {
	v := viper.New()
	d := Default()
	v.SetDefault(KeyArms, d.Arms)
	v.SetDefault(KeyMeanHigh, d.MeanHigh)
	v.SetDefault(KeyMeanLow, d.MeanLow)
	v.SetDefault(KeyPlayers, d.Players)
	v.SetDefault(KeyStrategy, d.Strategy)
	v.SetDefault(KeyHorizon, d.Horizon)
	v.SetDefault(KeyRuns, d.Runs)
	v.SetDefault(KeySeed, d.Seed)
	v.SetDefault(KeyWorkers, d.Workers)
	v.SetDefault(KeyDelta, d.Delta)
	v.SetDefault(KeyWindow, d.Window)
	v.SetDefault(KeyOutput, d.Output)
	v.SetDefault(KeyFormat, d.Format)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyVerbose, d.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only answers for keys viper already knows about.
	if err := v.BindEnv(KeyMeans); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	}

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}
	return v, nil
}

// FromViper decodes and validates a Config. Every conversion and validation
// problem is reported.
func FromViper(v *viper.Viper) (Config, error) {
	var errs []error
	conv := func(key string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %v: %w", key, err, ErrInvalid))
		}
	}

	var (
		c   Config
		err error
	)
	c.Means, err = ParseMeans(v.Get(KeyMeans))
	conv(KeyMeans, err)
	c.Arms, err = cast.ToIntE(v.Get(KeyArms))
	conv(KeyArms, err)
	c.MeanHigh, err = cast.ToFloat64E(v.Get(KeyMeanHigh))
	conv(KeyMeanHigh, err)
	c.MeanLow, err = cast.ToFloat64E(v.Get(KeyMeanLow))
	conv(KeyMeanLow, err)
	c.Players, err = cast.ToIntE(v.Get(KeyPlayers))
	conv(KeyPlayers, err)
	c.Strategy, err = cast.ToStringE(v.Get(KeyStrategy))
	conv(KeyStrategy, err)
	c.Horizon, err = cast.ToIntE(v.Get(KeyHorizon))
	conv(KeyHorizon, err)
	c.Runs, err = cast.ToIntE(v.Get(KeyRuns))
	conv(KeyRuns, err)
	c.Seed, err = cast.ToInt64E(v.Get(KeySeed))
	conv(KeySeed, err)
	c.Workers, err = cast.ToIntE(v.Get(KeyWorkers))
	conv(KeyWorkers, err)
	c.Delta, err = cast.ToFloat64E(v.Get(KeyDelta))
	conv(KeyDelta, err)
	c.Window, err = cast.ToIntE(v.Get(KeyWindow))
	conv(KeyWindow, err)
	c.Output, err = cast.ToStringE(v.Get(KeyOutput))
	conv(KeyOutput, err)
	c.Format, err = cast.ToStringE(v.Get(KeyFormat))
	conv(KeyFormat, err)
	c.LogLevel, err = cast.ToStringE(v.Get(KeyLogLevel))
	conv(KeyLogLevel, err)
	c.Verbose, err = cast.ToBoolE(v.Get(KeyVerbose))
	conv(KeyVerbose, err)

	if len(errs) > 0 {
		return c, errors.Join(errs...)
	}
	return c, c.Validate()
}

// ParseMeans accepts nil, a comma-separated string (optionally bracketed) or
// a list of numbers.
func ParseMeans(raw interface{}) ([]float64, error) {
	var items []interface{}
	switch x := raw.(type) {
	case nil:
		return nil, nil
	case []float64:
		return append([]float64(nil), x...), nil
	case string:
		s := strings.Trim(strings.TrimSpace(x), "[]")
		if s == "" {
			return nil, nil
		}
		for _, f := range strings.Split(s, ",") {
			items = append(items, strings.TrimSpace(f))
		}
	default:
		list, err := cast.ToSliceE(raw)
		if err != nil {
			return nil, err
		}
		items = list
	}

	means := make([]float64, len(items))
	for i, it := range items {
		f, err := cast.ToFloat64E(it)
		if err != nil {
			return nil, fmt.Errorf("mean %d: %w", i, err)
		}
		means[i] = f
	}
	return means, nil
}

// ResolvedMeans returns the explicit means or the generated linspace.
func (c Config) ResolvedMeans() []float64 {
	if len(c.Means) > 0 {
		return append([]float64(nil), c.Means...)
	}
	return engine.Linspace(c.MeanHigh, c.MeanLow, c.Arms)
}

// Kind parses the strategy name.
func (c Config) Kind() (strategy.Kind, error) {
	return strategy.ParseKind(c.Strategy)
}

// Level is the effective log level.
func (c Config) Level() (zapcore.Level, error) {
	if c.Verbose {
		return zapcore.DebugLevel, nil
	}
	return zapcore.ParseLevel(c.LogLevel)
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf(format+": %w", append(args, ErrInvalid)...))
	}

	if len(c.Means) == 0 && c.Arms <= 0 {
		bad("arms %d must be positive when no means are given", c.Arms)
	}
	if err := engine.ValidateMeans(c.ResolvedMeans()); err != nil && (len(c.Means) > 0 || c.Arms > 0) {
		bad("means: %v", err)
	}
	if c.Players <= 0 || c.Players > simulation.MaxPlayers {
		bad("players %d out of [1, %d]", c.Players, simulation.MaxPlayers)
	}
	kind, err := c.Kind()
	if err != nil {
		bad("strategy: %v", err)
	}
	if c.Horizon <= 0 {
		bad("horizon %d must be positive", c.Horizon)
	}
	if c.Runs <= 0 {
		bad("runs %d must be positive", c.Runs)
	}
	if c.Workers < 0 {
		bad("workers %d must not be negative", c.Workers)
	}
	if err == nil && c.Horizon > 0 && c.Players > 0 {
		if serr := c.strategyConfig().Validate(kind); serr != nil {
			bad("%v", serr)
		}
	}
	if c.Format != FormatJSON && c.Format != FormatFlatBuffers {
		bad("format %q must be %s or %s", c.Format, FormatJSON, FormatFlatBuffers)
	}
	if _, err := c.Level(); err != nil {
		bad("log level: %v", err)
	}
	return errors.Join(errs...)
}

func (c Config) strategyConfig() strategy.Config {
	return strategy.Config{
		Horizon: c.Horizon,
		Players: c.Players,
		Delta:   c.Delta,
		Window:  c.Window,
	}
}

// Batch converts c into a batch description. c must be valid.
func (c Config) Batch() (simulation.BatchConfig, error) {
	kind, err := c.Kind()
	if err != nil {
		return simulation.BatchConfig{}, err
	}
	return simulation.BatchConfig{
		Means:    c.ResolvedMeans(),
		Players:  c.Players,
		Kind:     kind,
		Strategy: c.strategyConfig(),
		Horizon:  c.Horizon,
		Runs:     c.Runs,
	}, nil
}
