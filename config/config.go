package config

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nullstyle/go-xdr/xdr3"
	"github.com/spacemeshos/sha256-simd"
	"github.com/spacemeshos/smutil"

	"github.com/spacemeshos/vdf/modulus"
	"github.com/spacemeshos/vdf/shared"
)

const (
	MinModulusBits = modulus.MinBits
	MaxModulusBits = 1 << 14

	MaxK = 1 << 10
)

const (
	DefaultDataDirName = "data"

	DefaultModulusBits = 2048
	DefaultT           = 1 << 16
	DefaultK           = 128

	DefaultTicks  = 100
	DefaultWarmup = 5
	DefaultSeed   = 42

	DefaultEventsFileName  = "events.jsonl"
	DefaultSummaryFileName = "summary.json"
)

var (
	DefaultHomeDir = filepath.Join(smutil.GetUserHomeDirectory(), "vdf")
	DefaultDataDir = filepath.Join(DefaultHomeDir, DefaultDataDirName)
)

// InputMode selects how the input of each tick is chosen.
type InputMode string

const (
	// FixedInput evaluates the same input every tick.
	FixedInput InputMode = "fixed-input"
	// RandomInput draws a fresh 32 byte input from the run's generator every tick.
	RandomInput InputMode = "random-input"
	// Chained derives each input from the previous input and output.
	Chained InputMode = "chained"
)

func (m InputMode) Validate() error {
	switch m {
	case FixedInput, RandomInput, Chained:
		return nil
	default:
		return shared.ConfigError{
			Param:    "Mode",
			Expected: fmt.Sprintf("one of %q, %q, %q", FixedInput, RandomInput, Chained),
			Given:    fmt.Sprintf("%q", string(m)),
		}
	}
}

// OutputFormat selects the sinks a run writes to.
type OutputFormat string

const (
	FormatJSONL OutputFormat = "jsonl"
	FormatTable OutputFormat = "table"
	FormatBoth  OutputFormat = "both"
)

func (f OutputFormat) JSONL() bool { return f == FormatJSONL || f == FormatBoth }
func (f OutputFormat) Table() bool { return f == FormatTable || f == FormatBoth }

// Config holds the VDF parameters.
type Config struct {
	ModulusBits    uint32                `mapstructure:"n_bits"`
	T              uint64                `mapstructure:"t"`
	K              uint32                `mapstructure:"k"`
	ProofAlgorithm shared.ProofAlgorithm `mapstructure:"proof_algo"`

	// Kappa parametrizes alg5 only. It is accepted so that such configs load
	// and then fail on the algorithm.
	Kappa uint32 `mapstructure:"kappa"`

	// TargetDuration is the expected duration of one evaluation. Zero means unset.
	// An integer in a config file is read as nanoseconds.
	TargetDuration time.Duration `mapstructure:"target_duration_ns"`
}

func DefaultConfig() Config {
	return Config{
		ModulusBits:    DefaultModulusBits,
		T:              DefaultT,
		K:              DefaultK,
		ProofAlgorithm: shared.ProofAlg4,
	}
}

func (cfg *Config) Validate() error {
	if cfg.ModulusBits < MinModulusBits {
		return fmt.Errorf("invalid `ModulusBits`; expected: >= %d, given: %d: %w", MinModulusBits, cfg.ModulusBits, shared.ErrModulusTooSmall)
	}

	if cfg.ModulusBits > MaxModulusBits {
		return fmt.Errorf("invalid `ModulusBits`; expected: <= %d, given: %d", MaxModulusBits, cfg.ModulusBits)
	}

	if cfg.T == 0 {
		return shared.ConfigError{Param: "T", Expected: "> 0", Given: "0"}
	}

	if cfg.K == 0 || cfg.K > MaxK {
		return shared.ConfigError{Param: "K", Expected: fmt.Sprintf("1..%d", MaxK), Given: fmt.Sprint(cfg.K)}
	}

	if err := cfg.ProofAlgorithm.Validate(); err != nil {
		return fmt.Errorf("invalid `ProofAlgorithm`: %w", err)
	}

	if cfg.TargetDuration < 0 {
		return fmt.Errorf("invalid `TargetDuration`; expected: >= 0, given: %v", cfg.TargetDuration)
	}

	return nil
}

type TasksConfig struct {
	Ticks  uint64    `mapstructure:"ticks"`
	Warmup uint64    `mapstructure:"warmup"`
	Mode   InputMode `mapstructure:"mode"`
	Seed   uint64    `mapstructure:"seed"`
}

type RunnerConfig struct {
	CooldownMs uint64 `mapstructure:"cooldown_ms"`
}

// Cooldown is the pause between ticks.
func (c RunnerConfig) Cooldown() time.Duration {
	return time.Duration(c.CooldownMs) * time.Millisecond
}

type OutputConfig struct {
	Format      OutputFormat `mapstructure:"format"`
	EventsPath  string       `mapstructure:"events_jsonl_path"`
	SummaryPath string       `mapstructure:"summary_json_path"`

	// TablePath is where the table sink renders to. Empty means stdout.
	TablePath string `mapstructure:"table_path"`
}

// RunConfig is the configuration of an experiment run.
type RunConfig struct {
	Tasks  TasksConfig  `mapstructure:"tasks"`
	VDF    Config       `mapstructure:"vdf"`
	Runner RunnerConfig `mapstructure:"runner"`
	Output OutputConfig `mapstructure:"output"`
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		Tasks: TasksConfig{
			Ticks:  DefaultTicks,
			Warmup: DefaultWarmup,
			Mode:   Chained,
			Seed:   DefaultSeed,
		},
		VDF: DefaultConfig(),
		Output: OutputConfig{
			Format:      FormatJSONL,
			EventsPath:  filepath.Join(DefaultDataDir, DefaultEventsFileName),
			SummaryPath: filepath.Join(DefaultDataDir, DefaultSummaryFileName),
		},
	}
}

func (cfg *RunConfig) Validate() error {
	if err := cfg.VDF.Validate(); err != nil {
		return err
	}

	if cfg.Tasks.Ticks == 0 {
		return shared.ConfigError{Param: "Ticks", Expected: "> 0", Given: "0"}
	}

	if err := cfg.Tasks.Mode.Validate(); err != nil {
		return err
	}

	switch cfg.Output.Format {
	case FormatJSONL, FormatTable, FormatBoth:
	default:
		return shared.ConfigError{
			Param:    "Format",
			Expected: fmt.Sprintf("one of %q, %q, %q", FormatJSONL, FormatTable, FormatBoth),
			Given:    fmt.Sprintf("%q", string(cfg.Output.Format)),
		}
	}

	if cfg.Output.Format.JSONL() && cfg.Output.EventsPath == "" {
		return fmt.Errorf("invalid `EventsPath`; expected: a path, given: empty")
	}

	return nil
}

// Hash returns the SHA-256 digest of the XDR encoding of cfg.
func (cfg *RunConfig) Hash() ([]byte, error) {
	var w bytes.Buffer
	if _, err := xdr.Marshal(&w, cfg); err != nil {
		return nil, fmt.Errorf("serialization failure: %w", err)
	}
	sum := sha256.Sum256(w.Bytes())
	return sum[:], nil
}
