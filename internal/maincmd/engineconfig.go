package maincmd

import (
	"fmt"

	"github.com/caarlos0/env/v6"

	"github.com/dust-lang/dust/lang/engine"
)

// envConfig is the set of engine tuning knobs read from the process
// environment, independent of mainer's own flag/env handling: these are
// runtime resource limits for the executing program, not CLI options for
// dust itself, so they're read straight from os.Environ via caarlos0/env
// rather than funneled through mainer.Parser's EnvVars/EnvPrefix.
type envConfig struct {
	MaxSteps       uint64 `env:"DUST_MAX_STEPS" envDefault:"0"`
	SweepThreshold int    `env:"DUST_SWEEP_THRESHOLD" envDefault:"4096"`
	MinHeap        int    `env:"DUST_MIN_HEAP" envDefault:"0"`
}

// loadEngineConfig populates engine.DefaultConfig from the environment
// before any command spawns a worker. DUST_MAX_STEPS left at 0 (its
// default) keeps the step counter unbounded, matching the behavior before
// this knob existed.
func loadEngineConfig() error {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("invalid engine configuration: %w", err)
	}
	engine.DefaultConfig = engine.Config{
		MaxSteps:       cfg.MaxSteps,
		SweepThreshold: cfg.SweepThreshold,
		MinHeap:        cfg.MinHeap,
	}
	return nil
}
