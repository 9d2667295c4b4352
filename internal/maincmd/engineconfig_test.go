package maincmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dust-lang/dust/lang/engine"
)

func TestLoadEngineConfigAppliesEnvOverrides(t *testing.T) {
	prev := engine.DefaultConfig
	defer func() { engine.DefaultConfig = prev }()

	t.Setenv("DUST_MAX_STEPS", "1000")
	t.Setenv("DUST_SWEEP_THRESHOLD", "2048")
	t.Setenv("DUST_MIN_HEAP", "64")

	require.NoError(t, loadEngineConfig())
	require.Equal(t, engine.Config{MaxSteps: 1000, SweepThreshold: 2048, MinHeap: 64}, engine.DefaultConfig)
}

func TestLoadEngineConfigDefaultsLeaveStepsUnbounded(t *testing.T) {
	prev := engine.DefaultConfig
	defer func() { engine.DefaultConfig = prev }()

	require.NoError(t, loadEngineConfig())
	require.Equal(t, uint64(0), engine.DefaultConfig.MaxSteps)
}
