package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/oslab/sim"
)

func TestWriteSpecs_YAMLLoadsBackAsScenario(t *testing.T) {
	// GIVEN a generated spec set
	specs, err := sim.GenerateSpecs(sim.Seeds(42).Workload(),
		sim.GeneratorConfig{Count: 5, MaxArrival: 10, MaxBurst: 8, MaxPriority: 5})
	require.NoError(t, err)

	// WHEN written as YAML
	var buf bytes.Buffer
	require.NoError(t, writeSpecs(&buf, specs, "yaml"))

	// THEN it parses back as a valid scenario with the same processes
	sc, err := sim.ParseScenario(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, specs, sc.Processes)
	assert.NoError(t, sc.WithDefaults().Validate())
}

func TestWriteSpecs_CSVLoadsBack(t *testing.T) {
	specs := sim.DefaultProcessSpecs()
	var buf bytes.Buffer
	require.NoError(t, writeSpecs(&buf, specs, "csv"))

	got, err := sim.ReadSpecsCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, specs, got)
}

func TestWriteSpecs_UnknownFormat(t *testing.T) {
	assert.Error(t, writeSpecs(&bytes.Buffer{}, nil, "json"))
}

func TestResolveGeneratorConfig_FlagsOverrideDefaults(t *testing.T) {
	oldDefaults := defaultsFilePath
	t.Cleanup(func() { defaultsFilePath = oldDefaults })
	defaultsFilePath = "/nonexistent/defaults.yaml" // built-in defaults

	c := &cobra.Command{}
	c.Flags().IntVar(&genMaxBurst, "max-burst", 8, "")
	require.NoError(t, c.Flags().Set("max-burst", "3"))
	genCount = 7

	cfg, err := resolveGeneratorConfig(c)
	require.NoError(t, err)
	assert.Equal(t, sim.GeneratorConfig{
		Count:       7,
		MaxArrival:  builtinDefaults.Generator.MaxArrival,
		MaxBurst:    3,
		MaxPriority: builtinDefaults.Generator.MaxPriority,
	}, cfg)
}
