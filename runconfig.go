package bench

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// RunConfig is the typed, immutable description of one benchmark run,
// parsed once at startup. It layers on top of the legacy flat Properties
// map: every field here also has a Properties-compatible key, so overrides
// handed to LoadRunConfig as Properties also reach code that reads Props
// directly (NewOrchestrator, DemoRegistry). The drive command passes only
// its -b benchmark name as such an override.
type RunConfig struct {
	RunID           uuid.UUID
	Benchmark       string
	Dialect         string
	DSN             string
	IsolationLevel  string
	TotalTerminals  int
	Phases          []*Phase
	TracePath       string
	Props           Properties
}

// LoadRunConfig reads a YAML run file at path via viper and merges in any
// CLI overrides supplied as "key=value" Properties entries. A fresh RunID
// is minted for every load; replaying the same YAML file twice produces
// two distinct runs, matching the "one results stream per invocation"
// contract in §6.
func LoadRunConfig(path string, overrides Properties) (*RunConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault(PropertyIsolationLevel, PropertyIsolationLevelDefault)
	v.SetDefault(PropertyRetryLimit, PropertyRetryLimitDefault)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("loading run config %s: %w", path, err)
	}

	props := NewProperties()
	for k, val := range v.AllSettings() {
		props.Add(k, fmt.Sprintf("%v", val))
	}
	if overrides != nil {
		props.Merge(overrides)
	}

	benchmark := props.Get(PropertyBenchmark)
	dialect := props.Get(PropertyDialect)
	if benchmark == "" || dialect == "" {
		return nil, fmt.Errorf("run config %s: %s and %s are required", path, PropertyBenchmark, PropertyDialect)
	}

	totalTerminals, err := props.GetIntDefault(PropertyTotalTerminals, 1)
	if err != nil {
		return nil, fmt.Errorf("run config %s: %w", path, err)
	}

	phases, err := phasesFromConfig(v)
	if err != nil {
		return nil, fmt.Errorf("run config %s: %w", path, err)
	}

	return &RunConfig{
		RunID:          uuid.New(),
		Benchmark:      benchmark,
		Dialect:        dialect,
		DSN:            props.Get(PropertyDSN),
		IsolationLevel: props.GetDefault(PropertyIsolationLevel, PropertyIsolationLevelDefault),
		TotalTerminals: totalTerminals,
		Phases:         phases,
		TracePath:      props.Get("tracePath"),
		Props:          props,
	}, nil
}

type phaseConfig struct {
	ID             string         `mapstructure:"id"`
	Weights        map[string]int `mapstructure:"weights"`
	ActiveTerminals int           `mapstructure:"activeTerminals"`
	Mode           string         `mapstructure:"mode"`
	Rate           float64        `mapstructure:"rate"`
	DurationMillis int64          `mapstructure:"durationMillis"`
	NoWait         bool           `mapstructure:"noWait"`
}

func phasesFromConfig(v *viper.Viper) ([]*Phase, error) {
	var raw []phaseConfig
	if err := v.UnmarshalKey("phases", &raw); err != nil {
		return nil, fmt.Errorf("parsing phases: %w", err)
	}

	phases := make([]*Phase, 0, len(raw))
	for i, pc := range raw {
		var mode PhaseMode
		switch pc.Mode {
		case "disabled":
			mode = ModeDisabled
		case "serial":
			mode = ModeSerial
		case "unlimited":
			mode = ModeUnlimitedRate
		case "rate-limited", "":
			mode = ModeRateLimited
		default:
			return nil, fmt.Errorf("phase %d: unknown mode %q", i, pc.Mode)
		}

		mix := make([]WeightedTxnType, 0, len(pc.Weights))
		for txnType, weight := range pc.Weights {
			mix = append(mix, WeightedTxnType{TxnType: txnType, Weight: weight})
		}
		// pc.Weights is a map; Go randomizes its iteration order per process.
		// Sort by TxnType so Phase.txns (and NextSerialTxnType's cursor over
		// it) is identical across runs of the same config.
		sort.Slice(mix, func(i, j int) bool { return mix[i].TxnType < mix[j].TxnType })

		phase, err := NewPhase(PhaseConfig{
			ID:              pc.ID,
			Mix:             mix,
			ActiveTerminals: pc.ActiveTerminals,
			Mode:            mode,
			RatePerSecond:   pc.Rate,
			Duration:        MillisecondToNanosecond(pc.DurationMillis),
			NoWait:          pc.NoWait,
		})
		if err != nil {
			return nil, fmt.Errorf("phase %d: %w", i, err)
		}
		phases = append(phases, phase)
	}
	return phases, nil
}
