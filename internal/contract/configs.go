package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/scendiff/scendiff/schema"
)

// Default knobs applied when flags and config file are silent.
const (
	DefaultEngineCommand = "magicc"
	DefaultEngineTimeout = 120 * time.Second
	DefaultWarmingLimit  = 2.0
	DefaultPrecision     = 3
	DefaultSampleEvery   = 1
)

// ConfigRawInput mirrors the CLI flags and config file keys before any
// validation. All fields are plain strings or numbers so viper can
// unmarshal them directly.
type ConfigRawInput struct {
	Scenario      string  `mapstructure:"scenario"`
	Transform     string  `mapstructure:"transform"`
	Magnitude     float64 `mapstructure:"magnitude"`
	From          float64 `mapstructure:"from"`
	To            float64 `mapstructure:"to"`
	Variables     string  `mapstructure:"variables"`
	EngineCommand string  `mapstructure:"engine-command"`
	EngineTimeout string  `mapstructure:"engine-timeout"`
	Sequential    bool    `mapstructure:"sequential"`
	WarmingLimit  float64 `mapstructure:"warming-limit"`
	ByYear        float64 `mapstructure:"by-year"`
	Output        string  `mapstructure:"output"`
	OutputFile    string  `mapstructure:"output-file"`
	Precision     int     `mapstructure:"precision"`
	Color         string  `mapstructure:"color"`
	Width         int     `mapstructure:"width"`
	SampleEvery   int     `mapstructure:"sample-every"`
	CacheBackend  string  `mapstructure:"cache-backend"`
	CacheDB       string  `mapstructure:"cache-db-connect"`
	RunsBackend   string  `mapstructure:"runs-backend"`
	RunsDB        string  `mapstructure:"runs-db-connect"`
}

// Config is the validated, typed configuration consumed by the core
// pipeline. A window of [0, 0] means "use the full pathway horizon";
// the session resolves it against the loaded pathway.
type Config struct {
	Scenario      schema.ScenarioName
	Perturbation  schema.Perturbation
	Variables     []schema.OutputVariable
	EngineCommand string
	EngineTimeout time.Duration
	Sequential    bool
	WarmingLimit  float64
	ByYear        float64
	Output        schema.OutputMode
	OutputFile    string
	Precision     int
	UseColors     bool
	Width         int
	SampleEvery   int
	CacheBackend  schema.DatabaseBackend
	CacheDB       string
	RunsBackend   schema.DatabaseBackend
	RunsDB        string
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// Clone returns a deep copy of the config so per-request overrides
// never leak back into the shared base configuration.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Variables != nil {
		clone.Variables = make([]schema.OutputVariable, len(c.Variables))
		copy(clone.Variables, c.Variables)
	}
	return &clone
}

// RevalidateScenario re-checks a scenario override coming from an MCP
// tool call and applies it to the config.
func RevalidateScenario(cfg *Config, scenario string) error {
	return validateScenario(cfg, &ConfigRawInput{Scenario: scenario})
}

// RevalidatePerturbation re-checks perturbation overrides coming from an
// MCP tool call and applies them to the config.
func RevalidatePerturbation(cfg *Config, transform string, magnitude, from, to float64) error {
	return validatePerturbation(cfg, &ConfigRawInput{
		Transform: transform,
		Magnitude: magnitude,
		From:      from,
		To:        to,
	})
}

// RevalidateVariables re-checks a comma-separated variable list coming
// from an MCP tool call and applies it to the config.
func RevalidateVariables(cfg *Config, variables string) error {
	return validateVariables(cfg, &ConfigRawInput{Variables: variables})
}

// ProcessAndValidate converts raw input into a typed Config, rejecting
// anything the pipeline cannot act on. Window bounds are checked for
// ordering here; clamping against the pathway horizon happens later
// once the pathway is loaded.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateScenario(cfg, input); err != nil {
		return err
	}
	if err := validatePerturbation(cfg, input); err != nil {
		return err
	}
	if err := validateVariables(cfg, input); err != nil {
		return err
	}
	if err := validateEngine(cfg, input); err != nil {
		return err
	}
	if err := validateOutput(cfg, input); err != nil {
		return err
	}
	if err := validateBackends(cfg, input); err != nil {
		return err
	}
	cfg.Sequential = input.Sequential
	cfg.WarmingLimit = input.WarmingLimit
	if cfg.WarmingLimit == 0 {
		cfg.WarmingLimit = DefaultWarmingLimit
	}
	cfg.ByYear = input.ByYear
	return nil
}

func validateScenario(cfg *Config, input *ConfigRawInput) error {
	name := schema.ScenarioName(strings.ToLower(strings.TrimSpace(input.Scenario)))
	if name == "" {
		return fmt.Errorf("scenario is required")
	}
	if _, ok := schema.ValidScenarios[name]; !ok {
		return fmt.Errorf("%w: %q", schema.ErrUnknownScenario, input.Scenario)
	}
	cfg.Scenario = name
	return nil
}

func validatePerturbation(cfg *Config, input *ConfigRawInput) error {
	kind := schema.TransformKind(strings.ToLower(strings.TrimSpace(input.Transform)))
	if kind == "" {
		kind = schema.AdditiveTransform
	}
	if _, ok := schema.ValidTransforms[kind]; !ok {
		return fmt.Errorf("invalid transform %q (want additive, multiplicative, absolute or ramp)", input.Transform)
	}
	if input.From != 0 || input.To != 0 {
		if input.From > input.To {
			return fmt.Errorf("%w: from %g is after to %g", schema.ErrInvalidWindow, input.From, input.To)
		}
	}
	cfg.Perturbation = schema.Perturbation{
		Kind:      kind,
		Magnitude: input.Magnitude,
		From:      input.From,
		To:        input.To,
	}
	return nil
}

func validateVariables(cfg *Config, input *ConfigRawInput) error {
	raw := strings.TrimSpace(input.Variables)
	if raw == "" {
		cfg.Variables = append([]schema.OutputVariable(nil), schema.AllOutputVariables...)
		return nil
	}
	seen := make(map[schema.OutputVariable]bool)
	var vars []schema.OutputVariable
	for _, part := range strings.Split(raw, ",") {
		v := schema.OutputVariable(strings.ToLower(strings.TrimSpace(part)))
		if v == "" {
			continue
		}
		if _, ok := schema.ValidOutputVariables[v]; !ok {
			return fmt.Errorf("invalid output variable %q", part)
		}
		if !seen[v] {
			seen[v] = true
			vars = append(vars, v)
		}
	}
	if len(vars) == 0 {
		return fmt.Errorf("variables list is empty")
	}
	cfg.Variables = vars
	return nil
}

func validateEngine(cfg *Config, input *ConfigRawInput) error {
	cfg.EngineCommand = strings.TrimSpace(input.EngineCommand)
	if cfg.EngineCommand == "" {
		cfg.EngineCommand = DefaultEngineCommand
	}
	if input.EngineTimeout == "" {
		cfg.EngineTimeout = DefaultEngineTimeout
		return nil
	}
	d, err := ParseTimeoutDuration(input.EngineTimeout)
	if err != nil {
		return fmt.Errorf("invalid engine timeout %q: %w", input.EngineTimeout, err)
	}
	cfg.EngineTimeout = d
	return nil
}

func validateOutput(cfg *Config, input *ConfigRawInput) error {
	mode := schema.OutputMode(strings.ToLower(strings.TrimSpace(input.Output)))
	if mode == "" {
		mode = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[mode]; !ok {
		return fmt.Errorf("invalid output mode %q (want text, csv, json or parquet)", input.Output)
	}
	cfg.Output = mode
	cfg.OutputFile = input.OutputFile

	cfg.Precision = input.Precision
	if cfg.Precision <= 0 {
		cfg.Precision = DefaultPrecision
	}
	useColors, err := ParseBoolString(input.Color, mode == schema.TextOut)
	if err != nil {
		return fmt.Errorf("invalid color setting: %w", err)
	}
	cfg.UseColors = useColors

	cfg.Width = input.Width
	cfg.SampleEvery = input.SampleEvery
	if cfg.SampleEvery <= 0 {
		cfg.SampleEvery = DefaultSampleEvery
	}
	return nil
}

func validateBackends(cfg *Config, input *ConfigRawInput) error {
	var err error
	cfg.CacheBackend, cfg.CacheDB, err = validateOneBackend(input.CacheBackend, input.CacheDB, "cache")
	if err != nil {
		return err
	}
	cfg.RunsBackend, cfg.RunsDB, err = validateOneBackend(input.RunsBackend, input.RunsDB, "runs")
	if err != nil {
		return err
	}
	return nil
}

func validateOneBackend(backend, connect, label string) (schema.DatabaseBackend, string, error) {
	b := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(backend)))
	if b == "" {
		b = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[b]; !ok {
		return "", "", fmt.Errorf("invalid %s backend %q (want sqlite, mysql, postgresql or none)", label, backend)
	}
	if err := ValidateDatabaseConnectionString(b, connect); err != nil {
		return "", "", fmt.Errorf("%s backend: %w", label, err)
	}
	return b, connect, nil
}

// ValidateDatabaseConnectionString sanity-checks a DSN against the
// backend that will consume it. sqlite and none accept anything since
// sqlite falls back to a per-user default path.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connect string) error {
	switch backend {
	case schema.MySQLBackend:
		if connect == "" {
			return fmt.Errorf("mysql requires a connection string")
		}
		if !strings.Contains(connect, "@tcp(") && !strings.Contains(connect, "@unix(") {
			return fmt.Errorf("mysql connection string must use @tcp(host:port) or @unix(path) form")
		}
	case schema.PostgreSQLBackend:
		if connect == "" {
			return fmt.Errorf("postgresql requires a connection string")
		}
		if !strings.HasPrefix(connect, "postgres://") && !strings.HasPrefix(connect, "postgresql://") &&
			!strings.Contains(connect, "host=") {
			return fmt.Errorf("postgresql connection string must be a URL or key=value DSN")
		}
	}
	return nil
}
