package schema

// Custom string types for type safety.
type (
	// ScenarioName identifies a concentration pathway in the built-in catalog.
	ScenarioName string

	// Species identifies an emission series carried by a pathway.
	Species string

	// OutputVariable identifies a projected quantity produced by the engine.
	OutputVariable string

	// TransformKind represents the shape of a perturbation.
	TransformKind string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for persistence.
	DatabaseBackend string

	// RunOutcome represents the lifecycle state of a recorded run.
	RunOutcome string
)

// All catalog scenarios supported.
const (
	RCP26 ScenarioName = "rcp26"
	RCP45 ScenarioName = "rcp45" // default
	RCP60 ScenarioName = "rcp60"
	RCP85 ScenarioName = "rcp85"
)

// All emission species carried by catalog pathways.
const (
	FossilCO2    Species = "co2-fossil"
	LandUseCO2   Species = "co2-landuse"
	Methane      Species = "ch4"
	NitrousOxide Species = "n2o"
)

// All projected variables supported.
const (
	SurfaceTemperature OutputVariable = "surface-temperature" // default
	CO2Concentration   OutputVariable = "co2-concentration"
)

// All perturbation transforms supported.
const (
	AdditiveTransform       TransformKind = "additive" // default
	MultiplicativeTransform TransformKind = "multiplicative"
	AbsoluteTransform       TransformKind = "absolute"
	RampTransform           TransformKind = "ramp"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All run outcomes supported.
const (
	RunRunning   RunOutcome = "running"
	RunCompleted RunOutcome = "completed"
	RunFailed    RunOutcome = "failed"
)

// Units attached to emission series and projected variables.
const (
	UnitGtCPerYear   = "Gt C/yr"
	UnitMtCPerYear   = "Mt C/yr"
	UnitMtCH4PerYear = "Mt CH4/yr"
	UnitMtN2OPerYear = "Mt N2O-N/yr"
	UnitDegC         = "degC"
	UnitPPM          = "ppm"
)

// AllScenarios returns a list of all catalog scenarios in display order.
var AllScenarios = []ScenarioName{RCP26, RCP45, RCP60, RCP85}

// AllOutputVariables returns a list of all projected variables in display order.
var AllOutputVariables = []OutputVariable{SurfaceTemperature, CO2Concentration}

// ValidScenarios lists all valid catalog scenarios.
var ValidScenarios = map[ScenarioName]struct{}{
	RCP26: {},
	RCP45: {},
	RCP60: {},
	RCP85: {},
}

// ValidTransforms lists all valid perturbation transforms.
var ValidTransforms = map[TransformKind]struct{}{
	AdditiveTransform:       {},
	MultiplicativeTransform: {},
	AbsoluteTransform:       {},
	RampTransform:           {},
}

// ValidOutputVariables lists all valid projected variables.
var ValidOutputVariables = map[OutputVariable]struct{}{
	SurfaceTemperature: {},
	CO2Concentration:   {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
