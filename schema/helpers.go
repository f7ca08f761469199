package schema

// WarmingThresholds are the policy-relevant warming levels, in degC above the
// reference period, reported as crossings in every comparison.
var WarmingThresholds = []float64{1.5, 2.0}

// speciesUnits maps each emission species to its catalog unit.
var speciesUnits = map[Species]string{
	FossilCO2:    UnitGtCPerYear,
	LandUseCO2:   UnitGtCPerYear,
	Methane:      UnitMtCH4PerYear,
	NitrousOxide: UnitMtN2OPerYear,
}

// variableUnits maps each projected variable to the unit the engine reports.
var variableUnits = map[OutputVariable]string{
	SurfaceTemperature: UnitDegC,
	CO2Concentration:   UnitPPM,
}

// scenarioDisplayNames maps catalog identifiers to their conventional names.
var scenarioDisplayNames = map[ScenarioName]string{
	RCP26: "RCP2.6",
	RCP45: "RCP4.5",
	RCP60: "RCP6.0",
	RCP85: "RCP8.5",
}

// SpeciesUnit returns the catalog unit for an emission species.
func SpeciesUnit(sp Species) string {
	if unit, ok := speciesUnits[sp]; ok {
		return unit
	}
	return ""
}

// VariableUnit returns the unit the engine reports for a projected variable.
func VariableUnit(v OutputVariable) string {
	if unit, ok := variableUnits[v]; ok {
		return unit
	}
	return ""
}

// ScenarioDisplayName returns the conventional name for a catalog scenario,
// like "RCP4.5" for rcp45. Unknown names are returned unchanged.
func ScenarioDisplayName(name ScenarioName) string {
	if display, ok := scenarioDisplayNames[name]; ok {
		return display
	}
	return string(name)
}

// IsRateSpecies reports whether a species is an annual emission rate, which
// makes its delta meaningful to integrate over time.
func IsRateSpecies(sp Species) bool {
	_, ok := speciesUnits[sp]
	return ok
}
