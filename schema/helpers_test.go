package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpeciesUnit(t *testing.T) {
	assert.Equal(t, UnitGtCPerYear, SpeciesUnit(FossilCO2))
	assert.Equal(t, UnitGtCPerYear, SpeciesUnit(LandUseCO2))
	assert.Equal(t, UnitMtCH4PerYear, SpeciesUnit(Methane))
	assert.Equal(t, UnitMtN2OPerYear, SpeciesUnit(NitrousOxide))
	assert.Equal(t, "", SpeciesUnit(Species("bogus")))
}

func TestVariableUnit(t *testing.T) {
	assert.Equal(t, UnitDegC, VariableUnit(SurfaceTemperature))
	assert.Equal(t, UnitPPM, VariableUnit(CO2Concentration))
	assert.Equal(t, "", VariableUnit(OutputVariable("bogus")))
}

func TestScenarioDisplayName(t *testing.T) {
	tests := []struct {
		name     ScenarioName
		expected string
	}{
		{RCP26, "RCP2.6"},
		{RCP45, "RCP4.5"},
		{RCP60, "RCP6.0"},
		{RCP85, "RCP8.5"},
		{ScenarioName("custom"), "custom"},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			assert.Equal(t, tt.expected, ScenarioDisplayName(tt.name))
		})
	}
}

func TestValidMaps(t *testing.T) {
	for _, s := range AllScenarios {
		_, ok := ValidScenarios[s]
		assert.True(t, ok, "scenario %s missing from ValidScenarios", s)
	}
	for _, v := range AllOutputVariables {
		_, ok := ValidOutputVariables[v]
		assert.True(t, ok, "variable %s missing from ValidOutputVariables", v)
	}
	_, ok := ValidScenarios[ScenarioName("rcp99")]
	assert.False(t, ok)
}
