package schema

// CatalogEntry is the display form of one catalog scenario: identity plus
// the horizon and species coverage of its loaded pathway.
type CatalogEntry struct {
	Scenario    ScenarioName `json:"scenario"`
	DisplayName string       `json:"display_name"`
	Description string       `json:"description"`
	StartYear   float64      `json:"start_year"`
	EndYear     float64      `json:"end_year"`
	Species     []Species    `json:"species"`
}
