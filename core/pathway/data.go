package pathway

import (
	"embed"

	"github.com/scendiff/scendiff/schema"
)

//go:embed data/*.csv
var catalogFS embed.FS

// catalogFiles maps each catalog scenario to its embedded data file.
var catalogFiles = map[schema.ScenarioName]string{
	schema.RCP26: "data/rcp26.csv",
	schema.RCP45: "data/rcp45.csv",
	schema.RCP60: "data/rcp60.csv",
	schema.RCP85: "data/rcp85.csv",
}

// catalogDescriptions maps each catalog scenario to a one-line summary.
var catalogDescriptions = map[schema.ScenarioName]string{
	schema.RCP26: "Peak-and-decline pathway reaching ~2.6 W/m2 by 2100",
	schema.RCP45: "Stabilization pathway reaching ~4.5 W/m2 after 2100",
	schema.RCP60: "Stabilization pathway reaching ~6.0 W/m2 after 2100",
	schema.RCP85: "Rising pathway reaching ~8.5 W/m2 by 2100",
}
