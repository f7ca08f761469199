// stubengine is a deterministic stand-in for a reduced-complexity climate
// engine, used by the integration tests. It reads a serialized scenario,
// reduces the fossil CO2 series to a single scale factor and writes one
// output CSV per requested variable.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func main() {
	scenario := flag.String("scenario", "", "path to the serialized scenario")
	outDir := flag.String("outdir", "", "directory for output CSVs")
	startYear := flag.Float64("start-year", 0, "first projection year")
	endYear := flag.Float64("end-year", 0, "last projection year")
	timestep := flag.Float64("timestep", 1, "projection timestep in years")
	vars := flag.String("vars", "", "comma-separated output variables")
	flag.Parse()

	if *scenario == "" || *outDir == "" || *vars == "" {
		fmt.Fprintln(os.Stderr, "stubengine: --scenario, --outdir and --vars are required")
		os.Exit(2)
	}

	scale, err := fossilScale(*scenario)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stubengine: %v\n", err)
		os.Exit(1)
	}

	for _, v := range strings.Split(*vars, ",") {
		if err := writeSeries(*outDir, v, *startYear, *endYear, *timestep, scale); err != nil {
			fmt.Fprintf(os.Stderr, "stubengine: %v\n", err)
			os.Exit(1)
		}
	}
}

// fossilScale sums the fossil CO2 series and normalizes it so the
// unmodified RCP4.5 pathway lands near 1.
func fossilScale(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	var total float64
	inFossil := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "SERIES ") {
			inFossil = strings.HasPrefix(line, "SERIES co2-fossil ")
			continue
		}
		if !inFossil || line == "" {
			continue
		}
		var year, value float64
		if _, err := fmt.Sscanf(line, "%f %f", &year, &value); err == nil {
			total += value
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return total / 1.5e6, nil
}

func writeSeries(outDir, variable string, start, end, step, scale float64) error {
	f, err := os.Create(filepath.Join(outDir, variable+".csv"))
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "year,value")
	for year := start; year <= end; year += step {
		frac := (year - start) / (end - start)
		var value float64
		switch variable {
		case "surface-temperature":
			value = 3.0 * frac * scale
		case "co2-concentration":
			value = 350 + 400*frac*scale
		default:
			value = frac * scale
		}
		fmt.Fprintf(w, "%.1f,%.6f\n", year, value)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
