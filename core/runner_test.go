package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/scendiff/scendiff/core/pathway"
	"github.com/scendiff/scendiff/internal/contract"
	"github.com/scendiff/scendiff/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEngineClient fakes an engine by writing output CSVs derived from the
// serialized scenario, so modified pathways produce different projections
// than their baselines.
type stubEngineClient struct {
	fail error
}

var _ contract.EngineClient = &stubEngineClient{}

func (s *stubEngineClient) Invoke(_ context.Context, req contract.EngineRequest) error {
	if s.fail != nil {
		return s.fail
	}
	scale, err := fossilScale(req.ScenarioPath)
	if err != nil {
		return err
	}
	for _, v := range req.Variables {
		f, err := os.Create(filepath.Join(req.OutDir, string(v)+".csv"))
		if err != nil {
			return err
		}
		fmt.Fprintln(f, "year,value")
		for year := req.StartYear; year <= req.EndYear; year += req.Timestep {
			frac := (year - req.StartYear) / (req.EndYear - req.StartYear)
			var value float64
			switch v {
			case schema.SurfaceTemperature:
				value = 3.0 * frac * scale
			case schema.CO2Concentration:
				value = 350 + 400*frac*scale
			}
			fmt.Fprintf(f, "%.1f,%.6f\n", year, value)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

// fossilScale reduces the serialized fossil series to a single factor,
// normalized so the unmodified RCP4.5 pathway lands near 1.
func fossilScale(scenarioPath string) (float64, error) {
	data, err := os.ReadFile(scenarioPath)
	if err != nil {
		return 0, err
	}
	var total float64
	inFossil := false
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "SERIES ") {
			inFossil = strings.HasPrefix(line, "SERIES "+string(schema.FossilCO2)+" ")
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
	return total / 1.5e6, nil
}

func testConfig() *contract.Config {
	return &contract.Config{
		Scenario: schema.RCP45,
		Perturbation: schema.Perturbation{
			Kind:      schema.AdditiveTransform,
			Magnitude: 2.0,
			From:      2040,
			To:        2060,
		},
		Variables:     []schema.OutputVariable{schema.SurfaceTemperature, schema.CO2Concentration},
		EngineCommand: "stub-engine",
		EngineTimeout: 30 * time.Second,
	}
}

func loadBasePathway(t *testing.T) *schema.Pathway {
	t.Helper()
	p, err := pathway.NewStore().Load(schema.RCP45)
	require.NoError(t, err)
	return p
}

func TestWriteScenarioFile(t *testing.T) {
	base := loadBasePathway(t)
	path := filepath.Join(t.TempDir(), "scenario.scen")
	require.NoError(t, writeScenarioFile(path, base))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")

	assert.Equal(t, "SCENDIFF-SCEN 1", lines[0])
	// Species blocks appear in lexical order, ch4 first.
	assert.Equal(t, "SERIES ch4 Mt CH4/yr", lines[1])
	// Carbon rates are converted from Gt C/yr to Mt C/yr.
	assert.Contains(t, string(data), "SERIES co2-fossil Mt C/yr")

	start, end := base.Horizon()
	pointsPerSeries := int(end-start) + 1
	wantLines := 1 + len(base.Series)*(1+pointsPerSeries)
	assert.Len(t, lines, wantLines, "each series should be resampled to annual steps")
}

func TestWriteScenarioFileConversionAndInterpolation(t *testing.T) {
	base := loadBasePathway(t)
	path := filepath.Join(t.TempDir(), "scenario.scen")
	require.NoError(t, writeScenarioFile(path, base))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	fossil := base.Series[schema.FossilCO2]
	v2050, ok := fossil.IndexOf(2050)
	require.True(t, ok)
	// Catalog value in Gt C/yr shows up a thousandfold in the scenario file.
	want := fmt.Sprintf("2050 %.6f", fossil.Values[v2050]*1000)
	assert.Contains(t, string(data), want)
}

func TestParseEngineCSV(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		t.Helper()
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}

	t.Run("valid", func(t *testing.T) {
		p := write("good.csv", "year,value\n2000,0.5\n2001,0.6\n2002,0.7\n")
		ts, err := parseEngineCSV(p, schema.UnitDegC)
		require.NoError(t, err)
		assert.Equal(t, []float64{2000, 2001, 2002}, ts.Years)
		assert.Equal(t, []float64{0.5, 0.6, 0.7}, ts.Values)
		assert.Equal(t, schema.UnitDegC, ts.Unit)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := parseEngineCSV(filepath.Join(dir, "nope.csv"), schema.UnitDegC)
		assert.Error(t, err)
	})

	t.Run("bad header", func(t *testing.T) {
		p := write("header.csv", "time,temp\n2000,0.5\n")
		_, err := parseEngineCSV(p, schema.UnitDegC)
		assert.ErrorContains(t, err, "header")
	})

	t.Run("non numeric", func(t *testing.T) {
		p := write("nan.csv", "year,value\n2000,warm\n")
		_, err := parseEngineCSV(p, schema.UnitDegC)
		assert.ErrorContains(t, err, "non-numeric")
	})

	t.Run("non increasing years", func(t *testing.T) {
		p := write("order.csv", "year,value\n2001,0.5\n2000,0.6\n")
		_, err := parseEngineCSV(p, schema.UnitDegC)
		assert.ErrorContains(t, err, "increasing")
	})

	t.Run("too short", func(t *testing.T) {
		p := write("short.csv", "year,value\n2000,0.5\n")
		_, err := parseEngineCSV(p, schema.UnitDegC)
		assert.ErrorContains(t, err, "at least 2")
	})
}

func TestProjectPathway(t *testing.T) {
	cfg := testConfig()
	base := loadBasePathway(t)

	result, err := projectPathway(context.Background(), cfg, &stubEngineClient{}, base)
	require.NoError(t, err)

	assert.Equal(t, base.Label(), result.Source)
	assert.Equal(t, cfg.EngineCommand, result.Engine.Command)
	assert.NotEmpty(t, result.Engine.RunUID)
	assert.False(t, result.Engine.FromCache)

	start, end := base.Horizon()
	assert.Equal(t, start, result.StartYear)
	assert.Equal(t, end, result.EndYear)

	require.Len(t, result.Variables, 2)
	temp := result.Variables[schema.SurfaceTemperature]
	require.NotNil(t, temp)
	assert.Equal(t, schema.UnitDegC, temp.Unit)
	assert.Equal(t, start, temp.Start())
	assert.Equal(t, end, temp.End())
}

func TestProjectPathwayEngineFailure(t *testing.T) {
	cfg := testConfig()
	base := loadBasePathway(t)

	client := &stubEngineClient{fail: fmt.Errorf("%w: boom", schema.ErrEngineInvocation)}
	_, err := projectPathway(context.Background(), cfg, client, base)
	assert.ErrorIs(t, err, schema.ErrEngineInvocation)
}

func TestProjectPathwayMissingVariableOutput(t *testing.T) {
	cfg := testConfig()
	base := loadBasePathway(t)

	// The stub only knows how to fake the standard variables; asking for a
	// name it never writes leaves the output file missing.
	partial := *cfg
	partial.Variables = []schema.OutputVariable{schema.SurfaceTemperature, schema.OutputVariable("sea-level")}
	_, err := projectPathway(context.Background(), &partial, &stubEngineClient{}, base)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrEngineInvocation)
}
