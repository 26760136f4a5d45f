package projectfile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/weather"
)

const weatherCSV = `datetime,waveheight,windspeed_10m,windspeed_100m
01/01/2010 00:00,1.2,5.0,7.1
01/01/2010 01:00,1.4,5.5,7.8
2010-01-01 02:00,1.1,4.9,6.9
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "fixed.yaml", `
name: fixed-bottom
weather: data/weather.csv
site:
  depth: 25
  distance: 40
install_phases:
  MonopileInstallation: 0
  TurbineInstallation: [MonopileInstallation, 0.5]
project_parameters:
  spend_schedule: {0: 0.5, 1: 0.5}
`)

	doc, err := LoadDocument(path)
	require.NoError(t, err)

	assert.Equal(t, "fixed-bottom", doc.Name)
	assert.Equal(t, filepath.Join(dir, "data", "weather.csv"), doc.Weather)
	assert.False(t, doc.Config.Has("name"))
	assert.False(t, doc.Config.Has("weather"))
	assert.Equal(t, 25.0, doc.Config.FloatOr("site.depth", 0))
	assert.Equal(t, 0.5, doc.Config.FloatOr("project_parameters.spend_schedule.1", 0))

	turbine, ok := doc.Config.Get("install_phases.TurbineInstallation")
	require.True(t, ok)
	assert.True(t, turbine.IsSeq())
}

func TestLoadDocuments_MultipleDocumentsGetNumberedNames(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cases.yaml", "site: {depth: 20}\n---\nsite: {depth: 30}\n---\nname: deep\nsite: {depth: 60}\n")

	docs, err := LoadDocuments(path)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "cases-1", docs[0].Name)
	assert.Equal(t, "cases-2", docs[1].Name)
	assert.Equal(t, "deep", docs[2].Name)
	assert.Equal(t, 60.0, docs[2].Config.FloatOr("site.depth", 0))
}

func TestParseDocuments_Errors(t *testing.T) {
	_, err := ParseDocuments(strings.NewReader(""), "")
	assert.Error(t, err)

	_, err = ParseDocuments(strings.NewReader("name: [a]\n"), "")
	assert.Error(t, err)

	_, err = ParseDocuments(strings.NewReader("site: {depth: 20\n"), "")
	assert.Error(t, err)
}

func TestWriteYAML_RoundTrips(t *testing.T) {
	v := config.MustFromAny(map[string]interface{}{
		"bos_capex":    1.5e8,
		"phase_starts": map[string]interface{}{"MonopileInstallation": 0},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, v))

	docs, err := ParseDocuments(&buf, "")
	require.NoError(t, err)
	assert.True(t, v.Equal(docs[0].Config))
}

func TestReadWeather(t *testing.T) {
	s, err := ReadWeather(strings.NewReader(weatherCSV), weather.WithAlpha(0.12))
	require.NoError(t, err)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 0.12, s.Alpha())
	assert.Equal(t, []float64{10, 100}, s.Heights())
	assert.Equal(t, time.Date(2010, 1, 1, 2, 0, 0, 0, time.UTC), s.TimeAt(2))

	wave, ok := s.Waveheight(1)
	require.True(t, ok)
	assert.Equal(t, 1.4, wave)
}

func TestReadWeather_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"single column": "datetime\n01/01/2010 00:00\n",
		"bad timestamp": "datetime,waveheight\nyesterday,1\n",
		"bad number":    "datetime,waveheight\n01/01/2010 00:00,high\n",
		"no rows":       "datetime,waveheight\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadWeather(strings.NewReader(body))
			assert.Error(t, err)
		})
	}
}

func TestWeatherCache_LoadsOnce(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "weather.csv", weatherCSV)
	cache := NewWeatherCache()

	var wg sync.WaitGroup
	results := make([]*weather.Series, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := cache.Load(path)
			assert.NoError(t, err)
			results[i] = s
		}(i)
	}
	wg.Wait()

	for _, s := range results {
		assert.Same(t, results[0], s)
	}
	assert.Equal(t, 1, cache.Len())

	_, err := cache.Load(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
	assert.Equal(t, 1, cache.Len())
}

func TestLoadSweep(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "name: base\nsite: {depth: 20}\n")
	path := writeFile(t, dir, "sweep.yaml", `
base: base.yaml
parameters:
  site.depth: [20, 30, 40]
  plant.num_turbines: [50, 100]
outputs: [bos_capex, installation_time]
concurrency: 2
`)

	s, err := LoadSweep(path)
	require.NoError(t, err)

	assert.Equal(t, "base-sweep", s.Name)
	assert.Equal(t, "base", s.Base.Name)
	assert.Equal(t, []string{"plant.num_turbines", "site.depth"}, s.ParameterPaths())
	assert.Len(t, s.Parameters["site.depth"], 3)
	assert.Equal(t, []string{"bos_capex", "installation_time"}, s.Outputs)
	assert.Equal(t, 2, s.Concurrency)
}

func TestLoadSweep_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "site: {depth: 20}\n")

	cases := map[string]string{
		"missing base":  "parameters: {site.depth: [1]}\n",
		"no parameters": "base: base.yaml\n",
		"empty values":  "base: base.yaml\nparameters: {site.depth: []}\n",
		"unknown key":   "base: base.yaml\nparameters: {site.depth: [1]}\nthreads: 4\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadSweep(writeFile(t, dir, "sweep.yaml", body))
			assert.Error(t, err)
		})
	}
}
