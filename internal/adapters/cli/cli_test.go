package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixedBottomYAML = `name: fixed-bottom
wtiv: example_wtiv
spi_vessel: example_scour_protection_vessel
oss_install_vessel: example_heavy_lift_vessel
array_cable_install_vessel: example_cable_lay_vessel
export_cable_install_vessel: example_cable_lay_vessel
site:
  depth: 25
  distance: 40
  distance_to_landfall: 35
plant:
  num_turbines: 6
turbine:
  turbine_rating: 6
  rotor_diameter: 150
  hub_height: 90
  tower: {mass: 300, deck_space: 100}
  nacelle: {mass: 350, deck_space: 200}
  blade: {mass: 30, deck_space: 100}
design_phases:
  - MonopileDesign
  - ScourProtectionDesign
  - ArraySystemDesign
  - ExportSystemDesign
  - OffshoreSubstationDesign
install_phases:
  ExportCableInstallation: 0
  OffshoreSubstationInstallation: 0
  MonopileInstallation: 0
  ScourProtectionInstallation: [MonopileInstallation, 0.5]
  TurbineInstallation: [MonopileInstallation, 1.0]
  ArrayCableInstallation: [MonopileInstallation, 0.5]
`

// cliEnv writes an orbit.yaml with a private SQLite database
func cliEnv(t *testing.T) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	cfgPath = filepath.Join(dir, "orbit.yaml")
	body := "database:\n  type: sqlite\n  path: " + filepath.Join(dir, "runs.db") +
		"\n  postgres:\n    password: hunter2\nlogging:\n  level: error\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0644))
	return dir, cfgPath
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func execute(t *testing.T, cfgPath string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", cfgPath, "--daemon", ""}, args...))
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestPhasesCommand_ListsCatalog(t *testing.T) {
	_, cfgPath := cliEnv(t)

	out, _, err := execute(t, cfgPath, "phases")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "MonopileInstallation")
	assert.Contains(t, out, "ExportSystemDesign")

	out, _, err = execute(t, cfgPath, "phases", "--kind", "design", "-o", "json")
	require.NoError(t, err)
	var phases map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &phases))
	assert.Contains(t, phases, "MonopileDesign")
	assert.NotContains(t, phases, "MonopileInstallation")
}

func TestSchemaCommand_CompilesInputs(t *testing.T) {
	_, cfgPath := cliEnv(t)

	out, _, err := execute(t, cfgPath, "schema", "MonopileDesign", "MonopileInstallation", "-o", "json")
	require.NoError(t, err)

	var inputs map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &inputs))
	assert.Contains(t, inputs, "site")
	assert.Contains(t, inputs, "turbine")

	_, _, err = execute(t, cfgPath, "schema", "NoSuchPhase")
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	dir, cfgPath := cliEnv(t)

	good := writeFile(t, dir, "good.yaml", fixedBottomYAML)
	out, _, err := execute(t, cfgPath, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ fixed-bottom")

	bad := writeFile(t, dir, "bad.yaml", "name: bare\ndesign_phases: [MonopileDesign]\n")
	out, _, err = execute(t, cfgPath, "validate", bad)
	require.Error(t, err)
	assert.Contains(t, out, "✗ bare")
	assert.Contains(t, out, "missing MonopileDesign: site.depth")
}

func TestRunCommand_PersistsAndShowsRun(t *testing.T) {
	dir, cfgPath := cliEnv(t)
	project := writeFile(t, dir, "project.yaml", fixedBottomYAML)

	out, errOut, err := execute(t, cfgPath, "run", project, "--persist", "-o", "json")
	require.NoError(t, err)

	var outputs map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &outputs))
	assert.Positive(t, outputs["total_capex"])
	assert.Contains(t, outputs, "npv")
	assert.NotContains(t, outputs, "actions")

	match := regexp.MustCompile(`run (\S+) stored \(COMPLETED\)`).FindStringSubmatch(errOut)
	require.Len(t, match, 2, errOut)
	runID := match[1]

	out, _, err = execute(t, cfgPath, "runs", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "fixed-bottom")
	assert.Contains(t, out, "COMPLETED")

	out, _, err = execute(t, cfgPath, "runs", "show", runID, "--actions", "-o", "json")
	require.NoError(t, err)
	var detail map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &detail))
	assert.Equal(t, runID, detail["id"])
	assert.Len(t, detail["phases"], 11)
	assert.NotEmpty(t, detail["actions"])
}

func TestSweepCommand_ReportsRows(t *testing.T) {
	dir, cfgPath := cliEnv(t)
	writeFile(t, dir, "project.yaml", fixedBottomYAML)
	sweep := writeFile(t, dir, "sweep.yaml", `name: depth-study
base: project.yaml
parameters:
  site.depth: [20, 30]
outputs: [installation_time, bos_capex]
concurrency: 2
`)

	out, _, err := execute(t, cfgPath, "sweep", sweep, "-o", "json")
	require.NoError(t, err)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	for i, row := range rows {
		assert.EqualValues(t, i, row["case"])
		assert.NotContains(t, row, "error")
		outputs := row["outputs"].(map[string]interface{})
		assert.Positive(t, outputs["bos_capex"])
	}

	out, _, err = execute(t, cfgPath, "sweep", sweep)
	require.NoError(t, err)
	assert.Contains(t, out, "CASE")
	assert.Contains(t, out, "site.depth")
}

func TestConfigShow_MasksPassword(t *testing.T) {
	_, cfgPath := cliEnv(t)

	out, _, err := execute(t, cfgPath, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "max_hours")
	assert.Contains(t, out, "********")
	assert.NotContains(t, out, "hunter2")
}
