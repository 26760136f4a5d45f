package commands_test

import (
	"testing"
	"time"

	appProject "github.com/andrescamacho/orbit-go/internal/application/project"
	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
	"github.com/andrescamacho/orbit-go/test/helpers"
)

// dredgeProject sizes a trench from site.depth and dredges it for
// depth*10 hours at 100 USD/h with free port rental
func dredgeProject(t *testing.T, depth float64, extra map[string]interface{}) config.Value {
	t.Helper()
	raw := map[string]interface{}{
		"site":           map[string]interface{}{"depth": depth},
		"port":           map[string]interface{}{"monthly_rate": 0},
		"design_phases":  []interface{}{"TrenchSizing"},
		"install_phases": map[string]interface{}{"Dredging": 0},
	}
	for k, v := range extra {
		raw[k] = v
	}
	return helpers.MustConfig(t, raw)
}

func testSettings() appProject.Settings {
	return appProject.Settings{
		MaxHours: 10000,
		Clock:    shared.NewMockClock(time.Time{}),
	}
}
