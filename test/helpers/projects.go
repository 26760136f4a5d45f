package helpers

import "github.com/andrescamacho/orbit-go/internal/domain/config"

// FixedBottomProject is a six turbine monopile project using every
// built-in phase and library vessel
func FixedBottomProject() config.Value {
	return config.MustFromAny(map[string]interface{}{
		"wtiv":                        "example_wtiv",
		"spi_vessel":                  "example_scour_protection_vessel",
		"oss_install_vessel":          "example_heavy_lift_vessel",
		"array_cable_install_vessel":  "example_cable_lay_vessel",
		"export_cable_install_vessel": "example_cable_lay_vessel",
		"site": map[string]interface{}{
			"depth":                25,
			"distance":             40,
			"distance_to_landfall": 35,
		},
		"plant": map[string]interface{}{"num_turbines": 6},
		"turbine": map[string]interface{}{
			"turbine_rating": 6,
			"rotor_diameter": 150,
			"hub_height":     90,
			"tower":          map[string]interface{}{"mass": 300, "deck_space": 100},
			"nacelle":        map[string]interface{}{"mass": 350, "deck_space": 200},
			"blade":          map[string]interface{}{"mass": 30, "deck_space": 100},
		},
		"port": map[string]interface{}{"monthly_rate": 2e6},
		"design_phases": []interface{}{
			"MonopileDesign",
			"ScourProtectionDesign",
			"ArraySystemDesign",
			"ExportSystemDesign",
			"OffshoreSubstationDesign",
		},
		"install_phases": map[string]interface{}{
			"ExportCableInstallation":        0,
			"OffshoreSubstationInstallation": 0,
			"MonopileInstallation":           0,
			"ScourProtectionInstallation":    []interface{}{"MonopileInstallation", 0.5},
			"TurbineInstallation":            []interface{}{"MonopileInstallation", 1.0},
			"ArrayCableInstallation":         []interface{}{"MonopileInstallation", 0.5},
		},
	})
}
