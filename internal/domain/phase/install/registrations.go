// Package install holds the built-in installation phases
package install

import (
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	"github.com/andrescamacho/orbit-go/internal/domain/phase/design"
)

// CategoryTurbine is the capex category of turbine installation
const CategoryTurbine = "Turbine"

// Registrations lists every installation phase in this package
func Registrations() []phase.Registration {
	return []phase.Registration{
		{
			Name:       "MonopileInstallation",
			Kind:       phase.KindInstall,
			Category:   design.CategorySubstructure,
			Expected:   monopileSchema(),
			NewInstall: NewMonopile,
		},
		{
			Name:       "TurbineInstallation",
			Kind:       phase.KindInstall,
			Category:   CategoryTurbine,
			Expected:   turbineSchema(),
			NewInstall: NewTurbine,
		},
		{
			Name:       "ScourProtectionInstallation",
			Kind:       phase.KindInstall,
			Category:   design.CategoryScourProtection,
			Expected:   scourProtectionSchema(),
			NewInstall: NewScourProtection,
		},
		{
			Name:       "ArrayCableInstallation",
			Kind:       phase.KindInstall,
			Category:   design.CategoryArraySystem,
			Expected:   arrayCableSchema(),
			NewInstall: NewArrayCable,
		},
		{
			Name:       "ExportCableInstallation",
			Kind:       phase.KindInstall,
			Category:   design.CategoryExportSystem,
			Expected:   exportCableSchema(),
			NewInstall: NewExportCable,
		},
		{
			Name:       "OffshoreSubstationInstallation",
			Kind:       phase.KindInstall,
			Category:   design.CategoryOffshoreSubstation,
			Expected:   offshoreSubstationSchema(),
			NewInstall: NewOffshoreSubstation,
		},
		{
			Name:       "MooringSystemInstallation",
			Kind:       phase.KindInstall,
			Category:   design.CategoryMooringSystem,
			Expected:   mooringSystemSchema(),
			NewInstall: NewMooringSystem,
		},
	}
}
