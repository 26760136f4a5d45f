// Package design holds the built-in design phases
package design

import (
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
)

// Capex categories
const (
	CategorySubstructure       = "Substructure"
	CategoryScourProtection    = "Scour Protection"
	CategoryArraySystem        = "Array System"
	CategoryExportSystem       = "Export System"
	CategoryOffshoreSubstation = "Offshore Substation"
	CategoryMooringSystem      = "Mooring System"
)

// Registrations lists every design phase in this package
func Registrations() []phase.Registration {
	return []phase.Registration{
		{
			Name:      "MonopileDesign",
			Kind:      phase.KindDesign,
			Category:  CategorySubstructure,
			Expected:  monopileSchema(),
			Output:    monopileOutputs(),
			NewDesign: NewMonopile,
		},
		{
			Name:      "ScourProtectionDesign",
			Kind:      phase.KindDesign,
			Category:  CategoryScourProtection,
			Expected:  scourProtectionSchema(),
			Output:    scourProtectionOutputs(),
			NewDesign: NewScourProtection,
		},
		{
			Name:      "ArraySystemDesign",
			Kind:      phase.KindDesign,
			Category:  CategoryArraySystem,
			Expected:  arraySystemSchema(),
			Output:    arraySystemOutputs(),
			NewDesign: NewArraySystem,
		},
		{
			Name:      "ExportSystemDesign",
			Kind:      phase.KindDesign,
			Category:  CategoryExportSystem,
			Expected:  exportSystemSchema(),
			Output:    exportSystemOutputs(),
			NewDesign: NewExportSystem,
		},
		{
			Name:      "OffshoreSubstationDesign",
			Kind:      phase.KindDesign,
			Category:  CategoryOffshoreSubstation,
			Expected:  offshoreSubstationSchema(),
			Output:    offshoreSubstationOutputs(),
			NewDesign: NewOffshoreSubstation,
		},
		{
			Name:      "MooringSystemDesign",
			Kind:      phase.KindDesign,
			Category:  CategoryMooringSystem,
			Expected:  mooringSystemSchema(),
			Output:    mooringSystemOutputs(),
			NewDesign: NewMooringSystem,
		},
	}
}
