package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	"github.com/andrescamacho/orbit-go/internal/domain/phase/catalog"
)

func TestNewRegistry_HoldsBuiltinPhases(t *testing.T) {
	r := catalog.NewRegistry()

	assert.Equal(t, []string{
		"ArraySystemDesign", "ExportSystemDesign", "MonopileDesign", "MooringSystemDesign",
		"OffshoreSubstationDesign", "ScourProtectionDesign",
	}, r.Names(phase.KindDesign))
	assert.Len(t, r.Names(phase.KindInstall), 7)
}

func TestRegister_TwiceFails(t *testing.T) {
	r := catalog.NewRegistry()

	assert.Error(t, catalog.Register(r))
}

func TestDesignCategoriesHaveInstallCounterparts(t *testing.T) {
	r := catalog.NewRegistry()
	installCategories := map[string]bool{}
	for _, name := range r.Names(phase.KindInstall) {
		reg, _ := r.Lookup(name)
		installCategories[reg.Category] = true
	}

	for _, name := range r.Names(phase.KindDesign) {
		reg, _ := r.Lookup(name)
		assert.True(t, installCategories[reg.Category], name)
	}
}
