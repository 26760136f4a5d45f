package project

import (
	"slices"

	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
)

// topoOrder returns names with every dependency before its dependents,
// otherwise keeping the given order. A cycle is reported with its path.
func topoOrder(names []string, deps func(name string) []string) ([]string, error) {
	const (
		unvisited = iota
		visiting
		visited
	)
	state := make(map[string]int, len(names))
	order := make([]string, 0, len(names))
	var stack []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case visited:
			return nil
		case visiting:
			cycle := []string{name}
			for i := len(stack) - 1; i >= 0; i-- {
				cycle = append([]string{stack[i]}, cycle...)
				if stack[i] == name {
					break
				}
			}
			return shared.NewCircularDependencyError(cycle)
		}
		state[name] = visiting
		stack = append(stack, name)
		for _, dep := range deps(name) {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = visited
		order = append(order, name)
		return nil
	}

	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// designDependencies maps each design phase to the listed design phases
// producing one of its inputs
func designDependencies(names []string, regs map[string]phase.Registration) map[string][]string {
	deps := make(map[string][]string, len(names))
	for _, name := range names {
		for _, path := range regs[name].Expected.Paths() {
			for _, other := range names {
				if other == name || slices.Contains(deps[name], other) {
					continue
				}
				if regs[other].Output.Produces(path) {
					deps[name] = append(deps[name], other)
				}
			}
		}
	}
	return deps
}

// orderDesigns runs design phases in list order, except that producers run
// before their consumers
func orderDesigns(names []string, regs map[string]phase.Registration) ([]string, error) {
	deps := designDependencies(names, regs)
	return topoOrder(names, func(name string) []string { return deps[name] })
}
