package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/qwell/internal/dynamo"
)

const (
	DormandPrinceName = "dopri5"
	RK4Name           = "rk4"
)

var integrators = map[string]func(dynamo.Tolerances) dynamo.Integrator{
	DormandPrinceName: func(tol dynamo.Tolerances) dynamo.Integrator { return NewDormandPrince(tol) },
	"rk45":            func(tol dynamo.Tolerances) dynamo.Integrator { return NewDormandPrince(tol) },
	RK4Name:           func(tol dynamo.Tolerances) dynamo.Integrator { return NewRK4(tol) },
}

// New returns the named integrator configured with tol. An empty name
// selects Dormand-Prince.
func New(name string, tol dynamo.Tolerances) (dynamo.Integrator, error) {
	if name == "" {
		name = DormandPrinceName
	}
	fn, ok := integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(tol), nil
}

func List() []string {
	names := make([]string, 0, len(integrators))
	for name := range integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
