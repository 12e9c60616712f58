// Package physics provides the potentials and the Schrödinger flow solved by
// the shooting method.
//
// Potentials implement [Potential]:
//
//   - [InfiniteWell]: zero inside the domain, a large wall value outside
//   - [Linear]: a well whose floor rises linearly across the domain
//   - [PotentialFunc]: any caller-supplied V(x)
//
// [Schrodinger] turns a potential into the ODE
//
//	ψ'' = -2 (E - V(x)) ψ
//
// in units where ħ = m = 1. [Schrodinger.Bind] captures E and yields a
// two-component [dynamo.System] over (ψ, ψ'); [Schrodinger.Augmented] carries
// E as a third, constant component for callers that need a homogeneous state.
//
//	flow := physics.NewSchrodinger(physics.NewInfiniteWell(domain)).Bind(4.93)
//	dy := flow.Derive(0.5, dynamo.State{0, 1})
package physics
