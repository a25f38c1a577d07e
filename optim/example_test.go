// SPDX-License-Identifier: MIT
package optim_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/lvflux/optim"
)

// ExampleSimplexSolver maximises 3x + 2y under x + y ≤ 5, 0 ≤ x ≤ 4, y ≥ 0.
func ExampleSimplexSolver() {
	p := optim.NewProblem("diet")
	x, _ := p.AddVariable("x", 0, 4)
	y, _ := p.AddVariable("y", 0, optim.Inf)
	_, _ = p.AddConstraint("cap", optim.Expr{x: 1, y: 1}, -optim.Inf, 5)
	_ = p.SetObjective(optim.Maximize, optim.Expr{x: 3, y: 2}, nil)

	sol, err := optim.NewSimplexSolver().Solve(context.Background(), p)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%s f=%.1f x=%.1f y=%.1f\n", sol.Status, sol.ObjectiveValue, sol.Value("x"), sol.Value("y"))
	// Output: optimal f=14.0 x=4.0 y=1.0
}

// ExampleADMMSolver minimises x² + y² on the line x + y = 1.
func ExampleADMMSolver() {
	p := optim.NewProblem("balance")
	x, _ := p.AddVariable("x", -optim.Inf, optim.Inf)
	y, _ := p.AddVariable("y", -optim.Inf, optim.Inf)
	_, _ = p.AddConstraint("sum", optim.Expr{x: 1, y: 1}, 1, 1)
	_ = p.SetObjective(optim.Minimize, nil, optim.Expr{x: 1, y: 1})

	sol, err := optim.NewADMMSolver().Solve(context.Background(), p)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%s x=%.3f y=%.3f\n", sol.Status, sol.Value("x"), sol.Value("y"))
	// Output: optimal x=0.500 y=0.500
}
