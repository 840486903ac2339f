package minesweeper

import "math/rand/v2"

// GameBuilderOption is a functional option for configuring a Game.
type GameBuilderOption func(*game)

// WithRand sets the random source used for mine placement. Tests pass a seeded source
// to get a repeatable board. Defaults to a randomly seeded PCG.
//
// Parameters:
//   - rng: the random source
//
// Returns:
//   - GameBuilderOption: option function to apply
func WithRand(rng *rand.Rand) GameBuilderOption {
	return func(g *game) {
		g.rng = rng
	}
}
