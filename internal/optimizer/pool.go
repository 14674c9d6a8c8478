package optimizer

import (
	"math/rand"

	"github.com/MaxHalford/eaopt"

	"github.com/erlendvik/packfold/internal/quantify"
	"github.com/erlendvik/packfold/internal/striplayout"
)

// solutionGenome wraps one exploration-phase attempt (its layout and
// tracker snapshots, and the loss it reached) as an eaopt.Genome so the
// tabu pool can reuse eaopt's Individual/Individuals sorting container
// (spec §4.12: "tabu solution_pool: Vec<(solution, loss)> sorted by
// loss"). Mutate/Crossover are no-ops: the pool's own disruption logic
// in explore.go drives mutation, not eaopt's GA loop.
type solutionGenome struct {
	layout *striplayout.Snapshot
	ct     *quantify.Snapshot
	width  float64
	loss   float64
}

// Layout returns the attempt's layout snapshot.
func (g *solutionGenome) Layout() *striplayout.Snapshot { return g.layout }

// Width returns the strip width the attempt was reached at.
func (g *solutionGenome) Width() float64 { return g.width }

// Loss returns the attempt's total loss (0 for a feasible attempt).
func (g *solutionGenome) Loss() float64 { return g.loss }

func (g *solutionGenome) Evaluate() (float64, error) { return g.loss, nil }

func (g *solutionGenome) Mutate(_ *rand.Rand) {}

func (g *solutionGenome) Crossover(_ eaopt.Genome, _ *rand.Rand) {}

func (g *solutionGenome) Clone() eaopt.Genome {
	return &solutionGenome{layout: g.layout, ct: g.ct, width: g.width, loss: g.loss}
}

// solutionPool is the tabu pool of infeasible attempts kept sorted by
// loss (best first), backed by eaopt.Individuals.
type solutionPool struct {
	individuals eaopt.Individuals
}

func newSolutionPool() *solutionPool {
	return &solutionPool{}
}

// insertSorted inserts sol at its sorted position (ascending loss),
// mirroring spec §4.12 step 3's "insert (sol, loss) into solution_pool
// at sorted position."
func (p *solutionPool) insertSorted(sol *solutionGenome) {
	p.individuals = append(p.individuals, eaopt.Individual{Genome: sol, Fitness: sol.loss})
	p.individuals.SortByFitness()
}

func (p *solutionPool) len() int { return len(p.individuals) }

func (p *solutionPool) clear() { p.individuals = nil }

func (p *solutionPool) at(i int) *solutionGenome {
	return p.individuals[i].Genome.(*solutionGenome)
}
