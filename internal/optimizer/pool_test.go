package optimizer

import "testing"

func TestSolutionPoolInsertSortedKeepsAscendingLossOrder(t *testing.T) {
	pool := newSolutionPool()
	pool.insertSorted(&solutionGenome{loss: 5})
	pool.insertSorted(&solutionGenome{loss: 1})
	pool.insertSorted(&solutionGenome{loss: 3})

	if pool.len() != 3 {
		t.Fatalf("len() = %d, want 3", pool.len())
	}
	var losses []float64
	for i := 0; i < pool.len(); i++ {
		losses = append(losses, pool.at(i).loss)
	}
	for i := 1; i < len(losses); i++ {
		if losses[i] < losses[i-1] {
			t.Errorf("pool not sorted ascending by loss: %v", losses)
		}
	}
}

func TestSolutionPoolClearEmptiesPool(t *testing.T) {
	pool := newSolutionPool()
	pool.insertSorted(&solutionGenome{loss: 1})
	pool.clear()
	if pool.len() != 0 {
		t.Errorf("len() after clear = %d, want 0", pool.len())
	}
}

func TestSolutionGenomeCloneIsIndependent(t *testing.T) {
	g := &solutionGenome{width: 10, loss: 2}
	clone := g.Clone().(*solutionGenome)
	if clone.width != g.width || clone.loss != g.loss {
		t.Errorf("Clone() = %+v, want matching fields of %+v", clone, g)
	}

	fitness, err := g.Evaluate()
	if err != nil {
		t.Fatalf("Evaluate() returned error: %v", err)
	}
	if fitness != g.loss {
		t.Errorf("Evaluate() = %v, want %v (loss)", fitness, g.loss)
	}
}
