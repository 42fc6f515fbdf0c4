package gravity

import (
	"math"
	"testing"
)

func TestTreeSingleBodyNoSelfForce(t *testing.T) {
	tr := NewTree(3)
	pos := []float64{1, 2, 3}
	mass := []float64{1e10}

	tr.Build([]int{0}, pos, mass)

	acc := make([]float64, 3)
	tr.ForceOn(0, pos, 6.674e-11, 0.5, acc)
	for d, a := range acc {
		if a != 0 {
			t.Errorf("self-interaction leaked into axis %d: %g", d, a)
		}
	}
}

func TestTreeTwoBodyExact(t *testing.T) {
	tr := NewTree(3)
	pos := []float64{
		0, 0, 0,
		1000, 0, 0,
	}
	mass := []float64{1e12, 2e12}
	g := 6.674e-11

	tr.Build([]int{0, 1}, pos, mass)

	acc := make([]float64, 3)
	tr.ForceOn(0, pos, g, 0.5, acc)

	want := g * mass[1] / (1000 * 1000)
	if math.Abs(acc[0]-want) > want*1e-12 {
		t.Errorf("expected ax %g, got %g", want, acc[0])
	}
	if acc[1] != 0 || acc[2] != 0 {
		t.Errorf("expected axial force only, got %v", acc)
	}
}

func TestTreeAggregates(t *testing.T) {
	tr := NewTree(2)
	pos := []float64{
		-10, 0,
		10, 0,
		0, 20,
	}
	mass := []float64{1, 3, 6}

	tr.Build([]int{0, 1, 2}, pos, mass)

	root := tr.nodes[0]
	if root.mass != 10 {
		t.Errorf("root mass: expected 10, got %f", root.mass)
	}
	// centroid: ((-10*1 + 10*3 + 0*6)/10, (0 + 0 + 20*6)/10)
	if math.Abs(root.comX-2) > 1e-12 || math.Abs(root.comY-12) > 1e-12 {
		t.Errorf("root centroid: expected (2,12), got (%f,%f)", root.comX, root.comY)
	}
}

func TestTreeCoincidentBodiesTerminate(t *testing.T) {
	tr := NewTree(2)
	pos := []float64{
		5, 5,
		5, 5,
		5, 5,
	}
	mass := []float64{1, 1, 1}

	// would recurse forever without the depth cutoff
	tr.Build([]int{0, 1, 2}, pos, mass)

	acc := make([]float64, 2)
	tr.ForceOn(0, pos, 1, 0.5, acc)
	for d, a := range acc {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			t.Errorf("axis %d: non-finite acceleration %g", d, a)
		}
	}
}

func TestTreeNearCoincidentTerminate(t *testing.T) {
	tr := NewTree(3)
	pos := []float64{
		1, 1, 1,
		1 + 1e-13, 1, 1,
	}
	mass := []float64{1, 1}

	tr.Build([]int{0, 1}, pos, mass)
	if len(tr.nodes) == 0 {
		t.Fatal("tree not built")
	}
}

func TestTreeEmptyBuild(t *testing.T) {
	tr := NewTree(2)
	tr.Build(nil, nil, nil)

	acc := []float64{1, 1}
	tr.ForceOn(0, []float64{0, 0}, 1, 0.5, acc)
	if acc[0] != 0 || acc[1] != 0 {
		t.Errorf("expected zeroed output on empty tree, got %v", acc)
	}
}
