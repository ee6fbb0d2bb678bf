package order_test

import (
	"errors"
	"fmt"

	"github.com/matzehuels/stackorder/pkg/dag"
	"github.com/matzehuels/stackorder/pkg/dag/order"
)

func ExampleSort() {
	adj := dag.Adjacency{
		"A": {"B", "C"},
		"B": {"D"},
		"C": {"D"},
	}
	ordered, err := order.Sort(adj, []string{"D", "C", "B", "A"})
	if err != nil {
		panic(err)
	}
	fmt.Println(ordered)
	// Output:
	// [A C B D]
}

func ExampleSort_subset() {
	// X is not in the working set, so A→X and X→A impose nothing.
	adj := dag.Adjacency{
		"A": {"B", "X"},
		"X": {"A"},
	}
	ordered, _ := order.Sort(adj, []string{"A", "B"})
	fmt.Println(ordered)
	// Output:
	// [A B]
}

func ExampleSort_cycle() {
	adj := dag.Adjacency{"A": {"B"}, "B": {"A"}}
	_, err := order.Sort(adj, []string{"A", "B"})

	var ce *order.CycleError
	if errors.As(err, &ce) {
		fmt.Println("unresolved:", ce.Unresolved)
		fmt.Println("cycle:", ce.Cycle)
	}
	// Output:
	// unresolved: [A B]
	// cycle: [A B]
}

func ExampleLayers() {
	adj := dag.Adjacency{
		"root":  {"left", "right"},
		"left":  {"merge"},
		"right": {"merge"},
	}
	layers, _ := order.Layers(adj, []string{"root", "left", "right", "merge"})
	for i, layer := range layers {
		fmt.Println(i, layer)
	}
	// Output:
	// 0 [root]
	// 1 [left right]
	// 2 [merge]
}

func ExampleCheck() {
	adj := dag.Adjacency{"A": {"B"}}
	fmt.Println(order.Check(adj, []string{"A", "B"}, []string{"B", "A"}))
	// Output:
	// order violation: "A" must come before "B"
}
