// Package plan groups a strength day's exercises into circuits and keeps
// their order indices consistent when groups are moved.
package plan

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"workouttracker/internal/store"
)

// CircuitPrefix is the word every generated circuit name starts with
const CircuitPrefix = "Circuit"

// Group is either a named circuit with all its member exercises, or a single
// standalone exercise with an empty Circuit.
type Group struct {
	Circuit   string
	Exercises []store.Exercise
}

// IsCircuit reports whether the group is a named circuit
func (g Group) IsCircuit() bool {
	return g.Circuit != ""
}

// GroupByCircuit orders exercises by OrderIndex and groups them by first
// appearance. A circuit's group is emitted where its first member appears and
// collects every member of that circuit, in order. Standalone exercises
// become singleton groups.
func GroupByCircuit(exercises []store.Exercise) []Group {
	sorted := make([]store.Exercise, len(exercises))
	copy(sorted, exercises)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OrderIndex < sorted[j].OrderIndex
	})

	members := make(map[string][]store.Exercise)
	for _, ex := range sorted {
		if name := circuitOf(ex); name != "" {
			members[name] = append(members[name], ex)
		}
	}

	var groups []Group
	emitted := make(map[string]bool)
	for _, ex := range sorted {
		name := circuitOf(ex)
		switch {
		case name == "":
			groups = append(groups, Group{Exercises: []store.Exercise{ex}})
		case !emitted[name]:
			emitted[name] = true
			groups = append(groups, Group{Circuit: name, Exercises: members[name]})
		}
	}
	return groups
}

func circuitOf(ex store.Exercise) string {
	return strings.TrimSpace(ex.CircuitName)
}

// ParseCircuitNumber extracts N from "Circuit N". The name must split on a
// single space into exactly two parts, the second an integer.
func ParseCircuitNumber(name string) (int, bool) {
	parts := strings.Split(name, " ")
	if len(parts) != 2 {
		return 0, false
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// CircuitSortKey is the number of a circuit name, or math.MaxInt for names
// that do not parse so they sort after every numbered circuit.
func CircuitSortKey(name string) int {
	if n, ok := ParseCircuitNumber(name); ok {
		return n
	}
	return math.MaxInt
}

// SortCircuitNames sorts names in place by circuit number, then by name
func SortCircuitNames(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		ki, kj := CircuitSortKey(names[i]), CircuitSortKey(names[j])
		if ki != kj {
			return ki < kj
		}
		return names[i] < names[j]
	})
}

// CircuitNames returns the distinct circuit names used by exercises, sorted
func CircuitNames(exercises []store.Exercise) []string {
	seen := make(map[string]bool)
	var names []string
	for _, ex := range exercises {
		name := circuitOf(ex)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	SortCircuitNames(names)
	return names
}

// NextCircuitLabel returns "Circuit N" with N one more than the highest
// numbered name, or "Circuit 1" when none are numbered.
func NextCircuitLabel(names []string) string {
	highest := 0
	for _, name := range names {
		if n, ok := ParseCircuitNumber(name); ok && n > highest {
			highest = n
		}
	}
	return CircuitPrefix + " " + strconv.Itoa(highest+1)
}

// CircuitOptions lists the circuits an exercise can be added to: the existing
// names in sort order followed by a fresh label.
func CircuitOptions(names []string) []string {
	options := make([]string, 0, len(names)+1)
	options = append(options, names...)
	SortCircuitNames(options)
	return append(options, NextCircuitLabel(names))
}
