// Package watch evaluates caller-defined rules against simulation
// results. A rule pairs a compiled boolean expression over the marking
// with an action; rules run after each budgeted simulation call, never
// inside the firing loop.
package watch

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog"
)

// Snapshot is the state a rule condition sees.
type Snapshot struct {
	Marking    []int16
	Steps      int
	Deadlocked bool
}

// Action is invoked when a rule's condition holds.
type Action func(Snapshot)

// Rule pairs a named, compiled condition with an action.
type Rule struct {
	Name    string
	Enabled bool
	program *vm.Program
	action  Action
}

// Set holds rules and evaluates them against snapshots.
type Set struct {
	rules []*Rule
	log   zerolog.Logger
}

// NewSet creates an empty rule set.
func NewSet() *Set {
	return &Set{log: zerolog.Nop()}
}

// WithLogger attaches a logger; the default discards everything.
func (s *Set) WithLogger(log zerolog.Logger) *Set {
	s.log = log
	return s
}

// Add compiles a condition and registers it under a name. Conditions see
// `marking` ([]int), `steps` (int) and `deadlocked` (bool), e.g.
// "marking[2] > 1000" or "deadlocked && steps < 10".
func (s *Set) Add(name, condition string, action Action) error {
	program, err := expr.Compile(condition,
		expr.Env(envFor(Snapshot{})),
		expr.AsBool(),
	)
	if err != nil {
		return fmt.Errorf("compiling rule %q: %w", name, err)
	}
	s.rules = append(s.rules, &Rule{
		Name:    name,
		Enabled: true,
		program: program,
		action:  action,
	})
	return nil
}

// Evaluate runs every enabled rule against the snapshot, invokes the
// actions of those whose condition holds, and returns their names.
func (s *Set) Evaluate(snap Snapshot) []string {
	env := envFor(snap)

	var fired []string
	for _, rule := range s.rules {
		if !rule.Enabled {
			continue
		}
		out, err := expr.Run(rule.program, env)
		if err != nil {
			s.log.Warn().Err(err).Str("rule", rule.Name).Msg("rule evaluation failed")
			continue
		}
		if out.(bool) {
			fired = append(fired, rule.Name)
			if rule.action != nil {
				rule.action(snap)
			}
		}
	}
	return fired
}

// Len returns the number of registered rules.
func (s *Set) Len() int { return len(s.rules) }

// envFor widens the i16 marking to int so expressions can compare
// against untyped constants without casts.
func envFor(snap Snapshot) map[string]any {
	marking := make([]int, len(snap.Marking))
	for i, v := range snap.Marking {
		marking[i] = int(v)
	}
	return map[string]any{
		"marking":    marking,
		"steps":      snap.Steps,
		"deadlocked": snap.Deadlocked,
	}
}
