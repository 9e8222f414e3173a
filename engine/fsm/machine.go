// Package fsm is a small guard/action state machine.
//
// The graph is built once, then driven by Update. Each Update runs the active
// state's OnUpdate actions and fires at most one transition, so a transition
// and its actions are atomic with respect to a single tick.
package fsm

import (
	"github.com/pkg/errors"
)

// Machine is the generic finite state machine runtime
// T is the context type passed to actions and guards
type Machine[T any] struct {
	nodes    map[StateID]*Node[T]
	active   StateID
	observer ChangeFunc[T]
}

// NewMachine creates a new FSM instance
func NewMachine[T any]() *Machine[T] {
	return &Machine[T]{
		nodes:  make(map[StateID]*Node[T]),
		active: StateNone,
	}
}

// AddState registers a node
func (m *Machine[T]) AddState(id StateID, name string) error {
	if _, exists := m.nodes[id]; exists {
		return errors.Errorf("fsm: duplicate state %d (%s)", id, name)
	}
	m.nodes[id] = &Node[T]{ID: id, Name: name}
	return nil
}

// OnEnter appends an action run whenever id becomes active
func (m *Machine[T]) OnEnter(id StateID, fn ActionFunc[T]) error {
	node, err := m.node(id)
	if err != nil {
		return err
	}
	node.OnEnter = append(node.OnEnter, fn)
	return nil
}

// OnUpdate appends an action run on every Update while id is active
func (m *Machine[T]) OnUpdate(id StateID, fn ActionFunc[T]) error {
	node, err := m.node(id)
	if err != nil {
		return err
	}
	node.OnUpdate = append(node.OnUpdate, fn)
	return nil
}

// AddTransition registers a guarded edge with its actions
func (m *Machine[T]) AddTransition(from, to StateID, guard GuardFunc[T], actions ...ActionFunc[T]) error {
	src, err := m.node(from)
	if err != nil {
		return err
	}
	if _, err := m.node(to); err != nil {
		return err
	}
	if from == to {
		return errors.Errorf("fsm: self transition on %s", src.Name)
	}
	src.Transitions = append(src.Transitions, Transition[T]{TargetID: to, Guard: guard, Actions: actions})
	return nil
}

// SetObserver installs a callback run after every completed transition
func (m *Machine[T]) SetObserver(fn ChangeFunc[T]) {
	m.observer = fn
}

// Init enters the initial state, running its OnEnter actions
func (m *Machine[T]) Init(ctx T, initial StateID) error {
	node, err := m.node(initial)
	if err != nil {
		return err
	}
	m.active = initial
	for _, fn := range node.OnEnter {
		fn(ctx)
	}
	return nil
}

// Update runs OnUpdate actions then fires the first transition whose guard
// holds. Returns true if a transition fired.
func (m *Machine[T]) Update(ctx T) bool {
	node, ok := m.nodes[m.active]
	if !ok {
		return false
	}

	for _, fn := range node.OnUpdate {
		fn(ctx)
	}

	for _, tr := range node.Transitions {
		if tr.Guard != nil && !tr.Guard(ctx) {
			continue
		}
		m.fire(ctx, node, tr)
		return true
	}
	return false
}

func (m *Machine[T]) fire(ctx T, from *Node[T], tr Transition[T]) {
	for _, fn := range tr.Actions {
		fn(ctx)
	}

	m.active = tr.TargetID
	target := m.nodes[tr.TargetID]
	for _, fn := range target.OnEnter {
		fn(ctx)
	}

	if m.observer != nil {
		m.observer(ctx, from.ID, target.ID)
	}
}

// Current returns the active state
func (m *Machine[T]) Current() StateID {
	return m.active
}

// StateName returns the registered name of id
func (m *Machine[T]) StateName(id StateID) string {
	if node, ok := m.nodes[id]; ok {
		return node.Name
	}
	return "none"
}

func (m *Machine[T]) node(id StateID) (*Node[T], error) {
	node, ok := m.nodes[id]
	if !ok {
		return nil, errors.Errorf("fsm: unknown state %d", id)
	}
	return node, nil
}
