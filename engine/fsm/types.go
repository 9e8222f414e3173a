package fsm

// StateID is a unique identifier for a node
type StateID int

// StateNone marks an uninitialized machine
const StateNone StateID = -1

// Node represents a state
type Node[T any] struct {
	ID   StateID
	Name string

	// Lifecycle Actions
	OnEnter  []ActionFunc[T]
	OnUpdate []ActionFunc[T]

	// Transitions in evaluation priority order
	Transitions []Transition[T]
}

// Transition defines a guarded edge evaluated once per Update
type Transition[T any] struct {
	TargetID StateID
	Guard    GuardFunc[T] // nil = Always true
	Actions  []ActionFunc[T]
}

// GuardFunc returns true if the transition should occur
type GuardFunc[T any] func(ctx T) bool

// ActionFunc executes a side effect
type ActionFunc[T any] func(ctx T)

// ChangeFunc observes completed transitions
type ChangeFunc[T any] func(ctx T, from, to StateID)
