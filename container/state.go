package container

// State resolution state of one capability
type State int

const (
	// Unresolved no instance yet (also the state after a failed attempt)
	Unresolved State = iota
	// Resolving the constructor is running; re-entry means a cycle
	Resolving
	// Resolved the instance is cached for the lifetime of the container
	Resolved
)

// String returns the state name
func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}
