package steno

// Action selects how a fragment's boundary chord merges into the current one.
type Action int

const (
	Add Action = iota
	Subtract
)

func (a Action) String() string {
	if a == Subtract {
		return "subtract"
	}
	return "add"
}

// Side is a mixin namespace: names that resolve to left-bank or
// right-bank keys.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// SideChange is the namespace switch a mixin causes once it is referenced.
type SideChange int

const (
	NoChange SideChange = iota
	ToLeft
	ToRight
)

// Apply returns the side that is active after the change.
func (c SideChange) Apply(s Side) Side {
	switch c {
	case ToLeft:
		return Left
	case ToRight:
		return Right
	default:
		return s
	}
}

func (c SideChange) String() string {
	switch c {
	case ToLeft:
		return "left"
	case ToRight:
		return "right"
	default:
		return "none"
	}
}
