package layout

import (
	"fmt"
	"strings"
)

type ErrorKind uint8

const (
	// ErrRecursive marks a value type that contains itself and so has
	// no finite size.
	ErrRecursive ErrorKind = iota + 1
	// ErrUnresolved marks a named type with no registry entry.
	ErrUnresolved
	// ErrExternal marks a type declared in another module; its layout
	// is owned by that module and unknown here.
	ErrExternal
)

// Error reports why a layout could not be computed. Key is the
// canonical key of the type the query started from; Cycle, when set,
// lists the keys along the recursion back to it.
type Error struct {
	Kind  ErrorKind
	Key   string
	Cycle []string
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrRecursive:
		if len(e.Cycle) == 0 {
			return fmt.Sprintf("recursive value type %s has no finite layout", e.Key)
		}
		return fmt.Sprintf("recursive value type has no finite layout (cycle: %s)", strings.Join(e.Cycle, " -> "))
	case ErrUnresolved:
		return fmt.Sprintf("layout of unresolved type %q", e.Key)
	case ErrExternal:
		return fmt.Sprintf("layout of %s is owned by its declaring module", e.Key)
	default:
		return fmt.Sprintf("layout error kind=%d (%s)", e.Kind, e.Key)
	}
}
