package bridged

import "fmt"

// UnresolvedTypeError reports a named reference that matches no
// declaration in the registry. Generation aborts on it: emitting glue
// for an undefined type would surface the failure in three downstream
// compilers instead of one diagnostic here.
type UnresolvedTypeError struct {
	Name string
}

func (e *UnresolvedTypeError) Error() string {
	return fmt.Sprintf("unresolved type %q", e.Name)
}

// UnsupportedTypeError reports a type expression outside the
// bridgeable set.
type UnsupportedTypeError struct {
	Expr   string
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type %s: %s", e.Expr, e.Reason)
}
