package gen

import "fmt"

// ShapeError reports a declaration shape generation cannot express.
// Unsupported shapes abort the whole run; emitting a best guess for
// one of three coordinated artifacts would be worse than stopping.
type ShapeError struct {
	TypeName string
	Detail   string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unsupported shape in %s: %s", e.TypeName, e.Detail)
}

// ArmCountError reports a conversion set that lost a variant. The
// completeness check exists so a variant without a matching arm fails
// the build instead of silently dropping data.
type ArmCountError struct {
	Enum     string
	Arms     int
	Variants int
}

func (e *ArmCountError) Error() string {
	return fmt.Sprintf("enum %s: %d conversion arms for %d variants", e.Enum, e.Arms, e.Variants)
}
