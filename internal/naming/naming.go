// Package naming renders the generated identifiers of a bridge module.
//
// Every generated name exists in two worlds at once. Linker-visible
// spellings (C typedefs, exported symbols, the names Swift sees through
// the header) use the dollar convention: __ferry__$Point$new. Go
// identifiers cannot carry '$', so the same name renders as an exported
// ident: Ferry_Point_new. Both renderings are produced from the same
// part list, so the pairing never drifts.
package naming

import "strings"

// DefaultPrefix is used when a project does not configure its own.
const DefaultPrefix = "ferry"

// Scheme renders generated names for one configured prefix.
type Scheme struct {
	prefix string
}

// NewScheme builds a scheme for the prefix. Anything that is not a
// plain lowercase identifier falls back to DefaultPrefix.
func NewScheme(prefix string) Scheme {
	if !validPrefix(prefix) {
		prefix = DefaultPrefix
	}
	return Scheme{prefix: prefix}
}

// Default returns the scheme for DefaultPrefix.
func Default() Scheme {
	return Scheme{prefix: DefaultPrefix}
}

// Prefix returns the configured prefix.
func (s Scheme) Prefix() string {
	if s.prefix == "" {
		return DefaultPrefix
	}
	return s.prefix
}

// CSymbol joins the parts into the linker-visible spelling:
//
//	CSymbol("Point")               __ferry__$Point
//	CSymbol("Vec_Color", "new")    __ferry__$Vec_Color$new
//	CSymbol("tuple", "int32string")  __ferry__$tuple$int32string
func (s Scheme) CSymbol(parts ...string) string {
	var sb strings.Builder
	sb.WriteString("__")
	sb.WriteString(s.Prefix())
	sb.WriteString("__")
	for _, p := range parts {
		sb.WriteByte('$')
		sb.WriteString(p)
	}
	return sb.String()
}

// GoIdent joins the same parts into the exported Go spelling:
//
//	GoIdent("Point")               Ferry_Point
//	GoIdent("Vec_Color", "new")    Ferry_Vec_Color_new
//	GoIdent("tuple", "int32string")  Ferry_tuple_int32string
func (s Scheme) GoIdent(parts ...string) string {
	var sb strings.Builder
	sb.WriteString(titleCase(s.Prefix()))
	for _, p := range parts {
		sb.WriteByte('_')
		sb.WriteString(p)
	}
	return sb.String()
}

// OptionName names the nullable wrapper of a bridged type.
func (s Scheme) OptionName(name string) []string {
	return []string{"Option", name}
}

// VecName names the collection support family of a bridged type.
func (s Scheme) VecName(name string) string {
	return "Vec_" + name
}

// TupleName names a synthesized tuple by its mangled element suffix.
func (s Scheme) TupleName(suffix string) []string {
	return []string{"tuple", suffix}
}

// ValidPrefix reports whether prefix can be used as configured. A valid
// prefix is a nonempty lowercase ASCII identifier, digits allowed after
// the first byte.
func ValidPrefix(prefix string) bool {
	return validPrefix(prefix)
}

func titleCase(p string) string {
	if p == "" {
		return p
	}
	if p[0] >= 'a' && p[0] <= 'z' {
		return string(p[0]-'a'+'A') + p[1:]
	}
	return p
}

func validPrefix(p string) bool {
	if p == "" {
		return false
	}
	for i := 0; i < len(p); i++ {
		c := p[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
