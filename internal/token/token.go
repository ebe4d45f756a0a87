package token

import (
	"ferry/internal/source"
)

// Token represents a single schema token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsKeyword reports whether the token is a schema keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwBridge, KwImport, KwAs, KwStruct, KwEnum, KwExtern, KwType:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// StartsDecl reports whether the token can open a top-level declaration.
func (t Token) StartsDecl() bool {
	switch t.Kind {
	case KwStruct, KwEnum, KwExtern, At:
		return true
	default:
		return false
	}
}
