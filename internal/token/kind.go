package token

// Kind represents the category of a schema token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the schema input.
	EOF

	// Ident represents an identifier token.
	Ident

	// KwBridge represents the 'bridge' keyword.
	KwBridge // bridge
	// KwImport represents the 'import' keyword.
	KwImport // import
	// KwAs represents the 'as' keyword.
	KwAs // as
	// KwStruct represents the 'struct' keyword.
	KwStruct // struct
	// KwEnum represents the 'enum' keyword.
	KwEnum // enum
	// KwExtern represents the 'extern' keyword.
	KwExtern // extern
	// KwType represents the 'type' keyword.
	KwType // type

	// StringLit represents a double-quoted string literal.
	StringLit
	// IntLit represents an integer literal.
	IntLit

	// At represents the '@' attribute marker.
	At // @
	// LParen represents '('.
	LParen // (
	// RParen represents ')'.
	RParen // )
	// LBrace represents '{'.
	LBrace // {
	// RBrace represents '}'.
	RBrace // }
	// LBracket represents '['.
	LBracket // [
	// RBracket represents ']'.
	RBracket // ]
	// Colon represents ':'.
	Colon // :
	// Comma represents ','.
	Comma // ,
	// Semicolon represents ';'.
	Semicolon // ;
)

var kindNames = [...]string{
	Invalid:   "invalid",
	EOF:       "end of file",
	Ident:     "identifier",
	KwBridge:  "'bridge'",
	KwImport:  "'import'",
	KwAs:      "'as'",
	KwStruct:  "'struct'",
	KwEnum:    "'enum'",
	KwExtern:  "'extern'",
	KwType:    "'type'",
	StringLit: "string literal",
	IntLit:    "integer literal",
	At:        "'@'",
	LParen:    "'('",
	RParen:    "')'",
	LBrace:    "'{'",
	RBrace:    "'}'",
	LBracket:  "'['",
	RBracket:  "']'",
	Colon:     "':'",
	Comma:     "','",
	Semicolon: "';'",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}
