// Package token defines lexical token kinds for ferry schema files.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Attributes are lexed as '@' (Kind: At) + Ident; no per-attribute token kinds.
//   - Comments and whitespace are skipped by the lexer and never appear in the
//     token stream.
//   - Built-in type names (Int32, Text, Float64, ...) are identifiers.
//     They are recognized by the resolver, not the lexer.
package token
