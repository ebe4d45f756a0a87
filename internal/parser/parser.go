// Package parser turns a token stream into an ast.File.
//
// Recovery model: every declaration parser either succeeds or reports and
// returns false; the top loop then resyncs to the next declaration starter,
// so one malformed declaration never hides the rest of the file.
package parser

import (
	"slices"

	"ferry/internal/ast"
	"ferry/internal/diag"
	"ferry/internal/lexer"
	"ferry/internal/source"
	"ferry/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Parser — состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	file     *source.File
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

// ParseFile разбирает один схемный файл. Лексические ошибки идут в тот же
// Reporter, что и синтаксические.
func ParseFile(file *source.File, opts Options) *ast.File {
	lx := lexer.New(file, lexer.Options{Reporter: opts.Reporter})
	p := Parser{
		lx:   lx,
		file: file,
		opts: opts,
	}
	return p.parseFile()
}

func (p *Parser) parseFile() *ast.File {
	out := &ast.File{FileID: p.file.ID}

	// 'bridge <name>' первым, до всех деклараций
	if name, ok := p.parseBridgeHeader(); ok {
		out.Bridge = name
	}

	for p.at(token.KwImport) {
		if imp, ok := p.parseImport(); ok {
			out.Imports = append(out.Imports, imp)
		} else {
			p.resyncTop()
		}
	}

	for !p.at(token.EOF) {
		decl, ok := p.parseDecl()
		if !ok {
			p.resyncTop()
			continue
		}
		out.Decls = append(out.Decls, decl)
		p.eatSemicolons()
	}
	return out
}

func (p *Parser) parseBridgeHeader() (ast.Ident, bool) {
	if _, ok := p.expect(token.KwBridge, diag.SynExpectBridgeHeader,
		"schema must start with 'bridge <name>'"); !ok {
		return ast.Ident{}, false
	}
	tok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected bridge module name")
	if !ok {
		return ast.Ident{}, false
	}
	p.eatSemicolons()
	return ast.Ident{Name: tok.Text, Span: tok.Span}, true
}

func (p *Parser) parseImport() (ast.Import, bool) {
	start := p.advance() // 'import'

	pathTok, ok := p.expect(token.StringLit, diag.SynExpectString, "expected import path string")
	if !ok {
		return ast.Import{}, false
	}
	imp := ast.Import{
		Path: ast.StringLit{Value: unquote(pathTok.Text), Span: pathTok.Span},
		Span: start.Span.Cover(pathTok.Span),
	}

	if p.at(token.KwAs) {
		p.advance()
		aliasTok, ok := p.expect(token.Ident, diag.SynExpectImportAlias, "expected identifier after 'as'")
		if !ok {
			return ast.Import{}, false
		}
		imp.Alias = ast.Ident{Name: aliasTok.Text, Span: aliasTok.Span}
		imp.Span = imp.Span.Cover(aliasTok.Span)
	}
	p.eatSemicolons()
	return imp, true
}

// parseDecl выбирает по первому токену нужный распознаватель top-level конструкции.
func (p *Parser) parseDecl() (ast.Decl, bool) {
	attrs, ok := p.parseAttrs()
	if !ok {
		return nil, false
	}

	switch p.lx.Peek().Kind {
	case token.KwStruct:
		return p.parseStruct(attrs)
	case token.KwEnum:
		return p.parseEnum(attrs)
	case token.KwExtern:
		return p.parseExternType(attrs)
	default:
		p.err(diag.SynExpectTopLevel, "expected struct, enum or extern declaration")
		return nil, false
	}
}

// resyncTop — восстановление после ошибки на верхнем уровне:
// прокручиваем до стартового токена следующей декларации или EOF.
func (p *Parser) resyncTop() {
	p.resyncUntil(token.Semicolon, token.KwStruct, token.KwEnum, token.KwExtern, token.At, token.KwImport)
	p.eatSemicolons()
}

func (p *Parser) resyncUntil(kinds ...token.Kind) {
	for {
		k := p.lx.Peek().Kind
		if k == token.EOF || slices.Contains(kinds, k) {
			return
		}
		p.advance()
	}
}

func (p *Parser) eatSemicolons() {
	for p.at(token.Semicolon) {
		p.advance()
	}
}
