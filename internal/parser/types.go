package parser

import (
	"ferry/internal/ast"
	"ferry/internal/diag"
	"ferry/internal/source"
	"ferry/internal/token"
)

// parseType разбирает одно типовое выражение:
//
//	Ident            именованный тип или примитив
//	(T1, T2, ...)    кортеж, минимум два элемента
//	[T]              коллекция
func (p *Parser) parseType() (ast.TypeExpr, bool) {
	switch p.lx.Peek().Kind {
	case token.Ident:
		tok := p.advance()
		return &ast.NamedType{Name: ast.Ident{Name: tok.Text, Span: tok.Span}}, true

	case token.LParen:
		open := p.advance()
		elems, endSpan, ok := p.parseTypeList(token.RParen, diag.SynUnclosedParen)
		if !ok {
			return nil, false
		}
		full := open.Span.Cover(endSpan)
		if len(elems) < 2 {
			p.report(diag.SynTupleArity, diag.SevError, full, "tuple needs at least two element types")
			return nil, false
		}
		return &ast.TupleType{Elems: elems, Span: full}, true

	case token.LBracket:
		open := p.advance()
		elem, ok := p.parseType()
		if !ok {
			return nil, false
		}
		closeTok, ok := p.expect(token.RBracket, diag.SynUnclosedBrace, "expected ']' after element type")
		if !ok {
			return nil, false
		}
		return &ast.SliceType{Elem: elem, Span: open.Span.Cover(closeTok.Span)}, true

	default:
		p.err(diag.SynExpectType, "expected type")
		return nil, false
	}
}

// parseTypeList разбирает 'T1, T2, ...' до закрывающего токена (уже после
// открывающего). Допускает пустой список и хвостовую запятую.
func (p *Parser) parseTypeList(closing token.Kind, unclosedCode diag.Code) ([]ast.TypeExpr, source.Span, bool) {
	var elems []ast.TypeExpr
	for {
		if p.at(closing) {
			return elems, p.advance().Span, true
		}
		if p.at(token.EOF) {
			p.err(unclosedCode, "expected "+closing.String())
			return nil, p.diagSpan(), false
		}

		elem, ok := p.parseType()
		if !ok {
			return nil, p.diagSpan(), false
		}
		elems = append(elems, elem)

		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if !p.at(closing) {
			p.err(diag.SynUnexpectedToken, "expected ',' or "+closing.String())
			return nil, p.diagSpan(), false
		}
	}
}
