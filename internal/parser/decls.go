package parser

import (
	"ferry/internal/ast"
	"ferry/internal/diag"
	"ferry/internal/source"
	"ferry/internal/token"
)

// parseAttrs собирает ведущие '@attr' / '@attr("arg")' декларации.
func (p *Parser) parseAttrs() ([]ast.Attr, bool) {
	var attrs []ast.Attr
	for p.at(token.At) {
		atTok := p.advance()

		nameTok, ok := p.expect(token.Ident, diag.SynExpectAttrName, "expected attribute name after '@'")
		if !ok {
			return nil, false
		}
		attr := ast.Attr{
			Name: ast.Ident{Name: nameTok.Text, Span: nameTok.Span},
			Span: atTok.Span.Cover(nameTok.Span),
		}

		if p.at(token.LParen) {
			p.advance()
			argTok, ok := p.expect(token.StringLit, diag.SynExpectAttrArg, "expected string argument")
			if !ok {
				return nil, false
			}
			rp, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after attribute argument")
			if !ok {
				return nil, false
			}
			attr.Arg = &ast.StringLit{Value: unquote(argTok.Text), Span: argTok.Span}
			attr.Span = attr.Span.Cover(rp.Span)
		}
		attrs = append(attrs, attr)
	}
	return attrs, true
}

func (p *Parser) parseStruct(attrs []ast.Attr) (ast.Decl, bool) {
	start := p.advance() // 'struct'

	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected struct name")
	if !ok {
		return nil, false
	}
	decl := &ast.StructDecl{
		Attrs: attrs,
		Name:  ast.Ident{Name: nameTok.Text, Span: nameTok.Span},
		Span:  start.Span.Cover(nameTok.Span),
	}

	switch p.lx.Peek().Kind {
	case token.LBrace:
		p.advance()
		decl.HasBody = true
		fields, endSpan, ok := p.parseNamedFields()
		if !ok {
			return nil, false
		}
		decl.Fields = fields
		decl.Span = decl.Span.Cover(endSpan)

	case token.LParen:
		p.advance()
		elems, endSpan, ok := p.parseTypeList(token.RParen, diag.SynUnclosedParen)
		if !ok {
			return nil, false
		}
		if len(elems) == 0 {
			p.report(diag.SynExpectType, diag.SevError, endSpan, "tuple struct needs at least one element type")
			return nil, false
		}
		decl.Positional = elems
		decl.Span = decl.Span.Cover(endSpan)

	default:
		// unit struct: тела нет
	}
	return decl, true
}

// parseNamedFields разбирает '{ name: Type, ... }' начиная после '{'.
func (p *Parser) parseNamedFields() ([]ast.NamedField, source.Span, bool) {
	var fields []ast.NamedField
	for {
		if p.at(token.RBrace) {
			return fields, p.advance().Span, true
		}
		if p.at(token.EOF) {
			p.err(diag.SynUnclosedBrace, "expected '}' to close body")
			return nil, p.diagSpan(), false
		}

		nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected field name")
		if !ok {
			return nil, nameTok.Span, false
		}
		if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after field name"); !ok {
			return nil, nameTok.Span, false
		}
		fieldType, ok := p.parseType()
		if !ok {
			return nil, nameTok.Span, false
		}
		fields = append(fields, ast.NamedField{
			Name: ast.Ident{Name: nameTok.Text, Span: nameTok.Span},
			Type: fieldType,
			Span: nameTok.Span.Cover(fieldType.TypeSpan()),
		})

		if p.at(token.Comma) {
			p.advance()
			continue
		}
		rb, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected ',' or '}'")
		if !ok {
			return nil, rb.Span, false
		}
		return fields, rb.Span, true
	}
}

func (p *Parser) parseEnum(attrs []ast.Attr) (ast.Decl, bool) {
	start := p.advance() // 'enum'

	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected enum name")
	if !ok {
		return nil, false
	}
	decl := &ast.EnumDecl{
		Attrs: attrs,
		Name:  ast.Ident{Name: nameTok.Text, Span: nameTok.Span},
		Span:  start.Span.Cover(nameTok.Span),
	}

	// декларация без тела допустима только для @declared_in; решает resolver
	if !p.at(token.LBrace) {
		return decl, true
	}
	p.advance()

	for {
		if p.at(token.RBrace) {
			decl.Span = decl.Span.Cover(p.advance().Span)
			return decl, true
		}
		if p.at(token.EOF) {
			p.err(diag.SynUnclosedBrace, "expected '}' to close enum body")
			return nil, false
		}

		variant, ok := p.parseVariant()
		if !ok {
			return nil, false
		}
		decl.Variants = append(decl.Variants, variant)

		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if !p.at(token.RBrace) {
			p.err(diag.SynExpectVariant, "expected ',' or '}' after variant")
			return nil, false
		}
	}
}

func (p *Parser) parseVariant() (ast.Variant, bool) {
	nameTok, ok := p.expect(token.Ident, diag.SynExpectVariant, "expected variant name")
	if !ok {
		return ast.Variant{}, false
	}
	v := ast.Variant{
		Name: ast.Ident{Name: nameTok.Text, Span: nameTok.Span},
		Span: nameTok.Span,
	}

	switch p.lx.Peek().Kind {
	case token.LParen:
		p.advance()
		elems, endSpan, ok := p.parseTypeList(token.RParen, diag.SynUnclosedParen)
		if !ok {
			return ast.Variant{}, false
		}
		if len(elems) == 0 {
			p.report(diag.SynExpectType, diag.SevError, endSpan, "variant payload needs at least one type")
			return ast.Variant{}, false
		}
		v.Positional = elems
		v.HasBody = true
		v.Span = v.Span.Cover(endSpan)

	case token.LBrace:
		// именованный payload парсится, но движки его отвергают
		p.advance()
		fields, endSpan, ok := p.parseNamedFields()
		if !ok {
			return ast.Variant{}, false
		}
		v.Fields = fields
		v.HasBody = true
		v.Span = v.Span.Cover(endSpan)
	}
	return v, true
}

func (p *Parser) parseExternType(attrs []ast.Attr) (ast.Decl, bool) {
	start := p.advance() // 'extern'

	if _, ok := p.expect(token.KwType, diag.SynUnexpectedToken, "expected 'type' after 'extern'"); !ok {
		return nil, false
	}
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected extern type name")
	if !ok {
		return nil, false
	}
	return &ast.ExternTypeDecl{
		Attrs: attrs,
		Name:  ast.Ident{Name: nameTok.Text, Span: nameTok.Span},
		Span:  start.Span.Cover(nameTok.Span),
	}, true
}
