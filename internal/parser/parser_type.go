package parser

import (
	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/lexer"
)

// parseType parses a full type expression: `ty1 -> ty2` (right-assoc),
// built from tuple types `ty1 * ty2`, built from composite/atomic types.
func (p *Parser) parseType() ast.TypeExpr {
	left := p.parseTupleType()
	if p.curIs(lexer.ARROW) {
		pos := p.pos()
		p.advance()
		right := p.parseType()
		return &ast.FnType{Param: left, Result: right, Pos: pos}
	}
	return left
}

func (p *Parser) parseTupleType() ast.TypeExpr {
	first := p.parseCompositeType()
	if !p.curIs(lexer.STAR) {
		return first
	}
	pos := first.Position()
	elems := []ast.TypeExpr{first}
	for p.curIs(lexer.STAR) {
		p.advance()
		elems = append(elems, p.parseCompositeType())
	}
	return &ast.TupleType{Elems: elems, Pos: pos}
}

// parseCompositeType handles postfix type constructors: `ty list`,
// `ty bag`, `ty vector`, or a general `ty name` / `(ty,...) name`
// application, all of which are left-associative suffix forms.
func (p *Parser) parseCompositeType() ast.TypeExpr {
	t := p.parseAtomType()
	for p.curIs(lexer.IDENT) {
		name := p.cur.Literal
		pos := p.pos()
		switch name {
		case "list":
			p.advance()
			t = &ast.CompositeType{Elem: t, Kind: ast.CompositeList, Pos: pos}
		case "bag":
			p.advance()
			t = &ast.CompositeType{Elem: t, Kind: ast.CompositeBag, Pos: pos}
		case "vector":
			p.advance()
			t = &ast.CompositeType{Elem: t, Kind: ast.CompositeVector, Pos: pos}
		default:
			p.advance()
			t = &ast.NamedType{Args: []ast.TypeExpr{t}, Name: name, Pos: pos}
		}
	}
	return t
}

func (p *Parser) parseAtomType() ast.TypeExpr {
	pos := p.pos()
	switch p.cur.Type {
	case lexer.TYVAR:
		name := p.cur.Literal
		p.advance()
		return &ast.TyVar{Name: name, Pos: pos}
	case lexer.IDENT:
		name := p.cur.Literal
		p.advance()
		return &ast.NamedType{Name: name, Pos: pos}
	case lexer.KW_TYPEOF:
		p.advance()
		e := p.parseExpr(precLowest)
		return &ast.TypeOf{Expr: e, Pos: pos}
	case lexer.LBRACE:
		return p.parseRecordType(pos)
	case lexer.LPAREN:
		p.advance()
		first := p.parseType()
		if p.curIs(lexer.COMMA) {
			args := []ast.TypeExpr{first}
			for p.curIs(lexer.COMMA) {
				p.advance()
				args = append(args, p.parseType())
			}
			p.expect(lexer.RPAREN)
			name := p.expect(lexer.IDENT).Literal
			return &ast.NamedType{Args: args, Name: name, Pos: pos}
		}
		p.expect(lexer.RPAREN)
		return first
	default:
		p.errorf("unexpected token %q in type expression", p.cur.Literal)
		p.advance()
		return &ast.NamedType{Name: "?", Pos: pos}
	}
}

func (p *Parser) parseRecordType(pos ast.Pos) ast.TypeExpr {
	p.advance() // {
	rt := &ast.RecordType{Pos: pos}
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		label := p.parseFieldLabel()
		p.expect(lexer.COLON)
		ty := p.parseType()
		rt.Fields = append(rt.Fields, ast.RecordTypeField{Label: label, Type: ty})
		if !p.curIs(lexer.RBRACE) {
			p.expect(lexer.COMMA)
		}
	}
	p.expect(lexer.RBRACE)
	return rt
}
