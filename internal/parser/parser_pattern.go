package parser

import (
	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/lexer"
)

// parsePattern parses a full pattern, handling `::` (right-assoc, lowest
// pattern precedence) and `as`-binding above the atomic forms.
func (p *Parser) parsePattern() ast.Pattern {
	left := p.parsePatternAtom()
	if p.curIs(lexer.CONS) {
		pos := p.pos()
		p.advance()
		right := p.parsePattern()
		return &ast.ConsPat{Head: left, Tail: right, Pos: pos}
	}
	if p.curIs(lexer.KW_AS) {
		pos := p.pos()
		p.advance()
		id, ok := left.(*ast.IdPat)
		if !ok {
			p.errorf("left side of 'as' pattern must be a simple identifier")
			return left
		}
		inner := p.parsePattern()
		return &ast.AsPat{Name: id.Name, Pat: inner, Pos: pos}
	}
	if p.curIs(lexer.COLON) {
		pos := p.pos()
		p.advance()
		ty := p.parseType()
		return &ast.AnnotatedPat{Pat: left, Type: ty, Pos: pos}
	}
	return left
}

func (p *Parser) parsePatternAtom() ast.Pattern {
	pos := p.pos()
	switch p.cur.Type {
	case lexer.UNDERSCORE:
		p.advance()
		return &ast.Wild{Pos: pos}
	case lexer.TILDE:
		p.advance()
		if p.curIs(lexer.INT) {
			v := parseIntLiteral("-" + p.cur.Literal)
			p.advance()
			return &ast.LitPat{Kind: ast.LitInt, Value: v, Pos: pos}
		}
		p.errorf("expected numeric literal after '~' in pattern")
		return &ast.Wild{Pos: pos}
	case lexer.INT:
		v := parseIntLiteral(p.cur.Literal)
		p.advance()
		return &ast.LitPat{Kind: ast.LitInt, Value: v, Pos: pos}
	case lexer.REAL:
		v := parseRealLiteral(p.cur.Literal)
		p.advance()
		return &ast.LitPat{Kind: ast.LitReal, Value: v, Pos: pos}
	case lexer.STRING:
		v := p.cur.Literal
		p.advance()
		return &ast.LitPat{Kind: ast.LitString, Value: v, Pos: pos}
	case lexer.CHAR:
		lit := p.cur.Literal
		p.advance()
		var r rune
		for _, c := range lit {
			r = c
			break
		}
		return &ast.LitPat{Kind: ast.LitChar, Value: r, Pos: pos}
	case lexer.KW_TRUE:
		p.advance()
		return &ast.LitPat{Kind: ast.LitBool, Value: true, Pos: pos}
	case lexer.KW_FALSE:
		p.advance()
		return &ast.LitPat{Kind: ast.LitBool, Value: false, Pos: pos}
	case lexer.IDENT:
		name := p.cur.Literal
		p.advance()
		if isCtorName(name) && canStartPatternAtom(p.cur.Type) {
			arg := p.parsePatternAtom()
			return &ast.ConPat{Ctor: name, Arg: arg, Pos: pos}
		}
		if isCtorName(name) {
			return &ast.ConPat{Ctor: name, Pos: pos}
		}
		return &ast.IdPat{Name: name, Pos: pos}
	case lexer.LBRACKET:
		return p.parseListPat(pos)
	case lexer.LBRACE:
		return p.parseRecordPat(pos)
	case lexer.LPAREN:
		return p.parseParenOrTuplePat(pos)
	default:
		p.errorf("unexpected token %q in pattern", p.cur.Literal)
		p.advance()
		return &ast.Wild{Pos: pos}
	}
}

// isCtorName follows the Language convention that constructor names begin
// with an uppercase letter.
func isCtorName(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	return c >= 'A' && c <= 'Z'
}

func canStartPatternAtom(t lexer.Type) bool {
	switch t {
	case lexer.UNDERSCORE, lexer.INT, lexer.REAL, lexer.STRING, lexer.CHAR,
		lexer.IDENT, lexer.LBRACKET, lexer.LBRACE, lexer.LPAREN,
		lexer.KW_TRUE, lexer.KW_FALSE, lexer.TILDE:
		return true
	}
	return false
}

func (p *Parser) parseListPat(pos ast.Pos) ast.Pattern {
	p.advance()
	var elems []ast.Pattern
	for !p.curIs(lexer.RBRACKET) && !p.curIs(lexer.EOF) {
		elems = append(elems, p.parsePattern())
		if !p.curIs(lexer.RBRACKET) {
			p.expect(lexer.COMMA)
		}
	}
	p.expect(lexer.RBRACKET)
	return &ast.ListPat{Elems: elems, Pos: pos}
}

func (p *Parser) parseRecordPat(pos ast.Pos) ast.Pattern {
	p.advance()
	rp := &ast.RecordPat{Pos: pos}
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.ELLIPSIS) {
			p.advance()
			rp.Ellipsis = true
			break
		}
		label := p.parseFieldLabel()
		var fp ast.Pattern
		if p.curIs(lexer.EQUALS) {
			p.advance()
			fp = p.parsePattern()
		} else {
			fp = &ast.IdPat{Name: label, Pos: p.pos()}
		}
		rp.Fields = append(rp.Fields, ast.FieldPat{Label: label, Pat: fp})
		if !p.curIs(lexer.RBRACE) {
			p.expect(lexer.COMMA)
		}
	}
	p.expect(lexer.RBRACE)
	return rp
}

func (p *Parser) parseParenOrTuplePat(pos ast.Pos) ast.Pattern {
	p.advance()
	if p.curIs(lexer.RPAREN) {
		p.advance()
		return &ast.LitPat{Kind: ast.LitUnit, Pos: pos}
	}
	first := p.parsePattern()
	if p.curIs(lexer.COMMA) {
		elems := []ast.Pattern{first}
		for p.curIs(lexer.COMMA) {
			p.advance()
			elems = append(elems, p.parsePattern())
		}
		p.expect(lexer.RPAREN)
		return &ast.TuplePat{Elems: elems, Pos: pos}
	}
	p.expect(lexer.RPAREN)
	return first
}
