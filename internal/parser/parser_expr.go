package parser

import (
	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/lexer"
)

// canStartAtom reports whether t can begin an application argument, so the
// Pratt loop can distinguish juxtaposed application from a binary operator.
func canStartAtom(t lexer.Type) bool {
	switch t {
	case lexer.IDENT, lexer.INT, lexer.REAL, lexer.STRING, lexer.CHAR,
		lexer.LPAREN, lexer.LBRACE, lexer.LBRACKET, lexer.LABEL,
		lexer.KW_FN, lexer.KW_IF, lexer.KW_LET, lexer.KW_CASE,
		lexer.KW_FROM, lexer.KW_EXISTS, lexer.KW_FORALL,
		lexer.KW_TRUE, lexer.KW_FALSE, lexer.KW_NOT, lexer.TILDE,
		lexer.UNDERSCORE:
		return true
	}
	return false
}

func opLiteral(t lexer.Token) string {
	if t.Literal != "" {
		return t.Literal
	}
	return t.Type.String()
}

// parseExpr is the Pratt-style entry point; prec is the minimum binding
// power the result must have to be consumed by the caller.
func (p *Parser) parseExpr(prec int) ast.Expr {
	left := p.parseApplicand()

	for {
		if canStartAtom(p.cur.Type) && precApply > prec && !p.curStartsDecl() {
			arg := p.parseApplicand()
			left = &ast.Apply{Fn: left, Arg: arg, Pos: left.Position()}
			continue
		}
		if opPrec, ok := infixPrecedence[p.cur.Type]; ok && opPrec > prec {
			opTok := p.cur
			nextPrec := opPrec
			if !rightAssoc[opTok.Type] {
				nextPrec++
			}
			p.advance()
			if opTok.Type == lexer.KW_OVER {
				left = &ast.Aggregate{Fn: left, Over: p.parseExpr(nextPrec), Pos: left.Position()}
				continue
			}
			right := p.parseExpr(nextPrec)
			left = &ast.InfixCall{Op: opLiteral(opTok), Lhs: left, Rhs: right, Pos: left.Position()}
			continue
		}
		break
	}
	return left
}

// curStartsDecl guards against swallowing a following `in`/`end`/`of`
// keyword (which never starts an atom, so this is mostly a defensive
// no-op kept for clarity at call sites).
func (p *Parser) curStartsDecl() bool { return false }

// parseApplicand parses one application argument: a prefix term followed
// by any number of `.field` suffixes, but no further juxtaposed
// application or infix operators (those are handled by the caller loop).
func (p *Parser) parseApplicand() ast.Expr {
	e := p.parsePrefix()
	for p.curIs(lexer.DOT) {
		pos := p.pos()
		p.advance()
		label := p.expect(lexer.IDENT).Literal
		e = &ast.Apply{Fn: &ast.RecordSel{Label: label, Pos: pos}, Arg: e, Pos: pos}
	}
	return e
}

func (p *Parser) parsePrefix() ast.Expr {
	pos := p.pos()
	switch p.cur.Type {
	case lexer.TILDE:
		p.advance()
		return &ast.UnaryOp{Op: "~", Operand: p.parseApplicand(), Pos: pos}
	case lexer.KW_NOT:
		p.advance()
		return &ast.UnaryOp{Op: "not", Operand: p.parseApplicand(), Pos: pos}
	case lexer.INT:
		lit := p.cur.Literal
		p.advance()
		return &ast.Lit{Kind: ast.LitInt, Value: parseIntLiteral(lit), Pos: pos}
	case lexer.REAL:
		lit := p.cur.Literal
		p.advance()
		return &ast.Lit{Kind: ast.LitReal, Value: parseRealLiteral(lit), Pos: pos}
	case lexer.STRING:
		lit := p.cur.Literal
		p.advance()
		return &ast.Lit{Kind: ast.LitString, Value: lit, Pos: pos}
	case lexer.CHAR:
		lit := p.cur.Literal
		p.advance()
		var r rune
		for _, c := range lit {
			r = c
			break
		}
		return &ast.Lit{Kind: ast.LitChar, Value: r, Pos: pos}
	case lexer.KW_TRUE:
		p.advance()
		return &ast.Lit{Kind: ast.LitBool, Value: true, Pos: pos}
	case lexer.KW_FALSE:
		p.advance()
		return &ast.Lit{Kind: ast.LitBool, Value: false, Pos: pos}
	case lexer.LABEL:
		lit := p.cur.Literal
		p.advance()
		return &ast.RecordSel{Label: lit, Pos: pos}
	case lexer.IDENT:
		name := p.cur.Literal
		p.advance()
		return &ast.Id{Name: name, Pos: pos}
	case lexer.UNDERSCORE:
		p.advance()
		return &ast.Id{Name: "_", Pos: pos}
	case lexer.KW_FN:
		return p.parseFn(pos)
	case lexer.KW_IF:
		return p.parseIf(pos)
	case lexer.KW_LET:
		return p.parseLet(pos)
	case lexer.KW_CASE:
		return p.parseCase(pos)
	case lexer.KW_FROM:
		return p.parseFrom(pos)
	case lexer.KW_EXISTS:
		return p.parseExists(pos)
	case lexer.KW_FORALL:
		return p.parseForall(pos)
	case lexer.LBRACKET:
		return p.parseListLit(pos)
	case lexer.LBRACE:
		return p.parseRecordLit(pos)
	case lexer.LPAREN:
		return p.parseParenOrTuple(pos)
	default:
		p.errorf("unexpected token %q in expression", p.cur.Literal)
		p.advance()
		return &ast.Lit{Kind: ast.LitUnit, Pos: pos}
	}
}

func (p *Parser) parseFn(pos ast.Pos) ast.Expr {
	p.advance() // consume 'fn'
	var matches []ast.Match
	matches = append(matches, p.parseMatchArm())
	for p.curIs(lexer.PIPE) {
		p.advance()
		matches = append(matches, p.parseMatchArm())
	}
	return &ast.Fn{Matches: matches, Pos: pos}
}

func (p *Parser) parseMatchArm() ast.Match {
	pat := p.parsePattern()
	p.expect(lexer.FARROW)
	body := p.parseExpr(precLowest)
	return ast.Match{Pat: pat, Body: body}
}

func (p *Parser) parseIf(pos ast.Pos) ast.Expr {
	p.advance()
	cond := p.parseExpr(precLowest)
	p.expect(lexer.KW_THEN)
	then := p.parseExpr(precLowest)
	p.expect(lexer.KW_ELSE)
	els := p.parseExpr(precLowest)
	return &ast.If{Cond: cond, Then: then, Else: els, Pos: pos}
}

func (p *Parser) parseLet(pos ast.Pos) ast.Expr {
	p.advance()
	var decls []ast.Decl
	for !p.curIs(lexer.KW_IN) && !p.curIs(lexer.EOF) {
		d := p.parseTopDecl()
		if d != nil {
			decls = append(decls, d)
		}
		if p.curIs(lexer.SEMI) {
			p.advance()
		}
	}
	p.expect(lexer.KW_IN)
	body := p.parseExpr(precLowest)
	p.expect(lexer.KW_END)
	return &ast.Let{Decls: decls, Body: body, Pos: pos}
}

func (p *Parser) parseCase(pos ast.Pos) ast.Expr {
	p.advance()
	scrut := p.parseExpr(precLowest)
	p.expect(lexer.KW_OF)
	p.accept(lexer.PIPE)
	var matches []ast.Match
	matches = append(matches, p.parseMatchArm())
	for p.curIs(lexer.PIPE) {
		p.advance()
		matches = append(matches, p.parseMatchArm())
	}
	return &ast.Case{Scrutinee: scrut, Matches: matches, Pos: pos}
}

func (p *Parser) parseListLit(pos ast.Pos) ast.Expr {
	p.advance() // [
	var elems []ast.Expr
	for !p.curIs(lexer.RBRACKET) && !p.curIs(lexer.EOF) {
		elems = append(elems, p.parseExpr(precLowest))
		if !p.curIs(lexer.RBRACKET) {
			p.expect(lexer.COMMA)
		}
	}
	p.expect(lexer.RBRACKET)
	return &ast.List{Elems: elems, Pos: pos}
}

func (p *Parser) parseRecordLit(pos ast.Pos) ast.Expr {
	p.advance() // {
	rec := &ast.Record{Pos: pos}
	// Disambiguate `{e with f=v,...}` from `{f=v,...}`: an identifier or
	// parenthesized expression followed by `with` is a functional update.
	if !p.curIs(lexer.RBRACE) && !(p.curIs(lexer.IDENT) && p.peekIs(lexer.EQUALS)) && !(p.curIs(lexer.LABEL) && p.peekIs(lexer.EQUALS)) {
		base := p.parseExpr(precLowest)
		if p.curIs(lexer.KW_WITH) {
			p.advance()
			rec.With = base
		} else {
			// A bare expression without `with` is a parse error in a
			// record literal; report and recover by treating it as the
			// base of an implicit update to avoid cascading failures.
			p.errorf("expected 'with' after record-update base expression")
			rec.With = base
		}
	}
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		label := p.parseFieldLabel()
		p.expect(lexer.EQUALS)
		val := p.parseExpr(precLowest)
		rec.Fields = append(rec.Fields, ast.RecordField{Label: label, Value: val})
		if !p.curIs(lexer.RBRACE) {
			p.expect(lexer.COMMA)
		}
	}
	p.expect(lexer.RBRACE)
	return rec
}

func (p *Parser) parseFieldLabel() string {
	if p.curIs(lexer.LABEL) {
		lit := p.cur.Literal
		p.advance()
		return lit
	}
	tok := p.expect(lexer.IDENT)
	return tok.Literal
}

func (p *Parser) parseParenOrTuple(pos ast.Pos) ast.Expr {
	p.advance() // (
	if p.curIs(lexer.RPAREN) {
		p.advance()
		return &ast.Lit{Kind: ast.LitUnit, Pos: pos}
	}
	first := p.parseExpr(precLowest)
	if p.curIs(lexer.COLON) {
		p.advance()
		ty := p.parseType()
		p.expect(lexer.RPAREN)
		return &ast.Annotated{Expr: first, Type: ty, Pos: pos}
	}
	if p.curIs(lexer.COMMA) {
		elems := []ast.Expr{first}
		for p.curIs(lexer.COMMA) {
			p.advance()
			elems = append(elems, p.parseExpr(precLowest))
		}
		p.expect(lexer.RPAREN)
		return &ast.Tuple{Elems: elems, Pos: pos}
	}
	p.expect(lexer.RPAREN)
	return first
}
