package parser

import (
	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/lexer"
)

func (p *Parser) parseValDecl() ast.Decl {
	pos := p.pos()
	p.advance() // 'val'
	rec := p.accept(lexer.KW_REC)
	inst := p.accept(lexer.KW_INST)

	var binds []ast.Binding
	binds = append(binds, p.parseOneValBind())
	for p.curIs(lexer.KW_AND) {
		p.advance()
		binds = append(binds, p.parseOneValBind())
	}
	return &ast.ValDecl{Rec: rec, Inst: inst, Binds: binds, Pos: pos}
}

func (p *Parser) parseOneValBind() ast.Binding {
	pos := p.pos()
	pat := p.parsePattern()
	p.expect(lexer.EQUALS)
	body := p.parseExpr(precLowest)
	return ast.Binding{Pat: pat, Body: body, Pos: pos}
}

// parseFunDecl parses `fun name p1 p2 = e | name q1 q2 = e2 ...`, and any
// `and`-joined mutually recursive functions.
func (p *Parser) parseFunDecl() ast.Decl {
	pos := p.pos()
	p.advance() // 'fun'
	return p.parseFunArms(pos)
}

func (p *Parser) parseFunArms(pos ast.Pos) ast.Decl {
	name, arm := p.parseFunArm()
	fd := &ast.FunDecl{Name: name, Arms: []ast.FunArm{arm}, Pos: pos}
	for p.curIs(lexer.PIPE) {
		save := p.cur
		p.advance()
		n2, a2 := p.parseFunArm()
		if n2 != name {
			// A different name after `|` starts a new, `and`-joined
			// function clause set in some dialects; since the Language
			// requires same-name arms under `|`, treat a name mismatch as
			// an error but keep the arm to avoid losing input.
			p.errorf("expected further clauses of %q, got %q", name, n2)
			_ = save
		}
		fd.Arms = append(fd.Arms, a2)
	}
	return fd
}

func (p *Parser) parseFunArm() (string, ast.FunArm) {
	pos := p.pos()
	name := p.expect(lexer.IDENT).Literal
	var pats []ast.Pattern
	for canStartPatternAtom(p.cur.Type) {
		pats = append(pats, p.parsePatternAtom())
	}
	p.expect(lexer.EQUALS)
	body := p.parseExpr(precLowest)
	return name, ast.FunArm{ArgPats: pats, Body: body, Pos: pos}
}

func (p *Parser) parseDatatypeDecl() ast.Decl {
	pos := p.pos()
	p.advance() // 'datatype'
	var binds []ast.DatatypeBind
	binds = append(binds, p.parseOneDatatypeBind())
	for p.curIs(lexer.KW_AND) {
		p.advance()
		binds = append(binds, p.parseOneDatatypeBind())
	}
	return &ast.DatatypeDecl{Binds: binds, Pos: pos}
}

func (p *Parser) parseOneDatatypeBind() ast.DatatypeBind {
	tyvars := p.parseOptionalTyVarList()
	name := p.expect(lexer.IDENT).Literal
	p.expect(lexer.EQUALS)
	p.accept(lexer.PIPE)
	var ctors []ast.CtorDef
	ctors = append(ctors, p.parseCtorDef())
	for p.curIs(lexer.PIPE) {
		p.advance()
		ctors = append(ctors, p.parseCtorDef())
	}
	return ast.DatatypeBind{Name: name, TyVars: tyvars, Ctors: ctors}
}

func (p *Parser) parseCtorDef() ast.CtorDef {
	name := p.expect(lexer.IDENT).Literal
	if name == "of" {
		p.errorf("expected constructor name")
	}
	if p.accept(lexer.KW_OF) {
		ty := p.parseType()
		return ast.CtorDef{Name: name, Payload: ty}
	}
	return ast.CtorDef{Name: name}
}

// parseOptionalTyVarList parses a leading `'a`, `('a, 'b)`, or nothing
// before a type/datatype binding's name.
func (p *Parser) parseOptionalTyVarList() []string {
	if p.curIs(lexer.TYVAR) {
		name := p.cur.Literal
		p.advance()
		return []string{name}
	}
	if p.curIs(lexer.LPAREN) && p.peekIs(lexer.TYVAR) {
		p.advance()
		var vars []string
		vars = append(vars, p.expect(lexer.TYVAR).Literal)
		for p.curIs(lexer.COMMA) {
			p.advance()
			vars = append(vars, p.expect(lexer.TYVAR).Literal)
		}
		p.expect(lexer.RPAREN)
		return vars
	}
	return nil
}

func (p *Parser) parseTypeDecl() ast.Decl {
	pos := p.pos()
	p.advance() // 'type'
	var binds []ast.TypeBind
	binds = append(binds, p.parseOneTypeBind())
	for p.curIs(lexer.KW_AND) {
		p.advance()
		binds = append(binds, p.parseOneTypeBind())
	}
	return &ast.TypeDecl{Binds: binds, Pos: pos}
}

func (p *Parser) parseOneTypeBind() ast.TypeBind {
	tyvars := p.parseOptionalTyVarList()
	name := p.expect(lexer.IDENT).Literal
	p.expect(lexer.EQUALS)
	ty := p.parseType()
	return ast.TypeBind{Name: name, TyVars: tyvars, Type: ty}
}

func (p *Parser) parseOverDecl() ast.Decl {
	pos := p.pos()
	p.advance() // 'over'
	name := p.expect(lexer.IDENT).Literal
	return &ast.OverDecl{Name: name, Pos: pos}
}
