package datalog

import "fmt"

// parser consumes a pre-scanned token stream. Variables in term position
// are written as bare identifiers; constants are quoted strings, numeric
// literals, or `true`/`false` — there is no bare symbolic-constant form,
// which keeps "is this term a variable or a 0-arity constant" unambiguous
// without a symbol table.
type parser struct {
	toks []token
	pos  int
	file string
}

// Parse scans and parses a Datalog source unit.
func Parse(src, file string) (*Program, error) {
	lx := newLexer(src, file)
	var toks []token
	for {
		t, err := lx.next()
		if err != nil {
			le := err.(*lexError)
			return nil, &ParseError{Pos: le.pos, Msg: le.msg}
		}
		toks = append(toks, t)
		if t.kind == tokEOF {
			break
		}
	}
	p := &parser{toks: toks, file: file}
	return p.parseProgram()
}

// ParseError is a syntax error in a Datalog source unit.
type ParseError struct {
	Pos Pos
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d.%d: %s", e.Pos.File, e.Pos.Line, e.Pos.Col, e.Msg)
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) peekN(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}
func (p *parser) advance() token { t := p.cur(); p.pos++; return t }

func (p *parser) expect(k tokenKind, what string) (token, error) {
	if p.cur().kind != k {
		return token{}, &ParseError{Pos: p.cur().pos, Msg: "expected " + what}
	}
	return p.advance(), nil
}

func (p *parser) parseProgram() (*Program, error) {
	prog := &Program{}
	for p.cur().kind != tokEOF {
		switch p.cur().kind {
		case tokDecl:
			d, err := p.parseDecl()
			if err != nil {
				return nil, err
			}
			prog.Decls = append(prog.Decls, d)
		case tokInput:
			in, err := p.parseInput()
			if err != nil {
				return nil, err
			}
			prog.Inputs = append(prog.Inputs, in)
		case tokOutput:
			out, err := p.parseOutput()
			if err != nil {
				return nil, err
			}
			prog.Outputs = append(prog.Outputs, out)
		case tokIdent:
			if err := p.parseClause(prog); err != nil {
				return nil, err
			}
		default:
			return nil, &ParseError{Pos: p.cur().pos, Msg: "expected a declaration, directive, fact, or rule"}
		}
	}
	return prog, nil
}

func (p *parser) parseDecl() (*RelDecl, error) {
	start := p.advance().pos // .decl
	name, err := p.expect(tokIdent, "relation name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}
	var params []Param
	for {
		pname, err := p.expect(tokIdent, "parameter name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokColon, "':'"); err != nil {
			return nil, err
		}
		tyTok, err := p.expect(tokIdent, "parameter type")
		if err != nil {
			return nil, err
		}
		ty, err := parseParamType(tyTok)
		if err != nil {
			return nil, err
		}
		params = append(params, Param{Name: pname.text, Type: ty})
		if p.cur().kind == tokComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokDot, "'.'"); err != nil {
		return nil, err
	}
	return &RelDecl{Name: name.text, Params: params, Pos: start}, nil
}

func parseParamType(t token) (ParamType, error) {
	switch t.text {
	case "int":
		return TypeInt, nil
	case "string":
		return TypeString, nil
	case "bool":
		return TypeBool, nil
	default:
		return 0, &ParseError{Pos: t.pos, Msg: "unknown parameter type " + t.text}
	}
}

func (p *parser) parseInput() (*InputDirective, error) {
	start := p.advance().pos // .input
	name, err := p.expect(tokIdent, "relation name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}
	file, err := p.expect(tokString, "a quoted file name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokDot, "'.'"); err != nil {
		return nil, err
	}
	return &InputDirective{Relation: name.text, File: file.text, Pos: start}, nil
}

func (p *parser) parseOutput() (*OutputDirective, error) {
	start := p.advance().pos // .output
	name, err := p.expect(tokIdent, "relation name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokDot, "'.'"); err != nil {
		return nil, err
	}
	return &OutputDirective{Relation: name.text, Pos: start}, nil
}

// parseClause parses a fact or a rule, both of which start with an atom.
func (p *parser) parseClause(prog *Program) error {
	head, err := p.parseAtom()
	if err != nil {
		return err
	}
	if p.cur().kind == tokColonDash {
		p.advance()
		var body []BodyLit
		for {
			lit, err := p.parseBodyLit()
			if err != nil {
				return err
			}
			body = append(body, lit)
			if p.cur().kind == tokComma {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(tokDot, "'.'"); err != nil {
			return err
		}
		prog.Rules = append(prog.Rules, &Rule{Head: head, Body: body, Pos: head.Pos})
		return nil
	}
	if _, err := p.expect(tokDot, "'.'"); err != nil {
		return err
	}
	args := make([]Const, len(head.Args))
	for i, t := range head.Args {
		if t.Var != "" {
			return &ParseError{Pos: head.Pos, Msg: "a fact's arguments must be ground constants, not the variable " + t.Var}
		}
		args[i] = t.Const
	}
	prog.Facts = append(prog.Facts, &Fact{Relation: head.Relation, Args: args, Pos: head.Pos})
	return nil
}

func (p *parser) parseAtom() (*Atom, error) {
	name, err := p.expect(tokIdent, "a relation name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}
	var args []Term
	if p.cur().kind != tokRParen {
		for {
			t, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			args = append(args, t)
			if p.cur().kind == tokComma {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return &Atom{Relation: name.text, Args: args, Pos: name.pos}, nil
}

func (p *parser) parseTerm() (Term, error) {
	switch p.cur().kind {
	case tokIdent:
		t := p.advance()
		return Term{Var: t.text}, nil
	case tokInt:
		t := p.advance()
		return Term{Const: Const{Kind: ConstInt, Int: t.ival}}, nil
	case tokString:
		t := p.advance()
		return Term{Const: Const{Kind: ConstString, Str: t.text}}, nil
	case tokTrue:
		p.advance()
		return Term{Const: Const{Kind: ConstBool, Bool: true}}, nil
	case tokFalse:
		p.advance()
		return Term{Const: Const{Kind: ConstBool, Bool: false}}, nil
	default:
		return Term{}, &ParseError{Pos: p.cur().pos, Msg: "expected a variable or a constant"}
	}
}

// parseBodyLit parses `!atom`, `term op term`, or `atom`, disambiguating
// by looking one token past a leading identifier.
func (p *parser) parseBodyLit() (BodyLit, error) {
	if p.cur().kind == tokBang {
		p.advance()
		atom, err := p.parseAtom()
		if err != nil {
			return BodyLit{}, err
		}
		return BodyLit{Atom: atom, Negated: true}, nil
	}
	if p.cur().kind == tokIdent && p.peekN(1).kind == tokLParen {
		atom, err := p.parseAtom()
		if err != nil {
			return BodyLit{}, err
		}
		return BodyLit{Atom: atom}, nil
	}
	lhs, err := p.parseTerm()
	if err != nil {
		return BodyLit{}, err
	}
	opTok := p.cur()
	op, ok := cmpOpText(opTok.kind)
	if !ok {
		return BodyLit{}, &ParseError{Pos: opTok.pos, Msg: "expected a comparison operator"}
	}
	p.advance()
	rhs, err := p.parseTerm()
	if err != nil {
		return BodyLit{}, err
	}
	return BodyLit{Cmp: &Comparison{Op: op, Lhs: lhs, Rhs: rhs, Pos: opTok.pos}}, nil
}

func cmpOpText(k tokenKind) (string, bool) {
	switch k {
	case tokEq:
		return "=", true
	case tokNotEq:
		return "<>", true
	case tokLt:
		return "<", true
	case tokLtEq:
		return "<=", true
	case tokGt:
		return ">", true
	case tokGtEq:
		return ">=", true
	default:
		return "", false
	}
}
