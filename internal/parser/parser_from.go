package parser

import (
	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/lexer"
)

func (p *Parser) parseFrom(pos ast.Pos) ast.Expr {
	p.advance() // 'from'
	steps := p.parseFromSteps()
	return &ast.From{Steps: steps, Pos: pos}
}

func (p *Parser) parseExists(pos ast.Pos) ast.Expr {
	p.advance() // 'exists'
	steps := p.parseFromSteps()
	return &ast.Exists{Steps: steps, Pos: pos}
}

func (p *Parser) parseForall(pos ast.Pos) ast.Expr {
	p.advance() // 'forall'
	var steps []ast.FromStep
	var require ast.Expr
	for {
		if p.curIs(lexer.KW_REQUIRE) {
			p.advance()
			require = p.parseExpr(precLowest)
			break
		}
		step, ok := p.parseOneFromStep()
		if !ok {
			break
		}
		steps = append(steps, step)
	}
	return &ast.Forall{Steps: steps, Require: require, Pos: pos}
}

// parseFromSteps parses a sequence of from-steps up to a token that cannot
// start another step (end of the enclosing expression).
func (p *Parser) parseFromSteps() []ast.FromStep {
	var steps []ast.FromStep
	for {
		step, ok := p.parseOneFromStep()
		if !ok {
			break
		}
		steps = append(steps, step)
	}
	return steps
}

func (p *Parser) parseOneFromStep() (ast.FromStep, bool) {
	pos := p.pos()
	switch p.cur.Type {
	case lexer.IDENT, lexer.UNDERSCORE, lexer.LPAREN, lexer.LBRACKET, lexer.LBRACE:
		return p.parseScan(pos), true
	case lexer.KW_WHERE:
		p.advance()
		return &ast.Where{Cond: p.parseExpr(precLowest), Pos: pos}, true
	case lexer.KW_GROUP:
		p.advance()
		key := p.parseExpr(precLowest)
		var compute ast.Expr
		if p.curIs(lexer.KW_COMPUTE) {
			p.advance()
			compute = p.parseExpr(precLowest)
		}
		return &ast.Group{Key: key, Compute: compute, Pos: pos}, true
	case lexer.KW_ORDER:
		p.advance()
		return &ast.Order{Key: p.parseExpr(precLowest), Pos: pos}, true
	case lexer.KW_TAKE:
		p.advance()
		return &ast.Take{N: p.parseExpr(precApply), Pos: pos}, true
	case lexer.KW_SKIP:
		p.advance()
		return &ast.Skip{N: p.parseExpr(precApply), Pos: pos}, true
	case lexer.KW_YIELD:
		p.advance()
		return &ast.Yield{Expr: p.parseExpr(precLowest), Pos: pos}, true
	case lexer.KW_INTO:
		p.advance()
		return &ast.Into{Expr: p.parseExpr(precLowest), Pos: pos}, true
	case lexer.KW_THROUGH:
		p.advance()
		pat := p.parsePattern()
		p.expect(lexer.KW_IN)
		return &ast.Through{Pat: pat, Expr: p.parseExpr(precLowest), Pos: pos}, true
	case lexer.KW_JOIN:
		p.advance()
		var scans []*ast.Scan
		scans = append(scans, p.parseScan(p.pos()))
		for p.curIs(lexer.COMMA) {
			p.advance()
			scans = append(scans, p.parseScan(p.pos()))
		}
		return &ast.Join{Scans: scans, Pos: pos}, true
	case lexer.KW_UNION, lexer.KW_INTERSECT, lexer.KW_EXCEPT:
		kind := map[lexer.Type]ast.SetOpKind{
			lexer.KW_UNION: ast.SetUnion, lexer.KW_INTERSECT: ast.SetIntersect, lexer.KW_EXCEPT: ast.SetExcept,
		}[p.cur.Type]
		p.advance()
		distinct := p.accept(lexer.KW_DISTINCT)
		var sources []ast.Expr
		sources = append(sources, p.parseExpr(precLowest))
		for p.curIs(lexer.COMMA) {
			p.advance()
			sources = append(sources, p.parseExpr(precLowest))
		}
		return &ast.SetOp{Kind: kind, Distinct: distinct, Sources: sources, Pos: pos}, true
	case lexer.KW_DISTINCT:
		p.advance()
		return &ast.Distinct{Pos: pos}, true
	case lexer.KW_UNORDER:
		p.advance()
		return &ast.Unorder{Pos: pos}, true
	case lexer.KW_COMPUTE:
		p.advance()
		return &ast.Compute{Expr: p.parseExpr(precLowest), Pos: pos}, true
	case lexer.KW_REQUIRE:
		p.advance()
		return &ast.Require{Expr: p.parseExpr(precLowest), Pos: pos}, true
	default:
		return nil, false
	}
}

// parseScan parses `pat in source [on e]`. Because a bare pattern can be
// confused with an ordinary expression at the token level, this always
// starts with a pattern (the common case is a plain identifier).
func (p *Parser) parseScan(pos ast.Pos) *ast.Scan {
	pat := p.parsePattern()
	p.expect(lexer.KW_IN)
	source := p.parseExpr(precLowest)
	var on ast.Expr
	if p.curIs(lexer.KW_ON) {
		p.advance()
		on = p.parseExpr(precLowest)
	}
	return &ast.Scan{Pat: pat, Source: source, On: on, Pos: pos}
}
