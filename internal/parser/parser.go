// Package parser implements a hand-written recursive-descent / Pratt
// parser for Loom surface syntax, producing internal/ast trees annotated
// with source positions.
package parser

import (
	"fmt"

	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/lexer"
)

// ParseError is a single syntax error with the position of the offending
// token, always carrying a position so "unexpected token / EOF; position
// mandatory" requirement.
type ParseError struct {
	Pos     ast.Pos
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s Error: %s", e.Pos, e.Message)
}

// precedence levels (higher binds tighter).
const (
	precLowest = iota
	precImplies
	precOrelse
	precAndalso
	precCompose // `o`
	precCompare // comparisons, elem/notelem
	precCons    // `::`, `@` (right-assoc)
	precAdd     // + - ^
	precMul     // * / div mod
	precOver    // `over`
	precApply   // application
	precDot     // .field (record selection suffix, handled separately)
)

var infixPrecedence = map[lexer.Type]int{
	lexer.KW_IMPLIES:   precImplies,
	lexer.KW_ORELSE:    precOrelse,
	lexer.KW_ANDALSO:   precAndalso,
	lexer.KW_O:         precCompose,
	lexer.LT:           precCompare,
	lexer.LE:           precCompare,
	lexer.GT:           precCompare,
	lexer.GE:           precCompare,
	lexer.EQUALS:       precCompare,
	lexer.NE:           precCompare,
	lexer.KW_ELEM:      precCompare,
	lexer.KW_NOTELEM:   precCompare,
	lexer.CONS:         precCons,
	lexer.AT:           precCons,
	lexer.PLUS:         precAdd,
	lexer.MINUS:        precAdd,
	lexer.CARET:        precAdd,
	lexer.STAR:         precMul,
	lexer.SLASH:        precMul,
	lexer.KW_DIV:       precMul,
	lexer.KW_MOD:       precMul,
	lexer.KW_OVER:      precOver,
}

// rightAssoc marks operators that associate to the right (`::`
// and `@` are right-associative; all others are left-associative).
var rightAssoc = map[lexer.Type]bool{
	lexer.CONS: true,
	lexer.AT:   true,
}

// Parser holds parsing state: the lexer, current/peek tokens, and any
// errors accumulated so the caller can report every syntax error found in
// one statement rather than stopping at the first.
type Parser struct {
	l    *lexer.Lexer
	file string

	cur, peek lexer.Token
	errors    []*ParseError
}

// New creates a Parser reading from source, attributing positions to file.
func New(source, file string) *Parser {
	p := &Parser{l: lexer.New(source, file), file: file}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) pos() ast.Pos {
	return ast.Pos{File: p.file, Line: p.cur.Line, Col: p.cur.Col}
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, &ParseError{Pos: p.pos(), Message: fmt.Sprintf(format, args...)})
}

// Errors returns every syntax error collected while parsing.
func (p *Parser) Errors() []*ParseError { return p.errors }

func (p *Parser) curIs(t lexer.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t lexer.Type) bool { return p.peek.Type == t }

// expect checks that cur has type t, records an error if not, and always
// advances — this keeps the parser moving forward after a mistake so later
// errors in the same statement are still discovered.
func (p *Parser) expect(t lexer.Type) lexer.Token {
	tok := p.cur
	if tok.Type != t {
		p.errorf("unexpected token %q, expected %s", tok.Literal, t)
	}
	p.advance()
	return tok
}

func (p *Parser) accept(t lexer.Type) bool {
	if p.curIs(t) {
		p.advance()
		return true
	}
	return false
}

// ParseProgram parses a full Program: declarations and statements
// separated by `;`, up to EOF.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{Pos: p.pos()}
	for !p.curIs(lexer.EOF) {
		if p.curIs(lexer.SEMI) {
			p.advance()
			continue
		}
		d := p.parseTopDecl()
		if d != nil {
			prog.Decls = append(prog.Decls, d)
		}
		if p.curIs(lexer.SEMI) {
			p.advance()
		}
	}
	return prog
}

// ParseOneStatement parses a single `;`-terminated statement, as used by
// the REPL's ACCUMULATE -> PARSE transition. It does not
// require EOF afterward.
func (p *Parser) ParseOneStatement() ast.Decl {
	if p.curIs(lexer.EOF) {
		return nil
	}
	d := p.parseTopDecl()
	if p.curIs(lexer.SEMI) {
		p.advance()
	}
	return d
}

func (p *Parser) parseTopDecl() ast.Decl {
	switch p.cur.Type {
	case lexer.KW_VAL:
		return p.parseValDecl()
	case lexer.KW_FUN:
		return p.parseFunDecl()
	case lexer.KW_DATATYPE:
		return p.parseDatatypeDecl()
	case lexer.KW_TYPE:
		return p.parseTypeDecl()
	case lexer.KW_OVER:
		return p.parseOverDecl()
	default:
		pos := p.pos()
		e := p.parseExpr(precLowest)
		return &ast.ExprDecl{Expr: e, Pos: pos}
	}
}
