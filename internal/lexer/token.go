package lexer

import "fmt"

// Type is the kind of a lexical token.
type Type int

const (
	ILLEGAL Type = iota
	EOF

	// Literals and identifiers.
	IDENT    // foo, `a weird name`
	TYVAR    // 'a
	LABEL    // #name
	INT      // 123, ~45
	REAL     // 1.5, ~2.0
	CHAR     // #"a"
	STRING   // "hello"

	// Punctuation.
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	SEMI
	DOT
	ELLIPSIS // ...
	EQUALS   // =
	FARROW   // =>
	ARROW    // ->
	COLON
	CONS  // ::
	AT    // @
	UNDERSCORE
	PIPE // |
	HASH // bare '#' before a non-identifier (rare)

	// Operators (classified further by the parser's precedence table).
	PLUS
	MINUS
	STAR
	SLASH
	CARET
	TILDE // unary negation prefix for numeric literals and expressions
	LT
	LE
	GT
	GE
	NE

	// Keywords.
	KW_VAL
	KW_REC
	KW_INST
	KW_FUN
	KW_FN
	KW_IF
	KW_THEN
	KW_ELSE
	KW_LET
	KW_IN
	KW_END
	KW_CASE
	KW_OF
	KW_DATATYPE
	KW_TYPE
	KW_OVER
	KW_ANDALSO
	KW_ORELSE
	KW_NOT
	KW_DIV
	KW_MOD
	KW_ELEM
	KW_NOTELEM
	KW_AND
	KW_AS
	KW_WITH
	KW_O // function composition `o`

	// Relational keywords.
	KW_FROM
	KW_WHERE
	KW_GROUP
	KW_ORDER
	KW_TAKE
	KW_SKIP
	KW_YIELD
	KW_INTO
	KW_THROUGH
	KW_JOIN
	KW_UNION
	KW_INTERSECT
	KW_EXCEPT
	KW_DISTINCT
	KW_UNORDER
	KW_COMPUTE
	KW_REQUIRE
	KW_EXISTS
	KW_FORALL
	KW_ON
	KW_OVER_AGG // `over` reused for aggregates, same token as KW_OVER

	KW_TYPEOF

	KW_TRUE
	KW_FALSE
	KW_IMPLIES
)

var keywords = map[string]Type{
	"val": KW_VAL, "rec": KW_REC, "inst": KW_INST, "fun": KW_FUN, "fn": KW_FN,
	"if": KW_IF, "then": KW_THEN, "else": KW_ELSE,
	"let": KW_LET, "in": KW_IN, "end": KW_END,
	"case": KW_CASE, "of": KW_OF,
	"datatype": KW_DATATYPE, "type": KW_TYPE, "over": KW_OVER,
	"andalso": KW_ANDALSO, "orelse": KW_ORELSE, "not": KW_NOT,
	"div": KW_DIV, "mod": KW_MOD, "elem": KW_ELEM, "notelem": KW_NOTELEM,
	"and": KW_AND, "as": KW_AS, "with": KW_WITH, "o": KW_O,
	"from": KW_FROM, "where": KW_WHERE, "group": KW_GROUP, "order": KW_ORDER,
	"take": KW_TAKE, "skip": KW_SKIP, "yield": KW_YIELD, "into": KW_INTO,
	"through": KW_THROUGH, "join": KW_JOIN, "union": KW_UNION,
	"intersect": KW_INTERSECT, "except": KW_EXCEPT, "distinct": KW_DISTINCT,
	"unorder": KW_UNORDER, "compute": KW_COMPUTE, "require": KW_REQUIRE,
	"exists": KW_EXISTS, "forall": KW_FORALL, "on": KW_ON,
	"typeof": KW_TYPEOF, "true": KW_TRUE, "false": KW_FALSE,
	"implies": KW_IMPLIES,
}

// LookupIdent classifies ident as a keyword token or a plain IDENT.
func LookupIdent(ident string) Type {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return IDENT
}

// Token is a single lexical token with its source position.
type Token struct {
	Type    Type
	Literal string
	Line    int
	Col     int
	File    string
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d.%d", t.Type, t.Literal, t.Line, t.Col)
}

var typeNames = map[Type]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", IDENT: "IDENT", TYVAR: "TYVAR",
	LABEL: "LABEL", INT: "INT", REAL: "REAL", CHAR: "CHAR", STRING: "STRING",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", LBRACKET: "[", RBRACKET: "]",
	COMMA: ",", SEMI: ";", DOT: ".", ELLIPSIS: "...", EQUALS: "=", FARROW: "=>",
	ARROW: "->", COLON: ":", CONS: "::", AT: "@", UNDERSCORE: "_", PIPE: "|", HASH: "#",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", CARET: "^", TILDE: "~",
	LT: "<", LE: "<=", GT: ">", GE: ">=", NE: "<>",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	for kw, tt := range keywords {
		if tt == t {
			return kw
		}
	}
	return fmt.Sprintf("Type(%d)", int(t))
}
