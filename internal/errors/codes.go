// Package errors provides centralized error code definitions and a
// structured report type shared by every pipeline phase, plus the
// REPL-facing rendering of a report as `pos Error: message`.
package errors

// Error codes are organized by phase, following the same PHASE### scheme
// throughout the pipeline.
const (
	// Lexer errors (LEX###)
	LEX001 = "LEX001" // illegal character
	LEX002 = "LEX002" // unterminated string literal
	LEX003 = "LEX003" // unterminated block comment
	LEX004 = "LEX004" // malformed numeric literal

	// Parser errors (PAR###)
	PAR001 = "PAR001" // unexpected token
	PAR002 = "PAR002" // missing closing delimiter
	PAR003 = "PAR003" // invalid declaration syntax
	PAR004 = "PAR004" // invalid pattern syntax
	PAR005 = "PAR005" // invalid type syntax
	PAR006 = "PAR006" // invalid relational from-step

	// Type resolution errors (TYP###)
	TYP001 = "TYP001" // unbound identifier
	TYP002 = "TYP002" // unbound constructor
	TYP003 = "TYP003" // constructor arity mismatch
	TYP004 = "TYP004" // type mismatch / unification failure
	TYP005 = "TYP005" // unguarded type variable in a val binding
	TYP006 = "TYP006" // redundant match arm
	TYP007 = "TYP007" // non-exhaustive match (warning, not fatal)
	TYP008 = "TYP008" // duplicate record label
	TYP009 = "TYP009" // unknown `over`/`inst` name
	TYP010 = "TYP010" // record field not found

	// Evaluation errors (EVL###)
	EVL001 = "EVL001" // pattern match failure at runtime (Bind)
	EVL002 = "EVL002" // division or modulo by zero
	EVL003 = "EVL003" // head/tail of empty list
	EVL004 = "EVL004" // uncaught user exception
	EVL005 = "EVL005" // foreign value error

	// Relational pipeline errors (REL###)
	REL001 = "REL001" // adapter translation failure
	REL002 = "REL002" // value/row conversion mismatch

	// Datalog frontend errors (DLG###)
	DLG001 = "DLG001" // use of an undeclared relation
	DLG002 = "DLG002" // rule arity/type mismatch
	DLG003 = "DLG003" // unsafe rule (unbound variable in the head or in a negated/arithmetic goal)
	DLG004 = "DLG004" // non-stratified program (negation through a recursive cycle)
	DLG005 = "DLG005" // unreadable `.input` file/row, or a relation declared more than once

	// REPL/session errors (SES###)
	SES001 = "SES001" // `use` recursion depth exceeded
	SES002 = "SES002" // file not found / cannot open
	SES003 = "SES003" // unknown REPL command

	RUNTIME = "RUNTIME" // generic wrapped Go error, phase carries the detail
)
