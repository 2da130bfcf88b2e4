// Package variant implements the printable, round-trippable wire format
// used for foreign interop: every runtime value prints to one of a fixed
// set of tagged textual forms (UNIT, BOOL, INT, REAL, CHAR, STRING,
// LIST, BAG, VECTOR, RECORD, NONE, SOME, CONSTANT, CONSTRUCT) and Parse
// inverts Print exactly, so `Parse(Print(v)) == v` for every value this
// package can print.
package variant

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/loomlang/loom/internal/eval"
	"github.com/loomlang/loom/internal/types"
)

// Print renders v in the wire format.
func Print(v eval.Value) string {
	var b strings.Builder
	print1(&b, v)
	return b.String()
}

func print1(b *strings.Builder, v eval.Value) {
	switch x := v.(type) {
	case eval.Unit:
		b.WriteString("UNIT")
	case eval.Bool:
		if x {
			b.WriteString("BOOL true")
		} else {
			b.WriteString("BOOL false")
		}
	case eval.Int:
		fmt.Fprintf(b, "INT %d", int64(x))
	case eval.Real:
		fmt.Fprintf(b, "REAL %s", strconv.FormatFloat(float64(x), 'g', -1, 64))
	case eval.Char:
		fmt.Fprintf(b, "CHAR %s", quoteChar(rune(x)))
	case eval.Str:
		fmt.Fprintf(b, "STRING %s", quoteString(string(x)))
	case *eval.Container:
		tag := containerTag(x.Kind)
		b.WriteString(tag)
		b.WriteString(" [")
		for i, e := range x.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			print1(b, e)
		}
		b.WriteString("]")
	case *eval.Record:
		b.WriteString("RECORD {")
		for i, f := range x.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Label)
			b.WriteString("=")
			print1(b, f.Value)
		}
		b.WriteString("}")
	case *eval.Constructed:
		printConstructed(b, x)
	case *eval.Tuple:
		// No dedicated tuple tag in the wire format; a tuple round-trips
		// as a RECORD with positional "1","2",... labels, matching how
		// internal/types treats tuples as records over numeric labels.
		b.WriteString("RECORD {")
		for i, e := range x.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%d=", i+1)
			print1(b, e)
		}
		b.WriteString("}")
	default:
		fmt.Fprintf(b, "CONSTANT %s", v.String())
	}
}

func printConstructed(b *strings.Builder, c *eval.Constructed) {
	switch c.Ctor {
	case "NONE":
		b.WriteString("NONE")
		return
	case "SOME":
		b.WriteString("SOME ")
		print1(b, c.Arg)
		return
	}
	if c.Arg == nil {
		fmt.Fprintf(b, "CONSTANT %s", c.Ctor)
		return
	}
	fmt.Fprintf(b, "CONSTRUCT %s ", c.Ctor)
	print1(b, c.Arg)
}

func containerTag(kind eval.ContainerKind) string {
	switch kind {
	case eval.KindBag:
		return "BAG"
	case eval.KindVector:
		return "VECTOR"
	default:
		return "LIST"
	}
}

func quoteChar(r rune) string {
	return "'" + escapeRune(r) + "'"
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		b.WriteString(escapeRune(r))
	}
	b.WriteByte('"')
	return b.String()
}

func escapeRune(r rune) string {
	switch r {
	case '\\':
		return `\\`
	case '"':
		return `\"`
	case '\'':
		return `\'`
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	default:
		return string(r)
	}
}

// Parse decodes the wire format produced by Print.
func Parse(s string) (eval.Value, error) {
	p := &parser{src: s}
	p.skipSpace()
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("variant: unexpected trailing input at %d: %q", p.pos, p.src[p.pos:])
	}
	return v, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n') {
		p.pos++
	}
}

func (p *parser) word() string {
	start := p.pos
	for p.pos < len(p.src) && isWordChar(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func isWordChar(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func (p *parser) expect(c byte) error {
	if p.pos >= len(p.src) || p.src[p.pos] != c {
		return fmt.Errorf("variant: expected %q at position %d", c, p.pos)
	}
	p.pos++
	return nil
}

func (p *parser) value() (eval.Value, error) {
	tag := p.word()
	switch tag {
	case "UNIT":
		return eval.Unit{}, nil
	case "NONE":
		return &eval.Constructed{Ctor: "NONE"}, nil
	case "BOOL":
		p.skipSpace()
		b := p.word()
		switch b {
		case "true":
			return eval.Bool(true), nil
		case "false":
			return eval.Bool(false), nil
		default:
			return nil, fmt.Errorf("variant: invalid BOOL literal %q", b)
		}
	case "INT":
		p.skipSpace()
		start := p.pos
		if p.pos < len(p.src) && (p.src[p.pos] == '-' || p.src[p.pos] == '+') {
			p.pos++
		}
		for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
		n, err := strconv.ParseInt(p.src[start:p.pos], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("variant: invalid INT literal: %w", err)
		}
		return eval.Int(n), nil
	case "REAL":
		p.skipSpace()
		start := p.pos
		for p.pos < len(p.src) && strings.ContainsRune("+-0123456789.eE", rune(p.src[p.pos])) {
			p.pos++
		}
		f, err := strconv.ParseFloat(p.src[start:p.pos], 64)
		if err != nil {
			return nil, fmt.Errorf("variant: invalid REAL literal: %w", err)
		}
		return eval.Real(f), nil
	case "CHAR":
		p.skipSpace()
		if err := p.expect('\''); err != nil {
			return nil, err
		}
		r, err := p.unescapeOne('\'')
		if err != nil {
			return nil, err
		}
		if err := p.expect('\''); err != nil {
			return nil, err
		}
		return eval.Char(r), nil
	case "STRING":
		p.skipSpace()
		if err := p.expect('"'); err != nil {
			return nil, err
		}
		var b strings.Builder
		for p.pos < len(p.src) && p.src[p.pos] != '"' {
			r, err := p.unescapeOne('"')
			if err != nil {
				return nil, err
			}
			b.WriteRune(r)
		}
		if err := p.expect('"'); err != nil {
			return nil, err
		}
		return eval.Str(b.String()), nil
	case "LIST", "BAG", "VECTOR":
		elems, err := p.bracketedList('[', ']')
		if err != nil {
			return nil, err
		}
		kind := eval.KindList
		if tag == "BAG" {
			kind = eval.KindBag
		} else if tag == "VECTOR" {
			kind = eval.KindVector
		}
		return &eval.Container{Elems: elems, Kind: kind}, nil
	case "RECORD":
		return p.record()
	case "SOME":
		p.skipSpace()
		arg, err := p.value()
		if err != nil {
			return nil, err
		}
		return &eval.Constructed{Ctor: "SOME", Arg: arg}, nil
	case "CONSTANT":
		p.skipSpace()
		name := p.word()
		if name == "" {
			return nil, fmt.Errorf("variant: CONSTANT requires a name at %d", p.pos)
		}
		return &eval.Constructed{Ctor: name}, nil
	case "CONSTRUCT":
		p.skipSpace()
		name := p.word()
		if name == "" {
			return nil, fmt.Errorf("variant: CONSTRUCT requires a name at %d", p.pos)
		}
		p.skipSpace()
		arg, err := p.value()
		if err != nil {
			return nil, err
		}
		return &eval.Constructed{Ctor: name, Arg: arg}, nil
	default:
		return nil, fmt.Errorf("variant: unknown tag %q at position %d", tag, p.pos-len(tag))
	}
}

func (p *parser) unescapeOne(quote byte) (rune, error) {
	if p.pos >= len(p.src) {
		return 0, fmt.Errorf("variant: unterminated literal at %d", p.pos)
	}
	c := p.src[p.pos]
	if c != '\\' {
		p.pos++
		return rune(c), nil
	}
	p.pos++
	if p.pos >= len(p.src) {
		return 0, fmt.Errorf("variant: dangling escape at %d", p.pos)
	}
	e := p.src[p.pos]
	p.pos++
	switch e {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case '\\':
		return '\\', nil
	case '"':
		return '"', nil
	case '\'':
		return '\'', nil
	default:
		return rune(e), nil
	}
}

func (p *parser) bracketedList(open, close byte) ([]eval.Value, error) {
	p.skipSpace()
	if err := p.expect(open); err != nil {
		return nil, err
	}
	var out []eval.Value
	p.skipSpace()
	for p.pos < len(p.src) && p.src[p.pos] != close {
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		p.skipSpace()
		if p.pos < len(p.src) && p.src[p.pos] == ',' {
			p.pos++
			p.skipSpace()
		}
	}
	if err := p.expect(close); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *parser) record() (eval.Value, error) {
	p.skipSpace()
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	var fields []eval.RecordField
	p.skipSpace()
	for p.pos < len(p.src) && p.src[p.pos] != '}' {
		label := p.word()
		if label == "" {
			return nil, fmt.Errorf("variant: expected a record label at %d", p.pos)
		}
		p.skipSpace()
		if err := p.expect('='); err != nil {
			return nil, err
		}
		p.skipSpace()
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		fields = append(fields, eval.RecordField{Label: label, Value: v})
		p.skipSpace()
		if p.pos < len(p.src) && p.src[p.pos] == ',' {
			p.pos++
			p.skipSpace()
		}
	}
	if err := p.expect('}'); err != nil {
		return nil, err
	}
	if labels := recordLabels(fields); types.IsTupleLabels(labels) {
		return tupleFromFields(fields), nil
	}
	eval.SortRecordFields(fields)
	return &eval.Record{Fields: fields}, nil
}

// recordLabels collects a parsed record's field labels, for the
// IsTupleLabels check that tells a plain record apart from a tuple
// printed with positional "1", "2", ... labels (see Print's *eval.Tuple
// case).
func recordLabels(fields []eval.RecordField) []string {
	labels := make([]string, len(fields))
	for i, f := range fields {
		labels[i] = f.Label
	}
	return labels
}

// tupleFromFields reorders fields by their numeric label and drops the
// labels, recovering the *eval.Tuple that Print's *eval.Tuple case
// produced, so Parse(Print(v)) stays eval.Equal to the original tuple.
func tupleFromFields(fields []eval.RecordField) *eval.Tuple {
	elems := make([]eval.Value, len(fields))
	for _, f := range fields {
		n, _ := strconv.Atoi(f.Label)
		elems[n-1] = f.Value
	}
	return &eval.Tuple{Elems: elems}
}
