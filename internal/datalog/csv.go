package datalog

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/loomlang/loom/internal/errors"
)

// loadCSVFacts reads a headerless CSV file for an `.input` directive,
// coercing each column positionally to the relation's declared parameter
// type, and returns one synthetic Fact per row.
//
// encoding/csv is the standard library's own concern (there's no
// competing CSV library among the reference dependencies this module
// draws on), so this is the one place in the Datalog frontend that isn't
// grounded on a third-party package.
func loadCSVFacts(baseDir string, in *InputDirective, decl *RelDecl) ([]*Fact, error) {
	path := in.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errAt(errors.DLG005, in.Pos, "`.input` cannot open %q: %v", in.File, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(decl.Params)

	var facts []*Fact
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errAt(errors.DLG005, in.Pos, "`.input` %q: %v", in.File, err)
		}
		args := make([]Const, len(decl.Params))
		for i, field := range record {
			c, err := coerce(field, decl.Params[i].Type)
			if err != nil {
				return nil, errAt(errors.DLG005, in.Pos, "`.input` %q, column %d: %v", in.File, i+1, err)
			}
			args[i] = c
		}
		facts = append(facts, &Fact{Relation: decl.Name, Args: args, Pos: in.Pos})
	}
	return facts, nil
}

func coerce(field string, t ParamType) (Const, error) {
	switch t {
	case TypeInt:
		v, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return Const{}, err
		}
		return Const{Kind: ConstInt, Int: v}, nil
	case TypeBool:
		v, err := strconv.ParseBool(field)
		if err != nil {
			return Const{}, err
		}
		return Const{Kind: ConstBool, Bool: v}, nil
	default:
		return Const{Kind: ConstString, Str: field}, nil
	}
}
