package datalog

// Compile parses, analyzes, and translates a Datalog source unit into a
// Loom surface expression ready for the ordinary resolve/lower/eval
// pipeline. baseDir resolves relative `.input` file paths.
func Compile(src, file, baseDir string) (*Program, *Analysis, error) {
	prog, err := Parse(src, file)
	if err != nil {
		return nil, nil, err
	}
	for _, in := range prog.Inputs {
		decl, ok := findDecl(prog, in.Relation)
		if !ok {
			continue // Analyze reports the undeclared-relation error uniformly
		}
		facts, err := loadCSVFacts(baseDir, in, decl)
		if err != nil {
			return nil, nil, err
		}
		prog.Facts = append(prog.Facts, facts...)
	}
	ana, err := Analyze(prog)
	if err != nil {
		return nil, nil, err
	}
	return prog, ana, nil
}

func findDecl(prog *Program, name string) (*RelDecl, bool) {
	for _, d := range prog.Decls {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}
