package lower

import (
	"testing"

	"github.com/loomlang/loom/internal/errors"
	"github.com/loomlang/loom/internal/types"
)

func TestCheckMatchWarnsOnNonExhaustiveFun(t *testing.T) {
	reg := types.NewRegistry()
	l := New(reg)
	d := parseOneDecl(t, "fun f 1 = 0")
	if _, err := l.LowerDecl(d); err != nil {
		t.Fatalf("lower error: %v", err)
	}
	warnings := l.DrainWarnings()
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %d: %+v", len(warnings), warnings)
	}
	if warnings[0].Code != errors.TYP007 {
		t.Fatalf("expected TYP007, got %v", warnings[0].Code)
	}
}

func TestCheckMatchFlagsRedundantArm(t *testing.T) {
	reg := types.NewRegistry()
	l := New(reg)
	d := parseOneDecl(t, "fun f 1 = 0 | f 1 = 1 | f n = 2")
	_, err := l.LowerDecl(d)
	if err == nil {
		t.Fatalf("expected a redundant-match error")
	}
	rep, ok := errors.AsReport(err)
	if !ok || rep.Code != errors.TYP006 {
		t.Fatalf("expected TYP006, got %v", err)
	}
}

func TestCheckMatchExhaustiveOverVariableArmRaisesNoWarning(t *testing.T) {
	reg := types.NewRegistry()
	l := New(reg)
	d := parseOneDecl(t, "fun f 1 = 0 | f n = 1")
	if _, err := l.LowerDecl(d); err != nil {
		t.Fatalf("lower error: %v", err)
	}
	if warnings := l.DrainWarnings(); len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %+v", warnings)
	}
}

func TestCheckMatchExhaustiveOverDatatypeRaisesNoWarning(t *testing.T) {
	reg := types.NewRegistry()
	l := New(reg)
	dt := parseOneDecl(t, "datatype color = RED | GREEN | BLUE")
	if _, err := l.LowerDecl(dt); err != nil {
		t.Fatalf("lower datatype: %v", err)
	}
	l.DrainWarnings()

	fun := parseOneDecl(t, "fun isRed RED = true | isRed GREEN = false | isRed BLUE = false")
	if _, err := l.LowerDecl(fun); err != nil {
		t.Fatalf("lower fun: %v", err)
	}
	if warnings := l.DrainWarnings(); len(warnings) != 0 {
		t.Fatalf("expected no warnings over an exhaustive datatype match, got %+v", warnings)
	}
}

func TestCheckMatchNonExhaustiveOverDatatypeWarns(t *testing.T) {
	reg := types.NewRegistry()
	l := New(reg)
	dt := parseOneDecl(t, "datatype color = RED | GREEN | BLUE")
	if _, err := l.LowerDecl(dt); err != nil {
		t.Fatalf("lower datatype: %v", err)
	}
	l.DrainWarnings()

	fun := parseOneDecl(t, "fun isRed RED = true | isRed GREEN = false")
	if _, err := l.LowerDecl(fun); err != nil {
		t.Fatalf("lower fun: %v", err)
	}
	warnings := l.DrainWarnings()
	if len(warnings) != 1 || warnings[0].Code != errors.TYP007 {
		t.Fatalf("expected one TYP007 warning, got %+v", warnings)
	}
}

func TestCheckMatchExhaustiveOverListShapeRaisesNoWarning(t *testing.T) {
	reg := types.NewRegistry()
	l := New(reg)
	d := parseOneDecl(t, "fun len [] = 0 | len (x :: xs) = 1 + len xs")
	if _, err := l.LowerDecl(d); err != nil {
		t.Fatalf("lower error: %v", err)
	}
	if warnings := l.DrainWarnings(); len(warnings) != 0 {
		t.Fatalf("expected no warnings over an exhaustive list match, got %+v", warnings)
	}
}
