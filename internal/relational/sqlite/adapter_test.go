package sqlite

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loomlang/loom/internal/core"
	"github.com/loomlang/loom/internal/relational"
)

func intLit(v int64) *core.Lit {
	return &core.Lit{Value: v}
}

func TestRegisterForeignAndTranslateScanWhere(t *testing.T) {
	a, err := New()
	require.NoError(t, err)
	defer a.Close()

	rows := []relational.Row{
		{"name": "alice", "age": int64(30)},
		{"name": "bob", "age": int64(17)},
	}
	require.NoError(t, a.RegisterForeign("people", rows))

	ageSel := &core.RecordSel{Label: "age", Record: &core.Id{Name: "p"}}
	cond := &core.Apply{
		Fn:  &core.Apply{Fn: &core.Id{Name: ">="}, Arg: ageSel},
		Arg: intLit(18),
	}
	steps := []core.Step{
		core.ScanStep{Pat: core.IdPat{Name: "p"}, Source: &core.Id{Name: "people"}},
		core.WhereStep{Cond: cond},
	}

	plan, ok := a.Translate(steps)
	require.True(t, ok, "expected a first-order scan+where to translate")

	out, err := a.Run(plan)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "alice", out[0]["name"])
}

func TestTranslateDeclinesJoins(t *testing.T) {
	a, err := New()
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.RegisterForeign("xs", nil))

	steps := []core.Step{
		core.ScanStep{Pat: core.IdPat{Name: "x"}, Source: &core.Id{Name: "xs"}},
		core.ScanStep{Pat: core.IdPat{Name: "y"}, Source: &core.Id{Name: "xs"}},
	}
	_, ok := a.Translate(steps)
	require.False(t, ok, "expected a multi-scan join to decline translation")
}

func TestTranslateUnregisteredSourceDeclines(t *testing.T) {
	a, err := New()
	require.NoError(t, err)
	defer a.Close()

	steps := []core.Step{
		core.ScanStep{Pat: core.IdPat{Name: "x"}, Source: &core.Id{Name: "unknown"}},
	}
	_, ok := a.Translate(steps)
	require.False(t, ok)
}
