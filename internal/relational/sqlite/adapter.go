// Package sqlite is a relational.Adapter backed by an in-memory SQLite
// database (modernc.org/sqlite, a pure-Go driver — no cgo toolchain
// needed at build time). It proves out the Adapter interface with a
// real, swappable backend: RegisterForeign materializes a Loom
// list/bag/vector of records into a scratch table, and Translate
// compiles a first-order prefix of a pipeline (scan, simple equality/
// comparison filters, a final field-selecting projection) into a
// parameterized SELECT; anything richer (a join, a computed yield
// expression, a group/aggregate) declines translation. internal/eval
// never calls an installed Adapter, so every pipeline runs on the
// evaluator's own interpreter whether or not this adapter is installed.
package sqlite

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/loomlang/loom/internal/core"
	"github.com/loomlang/loom/internal/relational"
)

// Adapter owns one in-memory SQLite connection and the scratch tables
// RegisterForeign has materialized into it.
type Adapter struct {
	db     *sql.DB
	tables map[string]*table
}

type table struct {
	name    string
	columns []string // sorted
}

// New opens a fresh in-memory SQLite database.
func New() (*Adapter, error) {
	db, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("sqlite adapter: open: %w", err)
	}
	return &Adapter{db: db, tables: map[string]*table{}}, nil
}

// Close releases the underlying database connection.
func (a *Adapter) Close() error { return a.db.Close() }

// RegisterForeign materializes rows into a fresh scratch table named
// after name, so later Translate calls can reference it as a source. A
// second registration of the same name points name at a new scratch
// table; the earlier table stays in the database.
func (a *Adapter) RegisterForeign(name string, rows []relational.Row) error {
	cols := unionColumns(rows)
	scratch := "t_" + strings.ReplaceAll(uuid.New().String(), "-", "_")

	var ddl strings.Builder
	fmt.Fprintf(&ddl, "CREATE TABLE %s (", scratch)
	for i, c := range cols {
		if i > 0 {
			ddl.WriteString(", ")
		}
		fmt.Fprintf(&ddl, "%q", c)
	}
	ddl.WriteString(")")
	if len(cols) == 0 {
		ddl.Reset()
		fmt.Fprintf(&ddl, "CREATE TABLE %s (_empty INTEGER)", scratch)
	}
	if _, err := a.db.Exec(ddl.String()); err != nil {
		return fmt.Errorf("sqlite adapter: create scratch table for %q: %w", name, err)
	}

	if len(cols) > 0 {
		placeholders := make([]string, len(cols))
		for i := range placeholders {
			placeholders[i] = "?"
		}
		insertSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			scratch, quoteList(cols), strings.Join(placeholders, ", "))
		stmt, err := a.db.Prepare(insertSQL)
		if err != nil {
			return fmt.Errorf("sqlite adapter: prepare insert for %q: %w", name, err)
		}
		defer stmt.Close()
		for _, row := range rows {
			args := make([]any, len(cols))
			for i, c := range cols {
				args[i] = row[c]
			}
			if _, err := stmt.Exec(args...); err != nil {
				return fmt.Errorf("sqlite adapter: insert row into %q: %w", name, err)
			}
		}
	}

	a.tables[name] = &table{name: scratch, columns: cols}
	return nil
}

func unionColumns(rows []relational.Row) []string {
	seen := map[string]bool{}
	for _, r := range rows {
		for k := range r {
			seen[k] = true
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

func quoteList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return strings.Join(quoted, ", ")
}

// Plan is the compiled query Translate hands back to Run.
type Plan struct {
	query string
	args  []any
	cols  []string // result columns, sorted; nil means "every source column"
}

// Translate compiles steps into a SELECT against a registered scratch
// table. It accepts exactly: one ScanStep naming a previously-registered
// relation, zero or more WhereStep filters of the shape `field <op>
// literal`, and an optional trailing YieldStep that projects a subset of
// fields verbatim. Anything else (joins, group/order/take/skip, a
// computed yield) returns ok=false.
func (a *Adapter) Translate(steps []core.Step) (relational.Plan, bool) {
	if len(steps) == 0 {
		return nil, false
	}
	scan, ok := steps[0].(core.ScanStep)
	if !ok {
		return nil, false
	}
	srcID, ok := scan.Source.(*core.Id)
	if !ok {
		return nil, false
	}
	tbl, ok := a.tables[srcID.Name]
	if !ok {
		return nil, false
	}
	rowVar, ok := scan.Pat.(core.IdPat)
	if !ok {
		return nil, false
	}
	if scan.On != nil {
		return nil, false
	}

	var where []string
	var args []any
	cols := append([]string(nil), tbl.columns...)

	for _, s := range steps[1:] {
		switch n := s.(type) {
		case core.WhereStep:
			clause, arg, ok := compileComparison(n.Cond, rowVar.Name, tbl.columns)
			if !ok {
				return nil, false
			}
			where = append(where, clause)
			args = append(args, arg)
		case core.YieldStep:
			rec, ok := n.Expr.(*core.Record)
			if !ok || rec.Base != nil {
				return nil, false
			}
			projected := make([]string, 0, len(rec.Fields))
			for _, f := range rec.Fields {
				sel, ok := f.Value.(*core.RecordSel)
				if !ok {
					return nil, false
				}
				if id, ok := sel.Record.(*core.Id); !ok || id.Name != rowVar.Name {
					return nil, false
				}
				projected = append(projected, sel.Label)
			}
			cols = projected
		default:
			return nil, false
		}
	}

	var q strings.Builder
	q.WriteString("SELECT ")
	q.WriteString(quoteList(cols))
	fmt.Fprintf(&q, " FROM %s", tbl.name)
	if len(where) > 0 {
		q.WriteString(" WHERE ")
		q.WriteString(strings.Join(where, " AND "))
	}
	return &Plan{query: q.String(), args: args, cols: cols}, true
}

func compileComparison(cond core.Expr, rowVar string, tableCols []string) (clause string, arg any, ok bool) {
	outer, ok := cond.(*core.Apply)
	if !ok {
		return "", nil, false
	}
	inner, ok := outer.Fn.(*core.Apply)
	if !ok {
		return "", nil, false
	}
	opID, ok := inner.Fn.(*core.Id)
	if !ok {
		return "", nil, false
	}
	sqlOp, ok := comparisonOps[opID.Name]
	if !ok {
		return "", nil, false
	}

	field, lit, swapped := splitFieldAndLiteral(inner.Arg, outer.Arg, rowVar)
	if field == "" {
		return "", nil, false
	}
	if swapped {
		sqlOp = flippedOp[sqlOp]
	}
	return fmt.Sprintf("%q %s ?", field, sqlOp), lit, true
}

var comparisonOps = map[string]string{
	"=": "=", "<>": "<>", "<": "<", "<=": "<=", ">": ">", ">=": ">=",
}

var flippedOp = map[string]string{
	"=": "=", "<>": "<>", "<": ">", "<=": ">=", ">": "<", ">=": "<=",
}

// splitFieldAndLiteral identifies which side of a binary comparison is a
// `#field (row)`-shaped RecordSel on rowVar and which is a literal,
// returning ("", nil, false) if the shape doesn't match.
func splitFieldAndLiteral(lhs, rhs core.Expr, rowVar string) (field string, lit any, swapped bool) {
	if sel, ok := lhs.(*core.RecordSel); ok {
		if id, ok := sel.Record.(*core.Id); ok && id.Name == rowVar {
			if l, ok := rhs.(*core.Lit); ok {
				return sel.Label, l.Value, false
			}
		}
	}
	if sel, ok := rhs.(*core.RecordSel); ok {
		if id, ok := sel.Record.(*core.Id); ok && id.Name == rowVar {
			if l, ok := lhs.(*core.Lit); ok {
				return sel.Label, l.Value, true
			}
		}
	}
	return "", nil, false
}

// Run executes plan and streams back its result rows.
func (a *Adapter) Run(plan relational.Plan) ([]relational.Row, error) {
	p, ok := plan.(*Plan)
	if !ok {
		return nil, fmt.Errorf("sqlite adapter: Run given a plan it did not produce")
	}
	rows, err := a.db.Query(p.query, p.args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite adapter: query: %w", err)
	}
	defer rows.Close()

	var out []relational.Row
	for rows.Next() {
		scanTargets := make([]any, len(p.cols))
		values := make([]any, len(p.cols))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, fmt.Errorf("sqlite adapter: scan row: %w", err)
		}
		row := relational.Row{}
		for i, c := range p.cols {
			row[c] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
