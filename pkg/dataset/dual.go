// Package dataset holds the case/control pair that every ranking method reads.
package dataset

import (
	"github.com/yumyai/generanker/pkg/errs"
	"github.com/yumyai/generanker/pkg/table"
)

// view is one cached table of a Dual. A stale view must be recomputed from
// the others before it is read.
type view struct {
	t       *table.Table
	current bool
}

func (v *view) set(t *table.Table) {
	v.t, v.current = t, true
}

func (v *view) invalidate() {
	v.t, v.current = nil, false
}

// Dual keeps three mutually consistent views of an expression experiment:
// the case table, the control table and their inner join on the identifier
// column. Writing one view invalidates the views derived from it.
//
// Case and control are rebuilt from merged by projecting the sample columns
// each side contributed. Merged is rebuilt by joining case and control.
// A Dual is not safe for concurrent use.
type Dual struct {
	on string

	caseSamples    []string
	controlSamples []string

	caseView    view
	controlView view
	mergedView  view
}

// New validates the pair and returns a Dual whose case and control views are
// current. Both tables must be keyed by on and share no sample column.
func New(caseTable, controlTable *table.Table, on string) (*Dual, error) {
	if caseTable == nil || controlTable == nil {
		return nil, errs.Configf("case and control tables are both required")
	}
	if err := checkKey(caseTable, on, "case"); err != nil {
		return nil, err
	}
	if err := checkKey(controlTable, on, "control"); err != nil {
		return nil, err
	}
	if err := checkDisjoint(caseTable.Samples(), controlTable.Samples()); err != nil {
		return nil, err
	}

	d := &Dual{
		on:             on,
		caseSamples:    caseTable.Samples(),
		controlSamples: controlTable.Samples(),
	}
	d.caseView.set(caseTable.SortByID())
	d.controlView.set(controlTable.SortByID())
	return d, nil
}

func checkKey(t *table.Table, on, side string) error {
	if on == "" {
		return errs.Configf("identifier column name is empty")
	}
	if t.IDColumn() != on {
		return errs.Configf("identifier column %q is missing from the %s table", on, side)
	}
	return nil
}

func checkDisjoint(a, b []string) error {
	seen := make(map[string]bool, len(a))
	for _, s := range a {
		seen[s] = true
	}
	for _, s := range b {
		if seen[s] {
			return errs.Configf("column %q appears in both case and control", s)
		}
	}
	return nil
}

// On is the identifier column shared by every view.
func (d *Dual) On() string { return d.on }

// CaseSamples returns the sample columns that belong to the case side.
func (d *Dual) CaseSamples() []string { return append([]string(nil), d.caseSamples...) }

// ControlSamples returns the sample columns that belong to the control side.
func (d *Dual) ControlSamples() []string { return append([]string(nil), d.controlSamples...) }

// Case returns a copy of the case view, projecting it out of merged when
// stale.
func (d *Dual) Case() (*table.Table, error) {
	return d.side(&d.caseView, d.caseSamples, "case")
}

// Control returns a copy of the control view, projecting it out of merged
// when stale.
func (d *Dual) Control() (*table.Table, error) {
	return d.side(&d.controlView, d.controlSamples, "control")
}

func (d *Dual) side(v *view, samples []string, name string) (*table.Table, error) {
	if v.current {
		return v.t.Clone(), nil
	}
	if !d.mergedView.current {
		return nil, errs.Invariantf("%s table requested with neither it nor merged available", name)
	}

	t, err := d.mergedView.t.Select(samples)
	if err != nil {
		return nil, err
	}
	v.set(t)
	return t.Clone(), nil
}

// Merged returns a copy of the inner join of case and control sorted by
// identifier, computing it when stale.
func (d *Dual) Merged() (*table.Table, error) {
	m, err := d.merged()
	if err != nil {
		return nil, err
	}
	return m.Clone(), nil
}

func (d *Dual) merged() (*table.Table, error) {
	if d.mergedView.current {
		return d.mergedView.t, nil
	}
	if !d.caseView.current || !d.controlView.current {
		return nil, errs.Invariantf("merged table requested without both case and control")
	}

	m, err := table.InnerJoin(d.caseView.t, d.controlView.t)
	if err != nil {
		return nil, err
	}
	d.mergedView.set(m)
	return m, nil
}

// Sync computes merged if needed and then invalidates case and control, so
// that subsequent reads return only the shared identifiers in merged order.
// Calling Sync repeatedly has no further effect.
func (d *Dual) Sync() error {
	if _, err := d.merged(); err != nil {
		return err
	}
	d.caseView.invalidate()
	d.controlView.invalidate()
	return nil
}

// SetCase replaces the case table and invalidates merged.
func (d *Dual) SetCase(t *table.Table) error {
	return d.setSide(t, &d.caseView, &d.caseSamples, &d.controlView, d.controlSamples, "case")
}

// SetControl replaces the control table and invalidates merged.
func (d *Dual) SetControl(t *table.Table) error {
	return d.setSide(t, &d.controlView, &d.controlSamples, &d.caseView, d.caseSamples, "control")
}

func (d *Dual) setSide(t *table.Table, own *view, ownSamples *[]string, other *view, otherSamples []string, name string) error {
	if t == nil {
		return errs.Configf("%s table is nil", name)
	}
	if err := checkKey(t, d.on, name); err != nil {
		return err
	}
	if err := checkDisjoint(t.Samples(), otherSamples); err != nil {
		return err
	}

	// The other side may only live inside merged; keep it before merged goes stale.
	if !other.current {
		if !d.mergedView.current {
			return errs.Invariantf("cannot replace %s: the other side is not available", name)
		}
		ot, err := d.mergedView.t.Select(otherSamples)
		if err != nil {
			return err
		}
		other.set(ot)
	}

	own.set(t.SortByID())
	*ownSamples = t.Samples()
	d.mergedView.invalidate()
	return nil
}

// SetMerged replaces the merged table. Its columns must be the same set as
// the current merged columns, in any order. Case and control become stale.
func (d *Dual) SetMerged(t *table.Table) error {
	if t == nil {
		return errs.Configf("merged table is nil")
	}
	if err := checkKey(t, d.on, "merged"); err != nil {
		return err
	}

	samples := append(append([]string(nil), d.caseSamples...), d.controlSamples...)
	want, err := table.New(d.on, samples)
	if err != nil {
		return err
	}
	if !table.SameColumns(want, t) {
		return errs.Configf("merged table has columns %v, expected %v in any order", t.Columns(), want.Columns())
	}

	d.mergedView.set(t.SortByID())
	d.caseView.invalidate()
	d.controlView.invalidate()
	return nil
}
