package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/generanker/pkg/errs"
	"github.com/yumyai/generanker/pkg/table"
)

type rows map[string][]float64

func build(t *testing.T, samples []string, values rows, order ...string) *table.Table {
	t.Helper()
	tb, err := table.New("gene_id", samples)
	require.NoError(t, err)
	for _, id := range order {
		require.NoError(t, tb.AddRow(id, values[id]))
	}
	return tb
}

func caseTable(t *testing.T) *table.Table {
	return build(t, []string{"sample_1", "sample_2", "sample_3"}, rows{
		"gene_1": {2.5, 1.0, 1.2},
		"gene_2": {0.1, 0, 3.2},
		"gene_3": {6.0, 3.2, 5.01},
	}, "gene_1", "gene_2", "gene_3")
}

func controlTable(t *testing.T) *table.Table {
	return build(t, []string{"sample_4", "sample_5", "sample_6"}, rows{
		"gene_1": {6.5, 4.0, 2.2},
		"gene_2": {1.6, 0.1, 0.1},
		"gene_3": {0.0, 0.15, 0.26},
	}, "gene_1", "gene_2", "gene_3")
}

func newDual(t *testing.T) *Dual {
	t.Helper()
	d, err := New(caseTable(t), controlTable(t), "gene_id")
	require.NoError(t, err)
	return d
}

func mustCase(t *testing.T, d *Dual) *table.Table {
	t.Helper()
	c, err := d.Case()
	require.NoError(t, err)
	return c
}

func mustControl(t *testing.T, d *Dual) *table.Table {
	t.Helper()
	c, err := d.Control()
	require.NoError(t, err)
	return c
}

func mustMerged(t *testing.T, d *Dual) *table.Table {
	t.Helper()
	m, err := d.Merged()
	require.NoError(t, err)
	return m
}

func TestNew(t *testing.T) {
	d := newDual(t)

	assert.True(t, mustCase(t, d).Equal(caseTable(t)))
	assert.True(t, mustControl(t, d).Equal(controlTable(t)))
	assert.Equal(t, "gene_id", d.On())
	assert.Equal(t, []string{"sample_1", "sample_2", "sample_3"}, d.CaseSamples())
	assert.Equal(t, []string{"sample_4", "sample_5", "sample_6"}, d.ControlSamples())
}

func TestNewRejects(t *testing.T) {
	shared := build(t, []string{"sample_3", "sample_9"}, nil)
	other, err := table.New("ensembl_id", []string{"sample_9"})
	require.NoError(t, err)

	tests := []struct {
		name         string
		caseT, ctrlT *table.Table
		on           string
	}{
		{"shared sample column", caseTable(t), shared, "gene_id"},
		{"control keyed differently", caseTable(t), other, "gene_id"},
		{"unknown key", caseTable(t), controlTable(t), "ensembl_id"},
		{"empty key", caseTable(t), controlTable(t), ""},
		{"missing table", nil, controlTable(t), "gene_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.caseT, tt.ctrlT, tt.on)
			assert.ErrorIs(t, err, errs.ErrConfiguration)
		})
	}
}

func TestMerged(t *testing.T) {
	d := newDual(t)

	want := build(t,
		[]string{"sample_1", "sample_2", "sample_3", "sample_4", "sample_5", "sample_6"},
		rows{
			"gene_1": {2.5, 1.0, 1.2, 6.5, 4.0, 2.2},
			"gene_2": {0.1, 0, 3.2, 1.6, 0.1, 0.1},
			"gene_3": {6.0, 3.2, 5.01, 0.0, 0.15, 0.26},
		}, "gene_1", "gene_2", "gene_3")

	assert.True(t, mustMerged(t, d).Equal(want))
}

func TestReplaceCaseKeepsControl(t *testing.T) {
	d := newDual(t)
	require.NoError(t, d.Sync())

	secondary := build(t, []string{"sample_7"}, rows{"gene_1": {0}, "gene_2": {0}}, "gene_1", "gene_2")
	require.NoError(t, d.SetCase(secondary))

	assert.True(t, mustCase(t, d).Equal(secondary))
	assert.True(t, mustControl(t, d).Equal(controlTable(t)))

	want := build(t, []string{"sample_7", "sample_4", "sample_5", "sample_6"}, rows{
		"gene_1": {0, 6.5, 4.0, 2.2},
		"gene_2": {0, 1.6, 0.1, 0.1},
	}, "gene_1", "gene_2")
	assert.True(t, mustMerged(t, d).Equal(want))
	assert.Equal(t, []string{"sample_7"}, d.CaseSamples())
}

func TestSetControlRejectsOverlap(t *testing.T) {
	d := newDual(t)

	bad := build(t, []string{"sample_1"}, rows{"gene_1": {1}}, "gene_1")
	assert.ErrorIs(t, d.SetControl(bad), errs.ErrConfiguration)
}

func TestSyncIntersectsAndIsIdempotent(t *testing.T) {
	c := build(t, []string{"a"}, rows{"g3": {3}, "g1": {1}, "only_case": {9}}, "g3", "g1", "only_case")
	k := build(t, []string{"b"}, rows{"g1": {10}, "only_control": {8}, "g3": {30}}, "g1", "only_control", "g3")

	d, err := New(c, k, "gene_id")
	require.NoError(t, err)

	require.NoError(t, d.Sync())
	first := []*table.Table{mustCase(t, d), mustControl(t, d), mustMerged(t, d)}

	assert.Equal(t, []string{"g1", "g3"}, first[0].IDs())
	assert.Equal(t, []string{"g1", "g3"}, first[1].IDs())
	assert.Equal(t, []float64{30}, first[1].Row(1))

	require.NoError(t, d.Sync())
	second := []*table.Table{mustCase(t, d), mustControl(t, d), mustMerged(t, d)}
	for i := range first {
		assert.True(t, first[i].Equal(second[i]))
	}
}

func TestDetangleRoundTrip(t *testing.T) {
	d := newDual(t)
	merged := mustMerged(t, d)

	require.NoError(t, d.Sync())
	assert.True(t, mustCase(t, d).Equal(caseTable(t)))
	assert.True(t, mustControl(t, d).Equal(controlTable(t)))

	again, err := table.InnerJoin(mustCase(t, d), mustControl(t, d))
	require.NoError(t, err)
	assert.True(t, again.Equal(merged))
}

func TestSetMerged(t *testing.T) {
	d := newDual(t)
	require.NoError(t, d.Sync())
	merged := mustMerged(t, d)

	// Columns may come back in another order.
	shuffled, err := merged.Select([]string{"sample_6", "sample_1", "sample_5", "sample_2", "sample_4", "sample_3"})
	require.NoError(t, err)
	doubled := shuffled.Map(func(v float64) float64 { return 2 * v })
	require.NoError(t, d.SetMerged(doubled))

	c := mustCase(t, d)
	assert.Equal(t, []string{"gene_id", "sample_1", "sample_2", "sample_3"}, c.Columns())
	assert.Equal(t, []float64{5, 2, 2.4}, c.Row(0))

	missing, err := merged.Select([]string{"sample_1", "sample_2"})
	require.NoError(t, err)
	assert.ErrorIs(t, d.SetMerged(missing), errs.ErrConfiguration)

	renamed := build(t,
		[]string{"sample_1", "sample_2", "sample_3", "sample_4", "sample_5", "sample_9"},
		rows{"gene_1": {1, 1, 1, 1, 1, 1}}, "gene_1")
	assert.ErrorIs(t, d.SetMerged(renamed), errs.ErrConfiguration)
}

func TestViewsAreCopies(t *testing.T) {
	d := newDual(t)

	c := mustCase(t, d)
	require.NoError(t, c.AddRow("gene_4", []float64{1, 1, 1}))
	k := mustControl(t, d)
	require.NoError(t, k.AddRow("gene_4", []float64{1, 1, 1}))
	m := mustMerged(t, d)
	require.NoError(t, m.AddRow("gene_9", []float64{1, 1, 1, 1, 1, 1}))

	assert.True(t, mustCase(t, d).Equal(caseTable(t)))
	assert.True(t, mustControl(t, d).Equal(controlTable(t)))
	assert.Equal(t, []string{"gene_1", "gene_2", "gene_3"}, mustMerged(t, d).IDs())

	require.NoError(t, d.Sync())
	p := mustCase(t, d)
	require.NoError(t, p.AddRow("gene_5", []float64{0, 0, 0}))
	assert.Equal(t, []string{"gene_1", "gene_2", "gene_3"}, mustCase(t, d).IDs())
}

func TestZeroValueViolatesInvariant(t *testing.T) {
	var d Dual

	_, err := d.Case()
	assert.ErrorIs(t, err, errs.ErrInvariant)
	_, err = d.Control()
	assert.ErrorIs(t, err, errs.ErrInvariant)
	_, err = d.Merged()
	assert.ErrorIs(t, err, errs.ErrInvariant)
	assert.ErrorIs(t, d.Sync(), errs.ErrInvariant)
}
