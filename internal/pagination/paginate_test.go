package pagination

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/gompdf/gompage/internal/block"
	"github.com/gompdf/gompage/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatable(id string, h float64) *block.ContentBlock {
	return &block.ContentBlock{ID: id, Kind: block.Floatable, Height: h}
}

func atomic(id string, h float64) *block.ContentBlock {
	return &block.ContentBlock{ID: id, Kind: block.Atomic, Height: h}
}

func geom(h float64) geometry.Geometry {
	return geometry.Geometry{ContentHeight: h}
}

func pageIDs(res *Result) [][]string {
	out := make([][]string, 0, len(res.Pages))
	for _, p := range res.Pages {
		ids := make([]string, 0, len(p.Blocks))
		for _, b := range p.Blocks {
			ids = append(ids, b.ID)
		}
		out = append(out, ids)
	}
	return out
}

func TestAssembleScenarios(t *testing.T) {
	tests := []struct {
		name       string
		items      []block.Item
		height     float64
		want       [][]string
		overflow   []bool
		diagnostic []DiagnosticKind
	}{
		{
			name:     "Greedy fill",
			items:    []block.Item{floatable("a", 40), floatable("b", 40), floatable("c", 40)},
			height:   100,
			want:     [][]string{{"a", "b"}, {"c"}},
			overflow: []bool{false, false},
		},
		{
			name:     "Manual break",
			items:    []block.Item{floatable("a", 40), block.PageBreak{}, floatable("b", 10)},
			height:   100,
			want:     [][]string{{"a"}, {"b"}},
			overflow: []bool{false, false},
		},
		{
			name:       "Oversized atomic",
			items:      []block.Item{atomic("a", 80)},
			height:     50,
			want:       [][]string{{"a"}},
			overflow:   []bool{true},
			diagnostic: []DiagnosticKind{OversizedAtomicBlock},
		},
		{
			name:       "Oversized floatable",
			items:      []block.Item{floatable("a", 10), floatable("b", 120), floatable("c", 10)},
			height:     100,
			want:       [][]string{{"a"}, {"b"}, {"c"}},
			overflow:   []bool{false, true, false},
			diagnostic: []DiagnosticKind{OversizedFloatableBlock},
		},
		{
			name:     "Atomic moves wholesale",
			items:    []block.Item{floatable("a", 70), atomic("b", 40), floatable("c", 20)},
			height:   100,
			want:     [][]string{{"a"}, {"b", "c"}},
			overflow: []bool{false, false},
		},
		{
			name:     "Exact fit",
			items:    []block.Item{floatable("a", 50), atomic("b", 50)},
			height:   100,
			want:     [][]string{{"a", "b"}},
			overflow: []bool{false},
		},
		{
			name:     "Leading trailing and repeated markers",
			items:    []block.Item{block.PageBreak{}, floatable("a", 10), block.PageBreak{}, block.PageBreak{}, floatable("b", 10), block.PageBreak{}},
			height:   100,
			want:     [][]string{{"a"}, {"b"}},
			overflow: []bool{false, false},
		},
		{
			name:     "Marker after full page",
			items:    []block.Item{floatable("a", 100), block.PageBreak{}, floatable("b", 10)},
			height:   100,
			want:     [][]string{{"a"}, {"b"}},
			overflow: []bool{false, false},
		},
		{
			name:     "Zero height blocks",
			items:    []block.Item{floatable("a", 100), floatable("b", 0)},
			height:   100,
			want:     [][]string{{"a", "b"}},
			overflow: []bool{false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Assemble(tt.items, geom(tt.height))
			require.NoError(t, err)

			assert.Equal(t, tt.want, pageIDs(res))
			for i, p := range res.Pages {
				assert.Equal(t, i+1, p.Index)
				assert.Equal(t, tt.overflow[i], p.Overflow, "page %d", p.Index)
			}

			kinds := make([]DiagnosticKind, 0, len(res.Diagnostics))
			for _, d := range res.Diagnostics {
				kinds = append(kinds, d.Kind)
			}
			if tt.diagnostic == nil {
				assert.Empty(t, kinds)
			} else {
				assert.Equal(t, tt.diagnostic, kinds)
			}
		})
	}
}

func TestAssembleOversizedDiagnostic(t *testing.T) {
	res, err := Assemble([]block.Item{floatable("x", 5), atomic("big", 80)}, geom(50))
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 1)

	d := res.Diagnostics[0]
	assert.Equal(t, "big", d.BlockID)
	assert.Equal(t, 2, d.PageIndex)
	assert.Equal(t, 80.0, d.Height)
	assert.Equal(t, 50.0, d.Limit)
	assert.Contains(t, d.String(), "OversizedAtomicBlock")
	assert.Contains(t, d.String(), `"big"`)
	assert.Equal(t, 80.0, res.Pages[1].Used)
}

func TestAssembleEmpty(t *testing.T) {
	for _, items := range [][]block.Item{nil, {}, {block.PageBreak{}, block.PageBreak{}}} {
		res, err := Assemble(items, geom(100))
		require.NoError(t, err)
		require.Len(t, res.Pages, 1)
		assert.Equal(t, 1, res.Pages[0].Index)
		assert.True(t, res.Pages[0].IsEmpty())
		assert.Empty(t, res.Diagnostics)
	}
}

func TestAssembleInvalidGeometry(t *testing.T) {
	for _, g := range []geometry.Geometry{
		{ContentHeight: 0},
		{ContentHeight: -10},
		{ContentHeight: 100, HeaderHeight: -1},
		{ContentHeight: math.NaN()},
		{ContentHeight: math.Inf(1)},
		{ContentHeight: 100, HeaderHeight: math.NaN()},
		{ContentHeight: 100, FooterHeight: math.NaN()},
	} {
		res, err := Assemble([]block.Item{floatable("a", 10)}, g)
		assert.Nil(t, res)
		assert.True(t, errors.Is(err, geometry.ErrInvalidGeometry))
	}
}

func TestAssembleRejectsInvalidBlockHeights(t *testing.T) {
	for _, h := range []float64{math.NaN(), math.Inf(1), -1} {
		items := []block.Item{floatable("n", h)}
		for i := 0; i < 5; i++ {
			items = append(items, floatable(fmt.Sprintf("b%d", i), 60))
		}
		res, err := Assemble(items, geom(100))
		assert.Nil(t, res, h)
		assert.True(t, errors.Is(err, geometry.ErrInvalidGeometry), h)
	}
}

func randomItems(r *rand.Rand, n int) []block.Item {
	items := make([]block.Item, 0, n)
	for i := 0; i < n; i++ {
		switch r.Intn(6) {
		case 0:
			items = append(items, block.PageBreak{})
		case 1:
			items = append(items, atomic(fmt.Sprintf("b%d", i), float64(r.Intn(160))))
		default:
			items = append(items, floatable(fmt.Sprintf("b%d", i), float64(r.Intn(90))))
		}
	}
	return items
}

func TestAssembleProperties(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	g := geom(100)

	for run := 0; run < 200; run++ {
		items := randomItems(r, r.Intn(40))
		doc := block.NewDocument(items...)

		res, err := Assemble(items, g)
		require.NoError(t, err)

		// completeness: pages reproduce the block sequence
		var placed []*block.ContentBlock
		for i, p := range res.Pages {
			assert.Equal(t, i+1, p.Index)
			if len(res.Pages) > 1 {
				assert.False(t, p.IsEmpty(), "run %d page %d is empty", run, p.Index)
			}
			placed = append(placed, p.Blocks...)

			sum := 0.0
			for _, b := range p.Blocks {
				sum += b.Height
			}
			assert.InDelta(t, sum, p.Used, 1e-9)
			assert.Equal(t, p.Used > g.ContentHeight, p.Overflow)

			// an overflowing page holds exactly one block
			if p.Overflow {
				assert.Len(t, p.Blocks, 1)
			}
		}
		assert.Equal(t, doc.Blocks(), append([]*block.ContentBlock{}, placed...))

		// determinism
		again, err := Assemble(items, g)
		require.NoError(t, err)
		assert.Equal(t, pageIDs(res), pageIDs(again))

		// monotonic growth
		extra := append(append([]block.Item{}, items...), floatable("extra", float64(r.Intn(120))))
		grown, err := Assemble(extra, g)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, grown.PageCount(), res.PageCount())
	}
}

func TestAssembleManualBreakProperty(t *testing.T) {
	a := floatable("a", 10)
	b := floatable("b", 10)

	res, err := Assemble([]block.Item{a, block.PageBreak{}, b}, geom(1000))
	require.NoError(t, err)

	pageOf := map[string]int{}
	for _, p := range res.Pages {
		for _, blk := range p.Blocks {
			pageOf[blk.ID] = p.Index
		}
	}
	assert.Greater(t, pageOf["b"], pageOf["a"])
}

func TestAssembleDoesNotMutateInput(t *testing.T) {
	a := floatable("a", 40)
	items := []block.Item{a, block.PageBreak{}, atomic("b", 200)}
	snapshot := append([]block.Item{}, items...)

	_, err := Assemble(items, geom(100))
	require.NoError(t, err)
	assert.Equal(t, snapshot, items)
	assert.Equal(t, 40.0, a.Height)
}

func TestPaginatorCalculatePageCount(t *testing.T) {
	p := NewPaginator(geom(100))
	n, err := p.CalculatePageCount([]block.Item{floatable("a", 60), floatable("b", 60), floatable("c", 60)})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = NewPaginator(geom(0)).CalculatePageCount(nil)
	assert.True(t, errors.Is(err, geometry.ErrInvalidGeometry))
}
