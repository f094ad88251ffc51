package product

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/koppari-bio/primerscope/duplex"
)

func TestRegionOverlaps(t *testing.T) {
	a := Region{TemplateID: "t1", Start: 10, End: 20}
	cases := []struct {
		name string
		b    Region
		want bool
	}{
		{"same template overlapping", Region{"t1", 15, 25}, true},
		{"same template touching at edge", Region{"t1", 20, 30}, true},
		{"same template disjoint", Region{"t1", 21, 30}, false},
		{"different template same coords", Region{"t2", 10, 20}, false},
	}
	for _, c := range cases {
		if got := a.Overlaps(c.b); got != c.want {
			t.Errorf("%s: Overlaps = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestRegionMerge(t *testing.T) {
	a := Region{TemplateID: "t1", Start: 10, End: 20}
	b := Region{TemplateID: "t1", Start: 15, End: 30}
	merged := a.Merge(b)
	want := Region{TemplateID: "t1", Start: 10, End: 30}
	if merged != want {
		t.Errorf("Merge = %+v, want %+v", merged, want)
	}
}

func TestNewRegionClampsStart(t *testing.T) {
	r := NewRegion("t1", -5, 10)
	if r.Start != 1 {
		t.Errorf("Start = %d, want 1", r.Start)
	}
}

func TestRegionLen(t *testing.T) {
	if got := (Region{Start: 10, End: 20}).Len(); got != 11 {
		t.Errorf("Len = %d, want 11", got)
	}
	if got := (Region{Start: 20, End: 10}).Len(); got != 0 {
		t.Errorf("Len of an inverted region = %d, want 0", got)
	}
}

func TestCompactRegions(t *testing.T) {
	regions := []Region{
		{"t1", 50, 60},
		{"t1", 1, 10},
		{"t1", 11, 20},
		{"t2", 1, 5},
	}
	got := CompactRegions(regions)
	want := []Region{
		{"t1", 1, 20},
		{"t1", 50, 60},
		{"t2", 1, 5},
	}
	if len(got) != len(want) {
		t.Fatalf("CompactRegions returned %d regions, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("region %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestProductKeyStableAndDistinct(t *testing.T) {
	p1 := Product{TemplateID: "t1", Start: 10, End: 20}
	p2 := Product{TemplateID: "t1", Start: 10, End: 20}
	p3 := Product{TemplateID: "t1", Start: 10, End: 21}
	if p1.Key() != p2.Key() {
		t.Error("identical products should hash to the same key")
	}
	if p1.Key() == p3.Key() {
		t.Error("products over different regions should hash to different keys")
	}
}

func TestProductLen(t *testing.T) {
	p := Product{TemplateID: "t1", Start: 100, End: 199}
	if got := p.Len(); got != 100 {
		t.Errorf("Len = %d, want 100", got)
	}
}

func TestProductMergeUnionsSitesAndFootprints(t *testing.T) {
	a := Product{
		TemplateID:   "t1",
		Start:        100,
		End:          200,
		FwdSites:     []VariantDuplex{{PrimerID: "p", VariantID: "p.0"}},
		FwdFootprint: Region{"t1", 80, 99},
		RevFootprint: Region{"t1", 201, 220},
	}
	b := Product{
		TemplateID:   "t1",
		Start:        100,
		End:          210,
		RevSites:     []VariantDuplex{{PrimerID: "q", VariantID: "q.0"}},
		FwdFootprint: Region{"t1", 75, 99},
		RevFootprint: Region{"t1", 211, 230},
	}
	merged := a.Merge(b)
	if merged.Start != 100 || merged.End != 210 {
		t.Errorf("merged region = [%d,%d], want [100,210]", merged.Start, merged.End)
	}
	if len(merged.FwdSites) != 1 || len(merged.RevSites) != 1 {
		t.Errorf("merged sites = fwd:%d rev:%d, want 1 and 1", len(merged.FwdSites), len(merged.RevSites))
	}
	if merged.FwdFootprint != (Region{"t1", 75, 99}) {
		t.Errorf("merged fwd footprint = %+v, want [75,99]", merged.FwdFootprint)
	}
	if merged.RevFootprint != (Region{"t1", 201, 230}) {
		t.Errorf("merged rev footprint = %+v, want [201,230]", merged.RevFootprint)
	}
}

type fakePrimerSet map[string]bool

func (s fakePrimerSet) HasVariant(seq string) bool { return s[seq] }

func TestEnumeratePairsWithinBoundsAndFiltersInvalid(t *testing.T) {
	fwdSite := AnnealingSite{
		Position: 10,
		Variants: []VariantDuplex{
			{PrimerID: "fwd", VariantID: "fwd.0", Duplex: duplex.Duplex{K: 1000}},
		},
	}
	revSite := AnnealingSite{
		Position: 60,
		Variants: []VariantDuplex{
			{PrimerID: "rev", VariantID: "rev.0", Duplex: duplex.Duplex{K: 1000}},
		},
	}
	tooFarRevSite := AnnealingSite{
		Position: 5000,
		Variants: []VariantDuplex{
			{PrimerID: "rev", VariantID: "rev.1", Duplex: duplex.Duplex{K: 1000}},
		},
	}

	fwdSeqs := map[int][]VariantSeq{
		10: {{VariantDuplex: fwdSite.Variants[0], Sequence: "AAAA"}},
	}
	revSeqs := map[int][]VariantSeq{
		60:   {{VariantDuplex: revSite.Variants[0], Sequence: "CCCC"}},
		5000: {{VariantDuplex: tooFarRevSite.Variants[0], Sequence: "CCCC"}},
	}

	primerSet := fakePrimerSet{"AAAA": true, "CCCC": true}
	cfg := Config{MinAmplicon: 10, MaxAmplicon: 100, KMin: 100}

	products := Enumerate("t1", []AnnealingSite{fwdSite}, []AnnealingSite{revSite, tooFarRevSite}, fwdSeqs, revSeqs, primerSet, 20, cfg)
	if len(products) != 1 {
		t.Fatalf("Enumerate returned %d products, want 1 (the too-long pairing should be dropped)", len(products))
	}
	p := products[0]
	if p.Start != 11 || p.End != 59 {
		t.Errorf("product region = [%d,%d], want [11,59]", p.Start, p.End)
	}
	if p.FwdFootprint.End != 10 || p.FwdFootprint.Start != max(11-20, 1) {
		t.Errorf("unexpected forward footprint: %+v", p.FwdFootprint)
	}
}

func TestCompactRegionsDiff(t *testing.T) {
	regions := []Region{{"t1", 1, 10}, {"t1", 5, 15}, {"t2", 1, 3}}
	want := []Region{{"t1", 1, 15}, {"t2", 1, 3}}
	if diff := cmp.Diff(want, CompactRegions(regions)); diff != "" {
		t.Errorf("CompactRegions mismatch (-want +got):\n%s", diff)
	}
}

func TestEnumerateDropsLowKDuplexes(t *testing.T) {
	fwdSite := AnnealingSite{
		Position: 10,
		Variants: []VariantDuplex{{PrimerID: "fwd", VariantID: "fwd.0", Duplex: duplex.Duplex{K: 1}}},
	}
	revSite := AnnealingSite{
		Position: 40,
		Variants: []VariantDuplex{{PrimerID: "rev", VariantID: "rev.0", Duplex: duplex.Duplex{K: 1}}},
	}
	fwdSeqs := map[int][]VariantSeq{10: {{VariantDuplex: fwdSite.Variants[0], Sequence: "AAAA"}}}
	revSeqs := map[int][]VariantSeq{40: {{VariantDuplex: revSite.Variants[0], Sequence: "CCCC"}}}
	primerSet := fakePrimerSet{"AAAA": true, "CCCC": true}
	cfg := Config{MinAmplicon: 1, MaxAmplicon: 1000, KMin: 100}

	products := Enumerate("t1", []AnnealingSite{fwdSite}, []AnnealingSite{revSite}, fwdSeqs, revSeqs, primerSet, 20, cfg)
	if len(products) != 0 {
		t.Errorf("Enumerate returned %d products, want 0 since both duplexes are below KMin", len(products))
	}
}
