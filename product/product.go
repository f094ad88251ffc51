/*
Package product enumerates candidate PCR products (amplicons) from forward
and reverse annealing sites found by package match, and tracks each
product's footprint and, later, its kinetic yield.
*/
package product

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/koppari-bio/primerscope/duplex"
)

// Region is a 1-based, inclusive interval on one template. Two Regions
// with different TemplateID never overlap or merge, regardless of their
// coordinates.
type Region struct {
	TemplateID string
	Start, End int
}

// NewRegion builds a Region, clamping Start to 1 if given a non-positive
// value (mirroring the original's "margin" regions that start at the
// template's first base).
func NewRegion(templateID string, start, end int) Region {
	if start < 1 {
		start = 1
	}
	return Region{TemplateID: templateID, Start: start, End: end}
}

// Len returns the number of bases the region spans.
func (r Region) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// Overlaps reports whether r and o cover any of the same base on the same
// template.
func (r Region) Overlaps(o Region) bool {
	if r.TemplateID != o.TemplateID {
		return false
	}
	return r.Start <= o.End && o.Start <= r.End
}

// Merge returns the smallest Region spanning both r and o. Callers must
// check Overlaps (or adjacency) first if disjoint regions should not be
// silently bridged; Merge itself never rejects a non-overlapping pair, in
// keeping with the original's unconditional interval union on `+=`.
func (r Region) Merge(o Region) Region {
	start := r.Start
	if o.Start < start {
		start = o.Start
	}
	end := r.End
	if o.End > end {
		end = o.End
	}
	return Region{TemplateID: r.TemplateID, Start: start, End: end}
}

// CompactRegions sorts regions by Start and merges every pair that
// overlaps or touches, producing the minimal covering set — the Go
// equivalent of _add_template's footprint compaction.
func CompactRegions(regions []Region) []Region {
	if len(regions) == 0 {
		return nil
	}
	sorted := append([]Region(nil), regions...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].TemplateID != sorted[j].TemplateID {
			return sorted[i].TemplateID < sorted[j].TemplateID
		}
		return sorted[i].Start < sorted[j].Start
	})
	out := []Region{sorted[0]}
	for _, r := range sorted[1:] {
		last := &out[len(out)-1]
		if last.TemplateID == r.TemplateID && r.Start <= last.End+1 {
			*last = last.Merge(r)
			continue
		}
		out = append(out, r)
	}
	return out
}

// VariantDuplex pairs a scored duplex with the primer/variant identity
// that formed it.
type VariantDuplex struct {
	PrimerID  string
	VariantID string
	Duplex    duplex.Duplex
}

// AnnealingSite is one candidate binding position on a template, with the
// duplex each primer variant forms there.
type AnnealingSite struct {
	Position int
	Variants []VariantDuplex
}

// Product is one candidate amplicon: a template region bounded by a
// forward and a reverse annealing site, with the primer variants that can
// prime it and (once kinetics has run) its yield.
type Product struct {
	TemplateID string
	Start, End int

	FwdSites, RevSites []VariantDuplex
	FwdFootprint       Region
	RevFootprint       Region

	Quantity     float64
	CyclesActive int
}

// Key returns a stable identifier for the product's template region,
// matching the hashing the original uses to merge duplicate Region
// objects into one Product.
func (p Product) Key() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%d|%d", p.TemplateID, p.Start, p.End)
	return h.Sum64()
}

// Len returns the amplicon length.
func (p Product) Len() int {
	return Region{p.TemplateID, p.Start, p.End}.Len()
}

// Merge combines two Products that were independently discovered for the
// same (or overlapping) template region: footprints and primer sites are
// unioned, and the region grows to the envelope of both.
func (p Product) Merge(o Product) Product {
	region := Region{p.TemplateID, p.Start, p.End}.Merge(Region{o.TemplateID, o.Start, o.End})
	out := Product{
		TemplateID:   region.TemplateID,
		Start:        region.Start,
		End:          region.End,
		FwdSites:     append(append([]VariantDuplex(nil), p.FwdSites...), o.FwdSites...),
		RevSites:     append(append([]VariantDuplex(nil), p.RevSites...), o.RevSites...),
		FwdFootprint: p.FwdFootprint.Merge(o.FwdFootprint),
		RevFootprint: p.RevFootprint.Merge(o.RevFootprint),
	}
	return out
}

// Config bounds which candidate amplicons are accepted by Enumerate.
type Config struct {
	MinAmplicon     int
	MaxAmplicon     int
	KMin            float64
	WithExonuclease bool
}

// primerLookup reports whether seq is one of the unambiguous variant
// sequences of any primer the caller supplied to the analysis, per the
// membership check _add_product performs against self._primers.
type primerLookup interface {
	HasVariant(seq string) bool
}

// VariantSeq maps a VariantDuplex's sequence back out so Enumerate can
// run the membership check without package product depending on package
// primers (it depends only on the thin interface above, supplied by the
// caller alongside the sequence each VariantDuplex actually matched).
type VariantSeq struct {
	VariantDuplex
	Sequence string
}

// Enumerate pairs every forward site with every reverse site downstream
// of it within [cfg.MinAmplicon, cfg.MaxAmplicon], keeping only products
// backed by at least one valid forward and one valid reverse duplex. A
// duplex is valid if its K is at least cfg.KMin, it does not carry a 3'
// mismatch (unless cfg.WithExonuclease allows read-through), and its
// variant sequence belongs to one of the primers supplied.
func Enumerate(templateID string, fwd, rev []AnnealingSite, fwdSeqs, revSeqs map[int][]VariantSeq, primerSet primerLookup, primerLen int, cfg Config) []*Product {
	var out []*Product
	for _, f := range fwd {
		for _, r := range rev {
			start := f.Position + 1
			end := r.Position - 1
			length := end - start + 1
			if length < cfg.MinAmplicon || length > cfg.MaxAmplicon {
				continue
			}

			validFwd := filterValid(fwdSeqs[f.Position], cfg, primerSet, false)
			validRev := filterValid(revSeqs[r.Position], cfg, primerSet, true)
			if len(validFwd) == 0 || len(validRev) == 0 {
				continue
			}

			p := &Product{
				TemplateID: templateID,
				Start:      start,
				End:        end,
				FwdSites:   toVariantDuplexes(validFwd),
				RevSites:   toVariantDuplexes(validRev),
				FwdFootprint: Region{
					TemplateID: templateID,
					Start:      max(start-primerLen, 1),
					End:        max(start-1, 1),
				},
				RevFootprint: Region{
					TemplateID: templateID,
					Start:      end + 1,
					End:        end + primerLen,
				},
			}
			out = append(out, p)
		}
	}
	return mergeByKey(out)
}

func filterValid(sites []VariantSeq, cfg Config, primerSet primerLookup, isReverse bool) []VariantSeq {
	var out []VariantSeq
	for _, s := range sites {
		if s.Duplex.K < cfg.KMin {
			continue
		}
		if !cfg.WithExonuclease && s.Duplex.Has3PrimeMismatch {
			continue
		}
		if primerSet != nil && !primerSet.HasVariant(s.Sequence) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func toVariantDuplexes(sites []VariantSeq) []VariantDuplex {
	out := make([]VariantDuplex, len(sites))
	for i, s := range sites {
		out[i] = s.VariantDuplex
	}
	return out
}

func mergeByKey(products []*Product) []*Product {
	byKey := map[uint64]*Product{}
	var order []uint64
	for _, p := range products {
		k := p.Key()
		if existing, ok := byKey[k]; ok {
			merged := existing.Merge(*p)
			byKey[k] = &merged
			continue
		}
		byKey[k] = p
		order = append(order, k)
	}
	out := make([]*Product, 0, len(order))
	for _, k := range order {
		out = append(out, byKey[k])
	}
	return out
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
