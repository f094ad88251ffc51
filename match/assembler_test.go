package match

import (
	"testing"

	"github.com/koppari-bio/primerscope/duplex"
	"github.com/koppari-bio/primerscope/primers"
	"github.com/koppari-bio/primerscope/template"
)

// alwaysMatchEvaluator accepts every duplex with a fixed K, so assembler
// tests can exercise the plumbing around Evaluate without depending on
// nearest-neighbor thermodynamics.
type alwaysMatchEvaluator struct{ k float64 }

func (e alwaysMatchEvaluator) Evaluate(variant, templateWindowRC string, pcrT float64) (*duplex.Duplex, bool) {
	return &duplex.Duplex{K: e.k}, true
}

type neverMatchEvaluator struct{}

func (neverMatchEvaluator) Evaluate(variant, templateWindowRC string, pcrT float64) (*duplex.Duplex, bool) {
	return nil, false
}

func TestAssembleSitesMirrorsForwardAndReversePositions(t *testing.T) {
	primer, err := primers.NewPrimer("p", "ACGT", 1e-7)
	if err != nil {
		t.Fatalf("NewPrimer failed: %v", err)
	}
	seq := []byte("TTTTACGTTTTT")
	cfg := AssembleConfig{Evaluator: alwaysMatchEvaluator{k: 500}}

	fwdSites := assembleSites(seq, *primer, 4, len(seq), []int{4}, false, cfg)
	if len(fwdSites) != 1 {
		t.Fatalf("assembleSites (forward) returned %d sites, want 1", len(fwdSites))
	}
	if want := mirrorPosition(4, 4, len(seq), false); fwdSites[0].Position != want {
		t.Errorf("forward Position = %d, want %d", fwdSites[0].Position, want)
	}
	if len(fwdSites[0].Variants) != 1 || fwdSites[0].Variants[0].Duplex.K != 500 {
		t.Errorf("unexpected variants on forward site: %+v", fwdSites[0].Variants)
	}

	revSites := assembleSites(seq, *primer, 4, len(seq), []int{4}, true, cfg)
	if len(revSites) != 1 {
		t.Fatalf("assembleSites (reverse) returned %d sites, want 1", len(revSites))
	}
	if want := mirrorPosition(4, 4, len(seq), true); revSites[0].Position != want {
		t.Errorf("reverse Position = %d, want %d", revSites[0].Position, want)
	}
}

func TestAssembleSitesDropsPositionsWithNoValidVariant(t *testing.T) {
	primer, err := primers.NewPrimer("p", "ACGT", 1e-7)
	if err != nil {
		t.Fatalf("NewPrimer failed: %v", err)
	}
	seq := []byte("TTTTACGTTTTT")
	cfg := AssembleConfig{Evaluator: neverMatchEvaluator{}}

	sites := assembleSites(seq, *primer, 4, len(seq), []int{4}, false, cfg)
	if len(sites) != 0 {
		t.Errorf("assembleSites returned %d sites, want 0 when every variant is rejected", len(sites))
	}
}

func TestFindRejectsTemplateShorterThanPrimer(t *testing.T) {
	primer, err := primers.NewPrimer("p", "ACGTACGTACGTACGTACGT", 1e-7)
	if err != nil {
		t.Fatalf("NewPrimer failed: %v", err)
	}
	tpl := template.New("t", "ACGT")

	_, _, err = Find(tpl, *primer, AssembleConfig{})
	if err == nil {
		t.Error("Find should reject a template shorter than the primer")
	}
}

func TestFindUsesDefaultEvaluatorWhenNoneSupplied(t *testing.T) {
	cfg := AssembleConfig{}
	if _, ok := cfg.evaluator().(duplex.NearestNeighborEvaluator); !ok {
		t.Errorf("evaluator() = %T, want duplex.NearestNeighborEvaluator", cfg.evaluator())
	}
	if got := cfg.pcrTemperature(); got != PCRTemperatureKelvin {
		t.Errorf("pcrTemperature() = %v, want default %v", got, PCRTemperatureKelvin)
	}
	custom := AssembleConfig{PCRTemperature: 310}
	if got := custom.pcrTemperature(); got != 310 {
		t.Errorf("pcrTemperature() = %v, want overridden 310", got)
	}
}
