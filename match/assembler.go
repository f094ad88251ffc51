package match

import (
	"fmt"

	"github.com/koppari-bio/primerscope/duplex"
	"github.com/koppari-bio/primerscope/primers"
	"github.com/koppari-bio/primerscope/product"
	"github.com/koppari-bio/primerscope/template"
	"github.com/koppari-bio/primerscope/transform"
)

// PCRTemperatureKelvin is the default annealing temperature (Kelvin) used
// to evaluate a duplex's equilibrium constant when a caller does not
// override it via Config.
const PCRTemperatureKelvin = 333.15 // 60C, a typical PCR annealing temperature

// AssembleConfig bundles the scorer Config with the duplex evaluator and
// temperature the assembler needs to turn scored positions into
// AnnealingSites.
type AssembleConfig struct {
	Config
	Evaluator   duplex.Evaluator
	PCRTemperature float64 // Kelvin; defaults to PCRTemperatureKelvin when zero
}

func (c AssembleConfig) evaluator() duplex.Evaluator {
	if c.Evaluator != nil {
		return c.Evaluator
	}
	return duplex.NearestNeighborEvaluator{}
}

func (c AssembleConfig) pcrTemperature() float64 {
	if c.PCRTemperature > 0 {
		return c.PCRTemperature
	}
	return PCRTemperatureKelvin
}

// Find scores a primer against both strands of a template and assembles
// annealing sites on each strand, evaluating every unambiguous variant of
// the primer at every candidate position.
func Find(tpl template.Template, primer primers.Primer, cfg AssembleConfig) (fwd, rev []product.AnnealingSite, err error) {
	pLen := primer.Len()
	tLen := tpl.Length
	if tLen < pLen || pLen == 0 {
		return nil, nil, fmt.Errorf("match: template %q (%d bp) must be at least as long as primer %q (%d bp), and neither may be empty", tpl.ID, tLen, primer.ID, pLen)
	}

	fwdBytes := []byte(tpl.Sequence())
	revBytes := []byte(transform.ReverseComplement(tpl.Sequence()))

	maxChunk := cfg.maxChunk()
	fwdScores := scoreTemplate(fwdBytes, primer.Master, pLen, maxChunk)
	revScores := scoreTemplate(revBytes, primer.Master, pLen, maxChunk)

	fwdCandidates := candidatePositions(fwdScores, tLen, pLen, cfg.Mismatches)
	revCandidates := candidatePositions(revScores, tLen, pLen, cfg.Mismatches)

	fwd = assembleSites(fwdBytes, primer, pLen, tLen, fwdCandidates, false, cfg)
	rev = assembleSites(revBytes, primer, pLen, tLen, revCandidates, true, cfg)
	return fwd, rev, nil
}

func assembleSites(seq []byte, primer primers.Primer, pLen, tLen int, positions []int, reverse bool, cfg AssembleConfig) []product.AnnealingSite {
	evaluator := cfg.evaluator()
	pcrT := cfg.pcrTemperature()

	sites := make([]product.AnnealingSite, 0, len(positions))
	for _, pos := range positions {
		window := string(seq[pos : pos+pLen])
		windowRC := transform.ReverseComplement(window)

		var variants []product.VariantDuplex
		for _, v := range primer.Variants {
			d, ok := evaluator.Evaluate(v.Sequence, windowRC, pcrT)
			if !ok {
				continue
			}
			variants = append(variants, product.VariantDuplex{
				PrimerID:  primer.ID,
				VariantID: v.ID,
				Duplex:    *d,
			})
		}
		if len(variants) == 0 {
			continue
		}
		sites = append(sites, product.AnnealingSite{
			Position: mirrorPosition(pos, pLen, tLen, reverse),
			Variants: variants,
		})
	}
	return sites
}
