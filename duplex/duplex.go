/*
Package duplex evaluates the thermodynamic stability of a primer
variant annealed to a template window.

The evaluation itself — nearest-neighbor thermodynamics across every
dinucleotide step of a duplex — is treated as an external, pure-function
collaborator per the matcher's design: callers can substitute their own
Evaluator (backed by a full unified nearest-neighbor model, e.g. the one
tabulated in original_source/DegenPrimer/UnifiedNN.py) without touching the
assembler that consumes it. NearestNeighborEvaluator is the default,
grounded on the same SantaLucia nearest-neighbor table package primers
uses for melting temperature, extended with the salt-independent gas
constant relation K = exp(-ΔG/RT).
*/
package duplex

import "math"

// gasConstant is R in cal/(mol*K), matching primers.gasConstant so that
// Tm and K computations stay thermodynamically consistent.
const gasConstant = 1.9872

// Duplex is the thermodynamic outcome of annealing one primer variant to
// one template window.
type Duplex struct {
	K                 float64
	Has3PrimeMismatch bool
}

// Evaluator scores a duplex formed between a primer variant (5'->3') and
// a template window already supplied as its reverse complement (so that,
// the two strands being antiparallel, position i of variant anneals
// against position len-1-i of templateWindowRC).
// It returns (nil, false) when the window cannot form a valid duplex
// (e.g. length mismatch).
type Evaluator interface {
	Evaluate(variant, templateWindowRC string, pcrT float64) (*Duplex, bool)
}

type thermodynamics struct{ H, S float64 }

var nearestNeighborsThermodynamics = map[string]thermodynamics{
	"AA": {-7.6, -21.3},
	"TT": {-7.6, -21.3},
	"AT": {-7.2, -20.4},
	"TA": {-7.2, -21.3},
	"CA": {-8.5, -22.7},
	"TG": {-8.5, -22.7},
	"GT": {-8.4, -22.4},
	"AC": {-8.4, -22.4},
	"CT": {-7.8, -21.0},
	"AG": {-7.8, -21.0},
	"GA": {-8.2, -22.2},
	"TC": {-8.2, -22.2},
	"CG": {-10.6, -27.2},
	"GC": {-9.8, -24.4},
	"GG": {-8.0, -19.9},
	"CC": {-8.0, -19.9},
}

// mismatchPenalty is applied, per step, to a dinucleotide step that does
// not base-pair at all (neither strand byte matches the other's
// complement), approximating the destabilizing effect documented for
// terminal mismatches in UnifiedNN.py's Terminal_mismatch_mean constant
// (-1.23, -0.21 kcal/mol and cal/mol-K respectively, averaged there; here
// applied per mismatched step rather than only at the terminus, since the
// matcher's candidate windows are already pre-filtered by the FFT scorer
// to be near-matches with only a handful of mismatches).
var mismatchPenalty = thermodynamics{H: 1.23, S: -0.21}

var complement = map[byte]byte{'A': 'T', 'T': 'A', 'G': 'C', 'C': 'G', 'N': 0}

// NearestNeighborEvaluator is the default Evaluator, computing ΔH/ΔS
// across the duplex's dinucleotide steps and converting to an
// equilibrium constant K = exp(-ΔG / R·T) at the supplied PCR
// temperature (Kelvin).
type NearestNeighborEvaluator struct{}

// Evaluate scores the duplex formed by variant annealing to
// templateWindowRC (already the reverse complement of the template's
// annealing window, per the matcher's convention). Returns (nil, false)
// if the two strands are not the same length.
func (NearestNeighborEvaluator) Evaluate(variant, templateWindowRC string, pcrT float64) (*Duplex, bool) {
	if len(variant) == 0 || len(variant) != len(templateWindowRC) {
		return nil, false
	}

	var dH, dS float64
	mismatches := 0
	for i := 0; i+1 < len(variant); i++ {
		step := variant[i : i+2]
		t := nearestNeighborsThermodynamics[step]
		dH += t.H
		dS += t.S
		if !basePairs(variant[i], templateWindowRC[len(variant)-1-i]) {
			dH += mismatchPenalty.H
			dS += mismatchPenalty.S
			mismatches++
		}
	}
	if !basePairs(variant[len(variant)-1], templateWindowRC[0]) {
		mismatches++
	}

	dG := dH - pcrT*dS/1000.0
	K := math.Exp(-dG * 1000.0 / (gasConstant * pcrT))
	if K < 0 {
		return nil, false
	}

	last := variant[len(variant)-1]
	has3PrimeMismatch := complement[templateWindowRC[0]] != last

	return &Duplex{K: K, Has3PrimeMismatch: has3PrimeMismatch}, true
}

func basePairs(a, b byte) bool {
	c, ok := complement[b]
	return ok && c == a
}
