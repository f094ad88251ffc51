/*
Package primers models degenerate PCR primers: their unambiguous variants,
melting temperature, and concentration.

A degenerate primer is written once as an IUPAC master sequence (e.g.
"ATATTCTACRACGGCTATCC") and expanded here into every unambiguous ATGC
variant it represents. Downstream packages (match, duplex, kinetics) work
with the expanded variants; only the frequency-domain scorer in package
match consumes the degenerate master sequence directly.

Melting temperature formulas are adapted from
https://www.sigmaaldrich.com/technical-documents/articles/biology/oligos-melting-temp.html
*/
package primers

import (
	"fmt"
	"math"
	"strings"

	"github.com/koppari-bio/primerscope/alphabet"
	"github.com/koppari-bio/primerscope/transform/variants"
)

// Variant is one unambiguous (ATGC-only) sequence a degenerate primer can
// resolve to, paired with a stable identifier derived from the primer's ID
// and the variant's index.
type Variant struct {
	Sequence string
	ID       string
}

// Primer is a degenerate primer: a master IUPAC sequence, its eagerly
// enumerated unambiguous variants, a concentration in mol/L, and a stable
// identifier. All variants share the master sequence's length and strand
// orientation.
type Primer struct {
	ID       string
	Master   string
	Variants []Variant
	Conc     float64
}

// Len returns the shared length of every variant (and of the master
// sequence).
func (p Primer) Len() int {
	return len(p.Master)
}

// NewPrimer builds a Primer from an IUPAC master sequence, eagerly
// enumerating every unambiguous variant it represents. This keeps duplex
// evaluation downstream a pure function of (variant, template window) with
// no hidden degeneracy state, per the degenerate-primer enumeration design
// note.
func NewPrimer(id, master string, conc float64) (*Primer, error) {
	master = strings.ToUpper(master)
	if master == "" {
		return nil, fmt.Errorf("primers: primer %q has an empty sequence", id)
	}
	if bad := alphabet.IUPACNucleotide.Check(master); bad >= 0 {
		return nil, fmt.Errorf("primers: primer %q contains non-IUPAC byte %q at position %d", id, master[bad], bad)
	}
	unambiguous, err := variants.AllVariantsIUPAC(master)
	if err != nil {
		return nil, fmt.Errorf("primers: expanding primer %q: %w", id, err)
	}
	vs := make([]Variant, len(unambiguous))
	for i, seq := range unambiguous {
		vs[i] = Variant{Sequence: seq, ID: fmt.Sprintf("%s.%d", id, i)}
	}
	return &Primer{ID: id, Master: master, Variants: vs, Conc: conc}, nil
}

// HasVariant reports whether seq is one of this primer's unambiguous
// variant sequences. Used by the product enumerator to guard against a
// duplex formed by a variant that does not actually belong to any primer
// supplied to the analysis.
func (p Primer) HasVariant(seq string) bool {
	for _, v := range p.Variants {
		if v.Sequence == seq {
			return true
		}
	}
	return false
}

// thermodynamics stores enthalpy (dH, kcal/mol) and entropy (dS, cal/mol-K) values for nucleotide pairs.
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
} // penalties for nearest neighbor effects

var initThermodynamics = thermodynamics{0.2, -5.7}      // penalty for initiating helix
var symmetryThermodynamics = thermodynamics{0, -1.4}    // penalty for self-complementarity
var terminalATThermodynamics = thermodynamics{2.2, 6.9} // penalty for 3' AT

// gasConstant is R in cal/(mol*K), shared with the default nearest-neighbor
// duplex evaluator so that MeltingTemp and K = exp(-dG/RT) stay consistent.
const gasConstant = 1.9872

// SantaLucia calculates the melting point of a short DNA sequence (15-200 bp), using the
// Nearest Neighbors method [SantaLucia, J. (1998) PNAS, doi:10.1073/pnas.95.4.1460].
func SantaLucia(seq string, cPrimer, cNa, cMg float64) (Tm, dH, dS float64) {
	seq = strings.ToUpper(seq)

	var x float64 // symmetry factor

	dH += initThermodynamics.H
	dS += initThermodynamics.S
	if seq == reverseComplement(seq) {
		dH += symmetryThermodynamics.H
		dS += symmetryThermodynamics.S
		x = 1
	} else {
		x = 4
	}
	if seq[len(seq)-1] == 'A' || seq[len(seq)-1] == 'T' {
		dH += terminalATThermodynamics.H
		dS += terminalATThermodynamics.S
	}
	// salt penalty; von Ahsen et al 1999
	saltEffect := cNa + (cMg * 140)
	dS += 0.368 * float64(len(seq)-1) * math.Log(saltEffect)
	for i := 0; i+1 < len(seq); i++ {
		dT := nearestNeighborsThermodynamics[seq[i:i+2]]
		dH += dT.H
		dS += dT.S
	}

	Tm = dH*1000/(dS+gasConstant*math.Log(cPrimer/x)) - 273.15
	return Tm, dH, dS
}

// MarmurDoty calculates the melting point of an extremely short DNA sequence (<15 bp) using a
// modified Marmur Doty formula [Marmur J & Doty P (1962). J Mol Biol, 5, 109-118.]
func MarmurDoty(seq string) float64 {
	seq = strings.ToUpper(seq)

	aCount := float64(strings.Count(seq, "A"))
	tCount := float64(strings.Count(seq, "T"))
	cCount := float64(strings.Count(seq, "C"))
	gCount := float64(strings.Count(seq, "G"))

	return 2*(aCount+tCount) + 4*(cCount+gCount) - 7.0
}

// defaultCPrimer, defaultCNa and defaultCMg are the standard conditions
// MeltingTemp reports against: 500 nM primer, 50 mM Na+, no Mg2+.
const (
	defaultCPrimer = 500e-9
	defaultCNa     = 50e-3
	defaultCMg     = 0.0
)

// CalcTM calls SantaLucia with default inputs for primer and salt concentration.
func CalcTM(seq string) float64 {
	Tm, _, _ := SantaLucia(seq, defaultCPrimer, defaultCNa, defaultCMg)
	return Tm
}

// MeltingTemp reports the melting temperature of seq, falling back to the
// simpler MarmurDoty formula for sequences too short for nearest-neighbor
// thermodynamics to be reliable (<15 bp), matching the domain of validity
// documented by both formulas' sources.
func MeltingTemp(seq string) float64 {
	if len(seq) < 15 {
		return MarmurDoty(seq)
	}
	return CalcTM(seq)
}

// reverseComplement is a local DNA-only reverse complement used to test
// self-complementarity: it complements A, C, G and T and writes N for any
// other byte, rather than using transform.ReverseComplement's full IUPAC
// table.
func reverseComplement(seq string) string {
	complement := map[byte]byte{'A': 'T', 'T': 'A', 'G': 'C', 'C': 'G'}
	out := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		c, ok := complement[seq[len(seq)-1-i]]
		if !ok {
			c = 'N'
		}
		out[i] = c
	}
	return string(out)
}
