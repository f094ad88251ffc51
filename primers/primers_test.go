package primers

import (
	"fmt"
	"math"
	"testing"
)

func ExampleMarmurDoty() {
	sequenceString := "ACGTCCGGACTT"
	meltingTemp := MarmurDoty(sequenceString)

	fmt.Println(meltingTemp)
	// output: 31
}

func TestMarmurDoty(t *testing.T) {
	testSeq := "ACGTCCGGACTT"
	expectedTM := 31.0
	if calcTM := MarmurDoty(testSeq); expectedTM != calcTM {
		t.Errorf("MarmurDoty has changed on test. Got %f instead of %f", calcTM, expectedTM)
	}
}

func ExampleSantaLucia() {
	sequenceString := "ACGATGGCAGTAGCATGC"
	testCPrimer := 0.1e-6
	testCNa := 350e-3
	testCMg := 0.0
	expectedTM := 62.7
	meltingTemp, _, _ := SantaLucia(sequenceString, testCPrimer, testCNa, testCMg)
	withinMargin := math.Abs(expectedTM-meltingTemp)/expectedTM >= 0.02

	fmt.Println(withinMargin)
	// output: false
}

func TestSantaLucia(t *testing.T) {
	testSeq := "ACGATGGCAGTAGCATGC"
	testCPrimer := 0.1e-6
	testCNa := 350e-3
	testCMg := 0.0
	expectedTM := 62.7
	if calcTM, _, _ := SantaLucia(testSeq, testCPrimer, testCNa, testCMg); math.Abs(expectedTM-calcTM)/expectedTM >= 0.02 {
		t.Errorf("SantaLucia has changed on test. Got %f instead of %f", calcTM, expectedTM)
	}
}

func TestSantaLuciaReverseComplement(t *testing.T) {
	testSeq := "ACGTAGATCTACGT"

	if got := reverseComplement(testSeq); got != testSeq {
		t.Errorf("test sequence is not its own reverse complement. Got %q instead of %q", got, testSeq)
	}
	testCPrimer := 0.1e-6
	testCNa := 350e-3
	testCMg := 0.0
	expectedTM := 47.428514
	if calcTM, _, _ := SantaLucia(testSeq, testCPrimer, testCNa, testCMg); math.Abs(expectedTM-calcTM)/expectedTM >= 0.02 {
		t.Errorf("SantaLucia has changed on test. Got %f instead of %f", calcTM, expectedTM)
	}
}

func ExampleMeltingTemp() {
	sequenceString := "GTAAAACGACGGCCAGT" // M13 fwd
	expectedTM := 52.8
	meltingTemp := MeltingTemp(sequenceString)
	withinMargin := math.Abs(expectedTM-meltingTemp)/expectedTM >= 0.02

	fmt.Println(withinMargin)
	// output: false
}

func TestMeltingTemp(t *testing.T) {
	testSeq := "GTAAAACGACGGCCAGT" // M13 fwd
	expectedTM := 52.8
	if calcTM := MeltingTemp(testSeq); math.Abs(expectedTM-calcTM)/expectedTM >= 0.02 {
		t.Errorf("MeltingTemp has changed on test. Got %f instead of %f", calcTM, expectedTM)
	}
}

func TestMeltingTempShortSequenceUsesMarmurDoty(t *testing.T) {
	short := "ACGTCCGGACTT" // 12 bp, below the 15 bp nearest-neighbor cutoff
	if got, want := MeltingTemp(short), MarmurDoty(short); got != want {
		t.Errorf("MeltingTemp(%q) = %f, want MarmurDoty value %f", short, got, want)
	}
}

func TestNewPrimerExpandsDegenerateBases(t *testing.T) {
	p, err := NewPrimer("p1", "ACRT", 1e-6)
	if err != nil {
		t.Fatalf("NewPrimer returned error: %v", err)
	}
	if p.Len() != 4 {
		t.Errorf("Len() = %d, want 4", p.Len())
	}
	if len(p.Variants) != 2 {
		t.Fatalf("expected 2 variants for one R (A/G) symbol, got %d", len(p.Variants))
	}
	seen := map[string]bool{}
	for _, v := range p.Variants {
		seen[v.Sequence] = true
		if !p.HasVariant(v.Sequence) {
			t.Errorf("HasVariant(%q) = false, want true", v.Sequence)
		}
	}
	if !seen["ACAT"] || !seen["ACGT"] {
		t.Errorf("variants = %v, want ACAT and ACGT", seen)
	}
}

func TestNewPrimerRejectsEmptySequence(t *testing.T) {
	if _, err := NewPrimer("p1", "", 1e-6); err == nil {
		t.Error("NewPrimer(\"\") should return an error")
	}
}

func TestNewPrimerRejectsNonIUPACByte(t *testing.T) {
	if _, err := NewPrimer("p1", "ACGTZ", 1e-6); err == nil {
		t.Error("NewPrimer with a non-IUPAC byte should return an error")
	}
}

func TestNewPrimerUnambiguousSequenceHasSingleVariant(t *testing.T) {
	p, err := NewPrimer("p1", "ACGT", 1e-6)
	if err != nil {
		t.Fatalf("NewPrimer returned error: %v", err)
	}
	if len(p.Variants) != 1 || p.Variants[0].Sequence != "ACGT" {
		t.Errorf("Variants = %v, want single ACGT variant", p.Variants)
	}
}
