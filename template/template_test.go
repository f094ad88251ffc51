package template

import "testing"

func TestNewUppercasesAndRecordsLength(t *testing.T) {
	tpl := New("chr1", "acgtACGT")
	if tpl.ID != "chr1" {
		t.Errorf("ID = %q, want chr1", tpl.ID)
	}
	if tpl.Length != 8 {
		t.Errorf("Length = %d, want 8", tpl.Length)
	}
	if got := tpl.Sequence(); got != "ACGTACGT" {
		t.Errorf("Sequence() = %q, want ACGTACGT", got)
	}
}

func TestAtCollapsesNonATGCToWildcard(t *testing.T) {
	tpl := New("t", "ACGTNRYKM")
	cases := []struct {
		pos  int
		want byte
	}{
		{0, 'A'},
		{1, 'C'},
		{2, 'G'},
		{3, 'T'},
		{4, 'N'}, // already N
		{5, 'N'}, // R collapses
		{8, 'N'}, // M collapses
		{-1, 'N'},
		{100, 'N'},
	}
	for _, c := range cases {
		if got := tpl.At(c.pos); got != c.want {
			t.Errorf("At(%d) = %q, want %q", c.pos, got, c.want)
		}
	}
}

func TestSliceClampsToBounds(t *testing.T) {
	tpl := New("t", "ACGTACGT")
	if got := tpl.Slice(2, 6); got != "GTAC" {
		t.Errorf("Slice(2,6) = %q, want GTAC", got)
	}
	if got := tpl.Slice(-5, 3); got != "ACG" {
		t.Errorf("Slice(-5,3) = %q, want ACG", got)
	}
	if got := tpl.Slice(4, 1000); got != "ACGT" {
		t.Errorf("Slice(4,1000) = %q, want ACGT", got)
	}
	if got := tpl.Slice(5, 5); got != "" {
		t.Errorf("Slice(5,5) = %q, want empty", got)
	}
	if got := tpl.Slice(6, 2); got != "" {
		t.Errorf("Slice(6,2) = %q, want empty", got)
	}
}
