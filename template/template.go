/*
Package template holds the DNA templates a primer is matched against.

A Template is a named byte sequence. Any byte outside A, C, G, T collapses
to a wildcard at read time rather than being rejected outright, since real
FASTA records commonly carry soft-masked or ambiguous bases that the
frequency-domain scorer (package match) treats as non-committal rather than
as malformed input.
*/
package template

import "strings"

// Template is one named DNA sequence a primer is searched against.
type Template struct {
	ID     string
	Length int
	bytes  []byte
}

// New builds a Template from a raw sequence string, upper-casing it and
// recording its length. The byte slice is copied so the Template owns its
// data independent of the caller's string.
func New(id, seq string) Template {
	seq = strings.ToUpper(seq)
	b := make([]byte, len(seq))
	copy(b, seq)
	return Template{ID: id, Length: len(b), bytes: b}
}

// At returns the byte at a 0-based position, or the wildcard byte 'N' if
// pos is out of range or the underlying byte is not one of A, C, G, T.
func (t Template) At(pos int) byte {
	if pos < 0 || pos >= len(t.bytes) {
		return 'N'
	}
	switch c := t.bytes[pos]; c {
	case 'A', 'C', 'G', 'T':
		return c
	default:
		return 'N'
	}
}

// Slice returns the template bytes in [start, end), clamped to the
// template's bounds, with any non-ATGC byte collapsed to 'N'.
func (t Template) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(t.bytes) {
		end = len(t.bytes)
	}
	if start >= end {
		return ""
	}
	out := make([]byte, end-start)
	for i := start; i < end; i++ {
		out[i-start] = t.At(i)
	}
	return string(out)
}

// Sequence returns the full template sequence with every non-ATGC byte
// collapsed to 'N'.
func (t Template) Sequence() string {
	return t.Slice(0, len(t.bytes))
}
