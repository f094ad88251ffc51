package match

import (
	"math/bits"

	"gonum.org/v1/gonum/dsp/fourier"
)

// MaxChunkSize bounds how large a single FFT chunk may grow; template
// sequences longer than this are scored in overlapping chunks rather than
// as one transform.
const MaxChunkSize = 1 << 12

// Config parameterizes a Find/BatchFind call.
type Config struct {
	Mismatches int
	MaxChunk   int // defaults to MaxChunkSize when zero
}

func (c Config) maxChunk() int {
	if c.MaxChunk > 0 {
		return c.MaxChunk
	}
	return MaxChunkSize
}

// nextPow2 returns the smallest power of two that is >= n.
func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// chunkSize picks the FFT chunk size for a template/primer pair, matching
// _calculate_chunk_size: prefer the smallest power of two that evenly
// tiles the template, fall back to the largest allowed chunk for long
// templates, then shrink until the convolution's edge remainder fits
// within half a chunk (or the chunk can shrink no further without
// dropping below twice the primer length).
func chunkSize(tLen, pLen, maxChunk int) int {
	rem := func(c int) int {
		return tLen/(c-pLen)*(c-pLen) + c - tLen
	}

	var chunk int
	if tLen <= maxChunk {
		chunk = nextPow2(tLen)
		if tLen > 0 && chunk%tLen == 0 {
			return chunk
		}
	} else {
		chunk = maxChunk
	}

	r := rem(chunk)
	minChunk := nextPow2(2 * pLen)
	maxRem := chunk/2 + 1
	for r > maxRem && chunk > minChunk {
		chunk /= 2
		r = rem(chunk)
	}
	if chunk > minChunk {
		return chunk
	}
	return minChunk
}

// scoreChunk scores every candidate start position within one chunk of
// template bytes against a primer whose AT/GC channels have already been
// FFT'd (patternATFFT, patternGCFFT, both of length chunkLen). It returns
// chunkStride scores, one per position that stays fully inside the chunk.
func scoreChunk(chunkBytes []byte, patternATFFT, patternGCFFT []complex128, pLen, chunkLen, chunkStride int) []float64 {
	at, gc := mapTemplateChunk(chunkBytes, chunkLen)

	tf := fourier.NewCmplxFFT(chunkLen)
	atFreq := tf.Coefficients(nil, at)
	gcFreq := tf.Coefficients(nil, gc)

	for i := range atFreq {
		atFreq[i] *= patternATFFT[i]
		gcFreq[i] *= patternGCFFT[i]
	}

	atScore := tf.Sequence(nil, atFreq)
	gcScore := tf.Sequence(nil, gcFreq)
	normalize(atScore)
	normalize(gcScore)

	correction := float64(pLen) / 3.0
	out := make([]float64, chunkStride)
	n := len(atScore)
	nd := len(chunkBytes)
	for i := 0; i < chunkStride; i++ {
		// Reverse the convolution result, as the source does with [::-1];
		// indexing from the chunk's data length (not the padded length)
		// keeps a short final chunk aligned with its start positions.
		j := ((nd-1-i)%n + n) % n
		score := real(atScore[j]) + real(gcScore[j])
		out[i] = score + correction - score/3.0
	}
	return out
}

// normalize divides by N in place, since gonum's CmplxFFT.Sequence
// returns the unnormalized inverse transform (the forward/inverse pair
// otherwise differs from scipy's fft/ifft by a factor of N, which the
// mismatch threshold below is calibrated against).
func normalize(x []complex128) {
	n := float64(len(x))
	for i := range x {
		x[i] /= complex(n, 0)
	}
}

// matchThreshold is the minimum score a position must reach to be
// considered a candidate match with at most `mismatches` mismatches
// against a primer of length pLen.
func matchThreshold(pLen, mismatches int) float64 {
	m := pLen - mismatches
	if m < 1 {
		m = 1
	}
	return float64(m) - 0.5
}

// scoreTemplate runs the chunked FFT scorer over an entire byte sequence
// (already oriented in the direction being searched), returning one score
// per 0-based start position in [0, len(seq)-pLen].
func scoreTemplate(seq []byte, master string, pLen int, maxChunk int) []float64 {
	tLen := len(seq)
	chunk := chunkSize(tLen, pLen, maxChunk)
	stride := chunk - pLen

	patAT, patGC := mapPattern(master, chunk)
	pf := fourier.NewCmplxFFT(chunk)
	patATFFT := pf.Coefficients(nil, patAT)
	patGCFFT := pf.Coefficients(nil, patGC)

	var scores []float64
	for i := 0; i < tLen; i += stride {
		front := i + chunk
		if front > tLen {
			front = tLen
		}
		s := scoreChunk(seq[i:front], patATFFT, patGCFFT, pLen, chunk, stride)
		scores = append(scores, s...)
		if i+chunk > tLen {
			break
		}
	}
	if len(scores) > tLen {
		scores = scores[:tLen]
	}
	return scores
}

// candidatePositions returns every 0-based position whose score clears
// the mismatch threshold, restricted to positions where a full-length
// primer window fits inside the template.
func candidatePositions(scores []float64, tLen, pLen, mismatches int) []int {
	limit := tLen - pLen + 1
	if limit <= 0 {
		return nil
	}
	threshold := matchThreshold(pLen, mismatches)
	var out []int
	for i := 0; i < limit && i < len(scores); i++ {
		if scores[i] >= threshold {
			out = append(out, i)
		}
	}
	return out
}

// OptimalSlices picks how many slices to split a template into for
// parallel scoring, matching _optimal_slices' linear regression fit of
// measured computation time.
func OptimalSlices(tLen, pLen, cpuCount int) int {
	linear := int(float64(tLen)*1.75e-5 + 1.75)
	if cpuCount > linear {
		linear = cpuCount
	}
	slices := 60
	if linear < slices {
		slices = linear
	}
	if pLen > 0 {
		if byLen := tLen / pLen; byLen < slices {
			slices = byLen
		}
	}
	if slices < 1 {
		slices = 1
	}
	return slices
}

// ParallelWorthwhile reports whether a template is long enough, and
// enough CPUs are available, that splitting the scorer's work across
// goroutines is worth the overhead — matching mp_better's empirical
// cutoff.
func ParallelWorthwhile(tLen, cpuCount int) bool {
	return cpuCount > 1 && tLen > 25000
}

// mirrorPosition converts a 0-based match-window start position into the
// spec's 1-based annealing-site coordinate: the position of the primer's
// 3'-end base on the strand being searched, or its mirror on the
// original (non-reverse-complemented) template when reverse is true.
func mirrorPosition(position, pLen, tLen int, reverse bool) int {
	if !reverse {
		return position + pLen
	}
	return tLen + 1 - (position + pLen)
}
