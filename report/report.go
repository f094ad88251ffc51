/*
Package report renders plain-text summaries of a kinetics simulation's
products: a bar-chart histogram of product quantities and a simulated
electrophoresis gel lane grouping products by length. Both are pure
formatting over already-computed product.Product data — they have no
bearing on the kinetics engine's correctness and exist only so a caller
running the CLI has something readable to look at.
*/
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/koppari-bio/primerscope/product"
)

// histogramWidth is the number of '#' characters representing the
// largest product's quantity in Histogram's output.
const histogramWidth = 40

// Histogram renders a text bar chart of each product's quantity, widest
// bar first.
func Histogram(title string, products []*product.Product) string {
	if len(products) == 0 {
		return "No PCR products have been found.\n"
	}

	sorted := append([]*product.Product(nil), products...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Quantity > sorted[j].Quantity })

	var maxQ float64
	for _, p := range sorted {
		if p.Quantity > maxQ {
			maxQ = p.Quantity
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- %s ---\n", title)
	for _, p := range sorted {
		bars := histogramWidth
		if maxQ > 0 {
			bars = int(math.Round(histogramWidth * p.Quantity / maxQ))
		}
		fmt.Fprintf(&b, "%s:%d-%d bp, %d cycles active: %s %.3e mol/L\n",
			p.TemplateID, p.Start, p.End, p.CyclesActive,
			strings.Repeat("#", bars), p.Quantity)
	}
	return b.String()
}

// electrophoresisWindowPercent matches the spec's 5% length-resolution
// window for grouping products into one simulated gel band.
const electrophoresisWindowPercent = 0.05

// band is one electrophoresis gel band: a length range and the total
// fluorescence (quantity * length, since longer duplexes bind more dye)
// of every product that falls into it.
type band struct {
	minLen, maxLen int
	intensity      float64
}

// Electrophoresis groups products into length bands (each band's width
// is electrophoresisWindowPercent of the longest product's length,
// matching the spec's "resolves products to within roughly 5% of
// fragment length") and renders a text gel lane, shortest fragments at
// the bottom as on a real gel.
func Electrophoresis(products []*product.Product) string {
	if len(products) == 0 {
		return "No PCR products have been found.\n"
	}

	maxLen, minLen := 0, math.MaxInt32
	for _, p := range products {
		l := p.Len()
		if l > maxLen {
			maxLen = l
		}
		if l < minLen {
			minLen = l
		}
	}
	window := int(float64(maxLen) * electrophoresisWindowPercent)
	if window < 1 {
		window = 1
	}

	var bands []band
	for lo := minLen; lo <= maxLen; lo += window {
		hi := lo + window - 1
		if hi > maxLen {
			hi = maxLen
		}
		bands = append(bands, band{minLen: lo, maxLen: hi})
	}
	for _, p := range products {
		l := p.Len()
		idx := (l - minLen) / window
		if idx >= len(bands) {
			idx = len(bands) - 1
		}
		bands[idx].intensity += p.Quantity * float64(l)
	}

	// Longest fragments first, shortest last, as on a vertical gel read
	// top to bottom.
	for i, j := 0, len(bands)-1; i < j; i, j = i+1, j-1 {
		bands[i], bands[j] = bands[j], bands[i]
	}

	var maxIntensity float64
	for _, bd := range bands {
		if bd.intensity > maxIntensity {
			maxIntensity = bd.intensity
		}
	}

	var b strings.Builder
	for _, bd := range bands {
		bars := 0
		if maxIntensity > 0 {
			bars = int(math.Round(histogramWidth * bd.intensity / maxIntensity))
		}
		fmt.Fprintf(&b, "%5d-%5d bp : %s\n", bd.minLen, bd.maxLen, strings.Repeat("#", bars))
	}
	return b.String()
}
