package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/koppari-bio/primerscope/bio/fasta"
	"github.com/koppari-bio/primerscope/checks"
	"github.com/koppari-bio/primerscope/equilibrium"
	"github.com/koppari-bio/primerscope/kinetics"
	"github.com/koppari-bio/primerscope/match"
	"github.com/koppari-bio/primerscope/primers"
	"github.com/koppari-bio/primerscope/product"
	"github.com/koppari-bio/primerscope/report"
	"github.com/koppari-bio/primerscope/template"
	"github.com/koppari-bio/primerscope/workers"
)

// readTemplates parses every record in a fasta file into a template.Template,
// mirroring the non-pipe branch of poly's convertCommand: open the path,
// read it fully, bail with a wrapped error on any parse failure.
func readTemplates(path string) ([]template.Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("primerscope: opening %q: %w", path, err)
	}
	defer f.Close()

	parser := fasta.NewParser(f, 1<<20)
	var out []template.Template
	for {
		record, err := parser.Next()
		if record != nil && record.Sequence != "" {
			if !checks.IsDNA(record.Sequence) {
				return nil, fmt.Errorf("primerscope: %q: record %q is not a plain ATGC DNA sequence", path, record.Identifier)
			}
			out = append(out, template.New(record.Identifier, record.Sequence))
		}
		if err != nil {
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("primerscope: %q contains no usable fasta records", path)
	}
	return out, nil
}

func findCommand(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("primerscope find: at least one template fasta path is required")
	}

	primer, err := primers.NewPrimer("primer", c.String("primer"), c.Float64("conc"))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "primer %s: %d variant(s), %.0f%% GC\n", primer.Master, len(primer.Variants), checks.GcContent(primer.Master)*100)

	cfg := workers.Config{
		AssembleConfig: match.AssembleConfig{
			Config: match.Config{Mismatches: c.Int("mismatches")},
		},
		CPUCount: c.Int("cpus"),
	}

	ctx := context.Background()
	for _, path := range c.Args().Slice() {
		templates, err := readTemplates(path)
		if err != nil {
			return err
		}
		for _, tpl := range templates {
			fwd, rev, err := workers.Find(ctx, tpl, *primer, cfg)
			if err != nil {
				return fmt.Errorf("primerscope find: %s: %w", tpl.ID, err)
			}
			writeSites(c.App.Writer, tpl.ID, "forward strand", fwd)
			writeSites(c.App.Writer, tpl.ID, "reverse strand", rev)
		}
	}
	return nil
}

func writeSites(w io.Writer, templateID, strand string, sites []product.AnnealingSite) {
	for _, site := range sites {
		fmt.Fprintf(w, "%s\t%s\tposition %d\t%d variant(s) bind\n", templateID, strand, site.Position, len(site.Variants))
	}
}

// combinedPrimerSet answers product.Enumerate's membership check against
// whichever of the forward or reverse primer a candidate variant sequence
// actually belongs to.
type combinedPrimerSet struct {
	a, b *primers.Primer
}

func (s combinedPrimerSet) HasVariant(seq string) bool {
	return s.a.HasVariant(seq) || s.b.HasVariant(seq)
}

// variantSequences indexes every variant ID of both primers back to its
// unambiguous sequence, since product.VariantSeq needs the sequence
// alongside the duplex match found by the assembler.
func variantSequences(primerList ...*primers.Primer) map[string]string {
	out := map[string]string{}
	for _, p := range primerList {
		for _, v := range p.Variants {
			out[v.ID] = v.Sequence
		}
	}
	return out
}

// variantSeqsByPosition regroups an assembler's annealing sites into the
// map[position][]VariantSeq shape product.Enumerate expects.
func variantSeqsByPosition(sites []product.AnnealingSite, sequences map[string]string) map[int][]product.VariantSeq {
	out := make(map[int][]product.VariantSeq, len(sites))
	for _, site := range sites {
		seqs := make([]product.VariantSeq, len(site.Variants))
		for i, v := range site.Variants {
			seqs[i] = product.VariantSeq{VariantDuplex: v, Sequence: sequences[v.VariantID]}
		}
		out[site.Position] = seqs
	}
	return out
}

// reactionsFor turns a product's surviving annealing-site duplexes into the
// annealing reactions kinetics.Simulation solves, one reaction per primer
// variant competing for the same template.
func reactionsFor(sites []product.VariantDuplex, templateKey string) []kinetics.Reaction {
	out := make([]kinetics.Reaction, len(sites))
	for i, s := range sites {
		out[i] = kinetics.Reaction{
			K:         s.Duplex.K,
			ReactantA: s.VariantID,
			ReactantB: templateKey,
			Kind:      kinetics.ReactionAnnealing,
		}
	}
	return out
}

// primerConcentrations splits each degenerate primer's bulk concentration
// evenly across its unambiguous variants, treating the IUPAC master as a
// pool of equimolar oligos the way a real degenerate-primer synthesis does.
func primerConcentrations(primerList ...*primers.Primer) map[string]float64 {
	out := map[string]float64{}
	for _, p := range primerList {
		if len(p.Variants) == 0 {
			continue
		}
		share := p.Conc / float64(len(p.Variants))
		for _, v := range p.Variants {
			out[v.ID] = share
		}
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func simulateCommand(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("primerscope simulate: a template fasta path is required")
	}

	fwdPrimer, err := primers.NewPrimer("forward", c.String("forward"), c.Float64("forward-conc"))
	if err != nil {
		return err
	}
	revPrimer, err := primers.NewPrimer("reverse", c.String("reverse"), c.Float64("reverse-conc"))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "forward %s (%.0f%% GC), reverse %s (%.0f%% GC)\n",
		fwdPrimer.Master, checks.GcContent(fwdPrimer.Master)*100,
		revPrimer.Master, checks.GcContent(revPrimer.Master)*100)

	templates, err := readTemplates(c.Args().First())
	if err != nil {
		return err
	}

	kMin := c.Float64("kmin")
	if kMin <= 0 {
		kMin = kinetics.KMin
	}
	maxAmplicon := c.Int("max-amplicon")

	simCfg := kinetics.Config{
		NumCycles:       c.Int("cycles"),
		Polymerase:      c.Float64("polymerase"),
		CDNA:            c.Float64("template-conc"),
		CdNTP:           c.Float64("dntp"),
		MaxAmplicon:     maxAmplicon,
		WithExonuclease: c.Bool("with-exonuclease"),
		KMin:            kMin,
	}
	sim := kinetics.NewSimulation(primerConcentrations(fwdPrimer, revPrimer), simCfg, equilibrium.GonumSolver{})

	assembleCfg := workers.Config{
		AssembleConfig: match.AssembleConfig{
			Config: match.Config{Mismatches: c.Int("mismatches")},
		},
	}
	sequences := variantSequences(fwdPrimer, revPrimer)
	primerSet := combinedPrimerSet{a: fwdPrimer, b: revPrimer}
	primerLen := maxInt(fwdPrimer.Len(), revPrimer.Len())

	productCfg := product.Config{
		MinAmplicon:     c.Int("min-amplicon"),
		MaxAmplicon:     maxAmplicon,
		KMin:            kMin,
		WithExonuclease: c.Bool("with-exonuclease"),
	}

	ctx := context.Background()
	for _, tpl := range templates {
		fwdSites, _, err := workers.Find(ctx, tpl, *fwdPrimer, assembleCfg)
		if err != nil {
			return fmt.Errorf("primerscope simulate: %s: %w", tpl.ID, err)
		}
		_, revSites, err := workers.Find(ctx, tpl, *revPrimer, assembleCfg)
		if err != nil {
			return fmt.Errorf("primerscope simulate: %s: %w", tpl.ID, err)
		}

		fwdSeqs := variantSeqsByPosition(fwdSites, sequences)
		revSeqs := variantSeqsByPosition(revSites, sequences)

		products := product.Enumerate(tpl.ID, fwdSites, revSites, fwdSeqs, revSeqs, primerSet, primerLen, productCfg)
		for _, p := range products {
			sim.AddHit(&kinetics.Hit{
				Product:      p,
				FwdReactions: reactionsFor(p.FwdSites, tpl.ID),
				RevReactions: reactionsFor(p.RevSites, tpl.ID),
				TemplateKey:  tpl.ID,
			})
		}
	}

	if err := sim.Run(ctx); err != nil {
		return fmt.Errorf("primerscope simulate: %w", err)
	}

	found := sim.Surviving()

	fmt.Fprint(c.App.Writer, report.Histogram("PCR products", found))
	fmt.Fprintln(c.App.Writer)
	fmt.Fprint(c.App.Writer, report.Electrophoresis(found))
	fmt.Fprintf(c.App.Writer, "max objective value: %g\n", sim.MaxObjectiveValue)
	for _, tplID := range sortedTemplateKeys(sim.ReactionEnds) {
		end := sim.ReactionEnds[tplID]
		fmt.Fprintf(c.App.Writer, "%s: last cycle %d, final dNTP %g", tplID, end.LastCycle, end.FinalDNTP)
		for _, r := range end.PolymeraseShortageRanges {
			fmt.Fprintf(c.App.Writer, ", polymerase shortage [%d,%d]", r.FirstCycle, r.LastCycle)
		}
		fmt.Fprintln(c.App.Writer)
	}
	for _, w := range sim.Warnings {
		fmt.Fprintf(c.App.Writer, "warning: %s\n", w.Message)
	}
	return nil
}

// sortedTemplateKeys orders a ReactionEnds map's keys for deterministic
// report output.
func sortedTemplateKeys(ends map[string]kinetics.ReactionEnd) []string {
	keys := make([]string, 0, len(ends))
	for k := range ends {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
