/*
This file is the entry point for the primerscope command line utility. It
also acts as a template outlining everything available to the user.

Argument parsing and app definition are done through
"github.com/urfave/cli/v2"; see

https://github.com/urfave/cli/blob/master/docs/v2/manual.md

application() builds the &cli.App{} that run() executes; the two are kept
separate so tests can spoof app.Reader/app.Writer without touching os.Args.
*/
package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	run(os.Args)
}

func run(args []string) {
	app := application()
	if err := app.Run(args); err != nil {
		log.Fatal(err)
	}
}

func application() *cli.App {
	return &cli.App{
		Name:  "primerscope",
		Usage: "predict degenerate-primer PCR products and simulate their amplification",

		Commands: []*cli.Command{
			{
				Name:      "find",
				Usage:     "find every approximate annealing site for a degenerate primer in one or more fasta templates",
				ArgsUsage: "<template.fasta> [template2.fasta ...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "primer",
						Usage:    "IUPAC-encoded primer sequence",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "mismatches",
						Value: 0,
						Usage: "maximum mismatches tolerated against the primer",
					},
					&cli.Float64Flag{
						Name:  "conc",
						Value: 5e-7,
						Usage: "primer concentration, mol/L",
					},
					&cli.IntFlag{
						Name:  "cpus",
						Value: 0,
						Usage: "worker goroutines to use; 0 picks runtime.NumCPU()",
					},
				},
				Action: func(c *cli.Context) error {
					return findCommand(c)
				},
			},
			{
				Name:      "simulate",
				Usage:     "simulate cycle-by-cycle PCR amplification of a forward/reverse degenerate primer pair against a fasta template",
				ArgsUsage: "<template.fasta>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "forward",
						Usage:    "IUPAC-encoded forward primer sequence",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "reverse",
						Usage:    "IUPAC-encoded reverse primer sequence",
						Required: true,
					},
					&cli.Float64Flag{
						Name:  "forward-conc",
						Value: 5e-7,
						Usage: "forward primer concentration, mol/L",
					},
					&cli.Float64Flag{
						Name:  "reverse-conc",
						Value: 5e-7,
						Usage: "reverse primer concentration, mol/L",
					},
					&cli.Float64Flag{
						Name:  "template-conc",
						Value: 1e-9,
						Usage: "template concentration, mol/L",
					},
					&cli.IntFlag{
						Name:  "cycles",
						Value: 30,
						Usage: "number of thermal cycles to simulate",
					},
					&cli.Float64Flag{
						Name:  "polymerase",
						Value: 2.5,
						Usage: "polymerase units available",
					},
					&cli.Float64Flag{
						Name:  "dntp",
						Value: 2e-4,
						Usage: "per-nucleotide dNTP concentration, mol/L",
					},
					&cli.IntFlag{
						Name:  "min-amplicon",
						Value: 50,
						Usage: "minimum amplicon length, bp",
					},
					&cli.IntFlag{
						Name:  "max-amplicon",
						Value: 3000,
						Usage: "maximum amplicon length, bp; also sets elongation time",
					},
					&cli.Float64Flag{
						Name:  "kmin",
						Value: 0,
						Usage: "minimum duplex equilibrium constant to treat as real annealing; 0 picks kinetics.KMin",
					},
					&cli.BoolFlag{
						Name:  "with-exonuclease",
						Value: false,
						Usage: "allow 3'-mismatched duplexes to still prime, as a proofreading polymerase's exonuclease activity would",
					},
					&cli.IntFlag{
						Name:  "mismatches",
						Value: 2,
						Usage: "maximum mismatches tolerated while locating candidate annealing sites",
					},
				},
				Action: func(c *cli.Context) error {
					return simulateCommand(c)
				},
			},
		},
	}
}
