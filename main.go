package main

import (
	"log"
	"os"

	"github.com/Gurpreet-Ghattaoraya/ensembl-variation/variation_api"
	cli "github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:            "ensembl-variation",
		Usage:           "Import, annotate and report genomic variation data against a reference genome",
		HideHelpCommand: true,
		Version:         "0.1.0dev",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Configuration file (YAML) to use for the dump templates, flanking and report settings",
				Category: "Optional",
			},
			&cli.BoolFlag{
				Name:     "verbose",
				Aliases:  []string{"v"},
				Usage:    "Log debug information",
				Category: "Optional",
			},
			&cli.BoolFlag{
				Name:     "mute-warnings",
				Usage:    "Don't log warnings about undeclared VCF fields",
				Category: "Optional",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Import a VCF file into a variation feature table",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "The VCF file to import",
						Required: true,
						Category: "Required",
					},
					&cli.StringFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "The name of the source the variants come from",
						Required: true,
						Category: "Required",
					},
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "The location of the output table, defaults to stdout",
						Category: "Optional",
					},
				},
				Action: func(Cctx *cli.Context) error {
					variation_api.Import(Cctx)
					return nil
				},
			},
			{
				Name:  "dump",
				Usage: "Dump a variation feature table back to VCF",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "The variation feature table to dump",
						Required: true,
						Category: "Required",
					},
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "The location of the output VCF file, defaults to stdout",
						Category: "Optional",
					},
					&cli.BoolFlag{
						Name:     "nodate",
						Aliases:  []string{"nd"},
						Usage:    "Don't add the current date to the output VCF header",
						Category: "Optional",
					},
				},
				Action: func(Cctx *cli.Context) error {
					variation_api.Dump(Cctx)
					return nil
				},
			},
			{
				Name:  "flank",
				Usage: "Dump the flanking sequences of every feature in a table",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "The variation feature table to process",
						Required: true,
						Category: "Required",
					},
					&cli.StringFlag{
						Name:     "genome",
						Aliases:  []string{"g"},
						Usage:    "The reference genome (FASTA, plain or gzipped)",
						Required: true,
						Category: "Required",
					},
					&cli.Int64Flag{
						Name:     "length",
						Aliases:  []string{"l"},
						Usage:    "The number of bases to take on each side of a feature",
						Category: "Optional",
					},
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "The location of the output file, defaults to stdout",
						Category: "Optional",
					},
				},
				Action: func(Cctx *cli.Context) error {
					variation_api.Flank(Cctx)
					return nil
				},
			},
			{
				Name:  "annotate",
				Usage: "Call the consequences of every feature in a table against a gene set",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "The variation feature table to annotate",
						Required: true,
						Category: "Required",
					},
					&cli.StringFlag{
						Name:     "genes",
						Usage:    "The gene set (GFF or GTF, plain or gzipped)",
						Required: true,
						Category: "Required",
					},
					&cli.StringFlag{
						Name:     "genome",
						Aliases:  []string{"g"},
						Usage:    "The reference genome, needed to translate codons",
						Category: "Optional",
					},
					&cli.BoolFlag{
						Name:     "most-severe",
						Usage:    "Only write the most severe call of each feature",
						Category: "Optional",
					},
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "The location of the output table, defaults to stdout",
						Category: "Optional",
					},
				},
				Action: func(Cctx *cli.Context) error {
					variation_api.Annotate(Cctx)
					return nil
				},
			},
			{
				Name:  "report",
				Usage: "Build or update the XML variation report of a table or consequence calls",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "The consequence table or variation feature table to report",
						Required: true,
						Category: "Required",
					},
					&cli.StringFlag{
						Name:     "genes",
						Usage:    "The gene set (GFF or GTF, plain or gzipped)",
						Required: true,
						Category: "Required",
					},
					&cli.StringFlag{
						Name:     "genome",
						Aliases:  []string{"g"},
						Usage:    "The reference genome, used for the sequence context of variants",
						Category: "Optional",
					},
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "The location of the report",
						Category: "Optional",
					},
					&cli.StringFlag{
						Name:     "merge",
						Aliases:  []string{"m"},
						Usage:    "An existing report to update with the new calls",
						Category: "Optional",
					},
					&cli.StringFlag{
						Name:     "stylesheet",
						Usage:    "The stylesheet reference to write into the report",
						Category: "Optional",
					},
				},
				Action: func(Cctx *cli.Context) error {
					variation_api.Report(Cctx)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.New(os.Stderr, "", 0).Fatal(err)
	}
}
