package variation_api

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	cli "github.com/urfave/cli/v2"
)

const testVCF = "##fileformat=VCFv4.2\n" +
	"##INFO=<ID=SVTYPE,Number=1,Type=String,Description=\"Type of structural variant\">\n" +
	"##INFO=<ID=END,Number=1,Type=Integer,Description=\"End position\">\n" +
	"##INFO=<ID=CIPOS,Number=2,Type=Integer,Description=\"Confidence interval\">\n" +
	"##INFO=<ID=PRECISE,Number=0,Type=Flag,Description=\"Precise structural variant\">\n" +
	"##FORMAT=<ID=GT,Number=1,Type=String,Description=\"Genotype\">\n" +
	"##contig=<ID=chr1,length=248956422>\n" +
	"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tsample1\n" +
	"chr1\t100\trs1\tA\tT\t50\tPASS\t.\tGT\t0/1\n" +
	"chr1\t200\t.\tN\t<DEL>\t.\tPASS\tSVTYPE=DEL;END=500;CIPOS=-10,10;PRECISE;XYZ=5\n"

// muteContext builds a cli context that silences the undeclared-field
// warnings of the VCF reader.
func muteContext() *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.Bool("mute-warnings", true, "")
	return cli.NewContext(nil, set, nil)
}

func writeTestVCF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calls.vcf")
	if err := os.WriteFile(path, []byte(testVCF), 0o644); err != nil {
		t.Fatalf("failed to write the VCF: %v", err)
	}
	return path
}

func TestReadVCF(t *testing.T) {
	variants := []*Variant{}
	header := ReadVCF(muteContext(), writeTestVCF(t), func(variant *Variant) {
		variants = append(variants, variant)
	})

	t.Run("header lines", func(t *testing.T) {
		svtype := header.Info["SVTYPE"]
		if svtype.Number != "1" || svtype.Type != "String" {
			t.Fatalf("unexpected SVTYPE line: %+v", svtype)
		}
		if svtype.Description != `"Type of structural variant"` {
			t.Fatalf("unexpected description: %s", svtype.Description)
		}
		if header.Info["END"].Type != "Integer" {
			t.Fatalf("unexpected END line: %+v", header.Info["END"])
		}
		if gt := header.Format["GT"]; gt.Type != "String" {
			t.Fatalf("unexpected GT line: %+v", gt)
		}
		if len(header.Contig) != 1 || header.Contig[0].Id != "chr1" || header.Contig[0].Length != 248956422 {
			t.Fatalf("unexpected contigs: %+v", header.Contig)
		}
		if len(header.Samples) != 1 || header.Samples[0] != "sample1" {
			t.Fatalf("unexpected samples: %v", header.Samples)
		}
		if len(header.Other) != 1 || header.Other[0] != "##fileformat=VCFv4.2" {
			t.Fatalf("unexpected other lines: %v", header.Other)
		}
	})

	if len(variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(variants))
	}

	t.Run("a plain variant", func(t *testing.T) {
		variant := variants[0]
		if variant.Chromosome != "chr1" || variant.Pos != 100 || variant.Id != "rs1" {
			t.Fatalf("unexpected variant: %+v", variant)
		}
		if variant.Ref != "A" || variant.Alt != "T" || variant.Qual != "50" || variant.Filter != "PASS" {
			t.Fatalf("unexpected variant columns: %+v", variant)
		}
		if len(variant.Info) != 0 {
			t.Fatalf("expected no info fields, got %v", variant.Info)
		}
		format, ok := variant.Format["sample1"]
		if !ok || len(format.Content["GT"]) != 1 || format.Content["GT"][0] != "0/1" {
			t.Fatalf("unexpected format: %+v", variant.Format)
		}
	})

	t.Run("a structural variant", func(t *testing.T) {
		variant := variants[1]
		if variant.Id != "." || variant.Alt != "<DEL>" {
			t.Fatalf("unexpected variant: %+v", variant)
		}
		if got := variant.Info["SVTYPE"]; len(got) != 1 || got[0] != "DEL" {
			t.Fatalf("unexpected SVTYPE: %v", got)
		}
		if got := variant.Info["END"]; len(got) != 1 || got[0] != "500" {
			t.Fatalf("unexpected END: %v", got)
		}
		if got := variant.Info["CIPOS"]; len(got) != 2 || got[0] != "-10" || got[1] != "10" {
			t.Fatalf("expected the CIPOS values to be split, got %v", got)
		}
		if got := variant.Info["PRECISE"]; len(got) != 0 {
			t.Fatalf("expected an empty flag value, got %v", got)
		}
		if got := variant.Info["XYZ"]; len(got) != 1 || got[0] != "5" {
			t.Fatalf("expected the undeclared field to default to one string, got %v", got)
		}
		if len(variant.Format) != 0 {
			t.Fatalf("expected no format data on a sites-only line, got %v", variant.Format)
		}
	})
}

func TestHeaderParse(t *testing.T) {
	header := newHeader()
	header.parse(`##ALT=<ID=DEL,Description="Deletion">`)
	header.parse(`##FILTER=<ID=PASS,Description="All filters passed">`)
	header.parse("#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO")

	if alt := header.Alt["DEL"]; alt.Id != "DEL" {
		t.Fatalf("unexpected ALT line: %+v", alt)
	}
	if filter := header.Filter["PASS"]; filter.Id != "PASS" {
		t.Fatalf("unexpected FILTER line: %+v", filter)
	}
	if len(header.Samples) != 0 {
		t.Fatalf("expected no samples on a sites-only VCF, got %v", header.Samples)
	}
}

func TestConvertLineToMap(t *testing.T) {
	t.Run("commas inside quotes are kept", func(t *testing.T) {
		data := convertLineToMap(`ID=DP,Number=1,Type=Integer,Description="Total depth, all samples"`)
		if data["id"] != "DP" || data["number"] != "1" || data["type"] != "Integer" {
			t.Fatalf("unexpected fields: %v", data)
		}
		if data["description"] != `"Total depth, all samples"` {
			t.Fatalf("unexpected description: %s", data["description"])
		}
	})

	t.Run("equal signs inside quotes are kept", func(t *testing.T) {
		data := convertLineToMap(`ID=X,Description="a=b"`)
		if data["description"] != `"a=b"` {
			t.Fatalf("unexpected description: %s", data["description"])
		}
	})
}
