package variation_api

import (
	"bytes"
	"flag"
	"strings"
	"testing"

	cli "github.com/urfave/cli/v2"
)

func TestVcfLine(t *testing.T) {
	t.Run("a plain SNV with the default config", func(t *testing.T) {
		feature := &VariationFeature{
			Name:       "rs1",
			Chromosome: "chr1",
			Start:      100,
			End:        100,
			Strand:     1,
			Alleles:    []string{"A", "T"},
			Class:      ClassSNV,
			Source:     "dbsnp",
			Info:       map[string]string{},
		}

		line := vcfLine(feature, testConfig())
		if want := "chr1\t100\trs1\tA\tT\t.\t.\tVC=SNV"; line != want {
			t.Fatalf("expected\n%s\ngot\n%s", want, line)
		}
	})

	t.Run("a structural variant with a symbolic allele", func(t *testing.T) {
		config := testConfig()
		config.Alt["deletion"] = "DEL"

		feature := &VariationFeature{
			Name:       "sv1",
			Chromosome: "chr2",
			Start:      100,
			End:        500,
			Strand:     1,
			Alleles:    []string{"N", "<DEL>"},
			Class:      ClassDeletion,
			Source:     "caller",
			Info:       map[string]string{"END": "500", "SVTYPE": "DEL"},
		}

		line := vcfLine(feature, config)
		if want := "chr2\t100\tsv1\tN\t<DEL>\t.\t.\tEND=500;SVTYPE=DEL;VC=deletion"; line != want {
			t.Fatalf("expected\n%s\ngot\n%s", want, line)
		}
	})

	t.Run("flag fields are written without a value", func(t *testing.T) {
		config := testConfig()
		config.Info["IMPORTED"] = ConfigInput{
			Value:       "1",
			Number:      "0",
			Type:        "Flag",
			Description: "Imported from a variation feature table",
		}

		feature := &VariationFeature{
			Name: "rs1", Chromosome: "chr1", Start: 100, End: 100, Strand: 1,
			Alleles: []string{"A", "T"}, Class: ClassSNV, Source: "dbsnp",
			Info: map[string]string{},
		}

		line := vcfLine(feature, config)
		if !strings.Contains(line, "IMPORTED;") {
			t.Fatalf("expected a bare IMPORTED flag, got %s", line)
		}
	})

	t.Run("a custom id template", func(t *testing.T) {
		config := testConfig()
		config.Id = "$SOURCE:$CHROM:$POS"

		feature := &VariationFeature{
			Name: "rs1", Chromosome: "chr1", Start: 100, End: 100, Strand: 1,
			Alleles: []string{"A", "T"}, Class: ClassSNV, Source: "dbsnp",
			Info: map[string]string{},
		}

		if line := vcfLine(feature, config); !strings.Contains(line, "\tdbsnp:chr1:100\t") {
			t.Fatalf("expected the resolved id, got %s", line)
		}
	})
}

func TestWriteVCFHeader(t *testing.T) {
	config := testConfig()
	config.Alt["deletion"] = "DEL"
	config.Info["AF"] = ConfigInput{
		Value:       "$INFO/AF",
		Number:      "1",
		Type:        "float",
		Description: "Allele frequency",
	}

	features := []*VariationFeature{
		{Chromosome: "chr1"},
		{Chromosome: "chr1"},
		{Chromosome: "chr2"},
	}

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.Bool("nodate", true, "")
	Cctx := cli.NewContext(nil, set, nil)

	var buffer bytes.Buffer
	writeVCFHeader(config, Cctx, features, &buffer)

	lines := strings.Split(strings.TrimSuffix(buffer.String(), "\n"), "\n")
	want := []string{
		"##fileformat=VCFv4.2",
		"##source=ensembl-variation",
		`##INFO=<ID=AF,Number=1,Type=Float,Description="Allele frequency">`,
		`##INFO=<ID=END,Number=1,Type=Integer,Description="End position of the variant described in this record">`,
		`##INFO=<ID=SVTYPE,Number=1,Type=String,Description="Type of structural variant">`,
		`##INFO=<ID=VC,Number=1,Type=String,Description="Variation class">`,
		`##ALT=<ID=DEL,Description="deletion">`,
		"##contig=<ID=chr1>",
		"##contig=<ID=chr2>",
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d header lines, got %d:\n%s", len(want), len(lines), buffer.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected\n%s\ngot\n%s", i+1, want[i], lines[i])
		}
	}

	t.Run("the file date is written by default", func(t *testing.T) {
		set := flag.NewFlagSet("test", flag.ContinueOnError)
		set.Bool("nodate", false, "")

		var buffer bytes.Buffer
		writeVCFHeader(testConfig(), cli.NewContext(nil, set, nil), nil, &buffer)

		lines := strings.Split(buffer.String(), "\n")
		if len(lines) < 2 || !strings.HasPrefix(lines[1], "##fileDate=") {
			t.Fatalf("expected a fileDate line, got %v", lines)
		}
	})
}
