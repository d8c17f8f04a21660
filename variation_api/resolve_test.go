package variation_api

import "testing"

func TestResolveValue(t *testing.T) {
	feature := &VariationFeature{
		Name:       "rs1",
		Chromosome: "chr7",
		Start:      100,
		End:        150,
		Strand:     1,
		Alleles:    []string{"A", "T", "G"},
		Class:      ClassSNV,
		Source:     "dbsnp",
		Info:       map[string]string{"SVLEN": "50"},
	}

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"name", "$NAME", "rs1"},
		{"location", "$CHROM:$POS-$END", "chr7:100-150"},
		{"alleles", "$REF>$ALT", "A>T,G"},
		{"info field", "$INFO/SVLEN", "50"},
		{"missing info field", "end=$INFO/MISSING;", "end=;"},
		{"descriptive fields", "$CLASS from $SOURCE on strand $STRAND", "SNV from dbsnp on strand 1"},
		{"sum function", "~sum:$POS,10", "110"},
		{"sub function", "~sub:$END,$POS", "50"},
		{"function with prefix", "LEN=~sub:$END,99", "LEN=51"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ResolveValue(c.input, feature)
			if got != c.want {
				t.Fatalf("expected %s, got %s", c.want, got)
			}
		})
	}
}
