package variation_api

import (
	"fmt"
	"log"
	"os"
	"strings"

	cli "github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// The line width of the dumped flanking sequences
const fastaLineWidth = 60

// Flank writes the flanking sequences of every feature in a variation
// feature table. Each feature becomes a FASTA-style block: a header line,
// the upstream sequence, the alleles in brackets and the downstream
// sequence. Features on unknown chromosomes are skipped with a warning.
func Flank(Cctx *cli.Context) {
	logger := log.New(os.Stderr, "", 0)
	zlog := newLogger(Cctx)
	defer zlog.Sync()

	config := ReadConfig(Cctx)
	length := config.Flank.Length
	if Cctx.Int64("length") > 0 {
		length = Cctx.Int64("length")
	}

	features, err := ReadFeatureTable(Cctx.String("input"))
	if err != nil {
		logger.Fatal(err)
	}
	genome, err := ReadGenome(Cctx.String("genome"))
	if err != nil {
		logger.Fatal(err)
	}

	output := openOutput(Cctx)
	defer output.Close()

	for _, feature := range features {
		block, err := flankBlock(feature, genome, length)
		if err != nil {
			zlog.Warn("skipping feature",
				zap.String("name", feature.Name),
				zap.Error(err),
			)
			continue
		}
		writeLine(block, output)
	}
}

// flankBlock renders the flanking sequence block of one feature
func flankBlock(feature *VariationFeature, genome *Genome, length int64) (string, error) {
	upstream, err := genome.Slice(feature.Chromosome, feature.Start-length, feature.Start-1)
	if err != nil {
		return "", err
	}
	downstream, err := genome.Slice(feature.Chromosome, feature.End+1, feature.End+length)
	if err != nil {
		return "", err
	}

	lines := []string{fmt.Sprintf(">%s %s %d", feature.Name, feature.Location(), feature.Strand)}
	lines = append(lines, wrapSequence(upstream, fastaLineWidth)...)
	lines = append(lines, "["+feature.AlleleString()+"]")
	lines = append(lines, wrapSequence(downstream, fastaLineWidth)...)
	return strings.Join(lines, "\n"), nil
}

// wrapSequence splits a sequence into lines of the given width
func wrapSequence(sequence string, width int) []string {
	lines := []string{}
	for start := 0; start < len(sequence); start += width {
		end := start + width
		if end > len(sequence) {
			end = len(sequence)
		}
		lines = append(lines, sequence[start:end])
	}
	return lines
}
