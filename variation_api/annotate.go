package variation_api

import (
	"log"
	"os"
	"strings"

	cli "github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// How far up- and downstream of a transcript a feature still associates
// with its gene, in bases
const consequenceWindow = 5000

// Annotator assigns consequence terms to variation features using a gene
// set and, when present, a reference genome for codon translation.
type Annotator struct {
	genes  *GeneSet
	genome *Genome
	logger *zap.Logger
}

// NewAnnotator creates an annotator over a gene set.
func NewAnnotator(genes *GeneSet) *Annotator {
	return &Annotator{
		genes:  genes,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for warning messages.
func (a *Annotator) SetLogger(logger *zap.Logger) {
	a.logger = logger
}

// SetGenome provides the reference genome used to translate codons.
// Without a genome, coding substitutions stay coding_sequence_variant.
func (a *Annotator) SetGenome(genome *Genome) {
	a.genome = genome
}

// Annotate returns the consequence calls of one feature, one call per
// transcript within the consequence window, or a single intergenic call
// when no transcript is near.
func (a *Annotator) Annotate(feature *VariationFeature) []*Consequence {
	transcripts := a.genes.Overlapping(
		feature.Chromosome,
		feature.Start-consequenceWindow,
		feature.End+consequenceWindow,
	)

	calls := []*Consequence{}
	for _, transcript := range transcripts {
		terms := a.transcriptTerms(feature, transcript)
		calls = append(calls, a.call(feature, transcript, terms))
	}

	if len(calls) == 0 {
		return []*Consequence{a.call(feature, nil, []string{TermIntergenic})}
	}
	return calls
}

// call assembles one consequence record
func (a *Annotator) call(feature *VariationFeature, transcript *Transcript, terms []string) *Consequence {
	consequence := &Consequence{
		Name:       feature.Name,
		Chromosome: feature.Chromosome,
		Start:      feature.Start,
		End:        feature.End,
		Alleles:    feature.AlleleString(),
		Class:      feature.Class,
		Terms:      terms,
	}
	if transcript != nil {
		consequence.Transcript = transcript
		consequence.Gene = a.genes.Gene(transcript.GeneID)
	}
	return consequence
}

// transcriptTerms classifies a feature against a single transcript
func (a *Annotator) transcriptTerms(feature *VariationFeature, transcript *Transcript) []string {
	if feature.End < transcript.Start || feature.Start > transcript.End {
		return []string{flankTerm(feature, transcript)}
	}
	if !overlapsExon(feature, transcript) {
		return []string{TermIntron}
	}
	if !transcript.IsCoding() {
		return []string{TermNonCodingExon}
	}
	if feature.End < transcript.CDSStart {
		return []string{utrTerm(transcript, true)}
	}
	if feature.Start > transcript.CDSEnd {
		return []string{utrTerm(transcript, false)}
	}
	return []string{a.codingTerm(feature, transcript)}
}

// flankTerm classifies a feature lying outside the transcript span. The
// strand decides which genomic side is upstream.
func flankTerm(feature *VariationFeature, transcript *Transcript) string {
	genomicallyBefore := feature.End < transcript.Start
	if (transcript.Strand < 0) == genomicallyBefore {
		return TermDownstream
	}
	return TermUpstream
}

// utrTerm maps a genomic side of the CDS to the strand aware UTR term
func utrTerm(transcript *Transcript, beforeCDS bool) string {
	if (transcript.Strand < 0) == beforeCDS {
		return TermThreePrimeUTR
	}
	return TermFivePrimeUTR
}

// overlapsExon reports whether a feature touches any exon of a transcript
func overlapsExon(feature *VariationFeature, transcript *Transcript) bool {
	for _, exon := range transcript.Exons {
		if feature.End >= exon.Start && feature.Start <= exon.End {
			return true
		}
	}
	return false
}

// codingTerm classifies a feature overlapping the coding sequence. Only
// the first alternate allele is considered.
func (a *Annotator) codingTerm(feature *VariationFeature, transcript *Transcript) string {
	ref := feature.Ref()
	alts := feature.Alts()
	if len(alts) == 0 {
		return TermCodingSequence
	}
	alt := alts[0]

	if isSymbolic(ref) || isSymbolic(alt) {
		return TermCodingSequence
	}
	if (len(alt)-len(ref))%3 != 0 {
		return TermFrameshift
	}
	if feature.Class == ClassSNV && len(ref) == 1 && len(alt) == 1 {
		return a.snvTerm(feature, transcript, alt[0])
	}
	return TermCodingSequence
}

// snvTerm translates the reference and mutated codon of a single base
// substitution. Without a genome the call stays coding_sequence_variant.
func (a *Annotator) snvTerm(feature *VariationFeature, transcript *Transcript, alt byte) string {
	if a.genome == nil {
		return TermCodingSequence
	}

	cds, err := transcript.CodingSequence(a.genome)
	if err != nil {
		a.logger.Warn("failed to load the coding sequence",
			zap.String("transcript", transcript.ID),
			zap.Error(err),
		)
		return TermCodingSequence
	}

	offset := transcript.CDSOffset(feature.Start)
	if offset < 0 {
		return TermCodingSequence
	}
	codonStart := (offset / 3) * 3
	if int(codonStart)+3 > len(cds) {
		return TermCodingSequence
	}
	codon := cds[codonStart : codonStart+3]

	base := alt
	if transcript.Strand < 0 {
		base = Complement(alt)
	}
	mutated := mutateCodon(codon, int(offset-codonStart), base)

	refAA := TranslateCodon(codon)
	altAA := TranslateCodon(mutated)
	switch {
	case altAA == refAA:
		return TermSynonymous
	case altAA == '*':
		return TermStopGained
	}
	return TermMissense
}

// isSymbolic reports whether an allele is anything but a plain sequence
func isSymbolic(allele string) bool {
	if allele == "" || allele == "." || allele == "*" {
		return true
	}
	return strings.ContainsAny(allele, "<>[]")
}

// mostSevereCall picks the call carrying the highest ranked term, keeping
// the first call on ties. It returns nil for an empty slice.
func mostSevereCall(calls []*Consequence) *Consequence {
	var best *Consequence
	bestRank := len(consequenceRanking)
	for _, call := range calls {
		for _, term := range call.Terms {
			rank, known := termRank[term]
			if !known {
				rank = len(consequenceRanking)
			}
			if best == nil || rank < bestRank {
				best, bestRank = call, rank
			}
		}
	}
	return best
}

// Annotate writes the consequence calls of every feature in a variation
// feature table as a consequence table. With --most-severe only the top
// ranked call of each feature is written.
func Annotate(Cctx *cli.Context) {
	logger := log.New(os.Stderr, "", 0)
	zlog := newLogger(Cctx)
	defer zlog.Sync()

	features, err := ReadFeatureTable(Cctx.String("input"))
	if err != nil {
		logger.Fatal(err)
	}
	genes, err := ReadGeneSet(Cctx.String("genes"))
	if err != nil {
		logger.Fatal(err)
	}

	annotator := NewAnnotator(genes)
	annotator.SetLogger(zlog)
	if Cctx.String("genome") != "" {
		genome, err := ReadGenome(Cctx.String("genome"))
		if err != nil {
			logger.Fatal(err)
		}
		annotator.SetGenome(genome)
	}

	output := openOutput(Cctx)
	defer output.Close()

	writeLine(consequenceFormatLine, output)
	writeLine(consequenceColumnLine, output)
	for _, feature := range features {
		calls := annotator.Annotate(feature)
		if Cctx.Bool("most-severe") {
			if call := mostSevereCall(calls); call != nil {
				writeLine(formatConsequenceRow(call), output)
			}
			continue
		}
		for _, call := range calls {
			writeLine(formatConsequenceRow(call), output)
		}
	}
}
