package variation_api

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// The consequence terms the annotator can assign
const (
	TermStopGained     = "stop_gained"
	TermFrameshift     = "frameshift_variant"
	TermMissense       = "missense_variant"
	TermSynonymous     = "synonymous_variant"
	TermCodingSequence = "coding_sequence_variant"
	TermFivePrimeUTR   = "5_prime_UTR_variant"
	TermThreePrimeUTR  = "3_prime_UTR_variant"
	TermNonCodingExon  = "non_coding_transcript_exon_variant"
	TermIntron         = "intron_variant"
	TermUpstream       = "upstream_gene_variant"
	TermDownstream     = "downstream_gene_variant"
	TermIntergenic     = "intergenic_variant"
)

// All terms ordered from most to least severe
var consequenceRanking = []string{
	TermStopGained,
	TermFrameshift,
	TermMissense,
	TermSynonymous,
	TermCodingSequence,
	TermFivePrimeUTR,
	TermThreePrimeUTR,
	TermNonCodingExon,
	TermIntron,
	TermUpstream,
	TermDownstream,
	TermIntergenic,
}

var termRank = map[string]int{}

func init() {
	for rank, term := range consequenceRanking {
		termRank[term] = rank
	}
}

// rankTerms orders a term set from most to least severe. Terms outside the
// known vocabulary sort last, alphabetically.
func rankTerms(terms map[string]bool) []string {
	ranked := make([]string, 0, len(terms))
	for term := range terms {
		ranked = append(ranked, term)
	}
	sort.Slice(ranked, func(i, j int) bool {
		left, leftKnown := termRank[ranked[i]]
		right, rightKnown := termRank[ranked[j]]
		switch {
		case leftKnown && rightKnown:
			return left < right
		case leftKnown:
			return true
		case rightKnown:
			return false
		}
		return ranked[i] < ranked[j]
	})
	return ranked
}

// The first two lines of every consequence table
const (
	consequenceFormatLine = "##consequence-table=v1"
	consequenceColumnLine = "#name\tlocation\talleles\tclass\tgene\ttranscript\tconsequence"
)

// Consequence is one call of the annotator: the predicted effect of a
// variation feature on a single transcript, or its intergenic placement.
type Consequence struct {
	// The name of the variation feature
	Name string

	// The placement of the feature
	Chromosome string
	Start      int64
	End        int64

	// The slash-separated alleles of the feature
	Alleles string

	// The variation class of the feature
	Class string

	// The affected gene and transcript, nil for intergenic calls
	Gene       *Gene
	Transcript *Transcript

	// The consequence terms, most severe first
	Terms []string
}

// Location returns the call position as "chromosome:start-end"
func (consequence *Consequence) Location() string {
	return fmt.Sprintf("%s:%d-%d", consequence.Chromosome, consequence.Start, consequence.End)
}

// formatConsequenceRow renders one call as a table row. Intergenic calls
// leave the gene and transcript columns as ".".
func formatConsequenceRow(consequence *Consequence) string {
	gene, transcript := ".", "."
	if consequence.Gene != nil {
		gene = consequence.Gene.ID
	}
	if consequence.Transcript != nil {
		transcript = consequence.Transcript.ID
	}

	return strings.Join([]string{
		consequence.Name,
		consequence.Location(),
		consequence.Alleles,
		consequence.Class,
		gene,
		transcript,
		strings.Join(consequence.Terms, ","),
	}, "\t")
}

// parseConsequenceRow parses one table row back into a call, resolving the
// gene and transcript columns against the gene set.
func parseConsequenceRow(line string, genes *GeneSet) (*Consequence, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 7 {
		return nil, errors.Errorf("expected 7 columns, got %d", len(fields))
	}

	chromosome, start, end, err := parseLocation(fields[1])
	if err != nil {
		return nil, err
	}

	consequence := &Consequence{
		Name:       fields[0],
		Chromosome: chromosome,
		Start:      start,
		End:        end,
		Alleles:    fields[2],
		Class:      fields[3],
		Terms:      strings.Split(fields[6], ","),
	}

	if fields[4] != "." {
		if consequence.Gene = genes.Gene(fields[4]); consequence.Gene == nil {
			return nil, errors.Errorf("gene %s is not in the gene set", fields[4])
		}
	}
	if fields[5] != "." {
		if consequence.Transcript = genes.Transcript(fields[5]); consequence.Transcript == nil {
			return nil, errors.Errorf("transcript %s is not in the gene set", fields[5])
		}
	}

	return consequence, nil
}

// parseLocation splits a "chromosome:start-end" location
func parseLocation(location string) (string, int64, int64, error) {
	colon := strings.LastIndex(location, ":")
	if colon < 0 {
		return "", 0, 0, errors.Errorf("invalid location %q", location)
	}
	span := strings.SplitN(location[colon+1:], "-", 2)
	if len(span) != 2 {
		return "", 0, 0, errors.Errorf("invalid location %q", location)
	}

	start, err := strconv.ParseInt(span[0], 10, 64)
	if err != nil {
		return "", 0, 0, errors.Wrapf(err, "invalid location %q", location)
	}
	end, err := strconv.ParseInt(span[1], 10, 64)
	if err != nil {
		return "", 0, 0, errors.Wrapf(err, "invalid location %q", location)
	}

	return location[:colon], start, end, nil
}

// ReadConsequenceTable loads every call of a consequence table, preserving
// the row order. Gene and transcript references are resolved against the
// given gene set. Gzipped tables are detected by their .gz suffix.
func ReadConsequenceTable(path string, genes *GeneSet) ([]*Consequence, error) {
	reader, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	calls, err := parseConsequenceTable(reader, genes)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read the consequence table %s", path)
	}
	return calls, nil
}

func parseConsequenceTable(r io.Reader, genes *GeneSet) ([]*Consequence, error) {
	scanner := bufio.NewScanner(r)
	const maxCapacity = 8 * 1000000 // 8 MB
	scanner.Buffer(make([]byte, maxCapacity), maxCapacity)

	calls := []*Consequence{}
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		call, err := parseConsequenceRow(line, genes)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNumber)
		}
		calls = append(calls, call)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return calls, nil
}
