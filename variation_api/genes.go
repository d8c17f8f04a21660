package variation_api

import (
	"io"
	"sort"
	"strings"

	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/store/interval"
	"github.com/pkg/errors"
)

// Gene is one gene of a gene set together with its transcripts.
type Gene struct {
	// The stable gene ID
	ID string

	// The gene symbol
	Name string

	// The chromosome the gene is placed on
	Chromosome string

	// The 1-based, inclusive start position
	Start int64

	// The 1-based, inclusive end position
	End int64

	// The strand of the gene, 1 or -1
	Strand int8

	// The gene biotype (protein_coding, lincRNA, ...)
	Biotype string

	// The transcripts of the gene, in gene set order
	Transcripts []*Transcript
}

// Transcript is one isoform of a gene.
type Transcript struct {
	// The stable transcript ID
	ID string

	// The ID and symbol of the parent gene
	GeneID   string
	GeneName string

	// The chromosome the transcript is placed on
	Chromosome string

	// The 1-based, inclusive transcript span
	Start int64
	End   int64

	// The strand of the transcript, 1 or -1
	Strand int8

	// The transcript biotype, falling back to the gene biotype
	Biotype string

	// The exons of the transcript, sorted by start position
	Exons []Exon

	// The genomic CDS span, zero for non-coding transcripts
	CDSStart int64
	CDSEnd   int64

	cds       string
	cdsErr    error
	cdsLoaded bool
}

// Exon is a single exon span, 1-based and inclusive.
type Exon struct {
	Start int64
	End   int64
}

// GeneSet is an in-memory gene annotation, indexed per chromosome for
// transcript overlap queries.
type GeneSet struct {
	genes       map[string]*Gene
	transcripts map[string]*Transcript
	order       []*Gene
	index       map[string]*interval.IntTree
}

// ReadGeneSet loads a GFF or GTF gene set. Gzipped files are detected by
// their .gz suffix. Gene and transcript rows have to precede the exon and
// CDS rows that refer to them; rows with an unknown parent are dropped.
func ReadGeneSet(path string) (*GeneSet, error) {
	reader, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	genes, err := parseGeneSet(reader)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read the gene set %s", path)
	}
	return genes, nil
}

func parseGeneSet(r io.Reader) (*GeneSet, error) {
	set := &GeneSet{
		genes:       map[string]*Gene{},
		transcripts: map[string]*Transcript{},
		index:       map[string]*interval.IntTree{},
	}

	scanner := featio.NewScanner(gff.NewReader(r))
	for scanner.Next() {
		feature := scanner.Feat().(*gff.Feature)

		switch feature.Feature {
		case "gene":
			id := attrValue(feature, "gene_id", "ID")
			if id == "" {
				continue
			}
			gene := set.gene(id, feature)
			if name := attrValue(feature, "gene_name", "Name"); name != "" {
				gene.Name = name
			}
			if biotype := attrValue(feature, "gene_biotype", "biotype"); biotype != "" {
				gene.Biotype = biotype
			}

		case "transcript", "mRNA":
			id := attrValue(feature, "transcript_id", "ID")
			geneID := attrValue(feature, "gene_id", "Parent")
			if id == "" || geneID == "" {
				continue
			}
			transcript := set.transcript(id, feature)
			if biotype := attrValue(feature, "transcript_biotype", "biotype"); biotype != "" {
				transcript.Biotype = biotype
			}
			if transcript.GeneID == "" {
				gene := set.gene(geneID, feature)
				transcript.GeneID = gene.ID
				gene.Transcripts = append(gene.Transcripts, transcript)
			}

		case "exon":
			transcript := set.transcripts[attrValue(feature, "transcript_id", "Parent")]
			if transcript == nil {
				continue
			}
			transcript.Exons = append(transcript.Exons, Exon{
				Start: featStart(feature),
				End:   featEnd(feature),
			})

		case "CDS":
			transcript := set.transcripts[attrValue(feature, "transcript_id", "Parent")]
			if transcript == nil {
				continue
			}
			start, end := featStart(feature), featEnd(feature)
			if transcript.CDSStart == 0 || start < transcript.CDSStart {
				transcript.CDSStart = start
			}
			if end > transcript.CDSEnd {
				transcript.CDSEnd = end
			}
		}
	}
	if err := scanner.Error(); err != nil {
		return nil, err
	}

	return set, set.finish()
}

// gene returns the gene with the given ID, creating it when a child row
// arrives before its gene row. The gene span widens to cover every row
// that mentions it.
func (set *GeneSet) gene(id string, feature *gff.Feature) *Gene {
	gene, ok := set.genes[id]
	if !ok {
		gene = &Gene{
			ID:         id,
			Chromosome: feature.SeqName,
			Start:      featStart(feature),
			End:        featEnd(feature),
			Strand:     int8(feature.FeatStrand),
		}
		set.genes[id] = gene
		set.order = append(set.order, gene)
		return gene
	}
	if start := featStart(feature); start < gene.Start {
		gene.Start = start
	}
	if end := featEnd(feature); end > gene.End {
		gene.End = end
	}
	return gene
}

func (set *GeneSet) transcript(id string, feature *gff.Feature) *Transcript {
	transcript, ok := set.transcripts[id]
	if !ok {
		transcript = &Transcript{
			ID:         id,
			Chromosome: feature.SeqName,
			Start:      featStart(feature),
			End:        featEnd(feature),
			Strand:     int8(feature.FeatStrand),
		}
		set.transcripts[id] = transcript
	}
	return transcript
}

// finish sorts the exons, fills the derived transcript fields and builds
// the per chromosome interval index.
func (set *GeneSet) finish() error {
	var id uintptr
	for _, gene := range set.order {
		for _, transcript := range gene.Transcripts {
			sort.Slice(transcript.Exons, func(i, j int) bool {
				return transcript.Exons[i].Start < transcript.Exons[j].Start
			})
			if len(transcript.Exons) == 0 {
				transcript.Exons = []Exon{{Start: transcript.Start, End: transcript.End}}
			}
			transcript.GeneName = gene.Name
			if transcript.Biotype == "" {
				transcript.Biotype = gene.Biotype
			}

			tree, ok := set.index[transcript.Chromosome]
			if !ok {
				tree = &interval.IntTree{}
				set.index[transcript.Chromosome] = tree
			}
			err := tree.Insert(transcriptInterval{id: id, transcript: transcript}, true)
			if err != nil {
				return errors.Wrapf(err, "failed to index transcript %s", transcript.ID)
			}
			id++
		}
	}

	for _, tree := range set.index {
		tree.AdjustRanges()
	}
	return nil
}

// Genes returns the genes of the set in input order.
func (set *GeneSet) Genes() []*Gene {
	return set.order
}

// Gene returns the gene with the given ID, or nil when the set does not
// contain it.
func (set *GeneSet) Gene(id string) *Gene {
	return set.genes[id]
}

// Transcript returns the transcript with the given ID, or nil when the set
// does not contain it.
func (set *GeneSet) Transcript(id string) *Transcript {
	return set.transcripts[id]
}

// Overlapping returns every transcript overlapping the 1-based, inclusive
// span, in gene set order.
func (set *GeneSet) Overlapping(chromosome string, start, end int64) []*Transcript {
	tree, ok := set.index[chromosome]
	if !ok {
		return nil
	}

	matches := tree.Get(spanQuery{start: int(start), end: int(end) + 1})
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].(transcriptInterval).id < matches[j].(transcriptInterval).id
	})

	transcripts := make([]*Transcript, 0, len(matches))
	for _, match := range matches {
		transcripts = append(transcripts, match.(transcriptInterval).transcript)
	}
	return transcripts
}

// IsCoding reports whether the transcript carries a coding sequence.
func (t *Transcript) IsCoding() bool {
	return t.CDSStart > 0 && t.CDSEnd > 0
}

// CDSOffset maps a genomic position to its 0-based offset in the coding
// sequence, walking the exons in translation order. Positions outside the
// CDS, including intronic ones, map to -1.
func (t *Transcript) CDSOffset(pos int64) int64 {
	if !t.IsCoding() || pos < t.CDSStart || pos > t.CDSEnd {
		return -1
	}

	var offset int64
	if t.Strand < 0 {
		for i := len(t.Exons) - 1; i >= 0; i-- {
			start, end, ok := t.codingSpan(t.Exons[i])
			if !ok {
				continue
			}
			if pos >= start && pos <= end {
				return offset + end - pos
			}
			offset += end - start + 1
		}
		return -1
	}

	for _, exon := range t.Exons {
		start, end, ok := t.codingSpan(exon)
		if !ok {
			continue
		}
		if pos >= start && pos <= end {
			return offset + pos - start
		}
		offset += end - start + 1
	}
	return -1
}

// codingSpan clips an exon to the CDS bounds of the transcript.
func (t *Transcript) codingSpan(exon Exon) (int64, int64, bool) {
	start, end := exon.Start, exon.End
	if start < t.CDSStart {
		start = t.CDSStart
	}
	if end > t.CDSEnd {
		end = t.CDSEnd
	}
	if start > end {
		return 0, 0, false
	}
	return start, end, true
}

// CodingSequence returns the spliced coding sequence of the transcript,
// reverse complemented on the reverse strand. The sequence is cached on
// the transcript after the first call.
func (t *Transcript) CodingSequence(genome *Genome) (string, error) {
	if t.cdsLoaded {
		return t.cds, t.cdsErr
	}
	t.cdsLoaded = true

	if !t.IsCoding() {
		t.cdsErr = errors.Errorf("transcript %s is not protein coding", t.ID)
		return "", t.cdsErr
	}

	var spliced strings.Builder
	for _, exon := range t.Exons {
		start, end, ok := t.codingSpan(exon)
		if !ok {
			continue
		}
		slice, err := genome.Slice(t.Chromosome, start, end)
		if err != nil {
			t.cdsErr = errors.Wrapf(err, "failed to load the coding sequence of %s", t.ID)
			return "", t.cdsErr
		}
		spliced.WriteString(slice)
	}

	cds := spliced.String()
	if t.Strand < 0 {
		cds = ReverseComplement(cds)
	}
	t.cds = cds
	return cds, nil
}

// transcriptInterval adapts a transcript to the interval tree. The tree
// works on half open spans, so End is shifted by one.
type transcriptInterval struct {
	id         uintptr
	transcript *Transcript
}

func (i transcriptInterval) Overlap(b interval.IntRange) bool {
	r := i.Range()
	return r.End > b.Start && r.Start < b.End
}

func (i transcriptInterval) ID() uintptr { return i.id }

func (i transcriptInterval) Range() interval.IntRange {
	return interval.IntRange{Start: int(i.transcript.Start), End: int(i.transcript.End) + 1}
}

// spanQuery is a half open query span for the interval index.
type spanQuery struct {
	start, end int
}

func (q spanQuery) Overlap(b interval.IntRange) bool {
	return q.end > b.Start && q.start < b.End
}

func (q spanQuery) ID() uintptr { return 0 }

func (q spanQuery) Range() interval.IntRange {
	return interval.IntRange{Start: q.start, End: q.end}
}

// biogo keeps feature coordinates 0-based and half open; the pipeline uses
// 1-based inclusive positions everywhere.
func featStart(feature *gff.Feature) int64 {
	return int64(feature.FeatStart) + 1
}

func featEnd(feature *gff.Feature) int64 {
	return int64(feature.FeatEnd)
}

// attrValue extracts the first of the wanted tags from the attributes of a
// feature. Both the GTF dialect (tag "value";) and the GFF3 dialect
// (tag=value) are accepted, independent of how the reader split the
// attribute column.
func attrValue(feature *gff.Feature, tags ...string) string {
	for _, attribute := range feature.FeatAttributes {
		pair := attribute.Tag
		if attribute.Value != "" {
			pair += " " + attribute.Value
		}
		for _, chunk := range strings.Split(pair, ";") {
			if value, ok := pairValue(strings.TrimSpace(chunk), tags); ok {
				return value
			}
		}
	}
	return ""
}

// pairValue matches a single tag-value pair against the wanted tags.
func pairValue(pair string, tags []string) (string, bool) {
	for _, tag := range tags {
		if !strings.HasPrefix(pair, tag) || len(pair) == len(tag) {
			continue
		}
		if sep := pair[len(tag)]; sep != ' ' && sep != '=' {
			continue
		}
		if value := cleanAttrValue(pair[len(tag)+1:]); value != "" {
			return value, true
		}
	}
	return "", false
}

// cleanAttrValue strips the quoting and ID prefixes the two dialects put
// around attribute values.
func cleanAttrValue(value string) string {
	value = strings.TrimSpace(value)
	value = strings.TrimSuffix(value, ";")
	value = strings.Trim(strings.TrimSpace(value), `"`)
	for _, prefix := range []string{"gene:", "transcript:", "CDS:"} {
		value = strings.TrimPrefix(value, prefix)
	}
	return value
}
