package variation_api

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Gurpreet-Ghattaoraya/ensembl-variation/reportxml"
	cli "github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// Report builds or updates the XML variation report of a set of
// consequence calls. The input is a consequence table, or a variation
// feature table that is annotated on the fly.
func Report(Cctx *cli.Context) {
	logger := log.New(os.Stderr, "", 0)
	zlog := newLogger(Cctx)
	defer zlog.Sync()

	if Cctx.String("output") == "" && Cctx.String("merge") == "" {
		logger.Fatal("No output file given, use --output and/or --merge")
	}

	config := ReadConfig(Cctx)
	genes, err := ReadGeneSet(Cctx.String("genes"))
	if err != nil {
		logger.Fatal(err)
	}

	var genome *Genome
	if Cctx.String("genome") != "" {
		if genome, err = ReadGenome(Cctx.String("genome")); err != nil {
			logger.Fatal(err)
		}
	}

	calls, err := readReportInput(Cctx, genes, genome, zlog)
	if err != nil {
		logger.Fatal(err)
	}

	doc, err := openReport(Cctx, config)
	if err != nil {
		logger.Fatal(err)
	}

	buildReport(doc, calls, config, genome)

	if err := doc.Save(); err != nil {
		logger.Fatal(err)
	}
}

// openReport starts a fresh report or loads the one to merge into. When
// both --merge and --output are given, the merged report saves to the
// --output path.
func openReport(Cctx *cli.Context, config *Config) (*reportxml.Document, error) {
	var doc *reportxml.Document
	if merge := Cctx.String("merge"); merge != "" {
		parsed, err := reportxml.ParseFile(merge)
		if err != nil {
			return nil, err
		}
		doc = parsed
	} else {
		doc = reportxml.New(Cctx.String("output"))
	}

	if output := Cctx.String("output"); output != "" {
		doc.Path = output
	}

	doc.Stylesheet = config.Report.Stylesheet
	if stylesheet := Cctx.String("stylesheet"); stylesheet != "" {
		doc.Stylesheet = stylesheet
	}
	return doc, nil
}

// readReportInput loads the consequence calls: directly from a consequence
// table, or by annotating a variation feature table.
func readReportInput(Cctx *cli.Context, genes *GeneSet, genome *Genome, zlog *zap.Logger) ([]*Consequence, error) {
	input := Cctx.String("input")

	table, err := isConsequenceTable(input)
	if err != nil {
		return nil, err
	}
	if table {
		return ReadConsequenceTable(input, genes)
	}

	features, err := ReadFeatureTable(input)
	if err != nil {
		return nil, err
	}

	annotator := NewAnnotator(genes)
	annotator.SetLogger(zlog)
	if genome != nil {
		annotator.SetGenome(genome)
	}

	calls := []*Consequence{}
	for _, feature := range features {
		calls = append(calls, annotator.Annotate(feature)...)
	}
	return calls, nil
}

// isConsequenceTable sniffs the first non-empty line of a file for the
// consequence table format marker.
func isConsequenceTable(path string) (bool, error) {
	reader, err := openInput(path)
	if err != nil {
		return false, err
	}
	defer reader.Close()

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		return strings.HasPrefix(line, "##consequence-table"), nil
	}
	return false, scanner.Err()
}

// buildReport fills a report document from a set of consequence calls. On
// a parsed document the existing gene nodes are updated in place, so the
// same path serves fresh builds and merges.
func buildReport(doc *reportxml.Document, calls []*Consequence, config *Config, genome *Genome) {
	root := doc.FindNode("variation_report", nil)
	if root == nil {
		root = doc.AddNode("variation_report", nil)
	}
	root.SetAttr("date", time.Now().Format("2006-01-02"))
	root.SetAttr("assembly", config.Report.Assembly)

	for _, group := range groupByGene(calls) {
		if group.gene == nil {
			fillIntergenicNode(root, group.calls, config, genome)
			continue
		}
		fillGeneNode(root, group, config, genome)
	}

	// The intergenic section trails the gene nodes, the summary leads.
	if intergenic := root.FindNode("intergenic", nil); intergenic != nil {
		intergenic.MoveTo(len(root.Children) - 1)
	}
	refreshSummary(root)
}

// geneGroup collects the calls of one gene. The intergenic group carries a
// nil gene.
type geneGroup struct {
	gene  *Gene
	calls []*Consequence
}

// groupByGene buckets the calls per gene in first-appearance order
func groupByGene(calls []*Consequence) []*geneGroup {
	groups := []*geneGroup{}
	index := map[*Gene]*geneGroup{}
	for _, call := range calls {
		group, ok := index[call.Gene]
		if !ok {
			group = &geneGroup{gene: call.Gene}
			index[call.Gene] = group
			groups = append(groups, group)
		}
		group.calls = append(group.calls, call)
	}
	return groups
}

// fillGeneNode creates or updates the gene node of one group: the
// attributes are refreshed, missing transcript nodes added and the variant
// children replaced by the merged calls.
func fillGeneNode(root *reportxml.Node, group *geneGroup, config *Config, genome *Genome) {
	gene := group.gene
	node := root.FindNode("gene", reportxml.Attributes{"id": gene.ID})
	if node == nil {
		node = root.AddNode("gene", nil)
	}
	node.SetAttr("id", gene.ID)
	node.SetAttr("name", gene.Name)
	node.SetAttr("chromosome", gene.Chromosome)
	node.SetAttr("start", strconv.FormatInt(gene.Start, 10))
	node.SetAttr("end", strconv.FormatInt(gene.End, 10))
	node.SetAttr("strand", strconv.Itoa(int(gene.Strand)))
	node.SetAttr("biotype", gene.Biotype)

	for _, transcript := range gene.Transcripts {
		if node.FindNode("transcript", reportxml.Attributes{"id": transcript.ID}) != nil {
			continue
		}
		node.AddEmptyNode("transcript", reportxml.Attributes{
			"id":      transcript.ID,
			"biotype": transcript.Biotype,
			"start":   strconv.FormatInt(transcript.Start, 10),
			"end":     strconv.FormatInt(transcript.End, 10),
		})
	}

	clearVariants(node)
	for _, call := range mergeCalls(group.calls) {
		addVariantNode(node, call, config, genome)
	}
}

// fillIntergenicNode creates or updates the section for calls outside any
// gene.
func fillIntergenicNode(root *reportxml.Node, calls []*Consequence, config *Config, genome *Genome) {
	node := root.FindNode("intergenic", nil)
	if node == nil {
		node = root.AddNode("intergenic", nil)
	}

	clearVariants(node)
	for _, call := range mergeCalls(calls) {
		addVariantNode(node, call, config, genome)
	}
}

// mergeCalls folds the calls of one section into one call per feature
// name, carrying the union of their terms ranked most severe first.
func mergeCalls(calls []*Consequence) []*Consequence {
	merged := []*Consequence{}
	index := map[string]*Consequence{}
	terms := map[string]map[string]bool{}
	for _, call := range calls {
		combined, ok := index[call.Name]
		if !ok {
			copied := *call
			combined = &copied
			index[call.Name] = combined
			terms[call.Name] = map[string]bool{}
			merged = append(merged, combined)
		}
		for _, term := range call.Terms {
			terms[call.Name][term] = true
		}
	}
	for _, call := range merged {
		call.Terms = rankTerms(terms[call.Name])
	}
	return merged
}

// addVariantNode renders one merged call as a variant node. With a genome
// the node content shows the alleles in their reference context.
func addVariantNode(section *reportxml.Node, call *Consequence, config *Config, genome *Genome) {
	attrs := reportxml.Attributes{
		"name":        call.Name,
		"class":       call.Class,
		"position":    call.Location(),
		"alleles":     call.Alleles,
		"consequence": strings.Join(call.Terms, ","),
	}

	context := flankContext(call, config, genome)
	if context == "" {
		section.AddEmptyNode("variant", attrs)
		return
	}
	node := section.AddNode("variant", attrs)
	node.Content = context
}

// flankContext renders the reference context of a call as
// "upstream[alleles]downstream", or "" when no genome is available.
func flankContext(call *Consequence, config *Config, genome *Genome) string {
	if genome == nil || !genome.Has(call.Chromosome) {
		return ""
	}

	width := config.Report.Context
	upstream, err := genome.Slice(call.Chromosome, call.Start-width, call.Start-1)
	if err != nil {
		return ""
	}
	downstream, err := genome.Slice(call.Chromosome, call.End+1, call.End+width)
	if err != nil {
		return ""
	}
	return upstream + "[" + call.Alleles + "]" + downstream
}

// clearVariants drops the variant children of a section before the merged
// calls are written back.
func clearVariants(section *reportxml.Node) {
	for _, variant := range section.FindNodes("variant", nil) {
		section.RemoveChild(variant)
	}
}

// refreshSummary recounts the report and pins the summary node back to the
// top of the tree.
func refreshSummary(root *reportxml.Node) {
	summary := root.FindNode("summary", nil)
	if summary == nil {
		summary = root.AddEmptyNode("summary", nil)
	}

	names := map[string]bool{}
	for _, variant := range root.FindNodes("variant", nil) {
		names[variant.Attr("name")] = true
	}
	summary.SetAttr("variants", strconv.Itoa(len(names)))
	summary.SetAttr("genes", strconv.Itoa(len(root.FindNodes("gene", nil))))
	summary.MoveTo(0)
}
