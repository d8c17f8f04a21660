package variation_api

import (
	"fmt"
	"log"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// The variation classes assigned on import, following the sequence
// ontology naming
const (
	ClassSNV               = "SNV"
	ClassInsertion         = "insertion"
	ClassDeletion          = "deletion"
	ClassIndel             = "indel"
	ClassSubstitution      = "substitution"
	ClassDuplication       = "duplication"
	ClassTandemDuplication = "tandem_duplication"
	ClassInversion         = "inversion"
	ClassCopyNumber        = "copy_number_variation"
	ClassTranslocation     = "translocation"
	ClassAlteration        = "sequence_alteration"
)

// Symbolic ALT and SVTYPE values mapped to their variation class
var structuralClasses = map[string]string{
	"DEL":        ClassDeletion,
	"INS":        ClassInsertion,
	"DUP":        ClassDuplication,
	"DUP:TANDEM": ClassTandemDuplication,
	"INV":        ClassInversion,
	"CNV":        ClassCopyNumber,
	"BND":        ClassTranslocation,
	"TRA":        ClassTranslocation,
}

// The INFO fields that survive the import into the feature table
var retainedInfoFields = []string{"END", "SVTYPE", "CHR2", "SVLEN"}

// Ref returns the reference allele of the feature
func (feature *VariationFeature) Ref() string {
	if len(feature.Alleles) == 0 {
		return ""
	}
	return feature.Alleles[0]
}

// Alts returns the alternate alleles of the feature
func (feature *VariationFeature) Alts() []string {
	if len(feature.Alleles) < 2 {
		return []string{}
	}
	return feature.Alleles[1:]
}

// AlleleString returns the alleles in the slash-separated notation used by
// the flank dump and the reports, e.g. "A/T"
func (feature *VariationFeature) AlleleString() string {
	return strings.Join(feature.Alleles, "/")
}

// Location returns the feature position as "chromosome:start-end"
func (feature *VariationFeature) Location() string {
	return fmt.Sprintf("%s:%d-%d", feature.Chromosome, feature.Start, feature.End)
}

// Convert a parsed VCF variant into a variation feature. Variants without
// an ID are named <source>_<chromosome>_<position>.
func featureFromVariant(variant *Variant, source string) *VariationFeature {
	name := variant.Id
	if name == "" || name == "." {
		name = fmt.Sprintf("%s_%s_%d", source, variant.Chromosome, variant.Pos)
	}

	alleles := append([]string{variant.Ref}, strings.Split(variant.Alt, ",")...)

	feature := &VariationFeature{
		Name:       name,
		Chromosome: variant.Chromosome,
		Start:      variant.Pos,
		End:        variant.Pos + int64(len(variant.Ref)) - 1,
		Strand:     1,
		Alleles:    alleles,
		Class:      classifyVariant(variant),
		Source:     source,
		Info:       map[string]string{},
	}

	for _, field := range retainedInfoFields {
		if value, ok := variant.Info[field]; ok && len(value) > 0 && value[0] != "" {
			feature.Info[field] = value[0]
		}
	}

	if end, ok := feature.Info["END"]; ok {
		if parsed, err := strconv.ParseInt(end, 0, 64); err == nil {
			feature.End = parsed
		}
	}

	return feature
}

// Assign a variation class to a variant. SVTYPE and symbolic alternate
// alleles win over the allele length rules.
func classifyVariant(variant *Variant) string {
	if svType, ok := variant.Info["SVTYPE"]; ok && len(svType) > 0 {
		if class, ok := structuralClasses[svType[0]]; ok {
			return class
		}
	}

	classes := map[string]bool{}
	for _, alt := range strings.Split(variant.Alt, ",") {
		classes[classifyAllele(variant, alt)] = true
	}
	if len(classes) == 1 {
		for class := range classes {
			return class
		}
	}
	return ClassIndel
}

// Assign a variation class to a single reference/alternate allele pair
func classifyAllele(variant *Variant, alt string) string {
	ref := variant.Ref
	switch {
	case alt == "." || alt == "":
		return ClassAlteration
	case strings.HasPrefix(alt, "<") && strings.HasSuffix(alt, ">"):
		symbol := strings.Trim(alt, "<>")
		if class, ok := structuralClasses[symbol]; ok {
			return class
		}
		return ClassAlteration
	case strings.ContainsAny(alt, "[]"):
		return breakendClass(variant, alt)
	case len(ref) == len(alt) && len(ref) == 1:
		return ClassSNV
	case len(ref) == len(alt):
		return ClassSubstitution
	case len(alt) > len(ref):
		return ClassInsertion
	default:
		return ClassDeletion
	}
}

// Classify a breakend allele by reconstructing the breakpoint it
// describes: the bracket direction and mate position decide between a
// translocation, inversion, insertion, duplication or deletion.
func breakendClass(variant *Variant, alt string) string {
	logger := log.New(os.Stderr, "", 0)

	altRegex := regexp.MustCompile(`(\[|\])(?P<chr>[^:]*):(?P<pos>[0-9]*)`)
	altGroups := altRegex.FindStringSubmatch(alt)
	if len(altGroups) == 0 {
		return ClassAlteration
	}

	chr := variant.Chromosome
	pos := variant.Pos
	chr2 := altGroups[2]
	pos2, err := strconv.ParseInt(altGroups[3], 0, 64)
	if err != nil {
		logger.Fatalf("Couldn't convert string to integer: %v", err)
	}
	bracket := altGroups[1]

	strand1 := "+"
	if strings.HasSuffix(alt, "[") || strings.HasSuffix(alt, "]") {
		strand1 = "-"
	}
	strand2 := "+"
	if bracket == "[" {
		strand2 = "-"
	}

	switch {
	case chr != chr2:
		return ClassTranslocation
	case strand1 == strand2:
		return ClassInversion
	case float64(insertedLength(alt, strand1, bracket)) > math.Abs(float64(pos2-pos))*0.5:
		return ClassInsertion
	case pos < pos2 && strand1 == "-" && strand2 == "+":
		return ClassDuplication
	case pos > pos2 && strand1 == "+" && strand2 == "-":
		return ClassDuplication
	default:
		return ClassDeletion
	}
}

// Get the length of the inserted sequence carried by a breakend allele
func insertedLength(alt string, strand string, bracket string) int {
	if strand == "-" {
		return len(alt[strings.LastIndex(alt, bracket):])
	}
	return len(alt[:strings.LastIndex(alt, bracket)])
}
