package variation_api

import (
	"fmt"
	"regexp"
	"strings"
)

// ResolveValue fills a dump template with the fields of a variation
// feature. $NAME, $CHROM, $POS, $END, $REF, $ALT, $CLASS, $SOURCE and
// $STRAND reference the feature columns, $INFO/<field> the retained info
// fields. Missing info fields resolve to an empty string so optional
// fields drop out of the output. Templates containing a ~function are
// resolved after substitution.
func ResolveValue(input string, feature *VariationFeature) string {
	// Replace all the INFO fields
	infoRegex := regexp.MustCompile(`\$INFO/\w+`)
	for _, stringToReplace := range infoRegex.FindAllString(input, -1) {
		field := strings.Replace(stringToReplace, "$INFO/", "", 1)
		input = strings.ReplaceAll(input, stringToReplace, feature.Info[field])
	}

	input = strings.ReplaceAll(input, "$NAME", feature.Name)
	input = strings.ReplaceAll(input, "$CHROM", feature.Chromosome)
	input = strings.ReplaceAll(input, "$POS", fmt.Sprint(feature.Start))
	input = strings.ReplaceAll(input, "$END", fmt.Sprint(feature.End))
	input = strings.ReplaceAll(input, "$REF", feature.Ref())
	input = strings.ReplaceAll(input, "$ALT", strings.Join(feature.Alts(), ","))
	input = strings.ReplaceAll(input, "$CLASS", feature.Class)
	input = strings.ReplaceAll(input, "$SOURCE", feature.Source)
	input = strings.ReplaceAll(input, "$STRAND", fmt.Sprint(feature.Strand))

	if strings.Contains(input, "~") {
		input = resolveFunction(input, "~")
	}

	return input
}
