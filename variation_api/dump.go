package variation_api

import (
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	cli "github.com/urfave/cli/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Dump emits a variation feature table as a sites-only VCF file. The
// config templates control the ID and INFO columns.
func Dump(Cctx *cli.Context) {
	logger := log.New(os.Stderr, "", 0)

	config := ReadConfig(Cctx)
	features, err := ReadFeatureTable(Cctx.String("input"))
	if err != nil {
		logger.Fatal(err)
	}

	output := openOutput(Cctx)
	defer output.Close()

	writeVCFHeader(config, Cctx, features, output)
	for _, feature := range features {
		writeLine(vcfLine(feature, config), output)
	}
}

func writeVCFHeader(config *Config, Cctx *cli.Context, features []*VariationFeature, output io.Writer) {
	// VCF version
	writeLine("##fileformat=VCFv4.2", output)

	// Date of file creation
	if !Cctx.Bool("nodate") {
		cT := time.Now()
		dateLine := fmt.Sprintf("##fileDate=%d%02d%02d", cT.Year(), cT.Month(), cT.Day())
		writeLine(dateLine, output)
	}

	writeLine("##source=ensembl-variation", output)

	descriptionRegex := regexp.MustCompile(`["']?([^"']*)["']?`)

	// Write the info fields of the config
	infoNames := make([]string, 0, len(config.Info))
	for name := range config.Info {
		infoNames = append(infoNames, name)
	}
	sort.Strings(infoNames)

	for _, name := range infoNames {
		info := config.Info[name]
		description := descriptionRegex.FindStringSubmatch(info.Description)[1]
		infoType := cases.Title(language.English, cases.Compact).String(strings.ToLower(info.Type))
		infoLine := fmt.Sprintf("##INFO=<ID=%s,Number=%s,Type=%s,Description=\"%s\">", name, info.Number, infoType, description)
		writeLine(infoLine, output)
	}

	// ALT header lines for the symbolic alleles of the config
	altClasses := make([]string, 0, len(config.Alt))
	for class := range config.Alt {
		altClasses = append(altClasses, class)
	}
	sort.Strings(altClasses)

	for _, class := range altClasses {
		altLine := fmt.Sprintf("##ALT=<ID=%s,Description=\"%s\">", config.Alt[class], class)
		writeLine(altLine, output)
	}

	// Write a contig line per chromosome, in order of appearance
	seen := map[string]bool{}
	for _, feature := range features {
		if seen[feature.Chromosome] {
			continue
		}
		seen[feature.Chromosome] = true
		writeLine(fmt.Sprintf("##contig=<ID=%s>", feature.Chromosome), output)
	}

	// Write the column headers
	columnHeaders := []string{"#CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO"}
	writeLine(strings.Join(columnHeaders, "\t"), output)
}

// vcfLine renders one feature as a VCF data line
func vcfLine(feature *VariationFeature, config *Config) string {
	alt := strings.Join(feature.Alts(), ",")
	if symbol, ok := config.Alt[feature.Class]; ok {
		alt = "<" + symbol + ">"
	}

	// Make sure the order of the info fields is respected
	infoNames := make([]string, 0, len(config.Info))
	for name := range config.Info {
		infoNames = append(infoNames, name)
	}
	sort.Strings(infoNames)

	infoSlice := []string{}
	for _, name := range infoNames {
		infoConfig := config.Info[name]
		value := infoConfig.Value
		if val, ok := infoConfig.Alts[feature.Class]; ok {
			value = val
		}
		// Don't add INFO fields with empty values
		if value == "" {
			continue
		}
		resolved := ResolveValue(value, feature)
		if resolved == "" {
			continue
		}
		if infoConfig.Type == "Flag" {
			infoSlice = append(infoSlice, name)
			continue
		}
		infoSlice = append(infoSlice, fmt.Sprintf("%s=%s", name, resolved))
	}

	info := "."
	if len(infoSlice) > 0 {
		info = strings.Join(infoSlice, ";")
	}

	return fmt.Sprintf(
		"%v\t%v\t%v\t%v\t%v\t%v\t%v\t%v",
		feature.Chromosome,
		feature.Start,
		ResolveValue(config.Id, feature),
		feature.Ref(),
		alt,
		".",
		".",
		info,
	)
}
