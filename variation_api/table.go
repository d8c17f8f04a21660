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

// The first two lines of every variation feature table
const (
	tableFormatLine = "##variation-feature-table=v1"
	tableColumnLine = "#name\tchromosome\tstart\tend\tstrand\talleles\tclass\tsource\tinfo"
)

// formatFeatureRow renders one feature as a table row. The info column
// holds the retained fields as sorted key=value pairs, or "." when empty.
func formatFeatureRow(feature *VariationFeature) string {
	info := "."
	if len(feature.Info) > 0 {
		keys := make([]string, 0, len(feature.Info))
		for key := range feature.Info {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		pairs := make([]string, 0, len(keys))
		for _, key := range keys {
			pairs = append(pairs, fmt.Sprintf("%s=%s", key, feature.Info[key]))
		}
		info = strings.Join(pairs, ";")
	}

	return strings.Join([]string{
		feature.Name,
		feature.Chromosome,
		strconv.FormatInt(feature.Start, 10),
		strconv.FormatInt(feature.End, 10),
		strconv.Itoa(int(feature.Strand)),
		feature.AlleleString(),
		feature.Class,
		feature.Source,
		info,
	}, "\t")
}

// parseFeatureRow parses one table row back into a feature
func parseFeatureRow(line string) (*VariationFeature, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 9 {
		return nil, errors.Errorf("expected 9 columns, got %d", len(fields))
	}

	start, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid start position %q", fields[2])
	}
	end, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid end position %q", fields[3])
	}
	strand, err := strconv.ParseInt(fields[4], 10, 8)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid strand %q", fields[4])
	}

	info := map[string]string{}
	if fields[8] != "." {
		for _, pair := range strings.Split(fields[8], ";") {
			split := strings.SplitN(pair, "=", 2)
			if len(split) != 2 {
				return nil, errors.Errorf("invalid info pair %q", pair)
			}
			info[split[0]] = split[1]
		}
	}

	return &VariationFeature{
		Name:       fields[0],
		Chromosome: fields[1],
		Start:      start,
		End:        end,
		Strand:     int8(strand),
		Alleles:    strings.Split(fields[5], "/"),
		Class:      fields[6],
		Source:     fields[7],
		Info:       info,
	}, nil
}

// ReadFeatureTable loads every feature of a variation feature table,
// preserving the row order. Gzipped tables are detected by their .gz
// suffix.
func ReadFeatureTable(path string) ([]*VariationFeature, error) {
	reader, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	features, err := parseFeatureTable(reader)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read the feature table %s", path)
	}
	return features, nil
}

func parseFeatureTable(r io.Reader) ([]*VariationFeature, error) {
	scanner := bufio.NewScanner(r)
	const maxCapacity = 8 * 1000000 // 8 MB
	scanner.Buffer(make([]byte, maxCapacity), maxCapacity)

	features := []*VariationFeature{}
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		feature, err := parseFeatureRow(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNumber)
		}
		features = append(features, feature)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return features, nil
}
