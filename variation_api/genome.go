package variation_api

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Genome is an in-memory FASTA store keyed by sequence name. Sequences
// are uppercased on load so allele comparisons ignore soft masking.
type Genome struct {
	sequences map[string]string
	names     []string
}

// ReadGenome loads a FASTA file into memory. Gzipped files are detected by
// their .gz suffix. The sequence name is the first word of the header
// line.
func ReadGenome(path string) (*Genome, error) {
	reader, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	genome, err := parseFasta(reader)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read the genome %s", path)
	}
	return genome, nil
}

func parseFasta(r io.Reader) (*Genome, error) {
	genome := &Genome{sequences: map[string]string{}}

	scanner := bufio.NewScanner(r)
	const maxCapacity = 8 * 1000000 // 8 MB
	scanner.Buffer(make([]byte, maxCapacity), maxCapacity)

	name := ""
	var sequence strings.Builder
	flush := func() {
		if name == "" {
			return
		}
		genome.sequences[name] = sequence.String()
		genome.names = append(genome.names, name)
		sequence.Reset()
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			flush()
			fields := strings.Fields(line[1:])
			if len(fields) == 0 {
				return nil, errors.New("FASTA header without a name")
			}
			name = fields[0]
			continue
		}
		if name == "" {
			return nil, errors.New("sequence data before the first FASTA header")
		}
		sequence.WriteString(strings.ToUpper(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	return genome, nil
}

// Names returns the sequence names in file order
func (genome *Genome) Names() []string {
	return genome.names
}

// Has reports whether the genome contains the named sequence
func (genome *Genome) Has(name string) bool {
	_, ok := genome.sequences[name]
	return ok
}

// Length returns the length of the named sequence, or 0 when it is absent
func (genome *Genome) Length(name string) int64 {
	return int64(len(genome.sequences[name]))
}

// Slice returns the 1-based, inclusive subsequence of the named sequence.
// Positions outside the sequence are clamped to its bounds, so a slice
// hanging over an edge returns the part that exists.
func (genome *Genome) Slice(name string, start, end int64) (string, error) {
	sequence, ok := genome.sequences[name]
	if !ok {
		return "", errors.Errorf("unknown sequence %s", name)
	}

	if start < 1 {
		start = 1
	}
	if end > int64(len(sequence)) {
		end = int64(len(sequence))
	}
	if start > end {
		return "", nil
	}
	return sequence[start-1 : end], nil
}
