package variation_api

import "strings"

// Standard genetic code, DNA codons to single letter amino acids.
var codonTable = map[string]byte{
	"TTT": 'F', "TTC": 'F', "TTA": 'L', "TTG": 'L',
	"TCT": 'S', "TCC": 'S', "TCA": 'S', "TCG": 'S',
	"TAT": 'Y', "TAC": 'Y', "TAA": '*', "TAG": '*',
	"TGT": 'C', "TGC": 'C', "TGA": '*', "TGG": 'W',

	"CTT": 'L', "CTC": 'L', "CTA": 'L', "CTG": 'L',
	"CCT": 'P', "CCC": 'P', "CCA": 'P', "CCG": 'P',
	"CAT": 'H', "CAC": 'H', "CAA": 'Q', "CAG": 'Q',
	"CGT": 'R', "CGC": 'R', "CGA": 'R', "CGG": 'R',

	"ATT": 'I', "ATC": 'I', "ATA": 'I', "ATG": 'M',
	"ACT": 'T', "ACC": 'T', "ACA": 'T', "ACG": 'T',
	"AAT": 'N', "AAC": 'N', "AAA": 'K', "AAG": 'K',
	"AGT": 'S', "AGC": 'S', "AGA": 'R', "AGG": 'R',

	"GTT": 'V', "GTC": 'V', "GTA": 'V', "GTG": 'V',
	"GCT": 'A', "GCC": 'A', "GCA": 'A', "GCG": 'A',
	"GAT": 'D', "GAC": 'D', "GAA": 'E', "GAG": 'E',
	"GGT": 'G', "GGC": 'G', "GGA": 'G', "GGG": 'G',
}

var complementMap = map[byte]byte{
	'A': 'T', 'T': 'A', 'G': 'C', 'C': 'G',
	'N': 'N',
}

// TranslateCodon translates a DNA codon to its amino acid. It returns '*'
// for stop codons and 'X' for codons it does not know.
func TranslateCodon(codon string) byte {
	if len(codon) != 3 {
		return 'X'
	}
	if aa, ok := codonTable[strings.ToUpper(codon)]; ok {
		return aa
	}
	return 'X'
}

// Complement returns the complement of a single base, or 'N' for bases
// outside the DNA alphabet.
func Complement(base byte) byte {
	if comp, ok := complementMap[base]; ok {
		return comp
	}
	return 'N'
}

// ReverseComplement returns the reverse complement of a DNA sequence.
func ReverseComplement(sequence string) string {
	length := len(sequence)
	result := make([]byte, length)
	for i := 0; i < length; i++ {
		result[i] = Complement(sequence[length-1-i])
	}
	return string(result)
}

// mutateCodon replaces one base of a codon. The position is 0-based.
func mutateCodon(codon string, position int, base byte) string {
	if len(codon) != 3 || position < 0 || position > 2 {
		return codon
	}
	mutated := []byte(codon)
	mutated[position] = base
	return string(mutated)
}
