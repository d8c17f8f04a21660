package variation_api

// The struct representing the header of a VCF file in a parseable format
type Header struct {
	// Object containing the INFO fields with their ID, Number, Type and Description
	// The ID is the key of the map
	// The value is a struct containing the Id, Number, Type and Description
	Info map[string]HeaderLineIdNumberTypeDescription

	// Object containing the FORMAT fields with their ID, Number, Type and Description
	// The ID is the key of the map
	// The value is a struct containing the Id, Number, Type and Description
	Format map[string]HeaderLineIdNumberTypeDescription

	// Object containing the ALT fields with their ID and Description
	// The ID is the key of the map
	// The value is a struct containing the Id and Description
	Alt map[string]HeaderLineIdDescription

	// Object containing the FILTER fields with their ID and Description
	// The ID is the key of the map
	// The value is a struct containing the Id and Description
	Filter map[string]HeaderLineIdDescription

	// List of all contigs in the VCF file with their ID and Length
	Contig []HeaderLineIdLength

	// List of all other VCF fields
	Other []string

	// List of all samples in the VCF file
	Samples []string
}

// A struct representing a header line in the VCF file with its ID and Description
type HeaderLineIdDescription struct {
	// The ID of the header line
	Id string

	// The description of the header line
	Description string
}

// A struct representing a header line in the VCF file with its ID, Number, Type and Description
type HeaderLineIdNumberTypeDescription struct {
	// The ID of the header line
	Id string

	// The number of values in the header line
	// Can be any integer, "A", "G", "R" or "."
	// A = one value per alternate allele
	// G = one value per possible genotype
	// R = one value per possible allele
	// . = the number varies, is unkown or is unbounded
	Number string

	// The type of the header line
	// Can be "Integer", "Float", "Flag", "String" or "Character"
	Type string

	// The description of the header line
	Description string
}

// A struct representing a header line in the VCF file with its ID and Length
type HeaderLineIdLength struct {
	// The ID of the header line
	Id string

	// The length of the header line
	Length int64
}

// A struct representing a variant record in a VCF file
type Variant struct {
	// The chromosome of the variant
	Chromosome string

	// The 1-based position of the variant
	Pos int64

	// The ID of the variant
	Id string

	// The reference allele of the variant
	Ref string

	// The alternate allele of the variant
	Alt string

	// The Phred-scaled quality score of the variant
	Qual string

	// The filter status of the variant
	Filter string

	// A pointer to the header of the VCF that contains this variant
	Header *Header

	// The INFO values of the variant
	Info map[string][]string

	// The FORMAT values of the variant
	Format map[string]VariantFormat
}

// A struct representing the format of a variant in the VCF file
type VariantFormat struct {
	// The sample name of the variant
	Sample string

	// The content of the format field
	Content map[string][]string
}

// A struct representing one row of the variation feature table. This is the
// native record of the pipeline: imports produce it and every other command
// consumes it.
type VariationFeature struct {
	// The name of the variation, unique within a source
	Name string

	// The chromosome the feature is placed on
	Chromosome string

	// The 1-based, inclusive start position
	Start int64

	// The 1-based, inclusive end position
	End int64

	// The strand of the feature, 1 or -1
	Strand int8

	// The alleles of the feature, reference allele first
	Alleles []string

	// The variation class of the feature (SNV, insertion, deletion, ...)
	Class string

	// The source the feature was imported from
	Source string

	// Retained INFO fields such as END and SVTYPE for structural variants
	Info map[string]string
}

//
// Config structs
//

// The struct representing the configuration file
// The config file is a YAML file
type Config struct {
	// How to build the ID field of each dumped variant
	Id string

	// Symbolic ALT alleles to emit per variation class when dumping
	Alt map[string]string

	// How to build the INFO fields of each dumped variant
	Info MapConfigInput

	// Flanking sequence settings
	Flank FlankConfig

	// Report generation settings
	Report ReportConfig
}

// A map construct for advanced configurations
type MapConfigInput map[string]ConfigInput

// A struct representing the configuration of advanced fields (like INFO)
type ConfigInput struct {
	// The value of the field
	// This can be a string or a reference to another field
	Value string

	// The description of the field
	// This is used to generate the VCF header
	Description string

	// The number of values in the field
	Number string

	// The type of the field
	Type string

	// Alternative values for each variation class
	Alts map[string]string
}

// Settings for the flanking sequence dump
type FlankConfig struct {
	// The number of bases to take on each side of a feature
	Length int64
}

// Settings for the XML report
type ReportConfig struct {
	// The assembly name written on the report root
	Assembly string

	// The stylesheet reference written into the report
	Stylesheet string

	// The number of reference bases written around each variant
	Context int64
}
