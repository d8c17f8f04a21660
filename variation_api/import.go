package variation_api

import (
	cli "github.com/urfave/cli/v2"
)

// Import converts a VCF file into a variation feature table. Every data
// line becomes one row; unnamed variants are named after their source and
// position.
func Import(Cctx *cli.Context) {
	output := openOutput(Cctx)
	defer output.Close()

	writeLine(tableFormatLine, output)
	writeLine(tableColumnLine, output)

	source := Cctx.String("source")
	ReadVCF(Cctx, Cctx.String("input"), func(variant *Variant) {
		writeLine(formatFeatureRow(featureFromVariant(variant, source)), output)
	})
}
