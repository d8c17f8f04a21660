package variation_api

import (
	"log"
	"os"

	"github.com/Gurpreet-Ghattaoraya/ensembl-variation/reportxml"
	cli "github.com/urfave/cli/v2"
	"gopkg.in/yaml.v2"
)

// Read the configuration file, cast it to its struct and backfill the
// defaults. Without a --config flag the defaults alone are used.
func ReadConfig(Cctx *cli.Context) *Config {
	logger := log.New(os.Stderr, "", 0)

	config := &Config{}
	if Cctx.String("config") != "" {
		configFile, err := os.ReadFile(Cctx.String("config"))
		if err != nil {
			logger.Fatalf("Failed to open the config file: %v", err)
		}

		if err := yaml.Unmarshal(configFile, config); err != nil {
			logger.Fatalf("Failed to parse the config file: %v", err)
		}
	}

	config.defineMissing()
	return config
}

// Define all missing mandatory fields
func (config *Config) defineMissing() {
	if config.Id == "" {
		config.Id = "$NAME"
	}

	if config.Alt == nil {
		config.Alt = map[string]string{}
	}

	// Info fields
	if config.Info == nil {
		config.Info = MapConfigInput{}
	}
	if _, ok := config.Info["VC"]; !ok {
		config.Info["VC"] = ConfigInput{
			Value:       "$CLASS",
			Number:      "1",
			Type:        "String",
			Description: "Variation class",
		}
	}
	if _, ok := config.Info["END"]; !ok {
		config.Info["END"] = ConfigInput{
			Value:       "$INFO/END",
			Number:      "1",
			Type:        "Integer",
			Description: "End position of the variant described in this record",
			Alts: map[string]string{
				"SNV": "",
			},
		}
	}
	if _, ok := config.Info["SVTYPE"]; !ok {
		config.Info["SVTYPE"] = ConfigInput{
			Value:       "$INFO/SVTYPE",
			Number:      "1",
			Type:        "String",
			Description: "Type of structural variant",
		}
	}

	// Flanking sequence fields
	if config.Flank.Length == 0 {
		config.Flank.Length = 400
	}

	// Report fields
	if config.Report.Assembly == "" {
		config.Report.Assembly = "GRCh38"
	}
	if config.Report.Stylesheet == "" {
		config.Report.Stylesheet = reportxml.DefaultStylesheet
	}
	if config.Report.Context == 0 {
		config.Report.Context = 20
	}
}
