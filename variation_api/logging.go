package variation_api

import (
	"log"
	"os"

	cli "github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the structured logger used for annotation and flank
// warnings. The default level is Warn; --verbose lowers it to Debug.
func newLogger(Cctx *cli.Context) *zap.Logger {
	config := zap.NewDevelopmentConfig()
	if !Cctx.Bool("verbose") {
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}

	logger, err := config.Build()
	if err != nil {
		log.New(os.Stderr, "", 0).Fatalf("Failed to build the logger: %v", err)
	}
	return logger
}
