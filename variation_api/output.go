package variation_api

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/biogo/hts/bgzf"
	cli "github.com/urfave/cli/v2"
)

// openOutput opens the destination named by the --output flag, defaulting
// to stdout. Destinations ending in .gz are bgzip compressed.
func openOutput(Cctx *cli.Context) io.WriteCloser {
	logger := log.New(os.Stderr, "", 0)

	output := Cctx.String("output")
	if output == "" {
		return nopWriteCloser{os.Stdout}
	}

	file, err := os.Create(output)
	if err != nil {
		logger.Fatalf("Failed to create the output file: %v", err)
	}

	if strings.HasSuffix(output, ".gz") {
		return &bgzfWriteCloser{bgzf.NewWriter(file, 1), file}
	}
	return file
}

// Write a line to the output
func writeLine(line string, w io.Writer) {
	logger := log.New(os.Stderr, "", 0)
	if _, err := fmt.Fprintln(w, line); err != nil {
		logger.Fatalf("Failed to write to the output file: %v", err)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// bgzfWriteCloser closes the compressor before the file it writes to
type bgzfWriteCloser struct {
	*bgzf.Writer
	file *os.File
}

func (w *bgzfWriteCloser) Close() error {
	if err := w.Writer.Close(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
