package variation_api

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/pgzip"
	"github.com/pkg/errors"
)

// openInput opens a path for reading, transparently decompressing files
// with a .gz suffix.
func openInput(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	if !strings.HasSuffix(path, ".gz") {
		return file, nil
	}

	gzReader, err := pgzip.NewReader(file)
	if err != nil {
		file.Close()
		return nil, errors.Wrapf(err, "failed to decompress %s", path)
	}
	return &gzipReadCloser{gzReader, file}, nil
}

// gzipReadCloser closes the decompressor before the file behind it
type gzipReadCloser struct {
	*pgzip.Reader
	file *os.File
}

func (r *gzipReadCloser) Close() error {
	if err := r.Reader.Close(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}
