package input

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Stdin is the path that names standard input.
const Stdin = "-"

// Compression describes a codec selected by file extension.
type Compression struct {
	Name      string
	Extension string

	reader func(io.Reader) (io.ReadCloser, error)
	writer func(io.Writer) (io.WriteCloser, error)
}

var compressions = []Compression{
	{
		Name:      "gzip",
		Extension: ".gz",
		reader: func(r io.Reader) (io.ReadCloser, error) {
			return gzip.NewReader(r)
		},
		writer: func(w io.Writer) (io.WriteCloser, error) {
			return gzip.NewWriter(w), nil
		},
	},
	{
		Name:      "zstd",
		Extension: ".zst",
		reader: func(r io.Reader) (io.ReadCloser, error) {
			dec, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}

			return dec.IOReadCloser(), nil
		},
		writer: func(w io.Writer) (io.WriteCloser, error) {
			return zstd.NewWriter(w)
		},
	},
	{
		Name:      "brotli",
		Extension: ".br",
		reader: func(r io.Reader) (io.ReadCloser, error) {
			return io.NopCloser(brotli.NewReader(r)), nil
		},
		writer: func(w io.Writer) (io.WriteCloser, error) {
			return brotli.NewWriter(w), nil
		},
	},
	{
		Name:      "lz4",
		Extension: ".lz4",
		reader: func(r io.Reader) (io.ReadCloser, error) {
			return io.NopCloser(lz4.NewReader(r)), nil
		},
		writer: func(w io.Writer) (io.WriteCloser, error) {
			return lz4.NewWriter(w), nil
		},
	},
	{
		Name:      "snappy",
		Extension: ".sz",
		reader: func(r io.Reader) (io.ReadCloser, error) {
			return io.NopCloser(snappy.NewReader(r)), nil
		},
		writer: func(w io.Writer) (io.WriteCloser, error) {
			return snappy.NewBufferedWriter(w), nil
		},
	},
}

// Extensions lists the file extensions that are decompressed on Open.
func Extensions() []string {
	exts := make([]string, 0, len(compressions))
	for _, c := range compressions {
		exts = append(exts, c.Extension)
	}

	slices.Sort(exts)

	return exts
}

// CompressionFor returns the codec for path's extension, if any.
func CompressionFor(path string) (Compression, bool) {
	ext := strings.ToLower(filepath.Ext(path))

	for _, c := range compressions {
		if c.Extension == ext {
			return c, true
		}
	}

	return Compression{}, false
}

// Open opens path for reading, decompressing it when the extension names a
// supported codec. Stdin is returned unwrapped and is never closed.
func Open(path string) (io.ReadCloser, error) {
	if path == Stdin {
		return io.NopCloser(os.Stdin), nil
	}

	file, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, err
	}

	codec, ok := CompressionFor(path)
	if !ok {
		return file, nil
	}

	dec, err := codec.reader(file)
	if err != nil {
		_ = file.Close()

		return nil, fmt.Errorf("opening %s stream %s: %w", codec.Name, path, err)
	}

	// The decoder is closed before the file it reads from.
	return &stack{Reader: dec, closers: []io.Closer{dec, file}}, nil
}

// stack reads from its Reader and closes every closer in order.
type stack struct {
	io.Reader

	closers []io.Closer
}

func (s *stack) Close() error {
	var errs []error

	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	s.closers = nil

	return errors.Join(errs...)
}
