package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	// Auto asks Decode to detect the charset from the start of the stream.
	Auto = "auto"

	// UTF8 is the canonical name of the default charset.
	UTF8 = "utf-8"

	detectPrefix = 4096
)

// ErrUnsupportedEncoding is returned for charset labels that are not known.
var ErrUnsupportedEncoding = errors.New("unsupported encoding")

// Decode returns a reader producing UTF-8 from r, which is encoded in the
// charset named by label. An empty label means UTF-8. The label Auto detects
// the charset and falls back to UTF-8 when detection fails. A leading UTF-8
// byte order mark is dropped. The canonical charset name is returned.
func Decode(r io.Reader, label string) (io.Reader, string, error) {
	label = strings.ToLower(strings.TrimSpace(label))

	switch label {
	case "":
		label = UTF8
	case Auto:
		buffered := bufio.NewReaderSize(r, detectPrefix)

		detected, err := detect(buffered)
		if err != nil {
			return nil, "", err
		}

		r = buffered

		if _, name := charset.Lookup(detected); name != "" {
			label = name
		} else {
			label = UTF8
		}
	}

	enc, name := charset.Lookup(label)
	if enc == nil {
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedEncoding, label)
	}

	if name == UTF8 {
		enc = unicode.UTF8BOM
	}

	return transform.NewReader(r, enc.NewDecoder()), name, nil
}

// detect guesses the charset of the buffered prefix without consuming it.
func detect(r *bufio.Reader) (string, error) {
	prefix, err := r.Peek(detectPrefix)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", fmt.Errorf("reading input: %w", err)
	}

	if len(prefix) == 0 {
		return UTF8, nil
	}

	best, err := chardet.NewTextDetector().DetectBest(prefix)
	if err != nil {
		return UTF8, nil //nolint:nilerr
	}

	return best.Charset, nil
}
