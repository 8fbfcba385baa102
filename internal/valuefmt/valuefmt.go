// Package valuefmt converts values between their stored bytes and the
// encodings accepted on the command line.
package valuefmt

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/pflag"
)

// Format is a value encoding
type Format string

const (
	Raw Format = "raw"
	Hex Format = "hex"
)

// FormatError reports malformed externally supplied input
type FormatError struct {
	Format  Format
	Message string
	Err     error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid %s value: %s", e.Format, e.Message)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

var _ pflag.Value = (*Format)(nil)

// String implements pflag.Value
func (f *Format) String() string {
	if *f == "" {
		return string(Raw)
	}
	return string(*f)
}

// Set implements pflag.Value
func (f *Format) Set(s string) error {
	switch Format(s) {
	case Raw, Hex:
		*f = Format(s)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (want raw or hex)", s)
	}
}

// Type implements pflag.Value
func (f *Format) Type() string {
	return "format"
}

// Encode renders value for output. Hex uses upper case digits.
func Encode(f Format, value []byte) string {
	if f == Hex {
		return strings.ToUpper(hex.EncodeToString(value))
	}
	return string(value)
}

// Decode parses input supplied in format f. Hex input may be surrounded by
// whitespace.
func Decode(f Format, input []byte) ([]byte, error) {
	if f != Hex {
		return input, nil
	}

	s := strings.TrimSpace(string(input))
	if len(s)%2 != 0 {
		return nil, &FormatError{Format: Hex, Message: "hex string length must be a multiple of two"}
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, &FormatError{Format: Hex, Message: "bad hex digit", Err: err}
	}
	return b, nil
}

// IsPrintable reports whether every byte is printable ASCII or whitespace
func IsPrintable(b []byte) bool {
	for _, c := range b {
		r := rune(c)
		if r >= unicode.MaxASCII || !(unicode.IsPrint(r) || unicode.IsSpace(r)) {
			return false
		}
	}
	return true
}

// Diff renders a line diff between two values for display
func Diff(old, new []byte) string {
	dmp := diffmatchpatch.New()

	a, b, lineArray := dmp.DiffLinesToChars(string(old), string(new))
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var sb strings.Builder
	for _, d := range diffs {
		var marker string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			marker = "-"
		case diffmatchpatch.DiffInsert:
			marker = "+"
		default:
			marker = " "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(marker)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}
