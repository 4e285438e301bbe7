package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Encoding selects how input bytes are decoded.
type Encoding string

const (
	// EncodingLatin1 maps every byte to one character, so decoding never fails.
	EncodingLatin1 Encoding = "latin1"
	EncodingUTF8   Encoding = "utf8"
)

// ParseEncoding converts a configuration value to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "")) {
	case "", "latin1", "iso88591":
		return EncodingLatin1, nil
	case "utf8":
		return EncodingUTF8, nil
	default:
		return "", fmt.Errorf("unsupported encoding: %s", s)
	}
}

// ReadLines reads r to the end and returns its lines trimmed of surrounding
// whitespace. Blank lines are dropped. Lines have no length limit.
func ReadLines(r io.Reader, enc Encoding) ([]string, error) {
	if enc != EncodingUTF8 {
		r = charmap.ISO8859_1.NewDecoder().Reader(r)
	}

	br := bufio.NewReader(r)
	var lines []string
	for {
		raw, err := br.ReadString('\n')
		if line := strings.TrimSpace(raw); line != "" {
			lines = append(lines, line)
		}
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return lines, err
		}
	}
}

// ReadFile opens path and reads its lines with ReadLines.
func ReadFile(path string, enc Encoding) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadLines(f, enc)
}
