// Package flatfile reads the semicolon-delimited industry classification file
// into classification records.
package flatfile

import (
	"bufio"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/industry-atlas/internal/model"
	"golang.org/x/text/encoding/charmap"
)

// linePattern captures the quoted code, the level and the quoted name of a
// data line. Trailing fields are ignored. Some rows lack the closing quote
// of the code field, so it is optional.
var linePattern = regexp.MustCompile(`"([^";]*)"?;(\d+);"([^"]*)";`)

const maxLineSize = 1024 * 1024

// Parse reads records from r. The first line is a header and is skipped.
// Lines that do not have the expected shape are skipped without error.
// Lines that are not valid UTF-8 are decoded as Windows-1252, the encoding
// older exports of the classification use.
func Parse(r io.Reader) []model.ClassificationRecord {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var records []model.ClassificationRecord
	lineNo := 0
	skipped := 0
	for scanner.Scan() {
		lineNo++
		if lineNo == 1 {
			continue
		}

		rec, ok := ParseLine(scanner.Text())
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("stopped reading classification file early", "line", lineNo, "error", err)
	}

	slog.Debug("parsed classification file", "records", len(records), "skipped", skipped)
	return records
}

// ParseString is Parse over an in-memory document.
func ParseString(s string) []model.ClassificationRecord {
	return Parse(strings.NewReader(s))
}

// ParseLine parses a single data line.
func ParseLine(line string) (model.ClassificationRecord, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return model.ClassificationRecord{}, false
	}
	if !utf8.ValidString(line) {
		decoded, err := charmap.Windows1252.NewDecoder().String(line)
		if err != nil {
			return model.ClassificationRecord{}, false
		}
		line = decoded
	}

	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return model.ClassificationRecord{}, false
	}

	level, err := strconv.Atoi(m[2])
	if err != nil {
		return model.ClassificationRecord{}, false
	}

	return model.ClassificationRecord{
		Code:  strings.ReplaceAll(m[1], "'", ""),
		Level: level,
		Name:  m[3],
	}, true
}
