package loader

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// LabParam is one parameter listed in a LAB export. Struct is the enclosing
// struct parameter for ">>>" member lines and empty for top-level ones.
type LabParam struct {
	Struct string
	Name   string
}

// ExtractLAB lists the parameters that follow the first "<section>=" line of
// a LAB export (section is NRCellDU or NRCellCU).
func ExtractLAB(r io.Reader, section string) ([]LabParam, error) {
	marker := section + "="
	var (
		out    []LabParam
		found  bool
		parent string
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if !found {
			found = strings.Contains(line, marker)
			continue
		}
		// a later section header is itself skipped
		if strings.Contains(line, marker) {
			continue
		}
		s := strings.TrimSpace(line)
		if skipLabLine(s) {
			continue
		}
		if strings.HasPrefix(s, ">>>") {
			_, member, ok := strings.Cut(s, ".")
			if !ok {
				continue
			}
			name, _, _ := strings.Cut(member, "=")
			out = append(out, LabParam{Struct: parent, Name: strings.TrimSpace(name)})
			continue
		}
		parent = strings.Fields(s)[0]
		out = append(out, LabParam{Name: parent})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read LAB file: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("LAB file: no %q section", marker)
	}
	return out, nil
}

// skipLabLine drops blanks, banners, totals and node-name lines.
func skipLabLine(s string) bool {
	if s == "" {
		return true
	}
	for _, p := range []string{"===", "Total:", "INFO:"} {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	c := rune(s[0])
	return unicode.IsDigit(c) || c == 'X' || c == 'G' || c == 'E'
}

// ExtractLABFile is ExtractLAB on a file.
func ExtractLABFile(path, section string) ([]LabParam, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	defer f.Close()
	return ExtractLAB(f, section)
}

// WriteLabCSV writes the "Struct;Parameter" listing.
func WriteLabCSV(w io.Writer, params []LabParam) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write([]string{"Struct", "Parameter"}); err != nil {
		return err
	}
	for _, p := range params {
		if err := cw.Write([]string{p.Struct, p.Name}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteNames writes one parameter name per line, the format ReadNameList reads.
func WriteNames(w io.Writer, params []LabParam) error {
	bw := bufio.NewWriter(w)
	for _, p := range params {
		if _, err := fmt.Fprintln(bw, p.Name); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadNameList reads a text file of parameter names, one per line, skipping
// blank lines.
func ReadNameList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			out = append(out, s)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return out, nil
}
