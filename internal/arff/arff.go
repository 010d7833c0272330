// Package arff reads and writes feature tables in the attribute-relation file format.
package arff

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/huangsam/proneness/core/attrs"
	"github.com/huangsam/proneness/schema"
)

// DefaultRelation names the relation of extracted tables.
const DefaultRelation = "proneness"

// missing is the token of an absent value.
const missing = "?"

// ErrSyntax is returned for malformed input.
var ErrSyntax = errors.New("arff syntax error")

// Write renders t as an ARFF document.
func Write(w io.Writer, relation string, t *attrs.Table) error {
	bw := bufio.NewWriter(w)
	if relation == "" {
		relation = DefaultRelation
	}
	_, _ = fmt.Fprintf(bw, "@relation %s\n\n", quote(relation))

	s := t.Schema
	for i := range s.Len() {
		col := s.Column(i)
		kind := "numeric"
		if col.Kind == schema.StringColumn {
			kind = "string"
		}
		_, _ = fmt.Fprintf(bw, "@attribute %s %s\n", quote(col.Name), kind)
	}
	_, _ = bw.WriteString("\n@data\n")

	for _, row := range t.Rows {
		for i, v := range row {
			if i > 0 {
				_ = bw.WriteByte(',')
			}
			_, _ = bw.WriteString(FormatValue(s, i, v))
		}
		_ = bw.WriteByte('\n')
	}
	return bw.Flush()
}

// FormatValue renders one cell: "?" when missing, a quoted string for string
// columns, the shortest exact decimal otherwise.
func FormatValue(s *attrs.Schema, col int, v float64) string {
	if attrs.IsMissing(v) {
		return missing
	}
	if s.Column(col).Kind == schema.StringColumn {
		str, ok := s.StringAt(col, v)
		if !ok {
			return missing
		}
		return quote(str)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Read parses an ARFF document into a table without a label column.
// Nominal attributes are read as string columns.
func Read(r io.Reader) (*attrs.Table, string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	s := attrs.NewSchema()
	var relation string
	var table *attrs.Table
	line := 0

	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "%") {
			continue
		}

		if table != nil {
			row, err := parseRow(s, text)
			if err != nil {
				return nil, "", fmt.Errorf("line %d: %w", line, err)
			}
			table.Append(row)
			continue
		}

		keyword, rest, _ := strings.Cut(text, " ")
		rest = strings.TrimSpace(rest)
		switch strings.ToLower(keyword) {
		case "@relation":
			name, _, err := nextToken(rest)
			if err != nil {
				return nil, "", fmt.Errorf("line %d: %w", line, err)
			}
			relation = name
		case "@attribute":
			if err := parseAttribute(s, rest); err != nil {
				return nil, "", fmt.Errorf("line %d: %w", line, err)
			}
		case "@data":
			table = attrs.NewTable(s)
		default:
			return nil, "", fmt.Errorf("line %d: %w: unexpected %q", line, ErrSyntax, keyword)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, "", err
	}
	if table == nil {
		return nil, "", fmt.Errorf("%w: missing @data section", ErrSyntax)
	}
	return table, relation, nil
}

func parseAttribute(s *attrs.Schema, decl string) error {
	name, rest, err := nextToken(decl)
	if err != nil {
		return err
	}
	rest = strings.TrimSpace(rest)

	if strings.HasPrefix(rest, "{") {
		end := strings.LastIndex(rest, "}")
		if end < 0 {
			return fmt.Errorf("%w: unterminated nominal list for %q", ErrSyntax, name)
		}
		col, err := s.AddColumn(name, schema.StringColumn)
		if err != nil {
			return err
		}
		values, err := splitValues(rest[1:end])
		if err != nil {
			return err
		}
		for _, v := range values {
			s.Intern(col, v.text)
		}
		return nil
	}

	kind, _, _ := strings.Cut(rest, " ")
	switch strings.ToLower(kind) {
	case "numeric", "real", "integer":
		_, err = s.AddColumn(name, schema.NumericColumn)
	case "string":
		_, err = s.AddColumn(name, schema.StringColumn)
	default:
		return fmt.Errorf("%w: unsupported attribute type %q for %q", ErrSyntax, kind, name)
	}
	return err
}

func parseRow(s *attrs.Schema, text string) (attrs.Row, error) {
	values, err := splitValues(text)
	if err != nil {
		return nil, err
	}
	if len(values) != s.Len() {
		return nil, fmt.Errorf("%w: %d values for %d attributes", ErrSyntax, len(values), s.Len())
	}
	row := s.NewRow()
	for i, v := range values {
		switch {
		case v.text == missing && !v.quoted:
			row[i] = attrs.Missing()
		case s.Column(i).Kind == schema.StringColumn:
			row[i] = s.Intern(i, v.text)
		default:
			f, err := strconv.ParseFloat(v.text, 64)
			if err != nil || math.IsInf(f, 0) {
				return nil, fmt.Errorf("%w: invalid number %q for %q", ErrSyntax, v.text, s.Column(i).Name)
			}
			row[i] = f
		}
	}
	return row, nil
}

type token struct {
	text   string
	quoted bool
}

// splitValues splits a comma-separated list, honoring quotes.
func splitValues(text string) ([]token, error) {
	var out []token
	rest := text
	for {
		rest = strings.TrimLeft(rest, " \t")
		quoted := rest != "" && (rest[0] == '\'' || rest[0] == '"')
		var value string
		var err error
		if quoted {
			value, rest, err = nextToken(rest)
			if err != nil {
				return nil, err
			}
			rest = strings.TrimLeft(rest, " \t")
		} else {
			end := strings.IndexByte(rest, ',')
			if end < 0 {
				end = len(rest)
			}
			value = strings.TrimSpace(rest[:end])
			rest = rest[end:]
		}
		out = append(out, token{text: value, quoted: quoted})

		if rest == "" {
			return out, nil
		}
		if rest[0] != ',' {
			return nil, fmt.Errorf("%w: expected ',' before %q", ErrSyntax, rest)
		}
		rest = rest[1:]
	}
}

// nextToken reads one bare or quoted token and returns the remainder.
func nextToken(text string) (string, string, error) {
	text = strings.TrimLeft(text, " \t")
	if text == "" {
		return "", "", fmt.Errorf("%w: missing name", ErrSyntax)
	}
	q := text[0]
	if q != '\'' && q != '"' {
		end := strings.IndexAny(text, " \t")
		if end < 0 {
			return text, "", nil
		}
		return text[:end], text[end:], nil
	}

	var b strings.Builder
	for i := 1; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '\\' && i+1 < len(text):
			i++
			b.WriteByte(text[i])
		case c == q:
			return b.String(), text[i+1:], nil
		default:
			b.WriteByte(c)
		}
	}
	return "", "", fmt.Errorf("%w: unterminated quote in %q", ErrSyntax, text)
}

// quote wraps s in single quotes when it contains anything but plain
// identifier characters.
func quote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t,'\"\\{}%?") {
		return s
	}
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		if r == '\'' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}
