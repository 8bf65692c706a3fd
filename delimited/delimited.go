// Package delimited turns comma or tab separated text into a table of
// rows keyed by the header line.
package delimited

import (
	"encoding/csv"
	"encoding/json"
	"strconv"
	"strings"
)

// Row is an ordered set of column/value pairs.
type Row struct {
	cols []string
	vals []string
}

// Get returns the value of a column.
func (r Row) Get(col string) (string, bool) {
	for i, c := range r.cols {
		if c == col {
			return r.vals[i], true
		}
	}
	return "", false
}

func (r Row) Columns() []string { return append([]string(nil), r.cols...) }

func (r Row) Values() []string { return append([]string(nil), r.vals...) }

// Map returns the row as a map, for templates.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.cols))
	for i, c := range r.cols {
		m[c] = r.vals[i]
	}
	return m
}

// MarshalJSON keeps the column order of the header.
func (r Row) MarshalJSON() ([]byte, error) {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, c := range r.cols {
		if i > 0 {
			sb.WriteByte(',')
		}
		k, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.vals[i])
		if err != nil {
			return nil, err
		}
		sb.Write(k)
		sb.WriteByte(':')
		sb.Write(v)
	}
	sb.WriteByte('}')
	return []byte(sb.String()), nil
}

// Table is the normalized form of a delimited text.
type Table struct {
	Columns  []string
	Rows     []Row
	ByColumn map[string][]string
}

// Data returns the table as generic values, the shape used for template data:
//
//	{"columns": [...], "rows": [{...}], "by_column": {"col": [...]}}
func (t Table) Data() map[string]any {
	cols := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = c
	}
	rows := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = r.Map()
	}
	byColumn := make(map[string]any, len(t.ByColumn))
	for c, vals := range t.ByColumn {
		list := make([]any, len(vals))
		for i, v := range vals {
			list[i] = v
		}
		byColumn[c] = list
	}
	return map[string]any{
		"columns":   cols,
		"rows":      rows,
		"by_column": byColumn,
	}
}

type config struct {
	quotes bool
}

// Option configures Normalize.
type Option func(*config)

// WithQuotes enables the quoting rules of RFC 4180, so a value can contain
// the delimiter or a newline when it is enclosed in double quotes.
func WithQuotes() Option {
	return func(c *config) { c.quotes = true }
}

// Normalize splits text on newlines and delim. The first row is the header.
// Short rows are padded with empty values and surplus values are dropped.
// Blank lines are ignored. Text without a header gives an empty table.
func Normalize(text string, delim rune, opts ...Option) Table {
	cfg := config{}
	for _, o := range opts {
		o(&cfg)
	}

	var records [][]string
	if cfg.quotes {
		records = readQuoted(text, delim)
	} else {
		records = readBare(text, delim)
	}

	t := Table{ByColumn: map[string][]string{}}
	if len(records) == 0 {
		return t
	}

	t.Columns = uniqueColumns(records[0])
	for _, c := range t.Columns {
		t.ByColumn[c] = []string{}
	}

	for _, rec := range records[1:] {
		row := Row{cols: t.Columns, vals: make([]string, len(t.Columns))}
		for i := range t.Columns {
			if i < len(rec) {
				row.vals[i] = rec[i]
			}
			t.ByColumn[t.Columns[i]] = append(t.ByColumn[t.Columns[i]], row.vals[i])
		}
		t.Rows = append(t.Rows, row)
	}

	return t
}

func readBare(text string, delim rune) [][]string {
	var records [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, string(delim))
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		records = append(records, fields)
	}
	return records
}

func readQuoted(text string, delim rune) [][]string {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var records [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			// io.EOF or a malformed tail: keep what was read
			break
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		records = append(records, rec)
	}
	return records
}

// Repeated header names get a numeric suffix: name, name_2, name_3
func uniqueColumns(header []string) []string {
	seen := map[string]int{}
	cols := make([]string, len(header))
	for i, h := range header {
		seen[h]++
		if n := seen[h]; n > 1 {
			h = h + "_" + strconv.Itoa(n)
		}
		cols[i] = h
	}
	return cols
}
