package delimited

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func rowValues(t Table) [][]string {
	var out [][]string
	for _, r := range t.Rows {
		out = append(out, r.Values())
	}
	return out
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		delim    rune
		opts     []Option
		wantCols []string
		wantRows [][]string
	}{
		{
			name:     "Padding and surplus",
			text:     "a,b,c\n1,2\n3,4,5,6\n",
			delim:    ',',
			wantCols: []string{"a", "b", "c"},
			wantRows: [][]string{{"1", "2", ""}, {"3", "4", "5"}},
		},
		{
			name:     "CRLF and tabs",
			text:     "name\tage\r\nAna\t31\r\n\r\n",
			delim:    '\t',
			wantCols: []string{"name", "age"},
			wantRows: [][]string{{"Ana", "31"}},
		},
		{
			name:     "Header only",
			text:     "x,y",
			delim:    ',',
			wantCols: []string{"x", "y"},
		},
		{
			name:  "Empty text",
			text:  "\n\n",
			delim: ',',
		},
		{
			name:     "Bare mode keeps quotes",
			text:     "q\n\"a,b\"\n",
			delim:    ',',
			wantCols: []string{"q"},
			wantRows: [][]string{{`"a`}},
		},
		{
			name:     "Quoted mode",
			text:     "q,r\n\"a,b\", c\n",
			delim:    ',',
			opts:     []Option{WithQuotes()},
			wantCols: []string{"q", "r"},
			wantRows: [][]string{{"a,b", "c"}},
		},
		{
			name:     "Duplicate header names",
			text:     "v,v,v\n1,2,3\n",
			delim:    ',',
			wantCols: []string{"v", "v_2", "v_3"},
			wantRows: [][]string{{"1", "2", "3"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.text, tt.delim, tt.opts...)
			if diff := cmp.Diff(tt.wantCols, got.Columns); diff != "" {
				t.Errorf("columns mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantRows, rowValues(got)); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestByColumnAndData(t *testing.T) {
	tbl := Normalize("city,country\nLyon,FR\nCadiz,ES\n", ',')

	if diff := cmp.Diff([]string{"Lyon", "Cadiz"}, tbl.ByColumn["city"]); diff != "" {
		t.Errorf("ByColumn mismatch (-want +got):\n%s", diff)
	}

	v, ok := tbl.Rows[1].Get("country")
	if !ok || v != "ES" {
		t.Errorf("Get(country) = %q, %v", v, ok)
	}

	data := tbl.Data()
	want := map[string]any{
		"columns": []any{"city", "country"},
		"rows": []any{
			map[string]any{"city": "Lyon", "country": "FR"},
			map[string]any{"city": "Cadiz", "country": "ES"},
		},
		"by_column": map[string]any{
			"city":    []any{"Lyon", "Cadiz"},
			"country": []any{"FR", "ES"},
		},
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("Data() mismatch (-want +got):\n%s", diff)
	}
}

func TestRowJSONKeepsOrder(t *testing.T) {
	tbl := Normalize("z,a\n1,2\n", ',')
	b, err := json.Marshal(tbl.Rows[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"z":"1","a":"2"}` {
		t.Errorf("json = %s", b)
	}
}
