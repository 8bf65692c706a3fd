package lines

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type state struct {
	Num    int
	Text   string
	Fenced bool
	Block  string
}

func scanStates(src string) []state {
	var got []state
	for _, l := range All(src) {
		got = append(got, state{l.Num, l.Text, l.Fenced, l.Block})
	}
	return got
}

func TestScanner(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []state
	}{
		{
			name: "Fence with shorter inner fence",
			src:  "a\n````go\n```\n````\nb",
			want: []state{
				{1, "a", false, ""},
				{2, "````go", true, ""},
				{3, "```", true, ""},
				{4, "````", true, ""},
				{5, "b", false, ""},
			},
		},
		{
			name: "Tilde fence is not closed by backticks",
			src:  "~~~\n```\n~~~\n",
			want: []state{
				{1, "~~~", true, ""},
				{2, "```", true, ""},
				{3, "~~~", true, ""},
			},
		},
		{
			name: "Data block with CRLF",
			src:  ":::data\r\nx = 1\r\n:::\r\ntext\r\n",
			want: []state{
				{1, ":::data", false, ":::data"},
				{2, "x = 1", false, ":::data"},
				{3, ":::", false, ":::data"},
				{4, "text", false, ""},
			},
		},
		{
			name: "Fence inside data block is not a fence",
			src:  ":::csv people\n```\n:::\n",
			want: []state{
				{1, ":::csv people", false, ":::csv people"},
				{2, "```", false, ":::csv people"},
				{3, ":::", false, ":::csv people"},
			},
		},
		{
			name: "Indented code is not a fence",
			src:  "    ```\nx",
			want: []state{
				{1, "    ```", false, ""},
				{2, "x", false, ""},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, scanStates(tt.src)); diff != "" {
				t.Errorf("scan mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOffsets(t *testing.T) {
	src := "one\ntwo\nthree"
	all := All(src)
	if len(all) != 3 {
		t.Fatalf("got %d lines, want 3", len(all))
	}
	for _, l := range all {
		if got := src[l.Start:l.End]; got != l.Text && got != l.Text+"\n" {
			t.Errorf("line %d: offsets cover %q, text is %q", l.Num, got, l.Text)
		}
	}
	if all[2].End != len(src) {
		t.Errorf("last line End = %d, want %d", all[2].End, len(src))
	}
}

func TestOpenFence(t *testing.T) {
	s := NewScanner("text\n```js\ncode\n")
	for l := s.ReadLine(); l != nil; l = s.ReadLine() {
	}
	line, open := s.OpenFence()
	if !open || line != 2 {
		t.Errorf("OpenFence() = %d, %v, want 2, true", line, open)
	}
}

func TestUnreadLine(t *testing.T) {
	s := NewScanner("a\nb\n")
	first := s.ReadLine()
	s.UnreadLine(first)
	if again := s.ReadLine(); again != first {
		t.Fatalf("UnreadLine did not return the same line")
	}
	if next := s.ReadLine(); next == nil || next.Text != "b" {
		t.Fatalf("next line = %v, want b", next)
	}
	if s.ReadLine() != nil {
		t.Fatalf("expected end of source")
	}
}

func TestBlockHeader(t *testing.T) {
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{":::data", ":::data", true},
		{"  ::: csv  people ", ":::csv  people", true},
		{":::", "", false},
		{"::::", "", false},
		{"text", "", false},
	}
	for _, tt := range tests {
		got, ok := BlockHeader(tt.text)
		if got != tt.want || ok != tt.ok {
			t.Errorf("BlockHeader(%q) = %q, %v, want %q, %v", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}
