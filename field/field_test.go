package field

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/hesusruiz/formrite/diag"
)

func TestLookupKind(t *testing.T) {
	tests := []struct {
		keyword string
		want    Kind
		ok      bool
	}{
		{"TextInput", KindText, true},
		{"text_input", KindText, true},
		{"TEXT-INPUT", KindText, true},
		{"urlinput", KindURL, true},
		{"Opinion_Scale", KindOpinionScale, true},
		{"TextArea", 0, false},
	}
	for _, tt := range tests {
		got, ok := LookupKind(tt.keyword)
		if got != tt.want || ok != tt.ok {
			t.Errorf("LookupKind(%q) = %v, %v, want %v, %v", tt.keyword, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIsHeader(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"name = TextInput(", true},
		{"  email* = EmailInput(| question = Email)", true},
		{"x=Foo()", true},
		{"name * = TextInput(", false},
		{"1name = TextInput(", false},
		{"name = TextInput", false},
		{"Hello world", false},
	}
	for _, tt := range tests {
		if got := IsHeader(tt.line); got != tt.want {
			t.Errorf("IsHeader(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestParseDeclaration(t *testing.T) {
	pos := diag.Pos{Line: 10, Column: 1}

	tests := []struct {
		name  string
		lines []string
		want  *Field
	}{
		{
			name:  "Single line",
			lines: []string{"name* = TextInput(| question = What is your name? | placeholder = Jane)"},
			want: &Field{
				Name:     "name",
				Required: true,
				Kind:     KindText,
				Common:   Common{Question: "What is your name?"},
				Options:  TextOptions{Placeholder: "Jane"},
				Pos:      pos,
			},
		},
		{
			name: "Continuation lines and closing line",
			lines: []string{
				"color = ChoiceInput(",
				"  | question = Favourite colour (pick one)",
				"  | Choices = Red, Green , Blue",
				"  | checked = GREEN",
				"  | horizontal",
				")",
			},
			want: &Field{
				Name:   "color",
				Kind:   KindChoice,
				Common: Common{Question: "Favourite colour (pick one)"},
				Options: ChoiceOptions{
					Choices: []Choice{
						{Label: "Red", Value: "Red"},
						{Label: "Green", Value: "Green", Checked: true},
						{Label: "Blue", Value: "Blue"},
					},
					Horizontal: true,
				},
				Pos: pos,
			},
		},
		{
			name:  "Defaults and escaped pipe",
			lines: []string{"stars = RatingInput(| question = A \\| B)"},
			want: &Field{
				Name:    "stars",
				Kind:    KindRating,
				Common:  Common{Question: "A | B"},
				Options: RatingOptions{OutOf: 5, Icon: "star"},
				Pos:     pos,
			},
		},
		{
			name: "Picture choices",
			lines: []string{
				"pet = PictureChoice(",
				"| choices = Cat && cat.png, Dog && dog.png",
				"| multiple | checked = cat, dog)",
			},
			want: &Field{
				Name: "pet",
				Kind: KindPictureChoice,
				Options: PictureChoiceOptions{
					Choices: []Choice{
						{Label: "Cat", Value: "Cat", Image: "cat.png", Checked: true},
						{Label: "Dog", Value: "Dog", Image: "dog.png", Checked: true},
					},
					Multiple: true,
				},
				Pos: pos,
			},
		},
		{
			name:  "Select box with options alias",
			lines: []string{"size = Select_Box(| choices = S, M, L | selected = m)"},
			want: &Field{
				Name: "size",
				Kind: KindSelect,
				Options: SelectOptions{Choices: []Choice{
					{Label: "S", Value: "S"},
					{Label: "M", Value: "M", Checked: true},
					{Label: "L", Value: "L"},
				}},
				Pos: pos,
			},
		},
		{
			name:  "Telephone",
			lines: []string{"phone = TelInput(| country = bd | availableCountries = BD, IN)"},
			want: &Field{
				Name:    "phone",
				Kind:    KindTel,
				Options: TelOptions{Country: "BD", AvailableCountries: []string{"BD", "IN"}},
				Pos:     pos,
			},
		},
		{
			name:  "File with defaults",
			lines: []string{"cv = FileInput(| imageonly = false)"},
			want: &Field{
				Name:    "cv",
				Kind:    KindFile,
				Options: FileOptions{SizeLimit: 10},
				Pos:     pos,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDeclaration(tt.lines, pos)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseDeclaration() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseDeclarationErrors(t *testing.T) {
	pos := diag.Pos{Line: 3, Column: 5}

	tests := []struct {
		name     string
		lines    []string
		wantMsg  string
		wantLine int
		wantCol  int
	}{
		{
			name:     "Unknown type",
			lines:    []string{"x = Textarea(| question = Hi)"},
			wantMsg:  `unknown field type "Textarea"`,
			wantLine: 3,
			wantCol:  9,
		},
		{
			name:     "Unknown option",
			lines:    []string{"x = TextInput(", "  | question = Hi", "  | colour = red", ")"},
			wantMsg:  `unknown option "colour" for TextInput`,
			wantLine: 5,
			wantCol:  5,
		},
		{
			name:     "Invalid number",
			lines:    []string{"x = NumberInput(| min = ten)"},
			wantMsg:  `invalid number "ten" for option "min"`,
			wantLine: 3,
			wantCol:  23,
		},
		{
			name:     "Unterminated",
			lines:    []string{"x = TextInput(", "| question = Hi"},
			wantMsg:  "unterminated field declaration",
			wantLine: 3,
			wantCol:  5,
		},
		{
			name:     "Missing pipe",
			lines:    []string{"x = TextInput(", "question = Hi)"},
			wantMsg:  "expected '|'",
			wantLine: 4,
			wantCol:  1,
		},
		{
			name:     "Option not valid for kind",
			lines:    []string{"x = EmailInput(| multiline)"},
			wantMsg:  `unknown option "multiline" for EmailInput`,
			wantLine: 3,
			wantCol:  22,
		},
		{
			name:     "Rating out of range",
			lines:    []string{"x = RatingInput(| outof = 20)"},
			wantMsg:  "outof must be between 1 and 10",
			wantLine: 3,
			wantCol:  23,
		},
		{
			name:     "Invalid enum",
			lines:    []string{"x = RatingInput(| icon = moon)"},
			wantMsg:  `invalid value "moon" for option "icon"`,
			wantLine: 3,
			wantCol:  23,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDeclaration(tt.lines, pos)
			require.Error(t, err)

			var se *diag.SyntaxError
			require.True(t, errors.As(err, &se), "error %T is not a *diag.SyntaxError", err)
			require.Contains(t, se.Msg, tt.wantMsg)
			require.Equal(t, tt.wantLine, se.Line, "line")
			require.Equal(t, tt.wantCol, se.Column, "column")
			require.False(t, errors.Is(err, diag.ErrFatal))
		})
	}
}

func TestOptionTable(t *testing.T) {
	table := OptionTable()
	require.Len(t, table, len(Kinds()))

	keys := func(k Kind) []string {
		var out []string
		for _, s := range table[k] {
			out = append(out, s.Key)
		}
		return out
	}
	require.Contains(t, keys(KindText), "multiline")
	require.NotContains(t, keys(KindEmail), "multiline")
	require.Contains(t, keys(KindRating), "question")

	// The result is a copy
	table[KindRating][0].Key = "changed"
	require.Equal(t, "question", OptionTable()[KindRating][0].Key)
}

func TestFieldString(t *testing.T) {
	f, err := ParseDeclaration([]string{"age* = NumberInput(| min = 0 | max = 120)"}, diag.Pos{Line: 1, Column: 1})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(f.String(), "age* = NumberInput"))
	require.Equal(t, "id_age", f.ControlID())
}
