package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hesusruiz/formrite/diag"
	"github.com/hesusruiz/formrite/field"
)

func render(t *testing.T, src string) (Output, diag.List) {
	t.Helper()
	return Render([]byte(src), &Context{Prefix: "fr-"})
}

func TestHeadingAnchors(t *testing.T) {
	out, diags := render(t, "# Hello World\n\n## Hello World\n")
	require.Empty(t, diags)

	assert.Contains(t, out.HTML, `<h1 id="hello-world">Hello World <a class="fr-heading-anchor" href="#hello-world" aria-hidden="true">#</a></h1>`)
	assert.Contains(t, out.HTML, `<h2 id="hello-world-1">Hello World <a class="fr-heading-anchor" href="#hello-world-1" aria-hidden="true">#</a></h2>`)
}

func TestHeadingExplicitID(t *testing.T) {
	out, diags := render(t, "# [#intro .big] First\n\n# Intro\n")
	require.Empty(t, diags)

	assert.Contains(t, out.HTML, `<h1 id="intro" class="fr-big">First <a`)
	assert.Contains(t, out.HTML, `<h1 id="intro-1">Intro <a`)
	assert.NotContains(t, out.HTML, "[#intro")
}

func TestHeadingExplicitIDAlreadyUsed(t *testing.T) {
	out, diags := render(t, "# Foo\n\n# [#foo] Bar\n")

	require.Len(t, diags, 1)
	assert.Equal(t, 3, diags[0].Line)
	assert.Contains(t, diags[0].Msg, `heading id "foo" is already used`)
	assert.Equal(t, diag.Recoverable, diags[0].Severity)

	assert.Contains(t, out.HTML, `<h1 id="foo">Foo <a`)
	assert.Contains(t, out.HTML, `<h1 id="foo-1">Bar <a`)
	assert.Equal(t, 1, strings.Count(out.HTML, `id="foo"`))
}

func TestSluggerSharedBetweenSlides(t *testing.T) {
	slugger := NewSlugger()
	first, _ := Render([]byte("# Intro\n"), &Context{Prefix: "fr-", Slugger: slugger})
	second, _ := Render([]byte("# Intro\n"), &Context{Prefix: "fr-", Slugger: slugger})

	assert.Contains(t, first.HTML, `id="intro"`)
	assert.Contains(t, second.HTML, `id="intro-1"`)
}

func TestAttributeLine(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
		not  []string
	}{
		{
			name: "Paragraph",
			src:  "[.lead]\nSome text\n",
			want: []string{`<p class="fr-lead">Some text</p>`},
			not:  []string{"[.lead]"},
		},
		{
			name: "Leading in paragraph",
			src:  "[.lead #top] Some text\n",
			want: []string{`<p id="top" class="fr-lead">Some text</p>`},
		},
		{
			name: "List",
			src:  "[.steps]\n- one\n- two\n",
			want: []string{`<ul class="fr-steps">`, "<li>one</li>", "<li>two</li>"},
		},
		{
			name: "Blockquote",
			src:  "> [.note]\n> Careful\n",
			want: []string{`<blockquote class="fr-note">`, "<p>Careful</p>"},
			not:  []string{"[.note]"},
		},
		{
			name: "Blockquote leading attributes",
			src:  "> [.note] Careful\n> more\n",
			want: []string{`<blockquote class="fr-note">`, "<p>Careful\nmore</p>"},
			not:  []string{"[.note]", `<p class="fr-note">`},
		},
		{
			name: "Table",
			src:  "[.striped]\n| a | b |\n|---|---|\n| 1 | 2 |\n",
			want: []string{`<table class="fr-striped">`, "<td>1</td>"},
		},
		{
			name: "Not an attribute block",
			src:  "[not closed\n",
			want: []string{"<p>[not closed</p>"},
		},
		{
			name: "ARIA attributes kept",
			src:  "[aria-label=\"Summary\" data-x=\"1\"]\nText\n",
			want: []string{`<p aria-label="Summary" data-x="1">Text</p>`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, diags := render(t, tt.src)
			require.Empty(t, diags)
			for _, w := range tt.want {
				assert.Contains(t, out.HTML, w)
			}
			for _, n := range tt.not {
				assert.NotContains(t, out.HTML, n)
			}
		})
	}
}

func TestListFirstItemAttributes(t *testing.T) {
	out, diags := render(t, "- [.compact]\n- a\n- b\n")
	require.Empty(t, diags)

	assert.Contains(t, out.HTML, `<ul class="fr-compact">`)
	assert.NotContains(t, out.HTML, "[.compact]")
	assert.Equal(t, 2, strings.Count(out.HTML, "<li"))
}

func TestListEmptyCheckboxIsAttributeBlock(t *testing.T) {
	out, diags := render(t, "- [ ]\n- a\n")
	require.Empty(t, diags)

	assert.Contains(t, out.HTML, "<ul>\n<li>a</li>")
	assert.NotContains(t, out.HTML, "checkbox")
}

func TestOrderedListKeepsStart(t *testing.T) {
	out, _ := render(t, "3. [.x]\n4. a\n")
	assert.Contains(t, out.HTML, `<ol start="3" class="fr-x">`)
}

func TestTaskList(t *testing.T) {
	out, diags := render(t, "- [x] Done\n- [ ] Todo\n")
	require.Empty(t, diags)

	assert.Contains(t, out.HTML, `<li class="fr-checkbox-item fr-checked">`)
	assert.Contains(t, out.HTML, `<span class="fr-checkbox fr-checked" role="checkbox" aria-checked="true" aria-label="Done"></span>`)
	assert.Contains(t, out.HTML, `<li class="fr-checkbox-item fr-unchecked">`)
	assert.Contains(t, out.HTML, `aria-checked="false" aria-label="Todo"`)
}

func TestImage(t *testing.T) {
	out, _ := render(t, "![A cat](cat.png \"Kitty\")\n")
	assert.Contains(t, out.HTML, `<img src="cat.png" alt="A cat" title="Kitty" loading="lazy">`)

	out, _ = render(t, "![x](javascript:alert(1))\n")
	assert.Contains(t, out.HTML, `<img src="" alt="x"`)
}

func TestCodeBlocks(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
		not  []string
	}{
		{
			name: "Known language",
			src:  "```go\nfunc main() {}\n```\n",
			want: []string{
				`<div class="fr-code-block">`,
				`<span class="fr-code-language">go</span>`,
				`<button type="button" class="fr-code-copy" data-fr-copy>Copy</button>`,
				`<pre class="fr-code"><code class="language-go">`,
				`fr-kd`,
			},
		},
		{
			name: "Unknown language",
			src:  "```nosuchlanguage\n<b>bold</b>\n```\n",
			want: []string{`&lt;b&gt;bold&lt;/b&gt;`, `<span class="fr-code-language">nosuchlanguage</span>`},
		},
		{
			name: "No language",
			src:  "```\nplain & simple\n```\n",
			want: []string{`<div class="fr-code-header"><button`, "<code>plain &amp; simple\n</code>"},
			not:  []string{"code-language"},
		},
		{
			name: "Attributes after the language",
			src:  "```python [.wide #sample]\nx = 1\n```\n",
			want: []string{`<div id="sample" class="fr-code-block fr-wide">`, `language-python`},
		},
		{
			name: "Attributes before the language",
			src:  "```[.wide] python\nx = 1\n```\n",
			want: []string{`class="fr-code-block fr-wide"`, `language-python`},
		},
		{
			name: "Mermaid",
			src:  "```mermaid\ngraph TD; A-->B\n```\n",
			want: []string{`<div class="fr-mermaid">`, "A--&gt;B"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, diags := render(t, tt.src)
			require.Empty(t, diags)
			for _, w := range tt.want {
				assert.Contains(t, out.HTML, w)
			}
			for _, n := range tt.not {
				assert.NotContains(t, out.HTML, n)
			}
		})
	}
}

func TestParseInfo(t *testing.T) {
	lang, b := parseInfo("js [.a] [.b #c]")
	assert.Equal(t, "js", lang)
	assert.Equal(t, []string{"a", "b"}, b.Classes)
	assert.Equal(t, "c", b.ID)

	lang, b = parseInfo("[broken python")
	assert.Equal(t, "[broken", lang)
	assert.True(t, b.IsEmpty())
}

func TestFields(t *testing.T) {
	src := "Tell us about you.\n\nname* = TextInput(| question = Your *name*)\n\nemail = EmailInput(\n| question = Email\n)\n"
	out, diags := render(t, src)
	require.Empty(t, diags)

	require.Len(t, out.Fields, 2)
	assert.Equal(t, []string{"name", "email"}, out.FieldNames())
	assert.True(t, out.Fields[0].Required)
	assert.Equal(t, field.KindEmail, out.Fields[1].Kind)
	assert.Equal(t, diag.Pos{Line: 3, Column: 1}, out.Fields[0].Pos)
	assert.Equal(t, diag.Pos{Line: 5, Column: 1}, out.Fields[1].Pos)

	assert.Contains(t, out.HTML, "<p>Tell us about you.</p>")
	assert.Contains(t, out.HTML, `data-fr-name="name"`)
	assert.Contains(t, out.HTML, `data-fr-name="email"`)
	assert.Contains(t, out.HTML, "Your <em>name</em>")
	assert.NotContains(t, out.HTML, "| question")
}

func TestFieldInterruptsParagraph(t *testing.T) {
	out, diags := render(t, "Intro line\nname = TextInput(| question = Name)\n")
	require.Empty(t, diags)
	require.Len(t, out.Fields, 1)
	assert.Contains(t, out.HTML, "<p>Intro line</p>")
}

func TestFieldAttributes(t *testing.T) {
	out, diags := render(t, "[.wide data-step=\"2\"]\nname = TextInput(| question = Name)\n")
	require.Empty(t, diags)
	require.Len(t, out.Fields, 1)

	assert.True(t, out.Fields[0].Attrs.HasClass("wide"))
	assert.Contains(t, out.HTML, `fr-wide`)
	assert.Contains(t, out.HTML, `data-step="2"`)
}

func TestDuplicateField(t *testing.T) {
	src := "a = TextInput(| question = One)\n\na = TextInput(| question = Two)\n"
	out, diags := render(t, src)

	require.Len(t, diags, 1)
	assert.Equal(t, 3, diags[0].Line)
	assert.Contains(t, diags[0].Msg, "duplicate")
	require.Len(t, out.Fields, 1)
	assert.Contains(t, out.HTML, "fr-compile-error")
	assert.Contains(t, out.HTML, "One")
}

func TestFieldErrorPosition(t *testing.T) {
	src := "Some text\n\nx = Bogus(| a = b)\n"
	out, diags := Render([]byte(src), &Context{Prefix: "fr-", LineOffset: 10})

	require.Len(t, diags, 1)
	assert.Equal(t, 13, diags[0].Line)
	assert.Equal(t, 5, diags[0].Column)
	assert.Equal(t, diag.Recoverable, diags[0].Severity)
	assert.Empty(t, out.Fields)
	assert.Contains(t, out.HTML, `<div class="fr-compile-error" role="alert">`)
	assert.Contains(t, out.HTML, "<p>Some text</p>")
}

func TestUnterminatedField(t *testing.T) {
	out, diags := render(t, "name = TextInput(\n| question = Name\n\nAfter\n")
	require.Len(t, diags, 1)
	assert.Empty(t, out.Fields)
	assert.Contains(t, out.HTML, "<p>After</p>")
}
