package rite

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPage(t *testing.T) {
	res, err := Compile("#! title = My <Form>\n#! accent = #ff0000\n#! brand = Acme\nname = TextInput()\n", Config{})
	require.NoError(t, err)

	page, err := res.RenderPage(PageOptions{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, `<html lang="en" dir="ltr">`)
	assert.Contains(t, page, "<title>My &lt;Form&gt;</title>")
	assert.Contains(t, page, "--fr-accent: #ff0000;")
	assert.Contains(t, page, `<header class="fr-header">Acme</header>`)
	assert.Contains(t, page, `<form class="fr-slide fr-slide-form"`)
	assert.Contains(t, page, `<script type="application/json" id="fr-metadata">`)
}

func TestRenderPageCustomTemplate(t *testing.T) {
	res, err := Compile("# Hi\n", Config{})
	require.NoError(t, err)

	page, err := res.RenderPage(PageOptions{Template: "{{ title }}|{% for s in slides %}{{ s.Index }}{% endfor %}"})
	require.NoError(t, err)
	assert.Equal(t, "formrite|0", page)

	_, err = res.RenderPage(PageOptions{Template: "{% include \"x\" %}"})
	assert.Error(t, err)
}

func TestMetadata(t *testing.T) {
	res, err := Compile("Hi {$ name $}\n---\n|> 80\nname = TextInput()\n", Config{})
	require.NoError(t, err)

	raw, err := json.Marshal(res.Metadata())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))

	slides := m["slides"].([]any)
	require.Len(t, slides, 2)
	second := slides[1].(map[string]any)
	assert.Equal(t, "submit", second["cta"])
	assert.Equal(t, float64(80), second["pageProgress"])
	assert.Equal(t, []any{"name"}, second["fieldNames"])
	assert.NotContains(t, second, "html")

	assert.Equal(t, map[string]any{"bind-1": "name"}, m["bindTemplates"])
	assert.NotContains(t, m, "diagnostics")
}
