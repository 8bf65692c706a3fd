package rite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBinds(t *testing.T) {
	body := "Hi {$ name $} and {$ {{ other }} $}\n```\n{$ code $}\n```\nBad {$ open\n"
	got, binds, diags := extractBinds(body, "fr-")

	want := "Hi <span class=\"fr-bind\" data-fr-bind=\"bind-1\"></span> and <span class=\"fr-bind\" data-fr-bind=\"bind-2\"></span>\n" +
		"```\n{$ code $}\n```\nBad {$ open\n"
	assert.Equal(t, want, got)
	assert.Equal(t, map[string]string{"bind-1": "name", "bind-2": "{{ other }}"}, binds)

	require.Len(t, diags, 1)
	assert.Equal(t, 5, diags[0].Line)
	assert.Equal(t, 5, diags[0].Column)
}

func TestExtractBindsNone(t *testing.T) {
	got, binds, diags := extractBinds("plain text\n", "fr-")
	assert.Equal(t, "plain text\n", got)
	assert.Empty(t, binds)
	assert.Empty(t, diags)
}
