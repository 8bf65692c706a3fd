package datablock

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseData(t *testing.T) {
	src := "# Hi\n" +
		":::data\n" +
		"name = \"Ana\"\n" +
		"age = 31\n" +
		"member = true\n" +
		"tags = [\"a\", \"b\"]\n" +
		"address = { city = \"Lyon\", zip = 69001 }\n" +
		":::\n" +
		"text\n" +
		":::data\n" +
		"name = \"Eva\"\n" +
		":::\n"

	data, body, errs := Parse(src)
	require.Empty(t, errs)
	require.Equal(t, "# Hi\n"+strings.Repeat("\n", 7)+"text\n\n\n\n", body)

	require.Equal(t, "Eva", data["name"])
	require.Equal(t, int64(31), data["age"])
	require.Equal(t, true, data["member"])
	require.Equal(t, []any{"a", "b"}, data["tags"])
	require.Equal(t, map[string]any{"city": "Lyon", "zip": int64(69001)}, data["address"])
	require.Equal(t, []string{"address", "age", "member", "name", "tags"}, data.Keys())
}

func TestParseNumbers(t *testing.T) {
	data, _, errs := Parse(":::data\nn = 4\nneg = -2\nx = 1.5\nbig = 1e30\n:::\n")
	require.Empty(t, errs)

	require.Equal(t, int64(4), data["n"])
	require.Equal(t, int64(-2), data["neg"])
	require.Equal(t, 1.5, data["x"])
	require.Equal(t, 1e30, data["big"])
}

func TestParseTables(t *testing.T) {
	src := ":::csv people\nname,age\nAna,31\n:::\n:::tsv pets\nname\tkind\nRex\tdog\n:::\n"

	data, body, errs := Parse(src)
	require.Empty(t, errs)
	require.Equal(t, strings.Repeat("\n", 8), body)

	people := data["people"].(map[string]any)
	require.Equal(t, []any{"name", "age"}, people["columns"])
	require.Equal(t, []any{map[string]any{"name": "Ana", "age": "31"}}, people["rows"])

	pets := data["pets"].(map[string]any)
	require.Equal(t, []any{"dog"}, pets["by_column"].(map[string]any)["kind"])
}

func TestParseErrors(t *testing.T) {
	t.Run("HCL error keeps other blocks", func(t *testing.T) {
		src := ":::data\na = 1\n:::\n\n:::data\nb = \"x\" \"y\"\n:::\n"
		data, body, errs := Parse(src)
		require.NotEmpty(t, errs)
		require.Equal(t, 6, errs[0].Line)
		require.Equal(t, int64(1), data["a"])
		require.NotContains(t, data, "b")
		require.Equal(t, strings.Repeat("\n", 7), body)
	})

	t.Run("Variables are not allowed", func(t *testing.T) {
		data, _, errs := Parse(":::data\nx = other\n:::\n")
		require.NotEmpty(t, errs)
		require.Equal(t, 2, errs[0].Line)
		require.Empty(t, data)
	})

	t.Run("Unterminated block", func(t *testing.T) {
		data, body, errs := Parse("intro\n:::data\nx = 1\n")
		require.Len(t, errs, 1)
		require.Equal(t, 2, errs[0].Line)
		require.Empty(t, data)
		require.Equal(t, "intro\n\nx = 1\n", body)
	})

	t.Run("Table without name", func(t *testing.T) {
		data, _, errs := Parse(":::csv\na\n1\n:::\n")
		require.Len(t, errs, 1)
		require.Empty(t, data)
	})

	t.Run("Unknown block type", func(t *testing.T) {
		_, body, errs := Parse(":::yaml\na: 1\n:::\n")
		require.Len(t, errs, 1)
		require.Equal(t, "\n\n\n", body)
	})
}
