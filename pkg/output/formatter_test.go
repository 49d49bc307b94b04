package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type planRow struct {
	Code     string   `json:"code" yaml:"code"`
	Name     string   `json:"name" yaml:"name"`
	Price    int      `json:"price" yaml:"price" table:"Base/member"`
	Features []string `json:"features" yaml:"features"`
	internal int
	Hidden   string `table:"-" json:"-" yaml:"-"`
}

func TestNewFormatter(t *testing.T) {
	assert.IsType(t, &TableFormatter{}, NewFormatter(""))
	assert.IsType(t, &TableFormatter{}, NewFormatter("table"))
	assert.IsType(t, &JSONFormatter{}, NewFormatter("JSON"))
	assert.IsType(t, &YAMLFormatter{}, NewFormatter("yaml"))
}

func TestTableFormatter_Slice(t *testing.T) {
	rows := []planRow{
		{Code: "BASIC", Name: "Basic", Price: 50, Features: []string{"CG", "LK"}},
		{Code: "FAMILY", Name: "Family", Price: 150},
	}

	out := (&TableFormatter{}).Format(rows)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, []string{"CODE", "NAME", "BASE/MEMBER", "FEATURES"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"BASIC", "Basic", "50", "CG,LK"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"FAMILY", "Family", "150", "-"}, strings.Fields(lines[2]))
	assert.NotContains(t, out, "HIDDEN")
}

func TestTableFormatter_Struct(t *testing.T) {
	out := (&TableFormatter{}).Format(&planRow{Code: "BASIC", Name: "Basic", Price: 50})

	assert.Contains(t, out, "Code:")
	assert.Contains(t, out, "Base/member:")
	assert.Contains(t, out, "50")
	assert.NotContains(t, out, "internal")
}

func TestTableFormatter_Empty(t *testing.T) {
	assert.Equal(t, "No results.\n", (&TableFormatter{}).Format([]planRow{}))
}

func TestTableFormatter_Scalars(t *testing.T) {
	assert.Equal(t, "42\n", (&TableFormatter{}).Format(42))
	assert.Equal(t, "a\nb\n", (&TableFormatter{}).Format([]string{"a", "b"}))
}

func TestJSONFormatter(t *testing.T) {
	out := (&JSONFormatter{}).Format(planRow{Code: "BASIC", Price: 50})
	assert.Contains(t, out, `"code": "BASIC"`)
	assert.Contains(t, out, `"price": 50`)
	assert.NotContains(t, out, "Hidden")
}

func TestYAMLFormatter(t *testing.T) {
	out := (&YAMLFormatter{}).Format(planRow{Code: "BASIC", Price: 50, Features: []string{"CG"}})
	assert.Contains(t, out, "code: BASIC")
	assert.Contains(t, out, "price: 50")
	assert.Contains(t, out, "- CG")
}
