package frontmatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEncode_FullFieldSet_FixedOrder(t *testing.T) {
	pos := 0
	out, err := Fields{
		Title:           "API Reference",
		SidebarLabel:    "API",
		SidebarPosition: &pos,
		Description:     "Generated reference",
		Slug:            "/api",
	}.Encode()
	require.NoError(t, err)

	got := string(out)
	require.True(t, strings.HasPrefix(got, "---\n"))
	require.True(t, strings.HasSuffix(got, "---\n"))

	order := []string{"title:", "sidebar_label:", "sidebar_position:", "description:", "slug:"}
	last := -1
	for _, key := range order {
		idx := strings.Index(got, key)
		require.Greater(t, idx, last, "expected %s after previous key", key)
		last = idx
	}
}

func TestEncode_OptionalFields_OmittedWhenUnset(t *testing.T) {
	out, err := Fields{Title: "Class Widget"}.Encode()
	require.NoError(t, err)

	got := string(out)
	require.Contains(t, got, "title: Class Widget\n")
	require.NotContains(t, got, "sidebar_label")
	require.NotContains(t, got, "sidebar_position")
	require.NotContains(t, got, "description")
	require.NotContains(t, got, "slug")
}

func TestEncode_RoundTripsThroughYAML(t *testing.T) {
	pos := 3
	out, err := Fields{
		Title:           "Namespace Foo",
		SidebarLabel:    "Foo",
		SidebarPosition: &pos,
		Description:     "Summary with 'quotes' and - dashes",
	}.Encode()
	require.NoError(t, err)

	body := strings.TrimSuffix(strings.TrimPrefix(string(out), "---\n"), "---\n")
	var decoded struct {
		Title           string `yaml:"title"`
		SidebarLabel    string `yaml:"sidebar_label"`
		SidebarPosition int    `yaml:"sidebar_position"`
		Description     string `yaml:"description"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(body), &decoded))
	require.Equal(t, "Namespace Foo", decoded.Title)
	require.Equal(t, "Foo", decoded.SidebarLabel)
	require.Equal(t, 3, decoded.SidebarPosition)
	require.Equal(t, "Summary with 'quotes' and - dashes", decoded.Description)
}

func TestEncode_Deterministic(t *testing.T) {
	f := Fields{Title: "Struct Point", SidebarLabel: "Point", Description: "A 2D point."}
	first, err := f.Encode()
	require.NoError(t, err)
	second, err := f.Encode()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEncode_ZeroSidebarPosition_IsEmitted(t *testing.T) {
	pos := 0
	out, err := Fields{Title: "API Reference", SidebarPosition: &pos}.Encode()
	require.NoError(t, err)
	require.Contains(t, string(out), "sidebar_position: 0\n")
}
