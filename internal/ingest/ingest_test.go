package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	apimarkerrors "git.home.luguber.info/inful/apimark/internal/errors"
	"git.home.luguber.info/inful/apimark/internal/model"
)

const widgetYAML = `### YamlMime:ManagedReference
items:
  - uid: Acme
    type: Namespace
    name: Acme
  - uid: Acme.Widget
    type: Class
    name: Widget
    fullName: Acme.Widget
    namespace: Acme
    parent: Acme
    children:
      - Acme.Widget.Run(System.Int32)
    summary: "<p>A reusable widget.</p>"
    assemblies:
      - Acme.Core
    inheritance:
      - System.Object
      - Acme.Base
    implements:
      - Acme.IWidget
    syntax:
      content: "public class Widget : Base"
    source:
      remote:
        path: src/Widget.cs
        branch: release
        repo: https://git.example.com/acme
      startLine: 42
  - uid: Acme.Widget.Run(System.Int32)
    type: Method
    name: Run(Int32)
    namespace: Acme
    parent: Acme.Widget
    syntax:
      content: public Base Run(int count)
      parameters:
        - id: count
          type: System.Int32
          description: how many times
      return:
        type: Acme.Base
        description: the result
    exceptions:
      - type: System.ArgumentException
        description: count is negative
`

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	return dir
}

func TestLoadDir_ParsesManagedReferenceFile(t *testing.T) {
	dir := writeInput(t, "Acme.Widget.yml", widgetYAML)

	st, err := LoadDir(dir, 2)
	require.NoError(t, err)
	require.Equal(t, 3, st.Len())

	w, ok := st.Get("Acme.Widget")
	require.True(t, ok)
	require.Equal(t, model.KindClass, w.Kind)
	require.Equal(t, "Acme.Widget", w.FullName)
	require.NotNil(t, w.Summary)
	require.Equal(t, "<p>A reusable widget.</p>", *w.Summary)
	require.Equal(t, "public class Widget : Base", w.Declaration)
	require.Equal(t, []string{"System.Object", "Acme.Base"}, w.Inheritance)
	require.NotNil(t, w.Source)
	require.Equal(t, "https://git.example.com/acme", w.Source.RepoURL)
	require.Equal(t, "release", w.Source.Branch)
	require.Equal(t, "src/Widget.cs", w.Source.Path)
	require.Equal(t, 42, w.Source.StartLine)

	m, ok := st.Get("Acme.Widget.Run(System.Int32)")
	require.True(t, ok)
	require.Equal(t, model.KindMethod, m.Kind)
	require.Len(t, m.Parameters, 1)
	require.Equal(t, "count", m.Parameters[0].ID)
	require.Equal(t, "System.Int32", m.Parameters[0].Type)
	require.NotNil(t, m.Returns)
	require.Equal(t, "Acme.Base", m.Returns.Type)
	require.Len(t, m.Exceptions, 1)
}

func TestLoadDir_EmptySummary_StaysNil(t *testing.T) {
	dir := writeInput(t, "a.yml", `### YamlMime:ManagedReference
items:
  - uid: NS
    type: Namespace
    name: NS
    summary: "   "
`)
	st, err := LoadDir(dir, 1)
	require.NoError(t, err)
	ns, ok := st.Get("NS")
	require.True(t, ok)
	require.Nil(t, ns.Summary)
}

func TestLoadDir_SkipsTocAndNonReferenceFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "toc.yml"),
		[]byte("items:\n  - name: nav\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yml"),
		[]byte("unrelated: true\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ref.yml"), []byte(widgetYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("# not yaml"), 0o644))

	st, err := LoadDir(dir, 1)
	require.NoError(t, err)
	require.Equal(t, 3, st.Len())
}

func TestLoadDir_NoInputFiles_IsFatalInputError(t *testing.T) {
	_, err := LoadDir(t.TempDir(), 1)
	require.Error(t, err)

	var ae *apimarkerrors.ApimarkError
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apimarkerrors.CategoryInput, ae.Category)
}

func TestLoadDir_DuplicateUIDAcrossFiles_IsFatal(t *testing.T) {
	dir := t.TempDir()
	doc := "### YamlMime:ManagedReference\nitems:\n  - uid: NS.T\n    type: Class\n    name: T\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yml"), []byte(doc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte(doc), 0o644))

	_, err := LoadDir(dir, 2)
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate uid")
}

func TestLoadDir_UnknownKind_IsSkippedWithWarning(t *testing.T) {
	dir := writeInput(t, "a.yml", `### YamlMime:ManagedReference
items:
  - uid: NS
    type: Namespace
    name: NS
  - uid: NS.Weird
    type: Operator
    name: Weird
`)
	st, err := LoadDir(dir, 1)
	require.NoError(t, err)
	require.Equal(t, 1, st.Len())
	_, ok := st.Get("NS.Weird")
	require.False(t, ok)
}

func TestLoadDir_InvalidYAMLInReferenceFile_IsFatal(t *testing.T) {
	dir := writeInput(t, "bad.yml", "### YamlMime:ManagedReference\nitems: [unclosed\n")
	_, err := LoadDir(dir, 1)
	require.Error(t, err)

	var ae *apimarkerrors.ApimarkError
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apimarkerrors.CategoryInput, ae.Category)
}

func TestLoadDir_WalksNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "sub", "deeper")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "ref.yaml"), []byte(widgetYAML), 0o644))

	st, err := LoadDir(dir, 4)
	require.NoError(t, err)
	require.Equal(t, 3, st.Len())
}
