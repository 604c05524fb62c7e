package hostdoc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const fixture = `<!DOCTYPE html><html><body>
<div id="options"><div class="options-content">
  <a id="one" class="interactable"><i class="fa-lg fa-solid fa-flag"></i><span data-i18n="One">One</span></a>
  <a id="two" class="interactable" style="display: none"><span>Two</span></a>
  <hr>
</div></div>
</body></html>`

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	d, err := ParseString(s)
	require.NoError(t, err)
	return d
}

func TestByID_RevalidatesCachedNodes(t *testing.T) {
	d := mustParse(t, fixture)

	one := d.ByID("one")
	require.NotNil(t, one)
	require.Same(t, one, d.ByID("one"))

	d.Remove(one)
	require.Nil(t, d.ByID("one"), "removed node must not be served from cache")

	two := d.ByID("two")
	require.NotNil(t, two)
	SetAttr(two, "id", "renamed")
	require.Nil(t, d.ByID("two"))
	require.Same(t, two, d.ByID("renamed"))
}

func TestQuery_DescendantAndAttribute(t *testing.T) {
	d := mustParse(t, fixture)

	content := d.Query("#options .options-content")
	require.NotNil(t, content)
	require.True(t, HasClass(content, "options-content"))

	span := Query(d.ByID("one"), "span[data-i18n]")
	require.NotNil(t, span)
	require.Equal(t, "One", Text(span))

	require.Nil(t, Query(d.ByID("two"), "span[data-i18n]"))
	require.Len(t, d.QueryAll("a.interactable"), 2)
	require.True(t, Matches(span, "#options a span"))
}

func TestMoves_KeepListeners(t *testing.T) {
	d := mustParse(t, fixture)
	content := d.Query("#options .options-content")
	one, two := d.ByID("one"), d.ByID("two")

	clicks := 0
	d.OnClick(one, func(*html.Node) { clicks++ })

	d.Append(content, one)
	require.Equal(t, one, Children(content)[len(Children(content))-1])
	d.Prepend(content, one)
	require.Equal(t, 0, Index(one))
	d.InsertAfter(content, one, two)
	require.Equal(t, Index(two)+1, Index(one))

	require.True(t, d.Click(one))
	require.NoError(t, d.ClickID("one"))
	require.Equal(t, 2, clicks)

	d.Remove(one)
	require.Equal(t, 0, d.ListenerCount(one))
}

func TestClasses(t *testing.T) {
	d := mustParse(t, fixture)
	i := Query(d.ByID("one"), "i")

	ReplaceClass(i, "fa-flag", "fa-folder")
	require.Equal(t, []string{"fa-lg", "fa-solid", "fa-folder"}, Classes(i))
	AddClass(i, "expanded")
	AddClass(i, "expanded")
	require.Equal(t, 4, len(Classes(i)))
	RemoveClass(i, "expanded")
	require.False(t, HasClass(i, "expanded"))
}

func TestIsVisible(t *testing.T) {
	d := mustParse(t, fixture)
	require.True(t, IsVisible(d.ByID("one")))
	require.False(t, IsVisible(d.ByID("two")))

	AddClass(d.ByID("one"), HiddenMarker)
	require.False(t, IsVisible(d.ByID("one")))
}

func TestSave_RoundTrip(t *testing.T) {
	d := mustParse(t, fixture)
	SetText(Query(d.ByID("one"), "span"), "Renamed")

	path := filepath.Join(t.TempDir(), "host.html")
	require.NoError(t, d.Save(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(b), ">Renamed</span>"))

	again, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Renamed", Text(again.ByID("one")))
}
