package project

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"menu-customizer/internal/hostdoc"
	"menu-customizer/internal/model"
	"menu-customizer/internal/store"
)

const host = `<html><body>
<div id="options"><div class="options-content"><a id="A"><i class="fa-lg fa-solid fa-flag"></i><span data-i18n="A">A</span></a><a id="B"><i class="fa-lg fa-solid fa-star"></i><span data-i18n="B">B</span></a><a id="C"><span>C</span></a></div></div>
<div id="extensionsMenu"><div id="X" class="list-group-item"><span>X</span></div><div id="Y" class="list-group-item"><span>Y</span></div></div>
</body></html>`

type countingStore struct {
	*store.Model
	persists int
}

func (c *countingStore) Persist() { c.persists++ }

func setup(t *testing.T, primary, secondary model.ScopeState) (*hostdoc.Document, *countingStore, *Projector) {
	t.Helper()
	doc, err := hostdoc.ParseString(host)
	require.NoError(t, err)
	cs := &countingStore{Model: store.NewModel(&model.Settings{
		Version:       model.SettingsVersion,
		PrimaryMenu:   primary,
		SecondaryMenu: secondary,
	})}
	p := &Projector{Doc: func() *hostdoc.Document { return doc }, Store: cs}
	return doc, cs, p
}

func abc() model.ScopeState {
	return model.ScopeState{Items: []model.Item{
		{ID: "A", Name: "A", Order: model.IntPtr(0)},
		{ID: "B", Name: "B", Order: model.IntPtr(1)},
		{ID: "C", Name: "C", Order: model.IntPtr(2)},
	}}
}

func childIDs(n *html.Node) []string {
	var out []string
	for _, c := range hostdoc.Children(n) {
		if hostdoc.HasClass(c, WrapperClass) {
			v, _ := hostdoc.Attr(c, CategoryAttr)
			out = append(out, "wrapper:"+v)
			continue
		}
		out = append(out, hostdoc.ID(c))
	}
	return out
}

func TestApply_CategoryWrapsOnlyItsMembers(t *testing.T) {
	st := abc()
	st.Categories = []model.Category{{ID: "tools", Name: "Tools", Order: model.IntPtr(0)}}
	st.Items[1].CategoryID = model.StrPtr("tools")
	doc, _, p := setup(t, st, model.ScopeState{})

	res := p.Apply(model.ScopePrimary)
	require.Equal(t, 1, res.Wrappers)

	root := doc.Query(PrimaryTarget.Root)
	require.Equal(t, []string{"wrapper:tools", "A", "C"}, childIDs(root))

	w := WrapperFor(root, "tools")
	require.NotNil(t, w)
	content := hostdoc.Query(w, "."+ContentClass)
	require.Equal(t, []string{"B"}, childIDs(content))
	require.Equal(t, "Tools", hostdoc.Text(hostdoc.Query(w, "."+ToggleClass)))
}

func TestApply_Idempotent(t *testing.T) {
	st := abc()
	st.Categories = []model.Category{
		{ID: "one", Name: "One", Order: model.IntPtr(1)},
		{ID: "two", Name: "Two", Order: model.IntPtr(0), Expanded: model.BoolPtr(false)},
	}
	st.Items[0].CategoryID = model.StrPtr("one")
	st.Items[2].CategoryID = model.StrPtr("two")
	st.Items[1].CustomName = model.StrPtr("Bee")
	sec := model.ScopeState{Items: []model.Item{
		{ID: "Y", Name: "Y", Order: model.IntPtr(0)},
		{ID: "X", Name: "X", Order: model.IntPtr(1), Hidden: true},
	}}
	doc, _, p := setup(t, st, sec)

	p.ApplyAll()
	once := doc.String()
	p.ApplyAll()
	require.Equal(t, once, doc.String())

	root := doc.Query(PrimaryTarget.Root)
	require.Equal(t, []string{"wrapper:two", "wrapper:one", "B"}, childIDs(root))
	require.Equal(t, "Bee", hostdoc.Text(hostdoc.Query(doc.ByID("B"), "span")))

	// One listener per toggle, not one per pass.
	toggle := hostdoc.Query(WrapperFor(root, "one"), "."+ToggleClass)
	require.Equal(t, 1, doc.ListenerCount(toggle))

	collapsed := hostdoc.Query(WrapperFor(root, "two"), "."+ToggleClass)
	require.False(t, hostdoc.HasClass(collapsed, ExpandedFlag))
	require.NotNil(t, hostdoc.Query(collapsed, "i.fa-folder"))
	require.NotNil(t, hostdoc.Query(collapsed, "i.fa-chevron-right"))
}

func TestApply_EmptyCategoryNeverRenders(t *testing.T) {
	st := abc()
	st.Categories = []model.Category{
		{ID: "empty", Name: "Empty", Order: model.IntPtr(0)},
		{ID: "hid", Name: "Hidden only", Order: model.IntPtr(1)},
	}
	st.Items[0].CategoryID = model.StrPtr("hid")
	st.Items[0].Hidden = true
	doc, _, p := setup(t, st, model.ScopeState{})

	res := p.Apply(model.ScopePrimary)
	require.Equal(t, 0, res.Wrappers)
	require.Empty(t, doc.QueryAll("."+WrapperClass))
	require.True(t, hostdoc.HasClass(doc.ByID("A"), hostdoc.HiddenMarker))
}

func TestApply_ResetsHiddenMarkerAndLabel(t *testing.T) {
	st := abc()
	st.Items[0].Hidden = true
	st.Items[0].CustomName = model.StrPtr("Custom")
	doc, cs, p := setup(t, st, model.ScopeState{})

	p.Apply(model.ScopePrimary)
	require.True(t, hostdoc.HasClass(doc.ByID("A"), hostdoc.HiddenMarker))
	require.Equal(t, "Custom", hostdoc.Text(hostdoc.Query(doc.ByID("A"), "span[data-i18n]")))

	cs.Lock()
	a, _ := cs.Get(model.ScopePrimary).FindItem("A")
	a.Hidden = false
	a.CustomName = nil
	cs.Unlock()

	p.Apply(model.ScopePrimary)
	require.False(t, hostdoc.HasClass(doc.ByID("A"), hostdoc.HiddenMarker))
	require.Equal(t, "A", hostdoc.Text(hostdoc.Query(doc.ByID("A"), "span[data-i18n]")))
}

func TestApply_SkipsMissingElements(t *testing.T) {
	st := abc()
	st.Items = append(st.Items, model.Item{ID: "gone", Name: "Gone", Order: model.IntPtr(3)})
	_, _, p := setup(t, st, model.ScopeState{})

	res := p.Apply(model.ScopePrimary)
	require.Equal(t, []string{"gone"}, res.Missing)
}

func TestApply_NoContainer(t *testing.T) {
	doc, err := hostdoc.ParseString(`<html><body></body></html>`)
	require.NoError(t, err)
	p := &Projector{Doc: func() *hostdoc.Document { return doc }, Store: store.NewModel(nil)}
	require.True(t, p.Apply(model.ScopePrimary).NoRoot)
}

func TestToggle_FlipsVisualAndModel(t *testing.T) {
	sec := model.ScopeState{
		Categories: []model.Category{{ID: "c", Name: "Ext", Order: model.IntPtr(0)}},
		Items: []model.Item{
			{ID: "X", Name: "X", Order: model.IntPtr(0), CategoryID: model.StrPtr("c")},
			{ID: "Y", Name: "Y", Order: model.IntPtr(1)},
		},
	}
	doc, cs, p := setup(t, abc(), sec)
	p.Apply(model.ScopeSecondary)

	root := doc.Query(SecondaryTarget.Root)
	w := WrapperFor(root, "c")
	require.True(t, hostdoc.HasClass(w, "extension_container"))
	toggle := hostdoc.Query(w, "."+ToggleClass)
	content := hostdoc.Query(w, "."+ContentClass)
	require.True(t, hostdoc.HasClass(toggle, ExpandedFlag))

	require.True(t, doc.Click(toggle))
	require.False(t, hostdoc.HasClass(toggle, ExpandedFlag))
	require.False(t, hostdoc.HasClass(content, ExpandedFlag))
	require.NotNil(t, hostdoc.Query(toggle, "i.fa-folder.extensionsMenuExtensionButton"))
	require.NotNil(t, hostdoc.Query(toggle, "i.fa-chevron-right"))

	cs.Lock()
	c, _ := cs.Get(model.ScopeSecondary).FindCategory("c")
	expanded := c.IsExpanded()
	cs.Unlock()
	require.False(t, expanded)
	require.Equal(t, 1, cs.persists)

	require.True(t, doc.Click(toggle))
	require.True(t, hostdoc.HasClass(toggle, ExpandedFlag))
	require.NotNil(t, hostdoc.Query(toggle, "i.fa-folder-open"))
}
