package discovery

import (
	"testing"

	"github.com/stretchr/testify/require"

	"menu-customizer/internal/hostdoc"
	"menu-customizer/internal/model"
)

const menu = `<html><body><div id="extensionsMenu">
  <div id="sd_wand_container" class="extension_container interactable">
    <div id="sd_gen" class="list-group-item"><i class="fa-solid fa-paintbrush extensionsMenuExtensionButton"></i><span>Generate Image</span></div>
    <div class="list-group-item"><i class="fa-lg fa-solid fa-camera"></i><span>Snapshot</span></div>
    <div id="sd_off" style="display:none"><span>Hidden by host</span></div>
  </div>
  <hr>
  <div id="ttsExtensionMenuItem" class="list-group-item interactable"><div class="fa-solid fa-volume-high extensionsMenuExtensionButton"></div>TTS</div>
  <a id="mine" class="menu-customizer-hidden"><i class="fa-solid fa-star"></i><span>Mine</span></a>
  <div class="interactable"><i class="fa-solid fa-question"></i></div>
  <div class="not-clickable"><span>Plain</span></div>
  <div class="menu-customizer-category-wrapper extension_container" data-category-id="c1">
    <div class="menu-customizer-category-toggle-btn"><span>Folder</span></div>
    <div class="menu-customizer-category-content">
      <a id="inside"><span>Inside</span></a>
    </div>
  </div>
</div></body></html>`

func ids(items []model.DiscoveredItem) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestMenuScanner_Rules(t *testing.T) {
	doc, err := hostdoc.ParseString(menu)
	require.NoError(t, err)

	s := NewMenuScanner(doc)
	got := s.Scan()

	require.Equal(t, []string{"sd_gen", "menu_customizer_auto_0", "ttsExtensionMenuItem", "mine", "inside"}, ids(got))

	require.Equal(t, "Generate Image", got[0].Name)
	require.Equal(t, "fa-solid fa-paintbrush", got[0].Icon)
	require.Equal(t, "fa-solid fa-camera", got[1].Icon)
	require.Equal(t, "TTS", got[2].Name)
	require.Equal(t, "", got[2].Icon)
	require.Equal(t, "Mine", got[3].Name)

	// The synthetic id is written back onto the element.
	require.NotNil(t, doc.ByID("menu_customizer_auto_0"))
}

func TestMenuScanner_StableAcrossScans(t *testing.T) {
	doc, err := hostdoc.ParseString(menu)
	require.NoError(t, err)
	s := NewMenuScanner(doc)

	first := s.Scan()
	second := s.Scan()
	require.Equal(t, first, second)
}

func TestMenuScanner_DedupesFirstWins(t *testing.T) {
	doc, err := hostdoc.ParseString(`<html><body><div id="extensionsMenu">
	<a id="dup"><span>First</span></a>
	<a id="dup"><span>Second</span></a>
	</div></body></html>`)
	require.NoError(t, err)

	got := NewMenuScanner(doc).Scan()
	require.Len(t, got, 1)
	require.Equal(t, "First", got[0].Name)
}

func TestMenuScanner_MissingRoot(t *testing.T) {
	doc, err := hostdoc.ParseString(`<html><body></body></html>`)
	require.NoError(t, err)
	require.Empty(t, NewMenuScanner(doc).Scan())
}

func TestStaticScanner_ReturnsCopy(t *testing.T) {
	s := StaticScanner{Items: model.DefaultPrimaryItems}
	got := s.Scan()
	got[0].Name = "changed"
	require.NotEqual(t, "changed", model.DefaultPrimaryItems[0].Name)
}

func TestMenuScanner_SyntheticIDsSurviveReload(t *testing.T) {
	doc, err := hostdoc.ParseString(menu)
	require.NoError(t, err)
	s := NewMenuScanner(doc)
	first := ids(s.Scan())

	reloaded, err := hostdoc.ParseString(menu)
	require.NoError(t, err)
	s.Reset(reloaded)
	second := ids(s.Scan())

	require.Equal(t, first, second)
	require.Contains(t, second, "menu_customizer_auto_0")
}

func TestMenuScanner_SyntheticIDsSkipTakenIDs(t *testing.T) {
	doc, err := hostdoc.ParseString(`<html><body><div id="extensionsMenu">
	<a><span>Fresh</span></a>
	<a id="menu_customizer_auto_0"><span>Taken</span></a>
	</div></body></html>`)
	require.NoError(t, err)

	got := NewMenuScanner(doc).Scan()
	require.Equal(t, []string{"menu_customizer_auto_1", "menu_customizer_auto_0"}, ids(got))
}

func TestName_ConcatenatesSpans(t *testing.T) {
	doc, err := hostdoc.ParseString(`<html><body><div id="extensionsMenu">
	<a id="multi"><span>Image</span><span>Gen</span></a>
	<a id="bare">  Plain text  </a>
	</div></body></html>`)
	require.NoError(t, err)

	require.Equal(t, "ImageGen", Name(doc.ByID("multi")))
	require.Equal(t, "Plain text", Name(doc.ByID("bare")))
}
