package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplacePluginImagesPNG(t *testing.T) {
	markup := `<p><img src="@@PLUGINFILE@@/diagram.png"/></p>`
	out := ReplacePluginImages(markup, `[{"image_base64":"AAAA"}]`)
	assert.Contains(t, out, `src="data:image/png;base64,AAAA"`)
	assert.NotContains(t, out, PluginFileMarker)
}

func TestReplacePluginImagesPayloadPrecedence(t *testing.T) {
	markup := `<img src="@@PLUGINFILE@@/a.gif"/><img src="@@PLUGINFILE@@/b.webp"/><img src="@@PLUGINFILE@@/c.xyz"/>`
	imagesJSON := `[
		{"img_base64":"FIRST","image_base64":"ignored","base64":"ignored"},
		{"base64":"THIRDFIELD"},
		{"image_base64":"SECONDFIELD"}
	]`
	out := ReplacePluginImages(markup, imagesJSON)
	assert.Contains(t, out, `src="data:image/gif;base64,FIRST"`)
	assert.Contains(t, out, `src="data:image/webp;base64,THIRDFIELD"`)
	// Unknown extension defaults to jpeg.
	assert.Contains(t, out, `src="data:image/jpeg;base64,SECONDFIELD"`)
}

func TestReplacePluginImagesMalformedManifest(t *testing.T) {
	markup := `<img src="@@PLUGINFILE@@/x.png"/>`
	assert.Equal(t, markup, ReplacePluginImages(markup, ""))
	assert.Equal(t, markup, ReplacePluginImages(markup, "not json"))
	assert.Equal(t, markup, ReplacePluginImages(markup, `{"img_base64":"A"}`))
	assert.Equal(t, markup, ReplacePluginImages(markup, `[]`))
}

func TestReplacePluginImagesExtraElementsUntouched(t *testing.T) {
	markup := `<img src="@@PLUGINFILE@@/a.png"/><img src="@@PLUGINFILE@@/b.png"/>`
	out := ReplacePluginImages(markup, `[{"base64":"ONLY"}]`)
	assert.Contains(t, out, `src="data:image/png;base64,ONLY"`)
	// The second element has no aligned record and keeps its marker src.
	assert.Contains(t, out, `src="@@PLUGINFILE@@/b.png"`)
}

func TestReplacePluginImagesEmptyPayloadConsumesPosition(t *testing.T) {
	markup := `<img src="@@PLUGINFILE@@/a.png"/><img src="@@PLUGINFILE@@/b.png"/>`
	out := ReplacePluginImages(markup, `[{},{"base64":"B"}]`)
	// First record is empty: element untouched, position consumed anyway.
	assert.Contains(t, out, `src="@@PLUGINFILE@@/a.png"`)
	assert.Contains(t, out, `src="data:image/png;base64,B"`)
}

func TestReplacePluginImagesLeavesDirectImagesAlone(t *testing.T) {
	markup := `<img src="https://example.com/pic.png"/><img src="@@PLUGINFILE@@/a.png"/>`
	out := ReplacePluginImages(markup, `[{"base64":"A"}]`)
	assert.Contains(t, out, `src="https://example.com/pic.png"`)
	assert.Contains(t, out, `src="data:image/png;base64,A"`)
}

func TestReplaceSequentialAlignment(t *testing.T) {
	markup := `<img src="@@PLUGINFILE@@/a.png"><img src="@@PLUGINFILE@@/b.gif">`
	out := replaceSequential(markup, []imageRecord{{Base64: "A"}, {Base64: "B"}})
	assert.Contains(t, out, `src="data:image/png;base64,A"`)
	assert.Contains(t, out, `src="data:image/gif;base64,B"`)
}

func TestMimeFromExt(t *testing.T) {
	assert.Equal(t, "image/png", mimeFromExt("@@PLUGINFILE@@/x.png"))
	assert.Equal(t, "image/png", mimeFromExt("x.PNG?version=2"))
	assert.Equal(t, "image/gif", mimeFromExt("x.gif"))
	assert.Equal(t, "image/webp", mimeFromExt("x.webp"))
	assert.Equal(t, "image/jpeg", mimeFromExt("x.jpg"))
	assert.Equal(t, "image/jpeg", mimeFromExt("no-extension"))
}
