// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"bytes"
	"image"
	"image/png"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/memoria-engine/internal/docmodel"
	"github.com/pdiddy/memoria-engine/internal/docx"
	"github.com/pdiddy/memoria-engine/pkg/types"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestExport_FormattingRoundTrip(t *testing.T) {
	dir := t.TempDir()
	r := New(Config{OutputDir: dir, Logger: quiet()})
	sec := docmodel.Section{
		Title: "INSTALACIÓN DE FLUIDOS",
		Elements: []docmodel.Element{
			docmodel.TextElement{Spans: []docmodel.Span{{Text: "INSTALACIÓN DE FLUIDOS"}}},
			docmodel.TextElement{Spans: []docmodel.Span{
				{Text: "x", Bold: docmodel.On},
				{Text: "y", Italic: docmodel.On},
			}},
		},
	}

	path, err := r.Export(sec)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "INSTALACIÓN DE FLUIDOS.docx"), path)

	pkg, err := docx.Open(path)
	require.NoError(t, err)
	paras := pkg.Document().Paragraphs()
	require.Len(t, paras, 3)

	assert.Equal(t, DefaultHeadingStyle, paras[0].StyleName)
	assert.Equal(t, "INSTALACIÓN DE FLUIDOS", paras[0].Text())
	assert.True(t, docmodel.StylePrefix("ARTICA")(paras[0]))

	assert.Equal(t, []docmodel.Run{
		{Text: "x", Bold: docmodel.On},
		{Text: "y", Italic: docmodel.On},
	}, paras[2].Runs)
}

func TestDocument_ImagesAtFixedWidth(t *testing.T) {
	data := pngBytes(t, 200, 100)
	sec := docmodel.Section{
		Title: "FOTOS",
		Elements: []docmodel.Element{
			docmodel.ImageElement{Image: &docmodel.Image{Ext: "png", Data: data, WidthEMU: 1, HeightEMU: 1}},
			docmodel.ImageElement{Image: &docmodel.Image{Ext: "xyz", Data: []byte("??")}},
		},
	}

	var logs bytes.Buffer
	r := New(Config{OutputDir: t.TempDir(), Logger: slog.New(slog.NewTextHandler(&logs, nil))})
	path, err := r.Export(sec)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "image not embedded")

	pkg, err := docx.Open(path)
	require.NoError(t, err)
	paras := pkg.Document().Paragraphs()
	require.Len(t, paras, 2)
	img := paras[1].Runs[0].Image
	require.NotNil(t, img)
	assert.Equal(t, data, img.Data)
	assert.Equal(t, int64(ImageWidthEMU), img.WidthEMU)
	assert.Equal(t, int64(ImageWidthEMU/2), img.HeightEMU)
}

func TestImageExtent(t *testing.T) {
	tests := []struct {
		name   string
		img    *docmodel.Image
		wantCY int64
	}{
		{name: "decoded pixels", img: &docmodel.Image{Data: pngBytes(t, 100, 300)}, wantCY: 3 * ImageWidthEMU},
		{name: "source extent", img: &docmodel.Image{Data: []byte("emf"), WidthEMU: 400, HeightEMU: 100}, wantCY: ImageWidthEMU / 4},
		{name: "square fallback", img: &docmodel.Image{Data: []byte("emf")}, wantCY: ImageWidthEMU},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cx, cy := ImageExtent(tt.img)
			assert.Equal(t, int64(ImageWidthEMU), cx)
			assert.Equal(t, tt.wantCY, cy)
		})
	}
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "A B C", SanitizeFileName(`A/ B\ C`))
	assert.Equal(t, "TituloRaro", SanitizeFileName(`Titulo*?:"<>|Raro`))
	assert.Equal(t, "", SanitizeFileName(`?*`))
}

func TestExportAll_FailuresDoNotAbort(t *testing.T) {
	dir := t.TempDir()
	r := New(Config{OutputDir: dir, Logger: quiet()})
	sections := map[string]docmodel.Section{
		"B":  {Title: "B"},
		"??": {Title: "??"},
		"A":  {Title: "A"},
	}

	var out bytes.Buffer
	res := r.ExportAll(sections, &out)
	assert.Equal(t, 2, res.Exported)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 3, res.Total())
	assert.True(t, res.HasFailures())
	assert.Equal(t, filepath.Join(dir, "A.docx"), res.Paths["A"])

	require.Len(t, res.Outcomes, 3)
	assert.Equal(t, "??", res.Outcomes[0].Subject)
	assert.Equal(t, types.ReasonPersistError, res.Outcomes[0].Reason)
	assert.Equal(t, "A", res.Outcomes[1].Subject)
	assert.Contains(t, out.String(), "exported: "+filepath.Join(dir, "B.docx"))
}

func TestBlocks_TextAndImages(t *testing.T) {
	pkg := docx.New()
	blocks, errs := Blocks(pkg, []docmodel.Element{
		docmodel.TextElement{Spans: []docmodel.Span{{Text: "t", Underline: docmodel.On}}},
		docmodel.ImageElement{Image: &docmodel.Image{Ext: "png", Data: pngBytes(t, 10, 10)}},
		docmodel.ImageElement{},
	})
	require.Len(t, blocks, 2)
	require.Len(t, errs, 1)

	p := blocks[0].(*docmodel.Paragraph)
	assert.Equal(t, []docmodel.Run{{Text: "t", Underline: docmodel.On}}, p.Runs)
	img := blocks[1].(*docmodel.Paragraph).Runs[0].Image
	assert.NotEmpty(t, img.RelID)
	assert.Equal(t, int64(ImageWidthEMU), img.HeightEMU)
}
