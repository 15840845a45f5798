// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/memoria-engine/internal/docmodel"
	"github.com/pdiddy/memoria-engine/internal/index"
	"github.com/pdiddy/memoria-engine/pkg/types"
)

func heading(text string) *docmodel.Paragraph {
	return &docmodel.Paragraph{StyleID: "ARTICA1", StyleName: "ARTICA 1", Runs: []docmodel.Run{{Text: text}}}
}

func body(runs ...docmodel.Run) *docmodel.Paragraph {
	return &docmodel.Paragraph{StyleName: "Normal", Runs: runs}
}

func text(s string) docmodel.Run { return docmodel.Run{Text: s} }

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// fluidosDoc is an index line, the wanted section, and the next section.
func fluidosDoc() *docmodel.Document {
	d := &docmodel.Document{}
	d.Append(body(text("3.2 INSTALACIÓN DE FLUIDOS .......... 12")))
	d.Append(heading("INSTALACIÓN DE FLUIDOS"))
	d.Append(body(text("Primer párrafo.")))
	d.Append(body(docmodel.Run{Text: "Segundo ", Bold: docmodel.On}, docmodel.Run{Text: "párrafo", Italic: docmodel.On}))
	d.Append(heading("SIGUIENTE APARTADO"))
	d.Append(body(text("no pertenece")))
	return d
}

func TestExtract_FluidosScenario(t *testing.T) {
	s, err := index.NewScanner([]string{"FLUIDOS"}, nil)
	require.NoError(t, err)
	doc := fluidosDoc()

	entries := s.Scan(doc)
	require.Equal(t, []index.Entry{{Title: "INSTALACIÓN DE FLUIDOS", Page: 12}}, entries)

	sec, err := New(Config{Logger: quiet()}).Extract(doc, entries[0].Title)
	require.NoError(t, err)
	assert.Equal(t, "INSTALACIÓN DE FLUIDOS", sec.Title)
	require.Len(t, sec.Elements, 3)

	var got []string
	for _, el := range sec.Elements {
		te, ok := el.(docmodel.TextElement)
		require.True(t, ok)
		got = append(got, te.Text())
	}
	assert.Equal(t, []string{"INSTALACIÓN DE FLUIDOS", "Primer párrafo.", "Segundo párrafo"}, got)

	second := sec.Elements[2].(docmodel.TextElement)
	assert.Equal(t, []docmodel.Span{
		{Text: "Segundo ", Bold: docmodel.On},
		{Text: "párrafo", Italic: docmodel.On},
	}, second.Spans)
}

func TestExtract_Idempotent(t *testing.T) {
	doc := fluidosDoc()
	e := New(Config{Logger: quiet()})

	first, err := e.Extract(doc, "INSTALACIÓN DE FLUIDOS")
	require.NoError(t, err)
	again, err := e.Extract(doc, "INSTALACIÓN DE FLUIDOS")
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestExtract_NotFound(t *testing.T) {
	_, err := New(Config{Logger: quiet()}).Extract(fluidosDoc(), "ELECTRICIDAD")
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestExtract_HeadingOnlyIsNotAnError(t *testing.T) {
	d := &docmodel.Document{}
	d.Append(heading("A"))
	d.Append(heading("B"))

	sec, err := New(Config{Logger: quiet()}).Extract(d, "A")
	require.NoError(t, err)
	assert.Len(t, sec.Elements, 1)
}

func TestExtract_RunsToEndOfDocument(t *testing.T) {
	d := &docmodel.Document{}
	d.Append(heading("ÚLTIMO"))
	d.Append(body(text("uno")))
	d.Append(&docmodel.Opaque{Kind: "tbl"})
	d.Append(body(text("dos")))

	sec, err := New(Config{Logger: quiet()}).Extract(d, "ÚLTIMO")
	require.NoError(t, err)
	assert.Len(t, sec.Elements, 3)
}

func TestExtract_PlainParagraphWithTitleTextDoesNotStart(t *testing.T) {
	d := &docmodel.Document{}
	d.Append(body(text("FLUIDOS")))
	d.Append(body(text("cuerpo")))

	_, err := New(Config{Logger: quiet()}).Extract(d, "FLUIDOS")
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestExtract_Images(t *testing.T) {
	png := &docmodel.Image{Ext: "png", Data: []byte{1, 2, 3}}
	dangling := &docmodel.Image{RelID: "rId9"}

	d := &docmodel.Document{}
	d.Append(heading("FOTOS"))
	d.Append(body(docmodel.Run{Image: png}))
	d.Append(body(text("pie"), docmodel.Run{Image: dangling}, docmodel.Run{Image: png}))
	d.Append(body())

	var logs bytes.Buffer
	sec, err := New(Config{Logger: slog.New(slog.NewTextHandler(&logs, nil))}).Extract(d, "FOTOS")
	require.NoError(t, err)

	require.Len(t, sec.Elements, 4)
	assert.IsType(t, docmodel.TextElement{}, sec.Elements[0])
	assert.Equal(t, docmodel.ImageElement{Image: png}, sec.Elements[1])
	assert.Equal(t, "pie", sec.Elements[2].(docmodel.TextElement).Text())
	assert.Equal(t, docmodel.ImageElement{Image: png}, sec.Elements[3])
	assert.Contains(t, logs.String(), string(types.ReasonImageExtractionError))
}

func TestExtract_MatchModes(t *testing.T) {
	d := &docmodel.Document{}
	d.Append(heading("FLUIDOS SANITARIOS"))
	d.Append(body(text("sanitarios")))
	d.Append(heading("FLUIDOS"))
	d.Append(body(text("fluidos")))

	exact, err := New(Config{Logger: quiet()}).Extract(d, "FLUIDOS")
	require.NoError(t, err)
	assert.Equal(t, "fluidos", exact.Elements[1].(docmodel.TextElement).Text())

	// Substring matching starts at the first heading containing the title
	// and keeps going through the second, which also contains it.
	sub, err := New(Config{Match: types.MatchSubstring, Logger: quiet()}).Extract(d, "FLUIDOS")
	require.NoError(t, err)
	assert.Len(t, sub.Elements, 4)
	assert.Equal(t, "FLUIDOS SANITARIOS", sub.Elements[0].(docmodel.TextElement).Text())
}

func TestExtract_ExactIgnoresOutlineNumber(t *testing.T) {
	d := &docmodel.Document{}
	d.Append(heading("3.2 INSTALACIÓN DE FLUIDOS"))
	d.Append(body(text("x")))

	sec, err := New(Config{Logger: quiet()}).Extract(d, "INSTALACIÓN DE FLUIDOS")
	require.NoError(t, err)
	assert.Len(t, sec.Elements, 2)
}

func TestExtract_CustomHeadingPredicate(t *testing.T) {
	isH1 := func(p *docmodel.Paragraph) bool { return p.StyleName == "Heading 1" }
	d := &docmodel.Document{}
	d.Append(&docmodel.Paragraph{StyleName: "Heading 1", Runs: []docmodel.Run{text("A")}})
	d.Append(heading("ARTICA but not a heading here"))
	d.Append(&docmodel.Paragraph{StyleName: "Heading 1", Runs: []docmodel.Run{text("B")}})

	sec, err := New(Config{IsHeading: isH1, Logger: quiet()}).Extract(d, "A")
	require.NoError(t, err)
	assert.Len(t, sec.Elements, 2)
}

func TestExtractAll_DuplicateTitlesOverwrite(t *testing.T) {
	doc := fluidosDoc()
	e := New(Config{Logger: quiet()})
	entries := []index.Entry{
		{Title: "INSTALACIÓN DE FLUIDOS", Page: 12},
		{Title: "NO EXISTE", Page: 13},
		{Title: "INSTALACIÓN DE FLUIDOS", Page: 40},
	}

	got := e.ExtractAll(doc, entries)
	require.Len(t, got, 1)
	want, err := e.Extract(doc, "INSTALACIÓN DE FLUIDOS")
	require.NoError(t, err)
	assert.Equal(t, want, got["INSTALACIÓN DE FLUIDOS"])
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "searching", Searching.String())
	assert.Equal(t, "capturing", Capturing.String())
}
