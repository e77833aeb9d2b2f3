package docx

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/letter"
)

const testBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body><w:p><w:r><w:t>Dear {{defendant}}, dated {{ date }}. {{conclusion}}</w:t></w:r></w:p></w:body>
</w:document>`

func writeTemplate(t *testing.T, entries map[string]string) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "template.docx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func readEntry(t *testing.T, archive []byte, name string) string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(content)
	}
	t.Fatalf("entry %s not found in archive", name)
	return ""
}

func TestRenderSubstitutesStyledFields(t *testing.T) {
	path := writeTemplate(t, map[string]string{
		"[Content_Types].xml": `<Types/>`,
		"word/document.xml":   testBody,
	})

	fields := letter.Resolve(map[string]string{
		letter.FieldDefendant:  "Acme & Sons",
		letter.FieldDate:       "January 2, 2026",
		letter.FieldConclusion: "Pay up.",
	})

	out, err := NewRenderer(path).Render(fields)
	require.NoError(t, err)

	doc := readEntry(t, out, "word/document.xml")
	assert.NotContains(t, doc, "{{")
	assert.Contains(t, doc, "Acme &amp; Sons")
	assert.Contains(t, doc, "<w:b/>")
	assert.Contains(t, doc, `<w:u w:val="single"/>`)
	assert.Contains(t, doc, `<w:rFonts w:ascii="Times New Roman" w:hAnsi="Times New Roman"/>`)
	assert.Contains(t, doc, "Pay up.")

	// Untouched entries survive the rewrite.
	assert.Equal(t, "<Types/>", readEntry(t, out, "[Content_Types].xml"))
}

func TestRenderEmptyStyledFieldStillResolves(t *testing.T) {
	path := writeTemplate(t, map[string]string{
		"word/document.xml": `<w:document><w:body><w:p><w:r><w:t>{{defendant}}</w:t></w:r></w:p></w:body></w:document>`,
	})

	out, err := NewRenderer(path).Render(letter.Resolve(nil))
	require.NoError(t, err)

	doc := readEntry(t, out, "word/document.xml")
	assert.NotContains(t, doc, "{{")
	assert.Contains(t, doc, "<w:b/>")
}

func TestRenderUnresolvedPlaceholder(t *testing.T) {
	path := writeTemplate(t, map[string]string{
		"word/document.xml": `<w:document><w:body><w:p><w:r><w:t>{{mystery_field}}</w:t></w:r></w:p></w:body></w:document>`,
	})

	out, err := NewRenderer(path).Render(letter.Resolve(nil))
	assert.Nil(t, out)
	require.ErrorIs(t, err, ErrUnresolvedPlaceholder)
	assert.Contains(t, err.Error(), "mystery_field")
	assert.NotErrorIs(t, err, ErrTemplateNotFound)
}

func TestRenderTemplateMissing(t *testing.T) {
	r := NewRenderer(filepath.Join(t.TempDir(), "nope.docx"))

	out, err := r.Render(letter.Resolve(nil))
	assert.Nil(t, out)
	require.ErrorIs(t, err, ErrTemplateNotFound)
	assert.NotErrorIs(t, err, ErrUnresolvedPlaceholder)
}

func TestRenderMalformedTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.docx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip archive"), 0644))

	_, err := NewRenderer(path).Render(letter.Resolve(nil))
	require.ErrorIs(t, err, ErrMalformedTemplate)
}

func TestRenderTemplateWithoutDocumentEntry(t *testing.T) {
	path := writeTemplate(t, map[string]string{
		"[Content_Types].xml": `<Types/>`,
	})

	_, err := NewRenderer(path).Render(letter.Resolve(nil))
	require.ErrorIs(t, err, ErrMalformedTemplate)
}

func TestTemplateInfo(t *testing.T) {
	path := writeTemplate(t, map[string]string{"word/document.xml": testBody})

	info := NewRenderer(path).Info()
	assert.True(t, info.Exists)
	assert.Greater(t, info.Size, int64(0))
	assert.True(t, filepath.IsAbs(info.Path))

	missing := NewRenderer(filepath.Join(t.TempDir(), "gone.docx")).Info()
	assert.False(t, missing.Exists)
}

func TestGeneratedFilename(t *testing.T) {
	a := GeneratedFilename()
	b := GeneratedFilename()

	assert.True(t, strings.HasPrefix(a, "demand_letter_"))
	assert.True(t, strings.HasSuffix(a, ".docx"))
	assert.NotEqual(t, a, b)
}
