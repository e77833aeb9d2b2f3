package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/letter"
)

const documentXML = "word/document.xml"

// Placeholders use the {{name}} form inside the document body.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Renderer substitutes a styled field record into the DOCX template at a
// fixed path. Rendering is all-or-nothing: it returns either a complete
// document buffer or an error.
type Renderer struct {
	templatePath string
}

func NewRenderer(templatePath string) *Renderer {
	return &Renderer{templatePath: templatePath}
}

// TemplateInfo describes the template resource on disk.
type TemplateInfo struct {
	Exists bool   `json:"templateExists"`
	Size   int64  `json:"templateSize,omitempty"`
	Path   string `json:"templatePath"`
}

// Info reports whether the template exists and how large it is.
func (r *Renderer) Info() TemplateInfo {
	path := r.templatePath
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	stat, err := os.Stat(r.templatePath)
	if err != nil {
		return TemplateInfo{Exists: false, Path: path}
	}
	return TemplateInfo{Exists: true, Size: stat.Size(), Path: path}
}

// Render produces a complete DOCX with every placeholder in the template
// replaced from the field record. A missing template file yields
// ErrTemplateNotFound; a placeholder with no matching key yields
// ErrUnresolvedPlaceholder.
func (r *Renderer) Render(fields map[string]letter.StyledValue) ([]byte, error) {
	raw, err := os.ReadFile(r.templatePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, r.templatePath)
		}
		return nil, fmt.Errorf("failed to read template: %w", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTemplate, err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	seenDocument := false

	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open template entry %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read template entry %s: %w", f.Name, err)
		}

		if f.Name == documentXML {
			seenDocument = true
			content, err = substitute(content, fields)
			if err != nil {
				return nil, err
			}
		}

		w, err := zw.Create(f.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to write archive entry %s: %w", f.Name, err)
		}
		if _, err := w.Write(content); err != nil {
			return nil, fmt.Errorf("failed to write archive entry %s: %w", f.Name, err)
		}
	}

	if !seenDocument {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedTemplate, documentXML)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize document: %w", err)
	}

	return buf.Bytes(), nil
}

// GeneratedFilename returns a collision-resistant name for a rendered letter.
func GeneratedFilename() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("demand_letter_%s.docx", suffix)
}

func substitute(doc []byte, fields map[string]letter.StyledValue) ([]byte, error) {
	var missing []string

	out := placeholderPattern.ReplaceAllFunc(doc, func(match []byte) []byte {
		name := string(placeholderPattern.FindSubmatch(match)[1])
		value, ok := fields[name]
		if !ok {
			missing = append(missing, name)
			return match
		}
		if value.IsRich() {
			return []byte(richRunXML(value.Rich))
		}
		return []byte(xmlEscaper.Replace(value.Plain))
	})

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedPlaceholder, strings.Join(dedupe(missing), ", "))
	}

	return out, nil
}

// richRunXML renders a styled run. The placeholder sits inside an existing
// run's text node, so the styled value closes that run, emits its own run
// with formatting properties, and reopens a text node for the remainder.
func richRunXML(rt *letter.RichText) string {
	var props strings.Builder
	if rt.Font != "" {
		fmt.Fprintf(&props, `<w:rFonts w:ascii="%s" w:hAnsi="%s"/>`, rt.Font, rt.Font)
	}
	if rt.Bold {
		props.WriteString("<w:b/>")
	}
	if rt.Italic {
		props.WriteString("<w:i/>")
	}
	if rt.Underline {
		props.WriteString(`<w:u w:val="single"/>`)
	}
	if rt.Size > 0 {
		fmt.Fprintf(&props, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, rt.Size, rt.Size)
	}

	return fmt.Sprintf(
		`</w:t></w:r><w:r><w:rPr>%s</w:rPr><w:t xml:space="preserve">%s</w:t></w:r><w:r><w:t xml:space="preserve">`,
		props.String(),
		xmlEscaper.Replace(rt.Text),
	)
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || sorted[i-1] != s {
			out = append(out, s)
		}
	}
	return out
}
