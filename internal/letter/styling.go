package letter

import "strings"

// Default run formatting for styled fields. Size is in half-points, so 24
// renders as 12pt.
const (
	DefaultFontSize = 24
	DefaultFont     = "Times New Roman"
)

// RichText is a single styled text run.
type RichText struct {
	Text      string `json:"text"`
	Bold      bool   `json:"bold"`
	Underline bool   `json:"underline"`
	Italic    bool   `json:"italic"`
	Size      int    `json:"size"`
	Font      string `json:"font"`
}

// StyledValue is either a plain string or a rich-text run.
type StyledValue struct {
	Plain string
	Rich  *RichText
}

// IsRich reports whether the value carries run formatting.
func (v StyledValue) IsRich() bool {
	return v.Rich != nil
}

// Text returns the raw text content regardless of styling.
func (v StyledValue) Text() string {
	if v.Rich != nil {
		return v.Rich.Text
	}
	return v.Plain
}

func newRichText(text string, bold, underline bool) *RichText {
	rt := &RichText{
		Bold:      bold,
		Underline: underline,
		Size:      DefaultFontSize,
		Font:      DefaultFont,
	}
	// Blank content still gets a valid, empty run so the template placeholder
	// always resolves.
	if strings.TrimSpace(text) == "" {
		return rt
	}
	rt.Text = text
	return rt
}

// Resolve maps a flat field record to styled values using the static style
// tables. The output key set is exactly the schema fields plus any extra keys
// the caller provided; extras default to plain. Resolve is a pure function
// and never fails.
func Resolve(record map[string]string) map[string]StyledValue {
	out := make(map[string]StyledValue, len(SchemaFields)+len(record))

	for _, name := range SchemaFields {
		out[name] = styleValue(name, record[name])
	}
	for name, value := range record {
		if _, ok := out[name]; ok {
			continue
		}
		out[name] = styleValue(name, value)
	}

	return out
}

func styleValue(name, value string) StyledValue {
	switch StyleOf(name) {
	case StyleBoldUnderline:
		return StyledValue{Rich: newRichText(value, true, true)}
	case StyleBold:
		return StyledValue{Rich: newRichText(value, true, false)}
	default:
		return StyledValue{Plain: value}
	}
}

// CountRich returns how many values in a resolved record carry run styling.
func CountRich(resolved map[string]StyledValue) int {
	n := 0
	for _, v := range resolved {
		if v.IsRich() {
			n++
		}
	}
	return n
}
