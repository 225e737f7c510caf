package printer

import (
	"fmt"
	"strings"
)

// TextDocument builds a plain-text receipt laid out for a fixed character
// width. It mirrors Document but produces printable text instead of an
// ESC/POS byte stream, for download endpoints and print previews.
type TextDocument struct {
	sb    strings.Builder
	width int
}

// NewTextDocument creates a plain-text document with the given character width.
func NewTextDocument(charWidth int) *TextDocument {
	if charWidth <= 0 {
		charWidth = 32
	}
	return &TextDocument{width: charWidth}
}

// Width returns the configured character width.
func (d *TextDocument) Width() int {
	return d.width
}

// Line writes a left-aligned line of text.
func (d *TextDocument) Line(s string) *TextDocument {
	d.sb.WriteString(s)
	d.sb.WriteByte('\n')
	return d
}

// LineF writes a formatted left-aligned line of text.
func (d *TextDocument) LineF(format string, args ...interface{}) *TextDocument {
	return d.Line(fmt.Sprintf(format, args...))
}

// CenterLine writes a line centered within the document width.
func (d *TextDocument) CenterLine(s string) *TextDocument {
	pad := (d.width - len(s)) / 2
	if pad > 0 {
		d.sb.WriteString(strings.Repeat(" ", pad))
	}
	d.sb.WriteString(s)
	d.sb.WriteByte('\n')
	return d
}

// Blank writes an empty line.
func (d *TextDocument) Blank() *TextDocument {
	d.sb.WriteByte('\n')
	return d
}

// Separator writes a full-width separator line.
func (d *TextDocument) Separator(char byte) *TextDocument {
	d.sb.WriteString(strings.Repeat(string(char), d.width))
	d.sb.WriteByte('\n')
	return d
}

// KeyValue writes a left-aligned key and right-aligned value on one line.
func (d *TextDocument) KeyValue(key, value string) *TextDocument {
	spaces := d.width - len(key) - len(value)
	if spaces < 1 {
		spaces = 1
	}
	d.sb.WriteString(key)
	d.sb.WriteString(strings.Repeat(" ", spaces))
	d.sb.WriteString(value)
	d.sb.WriteByte('\n')
	return d
}

// ItemLine writes a receipt item line: qty x name, then a right-aligned total.
// Names that would collide with the total are truncated to keep the column.
func (d *TextDocument) ItemLine(qty int, name, total string) *TextDocument {
	prefix := fmt.Sprintf("%dx %s", qty, name)
	maxPrefix := d.width - len(total) - 1
	if len(prefix) > maxPrefix && maxPrefix > 3 {
		prefix = prefix[:maxPrefix-1] + "."
	}
	spaces := d.width - len(prefix) - len(total)
	if spaces < 1 {
		spaces = 1
	}
	d.sb.WriteString(prefix)
	d.sb.WriteString(strings.Repeat(" ", spaces))
	d.sb.WriteString(total)
	d.sb.WriteByte('\n')
	return d
}

// String returns the rendered text.
func (d *TextDocument) String() string {
	return d.sb.String()
}
