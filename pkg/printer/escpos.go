package printer

import (
	"bytes"
	"fmt"
	"strings"
)

// ESC/POS control bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Alignment arguments for ESC a
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Character size arguments for GS !
const (
	FontNormal = 0x00
	FontDouble = 0x11 // double width and height, used for the center name
	FontWide   = 0x10
	FontTall   = 0x01
)

// Document accumulates an ESC/POS receipt job. Layout methods mirror
// TextDocument so the printed receipt and the downloadable text version stay
// in step; the width is the character count of the configured paper roll
// (see Columns).
type Document struct {
	out   bytes.Buffer
	width int
}

// NewDocument starts a receipt job at the given character width and emits
// the printer initialize sequence.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = 32
	}
	d := &Document{width: charWidth}
	return d.Init()
}

// Init emits ESC @, resetting the printer to its power-on state.
func (d *Document) Init() *Document {
	d.out.Write([]byte{ESC, '@'})
	return d
}

// Text emits a line of text.
func (d *Document) Text(s string) *Document {
	d.out.WriteString(s)
	d.out.WriteByte(LF)
	return d
}

// TextF emits a formatted line of text.
func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// SetAlign switches line alignment (AlignLeft, AlignCenter, AlignRight).
func (d *Document) SetAlign(align int) *Document {
	d.out.Write([]byte{ESC, 'a', byte(align)})
	return d
}

// SetBold toggles emphasized printing.
func (d *Document) SetBold(on bool) *Document {
	arg := byte(0)
	if on {
		arg = 1
	}
	d.out.Write([]byte{ESC, 'E', arg})
	return d
}

// SetFontSize switches character size (FontNormal, FontDouble, FontWide,
// FontTall).
func (d *Document) SetFontSize(size byte) *Document {
	d.out.Write([]byte{GS, '!', size})
	return d
}

// Separator emits a rule across the full paper width.
func (d *Document) Separator(char byte) *Document {
	return d.Text(strings.Repeat(string(char), d.width))
}

// KeyValue emits a label on the left and an amount flush against the right
// edge, the layout used for the receipt totals block.
func (d *Document) KeyValue(key, value string) *Document {
	gap := d.width - len(key) - len(value)
	if gap < 1 {
		gap = 1
	}
	return d.Text(key + strings.Repeat(" ", gap) + value)
}

// ItemLine emits one billed line: "<qty>x <name>" with the line total flush
// right. Long test names are truncated so the amount column never wraps on
// narrow paper.
func (d *Document) ItemLine(qty int, name, total string) *Document {
	prefix := fmt.Sprintf("%dx %s", qty, name)
	maxPrefix := d.width - len(total) - 1
	if len(prefix) > maxPrefix && maxPrefix > 3 {
		prefix = prefix[:maxPrefix-1] + "."
	}
	gap := d.width - len(prefix) - len(total)
	if gap < 1 {
		gap = 1
	}
	return d.Text(prefix + strings.Repeat(" ", gap) + total)
}

// LineFeed advances the paper one line.
func (d *Document) LineFeed() *Document {
	d.out.WriteByte(LF)
	return d
}

// FeedLines advances the paper n lines, used to clear the tear bar before
// cutting.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.out.WriteByte(LF)
	}
	return d
}

// Cut emits a full paper cut.
func (d *Document) Cut() *Document {
	d.out.Write([]byte{GS, 'V', 0x00})
	return d
}

// PartialCut emits a partial cut, leaving the receipt hanging for the
// cashier to tear off.
func (d *Document) PartialCut() *Document {
	d.out.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the finished job for Printer.Print.
func (d *Document) Bytes() []byte {
	return d.out.Bytes()
}

// Reset discards the buffered job and starts over.
func (d *Document) Reset() *Document {
	d.out.Reset()
	return d.Init()
}
