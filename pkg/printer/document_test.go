package printer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumns(t *testing.T) {
	tests := []struct {
		size  string
		width int
	}{
		{"57mm", 32},
		{"58mm", 32},
		{"76mm", 42},
		{"80mm", 48},
		{"110mm", 64},
	}

	for _, tt := range tests {
		w, err := Columns(tt.size)
		require.NoError(t, err, tt.size)
		assert.Equal(t, tt.width, w, tt.size)
	}

	_, err := Columns("85mm")
	assert.Error(t, err)
}

func TestTextDocumentKeyValueAlignment(t *testing.T) {
	d := NewTextDocument(32)
	d.KeyValue("Total", "8,000.00")

	line := strings.TrimRight(d.String(), "\n")
	assert.Len(t, line, 32)
	assert.True(t, strings.HasPrefix(line, "Total"))
	assert.True(t, strings.HasSuffix(line, "8,000.00"))
}

func TestTextDocumentItemLineTruncatesLongNames(t *testing.T) {
	d := NewTextDocument(32)
	d.ItemLine(1, "Comprehensive Metabolic Panel With Extras", "12,500.00")

	line := strings.TrimRight(d.String(), "\n")
	assert.LessOrEqual(t, len(line), 32)
	assert.True(t, strings.HasSuffix(line, "12,500.00"))
}

func TestTextDocumentCenterLine(t *testing.T) {
	d := NewTextDocument(48)
	d.CenterLine("MediLabs")

	line := strings.TrimRight(d.String(), "\n")
	pad := (48 - len("MediLabs")) / 2
	assert.Equal(t, strings.Repeat(" ", pad)+"MediLabs", line)
}

func TestTextDocumentWidthMattersForSeparator(t *testing.T) {
	for _, width := range []int{32, 42, 48, 64} {
		d := NewTextDocument(width)
		d.Separator('-')
		line := strings.TrimRight(d.String(), "\n")
		assert.Len(t, line, width)
	}
}

func TestDocumentStartsWithInit(t *testing.T) {
	d := NewDocument(48)
	assert.True(t, bytes.HasPrefix(d.Bytes(), []byte{ESC, '@'}))
}

func TestDocumentItemLineKeepsAmountColumn(t *testing.T) {
	d := NewDocument(32)
	d.SetAlign(AlignLeft)
	before := len(d.Bytes())
	d.ItemLine(1, "Comprehensive Metabolic Panel With Extras", "12,500.00")

	line := strings.TrimRight(string(d.Bytes()[before:]), "\n")
	assert.LessOrEqual(t, len(line), 32)
	assert.True(t, strings.HasSuffix(line, "12,500.00"))
}

func TestDocumentCutAppendsCommand(t *testing.T) {
	d := NewDocument(32)
	d.Text("hello").Cut()
	assert.True(t, bytes.HasSuffix(d.Bytes(), []byte{GS, 'V', 0x00}))
}

func TestNewPrinterFromConfig(t *testing.T) {
	p, err := NewPrinterFromConfig("none", "", "")
	require.NoError(t, err)
	assert.NoError(t, p.Print([]byte("x")))
	assert.False(t, p.IsConnected())

	_, err = NewPrinterFromConfig("usb", "", "")
	assert.Error(t, err)

	_, err = NewPrinterFromConfig("laser", "", "")
	assert.Error(t, err)
}
