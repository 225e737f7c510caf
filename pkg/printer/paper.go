package printer

import (
	"fmt"
	"sort"
)

// paperWidths maps supported thermal paper sizes to their character
// columns at the standard 12x24 font.
var paperWidths = map[string]int{
	"57mm":  32,
	"58mm":  32,
	"76mm":  42,
	"80mm":  48,
	"110mm": 64,
}

// Columns returns the character width for a paper size, e.g. "80mm" -> 48.
func Columns(paperSize string) (int, error) {
	w, ok := paperWidths[paperSize]
	if !ok {
		return 0, fmt.Errorf("printer: unsupported paper size %q (supported: %v)", paperSize, SupportedPaperSizes())
	}
	return w, nil
}

// SupportedPaperSizes returns the list of accepted paper sizes in a stable order.
func SupportedPaperSizes() []string {
	sizes := make([]string, 0, len(paperWidths))
	for s := range paperWidths {
		sizes = append(sizes, s)
	}
	sort.Strings(sizes)
	return sizes
}
