package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		amount float64
		want   int64
	}{
		{0, 0},
		{8000.50, 800050},
		{19.99, 1999},
		{10.01, 1001},
		{0.005, 1},
		{-19.99, -1999},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ToMinorUnits(tt.amount), "%v", tt.amount)
	}
}
