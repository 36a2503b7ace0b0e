package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHumanNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"1.2K", 1200, true},
		{"3.5M", 3500000, true},
		{"12.3к", 12300, true},
		{"45000", 45000, true},
		{"1,2 млн", 1200000, true},
		{"12,3 тыс.", 12300, true},
		{"2 млрд", 2000000000, true},
		{"1,234", 1234, true},
		{"1 234 567", 1234567, true},
		{"1 234", 1234, true},
		{"10K+", 10000, true},
		{"999", 999, true},
		{"0", 0, true},
		{"", 0, false},
		{"likes", 0, false},
		{"12 parsecs", 0, false},
		{"-5", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseHumanNumber(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
