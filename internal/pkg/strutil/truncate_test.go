package strutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{name: "未超长", input: "Tin nhanh", max: 20, expected: "Tin nhanh"},
		{name: "首尾空白", input: "  Tin nhanh  ", max: 20, expected: "Tin nhanh"},
		{name: "词边界截断", input: "Giá xăng hôm nay tăng mạnh", max: 14, expected: "Giá xăng hôm..."},
		{name: "无空格硬截断", input: "abcdefghij", max: 4, expected: "abcd..."},
		{name: "多字节字符", input: "Đường phố Hà Nội", max: 6, expected: "Đường..."},
		{name: "零长度", input: "abc", max: 0, expected: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truncate(tt.input, tt.max))
		})
	}
}

func TestRuneLen(t *testing.T) {
	assert.Equal(t, 5, RuneLen("Đường"))
	assert.Equal(t, 0, RuneLen(""))
}
