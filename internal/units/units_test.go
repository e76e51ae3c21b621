package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPower(t *testing.T) {
	assert.Equal(t, 0, Power(999, false))
	assert.Equal(t, 1, Power(1000, false))
	assert.Equal(t, 0, Power(1000, true))
	assert.Equal(t, 1, Power(1024, true))
	assert.Equal(t, 2, Power(-2_500_000, false))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		units  string
		power  int
		binary bool
		step   float64
		want   string
	}{
		{"无单位整数", 20, "", 0, false, 10, "20"},
		{"零值", 0, "%", 0, false, 10, "0 %"},
		{"小数刻度", 0.5, "", 0, false, 0.1, "0.5"},
		{"千进制前缀", 1500, "bps", 1, false, 500, "1.5 Kbps"},
		{"二进制前缀", 2048, "B", 1, true, 1024, "2 KB"},
		{"禁止换算", 20, "!rpm", 0, false, 10, "20 rpm"},
		{"四分之一刻度", 0.25, "", 0, false, 0.25, "0.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.value, tt.units, tt.power, tt.binary, tt.step))
		})
	}
}

func TestConvert(t *testing.T) {
	assert.Equal(t, "1.5 KB", Convert(1536, "B"))
	assert.Equal(t, "12.35 ms", Convert(12.3456, "ms"))
	assert.Equal(t, "1234", Convert(1234, ""))
	assert.Equal(t, "0", Convert(0, ""))
	assert.Equal(t, "2500 rpm", Convert(2500, "!rpm"))
}

func TestIsBinaryAndCalcPower(t *testing.T) {
	assert.True(t, IsBinary("B"))
	assert.True(t, IsBinary("Bps"))
	assert.False(t, IsBinary("bps"))
	assert.True(t, CalcPower(""))
	assert.True(t, CalcPower("B"))
	assert.False(t, CalcPower("!B"))
}
