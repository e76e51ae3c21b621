package units

import (
	"math"
	"strconv"
	"strings"
)

// 数量级前缀，下标即为 power
var prefixes = []string{"", "K", "M", "G", "T", "P", "E", "Z", "Y"}

const (
	maxDecimals       = 4
	significantDigits = 4
)

// IsBinary 判断单位是否按 1024 进制换算
func IsBinary(units string) bool {
	return units == "B" || units == "Bps"
}

// CalcPower 单位以 ! 开头时不做数量级换算
func CalcPower(units string) bool {
	return units == "" || units[0] != '!'
}

// Display 返回用于展示的单位（去掉禁止换算标记）
func Display(units string) string {
	return strings.TrimPrefix(units, "!")
}

// Base 数量级底数
func Base(binary bool) float64 {
	if binary {
		return 1024
	}
	return 1000
}

// Power 计算数值的数量级
func Power(value float64, binary bool) int {
	v := math.Abs(value)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	base := Base(binary)
	power := 0
	for v >= base && power < len(prefixes)-1 {
		v /= base
		power++
	}
	return power
}

// Format 按指定数量级格式化坐标轴刻度值，小数位数由刻度间隔决定
func Format(value float64, units string, power int, binary bool, step float64) string {
	power = clampPower(power)
	divisor := math.Pow(Base(binary), float64(power))
	scaled := value / divisor

	num := "0"
	if scaled != 0 {
		num = strconv.FormatFloat(scaled, 'f', decimalsFor(step/divisor), 64)
		num = normalizeZero(num)
	}

	return join(num, prefixes[power]+Display(units))
}

// Convert 自动计算数量级，用于数据点的提示标签
func Convert(value float64, units string) string {
	binary := IsBinary(units)
	power := 0
	if units != "" && CalcPower(units) {
		power = Power(value, binary)
	}
	scaled := value / math.Pow(Base(binary), float64(power))

	num := "0"
	if scaled != 0 && !math.IsNaN(scaled) {
		mag := int(math.Floor(math.Log10(math.Abs(scaled))))
		decimals := significantDigits - 1 - mag
		if decimals < 0 {
			decimals = 0
		}
		if decimals > 6 {
			decimals = 6
		}
		num = strconv.FormatFloat(scaled, 'f', decimals, 64)
		if strings.Contains(num, ".") {
			num = strings.TrimRight(strings.TrimRight(num, "0"), ".")
		}
		num = normalizeZero(num)
	}

	return join(num, prefixes[power]+Display(units))
}

// decimalsFor 找到能完整表示刻度间隔的最少小数位
func decimalsFor(step float64) int {
	if step <= 0 || math.IsInf(step, 0) || math.IsNaN(step) {
		return 0
	}
	for d := 0; d < maxDecimals; d++ {
		scaled := step * math.Pow(10, float64(d))
		if math.Abs(scaled-math.Round(scaled)) < 1e-6*math.Max(1, scaled) {
			return d
		}
	}
	return maxDecimals
}

func clampPower(power int) int {
	if power < 0 {
		return 0
	}
	if power >= len(prefixes) {
		return len(prefixes) - 1
	}
	return power
}

func normalizeZero(num string) string {
	if strings.Trim(num, "-0.") == "" {
		return "0"
	}
	return num
}

func join(num, suffix string) string {
	if suffix == "" {
		return num
	}
	return num + " " + suffix
}
