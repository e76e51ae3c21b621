package graph

import (
	"math"

	"github.com/dushixiang/svggraph/internal/units"
)

const (
	niceEpsilon = 1e-9
	maxTicks    = 1000
)

// ScaleRequest 刻度计算的输入
type ScaleRequest struct {
	Min       float64
	Max       float64
	Binary    bool
	CalcPower bool
	CalcMin   bool
	CalcMax   bool
	RowsMin   int
	RowsMax   int
}

// Scale 刻度计算结果
type Scale struct {
	Min      float64
	Max      float64
	Interval float64
	Power    int
	Rows     int
}

// ValueTick Y 轴刻度；RelPos 为自底向上的相对位置（0-1）
type ValueTick struct {
	Value  float64
	RelPos float64
	Label  string
}

// RowsRange 根据画布高度计算可选的网格行数范围
func RowsRange(canvasHeight, cellHeightMin int) (int, int) {
	if cellHeightMin <= 0 {
		cellHeightMin = 1
	}
	h := float64(canvasHeight)
	c := float64(cellHeightMin)
	rowsMin := int(math.Max(1, math.Floor(h/c/1.5)))
	rowsMax := int(math.Max(1, math.Floor(h/c)))
	return rowsMin, rowsMax
}

// CalculateScale 选择合适的刻度间隔与坐标轴范围
func CalculateScale(r ScaleRequest) Scale {
	rowsMin := max(1, r.RowsMin)
	rowsMax := max(rowsMin, r.RowsMax)

	lo, hi := r.Min, r.Max
	if math.IsNaN(lo) || math.IsInf(lo, 0) {
		lo = 0
	}
	if math.IsNaN(hi) || math.IsInf(hi, 0) {
		hi = 1
	}
	lo, hi = fixDegenerate(lo, hi, r.CalcMin, r.CalcMax)

	var best Scale
	bestScore := -1.0
	for rows := rowsMin; rows <= rowsMax; rows++ {
		interval := niceInterval(spanOver(lo, hi, float64(rows)), r.Binary)

		a, b, count := fitScale(lo, hi, interval, r.CalcMin, r.CalcMax)
		for attempt := 0; count > rows && attempt < 16; attempt++ {
			interval = niceInterval(interval*(1+1e-6), r.Binary)
			a, b, count = fitScale(lo, hi, interval, r.CalcMin, r.CalcMax)
		}
		// 行数固定时（与另一侧对齐）放弃对齐到间隔的边界
		if count > rows && rowsMin == rowsMax {
			a, b, interval = fixedRows(lo, hi, rows, r.CalcMin, r.CalcMax, r.Binary)
			count = rows
		}
		if count > rowsMax {
			continue
		}
		if count < rowsMin {
			switch {
			case r.CalcMax:
				b = a + float64(rowsMin)*interval
				count = rowsMin
			case r.CalcMin:
				a = b - float64(rowsMin)*interval
				count = rowsMin
			}
		}

		score := coverage(lo, hi, a, b)
		if score > bestScore+niceEpsilon || (math.Abs(score-bestScore) <= niceEpsilon && count > best.Rows) {
			bestScore = score
			best = Scale{Min: a, Max: b, Interval: interval, Rows: count}
		}
	}

	if bestScore < 0 {
		interval := niceInterval(spanOver(lo, hi, float64(rowsMax)), r.Binary)
		a, b, count := fitScale(lo, hi, interval, r.CalcMin, r.CalcMax)
		best = Scale{Min: a, Max: b, Interval: interval, Rows: count}
	}

	if r.CalcPower {
		best.Power = units.Power(math.Max(math.Abs(best.Min), math.Abs(best.Max)), r.Binary)
	}
	return best
}

// fixDegenerate 保证 lo < hi
func fixDegenerate(lo, hi float64, calcMin, calcMax bool) (float64, float64) {
	if lo < hi {
		return lo, hi
	}
	switch {
	case calcMin && calcMax:
		switch {
		case hi > 0:
			lo = 0
		case lo < 0:
			hi = 0
		default:
			hi = 1
		}
	case calcMin:
		if hi > 0 {
			lo = 0
		} else {
			lo = hi - math.Max(1, math.Abs(hi))
		}
	case calcMax:
		if lo < 0 {
			hi = 0
		} else {
			hi = lo + math.Max(1, math.Abs(lo))
		}
	default:
		hi = lo + math.Max(1, math.Abs(lo)*0.1)
	}
	return lo, hi
}

// fitScale 按间隔对齐自动计算的边界，返回范围和行数
func fitScale(lo, hi, interval float64, calcMin, calcMax bool) (float64, float64, int) {
	a, b := lo, hi
	if calcMin {
		a = math.Floor(lo/interval+niceEpsilon) * interval
	}
	if calcMax {
		b = math.Ceil(hi/interval-niceEpsilon) * interval
	}
	count := int(math.Ceil(spanOver(a, b, interval) - niceEpsilon))
	return a, b, max(1, count)
}

// fixedRows 恰好 rows 行覆盖 [lo, hi]，自动计算的一端不再对齐到间隔
func fixedRows(lo, hi float64, rows int, calcMin, calcMax, binary bool) (float64, float64, float64) {
	n := float64(rows)
	if !calcMin && !calcMax {
		return lo, hi, spanOver(lo, hi, n)
	}
	interval := niceInterval(spanOver(lo, hi, n), binary)
	if calcMax {
		return lo, lo + n*interval, interval
	}
	return hi - n*interval, hi, interval
}

// coverage 数据范围占坐标轴范围的比例
func coverage(lo, hi, a, b float64) float64 {
	axis := b/10 - a/10
	if axis <= 0 {
		return 0
	}
	return (hi/10 - lo/10) / axis
}

// spanOver 计算 (hi-lo)/d，差值溢出时先将两端缩小 10 倍
func spanOver(lo, hi, d float64) float64 {
	span := hi - lo
	if math.IsInf(span, 0) {
		return (hi/10 - lo/10) / d * 10
	}
	return span / d
}

// niceInterval 返回不小于 x 的"整齐"间隔：1/2/5 × 10^k，二进制单位以 1024^p 为基
func niceInterval(x float64, binary bool) float64 {
	if x <= 0 || math.IsNaN(x) {
		return 1
	}
	if math.IsInf(x, 0) {
		return math.MaxFloat64
	}
	if binary && x >= 1 {
		unit := 1.0
		for x/unit >= 1024 {
			unit *= 1024
		}
		n := niceDecimal(x / unit)
		if n >= 1024 {
			return unit * 1024
		}
		return unit * n
	}
	n := niceDecimal(x)
	if math.IsInf(n, 0) {
		return math.MaxFloat64
	}
	return n
}

func niceDecimal(x float64) float64 {
	e := math.Floor(math.Log10(x))
	p := math.Pow(10, e)
	f := x / p
	switch {
	case f <= 1+niceEpsilon:
		return p
	case f <= 2+niceEpsilon:
		return 2 * p
	case f <= 5+niceEpsilon:
		return 5 * p
	default:
		return 10 * p
	}
}

// ValueTicks 生成 Y 轴刻度：两端的极值以及其间按间隔对齐的值
func ValueTicks(lo, hi, interval float64, unit string, power int, binary bool) []ValueTick {
	label := func(v float64) string {
		return units.Format(v, unit, power, binary, interval)
	}
	if !(hi > lo) || !(interval > 0) {
		return []ValueTick{{Value: lo, RelPos: 0, Label: label(lo)}}
	}

	ticks := []ValueTick{{Value: lo, RelPos: 0, Label: label(lo)}}
	first := math.Ceil(lo/interval-niceEpsilon) * interval
	half := interval / 2
	for i := 0; i < maxTicks; i++ {
		v := first + float64(i)*interval
		if hi-v < half {
			break
		}
		if v-lo < half {
			continue
		}
		ticks = append(ticks, ValueTick{Value: v, RelPos: relative(lo, hi, v), Label: label(v)})
	}
	return append(ticks, ValueTick{Value: hi, RelPos: 1, Label: label(hi)})
}

// relative 返回 v 在 [lo, hi] 中的相对位置
func relative(lo, hi, v float64) float64 {
	span := hi - lo
	if math.IsInf(span, 0) {
		return (v/10 - lo/10) / (hi/10 - lo/10)
	}
	return (v - lo) / span
}
