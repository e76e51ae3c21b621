package metric

import (
	"cmp"
	"math"
	"slices"

	"github.com/dushixiang/svggraph/internal/graph"
)

// DataPoint 统一的指标数据点结构
type DataPoint struct {
	Timestamp int64   `json:"timestamp" yaml:"timestamp"` // 毫秒时间戳
	Value     float64 `json:"value" yaml:"value"`
}

// Series 原始指标系列（支持多系列，如多网卡、多传感器）
type Series struct {
	Name   string            `json:"name" yaml:"name"`                         // 系列名称
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"` // 额外标签
	Data   []DataPoint       `json:"data" yaml:"data"`                         // 数据点列表
}

// AlignTimeRangeToBucket 将时间范围对齐到桶边界，确保不同时间框架的桶数一致
func AlignTimeRangeToBucket(start, end int64, bucketMs int64) (int64, int64) {
	if bucketMs <= 0 {
		return start, end
	}
	alignedStart := floorDiv(start, bucketMs) * bucketMs
	endBucket := floorDiv(end-1, bucketMs) * bucketMs
	alignedEnd := endBucket + bucketMs - 1
	if alignedEnd < alignedStart {
		alignedEnd = alignedStart
	}
	return alignedStart, alignedEnd
}

// AutoBucket 按图形宽度选择桶大小（毫秒），使每个像素大约对应一个桶，最小 1 秒
func AutoBucket(start, end int64, width int) int64 {
	if width <= 0 || end <= start {
		return 1000
	}
	bucket := int64(math.Ceil(float64(end-start) / float64(width)))
	// 向上取整到整秒
	bucket = (bucket + 999) / 1000 * 1000
	return max(bucket, 1000)
}

// Aggregate 将 [start, end] 内的原始数据点按桶聚合为 min/avg/max 样本。
// 没有数据的桶不产生样本，样本时间为桶起点（秒）。
func Aggregate(series Series, start, end, bucketMs int64) []graph.Sample {
	if bucketMs <= 0 {
		bucketMs = 1000
	}

	points := slices.Clone(series.Data)
	slices.SortStableFunc(points, func(a, b DataPoint) int {
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})

	var samples []graph.Sample
	var count int
	var sum float64
	current := int64(math.MinInt64)

	flush := func() {
		if count == 0 {
			return
		}
		samples[len(samples)-1].Avg = sum / float64(count)
		count, sum = 0, 0
	}

	for _, p := range points {
		if p.Timestamp < start || p.Timestamp > end || math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			continue
		}
		bucket := floorDiv(p.Timestamp, bucketMs) * bucketMs
		if bucket != current {
			flush()
			current = bucket
			samples = append(samples, graph.Sample{
				Clock: floorDiv(bucket, 1000),
				Min:   p.Value,
				Max:   p.Value,
			})
		}
		last := &samples[len(samples)-1]
		last.Min = math.Min(last.Min, p.Value)
		last.Max = math.Max(last.Max, p.Value)
		sum += p.Value
		count++
	}
	flush()
	return samples
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
