package graph

import (
	"cmp"
	"math"
	"slices"
)

// FillGaps 按缺失数据策略在异常大的间隔中插入补充样本。
// 间隔阈值为平均间隔的 3 倍；返回合并后按时间排序的样本以及是否发生了插入。
// 输入切片不会被修改。
func FillGaps(samples []Sample, policy MissingData) ([]Sample, bool) {
	if policy == MissingConnected || len(samples) < 2 {
		return samples, false
	}

	var total int64
	for i := 1; i < len(samples); i++ {
		total += samples[i].Clock - samples[i-1].Clock
	}
	average := float64(total) / float64(len(samples)-1)
	threshold := average * 3
	if threshold <= 0 {
		return samples, false
	}

	var missing []Sample
	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1], samples[i]
		delta := cur.Clock - prev.Clock
		if float64(delta) <= threshold {
			continue
		}
		gap := int64(math.Floor(float64(delta) / threshold))

		switch policy {
		case MissingNone:
			missing = append(missing, Sample{Clock: prev.Clock + gap, Null: true})
		case MissingZero:
			missing = append(missing, Sample{Clock: prev.Clock + gap})
			if cur.Clock-gap != prev.Clock+gap {
				missing = append(missing, Sample{Clock: cur.Clock - gap})
			}
		case MissingLastKnown:
			filler := prev
			filler.Clock = cur.Clock - gap
			missing = append(missing, filler)
		}
	}

	if len(missing) == 0 {
		return samples, false
	}

	out := make([]Sample, 0, len(samples)+len(missing))
	out = append(out, samples...)
	out = append(out, missing...)
	slices.SortStableFunc(out, func(a, b Sample) int {
		return cmp.Compare(a.Clock, b.Clock)
	})
	return out, true
}
