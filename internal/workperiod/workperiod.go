// Package workperiod 解析工作时间表达式，例如 "1-5,09:00-18:00;6-7,10:00-16:00"。
// 星期从 1（周一）到 7（周日），时间精确到分钟，允许以 24:00 结束。
package workperiod

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-errors/errors"
)

// ErrInvalidPeriod 工作时间表达式不合法
var ErrInvalidPeriod = errors.Errorf("invalid work period")

const secondsPerDay = 24 * 60 * 60

// Period 单个工作时间段
type Period struct {
	DayFrom int // 起始星期（1-7）
	DayTill int // 结束星期（1-7）
	From    int // 一天中的起始秒数
	Till    int // 一天中的结束秒数
}

// Schedule 工作时间表
type Schedule struct {
	Periods []Period
}

// Parse 解析工作时间表达式
func Parse(expr string) (*Schedule, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, errors.WrapPrefix(ErrInvalidPeriod, "empty expression", 0)
	}

	schedule := &Schedule{}
	for _, part := range strings.Split(strings.TrimRight(expr, ";"), ";") {
		period, err := parsePeriod(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		schedule.Periods = append(schedule.Periods, period)
	}
	return schedule, nil
}

func parsePeriod(s string) (Period, error) {
	days, hours, ok := strings.Cut(s, ",")
	if !ok {
		return Period{}, invalid(s)
	}

	var p Period
	var err error
	dayFrom, dayTill, hasRange := strings.Cut(strings.TrimSpace(days), "-")
	if p.DayFrom, err = parseDay(dayFrom); err != nil {
		return Period{}, invalid(s)
	}
	p.DayTill = p.DayFrom
	if hasRange {
		if p.DayTill, err = parseDay(dayTill); err != nil {
			return Period{}, invalid(s)
		}
	}
	if p.DayFrom > p.DayTill {
		return Period{}, invalid(s)
	}

	timeFrom, timeTill, ok := strings.Cut(strings.TrimSpace(hours), "-")
	if !ok {
		return Period{}, invalid(s)
	}
	if p.From, err = parseClock(timeFrom); err != nil {
		return Period{}, invalid(s)
	}
	if p.Till, err = parseClock(timeTill); err != nil {
		return Period{}, invalid(s)
	}
	if p.From >= p.Till {
		return Period{}, invalid(s)
	}
	return p, nil
}

func parseDay(s string) (int, error) {
	day, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || day < 1 || day > 7 {
		return 0, ErrInvalidPeriod
	}
	return day, nil
}

// parseClock 解析 hh:mm，返回一天中的秒数
func parseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(mm) != 2 {
		return 0, ErrInvalidPeriod
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 24 {
		return 0, ErrInvalidPeriod
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 || (hour == 24 && minute != 0) {
		return 0, ErrInvalidPeriod
	}
	return hour*3600 + minute*60, nil
}

func invalid(s string) error {
	return errors.WrapPrefix(ErrInvalidPeriod, strconv.Quote(s), 1)
}

// FindStart 查找不早于 t 的第一个工作时刻，一周内找不到则返回 false
func (s *Schedule) FindStart(t int64, loc *time.Location) (int64, bool) {
	day := time.Unix(t, 0).In(loc)
	y, m, d := day.Date()

	for offset := 0; offset <= 7; offset++ {
		weekday := isoWeekday(time.Date(y, m, d+offset, 0, 0, 0, 0, loc))
		found := false
		var best int64
		for _, p := range s.Periods {
			if weekday < p.DayFrom || weekday > p.DayTill {
				continue
			}
			start := time.Date(y, m, d+offset, 0, 0, p.From, 0, loc).Unix()
			end := time.Date(y, m, d+offset, 0, 0, p.Till, 0, loc).Unix()
			if end <= t {
				continue
			}
			start = max(start, t)
			if !found || start < best {
				best = start
				found = true
			}
		}
		if found {
			return best, true
		}
	}
	return 0, false
}

// FindEnd 从 start 开始沿连续的工作时间向后查找结束时刻，不超过 limit
func (s *Schedule) FindEnd(start, limit int64, loc *time.Location) int64 {
	cur := start
	// 每轮至少跨过一个时间段
	days := int((limit-start)/secondsPerDay) + 2
	for i := 0; i < days*(len(s.Periods)+1); i++ {
		if cur >= limit {
			return limit
		}
		next := s.coverEnd(cur, loc)
		if next <= cur {
			break
		}
		cur = next
	}
	return min(cur, limit)
}

// coverEnd 返回包含 t 的工作时间段的最晚结束时刻
func (s *Schedule) coverEnd(t int64, loc *time.Location) int64 {
	day := time.Unix(t, 0).In(loc)
	y, m, d := day.Date()
	weekday := isoWeekday(day)

	best := t
	for _, p := range s.Periods {
		if weekday < p.DayFrom || weekday > p.DayTill {
			continue
		}
		start := time.Date(y, m, d, 0, 0, p.From, 0, loc).Unix()
		end := time.Date(y, m, d, 0, 0, p.Till, 0, loc).Unix()
		if start <= t && t < end && end > best {
			best = end
		}
	}
	return best
}

func isoWeekday(t time.Time) int {
	if t.Weekday() == time.Sunday {
		return 7
	}
	return int(t.Weekday())
}
