// Package model 定义排产引擎的核心数据模型
package model

import (
	"time"

	"github.com/paichan/paichan/pkg/errors"
)

// DateLayout 日期格式 Y/M/D（月日不补零，与需求日历一致）
const DateLayout = "2006/1/2"

// DayKind 日期类别
type DayKind int

const (
	Weekday DayKind = iota // 工作日
	Weekend                // 周末
)

// TimePeriod 排产时间轴：有序且不可变的日期序列
// 创建后不再修改，所有组件共享同一实例
type TimePeriod struct {
	dates    []string
	kinds    []DayKind
	position map[string]int
}

// ParseDate 解析 Y/M/D 日期
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, errors.InvalidDateFormat(date).WithCause(err)
	}
	return t, nil
}

// NewTimePeriod 解析日期序列并按工作日/周末分类
// 日期格式错误返回 INVALID_DATE_FORMAT，重复日期返回 INVALID_INPUT
func NewTimePeriod(dates []string) (*TimePeriod, error) {
	tp := &TimePeriod{
		dates:    make([]string, 0, len(dates)),
		kinds:    make([]DayKind, 0, len(dates)),
		position: make(map[string]int, len(dates)),
	}

	for _, d := range dates {
		t, err := ParseDate(d)
		if err != nil {
			return nil, err
		}
		if _, ok := tp.position[d]; ok {
			return nil, errors.New(errors.CodeInvalidInput, "时间轴存在重复日期").WithField("date", d)
		}

		kind := Weekday
		if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
			kind = Weekend
		}

		tp.position[d] = len(tp.dates)
		tp.dates = append(tp.dates, d)
		tp.kinds = append(tp.kinds, kind)
	}

	return tp, nil
}

// Len 返回时间轴长度
func (tp *TimePeriod) Len() int {
	return len(tp.dates)
}

// Dates 返回全部日期（只读副本）
func (tp *TimePeriod) Dates() []string {
	out := make([]string, len(tp.dates))
	copy(out, tp.dates)
	return out
}

// Date 返回第 i 个日期
func (tp *TimePeriod) Date(i int) string {
	return tp.dates[i]
}

// Index 返回日期在时间轴上的位置，不存在返回 -1
func (tp *TimePeriod) Index(date string) int {
	if i, ok := tp.position[date]; ok {
		return i
	}
	return -1
}

// Kind 返回日期类别
func (tp *TimePeriod) Kind(date string) DayKind {
	if i, ok := tp.position[date]; ok {
		return tp.kinds[i]
	}
	return Weekday
}

// IsWeekend 检查日期是否为周末
func (tp *TimePeriod) IsWeekend(date string) bool {
	return tp.Kind(date) == Weekend
}

// Weekdays 返回工作日子序列（保持原有顺序）
func (tp *TimePeriod) Weekdays() []string {
	var out []string
	for i, d := range tp.dates {
		if tp.kinds[i] == Weekday {
			out = append(out, d)
		}
	}
	return out
}

// Weekends 返回周末子序列（保持原有顺序）
func (tp *TimePeriod) Weekends() []string {
	var out []string
	for i, d := range tp.dates {
		if tp.kinds[i] == Weekend {
			out = append(out, d)
		}
	}
	return out
}

// Prefix 返回前 k+1 天（timeline[0..k]），用于累计缺口计算
func (tp *TimePeriod) Prefix(k int) []string {
	if k < 0 {
		return nil
	}
	if k >= len(tp.dates) {
		k = len(tp.dates) - 1
	}
	return tp.dates[:k+1]
}

// SpanCalendar 由起止日期生成连续日历（含两端），原始需求只给交货日期时使用
func SpanCalendar(start, end string) ([]string, error) {
	s, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return nil, err
	}
	if e.Before(s) {
		return nil, errors.New(errors.CodeInvalidInput, "结束日期早于开始日期")
	}

	var dates []string
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates, nil
}
