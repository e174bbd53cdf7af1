package model

import (
	"testing"

	"github.com/paichan/paichan/pkg/errors"
)

func TestNewTimePeriod_Classify(t *testing.T) {
	// 2020/7/13 是周一，2020/7/18、7/19 是周末
	dates := []string{"2020/7/13", "2020/7/14", "2020/7/15", "2020/7/16", "2020/7/17", "2020/7/18", "2020/7/19"}

	tp, err := NewTimePeriod(dates)
	if err != nil {
		t.Fatalf("NewTimePeriod() 失败: %v", err)
	}

	weekdays := tp.Weekdays()
	weekends := tp.Weekends()

	if len(weekdays) != 5 {
		t.Errorf("工作日数量 = %d, 期望 5", len(weekdays))
	}
	if len(weekends) != 2 {
		t.Errorf("周末数量 = %d, 期望 2", len(weekends))
	}
	if weekends[0] != "2020/7/18" || weekends[1] != "2020/7/19" {
		t.Errorf("周末日期 = %v, 期望 [2020/7/18 2020/7/19]", weekends)
	}

	// 子序列保持相对顺序
	for i := 1; i < len(weekdays); i++ {
		if tp.Index(weekdays[i-1]) >= tp.Index(weekdays[i]) {
			t.Errorf("工作日顺序错乱: %s 在 %s 之后", weekdays[i-1], weekdays[i])
		}
	}
}

func TestNewTimePeriod_InvalidDate(t *testing.T) {
	tests := []struct {
		name  string
		dates []string
	}{
		{"非日期字符串", []string{"abc"}},
		{"错误分隔符", []string{"2020-07-13"}},
		{"非法月份", []string{"2020/13/1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTimePeriod(tt.dates)
			if err == nil {
				t.Fatal("期望返回错误")
			}
			if !errors.Is(err, errors.CodeInvalidDateFormat) {
				t.Errorf("错误码 = %v, 期望 INVALID_DATE_FORMAT", errors.GetCode(err))
			}
		})
	}
}

func TestNewTimePeriod_DuplicateDate(t *testing.T) {
	_, err := NewTimePeriod([]string{"2020/7/13", "2020/7/13"})
	if err == nil {
		t.Fatal("重复日期应该被拒绝")
	}
	if !errors.Is(err, errors.CodeInvalidInput) {
		t.Errorf("错误码 = %v, 期望 INVALID_INPUT", errors.GetCode(err))
	}
}

func TestTimePeriod_Prefix(t *testing.T) {
	tp, err := NewTimePeriod([]string{"2020/7/13", "2020/7/14", "2020/7/15"})
	if err != nil {
		t.Fatalf("NewTimePeriod() 失败: %v", err)
	}

	tests := []struct {
		k        int
		expected int
	}{
		{0, 1},
		{1, 2},
		{2, 3},
		{5, 3}, // 越界截断
	}

	for _, tt := range tests {
		if got := len(tp.Prefix(tt.k)); got != tt.expected {
			t.Errorf("Prefix(%d) 长度 = %d, 期望 %d", tt.k, got, tt.expected)
		}
	}

	if tp.Prefix(-1) != nil {
		t.Error("Prefix(-1) 应该返回 nil")
	}
}

func TestSpanCalendar(t *testing.T) {
	dates, err := SpanCalendar("2020/7/30", "2020/8/2")
	if err != nil {
		t.Fatalf("SpanCalendar() 失败: %v", err)
	}

	expected := []string{"2020/7/30", "2020/7/31", "2020/8/1", "2020/8/2"}
	if len(dates) != len(expected) {
		t.Fatalf("日历长度 = %d, 期望 %d", len(dates), len(expected))
	}
	for i, d := range expected {
		if dates[i] != d {
			t.Errorf("dates[%d] = %s, 期望 %s", i, dates[i], d)
		}
	}

	if _, err := SpanCalendar("2020/8/2", "2020/7/30"); err == nil {
		t.Error("结束早于开始应该返回错误")
	}
}
