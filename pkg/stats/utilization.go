package stats

import (
	"sort"

	"github.com/paichan/paichan/pkg/model"
	"github.com/paichan/paichan/pkg/planner"
)

// LineUtilization 单条产线的利用率指标
type LineUtilization struct {
	Line          string  `json:"line"`
	DaysOpen      int     `json:"days_open"`
	DaysTotal     int     `json:"days_total"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	TotalHours    float64 `json:"total_hours"`
	CapacityHours float64 `json:"capacity_hours"` // 全开线时的工时上限
	LoadPct       float64 `json:"load_pct"`       // total / capacity (%)
	OvertimePct   float64 `json:"overtime_pct"`   // ot / total (%)
}

// UtilizationReport 利用率报表
type UtilizationReport struct {
	Lines      []LineUtilization `json:"lines"`
	TotalHours float64           `json:"total_hours"`
	AvgLoadPct float64           `json:"avg_load_pct"`
}

// UtilizationAnalyzer 利用率分析器
type UtilizationAnalyzer struct {
	lines []model.Line
}

// NewUtilizationAnalyzer 创建利用率分析器
func NewUtilizationAnalyzer(lines []model.Line) *UtilizationAnalyzer {
	return &UtilizationAnalyzer{lines: lines}
}

// Analyze 从排产计划汇总产线利用率
func (a *UtilizationAnalyzer) Analyze(sched *planner.Schedule) *UtilizationReport {
	report := &UtilizationReport{}
	if sched == nil {
		return report
	}

	days := len(sched.Timeline)
	byLine := make(map[string]*LineUtilization, len(a.lines))
	for i := range a.lines {
		l := &a.lines[i]
		byLine[l.Name] = &LineUtilization{
			Line:          l.Name,
			DaysTotal:     days,
			CapacityHours: l.MaxHours() * float64(days),
		}
	}

	for key, cell := range sched.Cells {
		u, ok := byLine[key.Line]
		if !ok {
			continue
		}
		if cell.Open {
			u.DaysOpen++
		}
		u.RegularHours += cell.RegularHours
		u.OvertimeHours += cell.OvertimeHours
		u.TotalHours += cell.TotalHours
		report.TotalHours += cell.TotalHours
	}

	for _, u := range byLine {
		if u.CapacityHours > 0 {
			u.LoadPct = u.TotalHours / u.CapacityHours * 100
		}
		if u.TotalHours > 0 {
			u.OvertimePct = u.OvertimeHours / u.TotalHours * 100
		}
		report.Lines = append(report.Lines, *u)
	}

	sort.Slice(report.Lines, func(i, j int) bool {
		return report.Lines[i].Line < report.Lines[j].Line
	})

	if len(report.Lines) > 0 {
		var sum float64
		for _, u := range report.Lines {
			sum += u.LoadPct
		}
		report.AvgLoadPct = sum / float64(len(report.Lines))
	}

	return report
}
