// Package stats 提供排产计划的统计分析功能
package stats

import (
	"github.com/shopspring/decimal"

	"github.com/paichan/paichan/pkg/model"
	"github.com/paichan/paichan/pkg/planner"
)

// CostBreakdown 成本分解报表
// 金额用 decimal 累加，避免逐单元浮点误差进入报表
type CostBreakdown struct {
	Total       decimal.Decimal            `json:"total"`        // 总人工成本
	WeekdayCost decimal.Decimal            `json:"weekday_cost"` // 工作日成本
	WeekendCost decimal.Decimal            `json:"weekend_cost"` // 周末成本
	ByLine      map[string]decimal.Decimal `json:"by_line"`      // 按产线
	ByDate      map[string]decimal.Decimal `json:"by_date"`      // 按日期
}

// CostAnalyzer 成本分析器
type CostAnalyzer struct {
	tp *model.TimePeriod
}

// NewCostAnalyzer 创建成本分析器
func NewCostAnalyzer(tp *model.TimePeriod) *CostAnalyzer {
	return &CostAnalyzer{tp: tp}
}

// Analyze 从排产计划汇总成本分解
func (a *CostAnalyzer) Analyze(sched *planner.Schedule) *CostBreakdown {
	bd := &CostBreakdown{
		ByLine: make(map[string]decimal.Decimal),
		ByDate: make(map[string]decimal.Decimal),
	}
	if sched == nil {
		return bd
	}

	for key, cell := range sched.Cells {
		cost := decimal.NewFromFloat(cell.LaborCost)

		bd.Total = bd.Total.Add(cost)
		bd.ByLine[key.Line] = bd.ByLine[key.Line].Add(cost)
		bd.ByDate[key.Date] = bd.ByDate[key.Date].Add(cost)

		if a.tp.IsWeekend(key.Date) {
			bd.WeekendCost = bd.WeekendCost.Add(cost)
		} else {
			bd.WeekdayCost = bd.WeekdayCost.Add(cost)
		}
	}

	return bd
}
