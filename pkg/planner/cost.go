package planner

import (
	"fmt"

	"github.com/paichan/paichan/pkg/milp"
)

// buildCosts 人工成本分层
//
// 日历驱动的硬分界：
//	工作日 labor_cost = (reg_hours×正常费率 + ot_hours×加班费率) × line_open
//	周末   labor_cost = total_hours × 周末费率
//
// total_hours 已经嵌入 line_open，周末公式不再乘以开线变量
func (b *build) buildCosts() {
	opts := b.in.Options
	obj := b.m.Objective()

	for _, date := range b.tp.Dates() {
		weekend := opts.WeekendTier && b.tp.IsWeekend(date)

		for i := range b.in.Lines {
			line := &b.in.Lines[i]

			cost := b.vars.declare(b.m, VarKey{Role: RoleLaborCost, Date: date, Line: line.Name},
				milp.Continuous, 0, milp.Inf)

			if weekend {
				total := b.vars.get(VarKey{Role: RoleTotalHours, Date: date, Line: line.Name})
				b.m.AddEq(
					fmt.Sprintf("labor_cost_we[%s,%s]", date, line.Name),
					milp.NewExpr().Add(cost, 1).Add(total, -line.WeekendRate), 0)
			} else {
				reg := b.vars.get(VarKey{Role: RoleRegHours, Date: date, Line: line.Name})
				ot := b.vars.get(VarKey{Role: RoleOTHours, Date: date, Line: line.Name})
				open := b.vars.get(VarKey{Role: RoleLineOpen, Date: date, Line: line.Name})

				otLo, otHi := 0.0, 0.0
				if opts.Overtime {
					otLo, otHi = line.OvertimeHours.Min, line.OvertimeHours.Max
				}

				spend := milp.NewExpr().Add(reg, line.RegularRate).Add(ot, line.OvertimeRate)
				b.m.LinearizeProduct(
					fmt.Sprintf("labor_cost_wd[%s,%s]", date, line.Name),
					cost, open, spend,
					line.RegularRate*line.RegularHours.Min+line.OvertimeRate*otLo,
					line.RegularRate*line.RegularHours.Max+line.OvertimeRate*otHi,
				)
			}

			obj.Add(cost, 1)
		}
	}
}
