package planner

import (
	"fmt"

	"github.com/paichan/paichan/pkg/milp"
)

// buildGaps 累计缺口线性化
//
// 对每个跟踪实体（订单或单一聚合口径）和每个时间前缀 timeline[0..k]：
//
//	cum_gap = 前缀累计产出 - 前缀累计需求
//	abs_gap >= cum_gap, abs_gap >= -cum_gap
//	early = (cum_gap + abs_gap) / 2
//	late  = (abs_gap - cum_gap) / 2
//
// 恒等式 early - late = cum_gap 对任意求解器赋值成立
// early/late 按当日快照计价，不按持有天数积分（已知的建模简化，保留）
func (b *build) buildGaps() {
	opts := b.in.Options

	entities := []string{""}
	if opts.OrderLevel && opts.GapScope == GapPerOrder {
		entities = entities[:0]
		for i := range b.in.Orders {
			entities = append(entities, b.in.Orders[i].ID)
		}
	}

	obj := b.m.Objective()

	for _, entity := range entities {
		for k := 0; k < b.tp.Len(); k++ {
			date := b.tp.Date(k)

			cum := b.vars.declare(b.m, VarKey{Role: RoleCumGap, Date: date, Order: entity},
				milp.Continuous, -milp.Inf, milp.Inf)
			abs := b.vars.declare(b.m, VarKey{Role: RoleAbsGap, Date: date, Order: entity},
				milp.Continuous, 0, milp.Inf)
			early := b.vars.declare(b.m, VarKey{Role: RoleEarly, Date: date, Order: entity},
				milp.Continuous, 0, milp.Inf)
			late := b.vars.declare(b.m, VarKey{Role: RoleLate, Date: date, Order: entity},
				milp.Continuous, 0, milp.Inf)

			// cum_gap 钉在前缀累计产出与累计需求之差上
			e := milp.NewExpr().Add(cum, 1)
			required := b.prefixExpr(e, entity, k)
			b.m.AddEq(gapName("cum_gap", date, entity), e, -required)

			b.m.AddGE(gapName("abs_gap_pos", date, entity),
				milp.NewExpr().Add(abs, 1).Add(cum, -1), 0)
			b.m.AddGE(gapName("abs_gap_neg", date, entity),
				milp.NewExpr().Add(abs, 1).Add(cum, 1), 0)

			b.m.AddEq(gapName("early", date, entity),
				milp.NewExpr().Add(early, 2).Add(cum, -1).Add(abs, -1), 0)
			b.m.AddEq(gapName("late", date, entity),
				milp.NewExpr().Add(late, 2).Add(abs, -1).Add(cum, 1), 0)

			obj.Add(early, opts.InventoryCost)
			obj.Add(late, opts.DelayCost)
		}
	}
}

// prefixExpr 向表达式追加前缀产出项（系数 -1），返回前缀累计需求
func (b *build) prefixExpr(e *milp.Expr, entity string, k int) float64 {
	opts := b.in.Options
	var required float64

	for _, date := range b.tp.Prefix(k) {
		if opts.OrderLevel {
			for j := range b.in.Orders {
				id := b.in.Orders[j].ID
				if entity != "" && id != entity {
					continue
				}
				for i := range b.in.Lines {
					e.Add(b.vars.get(VarKey{Role: RoleQty, Date: date, Line: b.in.Lines[i].Name, Order: id}), -1)
				}
				required += b.in.Demand.ForOrder(date, id)
			}
		} else {
			for i := range b.in.Lines {
				e.Add(b.vars.get(VarKey{Role: RoleTotalHours, Date: date, Line: b.in.Lines[i].Name}), -1)
			}
			required += b.in.Demand.For(date)
		}
	}

	return required
}

// gapName 缺口约束命名
func gapName(kind, date, entity string) string {
	if entity == "" {
		return fmt.Sprintf("%s[%s]", kind, date)
	}
	return fmt.Sprintf("%s[%s,%s]", kind, date, entity)
}
