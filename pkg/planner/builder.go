package planner

import (
	"fmt"

	"github.com/paichan/paichan/pkg/milp"
	"github.com/paichan/paichan/pkg/model"
)

// build 单次排产求解的模型实例
// 所有变量与约束在 solve 之前声明完毕，之后只读
type build struct {
	in   *Input
	tp   *model.TimePeriod
	m    *milp.Model
	vars *varTable
}

// newBuild 校验输入并组装完整模型（结构约束 + 成本分层 + 缺口线性化）
func newBuild(in *Input) (*build, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	tp, err := model.NewTimePeriod(in.Timeline)
	if err != nil {
		return nil, err
	}

	b := &build{
		in:   in,
		tp:   tp,
		m:    milp.NewModel("production_planning"),
		vars: newVarTable(),
	}

	b.buildStructure()
	b.buildCosts()
	if in.Options.GapPenalty {
		b.buildGaps()
	}
	b.buildBalance()

	return b, nil
}

// declareBinary 声明 0/1 变量并登记索引
func (b *build) declareBinary(key VarKey) *milp.Var {
	v := b.m.NewBinary(displayName(key))
	b.vars.byKey[key] = v
	return v
}

// hourType 工时变量类型
func (b *build) hourType() milp.VarType {
	if b.in.Options.IntegerHours {
		return milp.Integer
	}
	return milp.Continuous
}

// buildStructure 声明工时/开线/总工时变量及其联动约束
// 所有派生量都以等式约束定义为一等变量，由求解器联合决定取值
func (b *build) buildStructure() {
	opts := b.in.Options

	for _, date := range b.tp.Dates() {
		for i := range b.in.Lines {
			line := &b.in.Lines[i]

			reg := b.vars.declare(b.m, VarKey{Role: RoleRegHours, Date: date, Line: line.Name},
				b.hourType(), line.RegularHours.Min, line.RegularHours.Max)

			otLo, otHi := 0.0, 0.0
			if opts.Overtime {
				otLo, otHi = line.OvertimeHours.Min, line.OvertimeHours.Max
			}
			ot := b.vars.declare(b.m, VarKey{Role: RoleOTHours, Date: date, Line: line.Name},
				b.hourType(), otLo, otHi)

			open := b.declareBinary(VarKey{Role: RoleLineOpen, Date: date, Line: line.Name})

			total := b.vars.declare(b.m, VarKey{Role: RoleTotalHours, Date: date, Line: line.Name},
				b.hourType(), 0, line.RegularHours.Max+otHi)

			// total_hours = (reg + ot) × open：关线时产出为 0，工时界只在开线时生效
			hours := milp.NewExpr().Add(reg, 1).Add(ot, 1)
			b.m.LinearizeProduct(
				fmt.Sprintf("total_hours[%s,%s]", date, line.Name),
				total, open, hours,
				line.RegularHours.Min+otLo, line.RegularHours.Max+otHi,
			)
		}
	}

	if opts.OrderLevel {
		b.buildOrderStructure()
	}
}

// buildOrderStructure 订单级变量：排产数量与生产时间，经节拍时间联动
func (b *build) buildOrderStructure() {
	timeline := b.tp.Dates()

	for _, date := range timeline {
		for i := range b.in.Lines {
			line := &b.in.Lines[i]

			prodTime := milp.NewExpr()
			lineQty := milp.NewExpr()

			for j := range b.in.Orders {
				order := &b.in.Orders[j]
				// 输入校验已保证节拍时间存在
				ct := order.CycleTimes[line.Name]

				maxQty := b.in.Demand.TotalForOrder(timeline, order.ID)
				qty := b.vars.declare(b.m,
					VarKey{Role: RoleQty, Date: date, Line: line.Name, Order: order.ID},
					milp.Integer, 0, maxQty)

				tm := b.vars.declare(b.m,
					VarKey{Role: RoleProdTime, Date: date, Line: line.Name, Order: order.ID},
					milp.Continuous, 0, milp.Inf)

				// time = qty × cycle_time
				b.m.AddEq(
					fmt.Sprintf("prod_time[%s,%s,%s]", date, order.ID, line.Name),
					milp.NewExpr().Add(tm, 1).Add(qty, -ct), 0)

				prodTime.Add(tm, -1)
				lineQty.Add(qty, -1)
			}

			// 订单级模式下总工时由生产时间之和定义
			total := b.vars.get(VarKey{Role: RoleTotalHours, Date: date, Line: line.Name})
			b.m.AddEq(
				fmt.Sprintf("hours_from_orders[%s,%s]", date, line.Name),
				prodTime.Add(total, 1), 0)

			// 产线单日总数量（展示用）
			lq := b.vars.declare(b.m, VarKey{Role: RoleLineQty, Date: date, Line: line.Name},
				milp.Integer, 0, milp.Inf)
			b.m.AddEq(
				fmt.Sprintf("line_qty[%s,%s]", date, line.Name),
				lineQty.Add(lq, 1), 0)
		}
	}
}

// buildBalance 产量平衡约束
// 无缺口惩罚：每日产出等于当日需求
// 有缺口惩罚：仅约束全局平衡，跨日分布由提前/延迟成本引导
func (b *build) buildBalance() {
	opts := b.in.Options
	timeline := b.tp.Dates()

	if !opts.GapPenalty {
		for _, date := range timeline {
			e := milp.NewExpr()
			for i := range b.in.Lines {
				e.Add(b.vars.get(VarKey{Role: RoleTotalHours, Date: date, Line: b.in.Lines[i].Name}), 1)
			}
			b.m.AddEq(fmt.Sprintf("requirement[%s]", date), e, b.in.Demand.For(date))
		}
		return
	}

	e := milp.NewExpr()
	var required float64

	if opts.OrderLevel {
		for _, date := range timeline {
			for j := range b.in.Orders {
				for i := range b.in.Lines {
					e.Add(b.vars.get(VarKey{
						Role: RoleQty, Date: date, Line: b.in.Lines[i].Name, Order: b.in.Orders[j].ID,
					}), 1)
				}
				required += b.in.Demand.ForOrder(date, b.in.Orders[j].ID)
			}
		}
	} else {
		for _, date := range timeline {
			for i := range b.in.Lines {
				e.Add(b.vars.get(VarKey{Role: RoleTotalHours, Date: date, Line: b.in.Lines[i].Name}), 1)
			}
			required += b.in.Demand.For(date)
		}
	}

	b.m.AddEq("total_requirement", e, required)
}
