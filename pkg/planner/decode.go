package planner

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/paichan/paichan/pkg/milp"
)

// CellKey (日期, 产线) 组合键
type CellKey struct {
	Date string `json:"date"`
	Line string `json:"line"`
}

// Cell 单元排产结果：某产线某日的工时与成本
// 关线时各工时与成本均为 0（reg/ot 的界只在开线时有意义）
type Cell struct {
	Date          string  `json:"date"`
	Line          string  `json:"line"`
	Open          bool    `json:"open"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	TotalHours    float64 `json:"total_hours"`
	Quantity      float64 `json:"quantity,omitempty"` // 订单级模式下的总数量
	LaborCost     float64 `json:"labor_cost"`
}

// Allocation 订单级分配：某订单某日在某产线上的数量与耗时
type Allocation struct {
	Date     string  `json:"date"`
	Order    string  `json:"order"`
	Line     string  `json:"line"`
	Quantity float64 `json:"quantity"`
	Hours    float64 `json:"hours"`
}

// GapPoint 缺口轨迹点：某实体截至某日的累计缺口分解
type GapPoint struct {
	Date   string  `json:"date"`
	Entity string  `json:"entity,omitempty"` // 空为聚合口径
	CumGap float64 `json:"cum_gap"`
	Early  float64 `json:"early"`
	Late   float64 `json:"late"`
}

// Schedule 解码后的结构化排产计划
type Schedule struct {
	RunID     uuid.UUID     `json:"run_id"`
	Status    milp.Status   `json:"status"`
	Objective float64       `json:"objective"`
	Runtime   time.Duration `json:"runtime"`

	Timeline    []string          `json:"timeline"`
	Cells       map[CellKey]*Cell `json:"cells"`
	Allocations []Allocation      `json:"allocations,omitempty"`
	GapTrail    []GapPoint        `json:"gap_trail,omitempty"`
}

// Cell 返回 (日期, 产线) 单元，不存在返回 nil
func (s *Schedule) Cell(date, line string) *Cell {
	return s.Cells[CellKey{Date: date, Line: line}]
}

// HoursOn 返回某日全部产线的总工时
func (s *Schedule) HoursOn(date string) float64 {
	var total float64
	for key, c := range s.Cells {
		if key.Date == date {
			total += c.TotalHours
		}
	}
	return total
}

// LaborCost 返回人工成本合计
func (s *Schedule) LaborCost() float64 {
	var total float64
	for _, c := range s.Cells {
		total += c.LaborCost
	}
	return total
}

// decode 把扁平的求解赋值映射回结构化排产计划
// 纯元数据直查：按 VarKey 取变量再读值，不解析任何变量名
func decode(b *build, sol *milp.Solution, runID uuid.UUID) *Schedule {
	opts := b.in.Options

	sched := &Schedule{
		RunID:     runID,
		Status:    sol.Status,
		Objective: sol.Objective,
		Runtime:   sol.Runtime,
		Timeline:  b.tp.Dates(),
		Cells:     make(map[CellKey]*Cell, b.tp.Len()*len(b.in.Lines)),
	}

	for _, date := range sched.Timeline {
		for i := range b.in.Lines {
			line := b.in.Lines[i].Name

			open := sol.Value(b.vars.get(VarKey{Role: RoleLineOpen, Date: date, Line: line})) > 0.5
			cell := &Cell{
				Date:       date,
				Line:       line,
				Open:       open,
				TotalHours: sol.Value(b.vars.get(VarKey{Role: RoleTotalHours, Date: date, Line: line})),
				LaborCost:  sol.Value(b.vars.get(VarKey{Role: RoleLaborCost, Date: date, Line: line})),
			}
			if open {
				cell.RegularHours = sol.Value(b.vars.get(VarKey{Role: RoleRegHours, Date: date, Line: line}))
				cell.OvertimeHours = sol.Value(b.vars.get(VarKey{Role: RoleOTHours, Date: date, Line: line}))
			}
			if opts.OrderLevel {
				cell.Quantity = sol.Value(b.vars.get(VarKey{Role: RoleLineQty, Date: date, Line: line}))
			}
			sched.Cells[CellKey{Date: date, Line: line}] = cell
		}
	}

	if opts.OrderLevel {
		for _, date := range sched.Timeline {
			for j := range b.in.Orders {
				for i := range b.in.Lines {
					key := VarKey{
						Role: RoleQty, Date: date,
						Line: b.in.Lines[i].Name, Order: b.in.Orders[j].ID,
					}
					qty := sol.Value(b.vars.get(key))
					if math.Abs(qty) < 1e-9 {
						continue
					}
					key.Role = RoleProdTime
					sched.Allocations = append(sched.Allocations, Allocation{
						Date:     date,
						Order:    b.in.Orders[j].ID,
						Line:     b.in.Lines[i].Name,
						Quantity: qty,
						Hours:    sol.Value(b.vars.get(key)),
					})
				}
			}
		}
	}

	if opts.GapPenalty {
		entities := []string{""}
		if opts.OrderLevel && opts.GapScope == GapPerOrder {
			entities = entities[:0]
			for j := range b.in.Orders {
				entities = append(entities, b.in.Orders[j].ID)
			}
		}
		for _, entity := range entities {
			for _, date := range sched.Timeline {
				sched.GapTrail = append(sched.GapTrail, GapPoint{
					Date:   date,
					Entity: entity,
					CumGap: sol.Value(b.vars.get(VarKey{Role: RoleCumGap, Date: date, Order: entity})),
					Early:  sol.Value(b.vars.get(VarKey{Role: RoleEarly, Date: date, Order: entity})),
					Late:   sol.Value(b.vars.get(VarKey{Role: RoleLate, Date: date, Order: entity})),
				})
			}
		}
	}

	return sched
}
