package planner

import (
	"context"
	"math"
	"testing"

	"github.com/paichan/paichan/pkg/errors"
	"github.com/paichan/paichan/pkg/milp"
	"github.com/paichan/paichan/pkg/milp/lpsolve"
	"github.com/paichan/paichan/pkg/model"
)

// 订单级实例：三个工作日、两条产线、两个订单
func orderLevelInput() *Input {
	demand := model.NewDemand()
	demand.SetOrderDemand("2020/7/14", "MO-01", 10)
	demand.SetOrderDemand("2020/7/15", "MO-02", 12)

	return &Input{
		Timeline: []string{"2020/7/13", "2020/7/14", "2020/7/15"},
		Lines: []model.Line{
			{Name: "Line_1", RegularHours: model.HourBounds{Min: 7, Max: 8}, OvertimeHours: model.HourBounds{Min: 0, Max: 4},
				RegularRate: 245, OvertimeRate: 367.5, WeekendRate: 490},
			{Name: "Line_2", RegularHours: model.HourBounds{Min: 7, Max: 8}, OvertimeHours: model.HourBounds{Min: 0, Max: 4},
				RegularRate: 315, OvertimeRate: 472.5, WeekendRate: 630},
		},
		Demand: demand,
		Orders: []model.Order{
			{ID: "MO-01", Family: "A", CycleTimes: map[string]float64{"Line_1": 0.5, "Line_2": 0.6}},
			{ID: "MO-02", Family: "B", CycleTimes: map[string]float64{"Line_1": 0.8, "Line_2": 0.5}},
		},
		Options: Options{
			Overtime:      true,
			WeekendTier:   true,
			OrderLevel:    true,
			GapPenalty:    true,
			GapScope:      GapPerOrder,
			InventoryCost: 5,
			DelayCost:     1000,
		},
	}
}

// 手算实例：需求 10 小时，A 线 $10/h 独力承担，B 线必须关闭，总成本 $100
func TestPlan_WorkedExample(t *testing.T) {
	p := New(lpsolve.New())

	sched, stats, err := p.Plan(context.Background(), workedInput())
	if err != nil {
		t.Fatalf("Plan() 失败: %v", err)
	}

	if sched.Status != milp.StatusOptimal {
		t.Fatalf("状态 = %v, 期望 optimal", sched.Status)
	}
	if math.Abs(sched.Objective-100) > 1e-6 {
		t.Errorf("目标值 = %v, 期望 100", sched.Objective)
	}

	a := sched.Cell("2026/3/2", "Line_A")
	if !a.Open || math.Abs(a.TotalHours-10) > 1e-6 {
		t.Errorf("Line_A = %+v, 期望 开线 10 小时", a)
	}

	// 开启 B 线或拆分工时的解都是次优解，必须被最优性检查排除
	b := sched.Cell("2026/3/2", "Line_B")
	if b.Open || b.TotalHours != 0 {
		t.Errorf("Line_B = %+v, 期望 关线", b)
	}

	if stats.Variables == 0 || stats.Constraints == 0 {
		t.Error("统计信息缺失")
	}
}

// 需求 50 超出两条产线 24 小时总产能：必须报告无可行解，而不是截断的计划
func TestPlan_Infeasible(t *testing.T) {
	in := workedInput()
	in.Demand.ByDate["2026/3/2"] = 50

	p := New(lpsolve.New())
	sched, _, err := p.Plan(context.Background(), in)

	if err == nil {
		t.Fatal("超产能需求应该返回错误")
	}
	if !errors.Is(err, errors.CodeModelInfeasible) {
		t.Errorf("错误码 = %v, 期望 MODEL_INFEASIBLE", errors.GetCode(err))
	}
	if sched != nil {
		t.Error("无可行解时不应返回计划")
	}
}

// 周末费率分界：周五与周六使用完全不同的成本公式
func TestPlan_TierBoundary(t *testing.T) {
	demand := model.NewDemand()
	demand.ByDate["2020/7/17"] = 10 // 周五
	demand.ByDate["2020/7/18"] = 8  // 周六

	line := model.Line{
		Name:         "Line_1",
		RegularHours: model.HourBounds{Min: 7, Max: 8},
		OvertimeHours: model.HourBounds{
			Min: 0, Max: 4,
		},
		RegularRate: 300, OvertimeRate: 450, WeekendRate: 600,
	}

	in := &Input{
		Timeline: []string{"2020/7/17", "2020/7/18"},
		Lines:    []model.Line{line},
		Demand:   demand,
		Options:  Options{Overtime: true, WeekendTier: true},
	}

	p := New(lpsolve.New())
	sched, _, err := p.Plan(context.Background(), in)
	if err != nil {
		t.Fatalf("Plan() 失败: %v", err)
	}

	// 周五：正常/加班拆分公式
	fri := sched.Cell("2020/7/17", "Line_1")
	wantFri := fri.RegularHours*300 + fri.OvertimeHours*450
	if !fri.Open {
		t.Fatal("周五应开线")
	}
	if math.Abs(fri.LaborCost-wantFri) > 1e-6 {
		t.Errorf("周五成本 = %v, 期望 %v (reg/ot 公式)", fri.LaborCost, wantFri)
	}

	// 周六：扁平周末费率
	sat := sched.Cell("2020/7/18", "Line_1")
	if math.Abs(sat.LaborCost-sat.TotalHours*600) > 1e-6 {
		t.Errorf("周六成本 = %v, 期望 total×600 = %v", sat.LaborCost, sat.TotalHours*600)
	}
}

// 工时界约束：开线时在界内，关线时总工时为 0
func TestPlan_BoundRespect(t *testing.T) {
	in := orderLevelInput()

	p := New(lpsolve.New())
	sched, _, err := p.Plan(context.Background(), in)
	if err != nil {
		t.Fatalf("Plan() 失败: %v", err)
	}

	for _, c := range sched.Cells {
		if c.Open {
			if c.RegularHours < 7-1e-6 || c.RegularHours > 8+1e-6 {
				t.Errorf("%s/%s reg_hours = %v 超出 [7,8]", c.Date, c.Line, c.RegularHours)
			}
			if c.OvertimeHours < -1e-6 || c.OvertimeHours > 4+1e-6 {
				t.Errorf("%s/%s ot_hours = %v 超出 [0,4]", c.Date, c.Line, c.OvertimeHours)
			}
		} else if math.Abs(c.TotalHours) > 1e-6 {
			t.Errorf("%s/%s 关线但 total_hours = %v", c.Date, c.Line, c.TotalHours)
		}
	}
}

// 缺口恒等式与全局平衡
func TestPlan_GapIdentityAndBalance(t *testing.T) {
	in := orderLevelInput()

	p := New(lpsolve.New())
	sched, _, err := p.Plan(context.Background(), in)
	if err != nil {
		t.Fatalf("Plan() 失败: %v", err)
	}

	if len(sched.GapTrail) != 6 { // 2 订单 × 3 天
		t.Fatalf("缺口轨迹点数 = %d, 期望 6", len(sched.GapTrail))
	}

	for _, g := range sched.GapTrail {
		if g.Early < -1e-6 || g.Late < -1e-6 {
			t.Errorf("%s/%s early/late 为负: %v / %v", g.Date, g.Entity, g.Early, g.Late)
		}
		if math.Abs((g.Early-g.Late)-g.CumGap) > 1e-6 {
			t.Errorf("%s/%s 恒等式 early-late=cum_gap 不成立: %v - %v != %v",
				g.Date, g.Entity, g.Early, g.Late, g.CumGap)
		}
	}

	// 全局平衡：总排产数量 = 总需求数量
	var produced float64
	for _, a := range sched.Allocations {
		produced += a.Quantity
	}
	if math.Abs(produced-22) > 1e-6 {
		t.Errorf("总排产数量 = %v, 期望 22", produced)
	}
}

func TestBuildOnly(t *testing.T) {
	m, err := BuildOnly(workedInput())
	if err != nil {
		t.Fatalf("BuildOnly() 失败: %v", err)
	}
	if m.NumVars() == 0 || m.NumConstraints() == 0 {
		t.Error("模型为空")
	}
}
