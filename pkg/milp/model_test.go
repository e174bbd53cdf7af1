package milp

import (
	"math"
	"testing"
)

func TestExpr_Eval(t *testing.T) {
	m := NewModel("test")
	x := m.NewVar("x", Continuous, 0, 10)
	y := m.NewVar("y", Continuous, 0, 10)

	e := NewExpr().Add(x, 2).Add(y, -1).AddConst(3)

	vals := map[*Var]float64{x: 4, y: 5}
	got := e.Eval(func(v *Var) float64 { return vals[v] })
	if got != 6 { // 2*4 - 5 + 3
		t.Errorf("Eval() = %v, 期望 6", got)
	}
}

func TestConstraint_Satisfied(t *testing.T) {
	m := NewModel("test")
	x := m.NewVar("x", Continuous, 0, 10)

	tests := []struct {
		name     string
		sense    Sense
		rhs      float64
		val      float64
		expected bool
	}{
		{"小于等于成立", LessEq, 5, 4, true},
		{"小于等于违反", LessEq, 5, 6, false},
		{"大于等于成立", GreaterEq, 5, 6, true},
		{"大于等于违反", GreaterEq, 5, 4, false},
		{"等式成立", Equal, 5, 5, true},
		{"等式违反", Equal, 5, 4.9, false},
		{"等式容差内", Equal, 5, 5.0000001, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Constraint{Expr: NewExpr().Add(x, 1), Sense: tt.sense, RHS: tt.rhs}
			got := c.Satisfied(func(*Var) float64 { return tt.val }, 1e-6)
			if got != tt.expected {
				t.Errorf("Satisfied() = %v, 期望 %v", got, tt.expected)
			}
		})
	}
}

// 验证乘积线性化的可行域：b=0 强制 y=0，b=1 强制 y=expr
func TestLinearizeProduct_Region(t *testing.T) {
	m := NewModel("test")
	x := m.NewVar("x", Continuous, 7, 12)
	b := m.NewBinary("b")
	y := m.NewVar("y", Continuous, 0, 12)

	m.LinearizeProduct("prod", y, b, NewExpr().Add(x, 1), 7, 12)

	if m.NumConstraints() != 4 {
		t.Fatalf("约束数 = %d, 期望 4", m.NumConstraints())
	}

	check := func(xv, bv, yv float64) bool {
		vals := map[*Var]float64{x: xv, b: bv, y: yv}
		for _, c := range m.Constraints() {
			if !c.Satisfied(func(v *Var) float64 { return vals[v] }, 1e-9) {
				return false
			}
		}
		return true
	}

	tests := []struct {
		name       string
		x, b, y    float64
		acceptable bool
	}{
		{"关线零产出", 8, 0, 0, true},
		{"关线仍计时违反", 8, 0, 8, false},
		{"开线乘积成立", 10, 1, 10, true},
		{"开线乘积不符", 10, 1, 9, false},
		{"开线乘积偏大", 10, 1, 11, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := check(tt.x, tt.b, tt.y); got != tt.acceptable {
				t.Errorf("可行性 = %v, 期望 %v", got, tt.acceptable)
			}
		})
	}
}

func TestModel_Vars(t *testing.T) {
	m := NewModel("test")
	x := m.NewVar("x", Integer, 0, Inf)
	b := m.NewBinary("open")

	if x.ID() != 0 || b.ID() != 1 {
		t.Errorf("变量序号 = (%d,%d), 期望 (0,1)", x.ID(), b.ID())
	}
	if b.Type != Binary || b.Lower != 0 || b.Upper != 1 {
		t.Error("二元变量的界应为 [0,1]")
	}
	if !math.IsInf(x.Upper, 1) {
		t.Error("上界应为 +Inf")
	}
}

func TestSolution_Value(t *testing.T) {
	m := NewModel("test")
	x := m.NewVar("x", Continuous, 0, 10)
	y := m.NewVar("y", Continuous, 0, 10)

	sol := NewSolution(StatusOptimal, 42, []float64{1.5, 2.5})
	if sol.Value(x) != 1.5 || sol.Value(y) != 2.5 {
		t.Errorf("取值 = (%v,%v), 期望 (1.5,2.5)", sol.Value(x), sol.Value(y))
	}

	empty := NewSolution(StatusInfeasible, 0, nil)
	if empty.Value(x) != 0 {
		t.Error("无解时取值应为 0")
	}
	if empty.Status.HasSolution() {
		t.Error("infeasible 状态不应携带解")
	}
}
