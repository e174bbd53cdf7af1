// Package milp 提供混合整数线性规划的建模原语
// 只负责描述变量/约束/目标，搜索由外部求解器后端完成
package milp

import (
	"fmt"
	"math"
)

// VarType 变量类型
type VarType int

const (
	Continuous VarType = iota // 连续变量
	Integer                   // 整数变量
	Binary                    // 0/1 变量
)

// String 返回变量类型名称
func (t VarType) String() string {
	switch t {
	case Integer:
		return "integer"
	case Binary:
		return "binary"
	default:
		return "continuous"
	}
}

// Inf 正无穷上界
var Inf = math.Inf(1)

// Var 决策变量
// 变量由所属 Model 独占，一次 build→solve→decode 周期内有效
type Var struct {
	id    int
	Name  string
	Type  VarType
	Lower float64
	Upper float64
}

// ID 返回变量在模型中的序号
func (v *Var) ID() int {
	return v.id
}

// Term 线性项：系数 × 变量
type Term struct {
	Var  *Var
	Coef float64
}

// Expr 线性表达式（项之和，可带常数）
type Expr struct {
	Terms []Term
	Const float64
}

// NewExpr 创建空表达式
func NewExpr() *Expr {
	return &Expr{}
}

// Add 追加一个线性项，返回自身便于链式调用
func (e *Expr) Add(v *Var, coef float64) *Expr {
	if coef != 0 {
		e.Terms = append(e.Terms, Term{Var: v, Coef: coef})
	}
	return e
}

// AddExpr 追加另一个表达式
func (e *Expr) AddExpr(other *Expr) *Expr {
	e.Terms = append(e.Terms, other.Terms...)
	e.Const += other.Const
	return e
}

// AddConst 追加常数项
func (e *Expr) AddConst(c float64) *Expr {
	e.Const += c
	return e
}

// Clone 返回表达式副本
func (e *Expr) Clone() *Expr {
	out := &Expr{Const: e.Const, Terms: make([]Term, len(e.Terms))}
	copy(out.Terms, e.Terms)
	return out
}

// Eval 在给定取值下计算表达式的值（用于校验与测试）
func (e *Expr) Eval(value func(*Var) float64) float64 {
	total := e.Const
	for _, t := range e.Terms {
		total += t.Coef * value(t.Var)
	}
	return total
}

// Sense 约束方向
type Sense int

const (
	LessEq    Sense = iota // <=
	GreaterEq              // >=
	Equal                  // ==
)

// String 返回约束方向符号
func (s Sense) String() string {
	switch s {
	case GreaterEq:
		return ">="
	case Equal:
		return "=="
	default:
		return "<="
	}
}

// Constraint 线性约束：expr sense rhs
type Constraint struct {
	Name  string
	Expr  *Expr
	Sense Sense
	RHS   float64
}

// Satisfied 检查约束在给定取值下是否成立（允许数值容差）
func (c *Constraint) Satisfied(value func(*Var) float64, tol float64) bool {
	lhs := c.Expr.Eval(value)
	switch c.Sense {
	case LessEq:
		return lhs <= c.RHS+tol
	case GreaterEq:
		return lhs >= c.RHS-tol
	default:
		return math.Abs(lhs-c.RHS) <= tol
	}
}

// Model MILP 模型：变量 + 约束 + 最小化目标
type Model struct {
	Name string

	vars []*Var
	cons []Constraint
	obj  *Expr
}

// NewModel 创建空模型
func NewModel(name string) *Model {
	return &Model{Name: name, obj: NewExpr()}
}

// NewVar 声明变量，上下界在声明时固定
func (m *Model) NewVar(name string, t VarType, lower, upper float64) *Var {
	v := &Var{
		id:    len(m.vars),
		Name:  name,
		Type:  t,
		Lower: lower,
		Upper: upper,
	}
	m.vars = append(m.vars, v)
	return v
}

// NewBinary 声明 0/1 变量
func (m *Model) NewBinary(name string) *Var {
	return m.NewVar(name, Binary, 0, 1)
}

// AddConstraint 添加约束
func (m *Model) AddConstraint(name string, e *Expr, sense Sense, rhs float64) {
	m.cons = append(m.cons, Constraint{Name: name, Expr: e, Sense: sense, RHS: rhs})
}

// AddEq 添加等式约束
func (m *Model) AddEq(name string, e *Expr, rhs float64) {
	m.AddConstraint(name, e, Equal, rhs)
}

// AddLE 添加 <= 约束
func (m *Model) AddLE(name string, e *Expr, rhs float64) {
	m.AddConstraint(name, e, LessEq, rhs)
}

// AddGE 添加 >= 约束
func (m *Model) AddGE(name string, e *Expr, rhs float64) {
	m.AddConstraint(name, e, GreaterEq, rhs)
}

// Objective 返回目标表达式（最小化），调用方向其中累加成本项
func (m *Model) Objective() *Expr {
	return m.obj
}

// Vars 返回全部变量
func (m *Model) Vars() []*Var {
	return m.vars
}

// Constraints 返回全部约束
func (m *Model) Constraints() []Constraint {
	return m.cons
}

// NumVars 返回变量数
func (m *Model) NumVars() int {
	return len(m.vars)
}

// NumConstraints 返回约束数
func (m *Model) NumConstraints() int {
	return len(m.cons)
}

// LinearizeProduct 线性化 y = expr × b（b 为 0/1 变量，expr ∈ [lower, upper]）
//
//	y <= upper*b
//	y >= lower*b
//	y <= expr - lower*(1-b)
//	y >= expr - upper*(1-b)
//
// 四条约束与双线性乘积的可行域完全一致
func (m *Model) LinearizeProduct(name string, y, b *Var, expr *Expr, lower, upper float64) {
	m.AddLE(fmt.Sprintf("%s_ub", name), NewExpr().Add(y, 1).Add(b, -upper), 0)
	m.AddGE(fmt.Sprintf("%s_lb", name), NewExpr().Add(y, 1).Add(b, -lower), 0)

	le := NewExpr().Add(y, 1).Add(b, -lower)
	le.AddExpr(negate(expr))
	m.AddLE(fmt.Sprintf("%s_link_ub", name), le, -lower)

	ge := NewExpr().Add(y, 1).Add(b, -upper)
	ge.AddExpr(negate(expr))
	m.AddGE(fmt.Sprintf("%s_link_lb", name), ge, -upper)
}

// negate 返回表达式的相反数
func negate(e *Expr) *Expr {
	out := &Expr{Const: -e.Const, Terms: make([]Term, len(e.Terms))}
	for i, t := range e.Terms {
		out.Terms[i] = Term{Var: t.Var, Coef: -t.Coef}
	}
	return out
}
