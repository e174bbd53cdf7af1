// Package lpsolve 提供基于 lp_solve (golp 绑定) 的求解器后端
package lpsolve

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/draffensperger/golp"

	"github.com/paichan/paichan/pkg/errors"
	"github.com/paichan/paichan/pkg/logger"
	"github.com/paichan/paichan/pkg/milp"
)

// Solver lp_solve 后端
type Solver struct{}

// New 创建求解器
func New() *Solver {
	return &Solver{}
}

// Name 返回求解器名称
func (s *Solver) Name() string {
	return "lp_solve"
}

// colMap 模型变量到 lp_solve 列的映射
// lp_solve 的列默认非负；自由符号变量拆成 pos-neg 两列
type colMap struct {
	pos int
	neg int // -1 表示无负列
}

// Solve 将模型提交给 lp_solve 并取回全部变量取值
// 同步阻塞；ctx 到期时返回超时错误（底层求解无法中断，结果丢弃）
func (s *Solver) Solve(ctx context.Context, m *milp.Model) (*milp.Solution, error) {
	vars := m.Vars()

	// 分配列
	cols := make([]colMap, len(vars))
	ncol := 0
	for i, v := range vars {
		cols[i] = colMap{pos: ncol, neg: -1}
		ncol++
		if v.Lower < 0 {
			cols[i].neg = ncol
			ncol++
		}
	}

	lp := golp.NewLP(0, ncol)

	for i, v := range vars {
		lp.SetColName(cols[i].pos, v.Name)
		if v.Type != milp.Continuous {
			lp.SetInt(cols[i].pos, true)
		}
		if cols[i].neg >= 0 {
			lp.SetColName(cols[i].neg, v.Name+"_neg")
			if v.Type != milp.Continuous {
				lp.SetInt(cols[i].neg, true)
			}
		}

		// 变量界以约束行表达（golp 不暴露列界接口）
		if err := s.addBounds(lp, cols[i], v); err != nil {
			return nil, err
		}
	}

	for _, c := range m.Constraints() {
		if err := s.addConstraint(lp, cols, c); err != nil {
			return nil, err
		}
	}

	// 目标：最小化
	objRow := make([]float64, ncol)
	for _, t := range m.Objective().Terms {
		cm := cols[t.Var.ID()]
		objRow[cm.pos] += t.Coef
		if cm.neg >= 0 {
			objRow[cm.neg] -= t.Coef
		}
	}
	lp.SetObjFn(objRow)

	logger.Debug().
		Str("solver", s.Name()).
		Str("model", m.Name).
		Int("vars", m.NumVars()).
		Int("cols", ncol).
		Int("constraints", m.NumConstraints()).
		Msg("提交模型求解")

	start := time.Now()
	done := make(chan golp.SolutionType, 1)
	go func() {
		done <- lp.Solve()
	}()

	var st golp.SolutionType
	select {
	case st = <-done:
	case <-ctx.Done():
		logger.Warn().Str("model", m.Name).Msg("求解超出墙钟限制，结果丢弃")
		return nil, errors.Wrap(ctx.Err(), errors.CodeSolverTimeout, "求解超出时间限制")
	}
	runtime := time.Since(start)

	status, err := mapStatus(st)
	if err != nil {
		return nil, err
	}

	sol := milp.NewSolution(status, 0, nil)
	sol.Runtime = runtime

	if status.HasSolution() {
		raw := lp.Variables()
		values := make([]float64, len(vars))
		for i := range vars {
			values[i] = raw[cols[i].pos]
			if cols[i].neg >= 0 {
				values[i] -= raw[cols[i].neg]
			}
		}
		sol = milp.NewSolution(status, lp.Objective(), values)
		sol.Runtime = runtime
	}

	logger.Debug().
		Str("model", m.Name).
		Str("status", status.String()).
		Float64("objective", sol.Objective).
		Dur("runtime", runtime).
		Msg("求解完成")

	return sol, nil
}

// addBounds 把变量界写成约束行
func (s *Solver) addBounds(lp *golp.LP, cm colMap, v *milp.Var) error {
	if v.Lower > v.Upper {
		return errors.New(errors.CodeInvalidInput, "变量下界大于上界").WithField("var", v.Name)
	}

	if cm.neg < 0 {
		// 单列：默认 [0, +inf)
		if v.Lower > 0 {
			lp.AddConstraintSparse([]golp.Entry{{Col: cm.pos, Val: 1}}, golp.GE, v.Lower)
		}
		if !math.IsInf(v.Upper, 1) {
			lp.AddConstraintSparse([]golp.Entry{{Col: cm.pos, Val: 1}}, golp.LE, v.Upper)
		}
		return nil
	}

	// 拆分列：界作用于 pos-neg
	pair := []golp.Entry{{Col: cm.pos, Val: 1}, {Col: cm.neg, Val: -1}}
	if !math.IsInf(v.Lower, -1) {
		lp.AddConstraintSparse(pair, golp.GE, v.Lower)
	}
	if !math.IsInf(v.Upper, 1) {
		lp.AddConstraintSparse(pair, golp.LE, v.Upper)
	}
	return nil
}

// addConstraint 添加一条模型约束，系数按列聚合
func (s *Solver) addConstraint(lp *golp.LP, cols []colMap, c milp.Constraint) error {
	coefs := make(map[int]float64)
	for _, t := range c.Expr.Terms {
		cm := cols[t.Var.ID()]
		coefs[cm.pos] += t.Coef
		if cm.neg >= 0 {
			coefs[cm.neg] -= t.Coef
		}
	}

	entries := make([]golp.Entry, 0, len(coefs))
	for col, coef := range coefs {
		if coef != 0 {
			entries = append(entries, golp.Entry{Col: col, Val: coef})
		}
	}

	rhs := c.RHS - c.Expr.Const

	var ct golp.ConstraintType
	switch c.Sense {
	case milp.LessEq:
		ct = golp.LE
	case milp.GreaterEq:
		ct = golp.GE
	case milp.Equal:
		ct = golp.EQ
	default:
		return errors.New(errors.CodeInternal, fmt.Sprintf("未知约束方向: %v", c.Sense))
	}

	lp.AddConstraintSparse(entries, ct, rhs)
	return nil
}

// mapStatus 把 lp_solve 状态映射为统一状态
// 最优与受限停止（存在最优性缺口）严格区分；无可行解绝不折叠为零解
func mapStatus(st golp.SolutionType) (milp.Status, error) {
	switch st {
	case golp.OPTIMAL:
		return milp.StatusOptimal, nil
	case golp.SUBOPTIMAL:
		return milp.StatusFeasible, nil
	case golp.INFEASIBLE:
		return milp.StatusInfeasible, nil
	case golp.UNBOUNDED:
		return milp.StatusUnbounded, nil
	case golp.TIMEOUT:
		// 超时停止不保证取值可用，按错误处理而不是伪造可行解
		return milp.StatusUnknown, errors.New(errors.CodeSolverTimeout, "求解器超时停止")
	default:
		return milp.StatusUnknown, errors.SolverFailure(fmt.Sprintf("lp_solve 返回状态 %v", st))
	}
}
