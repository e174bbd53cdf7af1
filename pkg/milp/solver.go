package milp

import (
	"context"
	"time"
)

// Status 求解状态
type Status int

const (
	StatusUnknown    Status = iota
	StatusOptimal           // 已证明最优
	StatusFeasible          // 可行解（受时间/迭代限制停止，存在最优性缺口）
	StatusInfeasible        // 无可行解
	StatusUnbounded         // 无界（建模缺陷）
)

// String 返回状态名称
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	default:
		return "unknown"
	}
}

// HasSolution 检查状态是否携带可用的变量取值
func (s Status) HasSolution() bool {
	return s == StatusOptimal || s == StatusFeasible
}

// Solution 求解结果：状态 + 目标值 + 所有变量取值
// 取值只读，按变量序号索引
type Solution struct {
	Status    Status
	Objective float64
	Runtime   time.Duration

	values []float64
}

// NewSolution 由状态和取值向量构造结果（求解器后端与测试使用）
func NewSolution(status Status, objective float64, values []float64) *Solution {
	return &Solution{Status: status, Objective: objective, values: values}
}

// Value 返回变量取值；无解时返回 0
func (s *Solution) Value(v *Var) float64 {
	if s.values == nil || v == nil || v.id >= len(s.values) {
		return 0
	}
	return s.values[v.id]
}

// Values 返回取值向量副本
func (s *Solution) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// Solver 外部 MILP 求解器接口
// Solve 为同步阻塞调用，可能长时间运行；通过 ctx 设置墙钟限制
// 无可行解/无界通过 Solution.Status 返回，不转换为错误
type Solver interface {
	// Name 返回求解器名称
	Name() string

	// Solve 求解模型并返回所有变量的取值
	Solve(ctx context.Context, m *Model) (*Solution, error)
}
