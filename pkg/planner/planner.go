package planner

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/paichan/paichan/pkg/errors"
	"github.com/paichan/paichan/pkg/logger"
	"github.com/paichan/paichan/pkg/milp"
)

// Statistics 一次求解的统计信息
type Statistics struct {
	Variables   int           `json:"variables"`
	Constraints int           `json:"constraints"`
	BuildTime   time.Duration `json:"build_time"`
	SolveTime   time.Duration `json:"solve_time"`
}

// Planner 排产优化器：build → solve → decode 单线程顺序执行
type Planner struct {
	solver milp.Solver
}

// New 创建排产优化器
func New(solver milp.Solver) *Planner {
	return &Planner{solver: solver}
}

// Plan 执行一次完整的排产优化
//
// 无可行解返回 MODEL_INFEASIBLE（携带状态，绝不降级为空计划）
// 无界视为建模缺陷，返回 MODEL_UNBOUNDED
// 受时间限制停止时返回携带 feasible 状态的计划（存在最优性缺口）
func (p *Planner) Plan(ctx context.Context, in *Input) (*Schedule, *Statistics, error) {
	runID := uuid.New()
	log := logger.WithRun(runID.String())

	buildStart := time.Now()
	b, err := newBuild(in)
	if err != nil {
		return nil, nil, err
	}

	stats := &Statistics{
		Variables:   b.m.NumVars(),
		Constraints: b.m.NumConstraints(),
		BuildTime:   time.Since(buildStart),
	}

	log.Info().
		Str("solver", p.solver.Name()).
		Int("days", b.tp.Len()).
		Int("lines", len(in.Lines)).
		Int("orders", len(in.Orders)).
		Int("variables", stats.Variables).
		Int("constraints", stats.Constraints).
		Msg("排产模型构建完成")

	sol, err := p.solver.Solve(ctx, b.m)
	if err != nil {
		return nil, stats, err
	}
	stats.SolveTime = sol.Runtime

	switch sol.Status {
	case milp.StatusInfeasible:
		log.Warn().Msg("需求超出产能，模型无可行解")
		return nil, stats, errors.ModelInfeasible("需求无法在产能界内满足").
			WithField("status", sol.Status.String())

	case milp.StatusUnbounded:
		// 所有变量都有显式界，无界只能是模型构建缺陷
		log.Error().Msg("模型无界，属于构建缺陷")
		return nil, stats, errors.ErrModelUnbounded.
			WithDetails("所有变量都应有显式界，请检查模型构建")

	case milp.StatusFeasible:
		log.Warn().
			Float64("objective", sol.Objective).
			Msg("求解受限停止，返回带最优性缺口的可行解")

	case milp.StatusOptimal:
		log.Info().
			Float64("objective", sol.Objective).
			Dur("solve_time", sol.Runtime).
			Msg("求解完成，已证明最优")

	default:
		return nil, stats, errors.SolverFailure("求解器返回未知状态")
	}

	return decode(b, sol, runID), stats, nil
}

// BuildOnly 仅构建模型不求解，供诊断与测试检视模型结构
func BuildOnly(in *Input) (*milp.Model, error) {
	b, err := newBuild(in)
	if err != nil {
		return nil, err
	}
	return b.m, nil
}
