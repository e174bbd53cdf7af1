package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/paichan/paichan/pkg/planner"
)

// ResultRepository 排产结果仓储
type ResultRepository struct {
	db DB
}

// NewResultRepository 创建结果仓储
func NewResultRepository(db DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// SaveSchedule 保存一次排产结果（运行记录 + 单元 + 订单分配）
// 调用方负责把 db 换成事务句柄以保证原子性
func (r *ResultRepository) SaveSchedule(ctx context.Context, sched *planner.Schedule) error {
	runQuery := `
		INSERT INTO plan_runs (run_id, status, objective, runtime_ms, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, runQuery,
		sched.RunID, sched.Status.String(), sched.Objective,
		sched.Runtime.Milliseconds(), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("保存运行记录失败: %w", err)
	}

	cellQuery := `
		INSERT INTO plan_cells (
			run_id, plan_date, line_name, is_open,
			reg_hours, ot_hours, total_hours, quantity, labor_cost
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, date := range sched.Timeline {
		for key, cell := range sched.Cells {
			if key.Date != date {
				continue
			}
			_, err := r.db.ExecContext(ctx, cellQuery,
				sched.RunID, cell.Date, cell.Line, cell.Open,
				cell.RegularHours, cell.OvertimeHours, cell.TotalHours,
				cell.Quantity, cell.LaborCost,
			)
			if err != nil {
				return fmt.Errorf("保存排产单元失败: %w", err)
			}
		}
	}

	allocQuery := `
		INSERT INTO plan_allocations (run_id, plan_date, order_id, line_name, quantity, hours)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, a := range sched.Allocations {
		_, err := r.db.ExecContext(ctx, allocQuery,
			sched.RunID, a.Date, a.Order, a.Line, a.Quantity, a.Hours,
		)
		if err != nil {
			return fmt.Errorf("保存订单分配失败: %w", err)
		}
	}

	return nil
}

// LatestRunID 返回最近一次运行的 run_id，没有记录返回空串
func (r *ResultRepository) LatestRunID(ctx context.Context) (string, error) {
	var runID string
	err := r.db.QueryRowContext(ctx,
		`SELECT run_id FROM plan_runs ORDER BY created_at DESC LIMIT 1`,
	).Scan(&runID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("查询最近运行失败: %w", err)
	}
	return runID, nil
}
