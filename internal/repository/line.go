package repository

import (
	"context"
	"fmt"

	"github.com/paichan/paichan/pkg/model"
)

// LineRepository 产线仓储
type LineRepository struct {
	db DB
}

// NewLineRepository 创建产线仓储
func NewLineRepository(db DB) *LineRepository {
	return &LineRepository{db: db}
}

// List 获取全部启用的产线
func (r *LineRepository) List(ctx context.Context) ([]model.Line, error) {
	query := `
		SELECT name, reg_hours_min, reg_hours_max, ot_hours_min, ot_hours_max,
			reg_rate, ot_rate, weekend_rate
		FROM production_lines
		WHERE is_active = TRUE
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("查询产线失败: %w", err)
	}
	defer rows.Close()

	var lines []model.Line
	for rows.Next() {
		var l model.Line
		err := rows.Scan(
			&l.Name, &l.RegularHours.Min, &l.RegularHours.Max,
			&l.OvertimeHours.Min, &l.OvertimeHours.Max,
			&l.RegularRate, &l.OvertimeRate, &l.WeekendRate,
		)
		if err != nil {
			return nil, fmt.Errorf("扫描产线行失败: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历产线行失败: %w", err)
	}

	return lines, nil
}

// Upsert 写入或更新产线
func (r *LineRepository) Upsert(ctx context.Context, l *model.Line) error {
	if err := l.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO production_lines (
			name, reg_hours_min, reg_hours_max, ot_hours_min, ot_hours_max,
			reg_rate, ot_rate, weekend_rate, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
		ON CONFLICT (name) DO UPDATE SET
			reg_hours_min = EXCLUDED.reg_hours_min,
			reg_hours_max = EXCLUDED.reg_hours_max,
			ot_hours_min = EXCLUDED.ot_hours_min,
			ot_hours_max = EXCLUDED.ot_hours_max,
			reg_rate = EXCLUDED.reg_rate,
			ot_rate = EXCLUDED.ot_rate,
			weekend_rate = EXCLUDED.weekend_rate,
			is_active = TRUE
	`

	_, err := r.db.ExecContext(ctx, query,
		l.Name, l.RegularHours.Min, l.RegularHours.Max,
		l.OvertimeHours.Min, l.OvertimeHours.Max,
		l.RegularRate, l.OvertimeRate, l.WeekendRate,
	)
	if err != nil {
		return fmt.Errorf("写入产线失败: %w", err)
	}

	return nil
}
