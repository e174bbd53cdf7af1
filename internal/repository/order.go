package repository

import (
	"context"
	"fmt"

	"github.com/paichan/paichan/pkg/model"
)

// OrderRepository 客户订单仓储
type OrderRepository struct {
	db DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// List 获取全部订单及其各产线节拍时间
func (r *OrderRepository) List(ctx context.Context) ([]model.Order, error) {
	query := `
		SELECT o.order_id, o.family, ct.line_name, ct.cycle_time
		FROM customer_orders o
		JOIN order_cycle_times ct ON ct.order_id = o.order_id
		ORDER BY o.order_id, ct.line_name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("查询订单失败: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*model.Order)
	var ids []string
	for rows.Next() {
		var id, family, line string
		var ct float64
		if err := rows.Scan(&id, &family, &line, &ct); err != nil {
			return nil, fmt.Errorf("扫描订单行失败: %w", err)
		}

		o, ok := byID[id]
		if !ok {
			o = &model.Order{ID: id, Family: family, CycleTimes: make(map[string]float64)}
			byID[id] = o
			ids = append(ids, id)
		}
		o.CycleTimes[line] = ct
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历订单行失败: %w", err)
	}

	orders := make([]model.Order, 0, len(ids))
	for _, id := range ids {
		orders = append(orders, *byID[id])
	}
	return orders, nil
}

// DemandBetween 获取交货日期区间内的需求（区间含两端）
// due_date 为 DATE 列，入参与回传都用 Y/M/D 月日不补零格式
func (r *OrderRepository) DemandBetween(ctx context.Context, start, end string) (*model.Demand, error) {
	query := `
		SELECT to_char(due_date, 'YYYY/FMMM/FMDD'), order_id, quantity
		FROM order_demands
		WHERE due_date >= to_date($1, 'YYYY/MM/DD')
			AND due_date <= to_date($2, 'YYYY/MM/DD')
		ORDER BY due_date, order_id
	`

	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("查询需求失败: %w", err)
	}
	defer rows.Close()

	demand := model.NewDemand()
	for rows.Next() {
		var date, orderID string
		var qty float64
		if err := rows.Scan(&date, &orderID, &qty); err != nil {
			return nil, fmt.Errorf("扫描需求行失败: %w", err)
		}
		demand.SetOrderDemand(date, orderID, qty)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历需求行失败: %w", err)
	}

	return demand, nil
}
