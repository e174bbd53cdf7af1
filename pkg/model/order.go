package model

import (
	"github.com/paichan/paichan/pkg/errors"
)

// Order 客户订单（订单级排产模式）
// CycleTimes 为每条产线生产一件所需小时数，缺失视为建模缺陷
type Order struct {
	ID         string             `yaml:"id" json:"id"`
	Family     string             `yaml:"family" json:"family"` // 产品族
	CycleTimes map[string]float64 `yaml:"cycle_times" json:"cycle_times"`
}

// CycleTime 返回订单在指定产线上的节拍时间
func (o *Order) CycleTime(line string) (float64, error) {
	ct, ok := o.CycleTimes[line]
	if !ok || ct <= 0 {
		return 0, errors.MissingCycleTime(o.ID, line)
	}
	return ct, nil
}

// ValidateOrders 校验订单集合：ID 唯一且节拍时间覆盖全部产线
// 重复订单在声明任何决策变量之前拒绝
func ValidateOrders(orders []Order, lines []Line) error {
	seen := make(map[string]bool, len(orders))
	for i := range orders {
		o := &orders[i]
		if o.ID == "" {
			return errors.New(errors.CodeInvalidInput, "订单ID不能为空")
		}
		if seen[o.ID] {
			return errors.DuplicateOrder(o.ID)
		}
		seen[o.ID] = true

		for j := range lines {
			if _, err := o.CycleTime(lines[j].Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// CycleTimeFromCapacity 由 8 小时产能换算节拍时间（小时/件）
// 原始需求表按产品族给出 8h 产能，节拍 = 8 / 产能
func CycleTimeFromCapacity(capacityPer8h float64) float64 {
	if capacityPer8h <= 0 {
		return 0
	}
	return 8.0 / capacityPer8h
}
