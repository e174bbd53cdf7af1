// Package planner 实现排产优化核心：模型构建、成本分层、累计缺口线性化与解码
package planner

import (
	"github.com/paichan/paichan/pkg/errors"
	"github.com/paichan/paichan/pkg/model"
)

// GapScope 累计缺口的统计口径
// 零值为聚合口径，聚合与订单级模式下都有效；按订单跟踪需显式开启
type GapScope int

const (
	GapAggregate GapScope = iota // 全部需求合并为单一库存口径
	GapPerOrder                  // 按订单逐一跟踪（库存/延迟按订单计）
)

// Options 模型配置
// 各历史模型变体统一为同一个可配置构建器：
// 基础聚合模型 = 全部关闭；加班/周末分层、订单级跟踪、提前延迟惩罚按需开启
type Options struct {
	Overtime     bool     `yaml:"overtime" json:"overtime"`           // 启用加班时段（关闭时加班工时固定为 0）
	WeekendTier  bool     `yaml:"weekend_tier" json:"weekend_tier"`   // 启用周末费率分层
	OrderLevel   bool     `yaml:"order_level" json:"order_level"`     // 订单级排产（qty/time 变量）
	GapPenalty   bool     `yaml:"gap_penalty" json:"gap_penalty"`     // 启用提前/延迟惩罚
	GapScope     GapScope `yaml:"gap_scope" json:"gap_scope"`         // 缺口口径
	IntegerHours bool     `yaml:"integer_hours" json:"integer_hours"` // 工时按整数建模

	InventoryCost float64 `yaml:"inventory_cost" json:"inventory_cost"` // 单位提前（库存）成本
	DelayCost     float64 `yaml:"delay_cost" json:"delay_cost"`         // 单位延迟成本
}

// DefaultOptions 返回默认配置：工作日/加班/周末三档费率，无缺口惩罚
func DefaultOptions() Options {
	return Options{
		Overtime:    true,
		WeekendTier: true,
	}
}

// Validate 校验配置组合
func (o *Options) Validate() error {
	if o.GapPenalty {
		if o.InventoryCost < 0 || o.DelayCost < 0 {
			return errors.New(errors.CodeInvalidInput, "库存/延迟单位成本不能为负")
		}
	}
	if o.GapScope == GapPerOrder && o.GapPenalty && !o.OrderLevel {
		return errors.New(errors.CodeInvalidInput, "按订单跟踪缺口需要开启订单级排产")
	}
	if o.OrderLevel && !o.GapPenalty {
		// 订单级模式只约束全局产量平衡，缺少惩罚时跨日分布不受控
		return errors.New(errors.CodeInvalidInput, "订单级排产必须开启提前/延迟惩罚")
	}
	return nil
}

// Input 一次排产求解的完整输入
// 所有实体在一次 build→solve→decode 周期内创建并消费，跨周期不复用
type Input struct {
	Timeline []string
	Lines    []model.Line
	Demand   *model.Demand
	Orders   []model.Order
	Options  Options
}

// Validate 在声明任何决策变量之前完成全部输入校验
func (in *Input) Validate() error {
	if len(in.Timeline) == 0 {
		return errors.New(errors.CodeInvalidInput, "时间轴不能为空")
	}
	if err := model.ValidateLines(in.Lines); err != nil {
		return err
	}
	if err := in.Options.Validate(); err != nil {
		return err
	}
	if in.Options.OrderLevel {
		if len(in.Orders) == 0 {
			return errors.New(errors.CodeInvalidInput, "订单级排产需要至少一个订单")
		}
		if err := model.ValidateOrders(in.Orders, in.Lines); err != nil {
			return err
		}
	}
	return nil
}
