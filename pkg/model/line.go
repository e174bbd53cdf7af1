package model

import (
	"github.com/paichan/paichan/pkg/errors"
)

// HourBounds 工时上下界（产线开启时生效）
type HourBounds struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Line 产线（工作中心）
// 各产线相互独立，仅成本与产能参数不同
type Line struct {
	Name          string     `yaml:"name" json:"name"`
	RegularHours  HourBounds `yaml:"regular_hours" json:"regular_hours"`   // 正常班工时界，如 [7,8] 或 [7,12]
	OvertimeHours HourBounds `yaml:"overtime_hours" json:"overtime_hours"` // 加班工时界，如 [0,4]
	RegularRate   float64    `yaml:"regular_rate" json:"regular_rate"`     // 正常班小时费率
	OvertimeRate  float64    `yaml:"overtime_rate" json:"overtime_rate"`   // 加班小时费率
	WeekendRate   float64    `yaml:"weekend_rate" json:"weekend_rate"`     // 周末小时费率（不区分正常/加班）
}

// MaxHours 返回产线单日最大工时
func (l *Line) MaxHours() float64 {
	return l.RegularHours.Max + l.OvertimeHours.Max
}

// MinHours 返回产线开启时的单日最小工时
func (l *Line) MinHours() float64 {
	return l.RegularHours.Min + l.OvertimeHours.Min
}

// Validate 校验产线参数
func (l *Line) Validate() error {
	ve := &errors.ValidationErrors{}

	if l.Name == "" {
		ve.Add("name", "产线名称不能为空")
	}
	if l.RegularHours.Min < 0 || l.RegularHours.Max < l.RegularHours.Min {
		ve.Add("regular_hours", "正常班工时界无效")
	}
	if l.OvertimeHours.Min < 0 || l.OvertimeHours.Max < l.OvertimeHours.Min {
		ve.Add("overtime_hours", "加班工时界无效")
	}
	if l.RegularRate < 0 || l.OvertimeRate < 0 || l.WeekendRate < 0 {
		ve.Add("rates", "费率不能为负")
	}

	if ve.HasErrors() {
		return ve.ToAppError().WithField("line", l.Name)
	}
	return nil
}

// ValidateLines 校验产线集合（名称唯一）
func ValidateLines(lines []Line) error {
	if len(lines) == 0 {
		return errors.New(errors.CodeInvalidInput, "至少需要一条产线")
	}

	seen := make(map[string]bool, len(lines))
	for i := range lines {
		if err := lines[i].Validate(); err != nil {
			return err
		}
		if seen[lines[i].Name] {
			return errors.New(errors.CodeInvalidInput, "产线名称重复").WithField("line", lines[i].Name)
		}
		seen[lines[i].Name] = true
	}
	return nil
}
