// Package scenario 提供 YAML 排产场景的加载与解析
// 场景文件描述一次完整求解的输入：时间轴、产线、需求、订单与模型开关
package scenario

import (
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/paichan/paichan/pkg/errors"
	"github.com/paichan/paichan/pkg/model"
	"github.com/paichan/paichan/pkg/planner"
)

// Scenario 排产场景
type Scenario struct {
	Name string `yaml:"name"`

	// 时间轴二选一：显式日期列表，或由 span 自动展开
	Timeline []string `yaml:"timeline"`
	Span     *Span    `yaml:"span"`

	Lines  []model.Line `yaml:"lines"`
	Orders []OrderSpec  `yaml:"orders"`

	// 聚合需求：日期 → 小时
	Demand map[string]float64 `yaml:"demand"`

	// 缺省时由调用方注入默认配置
	Options *planner.Options `yaml:"options"`
}

// Span 连续日历区间（含两端）
type Span struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// OrderSpec 订单定义
// cycle_times 缺省时由 capacities 推导（节拍 = 8 / 日产能）
type OrderSpec struct {
	ID         string             `yaml:"id"`
	Family     string             `yaml:"family"`
	CycleTimes map[string]float64 `yaml:"cycle_times"`
	Capacities map[string]float64 `yaml:"capacities"`

	// 交货需求：日期 → 数量
	Demand map[string]float64 `yaml:"demand"`
}

// Load 从 YAML 文件加载场景
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "读取场景文件失败")
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "解析场景文件失败")
	}
	return &sc, nil
}

// Input 把场景转换为求解输入
// 时间轴缺省时由需求日期自动推导：最早到最晚交货日的连续日历
func (sc *Scenario) Input() (*planner.Input, error) {
	demand := model.NewDemand()
	for date, hours := range sc.Demand {
		demand.ByDate[date] = hours
	}

	orders := make([]model.Order, 0, len(sc.Orders))
	for _, spec := range sc.Orders {
		o := model.Order{ID: spec.ID, Family: spec.Family, CycleTimes: spec.CycleTimes}
		if o.CycleTimes == nil {
			o.CycleTimes = make(map[string]float64, len(spec.Capacities))
		}
		for line, cap := range spec.Capacities {
			if _, ok := o.CycleTimes[line]; ok {
				continue
			}
			ct := model.CycleTimeFromCapacity(cap)
			if ct <= 0 {
				return nil, errors.New(errors.CodeInvalidInput, "订单产能必须为正").
					WithField("order", spec.ID).WithField("line", line)
			}
			o.CycleTimes[line] = ct
		}
		orders = append(orders, o)

		for date, qty := range spec.Demand {
			demand.SetOrderDemand(date, spec.ID, qty)
		}
	}

	timeline, err := sc.resolveTimeline(demand)
	if err != nil {
		return nil, err
	}

	opts := planner.DefaultOptions()
	if sc.Options != nil {
		opts = *sc.Options
	}

	return &planner.Input{
		Timeline: timeline,
		Lines:    sc.Lines,
		Demand:   demand,
		Orders:   orders,
		Options:  opts,
	}, nil
}

// resolveTimeline 按优先级确定时间轴：显式列表 > span 展开 > 需求日期推导
func (sc *Scenario) resolveTimeline(demand *model.Demand) ([]string, error) {
	if len(sc.Timeline) > 0 {
		return sc.Timeline, nil
	}
	if sc.Span != nil {
		return model.SpanCalendar(sc.Span.Start, sc.Span.End)
	}

	dates := make(map[string]bool)
	for date := range demand.ByDate {
		dates[date] = true
	}
	for key := range demand.ByDateOrder {
		dates[key.Date] = true
	}
	if len(dates) == 0 {
		return nil, errors.New(errors.CodeInvalidInput, "场景缺少时间轴且无需求日期可推导")
	}

	sorted := make([]string, 0, len(dates))
	for d := range dates {
		sorted = append(sorted, d)
	}
	if err := sortDates(sorted); err != nil {
		return nil, err
	}
	return model.SpanCalendar(sorted[0], sorted[len(sorted)-1])
}

// sortDates 按日历序排序 Y/M/D 日期（字典序对非补零格式不正确）
func sortDates(dates []string) error {
	type parsed struct {
		raw string
		key int64
	}
	ps := make([]parsed, len(dates))
	for i, d := range dates {
		t, err := model.ParseDate(d)
		if err != nil {
			return err
		}
		ps[i] = parsed{raw: d, key: t.Unix()}
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].key < ps[j].key })
	for i := range ps {
		dates[i] = ps[i].raw
	}
	return nil
}
