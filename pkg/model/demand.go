package model

// DateOrder (日期, 订单) 组合键
type DateOrder struct {
	Date  string `json:"date"`
	Order string `json:"order"`
}

// Demand 需求日历
// 聚合模式按日期给出总需求（小时），订单级模式按 (日期, 订单) 给出数量
// 缺失条目一律按 0 处理，不视为错误
type Demand struct {
	ByDate      map[string]float64    `yaml:"by_date" json:"by_date"`
	ByDateOrder map[DateOrder]float64 `yaml:"-" json:"-"`
}

// NewDemand 创建空需求日历
func NewDemand() *Demand {
	return &Demand{
		ByDate:      make(map[string]float64),
		ByDateOrder: make(map[DateOrder]float64),
	}
}

// For 返回某日期的聚合需求，缺失为 0
func (d *Demand) For(date string) float64 {
	if d == nil || d.ByDate == nil {
		return 0
	}
	return d.ByDate[date]
}

// ForOrder 返回某 (日期, 订单) 的需求数量，缺失为 0
func (d *Demand) ForOrder(date, order string) float64 {
	if d == nil || d.ByDateOrder == nil {
		return 0
	}
	return d.ByDateOrder[DateOrder{Date: date, Order: order}]
}

// SetOrderDemand 设置 (日期, 订单) 需求
func (d *Demand) SetOrderDemand(date, order string, qty float64) {
	if d.ByDateOrder == nil {
		d.ByDateOrder = make(map[DateOrder]float64)
	}
	d.ByDateOrder[DateOrder{Date: date, Order: order}] = qty
}

// TotalForOrder 返回订单在整个时间轴上的总需求
func (d *Demand) TotalForOrder(timeline []string, order string) float64 {
	var total float64
	for _, date := range timeline {
		total += d.ForOrder(date, order)
	}
	return total
}

// Total 返回聚合需求总量
func (d *Demand) Total(timeline []string) float64 {
	var total float64
	for _, date := range timeline {
		total += d.For(date)
	}
	return total
}
