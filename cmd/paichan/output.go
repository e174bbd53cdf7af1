package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/paichan/paichan/pkg/planner"
	"github.com/paichan/paichan/pkg/stats"
)

// Report 一次排产的完整输出
type Report struct {
	Schedule    *planner.Schedule        `json:"schedule"`
	Statistics  *planner.Statistics      `json:"statistics"`
	Cost        *stats.CostBreakdown     `json:"cost"`
	Utilization *stats.UtilizationReport `json:"utilization"`
}

// WriteJSON 输出 JSON 报表
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteTable 输出可读表格报表
func (r *Report) WriteTable(w io.Writer) error {
	sched := r.Schedule

	fmt.Fprintf(w, "排产计划 %s\n", sched.RunID)
	fmt.Fprintf(w, "状态: %s  目标值: %.2f  求解耗时: %s\n\n",
		sched.Status, sched.Objective, sched.Runtime)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "日期\t产线\t开线\t正常班\t加班\t总工时\t成本")
	for _, date := range sched.Timeline {
		for _, u := range r.Utilization.Lines {
			c := sched.Cell(date, u.Line)
			if c == nil {
				continue
			}
			openMark := "-"
			if c.Open {
				openMark = "开"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%.1f\t%.1f\t%.2f\n",
				date, c.Line, openMark,
				c.RegularHours, c.OvertimeHours, c.TotalHours, c.LaborCost)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(sched.Allocations) > 0 {
		fmt.Fprintln(w, "\n订单分配")
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "日期\t订单\t产线\t数量\t耗时")
		for _, a := range sched.Allocations {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f\t%.2f\n",
				a.Date, a.Order, a.Line, a.Quantity, a.Hours)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, "\n成本分解")
	fmt.Fprintf(w, "  合计: %s  工作日: %s  周末: %s\n",
		r.Cost.Total, r.Cost.WeekdayCost, r.Cost.WeekendCost)

	fmt.Fprintln(w, "\n产线利用率")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "产线\t开线天数\t总工时\t负荷%\t加班%")
	for _, u := range r.Utilization.Lines {
		fmt.Fprintf(tw, "%s\t%d/%d\t%.1f\t%.1f\t%.1f\n",
			u.Line, u.DaysOpen, u.DaysTotal, u.TotalHours, u.LoadPct, u.OvertimePct)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n模型规模: %d 变量 / %d 约束  构建 %s  求解 %s\n",
		r.Statistics.Variables, r.Statistics.Constraints,
		r.Statistics.BuildTime, r.Statistics.SolveTime)

	return nil
}
