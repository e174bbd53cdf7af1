package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/paichan/paichan/pkg/milp"
	"github.com/paichan/paichan/pkg/model"
	"github.com/paichan/paichan/pkg/planner"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("创建 sqlmock 失败: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func expectMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("SQL 期望未满足: %v", err)
	}
}

func TestLineRepository_List(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("FROM production_lines").WillReturnRows(
		sqlmock.NewRows([]string{
			"name", "reg_hours_min", "reg_hours_max", "ot_hours_min", "ot_hours_max",
			"reg_rate", "ot_rate", "weekend_rate",
		}).
			AddRow("Line_1", 7.0, 8.0, 0.0, 4.0, 245.0, 367.5, 490.0).
			AddRow("Line_2", 7.0, 8.0, 0.0, 4.0, 315.0, 472.5, 630.0),
	)

	lines, err := NewLineRepository(db).List(context.Background())
	if err != nil {
		t.Fatalf("List() 失败: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("产线数 = %d, 期望 2", len(lines))
	}
	l := lines[0]
	if l.Name != "Line_1" || l.RegularHours.Max != 8 || l.OvertimeHours.Max != 4 {
		t.Errorf("Line_1 = %+v, 扫描字段不符", l)
	}
	if l.RegularRate != 245 || l.OvertimeRate != 367.5 || l.WeekendRate != 490 {
		t.Errorf("Line_1 费率 = %+v, 扫描字段不符", l)
	}
	expectMet(t, mock)
}

func TestLineRepository_Upsert(t *testing.T) {
	db, mock := newMockDB(t)

	line := model.Line{
		Name:          "Line_1",
		RegularHours:  model.HourBounds{Min: 7, Max: 8},
		OvertimeHours: model.HourBounds{Min: 0, Max: 4},
		RegularRate:   245, OvertimeRate: 367.5, WeekendRate: 490,
	}

	mock.ExpectExec("INSERT INTO production_lines").
		WithArgs("Line_1", 7.0, 8.0, 0.0, 4.0, 245.0, 367.5, 490.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := NewLineRepository(db).Upsert(context.Background(), &line); err != nil {
		t.Fatalf("Upsert() 失败: %v", err)
	}
	expectMet(t, mock)
}

// 非法产线在发出任何 SQL 之前被校验拒绝
func TestLineRepository_UpsertInvalid(t *testing.T) {
	db, mock := newMockDB(t)

	bad := model.Line{Name: "", RegularRate: -1}
	if err := NewLineRepository(db).Upsert(context.Background(), &bad); err == nil {
		t.Fatal("非法产线应该被拒绝")
	}
	expectMet(t, mock)
}

// 同一订单跨多行（每条产线一个节拍时间）聚合为单个订单
func TestOrderRepository_List(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("FROM customer_orders").WillReturnRows(
		sqlmock.NewRows([]string{"order_id", "family", "line_name", "cycle_time"}).
			AddRow("MO-01", "A", "Line_1", 0.5).
			AddRow("MO-01", "A", "Line_2", 0.6).
			AddRow("MO-02", "B", "Line_1", 0.8),
	)

	orders, err := NewOrderRepository(db).List(context.Background())
	if err != nil {
		t.Fatalf("List() 失败: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("订单数 = %d, 期望 2", len(orders))
	}
	if orders[0].ID != "MO-01" || orders[0].Family != "A" {
		t.Errorf("首个订单 = %+v, 期望 MO-01/A", orders[0])
	}
	if ct := orders[0].CycleTimes["Line_2"]; ct != 0.6 {
		t.Errorf("MO-01 Line_2 节拍 = %v, 期望 0.6", ct)
	}
	if len(orders[1].CycleTimes) != 1 || orders[1].CycleTimes["Line_1"] != 0.8 {
		t.Errorf("MO-02 节拍 = %+v, 期望仅 Line_1: 0.8", orders[1].CycleTimes)
	}
	expectMet(t, mock)
}

func TestOrderRepository_DemandBetween(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("FROM order_demands").
		WithArgs("2020/7/13", "2020/7/15").
		WillReturnRows(
			sqlmock.NewRows([]string{"to_char", "order_id", "quantity"}).
				AddRow("2020/7/14", "MO-01", 10.0).
				AddRow("2020/7/15", "MO-02", 12.0),
		)

	demand, err := NewOrderRepository(db).DemandBetween(context.Background(), "2020/7/13", "2020/7/15")
	if err != nil {
		t.Fatalf("DemandBetween() 失败: %v", err)
	}
	if got := demand.ForOrder("2020/7/14", "MO-01"); got != 10 {
		t.Errorf("MO-01 需求 = %v, 期望 10", got)
	}
	if got := demand.ForOrder("2020/7/15", "MO-02"); got != 12 {
		t.Errorf("MO-02 需求 = %v, 期望 12", got)
	}
	// 区间内无条目的日期保持零默认
	if got := demand.ForOrder("2020/7/13", "MO-01"); got != 0 {
		t.Errorf("无条目日期需求 = %v, 期望 0", got)
	}
	expectMet(t, mock)
}

func TestResultRepository_SaveSchedule(t *testing.T) {
	db, mock := newMockDB(t)

	runID := uuid.New()
	sched := &planner.Schedule{
		RunID:     runID,
		Status:    milp.StatusOptimal,
		Objective: 100,
		Runtime:   25 * time.Millisecond,
		Timeline:  []string{"2026/3/2"},
		Cells: map[planner.CellKey]*planner.Cell{
			{Date: "2026/3/2", Line: "Line_A"}: {
				Date: "2026/3/2", Line: "Line_A", Open: true,
				RegularHours: 10, TotalHours: 10, LaborCost: 100,
			},
		},
		Allocations: []planner.Allocation{
			{Date: "2026/3/2", Order: "MO-01", Line: "Line_A", Quantity: 20, Hours: 10},
		},
	}

	mock.ExpectExec("INSERT INTO plan_runs").
		WithArgs(runID, "optimal", 100.0, int64(25), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO plan_cells").
		WithArgs(runID, "2026/3/2", "Line_A", true, 10.0, 0.0, 10.0, 0.0, 100.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO plan_allocations").
		WithArgs(runID, "2026/3/2", "MO-01", "Line_A", 20.0, 10.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := NewResultRepository(db).SaveSchedule(context.Background(), sched); err != nil {
		t.Fatalf("SaveSchedule() 失败: %v", err)
	}
	expectMet(t, mock)
}

func TestResultRepository_LatestRunID(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("FROM plan_runs").WillReturnRows(
		sqlmock.NewRows([]string{"run_id"}).AddRow("a2f1"),
	)

	runID, err := NewResultRepository(db).LatestRunID(context.Background())
	if err != nil {
		t.Fatalf("LatestRunID() 失败: %v", err)
	}
	if runID != "a2f1" {
		t.Errorf("run_id = %s, 期望 a2f1", runID)
	}
	expectMet(t, mock)
}

// 没有任何运行记录时返回空串而不是错误
func TestResultRepository_LatestRunIDEmpty(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("FROM plan_runs").WillReturnError(sql.ErrNoRows)

	runID, err := NewResultRepository(db).LatestRunID(context.Background())
	if err != nil {
		t.Fatalf("LatestRunID() 失败: %v", err)
	}
	if runID != "" {
		t.Errorf("run_id = %q, 期望空串", runID)
	}
	expectMet(t, mock)
}
