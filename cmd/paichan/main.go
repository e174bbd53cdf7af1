// PaiChan 排产优化引擎
// 主程序入口

package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/paichan/paichan/internal/config"
	"github.com/paichan/paichan/internal/database"
	"github.com/paichan/paichan/internal/repository"
	"github.com/paichan/paichan/internal/scenario"
	"github.com/paichan/paichan/pkg/errors"
	"github.com/paichan/paichan/pkg/logger"
	"github.com/paichan/paichan/pkg/milp/lpsolve"
	"github.com/paichan/paichan/pkg/model"
	"github.com/paichan/paichan/pkg/planner"
	"github.com/paichan/paichan/pkg/stats"
)

// 构建信息（通过 ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	var (
		scenarioPath = flag.String("scenario", "", "排产场景 YAML 文件路径")
		fromDB       = flag.Bool("from-db", false, "从数据库加载排产输入（订单级模式）")
		start        = flag.String("start", "", "数据库模式的时间轴起始日期 (Y/M/D)")
		end          = flag.String("end", "", "数据库模式的时间轴结束日期 (Y/M/D)")
		seedLines    = flag.Bool("seed-lines", false, "把场景文件中的产线定义写入数据库后退出")
		format       = flag.String("format", "table", "输出格式: table/json")
		save         = flag.Bool("save", false, "把排产结果写入数据库")
		showVersion  = flag.Bool("version", false, "打印版本信息")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("PaiChan 排产引擎 v%s\n", Version)
		fmt.Printf("Build: %s (%s)\n", BuildTime, GitCommit)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 开发环境用彩色控制台，其余环境输出结构化 JSON
	logFormat := "json"
	if cfg.IsDevelopment() {
		logFormat = "console"
	}
	logger.Init(logger.Config{
		Level:  cfg.App.LogLevel,
		Format: logFormat,
	})

	if !*fromDB && *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "用法: paichan -scenario <场景文件> | -from-db -start <Y/M/D> -end <Y/M/D>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if *seedLines {
		if err := seed(cfg, *scenarioPath); err != nil {
			fail(err)
		}
		return
	}

	var in *planner.Input
	if *fromDB {
		in, err = inputFromDB(cfg, *start, *end)
	} else {
		in, err = inputFromScenario(cfg, *scenarioPath)
	}
	if err != nil {
		fail(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Solver.Timeout)
	defer cancel()

	p := planner.New(lpsolve.New())
	sched, st, err := p.Plan(ctx, in)
	if err != nil {
		fail(err)
	}

	tp, err := model.NewTimePeriod(in.Timeline)
	if err != nil {
		fail(err)
	}

	report := &Report{
		Schedule:    sched,
		Statistics:  st,
		Cost:        stats.NewCostAnalyzer(tp).Analyze(sched),
		Utilization: stats.NewUtilizationAnalyzer(in.Lines).Analyze(sched),
	}

	switch *format {
	case "json":
		err = report.WriteJSON(os.Stdout)
	default:
		err = report.WriteTable(os.Stdout)
	}
	if err != nil {
		fail(err)
	}

	if *save {
		if err := persist(cfg, sched); err != nil {
			fail(err)
		}
	}
}

// inputFromScenario 从场景文件装配排产输入
func inputFromScenario(cfg *config.Config, path string) (*planner.Input, error) {
	sc, err := scenario.Load(path)
	if err != nil {
		return nil, err
	}

	// 场景未给出模型开关时用环境配置的默认值
	if sc.Options == nil {
		sc.Options = &planner.Options{
			Overtime:      cfg.Planner.Overtime,
			WeekendTier:   cfg.Planner.WeekendTier,
			IntegerHours:  cfg.Planner.IntegerHours,
			InventoryCost: cfg.Planner.InventoryCost,
			DelayCost:     cfg.Planner.DelayCost,
		}
	}

	return sc.Input()
}

// inputFromDB 从数据库装配订单级排产输入
// 时间轴由起止日期展开；产线/订单/需求分别来自各自的表
func inputFromDB(cfg *config.Config, start, end string) (*planner.Input, error) {
	if start == "" || end == "" {
		return nil, errors.New(errors.CodeInvalidInput, "数据库模式需要 -start 与 -end 日期")
	}
	timeline, err := model.SpanCalendar(start, end)
	if err != nil {
		return nil, err
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Solver.Timeout)
	defer cancel()

	lines, err := repository.NewLineRepository(db).List(ctx)
	if err != nil {
		return nil, err
	}

	orderRepo := repository.NewOrderRepository(db)
	orders, err := orderRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	demand, err := orderRepo.DemandBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	if last, err := repository.NewResultRepository(db).LatestRunID(ctx); err == nil && last != "" {
		logger.Info().Str("run_id", last).Msg("最近一次已保存的排产运行")
	}

	return &planner.Input{
		Timeline: timeline,
		Lines:    lines,
		Demand:   demand,
		Orders:   orders,
		Options: planner.Options{
			Overtime:      cfg.Planner.Overtime,
			WeekendTier:   cfg.Planner.WeekendTier,
			IntegerHours:  cfg.Planner.IntegerHours,
			OrderLevel:    true,
			GapPenalty:    true,
			GapScope:      planner.GapPerOrder,
			InventoryCost: cfg.Planner.InventoryCost,
			DelayCost:     cfg.Planner.DelayCost,
		},
	}, nil
}

// seed 把场景文件中的产线定义写入数据库
func seed(cfg *config.Config, path string) error {
	if path == "" {
		return errors.New(errors.CodeInvalidInput, "-seed-lines 需要 -scenario 场景文件")
	}
	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Solver.Timeout)
	defer cancel()

	repo := repository.NewLineRepository(db)
	for i := range sc.Lines {
		if err := repo.Upsert(ctx, &sc.Lines[i]); err != nil {
			return err
		}
	}

	logger.Info().Int("lines", len(sc.Lines)).Msg("产线定义已写入数据库")
	return nil
}

// persist 把排产结果写入数据库（单事务）
func persist(cfg *config.Config, sched *planner.Schedule) error {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Solver.Timeout)
	defer cancel()

	return db.Transaction(ctx, func(tx *sql.Tx) error {
		return repository.NewResultRepository(tx).SaveSchedule(ctx, sched)
	})
}

// fail 打印错误码与消息后退出
func fail(err error) {
	logger.Error().
		Str("code", string(errors.GetCode(err))).
		Err(err).
		Msg("排产失败")
	os.Exit(1)
}
