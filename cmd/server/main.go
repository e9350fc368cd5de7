package main

import (
	"context"
	"log"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"

	httpadapter "molttactics/internal/adapter/http"
	metricsinmem "molttactics/internal/adapter/metrics/inmemory"
	"molttactics/internal/adapter/scheduler"
	"molttactics/internal/app/action"
	"molttactics/internal/app/auth"
	"molttactics/internal/app/leaderboard"
	"molttactics/internal/app/lobby"
	"molttactics/internal/app/matches"
	"molttactics/internal/app/observe"
	"molttactics/internal/app/replay"
	"molttactics/internal/app/turn"
	"molttactics/internal/config"
	"molttactics/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal("open store", "backend", cfg.StoreBackend, "error", err)
	}
	defer func() {
		if err := st.close(); err != nil {
			logger.Warn("close store", "error", err)
		}
	}()
	locker, closeLocker, err := buildLocker(ctx, cfg)
	if err != nil {
		logger.Fatal("build locker", "error", err)
	}
	defer closeLocker()
	replays, err := buildArchive(ctx, cfg)
	if err != nil {
		logger.Fatal("build replay archive", "error", err)
	}

	hub := lobby.NewHub(cfg.Rules)
	kpi := metricsinmem.NewRecorder()
	finalizer := turn.NewFinalizer(turn.FinalizerDeps{
		Ratings:    st.ratings,
		Summaries:  st.summaries,
		Tx:         st.tx,
		Locker:     locker,
		Archive:    replays,
		Metrics:    kpi,
		OnArchived: hub.MarkArchived,
	})
	turns := turn.Service{Hub: hub, Settler: finalizer, Metrics: kpi, Now: time.Now, DebugTicks: cfg.DebugTicks}

	h := httpadapter.Handler{
		RegisterUC: auth.RegisterUseCase{Hub: hub},
		SubmitUC: action.UseCase{
			Hub:      hub,
			Verifier: auth.Verifier{Disabled: cfg.AuthDisabled},
			Metrics:  kpi,
		},
		StateUC:       observe.UseCase{Hub: hub, Ratings: st.ratings},
		ReplayUC:      replay.UseCase{Hub: hub, Archive: replays},
		LeaderboardUC: leaderboard.UseCase{Ratings: st.ratings},
		MatchesUC:     matches.UseCase{Hub: hub, Summaries: st.summaries},
		DebugUC:       matches.DebugUseCase{Hub: hub, TurnInterval: cfg.TurnInterval},
		Turns:         turns,
		Rules:         cfg.Rules,
		DebugResolve:  cfg.DebugResolve,
		KPI:           kpi,
	}

	sched, err := scheduler.New(ctx, turns, hub, scheduler.Config{
		TurnInterval: cfg.TurnInterval,
		Retention:    cfg.FinishedRetention,
	})
	if err != nil {
		logger.Fatal("build scheduler", "error", err)
	}

	finCtx, stopFinalizer := context.WithCancel(context.Background())
	finDone := make(chan struct{})
	go func() {
		defer close(finDone)
		finalizer.Run(finCtx)
	}()
	sched.Start()

	s := server.Default(server.WithHostPorts(":" + cfg.Port))
	h.RegisterRoutes(s)

	logger.Info("molttactics server listening",
		"port", cfg.Port,
		"store", cfg.StoreBackend,
		"turn_ms", cfg.TurnInterval.Milliseconds(),
		"auth_disabled", cfg.AuthDisabled,
	)
	// Spin returns after hertz has handled SIGINT/SIGTERM and drained requests.
	s.Spin()

	if err := sched.Shutdown(); err != nil {
		logger.Warn("scheduler shutdown", "error", err)
	}
	cancel()
	stopFinalizer()
	<-finDone
	logger.Info("molttactics server stopped")
}
