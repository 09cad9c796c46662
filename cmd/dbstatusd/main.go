package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/Royalwole/sesame-sub001/pkg/config"
	"github.com/Royalwole/sesame-sub001/pkg/environment"
	"github.com/Royalwole/sesame-sub001/pkg/httpserver"
	"github.com/Royalwole/sesame-sub001/pkg/logger"
	"github.com/Royalwole/sesame-sub001/pkg/mongo"
	"github.com/Royalwole/sesame-sub001/pkg/requestid"
	"github.com/Royalwole/sesame-sub001/svc/dbstatus"
)

func main() {
	var (
		envCfg  environment.Config
		dbCfg   mongo.Config
		httpCfg httpserver.Config
	)
	config.MustLoad(&envCfg)
	config.MustLoad(&dbCfg)
	config.MustLoad(&httpCfg)

	log := logger.New(
		logger.WithEnvironment(string(envCfg.Environment), "dbstatusd"),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mgr := mongo.NewManager(dbCfg, mongo.WithLogger(log))
	checker := mongo.NewChecker(mgr,
		mongo.WithCheckerLogger(log),
		mongo.WithInterval(dbCfg.HealthCheckInterval(envCfg.Environment)),
	)
	go checker.Run(ctx)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	// Authorization for the reconnect action is owned by the embedding
	// application; the standalone daemon gates it with a shared token.
	r.Mount("/db", dbstatus.Routes(mgr, checker, adminTokenGate(os.Getenv("ADMIN_TOKEN")), log))

	srv := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("dbstatusd listening", slog.String("addr", httpCfg.Addr))
		}),
		httpserver.WithStopHook(func(l *slog.Logger) {
			if err := mgr.Close(context.Background()); err != nil {
				l.Error("manager shutdown failed", logger.Error(err))
			}
			l.Info("dbstatusd stopped")
		}),
	)

	if err := srv.Run(ctx, r); err != nil {
		log.Error("server exited with error", logger.Error(err))
		os.Exit(1)
	}
}
