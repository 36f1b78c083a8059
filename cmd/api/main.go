package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"altrion-client/internal/adapter/apiclient"
	httpadp "altrion-client/internal/adapter/http"
	mw "altrion-client/internal/adapter/middleware"
	"altrion-client/internal/adapter/pricing"
	"altrion-client/internal/adapter/repository/mysql"
	"altrion-client/internal/adapter/repository/redisstore"
	"altrion-client/internal/config"
	"altrion-client/internal/domain/form"
	"altrion-client/internal/domain/kv"
	"altrion-client/internal/infrastructure/cache"
	"altrion-client/internal/infrastructure/db"
	"altrion-client/internal/logger"
	"altrion-client/internal/query"
	authsvc "altrion-client/internal/service/auth"
	platformsvc "altrion-client/internal/service/platform"
	portfoliosvc "altrion-client/internal/service/portfolio"
	"altrion-client/internal/store"
	"altrion-client/internal/usecase/dashboard"
	"altrion-client/internal/usecase/linking"
	loanuc "altrion-client/internal/usecase/loan"
	"altrion-client/internal/usecase/loanflow"
	"altrion-client/internal/usecase/session"
)

const redisPrefix = "altrion:"

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	gdb, err := db.OpenGorm(cfg.StoreDriver, cfg.DSN(), log)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	if err := mysql.Migrate(gdb); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	// Redis backs the document store when selected and the action guard when reachable.
	rdb, err := cache.OpenRedis(context.Background(), cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	switch {
	case err != nil && cfg.StoreBackend == config.BackendRedis:
		log.Fatal("open redis", zap.Error(err))
	case err != nil:
		log.Warn("redis unavailable, duplicate action guard disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	default:
		defer func() { _ = rdb.Close() }()
	}

	var docs kv.Store = mysql.NewDocumentStore(gdb)
	if cfg.StoreBackend == config.BackendRedis {
		docs = redisstore.NewDocumentStore(rdb, redisPrefix)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// stores
	authStore := store.NewAuthStore(docs, log)
	defer authStore.Close()
	portfolioStore := store.NewPortfolioStore(docs, log)
	defer portfolioStore.Close()
	prefs := store.NewPrefsStore(docs)
	defer prefs.Close()
	loans := store.NewLoanStore(mysql.NewApplicationRepository(gdb), docs, log)
	defer loans.Close()

	if err := authStore.Hydrate(ctx); err != nil {
		log.Warn("hydrate session", zap.Error(err))
	}
	if err := portfolioStore.Hydrate(ctx); err != nil {
		log.Warn("hydrate portfolio", zap.Error(err))
	}

	// backends
	api := apiclient.New(cfg.APIURL, cfg.APITimeout, authStore, apiclient.WithLogger(log))
	calc, err := pricing.New(cfg.LoanAPIURL, cfg.APITimeout, log)
	if err != nil {
		log.Fatal("pricing client", zap.Error(err))
	}
	platforms := platformsvc.New(api)

	queries := query.NewClient(log)
	go queries.Run(ctx)

	// usecases
	dash := dashboard.NewUsecase(portfoliosvc.New(api), platforms, queries, portfolioStore, log)
	machine := loanflow.NewMachine(calc, loans, log)
	links := linking.NewFlow(dash, platforms, prefs, cfg.LinkPace, dash.Linked, log)
	sessions := session.NewUsecase(authsvc.New(api, cfg.APIURL, log), authStore, prefs, log,
		dash,
		session.ResetFunc(func(context.Context) error {
			machine.Reset()
			return nil
		}),
		session.ResetFunc(func(context.Context) error {
			links.Reset()
			return nil
		}),
	)

	e := echo.New()
	e.HideBanner = true
	e.Validator = form.NewValidator()
	e.HTTPErrorHandler = httpadp.ErrorHandler
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency))
			return nil
		},
	}))
	e.Use(middleware.Recover(), httpadp.CountRequests)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	router := &httpadp.Router{
		Base:      httpadp.NewHandler(),
		Auth:      httpadp.NewAuthHandler(sessions),
		Connect:   httpadp.NewConnectHandler(dash, links),
		Dashboard: httpadp.NewDashboardHandler(dash),
		Loan:      httpadp.NewLoanHandler(machine, dash, loanuc.NewUsecase(loans)),
		Session:   authStore,
		Names:     prefs,
	}
	if rdb != nil {
		router.Actions = mw.ActionGuard(rdb, cfg.ActionGuardTTL(), log)
	}
	router.Register(e)

	addr := ":" + cfg.AppPort
	go func() {
		log.Info("listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}
