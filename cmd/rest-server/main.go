package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/didip/tollbooth/v6"
	"github.com/didip/tollbooth/v6/limiter"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/riandyrn/otelchi"
	"go.uber.org/zap"

	"github.com/sanLimbu/task-manager/cmd/internal"
	internaldomain "github.com/sanLimbu/task-manager/internal"
	"github.com/sanLimbu/task-manager/internal/envvar"
	"github.com/sanLimbu/task-manager/internal/eventlog"
	"github.com/sanLimbu/task-manager/internal/idgen"
	"github.com/sanLimbu/task-manager/internal/memory"
	"github.com/sanLimbu/task-manager/internal/rest"
	"github.com/sanLimbu/task-manager/internal/service"
)

const serviceName = "task-manager-server"

func main() {
	var env, address string

	flag.StringVar(&env, "env", "", "Environment Variables filename")
	flag.StringVar(&address, "address", ":3000", "HTTP Server Address")
	flag.Parse()

	errC, err := run(env, address)
	if err != nil {
		log.Fatalf("Couldn't run: %s", err)
	}

	if err := <-errC; err != nil {
		log.Fatalf("Error while running: %s", err)
	}
}

func run(env, address string) (<-chan error, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "zap.NewProduction")
	}

	if err := envvar.Load(env); err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "envvar.Load")
	}

	vault, err := internal.NewVaultProvider()
	if err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "internal.NewVaultProvider")
	}

	conf := envvar.New(vault)

	ids, err := newIDGenerator(conf)
	if err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeInvalidArgument, "newIDGenerator")
	}

	rps, err := rateLimit(conf)
	if err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeInvalidArgument, "rateLimit")
	}

	metrics, shutdownOTel, err := internal.NewOTExporter(conf, serviceName)
	if err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "internal.NewOTExporter")
	}

	logging := func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Info(r.Method,
				zap.Time("time", time.Now()),
				zap.String("url", r.URL.String()),
			)

			h.ServeHTTP(w, r)
		})
	}

	srv := newServer(serverConfig{
		Address:     address,
		IDs:         ids,
		RateLimit:   rps,
		Metrics:     metrics,
		Middlewares: []func(next http.Handler) http.Handler{otelchi.Middleware(serviceName), logging},
		Logger:      logger,
	})

	errC := make(chan error, 1)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT)

	go func() {
		<-ctx.Done()

		logger.Info("Shutdown signal received")

		ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		defer func() {
			_ = logger.Sync()

			stop()
			cancel()
			close(errC)
		}()

		srv.SetKeepAlivesEnabled(false)

		if err := srv.Shutdown(ctxTimeout); err != nil {
			errC <- err
		}

		if err := shutdownOTel(ctxTimeout); err != nil {
			logger.Warn("OpenTelemetry shutdown", zap.Error(err))
		}

		logger.Info("Shutdown completed")
	}()

	go func() {
		logger.Info("Listening and serving", zap.String("address", address))

		// "ListenAndServe always returns a non-nil error. After Shutdown or Close, the returned error is
		// ErrServerClosed."
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	return errC, nil
}

func newIDGenerator(conf *envvar.Configuration) (idgen.Generator, error) {
	strategy, err := conf.GetDefault("TASK_ID_STRATEGY", "sequence")
	if err != nil {
		return nil, err
	}

	switch strategy {
	case "sequence":
		prefix, err := conf.GetDefault("TASK_ID_PREFIX", "TASK")
		if err != nil {
			return nil, err
		}

		return idgen.NewSequence(prefix), nil
	case "uuid":
		return idgen.UUID{}, nil
	}

	return nil, fmt.Errorf("unknown TASK_ID_STRATEGY %q", strategy)
}

func rateLimit(conf *envvar.Configuration) (float64, error) {
	val, err := conf.GetDefault("RATE_LIMIT_RPS", "10")
	if err != nil {
		return 0, err
	}

	rps, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("strconv.ParseFloat: %w", err)
	}

	if rps <= 0 {
		return 0, fmt.Errorf("RATE_LIMIT_RPS must be positive, got %v", rps)
	}

	return rps, nil
}

type serverConfig struct {
	Address     string
	IDs         idgen.Generator
	RateLimit   float64
	Metrics     http.Handler
	Middlewares []func(next http.Handler) http.Handler
	Logger      *zap.Logger
}

func newServer(conf serverConfig) *http.Server {
	router := chi.NewRouter()
	router.Use(render.SetContentType(render.ContentTypeJSON))

	for _, mw := range conf.Middlewares {
		router.Use(mw)
	}

	repo := memory.NewTask[internaldomain.General]()
	msgBroker := eventlog.NewTask[internaldomain.General](conf.Logger, "tasks")
	svc := service.NewTask[internaldomain.General](conf.Logger, repo, conf.IDs, msgBroker)

	rest.RegisterOpenAPI(router)
	rest.NewTaskHandler(svc).Register(router)

	router.Handle("/metrics", conf.Metrics)

	lmt := tollbooth.NewLimiter(conf.RateLimit, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Second})
	lmtmw := tollbooth.LimitHandler(lmt, router)

	return &http.Server{
		Handler:           lmtmw,
		Addr:              conf.Address,
		ReadTimeout:       1 * time.Second,
		ReadHeaderTimeout: 1 * time.Second,
		WriteTimeout:      1 * time.Second,
		IdleTimeout:       1 * time.Second,
	}
}
