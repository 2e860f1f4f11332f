package appbuilder

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"fairpass/pkg/logger"
	"fairpass/pkg/rabbitmq"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 15 * time.Second

type Application struct {
	Logger         *logger.Logger
	Addr           string
	WorkerServices []rabbitmq.WorkerService
	Engine         *gin.Engine
	Closers        []func() error
}

// Start blocks until SIGINT or SIGTERM, then drains the HTTP server and workers.
func (a *Application) Start() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		a.Logger.Fatal(err, "Application stopped with error")
	}
}

func (a *Application) Run(ctx context.Context) error {
	a.Logger.Info("Starting Application runtime...")

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	var wg sync.WaitGroup
	for _, ws := range a.WorkerServices {
		a.Logger.Infof("Starting %s WorkerService", ws.GetServiceName())
		wg.Add(1)
		go func(ws rabbitmq.WorkerService) {
			defer wg.Done()
			ws.StartService(workerCtx)
		}(ws)
	}

	server := &http.Server{
		Addr:              a.Addr,
		Handler:           a.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.Logger.Infof("REST API is now listening on: %s", a.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("Shutdown requested")
	case runErr = <-serveErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error(err, "HTTP server shutdown failed")
	}

	cancelWorkers()
	wg.Wait()

	for _, closer := range a.Closers {
		if err := closer(); err != nil {
			a.Logger.Error(err, "Shutdown hook failed")
		}
	}
	a.Logger.Info("Application stopped")
	return runErr
}
