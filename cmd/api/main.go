// Command api serves the HTTP front door for the agent: it forwards prompts
// and signals to Temporal and answers polling queries for history, state and
// tool data.
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
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	"goa.design/clue/log"

	"github.com/harmonia-ai/harmonia/config"
	"github.com/harmonia-ai/harmonia/httpapi"
)

func main() {
	format := log.FormatJSON
	if log.IsTerminal() {
		format = log.FormatTerminal
	}
	ctx := log.Context(context.Background(), log.WithFormat(format))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf(ctx, err, "load configuration")
	}
	if cfg.Debug {
		ctx = log.Context(ctx, log.WithDebug())
	}
	log.Print(ctx, log.KV{K: "http-addr", V: cfg.HTTPAddr}, log.KV{K: "temporal", V: cfg.TemporalAddress})

	opts := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
	}
	if !cfg.DisableTracing {
		tracer, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{})
		if err != nil {
			log.Fatalf(ctx, err, "configure tracing interceptor")
		}
		opts.Interceptors = append(opts.Interceptors, tracer)
	}
	c, err := client.Dial(opts)
	if err != nil {
		log.Fatalf(ctx, err, "connect to temporal")
	}
	defer c.Close()

	e := echo.New()
	e.HideBanner = true
	httpapi.New(c, cfg).Routes(e)

	errc := make(chan error, 1)
	go func() {
		log.Printf(ctx, "listening on %s", cfg.HTTPAddr)
		errc <- e.Start(cfg.HTTPAddr)
	}()
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		errc <- errors.New((<-sig).String())
	}()

	log.Printf(ctx, "exiting (%v)", <-errc)
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf(ctx, err, "shutdown http server")
	}
	log.Printf(ctx, "exited")
}
