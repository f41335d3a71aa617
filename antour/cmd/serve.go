package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-kit/kit/log"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/radekwlsk/go-antour/antour/antourendpoint"
	"github.com/radekwlsk/go-antour/antour/antourservice"
	"github.com/radekwlsk/go-antour/antour/antourtransport"
	"github.com/radekwlsk/go-antour/antour/config"
)

func newServeCommand(getLogger func() log.Logger) *cobra.Command {
	var (
		configPath string
		httpAddr   string
		workers    int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tour planner over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("http.addr") {
				cfg.HTTP.Addr = httpAddr
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cfg, getLogger())
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML configuration file")
	cmd.Flags().StringVar(&httpAddr, "http.addr", config.DefaultHTTPAddr, "HTTP address to listen on")
	cmd.Flags().IntVar(&workers, "workers", 0, "ants building tours at the same time")
	return cmd
}

func serve(cfg config.Config, logger log.Logger) error {
	logger.Log("msg", "antour service started")
	defer logger.Log("msg", "finished")

	var limiter *rate.Limiter
	if cfg.HTTP.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.Burst)
	}

	var (
		service     = antourservice.New(cfg.ServiceOptions(), antourservice.NewPrometheusMetrics(), logger)
		endpoints   = antourendpoint.New(service, limiter, logger)
		httpHandler = antourtransport.MakeHTTPHandler(endpoints, service, cfg.HTTP.AllowedOrigins, log.With(logger, "component", "HTTP"))
	)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	errs := make(chan error, 1)
	go func() {
		logger.Log("transport", "HTTP", "addr", cfg.HTTP.Addr)
		errs <- http.ListenAndServe(cfg.HTTP.Addr, httpHandler)
	}()

	select {
	case sig := <-sigs:
		logger.Log("exit", sig)
		return nil
	case err := <-errs:
		logger.Log("exit", err)
		return fmt.Errorf("http transport: %w", err)
	}
}
