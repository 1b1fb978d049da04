package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/KristineNinua/ETL-Pipeline-with-Alpha-Vantage/internal/alphavantage"
	"github.com/KristineNinua/ETL-Pipeline-with-Alpha-Vantage/internal/api"
	"github.com/KristineNinua/ETL-Pipeline-with-Alpha-Vantage/internal/config"
	"github.com/KristineNinua/ETL-Pipeline-with-Alpha-Vantage/internal/database"
	"github.com/KristineNinua/ETL-Pipeline-with-Alpha-Vantage/internal/pipeline"
	"github.com/KristineNinua/ETL-Pipeline-with-Alpha-Vantage/internal/rawstore"
	"github.com/KristineNinua/ETL-Pipeline-with-Alpha-Vantage/internal/scheduler"
)

func main() {
	schedule := flag.Bool("schedule", false, "run on the configured cron schedule and serve the HTTP API instead of exiting after one run")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	client := alphavantage.NewClient(cfg.AlphaVantage.BaseURL, cfg.AlphaVantage.APIKey)
	store, err := rawstore.New(cfg.Pipeline.RawDataDir, client, cfg.Pipeline.FetchEnabled)
	if err != nil {
		log.Fatalf("Failed to initialize raw store: %v", err)
	}

	p := pipeline.New(store, db, cfg.Pipeline.Symbols, cfg.Pipeline.RateLimitPause)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !*schedule {
		summary, err := p.Run(ctx)
		if err != nil {
			log.Fatalf("Pipeline run failed: %v", err)
		}
		if len(summary.Failures) > 0 {
			for _, f := range summary.Failures {
				log.Printf("Symbol %s failed at %s: %s", f.Symbol, f.Stage, f.Reason)
			}
		}
		return
	}

	runs := &api.RunRecorder{}
	sched := scheduler.New(p, runs.Record)
	if err := sched.Start(ctx, cfg.Scheduler.CronSpec); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// One immediate run so a fresh deployment has data before the first tick.
	go sched.RunOnce(ctx)

	router := api.SetupRoutes(api.NewHandler(db, runs))
	server := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	if err := server.Shutdown(context.Background()); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
}
