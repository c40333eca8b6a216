// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"
	internal_archive "github.com/rapidaai/scribe/api/scribe-api/internal/archive"
	internal_capture "github.com/rapidaai/scribe/api/scribe-api/internal/audio/capture"
	internal_availability "github.com/rapidaai/scribe/api/scribe-api/internal/availability"
	internal_display "github.com/rapidaai/scribe/api/scribe-api/internal/display"
	internal_session "github.com/rapidaai/scribe/api/scribe-api/internal/session"
	internal_transformer "github.com/rapidaai/scribe/api/scribe-api/internal/transformer"
	internal_type "github.com/rapidaai/scribe/api/scribe-api/internal/type"
	scribe_mcp "github.com/rapidaai/scribe/api/scribe-api/mcp"
	scribe_routers "github.com/rapidaai/scribe/api/scribe-api/router"
	"github.com/rapidaai/scribe/config"
	"github.com/rapidaai/scribe/pkg/commons"
	"github.com/rapidaai/scribe/pkg/connectors"
	"github.com/rapidaai/scribe/pkg/utils"
)

type AppRunner struct {
	E          *gin.Engine
	Cfg        *config.AppConfig
	Logger     commons.Logger
	Device     *internal_capture.Device
	Hub        *internal_display.Hub
	Controller *internal_session.SessionController
	Mcp        *server.MCPServer

	availability internal_type.ModelAvailability
	closers      []func(context.Context) error
	migrate      func(context.Context) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appRunner := AppRunner{}
	if err := appRunner.ResolveConfig(); err != nil {
		log.Fatalf("unable to resolve config: %v", err)
	}
	appRunner.E = gin.New()
	if err := appRunner.Logging(); err != nil {
		log.Fatalf("unable to initialize logger: %v", err)
	}
	defer appRunner.Logger.Sync()

	if err := appRunner.Init(ctx); err != nil {
		appRunner.Logger.Fatalf("unable to initialize application: %v", err)
	}
	defer appRunner.Close()

	appRunner.Migrate(ctx)
	appRunner.AllMiddlewares()
	appRunner.AllRouters()

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", appRunner.Cfg.Host, appRunner.Cfg.Port),
		Handler: appRunner.E,
	}
	go func() {
		appRunner.Logger.Infof("scribe-api listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appRunner.Logger.Fatalf("server failed: %v", err)
		}
	}()
	if appRunner.Cfg.Mcp.Transport == "stdio" {
		go func() {
			if err := server.ServeStdio(appRunner.Mcp); err != nil {
				appRunner.Logger.Errorf("mcp stdio stopped: %v", err)
			}
		}()
	}

	<-ctx.Done()
	appRunner.Logger.Info("shutting down, waiting for queued segments")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	appRunner.Controller.Stop()
	if err := appRunner.Controller.Wait(shutdownCtx); err != nil {
		appRunner.Logger.Warnf("session did not drain before shutdown: %v", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appRunner.Logger.Errorf("server shutdown: %v", err)
	}
}

func (app *AppRunner) ResolveConfig() error {
	vConfig, err := config.InitConfig()
	if err != nil {
		return err
	}
	cfg, err := config.GetApplicationConfig(vConfig)
	if err != nil {
		return err
	}
	app.Cfg = cfg
	if utils.FromEnvironmentStr(cfg.Env) == utils.PRODUCTION {
		gin.SetMode(gin.ReleaseMode)
	}
	return nil
}

func (app *AppRunner) Logging() error {
	console := app.Cfg.Mcp.Transport != "stdio"
	if !console && app.Cfg.LogPath == "" {
		return errors.New("mcp over stdio needs LOG_PATH, stdout is reserved for the protocol")
	}
	logger, err := commons.NewApplicationLogger(
		commons.Name(app.Cfg.Name),
		commons.Level(app.Cfg.LogLevel),
		commons.Path(app.Cfg.LogPath),
		commons.Console(console),
	)
	if err != nil {
		return err
	}
	app.Logger = logger
	return nil
}

// Init builds the capture device, providers, sinks and the controller.
func (app *AppRunner) Init(ctx context.Context) error {
	device, err := internal_capture.NewDevice(app.Logger, internal_capture.Config{
		SampleRate: app.Cfg.Audio.SampleRate,
		Channels:   app.Cfg.Audio.Channels,
		Encoding:   app.Cfg.Audio.Encoding,
	})
	if err != nil {
		return err
	}
	app.Device = device

	stt, err := internal_transformer.NewSpeechToText(ctx, app.Logger, app.Cfg.Transcriber)
	if err != nil {
		return err
	}
	summarizer, err := internal_transformer.NewSummarizer(ctx, app.Logger, app.Cfg.Summarizer)
	if err != nil {
		return err
	}

	app.Hub = internal_display.NewHub(app.Logger)
	sinks := internal_type.DisplaySinks{internal_display.NewLogSink(app.Logger), app.Hub}
	if app.Cfg.Redis.Enabled() {
		redis := connectors.NewRedisConnector(app.Cfg.Redis, app.Logger)
		if err := redis.Connect(ctx); err != nil {
			return err
		}
		app.closers = append(app.closers, redis.Disconnect)
		sinks = append(sinks, internal_display.NewRedisSink(app.Logger, redis.GetConnection(), app.Cfg.Redis.Channel))
	}

	if app.Cfg.Availability.Url != "" {
		app.availability = internal_availability.NewHTTPAvailability(app.Logger, app.Cfg.Availability.Url, app.Cfg.Availability.Timeout)
	} else {
		app.availability = internal_availability.NewStaticAvailability(true)
	}

	opts := []internal_session.Option{
		internal_session.WithAvailability(app.availability),
		internal_session.WithDefaults(internal_type.SessionParameters{
			InputLanguage:          app.Cfg.Session.InputLanguage,
			OutputLanguage:         app.Cfg.Session.OutputLanguage,
			TotalDurationSeconds:   app.Cfg.Session.TotalDurationSeconds,
			SegmentDurationSeconds: app.Cfg.Session.SegmentDurationSeconds,
		}),
		internal_session.WithTranscriptDeltas(app.Hub.RenderDelta),
	}
	if app.Cfg.Session.TickInterval > 0 {
		opts = append(opts, internal_session.WithTickInterval(app.Cfg.Session.TickInterval))
	}
	if app.Cfg.Summarizer.Prompt != "" {
		opts = append(opts, internal_session.WithSummaryPrompt(app.Cfg.Summarizer.Prompt))
	}
	if app.Cfg.Archive.Enabled() {
		db := connectors.NewDatabaseConnector(app.Cfg.Archive, app.Logger)
		if err := db.Connect(ctx); err != nil {
			return err
		}
		app.closers = append(app.closers, db.Disconnect)
		archive := internal_archive.NewArchive(app.Logger, db)
		opts = append(opts, internal_session.WithArchive(archive))
		app.migrate = archive.Migrate
	}

	controller, err := internal_session.NewSessionController(app.Logger, device, stt, summarizer, sinks, opts...)
	if err != nil {
		return err
	}
	app.Controller = controller
	if app.Cfg.Mcp.Transport != "disabled" {
		app.Mcp = scribe_mcp.NewServer(app.Cfg.Name, app.Cfg.Version, app.Logger, controller)
	}
	return nil
}

func (app *AppRunner) Migrate(ctx context.Context) {
	if app.migrate == nil {
		return
	}
	if err := app.migrate(ctx); err != nil {
		app.Logger.Fatalf("archive migration failed: %v", err)
	}
}

func (app *AppRunner) AllMiddlewares() {
	app.E.Use(gin.Recovery())
	app.E.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Mcp-Session-Id"},
		ExposeHeaders:    []string{"Content-Length", "Mcp-Session-Id"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	app.E.Use(app.requestLogger())
}

func (app *AppRunner) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		app.Logger.Debugw("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (app *AppRunner) AllRouters() {
	scribe_routers.HealthCheckRoutes(app.Cfg, app.E, app.Logger, app.availability)
	scribe_routers.SessionRoutes(app.Cfg, app.E, app.Logger, app.Controller, app.Hub, app.Device)
	if app.Mcp != nil && app.Cfg.Mcp.Transport == "http" {
		scribe_routers.McpRoutes(app.Cfg, app.E, app.Logger, app.Mcp)
	}
}

func (app *AppRunner) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](ctx); err != nil {
			app.Logger.Warnf("closing connector: %v", err)
		}
	}
}
