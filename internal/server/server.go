package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hyunjin-oh/coursechat/config"
	"github.com/hyunjin-oh/coursechat/internal/chat"
	"github.com/hyunjin-oh/coursechat/internal/followup"
	"github.com/hyunjin-oh/coursechat/internal/history"
	"github.com/hyunjin-oh/coursechat/internal/search"
	"github.com/hyunjin-oh/coursechat/provider"
)

// Run wires the service together and serves the HTTP API.
func Run(cfg *config.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	hist, err := newHistoryStore(cfg)
	if err != nil {
		return err
	}

	llm, err := provider.NewProvider(provider.OpenAI, cfg.Providers.OpenAI)
	if err != nil {
		return err
	}

	engine := search.NewEngine(cfg.Search, cfg.Dataset.Path, llm, hist)
	resolver := followup.NewResolver(hist)
	svc := chat.NewService(cfg, llm, hist, engine, resolver)

	api := e.Group("/api")
	sh := &SearchHandler{Engine: engine, TopK: cfg.Search.TopK}
	sh.Register(api)
	ch := &ChatHandler{Service: svc, History: hist}
	ch.Register(api)

	addr := cfg.General.Listen
	if addr == "" {
		addr = ":8090"
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}

// newHistoryStore selects the conversation memory backend from config.
func newHistoryStore(cfg *config.Config) (history.Store, error) {
	switch cfg.History.Backend {
	case "redis":
		r := cfg.History.Redis
		if r.Host == "" {
			return nil, fmt.Errorf("history backend is redis but history.redis.host is not configured")
		}
		return history.NewRedisStore(context.Background(), r.Host, r.Port, r.Password, r.DB)
	case "memory":
		return history.NewMemoryStore(cfg.History.Limit), nil
	default:
		return history.NewFileStore(cfg.History.Dir, cfg.History.Limit), nil
	}
}
