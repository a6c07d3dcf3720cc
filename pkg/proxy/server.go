// Package proxy serves the same-origin API routes the browser client expects
// under /api: cookie-based auth, the parties shortcuts and a catch-all
// forwarder to the backend. The CLI uses it as its frontend base URL.
package proxy

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/watchparty/cli/pkg/config"
	"github.com/watchparty/cli/pkg/logger"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// Config holds proxy settings
type Config struct {
	Listen         string
	BackendURL     string
	AllowedOrigins []string
	SecureCookies  bool
	Timeout        time.Duration
	ServiceName    string
}

// ConfigFromSettings reads proxy.* and api.* from the loaded configuration
func ConfigFromSettings() Config {
	return Config{
		Listen:         config.GetString("proxy.listen"),
		BackendURL:     config.BackendURL(),
		AllowedOrigins: config.GetStringSlice("proxy.allowed_origins"),
		SecureCookies:  config.GetBool("proxy.secure_cookies"),
		Timeout:        time.Duration(config.GetInt("api.timeout")) * time.Second,
	}
}

// Server is the proxy. Each server owns its metrics registry.
type Server struct {
	cfg      Config
	engine   *gin.Engine
	upstream *resty.Client
	registry *prometheus.Registry
	metrics  *Metrics
}

// New builds the router and upstream client
func New(cfg Config) *Server {
	if cfg.Listen == "" {
		cfg.Listen = ":3000"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "watchparty-proxy"
	}
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		cfg:      cfg,
		registry: registry,
		metrics:  NewMetrics(registry),
		upstream: resty.New().
			SetBaseURL(cfg.BackendURL).
			SetTimeout(cfg.Timeout).
			SetCookieJar(nil).
			SetTransport(otelhttp.NewTransport(http.DefaultTransport)),
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(accessLog())
	r.Use(s.metrics.Middleware())
	r.Use(tracing(s.cfg.ServiceName))
	r.Use(cors.New(s.corsConfig()))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		auth.GET("/login", s.loginReady)
		auth.POST("/login", s.login)
		auth.GET("/register", s.registerReady)
		auth.POST("/register", s.register)
		auth.POST("/logout", s.logout)
		auth.POST("/refresh", s.refresh)
		auth.GET("/session", s.session)

		api.GET("/ws-token", s.wsToken)

		api.GET("/parties", s.listParties)
		api.POST("/parties", s.createParty)
		api.GET("/parties/public/:code", s.publicParty)

		api.Any("/proxy/*path", s.forward)
	}

	return r
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowCredentials = true
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "X-Request-ID")
	cfg.ExposeHeaders = []string{"X-Request-ID"}
	if len(s.cfg.AllowedOrigins) > 0 {
		cfg.AllowOrigins = s.cfg.AllowedOrigins
	} else {
		cfg.AllowOriginFunc = func(string) bool { return true }
	}
	return cfg
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Registry returns the server's metrics registry
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// Run serves until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Proxy listening", "addr", s.cfg.Listen, "backend", s.cfg.BackendURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("Shutting down proxy")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"backend": s.cfg.BackendURL,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
