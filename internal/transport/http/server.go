package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/ichi/internal/account"
	"github.com/vovakirdan/ichi/internal/auth"
	"github.com/vovakirdan/ichi/internal/config"
	"github.com/vovakirdan/ichi/internal/core"
)

// NewServer builds the development server: the game socket and the account endpoints.
func NewServer(hub *core.Hub, authService *auth.Service, cfg config.ServerConfig, logger *zerolog.Logger) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           NewHandler(hub, authService, cfg, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// NewHandler serves the game socket on /ws and everything else through the gin router.
// The socket stays off gin: the upgrade hijacks the connection, which gin refuses once
// the header is written.
func NewHandler(hub *core.Hub, authService *auth.Service, cfg config.ServerConfig, logger *zerolog.Logger) stdhttp.Handler {
	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", NewWSHandler(hub, cfg.IntentRateLimit, logger))
	mux.Handle("/", NewRouter(authService, logger))
	return mux
}

// NewRouter registers the health check and account endpoints on a gin engine.
func NewRouter(authService *auth.Service, logger *zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", healthHandler)

	api := NewAPIHandlers(authService, logger)
	accounts := router.Group("/", LoggerMiddleware(logger))
	accounts.POST(account.PathLogin, api.Login)
	accounts.POST(account.PathCreateAccount, api.CreateAccount)
	accounts.POST(account.PathStatistics, api.Statistics)

	return router
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
