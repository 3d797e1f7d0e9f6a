package http

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Helpline/internal/adapters/signal"
	"github.com/dkeye/Helpline/internal/app/auth"
	"github.com/dkeye/Helpline/internal/app/orch"
	"github.com/dkeye/Helpline/internal/config"
)

func genClientToken() string {
	idStr := uuid.NewString()
	return idStr
}

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	orch *orch.Orchestrator,
	authSvc *auth.Service,
	ice []webrtc.ICEServer,
) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("HelplineSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	h := &Handlers{
		Orch:    orch,
		Auth:    authSvc,
		ICE:     ice,
		Limiter: NewJoinRateLimiter(cfg.Match.JoinLimit, cfg.Match.JoinInterval),
	}

	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.POST("/auth/max", h.Authenticate)
	api.POST("/match/join", h.Join)
	api.GET("/match/status/:participantId", h.Status)
	api.DELETE("/match/leave/:participantId", h.Leave)
	api.GET("/ice", h.ICEServers)
	api.GET("/rooms", h.Rooms)

	relay := signal.NewSignalWSController(orch, cfg.Relay)
	r.GET("/ws/call", func(c *gin.Context) {
		log.Debug().Str("module", "adapters.http").Str("sid", c.GetString("client_token")).Msg("ws call endpoint hit")
		relay.HandleSignal(ctx, c)
	})

	return r
}
