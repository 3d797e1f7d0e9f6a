package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Helpline/internal/app/auth"
	"github.com/dkeye/Helpline/internal/app/orch"
	"github.com/dkeye/Helpline/internal/domain"
)

// maxJoinBody bounds a join request. Field contents themselves are not capped.
const maxJoinBody = 16 << 10

type Handlers struct {
	Orch    *orch.Orchestrator
	Auth    *auth.Service
	ICE     []webrtc.ICEServer
	Limiter *JoinRateLimiter
}

type JoinRequest struct {
	Role        string `json:"role" binding:"required"`
	DisplayName string `json:"displayName" binding:"required"`
	ClientID    string `json:"clientId" binding:"required"`
}

type StatusResponse struct {
	Status  domain.MatchStatus `json:"status"`
	RoomID  domain.RoomID      `json:"roomId,omitempty"`
	Partner *domain.Partner    `json:"partner,omitempty"`
}

type AuthRequest struct {
	WebAppData string `json:"webAppData"`
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func (h *Handlers) Join(c *gin.Context) {
	var req JoinRequest
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxJoinBody)
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "role, displayName and clientId are required")
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if !h.Limiter.Allow(req.ClientID) {
		log.Warn().Str("module", "adapters.http").Str("client_id", req.ClientID).Msg("join rate limited")
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many join attempts"})
		return
	}

	out, err := h.Orch.Match.Join(role, req.DisplayName, req.ClientID)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	log.Debug().Str("module", "adapters.http").Str("sid", c.GetString("client_token")).Str("participant_id", string(out.ParticipantID)).Str("status", string(out.Status)).Msg("join")
	c.JSON(http.StatusOK, out)
}

func (h *Handlers) Status(c *gin.Context) {
	out := h.Orch.Match.Poll(domain.ParticipantID(c.Param("participantId")))
	c.JSON(http.StatusOK, StatusResponse{Status: out.Status, RoomID: out.RoomID, Partner: out.Partner})
}

func (h *Handlers) Leave(c *gin.Context) {
	h.Orch.Match.Leave(domain.ParticipantID(c.Param("participantId")))
	c.Status(http.StatusNoContent)
}

func (h *Handlers) Authenticate(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	res, err := h.Auth.Authenticate(req.WebAppData)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrHashMismatch):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	case errors.Is(err, auth.ErrEmptyPayload),
		errors.Is(err, auth.ErrMalformedPayload),
		errors.Is(err, auth.ErrMissingHash),
		errors.Is(err, auth.ErrMissingUser),
		errors.Is(err, auth.ErrMalformedUser):
		badRequest(c, err.Error())
		return
	default:
		log.Error().Err(err).Str("module", "adapters.http").Msg("authenticate")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	sess := sessions.Default(c)
	sess.Set("user_id", res.User.ID)
	if err := sess.Save(); err != nil {
		log.Warn().Err(err).Str("module", "adapters.http").Msg("session save")
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handlers) ICEServers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"iceServers": h.ICE})
}

func (h *Handlers) Rooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"rooms":       h.Orch.Rooms.List(),
		"queue":       h.Orch.Match.Stats(),
		"connections": h.Orch.Registry.Count(),
	})
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().Format(time.RFC3339)})
}
