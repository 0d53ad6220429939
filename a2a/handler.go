package a2a

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"linkedin_post_generator/generator"
	"linkedin_post_generator/observability"
)

type handler struct {
	agent   Agent
	card    Card
	timeout time.Duration
}

// NewRouter serves the agent card and the tasks/send endpoint for agent.
// A zero timeout leaves task handling unbounded.
func NewRouter(agent Agent, card Card, timeout time.Duration) *gin.Engine {
	h := &handler{agent: agent, card: card, timeout: timeout}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/.well-known/agent.json", h.getCard)
	r.POST("/tasks/send", h.sendTask)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func (h *handler) getCard(c *gin.Context) {
	c.JSON(http.StatusOK, h.card)
}

func (h *handler) sendTask(c *gin.Context) {
	var req SendTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	log := observability.LoggerFromContext(ctx).With("task_id", req.Params.ID, "session_id", req.Params.SessionID)

	res, err := h.agent.Handle(ctx, req.Params)
	if err != nil {
		log.Error("task failed", "error", err)
		if errors.Is(err, generator.ErrUpstreamGeneration) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "UpstreamGenerationFailure: " + err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	log.Info("task completed", "state", res.Status.State)
	c.JSON(http.StatusOK, res)
}

// requestLogger attaches a request id and logs every request through the slog logger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Request = c.Request.WithContext(observability.WithRequestID(c.Request.Context(), id))

		c.Next()

		observability.LoggerFromContext(c.Request.Context()).Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}
}
