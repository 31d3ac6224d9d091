package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/comdex-official/PRED-AG/internal/service"
	"github.com/comdex-official/PRED-AG/internal/store"
	"github.com/comdex-official/PRED-AG/pkg/models"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func RegisterRoutes(r *gin.Engine, h *Handler) {
	v1 := r.Group("/v1")
	{
		v1.POST("/users", h.RegisterUser)
		v1.GET("/questions", h.Questions)
		v1.GET("/questions/fresh", h.FreshQuestions)
		v1.GET("/questions/history", h.History)
		v1.GET("/questions/pending", h.PendingQuestions)
		v1.POST("/questions/:id/response", h.RecordResponse)
		v1.POST("/questions/:id/resolve", h.ResolveQuestion)
	}
}

// RegisterUser: POST /v1/users
// Body: {"username": "...", "interests": ["cricket", ...]}
func (h *Handler) RegisterUser(c *gin.Context) {
	var payload struct {
		Username  string   `json:"username"`
		Interests []string `json:"interests"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	if payload.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing username"})
		return
	}
	for _, raw := range payload.Interests {
		if _, ok := models.ParseTopic(raw); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown topic: " + raw})
			return
		}
	}

	user, created, err := h.svc.RegisterUser(c.Request.Context(), payload.Username, payload.Interests)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"meta": gin.H{"created": created},
		"data": user,
	})
}

// FreshQuestions: GET /v1/questions/fresh?count=3
// Header: X-Username
func (h *Handler) FreshQuestions(c *gin.Context) {
	username := c.GetHeader("X-Username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing X-Username header"})
		return
	}
	count := parseCount(c.DefaultQuery("count", "1"))

	questions, err := h.svc.FreshQuestions(c.Request.Context(), username, count)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNoInterests):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNoQuestions):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{
			"count":     len(questions),
			"requested": count,
		},
		"data": questions,
	})
}

// Questions: GET /v1/questions?ids=a,b,c
// Batch lookup so clients can poll the resolution status of questions
// they have already been served. Unknown ids are silently dropped.
func (h *Handler) Questions(c *gin.Context) {
	var ids []string
	for _, raw := range strings.Split(c.Query("ids"), ",") {
		if id := strings.TrimSpace(raw); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing ids query parameter"})
		return
	}
	if len(ids) > 50 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many ids (max 50)"})
		return
	}

	questions, err := h.svc.Questions(c.Request.Context(), ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{
			"count":     len(questions),
			"requested": len(ids),
		},
		"data": questions,
	})
}

// History: GET /v1/questions/history?topic=cricket
// Header: X-Username
func (h *Handler) History(c *gin.Context) {
	username := c.GetHeader("X-Username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing X-Username header"})
		return
	}
	topic := c.Query("topic")
	if topic != "" {
		if _, ok := models.ParseTopic(topic); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown topic: " + topic})
			return
		}
	}

	entries, err := h.svc.History(c.Request.Context(), username, topic)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{
			"count": len(entries),
			"topic": topic,
		},
		"data": entries,
	})
}

// PendingQuestions: GET /v1/questions/pending
// Lists matured questions still awaiting resolution.
func (h *Handler) PendingQuestions(c *gin.Context) {
	questions, err := h.svc.PendingQuestions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{"count": len(questions)},
		"data": questions,
	})
}

// RecordResponse: POST /v1/questions/:id/response
// Body: {"response": "yes" | "no" | "skip"}
// Header: X-Username
func (h *Handler) RecordResponse(c *gin.Context) {
	username := c.GetHeader("X-Username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing X-Username header"})
		return
	}
	id := c.Param("id")

	var payload struct {
		Response string `json:"response"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	response, ok := models.ParseResponse(payload.Response)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "response must be yes, no or skip"})
		return
	}

	if err := h.svc.RecordResponse(c.Request.Context(), username, id, response); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{"question_id": id, "response": response},
	})
}

// ResolveQuestion: POST /v1/questions/:id/resolve
// Body: {"outcome": true, "note": "..."}
// Manual override for a question the engine cannot settle.
func (h *Handler) ResolveQuestion(c *gin.Context) {
	id := c.Param("id")

	var payload struct {
		Outcome *bool  `json:"outcome"`
		Note    string `json:"note"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	if payload.Outcome == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing outcome"})
		return
	}
	if payload.Note == "" {
		payload.Note = "resolved manually"
	}

	if err := h.svc.ResolveManually(c.Request.Context(), id, *payload.Outcome, payload.Note); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "question not found or already resolved"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{"question_id": id, "outcome": *payload.Outcome},
	})
}

// parseCount ensures a sane integer count, with bounds
func parseCount(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 1
	}
	if n > 20 {
		return 20
	}
	return n
}
