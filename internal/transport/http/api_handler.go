package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type submitRequest struct {
	Answers json.RawMessage `json:"answers"`
}

// APIHandler serves the REST quiz endpoints.
type APIHandler struct {
	service *app.QuizService
	now     func() time.Time
}

func NewAPIHandler(service *app.QuizService) *APIHandler {
	return &APIHandler{service: service, now: time.Now}
}

// Health reports liveness.
func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:    "OK",
		Timestamp: h.now().UTC().Format(time.RFC3339Nano),
	})
}

// Questions returns all questions without their answer keys.
func (h *APIHandler) Questions(c *gin.Context) {
	questions, err := h.service.Questions(c.Request.Context())
	if err != nil {
		log.Printf("fetch questions: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch questions"})
		return
	}
	c.JSON(http.StatusOK, questions)
}

// Submit scores the submitted answers against the stored answer keys.
func (h *APIHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Answers must be an array"})
		return
	}

	answers, err := app.ParseAnswers(req.Answers)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: verr.Reason})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), answers)
	if err != nil {
		log.Printf("submit quiz: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to submit quiz"})
		return
	}
	c.JSON(http.StatusOK, resp)
}
