package http

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/session"
)

// NewRouter wires the REST and websocket endpoints.
func NewRouter(service *app.QuizService, sessionOpts ...session.Option) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("panic serving %s: %v", c.Request.URL.Path, recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Something went wrong!"})
	}))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type"},
	}))

	api := NewAPIHandler(service)
	ws := NewWSHandler(service, sessionOpts...)

	r.GET("/health", api.Health)
	quiz := r.Group("/api/quiz")
	quiz.GET("/questions", api.Questions)
	quiz.POST("/submit", api.Submit)
	r.GET("/ws", gin.WrapF(ws.ServeWS))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Route not found"})
	})
	return r
}
