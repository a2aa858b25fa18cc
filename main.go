package main

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"cloze-study-service/internal/assignment"
	"cloze-study-service/internal/config"
	"cloze-study-service/internal/db"
	"cloze-study-service/internal/event"
	"cloze-study-service/internal/gaps"
	"cloze-study-service/internal/handlers"
	"cloze-study-service/internal/passage"
	"cloze-study-service/internal/progress"
	"cloze-study-service/internal/repository"
	"cloze-study-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	gin.SetMode(cfg.GinMode)
	db.InitMongo(cfg.MongoURI)
	defer db.DisconnectMongo()

	// RabbitMQ event publisher
	var publisher *event.EventPublisher
	if cfg.RabbitMQURI != "" && cfg.EventExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(cfg.RabbitMQURI, cfg.EventExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, study events will not be published")
	}

	// Redis gap cache
	var gapCache *gaps.Cache
	if cfg.RedisURI != "" {
		var err error
		gapCache, err = gaps.NewCache(cfg.RedisURI)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer gapCache.Close()
	} else {
		log.Println("Redis not configured, gap responses will not be cached")
	}

	// Passage catalogue
	catalogue, err := passage.Load(cfg.PassagesPath)
	if err != nil {
		log.Fatalf("Failed to load passage catalogue: %v", err)
	}
	passageCount := cfg.PassageCount
	if catalogue.Size() > 0 && catalogue.Size() < passageCount {
		log.Printf("Catalogue has %d passages, capping configured count %d", catalogue.Size(), passageCount)
		passageCount = catalogue.Size()
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	database := db.Client.Database(cfg.MongoDatabase)

	// Participants
	participantRepo := repository.NewParticipantRepository(database)
	resultRepo := repository.NewResultRepository(database)
	surveyRepo := repository.NewSurveyRepository(database)

	generator := assignment.NewGenerator(participantRepo.Count, cfg.TestsPerUser, passageCount, cfg.AssignmentStrategy)
	tracker := progress.NewTracker(participantRepo, resultRepo, cfg.CompletionPolicy, cfg.AnnotationTarget, cfg.TestsPerUser)

	participantService := service.NewParticipantService(participantRepo, generator, tracker)
	participantHandler := handlers.NewParticipantHandler(participantService)

	// Results
	resultService := service.NewResultService(resultRepo)
	resultHandler := handlers.NewResultHandler(resultService)

	// Surveys
	surveyService := service.NewSurveyService(surveyRepo)
	surveyHandler := handlers.NewSurveyHandler(surveyService)

	// Gap generation
	gapRunner := gaps.NewRunner(cfg.PythonBin, cfg.GapRunnerPath, time.Duration(cfg.GapTimeoutSec)*time.Second)
	gapService := service.NewGapService(gapRunner, gapCache, catalogue)
	gapHandler := handlers.NewGapHandler(gapService, catalogue)

	// Admin aggregates
	statsService := service.NewStatsService(participantRepo, resultRepo, cfg.TestsPerUser)
	adminHandler := handlers.NewAdminHandler(statsService)

	// Public routes
	publicStudy := r.Group("/public/study")
	{
		publicStudy.POST("/participant/register", func(c *gin.Context) {
			participantHandler.Register(c)
			if publisher != nil {
				publisher.Publish(event.ParticipantRegistered, gin.H{"timestamp": time.Now()})
			}
		})
		publicStudy.GET("/participant/:id/results", resultHandler.GetResultsByUser)
		publicStudy.GET("/passage/:id", gapHandler.GetPassage)
		publicStudy.GET("/methods", gapHandler.ListMethods)
	}

	setupProtectedRoutes(r, participantHandler, resultHandler, surveyHandler, gapHandler, adminHandler, publisher)

	r.Run(":" + cfg.Port)
}

func setupProtectedRoutes(
	r *gin.Engine,
	participantHandler *handlers.ParticipantHandler,
	resultHandler *handlers.ResultHandler,
	surveyHandler *handlers.SurveyHandler,
	gapHandler *handlers.GapHandler,
	adminHandler *handlers.AdminHandler,
	publisher *event.EventPublisher,
) {
	protectedStudy := r.Group("/protected/study")

	// Authentication: the gateway forwards the verified participant id.
	protectedStudy.Use(func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}
		c.Next()
	})

	protectedStudy.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("[STUDY] %v | %3d | %13v | %15s | %-7s %#v\n%s",
			param.TimeStamp.Format("2006/01/02 - 15:04:05"),
			param.StatusCode,
			param.Latency,
			param.ClientIP,
			param.Method,
			param.Path,
			param.ErrorMessage,
		)
	}))

	{
		// === PROGRESS TRACKING ===

		protectedStudy.GET("/participant/:id/current", participantHandler.GetCurrentTask)

		protectedStudy.POST("/participant/:id/advance", func(c *gin.Context) {
			participantHandler.Advance(c)
			if publisher != nil {
				publisher.Publish(event.ProgressAdvanced, gin.H{
					"participant_id": c.Param("id"),
					"timestamp":      time.Now(),
				})
				if c.GetBool(handlers.CompletedKey) {
					publisher.Publish(event.ParticipantCompleted, gin.H{
						"participant_id": c.Param("id"),
						"timestamp":      time.Now(),
					})
				}
			}
		})

		protectedStudy.GET("/participant/:id/stats", participantHandler.GetStats)
		protectedStudy.GET("/participant/:id", participantHandler.GetParticipant)

		// === RESULTS AND SURVEYS ===

		protectedStudy.POST("/result", func(c *gin.Context) {
			resultHandler.CreateResult(c)
			if publisher != nil {
				publisher.Publish(event.ResultSubmitted, gin.H{
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				})
			}
		})

		protectedStudy.POST("/survey", func(c *gin.Context) {
			surveyHandler.SubmitSurvey(c)
			if publisher != nil {
				publisher.Publish(event.SurveySubmitted, gin.H{
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				})
			}
		})

		protectedStudy.GET("/survey/:id", surveyHandler.GetSurvey)

		// === GAP GENERATION ===

		protectedStudy.POST("/gaps", gapHandler.GenerateGaps)

		// === ADMIN ===

		protectedStudy.POST("/participant/:id/assignment", participantHandler.ForceAssignment)
		protectedStudy.GET("/admin/distribution", adminHandler.GetDistribution)
		protectedStudy.GET("/admin/methods", adminHandler.GetMethodStats)
	}
}
