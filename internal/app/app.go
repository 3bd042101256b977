package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	relationshipHTTP "collabnet/internal/controller/http"
	"collabnet/internal/repo/persistent"
	"collabnet/internal/usecase"
	"collabnet/pkg/config"
	"collabnet/pkg/jwt"
	"collabnet/pkg/logger"
	"collabnet/pkg/middleware"
	"collabnet/pkg/queue"
	"collabnet/pkg/s3"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "collabnet/docs" // Swagger docs
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, s3Client *s3.Client, queueClient *queue.Client, redisClient *redis.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret)

	// Initialize repositories
	followRepo := persistent.NewFollowRepository(db)
	invitationRepo := persistent.NewInvitationRepository(db)
	requestRepo := persistent.NewSubscriptionRequestRepository(db)
	subscriptionRepo := persistent.NewSubscriptionRepository(db)
	membershipRepo := persistent.NewMembershipRepository(db)
	feedRepo := persistent.NewFeedRepository(db)
	postRepo := persistent.NewPostRepository(db)
	individualRepo := persistent.NewIndividualRepository(db)
	organizationRepo := persistent.NewOrganizationRepository(db)
	directory := persistent.NewActorDirectory(individualRepo, organizationRepo)

	// Initialize use cases
	relationshipUseCase := usecase.NewRelationshipUseCase(followRepo, subscriptionRepo, directory, queueClient, log)
	invitationUseCase := usecase.NewInvitationUseCase(invitationRepo, followRepo, directory, redisClient, queueClient, log)
	requestUseCase := usecase.NewSubscriptionRequestUseCase(requestRepo, subscriptionRepo, individualRepo, organizationRepo, queueClient, log)
	subscriptionUseCase := usecase.NewSubscriptionUseCase(subscriptionRepo, followRepo, individualRepo, organizationRepo, queueClient, log)
	feedUseCase := usecase.NewFeedUseCase(feedRepo, followRepo, membershipRepo, log)
	contentUseCase := usecase.NewContentUseCase(postRepo, membershipRepo, s3Client, log)

	// Initialize HTTP handlers
	relationshipHandler := relationshipHTTP.NewRelationshipHandler(relationshipUseCase, log)
	invitationHandler := relationshipHTTP.NewInvitationHandler(invitationUseCase, log)
	requestHandler := relationshipHTTP.NewSubscriptionRequestHandler(requestUseCase, log)
	subscriptionHandler := relationshipHTTP.NewSubscriptionHandler(subscriptionUseCase, log)
	feedHandler := relationshipHTTP.NewFeedHandler(feedUseCase, log)
	contentHandler := relationshipHTTP.NewContentHandler(contentUseCase, log)

	// Setup router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtService))
	api.Use(middleware.RateLimitMiddleware(redisClient, 100, time.Minute))

	{
		api.POST("/relationships/follow", relationshipHandler.Follow)
		api.POST("/relationships/unfollow", relationshipHandler.Unfollow)
		api.PUT("/relationships/notifications", relationshipHandler.UpdateNotificationPrefs)
		api.POST("/relationships/visit", relationshipHandler.RecordVisit)
		api.POST("/relationships/engagement", relationshipHandler.RecordEngagement)
		api.GET("/relationships/following", relationshipHandler.ListFollowing)
		api.GET("/relationships/followers", relationshipHandler.ListFollowers)
		api.GET("/relationships/counts", relationshipHandler.Counts)

		api.POST("/invitations", invitationHandler.Send)
		api.POST("/invitations/:id/accept", invitationHandler.Accept)
		api.POST("/invitations/:id/decline", invitationHandler.Decline)
		api.DELETE("/invitations/:id", invitationHandler.Cancel)
		api.GET("/invitations/sent", invitationHandler.ListSent)
		api.GET("/invitations/received", invitationHandler.ListReceived)
		api.GET("/invitations/pending/count", invitationHandler.CountPending)

		api.POST("/subscription-requests", requestHandler.Submit)
		api.POST("/subscription-requests/:id/accept", requestHandler.Accept)
		api.POST("/subscription-requests/:id/decline", requestHandler.Decline)
		api.DELETE("/subscription-requests/:id", requestHandler.Cancel)
		api.GET("/subscription-requests", requestHandler.ListMine)
		api.GET("/subscription-requests/pending/count", requestHandler.CountPending)

		api.POST("/subscriptions/upgrade", subscriptionHandler.Upgrade)
		api.GET("/subscriptions", subscriptionHandler.ListMine)
		api.GET("/subscriptions/:id", subscriptionHandler.Get)
		api.GET("/subscriptions/:id/page", subscriptionHandler.GetSubscriptionPage)
		api.PATCH("/subscriptions/:id", subscriptionHandler.Update)
		api.POST("/subscriptions/:id/suspend", subscriptionHandler.Suspend)
		api.POST("/subscriptions/:id/reactivate", subscriptionHandler.Reactivate)
		api.POST("/subscriptions/:id/terminate", subscriptionHandler.Terminate)
		api.PUT("/subscriptions/:id/permissions", subscriptionHandler.UpdatePermissions)
		api.GET("/partnership-pages/:id", subscriptionHandler.GetPage)
		api.POST("/partnership-pages/:id/transactions", subscriptionHandler.RecordPageTransaction)

		api.GET("/feed", feedHandler.GetFeed)

		api.POST("/posts", contentHandler.CreatePost)
		api.GET("/posts/:id", contentHandler.GetPost)
		api.GET("/posts/author/:kind/:id", contentHandler.ListAuthorPosts)
		api.DELETE("/posts/:id", contentHandler.DeletePost)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Relationship service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down relationship service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("Error closing database: %v", err)
		}
	}

	// Close Redis connection
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis: %v", err)
		}
	}

	// Close RabbitMQ connection
	if queueClient != nil {
		queueClient.Close()
	}

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		panic(err)
	}

	log.Info("Relationship service exited")
}
