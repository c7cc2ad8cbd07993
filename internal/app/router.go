package app

import (
	"log"
	"time"

	"bloggers-platform/internal/config"
	"bloggers-platform/internal/likes"
	"bloggers-platform/internal/middleware"
	"bloggers-platform/internal/model"
	"bloggers-platform/internal/repository"
	"bloggers-platform/internal/service"
	"bloggers-platform/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	// Set Gin mode
	if cfg.ServerPort == "5000" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware(cfg.ClientURL))

	// Rate limiting middleware (if enabled)
	if cfg.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		r.Use(rateLimiter.Middleware())
		log.Printf("Rate limiting enabled: %d req/sec, burst: %d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		panic("Failed to connect to database: " + err.Error())
	}

	// Auto migrate
	if err := db.AutoMigrate(&model.User{}, &model.Session{}, &model.Blog{}, &model.Post{}, &model.Comment{}, &model.Reaction{}); err != nil {
		panic("Failed to migrate database: " + err.Error())
	}

	// The reactions table is polymorphic: target_id points at either a post
	// or a comment, so no foreign key constraint may exist on it
	fixReactionsTableConstraints(db)

	// Initialize Redis with retry logic
	redisClient := initRedisWithRetry(cfg)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	blogRepo := repository.NewBlogRepository(db, redisClient)
	postRepo := repository.NewPostRepository(db, redisClient)
	commentRepo := repository.NewCommentRepository(db, redisClient)
	reactionRepo := repository.NewReactionRepository(db, redisClient)

	// Initialize RabbitMQ with retry logic
	rabbitMQ := initRabbitMQWithRetry(cfg)

	// Initialize email service
	emailService := service.NewEmailService(cfg, rabbitMQ)

	// Initialize email worker if RabbitMQ is available
	if rabbitMQ != nil {
		emailWorker := service.NewEmailWorker(emailService, rabbitMQ)
		if err := emailWorker.Start(); err != nil {
			log.Printf("Warning: Failed to start email worker: %v", err)
		} else {
			log.Println("Email worker started successfully")
		}
	} else {
		log.Println("Email worker not started - RabbitMQ connection failed. Emails will be sent synchronously.")
	}

	// One updater shared by posts and comments so per-target locking covers
	// every reaction write in the process
	updater := likes.NewUpdater()

	// Initialize services
	authService := service.NewAuthService(userRepo, sessionRepo, emailService, cfg)
	userService := service.NewUserService(userRepo, sessionRepo)
	sessionService := service.NewSessionService(sessionRepo)
	blogService := service.NewBlogService(blogRepo, postRepo)
	postService := service.NewPostService(db, postRepo, blogRepo, reactionRepo, updater)
	commentService := service.NewCommentService(db, commentRepo, postRepo, reactionRepo, updater)

	// Initialize handlers
	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService)
	sessionHandler := NewSessionHandler(sessionService, authService)
	blogHandler := NewBlogHandler(blogService, postService)
	postHandler := NewPostHandler(postService, commentService)
	commentHandler := NewCommentHandler(commentService)

	// Stricter limiter for the credential endpoints
	authLimiter := middleware.NewAuthRateLimiter(redisClient, cfg.AuthRateLimit, cfg.AuthRateWindow)

	// Basic auth guard for the admin endpoints
	adminAuth := gin.BasicAuth(gin.Accounts{cfg.AdminLogin: cfg.AdminPassword})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/registration", authLimiter.Middleware(), authHandler.Register)
			auth.POST("/registration-confirmation", authLimiter.Middleware(), authHandler.ConfirmRegistration)
			auth.POST("/registration-email-resending", authLimiter.Middleware(), authHandler.ResendConfirmation)
			auth.POST("/login", authLimiter.Middleware(), authHandler.Login)
			auth.POST("/password-recovery", authLimiter.Middleware(), authHandler.PasswordRecovery)
			auth.POST("/new-password", authLimiter.Middleware(), authHandler.NewPassword)
			auth.POST("/refresh-token", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", authHandler.AuthMiddleware(), authHandler.GetMe)
		}

		// Device session routes (refresh token cookie, not access token)
		devices := api.Group("/security/devices")
		{
			devices.GET("", sessionHandler.GetDevices)
			devices.DELETE("", sessionHandler.TerminateOtherDevices)
			devices.DELETE("/:deviceId", sessionHandler.TerminateDevice)
		}

		// Blog routes
		blogs := api.Group("/blogs")
		{
			// Public routes; the viewer is resolved when a token is present
			// so myStatus in post items reflects them
			blogs.GET("", blogHandler.GetBlogs)
			blogs.GET("/:id", blogHandler.GetBlog)
			blogs.GET("/:id/posts", authHandler.OptionalAuthMiddleware(), blogHandler.GetBlogPosts)

			// Admin routes
			blogs.POST("", adminAuth, blogHandler.CreateBlog)
			blogs.POST("/:id/posts", adminAuth, blogHandler.CreateBlogPost)
			blogs.PUT("/:id", adminAuth, blogHandler.UpdateBlog)
			blogs.DELETE("/:id", adminAuth, blogHandler.DeleteBlog)
		}

		// Post routes
		posts := api.Group("/posts")
		{
			// Public routes
			posts.GET("", authHandler.OptionalAuthMiddleware(), postHandler.GetPosts)
			posts.GET("/:id", authHandler.OptionalAuthMiddleware(), postHandler.GetPost)
			posts.GET("/:id/comments", authHandler.OptionalAuthMiddleware(), postHandler.GetPostComments)

			// Admin routes
			posts.POST("", adminAuth, postHandler.CreatePost)
			posts.PUT("/:id", adminAuth, postHandler.UpdatePost)
			posts.DELETE("/:id", adminAuth, postHandler.DeletePost)

			// Protected routes
			posts.POST("/:id/comments", authHandler.AuthMiddleware(), postHandler.CreatePostComment)
			posts.PUT("/:id/like-status", authHandler.AuthMiddleware(), postHandler.UpdateLikeStatus)
		}

		// Comment routes
		comments := api.Group("/comments")
		{
			// Public routes
			comments.GET("/:id", authHandler.OptionalAuthMiddleware(), commentHandler.GetComment)

			// Protected routes
			comments.PUT("/:id", authHandler.AuthMiddleware(), commentHandler.UpdateComment)
			comments.DELETE("/:id", authHandler.AuthMiddleware(), commentHandler.DeleteComment)
			comments.PUT("/:id/like-status", authHandler.AuthMiddleware(), commentHandler.UpdateLikeStatus)
		}

		// Admin user management routes
		users := api.Group("/users")
		users.Use(adminAuth)
		{
			users.GET("", userHandler.GetUsers)
			users.POST("", userHandler.CreateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.DatabaseURL
	if dsn == "" {
		dsn = "host=" + cfg.PostgresHost +
			" port=" + cfg.PostgresPort +
			" user=" + cfg.PostgresUser +
			" password=" + cfg.PostgresPassword +
			" dbname=" + cfg.PostgresDB +
			" sslmode=" + cfg.PostgresSSLMode
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// initRabbitMQWithRetry attempts to connect to RabbitMQ with exponential backoff retry
func initRabbitMQWithRetry(cfg *config.Config) *util.RabbitMQClient {
	maxRetries := 10
	initialDelay := 2 * time.Second
	maxDelay := 30 * time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		rabbitMQ, err := util.NewRabbitMQClient(cfg)
		if err == nil {
			log.Printf("RabbitMQ connected successfully on attempt %d", attempt)
			return rabbitMQ
		}

		if attempt < maxRetries {
			delay := initialDelay * time.Duration(1<<uint(attempt-1))
			if delay > maxDelay {
				delay = maxDelay
			}

			log.Printf("Failed to connect to RabbitMQ (attempt %d/%d): %v. Retrying in %v...", attempt, maxRetries, err, delay)
			time.Sleep(delay)
		} else {
			log.Printf("Warning: Failed to connect to RabbitMQ after %d attempts: %v. Emails will be sent synchronously.", maxRetries, err)
		}
	}

	return nil
}

// initRedisWithRetry attempts to connect to Redis with exponential backoff retry
func initRedisWithRetry(cfg *config.Config) *util.RedisClient {
	maxRetries := 10
	initialDelay := 2 * time.Second
	maxDelay := 30 * time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		redisClient, err := util.NewRedisClient(cfg)
		if err == nil {
			log.Printf("Redis connected successfully on attempt %d", attempt)
			return redisClient
		}

		if attempt < maxRetries {
			delay := initialDelay * time.Duration(1<<uint(attempt-1))
			if delay > maxDelay {
				delay = maxDelay
			}

			log.Printf("Failed to connect to Redis (attempt %d/%d): %v. Retrying in %v...", attempt, maxRetries, err, delay)
			time.Sleep(delay)
		} else {
			log.Printf("Warning: Failed to connect to Redis after %d attempts: %v. Caching will be disabled.", maxRetries, err)
			log.Println("Note: Application will continue without Redis caching")
		}
	}

	return nil
}

// fixReactionsTableConstraints removes foreign key constraints GORM may have
// created on reactions.target_id during AutoMigrate
func fixReactionsTableConstraints(db *gorm.DB) {
	query := `
		SELECT constraint_name
		FROM information_schema.table_constraints
		WHERE table_name = 'reactions'
		AND constraint_type = 'FOREIGN KEY'
		AND constraint_name IN (
			SELECT constraint_name
			FROM information_schema.key_column_usage
			WHERE table_name = 'reactions'
			AND column_name = 'target_id'
		)
	`

	var constraints []struct {
		ConstraintName string `gorm:"column:constraint_name"`
	}

	if err := db.Raw(query).Scan(&constraints).Error; err != nil {
		log.Printf("Warning: Failed to query foreign key constraints on reactions table: %v", err)
		return
	}

	for _, constraint := range constraints {
		dropQuery := "ALTER TABLE reactions DROP CONSTRAINT IF EXISTS " + constraint.ConstraintName
		if err := db.Exec(dropQuery).Error; err != nil {
			log.Printf("Warning: Failed to drop constraint %s: %v", constraint.ConstraintName, err)
		} else {
			log.Printf("Dropped foreign key constraint on reactions: %s", constraint.ConstraintName)
		}
	}
}

func corsMiddleware(clientURL string) gin.HandlerFunc {
	allowedOrigins := []string{
		clientURL,
		"http://localhost:3000",
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", clientURL)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
