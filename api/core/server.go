package core

import (
	"net/http"
	"time"

	"github.com/fotonatura/portfolio-api/api/common"
	handlerAuth "github.com/fotonatura/portfolio-api/api/handler/auth"
	handlerComments "github.com/fotonatura/portfolio-api/api/handler/comments"
	handlerEmails "github.com/fotonatura/portfolio-api/api/handler/emails"
	handlerGalleries "github.com/fotonatura/portfolio-api/api/handler/galleries"
	handlerPosts "github.com/fotonatura/portfolio-api/api/handler/posts"
	handlerUploads "github.com/fotonatura/portfolio-api/api/handler/uploads"
	"github.com/fotonatura/portfolio-api/api/middleware"
	"github.com/fotonatura/portfolio-api/config"
	"github.com/fotonatura/portfolio-api/database/models"
	"github.com/fotonatura/portfolio-api/database/repo/accounts"
	"github.com/fotonatura/portfolio-api/database/repo/comments"
	"github.com/fotonatura/portfolio-api/database/repo/galleries"
	"github.com/fotonatura/portfolio-api/database/repo/posts"
	"github.com/fotonatura/portfolio-api/internal/auth"
	"github.com/fotonatura/portfolio-api/internal/mailer"
	"github.com/fotonatura/portfolio-api/internal/uploads"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// ServerDependencies wires the handlers together
type ServerDependencies struct {
	AccountsRepo  *accounts.Repository
	PostsRepo     *posts.Repository
	CommentsRepo  *comments.Repository
	GalleriesRepo *galleries.Repository
	JWTService    *auth.JWTService
	LoginService  *auth.LoginService
	UploadService *uploads.Service
	MailerService *mailer.Service
}

func setupRouter(deps *ServerDependencies) (*gin.Engine, func()) {
	cfg := config.Get()
	router := gin.New()

	// gin request logging only on dev builds
	if config.CommitHash == "n/a" {
		gin.SetMode(gin.ReleaseMode)
		router.Use(gin.Logger())
	}
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.SetTrustedProxies(nil)

	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())

	authRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitAuthRPS, cfg.RateLimitAuthBurst, cfg.RateLimitExpireTime)
	apiRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitApiRPS, cfg.RateLimitApiBurst, cfg.RateLimitExpireTime)
	cleanup := func() {
		authRateLimiter.StopCleanup()
		apiRateLimiter.StopCleanup()
	}

	router.GET("/health", func(context *gin.Context) {
		health := gin.H{
			"status":  "ok",
			"uptime":  time.Since(startTime).Round(time.Second).String(),
			"version": config.Version,
			"checks": gin.H{
				"database": checkDatabaseHealth(),
				"storage":  checkStorageHealth(deps.UploadService),
			},
		}
		httpStatus := http.StatusOK
		for _, checkResult := range health["checks"].(gin.H) {
			if result, ok := checkResult.(string); ok && result != "ok" {
				httpStatus = http.StatusServiceUnavailable
				break
			}
		}
		context.JSON(httpStatus, health)
	})
	router.GET("/version", func(context *gin.Context) {
		common.RespondSuccess(context, gin.H{
			"version": config.Version,
			"commit":  config.CommitHash,
		})
	})
	router.GET("/metrics", func(context *gin.Context) {
		context.JSON(http.StatusOK, middleware.GetMetrics())
	})

	authHandler := handlerAuth.NewHandler(deps.LoginService, cfg.CookieSecure)
	postHandler := handlerPosts.NewHandler(deps.PostsRepo, deps.UploadService)
	commentHandler := handlerComments.NewHandler(deps.CommentsRepo, deps.PostsRepo, deps.MailerService)
	galleryHandler := handlerGalleries.NewHandler(deps.GalleriesRepo)
	uploadHandler := handlerUploads.NewHandler(deps.UploadService)
	emailHandler := handlerEmails.NewHandler(deps.MailerService, deps.PostsRepo)

	authenticate := middleware.Authenticate(deps.JWTService)
	requireAdmin := middleware.RequireRole(models.RoleAdmin)

	apiGroup := router.Group("/api")
	apiGroup.Use(func(context *gin.Context) { // no caching on API responses
		context.Header("Cache-Control", "no-store")
		context.Next()
	})
	apiGroup.Use(apiRateLimiter.Middleware())
	{
		authGroup := apiGroup.Group("/auth")
		authGroup.Use(authRateLimiter.Middleware())
		{
			authGroup.POST("/register", authenticate, requireAdmin, authHandler.RegisterHandler) //POST /api/auth/register
			authGroup.POST("/login", authHandler.LoginHandler)                                  //POST /api/auth/login
			authGroup.POST("/logout", authenticate, authHandler.LogoutHandler)                  //POST /api/auth/logout
			authGroup.GET("/me", authenticate, authHandler.MeHandler)                           //GET /api/auth/me
		}

		uploadGroup := apiGroup.Group("/upload")
		uploadGroup.Use(authenticate, requireAdmin)
		{
			uploadGroup.POST("/presign", uploadHandler.PresignHandler)            //POST /api/upload/presign
			uploadGroup.POST("/confirm", uploadHandler.ConfirmHandler)            //POST /api/upload/confirm
			uploadGroup.POST("/delete-images", uploadHandler.DeleteImagesHandler) //POST /api/upload/delete-images
		}

		postsGroup := apiGroup.Group("/posts")
		{
			postsGroup.GET("/get-all-posts", authenticate, requireAdmin, postHandler.GetAllPostsHandler)        //GET /api/posts/get-all-posts
			postsGroup.GET("/get-all-active-posts", postHandler.GetActivePostsHandler)                          //GET /api/posts/get-all-active-posts
			postsGroup.GET("/get-post-by-id/:postId", postHandler.GetPostByIDHandler)                           //GET /api/posts/get-post-by-id/{id}
			postsGroup.POST("/create-post", authenticate, requireAdmin, postHandler.CreatePostHandler)          //POST /api/posts/create-post
			postsGroup.PUT("/update-post/:postId", authenticate, requireAdmin, postHandler.UpdatePostHandler)   //PUT /api/posts/update-post/{id}
		}

		commentsGroup := apiGroup.Group("/comments")
		{
			commentsGroup.POST("/create-comment/:postId", commentHandler.CreateCommentHandler)                                            //POST /api/comments/create-comment/{id}
			commentsGroup.GET("/get-comments-by-post-id/:postId", authenticate, requireAdmin, commentHandler.GetCommentsByPostIDHandler)  //GET /api/comments/get-comments-by-post-id/{id}
			commentsGroup.GET("/get-all-comments", authenticate, requireAdmin, commentHandler.GetAllCommentsHandler)                      //GET /api/comments/get-all-comments
			commentsGroup.GET("/get-approved-comments-by-post-id/:postId", commentHandler.GetApprovedCommentsByPostIDHandler)             //GET /api/comments/get-approved-comments-by-post-id/{id}
			commentsGroup.PUT("/update-comment/:commentId", authenticate, requireAdmin, commentHandler.UpdateCommentHandler)              //PUT /api/comments/update-comment/{id}
		}

		galleriesGroup := apiGroup.Group("/galleries")
		{
			galleriesGroup.POST("/create-gallery", authenticate, requireAdmin, galleryHandler.CreateGalleryHandler)                  //POST /api/galleries/create-gallery
			galleriesGroup.POST("/create-gallery-image", authenticate, requireAdmin, galleryHandler.CreateGalleryImageHandler)       //POST /api/galleries/create-gallery-image
			galleriesGroup.GET("/get-gallery-by-id/:galleryId", authenticate, requireAdmin, galleryHandler.GetGalleryByIDHandler)    //GET /api/galleries/get-gallery-by-id/{id}
			galleriesGroup.GET("/get-all-galleries", authenticate, requireAdmin, galleryHandler.GetAllGalleriesHandler)              //GET /api/galleries/get-all-galleries
			galleriesGroup.GET("/get-all-active-galleries", galleryHandler.GetActiveGalleriesHandler)                                //GET /api/galleries/get-all-active-galleries
			galleriesGroup.PUT("/update-gallery/:galleryId", authenticate, requireAdmin, galleryHandler.UpdateGalleryHandler)        //PUT /api/galleries/update-gallery/{id}
			galleriesGroup.GET("/get-gallery-images-by-gallery-id/:galleryId", galleryHandler.GetGalleryImagesHandler)               //GET /api/galleries/get-gallery-images-by-gallery-id/{id}
		}

		emailsGroup := apiGroup.Group("/emails")
		{
			emailsGroup.POST("/subscribe", emailHandler.SubscribeHandler)                                                      //POST /api/emails/subscribe
			emailsGroup.GET("/get-all-subscribers", authenticate, requireAdmin, emailHandler.GetSubscribersHandler)            //GET /api/emails/get-all-subscribers
			emailsGroup.POST("/send-post-campaign/:postId", authenticate, requireAdmin, emailHandler.SendPostCampaignHandler)  //POST /api/emails/send-post-campaign/{id}
		}
	}

	return router, cleanup
}

// StartServer builds the http.Server; the returned func stops the rate limiter cleanup loops
func StartServer(deps *ServerDependencies) (*http.Server, func()) {
	cfg := config.Get()
	router, clean := setupRouter(deps)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return srv, clean
}
