package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fotonatura/portfolio-api/api/core"
	"github.com/fotonatura/portfolio-api/config"
	"github.com/fotonatura/portfolio-api/database/dbcore"
	"github.com/fotonatura/portfolio-api/database/repo/accounts"
	"github.com/fotonatura/portfolio-api/database/repo/comments"
	"github.com/fotonatura/portfolio-api/database/repo/galleries"
	"github.com/fotonatura/portfolio-api/database/repo/posts"
	"github.com/fotonatura/portfolio-api/internal/auth"
	"github.com/fotonatura/portfolio-api/internal/mailer"
	"github.com/fotonatura/portfolio-api/internal/uploads"
	"github.com/fotonatura/portfolio-api/storage"
	"github.com/fotonatura/portfolio-api/utils"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start API server",
	Run: func(cmd *cobra.Command, args []string) {
		RunServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func RunServer() {
	config.InitConfig()
	cfg := config.Get()

	if cfg.DBType == "sqlite" {
		if err := os.MkdirAll("./data", os.ModePerm); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
	}

	db := dbcore.GetDBInstance()
	if err := dbcore.AutoMigrateDB(db); err != nil {
		log.Fatalf("Failed to auto migrate database: %v", err)
	}

	accountsRepo := accounts.NewRepository(db)
	postsRepo := posts.NewRepository(db)
	commentsRepo := comments.NewRepository(db)
	galleriesRepo := galleries.NewRepository(db)

	bootstrapAdmin(accountsRepo, cfg)

	jwtService, err := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiresIn)
	if err != nil {
		log.Fatalf("Failed to initialize JWT: %v", err)
	}
	loginService := auth.NewLoginService(accountsRepo, jwtService)

	minioClient, err := storage.NewMinioClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize object storage client: %v", err)
	}
	uploadService := uploads.NewService(minioClient, cfg.S3BucketName, cfg.S3PublicBaseURL, cfg.S3PresignExpiry)

	brevoClient := mailer.NewBrevoClient(cfg.BrevoAPIKey)
	mailerService := mailer.NewService(brevoClient, cfg)

	deps := &core.ServerDependencies{
		AccountsRepo:  accountsRepo,
		PostsRepo:     postsRepo,
		CommentsRepo:  commentsRepo,
		GalleriesRepo: galleriesRepo,
		JWTService:    jwtService,
		LoginService:  loginService,
		UploadService: uploadService,
		MailerService: mailerService,
	}

	server, cleanup := core.StartServer(deps)
	go func() {
		log.Printf("Server started on %s", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if cleanup != nil {
		cleanup()
		log.Println("Cleanup tasks finished.")
	}

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := dbcore.CloseDB(); err != nil {
		log.Printf("Error closing database: %v", err)
	}

	log.Println("Server exited successfully")
}

// bootstrapAdmin seeds the initial admin account on an empty database.
// The generated password is printed exactly once.
func bootstrapAdmin(accountsRepo *accounts.Repository, cfg *config.Config) {
	adminEmail := "admin@localhost"
	if emails := cfg.AdminEmails(); len(emails) > 0 {
		adminEmail = emails[0]
	}

	password, err := accountsRepo.CreateDefaultAdminUser(adminEmail)
	if err != nil {
		log.Fatalf("Failed to create default admin user: %v", err)
	}
	if password != "" {
		log.Printf("Created default admin user %s with password: %s", utils.SanitizeLogEmail(adminEmail), password)
		log.Println("Change this password after the first login.")
	}
}
