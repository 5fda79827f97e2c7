package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	globalConfig Config
	once         sync.Once
)

// Config flat configuration structure
type Config struct {
	// Server
	ServerHost         string        `mapstructure:"server_host"`
	ServerPort         int           `mapstructure:"server_port"`
	ServerReadTimeout  time.Duration `mapstructure:"server_read_timeout"`
	ServerWriteTimeout time.Duration `mapstructure:"server_write_timeout"`
	ServerIdleTimeout  time.Duration `mapstructure:"server_idle_timeout"`

	// CORS: comma separated origin allowlist
	CORSAllowedOrigins string `mapstructure:"cors_allowed_origins"`

	// Database
	DBType            string `mapstructure:"db_type"`
	DBHost            string `mapstructure:"db_host"`
	DBPort            int    `mapstructure:"db_port"`
	DBUsername        string `mapstructure:"db_username"`
	DBPassword        string `mapstructure:"db_password"`
	DBName            string `mapstructure:"db_name"`
	DBFilePath        string `mapstructure:"db_file_path"`
	DBMaxOpenConns    int    `mapstructure:"db_max_open_conns"`
	DBMaxIdleConns    int    `mapstructure:"db_max_idle_conns"`
	DBConnMaxLifetime int    `mapstructure:"db_conn_max_lifetime"`

	// Auth
	JWTSecret    string        `mapstructure:"jwt_secret"`
	JWTExpiresIn time.Duration `mapstructure:"jwt_expires_in"`
	CookieSecure bool          `mapstructure:"cookie_secure"`

	// Object storage (S3 compatible)
	S3Endpoint        string        `mapstructure:"s3_endpoint"`
	S3AccessKeyID     string        `mapstructure:"s3_access_key_id"`
	S3SecretAccessKey string        `mapstructure:"s3_secret_access_key"`
	S3BucketName      string        `mapstructure:"s3_bucket_name"`
	S3UseSSL          bool          `mapstructure:"s3_use_ssl"`
	S3PublicBaseURL   string        `mapstructure:"s3_public_base_url"`
	S3PresignExpiry   time.Duration `mapstructure:"s3_presign_expiry"`

	// Brevo transactional email / campaigns
	BrevoAPIKey            string `mapstructure:"brevo_api_key"`
	BrevoSenderEmail       string `mapstructure:"brevo_sender_email"`
	BrevoSenderName        string `mapstructure:"brevo_sender_name"`
	BrevoAdminEmails       string `mapstructure:"brevo_admin_emails"`
	BrevoContactListID     int64  `mapstructure:"brevo_contact_list_id"`
	BrevoConfirmTemplateID int64  `mapstructure:"brevo_confirm_template_id"`
	BrevoCommentTemplateID int64  `mapstructure:"brevo_comment_template_id"`

	// Frontend base URL, used for links embedded in campaign emails
	FrontendBaseURL string `mapstructure:"frontend_base_url"`

	// Rate limiting
	RateLimitApiRPS     float64       `mapstructure:"rate_limit_api_rps"`
	RateLimitApiBurst   int           `mapstructure:"rate_limit_api_burst"`
	RateLimitAuthRPS    float64       `mapstructure:"rate_limit_auth_rps"`
	RateLimitAuthBurst  int           `mapstructure:"rate_limit_auth_burst"`
	RateLimitExpireTime time.Duration `mapstructure:"rate_limit_expire_time"`
}

// InitConfig Initialize configuration
func InitConfig() {
	once.Do(func() {
		loadConfig()
	})
}

func Get() *Config {
	return &globalConfig
}

// loadConfig Core configuration loading
func loadConfig() {
	setDefaults()

	configFile := viper.GetString("config_file_path")
	if configFile == "" {
		configFile = ".env"
	}
	viper.SetConfigFile(configFile)
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "Info: .env file not found, using defaults and environment variables")
	} else {
		fmt.Fprintln(os.Stderr, "Info: Loaded configuration from .env file")
	}

	viper.AutomaticEnv()
	for _, key := range viper.AllKeys() {
		viper.BindEnv(key)
	}

	if err := viper.Unmarshal(&globalConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: Unable to unmarshal config, %v\n", err)
		os.Exit(1)
	}
}

func setDefaults() {
	viper.SetDefault("server_host", "127.0.0.1")
	viper.SetDefault("server_port", 4000)
	viper.SetDefault("server_read_timeout", "15s")
	viper.SetDefault("server_write_timeout", "30s")
	viper.SetDefault("server_idle_timeout", "120s")

	viper.SetDefault("cors_allowed_origins", "http://localhost:3000")

	viper.SetDefault("db_type", "sqlite")
	viper.SetDefault("db_host", "localhost")
	viper.SetDefault("db_port", 5432)
	viper.SetDefault("db_username", "postgres")
	viper.SetDefault("db_password", "")
	viper.SetDefault("db_name", "portfolio")
	viper.SetDefault("db_file_path", "")
	viper.SetDefault("db_max_open_conns", 100)
	viper.SetDefault("db_max_idle_conns", 25)
	viper.SetDefault("db_conn_max_lifetime", 3600)

	viper.SetDefault("jwt_secret", "")
	viper.SetDefault("jwt_expires_in", "120h") // 5 days, cookie MaxAge matches
	viper.SetDefault("cookie_secure", false)

	viper.SetDefault("s3_endpoint", "")
	viper.SetDefault("s3_access_key_id", "")
	viper.SetDefault("s3_secret_access_key", "")
	viper.SetDefault("s3_bucket_name", "")
	viper.SetDefault("s3_use_ssl", true)
	viper.SetDefault("s3_public_base_url", "")
	viper.SetDefault("s3_presign_expiry", "5m")

	viper.SetDefault("brevo_api_key", "")
	viper.SetDefault("brevo_sender_email", "noreply@example.com")
	viper.SetDefault("brevo_sender_name", "Portfolio")
	viper.SetDefault("brevo_admin_emails", "")
	viper.SetDefault("brevo_contact_list_id", 0)
	viper.SetDefault("brevo_confirm_template_id", 0)
	viper.SetDefault("brevo_comment_template_id", 0)

	viper.SetDefault("frontend_base_url", "http://localhost:3000")

	viper.SetDefault("rate_limit_api_rps", 30.0)
	viper.SetDefault("rate_limit_api_burst", 60)
	viper.SetDefault("rate_limit_auth_rps", 0.5)
	viper.SetDefault("rate_limit_auth_burst", 5)
	viper.SetDefault("rate_limit_expire_time", "10m")
}

// Addr returns the listen address as "host:port"
func (c *Config) Addr() string {
	host := c.ServerHost
	if host == "" {
		host = "0.0.0.0"
	}
	port := c.ServerPort
	if port == 0 {
		port = 4000
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// AllowedOrigins returns the parsed CORS origin allowlist
func (c *Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// AdminEmails returns the parsed admin notification address list
func (c *Config) AdminEmails() []string {
	parts := strings.Split(c.BrevoAdminEmails, ",")
	emails := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			emails = append(emails, trimmed)
		}
	}
	return emails
}
