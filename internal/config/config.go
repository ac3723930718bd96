package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store backends.
const (
	StoreBackendSheet    = "sheet"
	StoreBackendPostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	S3       S3Config
	Store    StoreConfig
	Upload   UploadConfig
	Semester SemesterConfig
	Log      LogConfig
	CORS     CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds S3-compatible object storage settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// StoreConfig selects and tunes the shared result table.
type StoreConfig struct {
	Backend     string        `mapstructure:"backend"`
	WorkbookKey string        `mapstructure:"workbook_key"`
	SheetName   string        `mapstructure:"sheet_name"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

// UploadConfig bounds accepted result documents.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// MaxBytes returns the upload limit in bytes.
func (u *UploadConfig) MaxBytes() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// SemesterConfig points at the semester catalogue.
// An empty CataloguePath uses the catalogue compiled into the binary.
type SemesterConfig struct {
	CataloguePath string `mapstructure:"catalogue_path"`
	Default       string `mapstructure:"default"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the VTUPORTAL_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VTUPORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "vtuportal")
	v.SetDefault("db.password", "vtuportal_secret")
	v.SetDefault("db.name", "vtuportal_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 5)

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "vtuportal-results")
	v.SetDefault("s3.endpoint", "")

	// Store defaults
	v.SetDefault("store.backend", StoreBackendSheet)
	v.SetDefault("store.workbook_key", "results/results.xlsx")
	v.SetDefault("store.sheet_name", "Results")
	v.SetDefault("store.timeout", "30s")
	v.SetDefault("store.max_attempts", 3)

	v.SetDefault("upload.max_file_size_mb", 10)

	v.SetDefault("semester.catalogue_path", "")
	v.SetDefault("semester.default", "sem1")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:8501")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "VTUPORTAL_SERVER_PORT",
		"server.read_timeout":     "VTUPORTAL_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "VTUPORTAL_SERVER_WRITE_TIMEOUT",
		"server.environment":      "VTUPORTAL_SERVER_ENVIRONMENT",
		"db.host":                 "VTUPORTAL_DB_HOST",
		"db.port":                 "VTUPORTAL_DB_PORT",
		"db.user":                 "VTUPORTAL_DB_USER",
		"db.password":             "VTUPORTAL_DB_PASSWORD",
		"db.name":                 "VTUPORTAL_DB_NAME",
		"db.sslmode":              "VTUPORTAL_DB_SSLMODE",
		"db.max_open":             "VTUPORTAL_DB_MAX_OPEN",
		"db.max_idle":             "VTUPORTAL_DB_MAX_IDLE",
		"s3.region":               "VTUPORTAL_S3_REGION",
		"s3.bucket":               "VTUPORTAL_S3_BUCKET",
		"s3.endpoint":             "VTUPORTAL_S3_ENDPOINT",
		"s3.access_key":           "VTUPORTAL_S3_ACCESS_KEY",
		"s3.secret_key":           "VTUPORTAL_S3_SECRET_KEY",
		"store.backend":           "VTUPORTAL_STORE_BACKEND",
		"store.workbook_key":      "VTUPORTAL_STORE_WORKBOOK_KEY",
		"store.sheet_name":        "VTUPORTAL_STORE_SHEET_NAME",
		"store.timeout":           "VTUPORTAL_STORE_TIMEOUT",
		"store.max_attempts":      "VTUPORTAL_STORE_MAX_ATTEMPTS",
		"upload.max_file_size_mb": "VTUPORTAL_UPLOAD_MAX_FILE_SIZE_MB",
		"semester.catalogue_path": "VTUPORTAL_SEMESTER_CATALOGUE_PATH",
		"semester.default":        "VTUPORTAL_SEMESTER_DEFAULT",
		"log.level":               "VTUPORTAL_LOG_LEVEL",
		"log.format":              "VTUPORTAL_LOG_FORMAT",
		"cors.allowed_origins":    "VTUPORTAL_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if VTUPORTAL_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("VTUPORTAL_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Store = StoreConfig{
		Backend:     strings.ToLower(strings.TrimSpace(v.GetString("store.backend"))),
		WorkbookKey: v.GetString("store.workbook_key"),
		SheetName:   v.GetString("store.sheet_name"),
		Timeout:     v.GetDuration("store.timeout"),
		MaxAttempts: v.GetInt("store.max_attempts"),
	}
	switch cfg.Store.Backend {
	case StoreBackendSheet, StoreBackendPostgres:
	default:
		return nil, fmt.Errorf("unknown store backend %q (want %s or %s)", cfg.Store.Backend, StoreBackendSheet, StoreBackendPostgres)
	}
	if cfg.Store.MaxAttempts < 1 {
		cfg.Store.MaxAttempts = 1
	}

	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}
	cfg.Semester = SemesterConfig{
		CataloguePath: v.GetString("semester.catalogue_path"),
		Default:       v.GetString("semester.default"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	return cfg, nil
}
