package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/farellandr/eventhub/internal/auth"
	"github.com/farellandr/eventhub/internal/models"
)

type DeletePolicy string

const (
	DeleteOwnerOrAdmin DeletePolicy = "owner_or_admin"
	DeleteOwner        DeletePolicy = "owner"
	DeleteAdmin        DeletePolicy = "admin"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST" envDefault:"localhost"`
	DBPort      string `env:"DB_PORT" envDefault:"5432"`
	DBUser      string `env:"DB_USER" envDefault:"postgres"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME" envDefault:"eventhub"`
	DBSSLMode   string `env:"DB_SSLMODE" envDefault:"disable"`

	Port      string `env:"PORT" envDefault:"4000"`
	GinMode   string `env:"GIN_MODE" envDefault:"release"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	JWTSecret    string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	UploadDir      string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	UploadMaxBytes int64  `env:"UPLOAD_MAX_BYTES" envDefault:"5242880"`

	LoginRateLimit float64 `env:"LOGIN_RATE_LIMIT" envDefault:"1"`
	LoginRateBurst int     `env:"LOGIN_RATE_BURST" envDefault:"10"`

	EventDeletePolicy DeletePolicy `env:"EVENT_DELETE_POLICY" envDefault:"owner_or_admin"`

	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	switch cfg.EventDeletePolicy {
	case DeleteOwnerOrAdmin, DeleteOwner, DeleteAdmin:
	default:
		return nil, fmt.Errorf("EVENT_DELETE_POLICY must be one of owner_or_admin, owner, admin; got %q", cfg.EventDeletePolicy)
	}

	if len(cfg.AllowedOrigins) == 0 {
		return nil, errors.New("CORS_ALLOWED_ORIGINS must list at least one origin")
	}

	if cfg.TokenTTL < 0 {
		return nil, errors.New("TOKEN_TTL must not be negative")
	}

	return cfg, nil
}

func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

func (c *Config) ListenAddr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if err := SeedAdmin(db, cfg); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Event{}, &models.Ticket{})
}

// SeedAdmin creates the bootstrap admin account when ADMIN_EMAIL and
// ADMIN_PASSWORD are set. The email is stored lowercased, matching login.
// An existing account with that email is left as is.
func SeedAdmin(db *gorm.DB, cfg *Config) error {
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || cfg.AdminPassword == "" {
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("looking up admin: %w", err)
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := models.User{
		Username: cfg.AdminUsername,
		Email:    email,
		Password: hash,
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}

	slog.Info("Seeded admin account", "email", admin.Email)
	return nil
}
