package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yaml"

type FilesConfig struct {
	RootDir       string `yaml:"root_dir"`
	FontPath      string `yaml:"font_path"`
	MaxProofBytes int64  `yaml:"max_proof_bytes"`
}

type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	AdminEmail    string        `yaml:"admin_email"`
	AdminPassword string        `yaml:"admin_password"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type FinanceConfig struct {
	DepositCategory   string   `yaml:"deposit_category"`
	PaymentCategory   string   `yaml:"payment_category"`
	IncomeCategories  []string `yaml:"income_categories"`
	ExpenseCategories []string `yaml:"expense_categories"`
}

type Config struct {
	Server struct {
		Port          int    `yaml:"port"`
		PublicBaseURL string `yaml:"public_base_url"`
		VendorName    string `yaml:"vendor_name"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"` // empty: in-memory store
	} `yaml:"database"`
	Redis struct {
		URL string `yaml:"url"` // empty: in-process locks
	} `yaml:"redis"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Auth     AuthConfig     `yaml:"auth"`
	Telegram TelegramConfig `yaml:"telegram"`
	Files    FilesConfig    `yaml:"files"`
	Finance  FinanceConfig  `yaml:"finance"`
}

// LoadConfig reads CONFIG_PATH (or config/config.yaml) and panics on failure.
func LoadConfig() *Config {
	// .env is optional
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultPath
	}
	cfg, err := Load(path)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return cfg
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	override := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	override(&c.Database.DSN, "DATABASE_URL")
	override(&c.Redis.URL, "REDIS_URL")
	override(&c.Auth.JWTSecret, "JWT_SECRET")
	override(&c.Auth.AdminPassword, "ADMIN_PASSWORD")
	override(&c.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	override(&c.Email.SMTPPassword, "SMTP_PASSWORD")
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.VendorName == "" {
		c.Server.VendorName = "Vena Pictures"
	}
	if c.Files.RootDir == "" {
		c.Files.RootDir = "./files"
	}
	if c.Files.MaxProofBytes <= 0 {
		c.Files.MaxProofBytes = 5 << 20
	}
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = 12 * time.Hour
	}
	if c.Finance.DepositCategory == "" {
		c.Finance.DepositCategory = "DP Proyek"
	}
	if c.Finance.PaymentCategory == "" {
		c.Finance.PaymentCategory = "Pelunasan"
	}
}

func (c *Config) validate() error {
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("auth.jwt_secret must be at least 16 characters (or set JWT_SECRET)")
	}
	return nil
}
