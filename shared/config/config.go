package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"
)

const (
	MediaBackendS3 = "s3"
	MediaBackendFs = "fs"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	HttpPort       int      `yaml:"http_port" env:"PORT"`
	LogLevel       string   `yaml:"log_level" env:"LOG_LEVEL"`
	LogJSON        bool     `yaml:"log_json"`
	SecureCookies  bool     `yaml:"secure_cookies"`
	AllowedOrigins []string `yaml:"allowed_origins"`

	PublicPageSize int           `yaml:"public_page_size"`
	AdminPageSize  int           `yaml:"admin_page_size"`
	SignedURLTTL   time.Duration `yaml:"signed_url_ttl"`

	// DefaultVisible is the isVisible value written for new submissions.
	// false means every submission waits for moderation before it shows on the wall.
	DefaultVisible bool `yaml:"default_visible"`

	MaxAttachments         int      `yaml:"max_attachments"`
	MaxTotalAttachmentSize int64    `yaml:"max_total_attachment_size"`
	AllowedImageMimeTypes  []string `yaml:"allowed_image_mime_types"`
	NameMaxLen             int      `yaml:"name_max_len"`
	MessageMaxLen          int      `yaml:"message_max_len"`

	Media   Media   `yaml:"media"`
	Captcha Captcha `yaml:"captcha"`
}

type Media struct {
	Backend     string `yaml:"backend" env:"MEDIA_BACKEND"`
	Bucket      string `yaml:"bucket" env:"MEDIA_BUCKET"`
	FsRoot      string `yaml:"fs_root"`
	S3Region    string `yaml:"s3_region" env:"S3_REGION"`
	S3Endpoint  string `yaml:"s3_endpoint" env:"S3_ENDPOINT"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

type Captcha struct {
	VerifyURL string        `yaml:"verify_url"`
	Timeout   time.Duration `yaml:"timeout"`
}

type Pg struct {
	Host     string `yaml:"host" env:"PG_HOST"`
	Port     int    `yaml:"port" env:"PG_PORT"`
	User     string `yaml:"user" env:"PG_USER"`
	Password string `yaml:"password" env:"PG_PASSWORD"`
	Dbname   string `yaml:"dbname" env:"PG_DBNAME"`
	SSLMode  string `yaml:"sslmode" env:"PG_SSLMODE"`
}

// Private holds secrets. Absent secrets are not defaulted: the components using them deny access instead.
type Private struct {
	Pg                Pg     `yaml:"pg"`
	SessionSecret     string `yaml:"session_secret" env:"AUTH_SECRET"`
	AdminPassword     string `yaml:"admin_password" env:"ADMIN_PASSWORD"`
	AdminPasswordHash string `yaml:"admin_password_hash" env:"ADMIN_PASSWORD_HASH"`
	CaptchaSecret     string `yaml:"captcha_secret" env:"RECAPTCHA_SECRET_KEY"`
	S3AccessKey       string `yaml:"s3_access_key" env:"S3_ACCESS_KEY"`
	S3SecretKey       string `yaml:"s3_secret_key" env:"S3_SECRET_KEY"`
	MediaSigningKey   string `yaml:"media_signing_key" env:"MEDIA_SIGNING_KEY"`
}

func (p Pg) DSN() string {
	sslMode := p.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Dbname, sslMode)
}

func loadPath(configPath string, output interface{}) error {
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}
	if err := yaml.UnmarshalStrict(configFile, output); err != nil {
		return fmt.Errorf("can't unmarshal %s: %w", configPath, err)
	}
	return nil
}

// Load reads public.yaml (required) and private.yaml (optional) from configFolder,
// then applies environment overrides and defaults.
func Load(configFolder string) (*Config, error) {
	var cfg Config

	if err := loadPath(path.Join(configFolder, "public.yaml"), &cfg.Public); err != nil {
		return nil, fmt.Errorf("public config: %w", err)
	}
	err := loadPath(path.Join(configFolder, "private.yaml"), &cfg.Private)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("private config: %w", err)
	}

	if err := env.Parse(&cfg.Public); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := env.Parse(&cfg.Private); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad(configFolder string) *Config {
	cfg, err := Load(configFolder)
	if err != nil {
		panic("can't load config: " + err.Error())
	}
	return cfg
}

func (c *Config) applyDefaults() {
	p := &c.Public
	if p.HttpPort == 0 {
		p.HttpPort = 8080
	}
	if p.PublicPageSize <= 0 {
		p.PublicPageSize = 12
	}
	if p.AdminPageSize <= 0 {
		p.AdminPageSize = 10
	}
	if p.SignedURLTTL <= 0 {
		p.SignedURLTTL = time.Hour
	}
	if p.MaxAttachments <= 0 {
		p.MaxAttachments = 10
	}
	if p.MaxTotalAttachmentSize <= 0 {
		p.MaxTotalAttachmentSize = 50 << 20
	}
	if len(p.AllowedImageMimeTypes) == 0 {
		p.AllowedImageMimeTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	}
	if p.NameMaxLen <= 0 {
		p.NameMaxLen = 100
	}
	if p.MessageMaxLen <= 0 {
		p.MessageMaxLen = 5000
	}
	if p.Media.Backend == "" {
		p.Media.Backend = MediaBackendS3
	}
	if p.Media.Bucket == "" {
		p.Media.Bucket = "contact-uploads"
	}
	if p.Media.FsRoot == "" {
		p.Media.FsRoot = "media"
	}
	if p.Captcha.VerifyURL == "" {
		p.Captcha.VerifyURL = "https://www.google.com/recaptcha/api/siteverify"
	}
	if p.Captcha.Timeout <= 0 {
		p.Captcha.Timeout = 10 * time.Second
	}
	if c.Private.Pg.Port == 0 {
		c.Private.Pg.Port = 5432
	}
}

func (c *Config) validate() error {
	switch c.Public.Media.Backend {
	case MediaBackendS3, MediaBackendFs:
	default:
		return fmt.Errorf("unknown media backend %q", c.Public.Media.Backend)
	}
	if c.Public.Media.Backend == MediaBackendFs && c.MediaSigningKey() == "" {
		return errors.New("fs media backend needs media_signing_key or session_secret")
	}
	return nil
}

// MediaSigningKey is the key for fs signed links. Falls back to the session secret.
func (c *Config) MediaSigningKey() string {
	if c.Private.MediaSigningKey != "" {
		return c.Private.MediaSigningKey
	}
	return c.Private.SessionSecret
}
