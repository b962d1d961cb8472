package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/vnitin08/youtube-backend/internal/logger"
)

const (
	defaultListenAddr      = "localhost:8000"
	defaultLoggingLevel    = logger.LevelInfo
	defaultEnvironment     = logger.EnvProduction
	defaultAccessTokenTTL  = 15 * time.Minute
	defaultRefreshTokenTTL = 10 * 24 * time.Hour
	defaultPublicDir       = "public"
)

// Raw uploads never land in the public dir
var defaultUploadDir = filepath.Join(os.TempDir(), "youtube-backend-uploads")

type Config struct {
	// Default logging level
	LogLevel string

	// Environment: 'dev' or 'prod'
	Environment string

	// Address on which the server will be run
	ListenAddr string

	// Database to connect to
	DatabaseDSN string

	// Secrets to sign access and refresh tokens and token lifetimes
	AccessTokenSecret  string
	AccessTokenTTL     time.Duration
	RefreshTokenSecret string
	RefreshTokenTTL    time.Duration

	// Origins allowed to call the api from browser
	CORSOrigins []string

	// Directory served on /static/ and used as media store when no bucket configured
	PublicDir string

	// Directory uploaded files are saved to before they reach media store
	UploadDir string

	// URL the public dir media is served on
	// If empty: 'http://<listen address>/static'
	MediaBaseURL string

	// Object storage; disk store is used if bucket is empty
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:        defaultLoggingLevel,
		Environment:     defaultEnvironment,
		ListenAddr:      defaultListenAddr,
		AccessTokenTTL:  defaultAccessTokenTTL,
		RefreshTokenTTL: defaultRefreshTokenTTL,
		PublicDir:       defaultPublicDir,
		UploadDir:       defaultUploadDir,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		return c.LoadEnv(func(key string) string {
			return envMap[key]
		})
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) error {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) error {
		return func(value string) error {
			if value != "" {
				*o = value
			}
			return nil
		}
	}
	setDuration := func(o *time.Duration) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			*o = d
			return nil
		}
	}
	setList := func(o *[]string) func(value string) error {
		return func(value string) error {
			if value != "" {
				*o = splitList(value)
			}
			return nil
		}
	}

	envMap := map[string]func(string) error{
		"RUN_ADDRESS":          setString(&c.ListenAddr),
		"DATABASE_URI":         setString(&c.DatabaseDSN),
		"LOG_LEVEL":            setString(&c.LogLevel),
		"ENVIRONMENT":          setString(&c.Environment),
		"ACCESS_TOKEN_SECRET":  setString(&c.AccessTokenSecret),
		"ACCESS_TOKEN_EXPIRY":  setDuration(&c.AccessTokenTTL),
		"REFRESH_TOKEN_SECRET": setString(&c.RefreshTokenSecret),
		"REFRESH_TOKEN_EXPIRY": setDuration(&c.RefreshTokenTTL),
		"CORS_ORIGIN":          setList(&c.CORSOrigins),
		"PUBLIC_DIR":           setString(&c.PublicDir),
		"UPLOAD_DIR":           setString(&c.UploadDir),
		"MEDIA_BASE_URL":       setString(&c.MediaBaseURL),
		"S3_BUCKET":            setString(&c.S3Bucket),
		"S3_REGION":            setString(&c.S3Region),
		"S3_ENDPOINT":          setString(&c.S3Endpoint),
		"S3_ACCESS_KEY":        setString(&c.S3AccessKey),
		"S3_SECRET_KEY":        setString(&c.S3SecretKey),
	}

	for key, parseFn := range envMap {
		if err := parseFn(getenv(key)); err != nil {
			return fmt.Errorf("invalid %s. Err: %w", key, err)
		}
	}

	return nil
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("server", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")
	fs.StringVar(&c.AccessTokenSecret, "access-secret", c.AccessTokenSecret, "Secret to sign access tokens")
	fs.DurationVar(&c.AccessTokenTTL, "access-ttl", c.AccessTokenTTL, "Access token lifetime")
	fs.StringVar(&c.RefreshTokenSecret, "refresh-secret", c.RefreshTokenSecret, "Secret to sign refresh tokens")
	fs.DurationVar(&c.RefreshTokenTTL, "refresh-ttl", c.RefreshTokenTTL, "Refresh token lifetime")
	fs.StringSliceVar(&c.CORSOrigins, "cors-origin", c.CORSOrigins, "Origins allowed to call the api (comma separated)")
	fs.StringVar(&c.PublicDir, "public-dir", c.PublicDir, "Directory served on /static/")
	fs.StringVar(&c.UploadDir, "upload-dir", c.UploadDir, "Directory for uploaded temp files")
	fs.StringVar(&c.MediaBaseURL, "media-base-url", c.MediaBaseURL, "URL the public dir is served on")
	fs.StringVar(&c.S3Bucket, "s3-bucket", c.S3Bucket, "S3 bucket to store media in")
	fs.StringVar(&c.S3Region, "s3-region", c.S3Region, "S3 region")
	fs.StringVar(&c.S3Endpoint, "s3-endpoint", c.S3Endpoint, "S3 compatible endpoint (MinIO)")

	return fs.Parse(args)
}

// Check that config is complete enough to start server
func (c *Config) Validate() error {
	var errs []error

	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database dsn is required"))
	}
	if c.AccessTokenSecret == "" || c.RefreshTokenSecret == "" {
		errs = append(errs, errors.New("access and refresh token secrets are required"))
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("token lifetimes must be positive"))
	}
	if c.UploadDir == "" {
		errs = append(errs, errors.New("upload dir is required"))
	}
	if c.S3Bucket == "" && c.PublicDir == "" {
		errs = append(errs, errors.New("public dir is required when no s3 bucket configured"))
	}
	if c.UploadDir != "" && c.PublicDir != "" {
		nested, err := isWithin(c.UploadDir, c.PublicDir)
		switch {
		case err != nil:
			errs = append(errs, err)
		case nested:
			errs = append(errs, fmt.Errorf("upload dir %q must not be inside public dir %q", c.UploadDir, c.PublicDir))
		}
	}

	return errors.Join(errs...)
}

// True if dir is parent itself or any of its subdirectories
func isWithin(dir string, parent string) (bool, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false, fmt.Errorf("invalid dir %q. Err: %w", dir, err)
	}
	absParent, err := filepath.Abs(parent)
	if err != nil {
		return false, fmt.Errorf("invalid dir %q. Err: %w", parent, err)
	}

	rel, err := filepath.Rel(absParent, absDir)
	if err != nil {
		return false, nil
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))), nil
}

func (c *Config) mediaBaseURL() string {
	if c.MediaBaseURL != "" {
		return c.MediaBaseURL
	}
	return "http://" + c.ListenAddr + "/static"
}

func splitList(value string) []string {
	var items []string
	for item := range strings.SplitSeq(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
