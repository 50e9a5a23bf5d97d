package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type HTTPServer struct {
	Host string
	Port string
}

type RedisCache struct {
	Host     string
	Port     string
	Password string
}

// Enabled reports whether a shared Redis instance is configured.
// Without it caches and sessions live in process memory.
func (r RedisCache) Enabled() bool {
	return r.Host != ""
}

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type Mongo struct {
	URI      string
	Database string
}

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMongo    = "mongo"
)

type Storage struct {
	Driver string
}

type TMDB struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Language     string
	Timeout      time.Duration
}

// Enabled reports whether the external catalog credential is present.
func (t TMDB) Enabled() bool {
	return strings.TrimSpace(t.APIKey) != ""
}

type Catalog struct {
	ListingTTL      time.Duration
	DetailsTTL      time.Duration
	RetryDelay      time.Duration
	DefaultPageSize int
	MaxPageSize     int
}

type Auth struct {
	JWTSecret   string
	TokenTTL    time.Duration
	AdminEmails []string
}

const (
	S3ClientReal = "real"
	S3ClientMock = "mock"
	S3ClientNone = "none"
)

type S3 struct {
	ClientType   string
	MockEndpoint string
	Bucket       string
	Prefix       string
	PublicURL    string
	PresignTTL   time.Duration
}

type CORS struct {
	Origins []string
}

type Log struct {
	Level  string
	Format string
}

type Config struct {
	HTTP     HTTPServer
	Mode     string
	Storage  Storage
	Redis    RedisCache
	Postgres Postgres
	Mongo    Mongo
	TMDB     TMDB
	Catalog  Catalog
	Auth     Auth
	S3       S3
	CORS     CORS
	Log      Log
}

const logtag = "[config]"

// Load reads the -config flag and builds the configuration from the
// environment.
func Load() *Config {
	configPath := flag.String("config", "", "path env file")
	flag.Parse()

	return LoadFrom(*configPath)
}

// LoadFrom builds the configuration from the environment, loading the given
// env file first. An empty path falls back to .env in the working directory.
func LoadFrom(configPath string) *Config {
	if configPath != "" {
		if err := godotenv.Load(configPath); err != nil {
			log.Fatalf("%s err loading env from file : %v", logtag, err)
		}
		log.Printf("%s using env from : %s", logtag, configPath)
	} else {
		log.Printf("%s using env from .env", logtag)
		_ = godotenv.Load()
	}

	cfg := &Config{
		HTTP:     *newHTTP(),
		Mode:     getenv("APP_MODE", "RW"),
		Storage:  *newStorage(),
		Redis:    *newRedis(),
		Postgres: *newPostgres(),
		Mongo:    *newMongo(),
		TMDB:     *newTMDB(),
		Catalog:  *newCatalog(),
		Auth:     *newAuth(),
		S3:       *newS3(),
		CORS:     *newCORS(),
		Log:      Log{Level: getenv("LOG_LEVEL", "info"), Format: getenv("LOG_FORMAT", "auto")},
	}

	log.Printf("%s backend config : %+v\n", logtag, cfg.redacted())
	return cfg
}

func (c Config) redacted() Config {
	if c.TMDB.APIKey != "" {
		c.TMDB.APIKey = "***"
	}
	if c.Auth.JWTSecret != "" {
		c.Auth.JWTSecret = "***"
	}
	if c.Postgres.Password != "" {
		c.Postgres.Password = "***"
	}
	if c.Redis.Password != "" {
		c.Redis.Password = "***"
	}
	return c
}

func newHTTP() *HTTPServer {
	return &HTTPServer{
		Port: getenv("HTTP_PORT", "8080"),
		Host: getenv("HTTP_HOST", "localhost"),
	}
}

func newStorage() *Storage {
	driver := strings.ToLower(getenv("STORAGE_DRIVER", StorageDriverPostgres))
	if driver != StorageDriverMongo {
		driver = StorageDriverPostgres
	}
	return &Storage{Driver: driver}
}

func newRedis() *RedisCache {
	return &RedisCache{
		Port:     getenv("REDIS_PORT", "6379"),
		Host:     getenv("REDIS_HOST", ""),
		Password: getenv("REDIS_PASSWORD", ""),
	}
}

func newPostgres() *Postgres {
	return &Postgres{
		Host:     getenv("DB_HOST", "localhost"),
		Port:     getenv("DB_PORT", "5432"),
		User:     getenv("DB_USER", "admin"),
		Password: getenv("DB_PASSWORD", "shared"),
		DBName:   getenv("DB_NAME", "kinoreview"),
		SSLMode:  getenv("DB_SSLMODE", "disable"),
	}
}

func newMongo() *Mongo {
	return &Mongo{
		URI:      getenv("MONGO_URI", "mongodb://localhost:27017"),
		Database: getenv("MONGO_DB", "kinoreview"),
	}
}

func newTMDB() *TMDB {
	return &TMDB{
		APIKey:       getenvSecret("TMDB_API_KEY"),
		BaseURL:      getenv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		ImageBaseURL: getenv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/w342"),
		Language:     getenv("TMDB_LANGUAGE", "en-US"),
		Timeout:      getenvDuration("TMDB_TIMEOUT", 10*time.Second),
	}
}

func newCatalog() *Catalog {
	return &Catalog{
		ListingTTL:      getenvDuration("CATALOG_LISTING_TTL", 30*time.Second),
		DetailsTTL:      getenvDuration("CATALOG_DETAILS_TTL", 10*time.Minute),
		RetryDelay:      getenvDuration("CATALOG_RETRY_DELAY", 500*time.Millisecond),
		DefaultPageSize: getenvInt("CATALOG_PAGE_SIZE", 20),
		MaxPageSize:     getenvInt("CATALOG_MAX_PAGE_SIZE", 100),
	}
}

func newAuth() *Auth {
	secret := getenvSecret("JWT_SECRET")
	if secret == "" {
		secret = "shared"
	}
	return &Auth{
		JWTSecret:   secret,
		TokenTTL:    getenvDuration("JWT_TTL", 7*24*time.Hour),
		AdminEmails: splitList(getenv("ADMIN_EMAILS", "")),
	}
}

func newS3() *S3 {
	return &S3{
		ClientType:   getenv("S3_CLIENT_TYPE", S3ClientNone),
		MockEndpoint: getenv("MOCK_S3_ENDPOINT", "http://mock-s3-server:9090"),
		Bucket:       getenv("S3_BUCKET", "kinoreview-posters"),
		Prefix:       getenv("S3_PREFIX", "poster"),
		PublicURL:    getenv("S3_PUBLIC_URL", ""),
		PresignTTL:   getenvDuration("S3_PRESIGN_TTL", 7*24*time.Hour),
	}
}

func newCORS() *CORS {
	return &CORS{Origins: splitList(getenv("CORS_ORIGINS", "*"))}
}

func splitList(raw string) []string {
	items := make([]string, 0, 1)
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("%s %s undefined. Using default value %s\n", logtag, key, defaultValue)
		return defaultValue
	}
	fmt.Printf("%s %s = %s\n", logtag, key, val)
	return val
}

func getenvSecret(key string) string {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("%s %s undefined\n", logtag, key)
		return ""
	}
	fmt.Printf("%s %s is set\n", logtag, key)
	return val
}

func getenvInt(key string, defaultValue int) int {
	raw := getenv(key, strconv.Itoa(defaultValue))
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		fmt.Printf("%s %s is not a positive integer. Using default value %d\n", logtag, key, defaultValue)
		return defaultValue
	}
	return v
}

func getenvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getenv(key, defaultValue.String())
	v, err := time.ParseDuration(raw)
	if err != nil || v < 0 {
		fmt.Printf("%s %s is not a duration. Using default value %s\n", logtag, key, defaultValue)
		return defaultValue
	}
	return v
}
