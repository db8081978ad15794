package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config stores the application configuration.
type Config struct {
	ServerAddr string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioRegion    string
	MinioUseSSL    bool

	FFmpegPath string

	// PublicAssetBase is the URL prefix under which uploaded media is served
	// to the editing surface. RenderAssetBase is the prefix the render
	// process can reach the same files under; element media references are
	// rewritten from the former to the latter before rendering.
	PublicAssetBase string
	RenderAssetBase string

	// RenderProfilePath points at an optional YAML file with encoder
	// settings; missing file means defaults.
	RenderProfilePath string

	LogLevel string
	LogPath  string
}

// RenderProfile holds encoder settings for the ffmpeg renderer.
type RenderProfile struct {
	Preset      string `yaml:"preset"`
	PixelFormat string `yaml:"pixelFormat"`
	CRF         int    `yaml:"crf"`
	VideoCodec  string `yaml:"videoCodec"`
	SegmentJobs int    `yaml:"segmentJobs"` // parallel scene segment renders, 0 = NumCPU
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load does not override variables already set in the environment.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on existing environment variables and defaults.")
	}

	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),

		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "framecast"),

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "127.0.0.1:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "framecast"),
		MinioRegion:    getEnv("MINIO_REGION", "us-east-1"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),

		FFmpegPath: getEnv("FFMPEG_PATH", "ffmpeg"),

		PublicAssetBase: getEnv("PUBLIC_ASSET_BASE", "http://localhost:8080/assets/"),
		RenderAssetBase: getEnv("RENDER_ASSET_BASE", "http://127.0.0.1:8080/assets/"),

		RenderProfilePath: getEnv("RENDER_PROFILE", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogPath:  getEnv("LOG_PATH", ""),
	}
}

// LoadRenderProfile reads the YAML render profile at path. An empty path or
// a missing file yields the default profile.
func LoadRenderProfile(path string) (*RenderProfile, error) {
	profile := &RenderProfile{
		Preset:      "medium",
		PixelFormat: "yuv420p",
		CRF:         21,
		VideoCodec:  "libx264",
	}
	if path == "" {
		return profile, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return profile, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
