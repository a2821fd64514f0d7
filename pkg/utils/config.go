package utils

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Model    ModelConfig
	Auth     AuthConfig
	OTP      OTPConfig
}

type AppConfig struct {
	Name      string
	Port      string
	Debug     bool
	LogPath   string
	SecretKey string
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	AutoMigrate bool
}

// ModelConfig points at the exported model artifacts. Paths are not checked
// here; a missing file fails when the predictor first loads it.
type ModelConfig struct {
	ModelPath         string
	ScalerPath        string
	InferenceURL      string
	TimeoutSeconds    int
	DecisionThreshold float64
}

type AuthConfig struct {
	TokenExpiryHours int
}

type OTPConfig struct {
	ExpiryMinutes int
	Length        int
}

const (
	DefaultSecretKey  = "dev-secret-key"
	DefaultModelPath  = "./model/heart_cnn_lstm_model.keras"
	DefaultScalerPath = "./model/scaler.save"
)

// LoadConfig reads an optional .env file and the process environment.
// Environment variables win over the file.
func LoadConfig() (*Config, error) {
	return loadConfig(".env")
}

func loadConfig(file string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "heart-predict")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", "false")
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("SECRET_KEY", DefaultSecretKey)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("MODEL_PATH", DefaultModelPath)
	v.SetDefault("SCALER_PATH", DefaultScalerPath)
	v.SetDefault("INFERENCE_URL", "")
	v.SetDefault("INFERENCE_TIMEOUT_SECONDS", 10)
	v.SetDefault("PREDICTION_THRESHOLD", 0.5)
	v.SetDefault("TOKEN_EXPIRY_HOURS", 24)
	v.SetDefault("OTP_EXPIRY_MINUTES", 10)
	v.SetDefault("OTP_LENGTH", 6)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:      v.GetString("APP_NAME"),
			Port:      v.GetString("PORT"),
			Debug:     strings.EqualFold(strings.TrimSpace(v.GetString("DEBUG")), "true"),
			LogPath:   v.GetString("LOG_PATH"),
			SecretKey: v.GetString("SECRET_KEY"),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			Name:        v.GetString("DB_NAME"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Model: ModelConfig{
			ModelPath:         v.GetString("MODEL_PATH"),
			ScalerPath:        v.GetString("SCALER_PATH"),
			InferenceURL:      v.GetString("INFERENCE_URL"),
			TimeoutSeconds:    v.GetInt("INFERENCE_TIMEOUT_SECONDS"),
			DecisionThreshold: v.GetFloat64("PREDICTION_THRESHOLD"),
		},
		Auth: AuthConfig{
			TokenExpiryHours: v.GetInt("TOKEN_EXPIRY_HOURS"),
		},
		OTP: OTPConfig{
			ExpiryMinutes: v.GetInt("OTP_EXPIRY_MINUTES"),
			Length:        v.GetInt("OTP_LENGTH"),
		},
	}

	return config, nil
}
