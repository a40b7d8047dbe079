package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	TelegramToken string `yaml:"telegram_token"`

	ModelPath    string `yaml:"model_path"`
	LabelsPath   string `yaml:"labels_path"`
	Backend      string `yaml:"backend"` // onnx | gocv
	ORTLibrary   string `yaml:"ort_library"`
	StrictLabels bool   `yaml:"strict_labels"`

	Workers   int    `yaml:"workers"`
	OutputDir string `yaml:"output_dir"`

	LogLevel string `yaml:"log_level"`
	LogHuman bool   `yaml:"log_human"`
}

// Default значения по умолчанию.
func Default() *Config {
	return &Config{
		ModelPath:  "models/efficientnet_b0.onnx",
		LabelsPath: "class_indices.json",
		Backend:    "onnx",
		Workers:    runtime.NumCPU(),
		OutputDir:  "data",
		LogLevel:   "info",
	}
}

// Load собирает конфигурацию: значения по умолчанию, затем YAML-файл (если path
// не пустой), затем переменные окружения.
func Load(path string) (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.TelegramToken, "TELEGRAM_TOKEN")
	setString(&c.ModelPath, "INSPECTOR_MODEL_PATH")
	setString(&c.LabelsPath, "INSPECTOR_LABELS_PATH")
	setString(&c.Backend, "INSPECTOR_BACKEND")
	setString(&c.ORTLibrary, "INSPECTOR_ORT_LIBRARY")
	setString(&c.OutputDir, "INSPECTOR_OUTPUT_DIR")
	setString(&c.LogLevel, "INSPECTOR_LOG_LEVEL")

	if v, ok := os.LookupEnv("INSPECTOR_WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("INSPECTOR_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if err := setBool(&c.StrictLabels, "INSPECTOR_STRICT_LABELS"); err != nil {
		return err
	}
	return setBool(&c.LogHuman, "INSPECTOR_LOG_HUMAN")
}

// Validate проверяет значения, без которых сервис не запустится.
func (c *Config) Validate() error {
	var errs []error
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	switch c.Backend {
	case "onnx", "gocv":
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}
