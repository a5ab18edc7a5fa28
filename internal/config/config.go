package config

import (
	"log"
	"os"
	"time"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

type Config struct {
	Mode Mode

	Port string

	// LLMBackend is "mock", "huggingface" or "vertex".
	LLMBackend string

	HFAPIKey  string
	HFBaseURL string
	ModelName string

	GCPProjectID string
	GCPLocation  string

	InferenceTimeout time.Duration

	StorageBackend string // "memory" or "firestore"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// Load reads all env vars and builds the config
func Load() *Config {
	modeStr := getEnv("SERENITY_MODE", "local")
	var mode Mode
	switch modeStr {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	defaultLLM := "huggingface"
	if mode == ModeLocal {
		defaultLLM = "mock"
	}

	cfg := &Config{
		Mode: mode,

		Port: getEnv("SERENITY_PORT", "8080"),

		LLMBackend: getEnv("SERENITY_LLM_BACKEND", defaultLLM),

		HFAPIKey:  getEnv("HUGGINGFACE_API_KEY", ""),
		HFBaseURL: getEnv("SERENITY_HF_BASE_URL", "https://router.huggingface.co/v1"),
		ModelName: getEnv("SERENITY_MODEL_NAME", "mistralai/Mistral-7B-Instruct-v0.2"),

		GCPProjectID: getEnv("SERENITY_GCP_PROJECT", ""),
		GCPLocation:  getEnv("SERENITY_GCP_LOCATION", "us-central1"),

		InferenceTimeout: getDurationEnv("SERENITY_INFERENCE_TIMEOUT", 30*time.Second),

		StorageBackend: getEnv("SERENITY_STORAGE_BACKEND", "memory"),
	}

	// Minimal validation per backend
	if cfg.LLMBackend == "huggingface" && cfg.HFAPIKey == "" {
		log.Println("WARNING: HUGGINGFACE_API_KEY is not set; inference calls will fail closed")
	}
	if cfg.LLMBackend == "vertex" && cfg.GCPProjectID == "" {
		log.Fatal("SERENITY_GCP_PROJECT must be set for the vertex backend")
	}
	if cfg.StorageBackend == "firestore" && cfg.GCPProjectID == "" {
		log.Fatal("SERENITY_GCP_PROJECT must be set for the firestore backend")
	}

	return cfg
}
