package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Rag      RagConfig
	Safety   SafetyConfig
}

type AppConfig struct {
	Port               string
	ServiceName        string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
}

type RagConfig struct {
	GeneralCollection    string
	DrugSafetyCollection string
	DrugKeywords         []string // routes to the drug-safety collection
	TopK                 int
	EmbeddingDimension   int
	InvokeTimeout        time.Duration // single orchestrated attempt
	RequestBudget        time.Duration // whole chat request
	IngestTopic          string
}

// SafetyConfig holds safety wording as data so it can be audited and
// updated without a code change.
type SafetyConfig struct {
	EmergencyKeywords []string
	EmergencyMessage  string
	Disclaimer        string
}

const (
	defaultEmergencyKeywords = "chest pain,crushing,suicide,bleeding profusely"
	defaultEmergencyMessage  = "MEDICAL EMERGENCY DETECTED: Please stop using this app and call emergency services (108 / 911) immediately."
	defaultDisclaimer        = "This is general information, not a medical diagnosis. Consult a healthcare professional for personal advice."
)

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3001"),
			ServiceName:        getEnv("SERVICE_NAME", "VytalCare RAG Backend"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Rag: RagConfig{
			GeneralCollection:    getEnv("COLLECTION_GENERAL", "medical_knowledge"),
			DrugSafetyCollection: getEnv("COLLECTION_DRUG_SAFETY", "drug_safety"),
			DrugKeywords:         getEnvAsList("DRUG_ROUTE_KEYWORDS", "pill,drug,dose"),
			TopK:                 getEnvAsInt("RAG_TOP_K", 4),
			EmbeddingDimension:   getEnvAsInt("EMBEDDING_DIMENSION", 768),
			InvokeTimeout:        getEnvAsDuration("PIPELINE_INVOKE_TIMEOUT_MS", 10000),
			RequestBudget:        getEnvAsDuration("CHAT_REQUEST_BUDGET_MS", 15000),
			IngestTopic:          getEnv("INGEST_DOCUMENT_TOPIC_NAME", "INGEST_DOCUMENT"),
		},
		Safety: SafetyConfig{
			EmergencyKeywords: getEnvAsList("EMERGENCY_KEYWORDS", defaultEmergencyKeywords),
			EmergencyMessage:  getEnv("EMERGENCY_MESSAGE", defaultEmergencyMessage),
			Disclaimer:        getEnv("SAFETY_DISCLAIMER", defaultDisclaimer),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallbackMs int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallbackMs)) * time.Millisecond
}

func getEnvAsList(key, fallback string) []string {
	raw := getEnv(key, fallback)
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
