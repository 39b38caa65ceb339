package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// Completion provider selection: "openai" (default) or "gemini".
	// Vision and transcription always use OpenAI.
	LLMProvider string

	OpenAIAPIKey         string
	OpenAIModel          string
	OpenAIVisionModel    string
	OpenAIStructureModel string
	GeminiAPIKey         string
	GeminiModel          string

	DatabaseURL string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Pipeline limits and deadlines.
	MaxInputChars       int
	SelfPlayTurnTimeout time.Duration
	LearningLoopTimeout time.Duration
	RequestCeiling      time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),

		LLMProvider: strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", "openai"))),

		OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:          getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAIVisionModel:    getEnv("OPENAI_VISION_MODEL", "gpt-4o"),
		OpenAIStructureModel: getEnv("OPENAI_STRUCTURE_MODEL", "gpt-4o-mini"),
		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		AWSRegion:           getEnv("AWS_REGION", "eu-west-2"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		MaxInputChars:       getEnvAsInt("MAX_INPUT_CHARS", 2000),
		SelfPlayTurnTimeout: getEnvAsDuration("SELFPLAY_TURN_TIMEOUT", 30*time.Second),
		LearningLoopTimeout: getEnvAsDuration("LEARNING_LOOP_TIMEOUT", 90*time.Second),
		RequestCeiling:      getEnvAsDuration("REQUEST_CEILING", 540*time.Second),
	}
}

var openAIKeyRE = regexp.MustCompile(`^sk-\S{17,}$`)

// Validate checks the configured provider is usable and normalizes its
// credentials. Core components receive ready clients and never validate
// credentials themselves; an error here means the process is Unconfigured
// and must not serve pipeline requests.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case "openai", "":
		c.LLMProvider = "openai"
	case "gemini":
		if strings.TrimSpace(c.GeminiAPIKey) == "" {
			return fmt.Errorf("config: LLM_PROVIDER=gemini but GEMINI_API_KEY is not set")
		}
	default:
		return fmt.Errorf("config: unknown LLM_PROVIDER %q (expected openai or gemini)", c.LLMProvider)
	}

	// OpenAI credentials are required regardless of completion provider
	// because the vision and transcription paths always go through OpenAI.
	key, err := normalizeOpenAIKey(c.OpenAIAPIKey)
	if err != nil {
		return err
	}
	c.OpenAIAPIKey = key
	return nil
}

// normalizeOpenAIKey strips whitespace and a "Bearer " prefix, then checks
// the key shape. Pasted secrets frequently arrive with both problems.
func normalizeOpenAIKey(raw string) (string, error) {
	key := strings.Join(strings.Fields(raw), "")
	if strings.HasPrefix(strings.ToLower(key), "bearer") {
		key = strings.TrimSpace(key[len("bearer"):])
	}
	if key == "" {
		return "", fmt.Errorf("config: OPENAI_API_KEY is not set")
	}
	if !openAIKeyRE.MatchString(key) {
		return "", fmt.Errorf("config: OPENAI_API_KEY appears invalid (expected sk-... format)")
	}
	return key, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
