// Package config provides configuration for the dispute caller.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the service configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// PublicBaseURL is the externally reachable URL Twilio calls back on.
	// Every webhook and audio URL embedded in rendered TwiML starts with it.
	PublicBaseURL string

	// Database
	DatabaseURL string

	// Twilio credentials
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	RecordCalls      bool

	// Anthropic
	AnthropicAPIKey string
	DialogueModel   string

	// ElevenLabs
	ElevenLabsAPIKey string
	DefaultVoiceID   string

	// MaxDisputeAmount is the dial-policy ceiling; disputes above it are not
	// auto-dialed.
	MaxDisputeAmount float64

	// Timeouts
	DialogueTimeout  time.Duration
	SynthesisTimeout time.Duration

	// AudioCacheTTL bounds how long synthesized audio is reused.
	AudioCacheTTL time.Duration

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:         getEnvInt("HTTP_PORT", 8080),
		PublicBaseURL:    getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		DatabaseURL:      getEnv("DATABASE_URL", "file:disputecall.db?cache=shared&mode=rwc"),
		TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber: getEnv("TWILIO_PHONE_NUMBER", ""),
		RecordCalls:      getEnvBool("RECORD_CALLS", true),
		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		DialogueModel:    getEnv("DIALOGUE_MODEL", "claude-3-5-haiku-20241022"),
		ElevenLabsAPIKey: getEnv("ELEVENLABS_API_KEY", ""),
		DefaultVoiceID:   getEnv("ELEVENLABS_VOICE_ID", "f5HLTX707KIM4SzJYzSz"),
		MaxDisputeAmount: getEnvFloat("MAX_DISPUTE_AMOUNT", 5000),
		DialogueTimeout:  time.Duration(getEnvInt("DIALOGUE_TIMEOUT_MS", 15000)) * time.Millisecond,
		SynthesisTimeout: time.Duration(getEnvInt("SYNTHESIS_TIMEOUT_MS", 10000)) * time.Millisecond,
		AudioCacheTTL:    time.Duration(getEnvInt("AUDIO_CACHE_TTL_MS", 300000)) * time.Millisecond,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
