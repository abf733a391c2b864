// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// InferenceConfig provides settings for the chat completion client.
type InferenceConfig interface {
	GetInferenceAPIKey() string
	GetInferenceBaseURL() string
	GetInferenceModel() string
}

// ConversationConfig provides settings for the conversation engine.
type ConversationConfig interface {
	GetSystemPrompt() string
	GetSessionIdleTTL() time.Duration
}

// TelephonyConfig provides settings for the call placement client.
type TelephonyConfig interface {
	GetTelephonyAccountSID() string
	GetTelephonyAuthToken() string
	GetTelephonyBaseURL() string
	GetOriginPhoneNumber() string
	GetVoiceCallbackBaseURL() string
	IsTelephonyEnabled() bool
}

// LeadSourceConfig provides settings for the property/contact listing client.
type LeadSourceConfig interface {
	GetLeadSourceAPIKey() string
	GetLeadSourceBaseURL() string
	GetLeadSourceTag() string
	IsLeadSourceEnabled() bool
}

// DispatchConfig provides settings for the lead sync dispatcher.
type DispatchConfig interface {
	GetDispatchPageSize() int
	GetDispatchDefaultLimit() int
	GetDispatchAllowedPrefix() string
}

// SchedulerConfig provides settings for the asynq task queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetDispatchInterval() time.Duration
}

// EmailConfig provides settings for dispatch report email.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromAddress() string
	GetReportRecipient() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                   string
	HTTPAddr              string
	DatabaseURL           string
	JWTAccessSecret       string
	CORSAllowAll          bool
	CORSOrigins           []string
	CORSAllowCreds        bool
	InferenceAPIKey       string
	InferenceBaseURL      string
	InferenceModel        string
	SystemPrompt          string
	SessionIdleTTL        time.Duration
	TelephonyAccountSID   string
	TelephonyAuthToken    string
	TelephonyBaseURL      string
	OriginPhoneNumber     string
	VoiceCallbackBaseURL  string
	LeadSourceAPIKey      string
	LeadSourceBaseURL     string
	LeadSourceTag         string
	DispatchPageSize      int
	DispatchDefaultLimit  int
	DispatchAllowedPrefix string
	RedisURL              string
	RedisTLSInsecure      bool
	AsynqQueueName        string
	AsynqConcurrency      int
	DispatchInterval      time.Duration
	EmailEnabled          bool
	SMTPHost              string
	SMTPPort              int
	SMTPUsername          string
	SMTPPassword          string
	EmailFromAddress      string
	ReportRecipient       string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// InferenceConfig implementation
func (c *Config) GetInferenceAPIKey() string  { return c.InferenceAPIKey }
func (c *Config) GetInferenceBaseURL() string { return c.InferenceBaseURL }
func (c *Config) GetInferenceModel() string   { return c.InferenceModel }

// ConversationConfig implementation
func (c *Config) GetSystemPrompt() string          { return c.SystemPrompt }
func (c *Config) GetSessionIdleTTL() time.Duration { return c.SessionIdleTTL }

// TelephonyConfig implementation
func (c *Config) GetTelephonyAccountSID() string  { return c.TelephonyAccountSID }
func (c *Config) GetTelephonyAuthToken() string   { return c.TelephonyAuthToken }
func (c *Config) GetTelephonyBaseURL() string     { return c.TelephonyBaseURL }
func (c *Config) GetOriginPhoneNumber() string    { return c.OriginPhoneNumber }
func (c *Config) GetVoiceCallbackBaseURL() string { return c.VoiceCallbackBaseURL }
func (c *Config) IsTelephonyEnabled() bool {
	return c.TelephonyAccountSID != "" && c.TelephonyAuthToken != ""
}

// LeadSourceConfig implementation
func (c *Config) GetLeadSourceAPIKey() string  { return c.LeadSourceAPIKey }
func (c *Config) GetLeadSourceBaseURL() string { return c.LeadSourceBaseURL }
func (c *Config) GetLeadSourceTag() string     { return c.LeadSourceTag }
func (c *Config) IsLeadSourceEnabled() bool    { return c.LeadSourceAPIKey != "" }

// DispatchConfig implementation
func (c *Config) GetDispatchPageSize() int         { return c.DispatchPageSize }
func (c *Config) GetDispatchDefaultLimit() int     { return c.DispatchDefaultLimit }
func (c *Config) GetDispatchAllowedPrefix() string { return c.DispatchAllowedPrefix }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string                { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool          { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string          { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int           { return c.AsynqConcurrency }
func (c *Config) GetDispatchInterval() time.Duration { return c.DispatchInterval }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) GetReportRecipient() string  { return c.ReportRecipient }

const defaultSystemPrompt = "You're Daniel's AI assistant. A seller has just called in. " +
	"Start the conversation by confirming who they are and asking if they're open to a cash offer."

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "false"), "true")

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":5050"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		JWTAccessSecret:       getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:          corsAllowAll,
		CORSOrigins:           corsOrigins,
		CORSAllowCreds:        strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		InferenceAPIKey:       getEnv("OPENAI_API_KEY", ""),
		InferenceBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		InferenceModel:        getEnv("OPENAI_MODEL", "gpt-4o"),
		SystemPrompt:          getEnv("SYSTEM_PROMPT", defaultSystemPrompt),
		SessionIdleTTL:        mustDuration(getEnv("SESSION_IDLE_TTL", "30m")),
		TelephonyAccountSID:   getEnv("TWILIO_ACCOUNT_SID", ""),
		TelephonyAuthToken:    getEnv("TWILIO_AUTH_TOKEN", ""),
		TelephonyBaseURL:      getEnv("TWILIO_BASE_URL", "https://api.twilio.com/2010-04-01"),
		OriginPhoneNumber:     getEnv("TWILIO_PHONE_NUMBER", ""),
		VoiceCallbackBaseURL:  getEnv("VOICE_CALLBACK_BASE_URL", ""),
		LeadSourceAPIKey:      getEnv("DEALMACHINE_API_KEY", ""),
		LeadSourceBaseURL:     getEnv("DEALMACHINE_BASE_URL", "https://api.dealmachine.com/public/v1"),
		LeadSourceTag:         getEnv("DEALMACHINE_TAG", "Follow Up Needed"),
		DispatchPageSize:      mustInt(getEnv("DISPATCH_PAGE_SIZE", "100")),
		DispatchDefaultLimit:  mustInt(getEnv("DISPATCH_DEFAULT_LIMIT", "3")),
		DispatchAllowedPrefix: getEnv("DISPATCH_ALLOWED_PREFIX", "+1"),
		RedisURL:              getEnv("REDIS_URL", ""),
		RedisTLSInsecure:      strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:        getEnv("ASYNQ_QUEUE_NAME", "default"),
		AsynqConcurrency:      mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		DispatchInterval:      mustDuration(getEnv("DISPATCH_INTERVAL", "0")),
		EmailEnabled:          emailEnabled,
		SMTPHost:              getEnv("SMTP_HOST", ""),
		SMTPPort:              mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:          getEnv("SMTP_USERNAME", ""),
		SMTPPassword:          getEnv("SMTP_PASSWORD", ""),
		EmailFromAddress:      getEnv("EMAIL_FROM_ADDRESS", ""),
		ReportRecipient:       getEnv("DISPATCH_REPORT_RECIPIENT", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.DispatchPageSize < 1 {
		return nil, fmt.Errorf("DISPATCH_PAGE_SIZE must be positive")
	}
	if cfg.DispatchDefaultLimit < 1 {
		return nil, fmt.Errorf("DISPATCH_DEFAULT_LIMIT must be positive")
	}
	if cfg.IsTelephonyEnabled() && cfg.OriginPhoneNumber == "" {
		return nil, fmt.Errorf("TWILIO_PHONE_NUMBER is required when telephony is configured")
	}
	if cfg.IsTelephonyEnabled() && cfg.VoiceCallbackBaseURL == "" {
		return nil, fmt.Errorf("VOICE_CALLBACK_BASE_URL is required when telephony is configured")
	}
	if cfg.EmailEnabled && (cfg.SMTPHost == "" || cfg.EmailFromAddress == "" || cfg.ReportRecipient == "") {
		return nil, fmt.Errorf("SMTP_HOST, EMAIL_FROM_ADDRESS and DISPATCH_REPORT_RECIPIENT are required when EMAIL_ENABLED is true")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
