package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// ErrMissingCredential 表示必需的密钥未配置。凭证只从环境读取，不提供内置默认值。
var ErrMissingCredential = errors.New("missing credential")

const (
	defaultTemperature   = 0.7
	defaultCricketAPIURL = "https://api.cricapi.com/v1/currentMatches"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server      ServerConfig
	AI          AIConfig
	Scores      ScoresConfig
	Translation TranslationConfig
	RateLimit   RateLimitConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	scores, err := loadScoresConfig()
	if err != nil {
		return nil, err
	}

	translation, err := loadTranslationConfig()
	if err != nil {
		return nil, err
	}

	rateLimit, err := loadRateLimitConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:      server,
		AI:          ai,
		Scores:      scores,
		Translation: translation,
		RateLimit:   rateLimit,
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	APIKey         string
	AccessKey      string
	SecretKey      string
	Model          string
	BaseURL        string
	Region         string
	Temperature    float64
	TopP           *float64
	MaxTokens      *int
	StreamResponse bool
}

// NewChatModel 使用配置创建一个模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.BaseChatModel, error) {
	temperature := float32(c.Temperature)

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: &temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	apiKey := strings.TrimSpace(os.Getenv("ARK_API_KEY"))
	accessKey := strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY"))
	secretKey := strings.TrimSpace(os.Getenv("ARK_SECRET_KEY"))
	modelName := strings.TrimSpace(os.Getenv("Model"))

	if modelName == "" {
		return AIConfig{}, fmt.Errorf("%w: Model", ErrMissingCredential)
	}
	if apiKey == "" && (accessKey == "" || secretKey == "") {
		return AIConfig{}, fmt.Errorf("%w: ARK_API_KEY or ARK_ACCESS_KEY+ARK_SECRET_KEY", ErrMissingCredential)
	}

	temperature := defaultTemperature
	if override, err := parseOptionalFloatEnv("ARK_TEMPERATURE"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		temperature = *override
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	stream, err := parseBoolEnv("ARK_STREAM", true)
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:         apiKey,
		AccessKey:      accessKey,
		SecretKey:      secretKey,
		Model:          modelName,
		BaseURL:        getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:         getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature:    temperature,
		TopP:           topP,
		MaxTokens:      maxTokens,
		StreamResponse: stream,
	}, nil
}

// ScoresConfig 描述实时比分接口配置。
type ScoresConfig struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

func loadScoresConfig() (ScoresConfig, error) {
	apiKey := strings.TrimSpace(os.Getenv("CRICKET_API_KEY"))
	if apiKey == "" {
		return ScoresConfig{}, fmt.Errorf("%w: CRICKET_API_KEY", ErrMissingCredential)
	}

	timeout := 10 * time.Second
	if seconds, err := parseOptionalIntEnv("CRICKET_TIMEOUT_SECONDS"); err != nil {
		return ScoresConfig{}, err
	} else if seconds != nil && *seconds > 0 {
		timeout = time.Duration(*seconds) * time.Second
	}

	return ScoresConfig{
		APIKey:   apiKey,
		Endpoint: getEnvOrDefault("CRICKET_API_URL", defaultCricketAPIURL),
		Timeout:  timeout,
	}, nil
}

// TranslationConfig 控制是否启用翻译。
type TranslationConfig struct {
	Enabled bool
}

func loadTranslationConfig() (TranslationConfig, error) {
	enabled, err := parseBoolEnv("TRANSLATION_ENABLED", true)
	if err != nil {
		return TranslationConfig{}, err
	}
	return TranslationConfig{Enabled: enabled}, nil
}

// RateLimitConfig 描述每个客户端的请求速率限制。RPS 为 0 表示关闭。
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

func loadRateLimitConfig() (RateLimitConfig, error) {
	cfg := RateLimitConfig{RPS: 2, Burst: 5}

	if rps, err := parseOptionalFloatEnv("RATE_LIMIT_RPS"); err != nil {
		return RateLimitConfig{}, err
	} else if rps != nil {
		if *rps < 0 {
			return RateLimitConfig{}, fmt.Errorf("invalid RATE_LIMIT_RPS value %v: must not be negative", *rps)
		}
		cfg.RPS = *rps
	}

	if burst, err := parseOptionalIntEnv("RATE_LIMIT_BURST"); err != nil {
		return RateLimitConfig{}, err
	} else if burst != nil {
		if *burst < 1 {
			cfg.Burst = 1
		} else {
			cfg.Burst = *burst
		}
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
