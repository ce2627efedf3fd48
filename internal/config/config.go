package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Env variable names understood by loadFromEnv.
const (
	envDataDir     = "NEWSTRACK_DATA_DIR"
	envFeedURL     = "NEWSTRACK_FEED_URL"
	envMaxPerRun   = "NEWSTRACK_MAX_PER_RUN"
	envRunInterval = "NEWSTRACK_RUN_INTERVAL"
	envDebug       = "NEWSTRACK_DEBUG"

	envLLMProvider = "LLM_PROVIDER"
	envLLMModel    = "LLM_MODEL"
	envLLMBaseURL  = "LLM_BASE_URL"
	envLLMAPIKey   = "LLM_API_KEY"
	envDeepSeekKey = "DEEPSEEK_API_KEY"
	envOpenAIKey   = "OPENAI_API_KEY"

	envSMTPServer   = "SMTP_SERVER"
	envSMTPPort     = "SMTP_PORT"
	envSMTPUser     = "SMTP_USER"
	envSMTPPassword = "SMTP_PASSWORD"
	envSMTPAuthCode = "SMTP_AUTH_CODE"
	envSMTPFrom     = "SMTP_FROM"
	envSMTPTo       = "SMTP_TO"

	envChatBridgeURL = "CHAT_BRIDGE_URL"
	envChatReceiver  = "CHAT_RECEIVER"
)

type Config struct {
	DataDir      string `json:"data_dir"`
	LinksFile    string `json:"links_file"`
	AnalysisFile string `json:"analysis_file"`
	TrackFile    string `json:"track_file"`

	FeedURL     string        `json:"feed_url"`
	MaxPerRun   int           `json:"max_per_run"`
	RunInterval time.Duration `json:"run_interval"`
	Debug       bool          `json:"debug"`

	LLMProvider string `json:"llm_provider"`
	LLMModel    string `json:"llm_model"`
	LLMBaseURL  string `json:"llm_base_url"`
	LLMAPIKey   string `json:"-"`

	SMTPServer   string `json:"smtp_server"`
	SMTPPort     int    `json:"smtp_port"`
	SMTPUser     string `json:"smtp_user"`
	SMTPPassword string `json:"-"`
	SMTPFrom     string `json:"smtp_from"`
	SMTPTo       string `json:"smtp_to"`

	ChatBridgeURL string `json:"chat_bridge_url"`
	ChatReceiver  string `json:"chat_receiver"`
}

// DefaultConfig builds the configuration once at process start: defaults,
// then an optional .env file, then environment overrides. Credentials come
// only from the environment.
func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := &Config{
		DataDir:      filepath.Join(currentDir, "data"),
		LinksFile:    "analyzed_links.json",
		AnalysisFile: "news_analysis.json",
		TrackFile:    "news_stock_track.csv",

		FeedURL:     "https://rsshub.app/cls/depth/1000",
		MaxPerRun:   5,
		RunInterval: 10 * time.Minute,

		LLMProvider: "deepseek",
		LLMModel:    "deepseek-r1-250528",
		LLMBaseURL:  "https://ark.cn-beijing.volces.com/api/v3",

		SMTPPort:     587,
		ChatReceiver: "文件传输助手",
	}

	_ = godotenv.Load()
	cfg.loadFromEnv()

	if cfg.SMTPFrom == "" && cfg.SMTPUser != "" {
		cfg.SMTPFrom = cfg.SMTPUser
	}

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv(envDataDir); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv(envFeedURL); val != "" {
		c.FeedURL = val
	}
	if val := os.Getenv(envMaxPerRun); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			c.MaxPerRun = n
		}
	}
	if val := os.Getenv(envRunInterval); val != "" {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			c.RunInterval = d
		}
	}
	if val := os.Getenv(envDebug); val != "" {
		c.Debug = val == "1" || val == "true"
	}

	if val := os.Getenv(envLLMProvider); val != "" {
		c.LLMProvider = val
	}
	if val := os.Getenv(envLLMModel); val != "" {
		c.LLMModel = val
	}
	if val := os.Getenv(envLLMBaseURL); val != "" {
		c.LLMBaseURL = val
	}
	if val := os.Getenv(envLLMAPIKey); val != "" {
		c.LLMAPIKey = val
	}
	if c.LLMAPIKey == "" {
		if val := os.Getenv(envDeepSeekKey); val != "" {
			c.LLMAPIKey = val
		} else if val := os.Getenv(envOpenAIKey); val != "" {
			c.LLMAPIKey = val
		}
	}

	if val := os.Getenv(envSMTPServer); val != "" {
		c.SMTPServer = val
	}
	if val := os.Getenv(envSMTPPort); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			c.SMTPPort = p
		}
	}
	if val := os.Getenv(envSMTPUser); val != "" {
		c.SMTPUser = val
	}
	if val := os.Getenv(envSMTPPassword); val != "" {
		c.SMTPPassword = val
	}
	if val := os.Getenv(envSMTPAuthCode); val != "" {
		c.SMTPPassword = val
	}
	if val := os.Getenv(envSMTPFrom); val != "" {
		c.SMTPFrom = val
	}
	if val := os.Getenv(envSMTPTo); val != "" {
		c.SMTPTo = val
	}

	if val := os.Getenv(envChatBridgeURL); val != "" {
		c.ChatBridgeURL = val
	}
	if val := os.Getenv(envChatReceiver); val != "" {
		c.ChatReceiver = val
	}
}

// EnsureDirectories creates the data directory tree.
func (c *Config) EnsureDirectories() error {
	return os.MkdirAll(c.DataDir, 0755)
}

// LinksPath returns the absolute path of the link ledger file.
func (c *Config) LinksPath() string {
	return filepath.Join(c.DataDir, c.LinksFile)
}

// AnalysisPath returns the absolute path of the analysis ledger file.
func (c *Config) AnalysisPath() string {
	return filepath.Join(c.DataDir, c.AnalysisFile)
}

// TrackPath returns the absolute path of the tracking table.
func (c *Config) TrackPath() string {
	return filepath.Join(c.DataDir, c.TrackFile)
}

// MailEnabled reports whether enough SMTP settings are present to send mail.
func (c *Config) MailEnabled() bool {
	return strings.TrimSpace(c.SMTPServer) != "" &&
		strings.TrimSpace(c.SMTPFrom) != "" &&
		strings.TrimSpace(c.SMTPTo) != ""
}

// ChatEnabled reports whether a chat bridge endpoint is configured.
func (c *Config) ChatEnabled() bool {
	return strings.TrimSpace(c.ChatBridgeURL) != ""
}
