package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dgallion1/docbrief/internal/logger"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. DOCBRIEF_PORT.
const EnvPrefix = "DOCBRIEF"

// ConfigFileEnv names an optional yaml/toml/json config file.
const ConfigFileEnv = "DOCBRIEF_CONFIG"

type Config struct {
	Port string

	// Auth. Empty disables the bearer check.
	APIKey string

	// Knowledge base used for prompt assembly
	DocumentsDir   string
	Extensions     []string
	MaxUploadBytes int64

	// Batch chunking
	ChunkInputDir      string
	ChunkOutputDir     string
	PagesPerChunk      int
	ParagraphsPerChunk int
	RunHistoryTTL      time.Duration

	// Context caps, in characters
	PerDocCap  int
	ContextCap int

	// Chat link
	ChatURL         string
	ChatPromptChars int

	// PDF
	PDFFallbackPdftotext bool

	// Rolling window for prompt generation latency stats
	StatsWindow time.Duration

	Log logger.Config
}

func setDefaults(v *viper.Viper) {
	lc := logger.DefaultConfig()

	v.SetDefault("port", "8090")
	v.SetDefault("api_key", "")
	v.SetDefault("documents_dir", "documents")
	v.SetDefault("extensions", ".pdf,.docx,.txt")
	v.SetDefault("max_upload_bytes", 50<<20)
	v.SetDefault("chunk_input_dir", "large_documents")
	v.SetDefault("chunk_output_dir", "chunked_documents")
	v.SetDefault("pages_per_chunk", 15)
	v.SetDefault("paragraphs_per_chunk", 100)
	v.SetDefault("run_history_ttl", "24h")
	v.SetDefault("per_doc_cap", 12000)
	v.SetDefault("context_cap", 80000)
	v.SetDefault("chat_url", "https://chat.openai.com/")
	v.SetDefault("chat_prompt_chars", 2000)
	v.SetDefault("pdf_fallback_pdftotext", true)
	v.SetDefault("stats_window", "1h")

	v.SetDefault("log.level", lc.Level)
	v.SetDefault("log.format", lc.Format)
	v.SetDefault("log.output", lc.Output)
	v.SetDefault("log.file.filename", lc.File.Filename)
	v.SetDefault("log.file.maxsize", lc.File.MaxSize)
	v.SetDefault("log.file.maxage", lc.File.MaxAge)
	v.SetDefault("log.file.maxbackups", lc.File.MaxBackups)
	v.SetDefault("log.file.compress", lc.File.Compress)
}

// Load reads defaults, the optional config file and DOCBRIEF_* environment
// variables, in increasing order of precedence.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) Config {
	cfg := Config{
		Port:   v.GetString("port"),
		APIKey: v.GetString("api_key"),

		DocumentsDir:   v.GetString("documents_dir"),
		Extensions:     ParseExtensions(v.GetString("extensions")),
		MaxUploadBytes: v.GetInt64("max_upload_bytes"),

		ChunkInputDir:      v.GetString("chunk_input_dir"),
		ChunkOutputDir:     v.GetString("chunk_output_dir"),
		PagesPerChunk:      v.GetInt("pages_per_chunk"),
		ParagraphsPerChunk: v.GetInt("paragraphs_per_chunk"),
		RunHistoryTTL:      v.GetDuration("run_history_ttl"),

		PerDocCap:  v.GetInt("per_doc_cap"),
		ContextCap: v.GetInt("context_cap"),

		ChatURL:         v.GetString("chat_url"),
		ChatPromptChars: v.GetInt("chat_prompt_chars"),

		PDFFallbackPdftotext: v.GetBool("pdf_fallback_pdftotext"),
		StatsWindow:          v.GetDuration("stats_window"),
	}
	// Read log keys one by one: UnmarshalKey ignores env overrides of nested keys.
	cfg.Log = logger.Config{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
		Output: v.GetString("log.output"),
		File: logger.FileConfig{
			Filename:   v.GetString("log.file.filename"),
			MaxSize:    v.GetInt("log.file.maxsize"),
			MaxAge:     v.GetInt("log.file.maxage"),
			MaxBackups: v.GetInt("log.file.maxbackups"),
			Compress:   v.GetBool("log.file.compress"),
		},
	}

	if cfg.PagesPerChunk <= 0 {
		cfg.PagesPerChunk = 15
	}
	if cfg.ParagraphsPerChunk <= 0 {
		cfg.ParagraphsPerChunk = 100
	}
	if cfg.PerDocCap <= 0 {
		cfg.PerDocCap = 12000
	}
	if cfg.ContextCap <= 0 {
		cfg.ContextCap = 80000
	}
	if cfg.ChatPromptChars <= 0 {
		cfg.ChatPromptChars = 2000
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 50 << 20
	}
	if cfg.RunHistoryTTL <= 0 {
		cfg.RunHistoryTTL = 24 * time.Hour
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = time.Hour
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".pdf", ".docx", ".txt"}
	}

	return cfg
}

func (c Config) Validate() error {
	if c.DocumentsDir == "" {
		return errors.New("documents_dir is required")
	}
	if c.ChunkInputDir == "" || c.ChunkOutputDir == "" {
		return errors.New("chunk_input_dir and chunk_output_dir are required")
	}
	if c.ChunkInputDir == c.ChunkOutputDir {
		return errors.New("chunk_input_dir and chunk_output_dir must differ")
	}
	if c.PerDocCap > c.ContextCap {
		return fmt.Errorf("per_doc_cap (%d) exceeds context_cap (%d)", c.PerDocCap, c.ContextCap)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// ParseExtensions splits a comma or space separated list such as
// "pdf, .DOCX txt" into normalised extensions [".pdf" ".docx" ".txt"].
func ParseExtensions(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	seen := make(map[string]bool)
	var out []string
	for _, f := range fields {
		ext := strings.ToLower(strings.TrimSpace(f))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if !seen[ext] {
			seen[ext] = true
			out = append(out, ext)
		}
	}
	return out
}
