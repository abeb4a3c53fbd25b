package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM struct {
		BaseURL   string  `yaml:"base_url"`
		Model     string  `yaml:"model"`
		VectorDim int     `yaml:"vector_dim"`
		BatchSize int     `yaml:"batch_size"`
		RateLimit float64 `yaml:"rate_limit"`
	} `yaml:"llm"`

	Extractor struct {
		MinFragmentChars int    `yaml:"min_fragment_chars"`
		PDFTextCommand   string `yaml:"pdftotext_command"`
	} `yaml:"extractor"`

	Engine struct {
		TopK     int `yaml:"top_k"`
		MaxWords int `yaml:"max_words"`
	} `yaml:"engine"`

	Database struct {
		URL       string `yaml:"url"`
		TableName string `yaml:"table_name"`
		BatchSize int    `yaml:"batch_size"`
	} `yaml:"database"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/doclens/config.yaml"),
			"/etc/doclens/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	// Merge with environment variables
	mergeWithEnv(&config)

	// Apply defaults for unset values
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	applyDefaults(config)
	mergeWithEnv(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.BaseURL == "" {
		config.LLM.BaseURL = "http://localhost:11434"
	}
	if config.LLM.Model == "" {
		config.LLM.Model = "nomic-embed-text:latest"
	}
	if config.LLM.VectorDim == 0 {
		config.LLM.VectorDim = 768
	}
	if config.LLM.BatchSize == 0 {
		config.LLM.BatchSize = 32
	}

	if config.Extractor.MinFragmentChars == 0 {
		config.Extractor.MinFragmentChars = 50
	}
	if config.Extractor.PDFTextCommand == "" {
		config.Extractor.PDFTextCommand = "pdftotext"
	}

	if config.Engine.TopK == 0 {
		config.Engine.TopK = 5
	}
	if config.Engine.MaxWords == 0 {
		config.Engine.MaxWords = 500
	}

	if config.Database.TableName == "" {
		config.Database.TableName = "fragment_runs"
	}
	if config.Database.BatchSize == 0 {
		config.Database.BatchSize = 100
	}

	if config.Server.Addr == "" {
		config.Server.Addr = ":8080"
	}
}

func mergeWithEnv(config *Config) {
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Database.URL = dbURL
	}
}
