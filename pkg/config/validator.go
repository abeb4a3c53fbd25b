package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate LLM config
	if c.LLM.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "Ollama base URL is required",
		})
	}

	if _, err := url.Parse(c.LLM.BaseURL); err != nil {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "invalid Ollama base URL",
		})
	}

	if c.LLM.VectorDim < 1 {
		errors = append(errors, ValidationError{
			Field:   "llm.vector_dim",
			Message: "vector_dim must be positive",
		})
	}

	if c.LLM.BatchSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "llm.batch_size",
			Message: "batch_size must be positive",
		})
	}

	if c.LLM.RateLimit < 0 {
		errors = append(errors, ValidationError{
			Field:   "llm.rate_limit",
			Message: "rate_limit cannot be negative",
		})
	}

	// Validate Extractor config
	if c.Extractor.MinFragmentChars < 1 {
		errors = append(errors, ValidationError{
			Field:   "extractor.min_fragment_chars",
			Message: "min_fragment_chars must be positive",
		})
	}

	// Validate Engine config
	if c.Engine.TopK < 0 {
		errors = append(errors, ValidationError{
			Field:   "engine.top_k",
			Message: "top_k cannot be negative",
		})
	}

	if c.Engine.MaxWords < 1 {
		errors = append(errors, ValidationError{
			Field:   "engine.max_words",
			Message: "max_words must be positive",
		})
	}

	// Validate Database config
	if c.Database.URL != "" {
		if _, err := url.Parse(c.Database.URL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "database.url",
				Message: "invalid database URL",
			})
		}
	}

	if c.Database.BatchSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "database.batch_size",
			Message: "batch_size must be positive",
		})
	}

	return errors
}
