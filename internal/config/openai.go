package config

import "os"

const (
	apiKeyEnvKey        = "OPENAI_API_KEY"
	modelEnvKey         = "OPENAI_MODEL_NAME"
	modelFallbackEnvKey = "OPENAI_MODEL"

	defaultModel = "gpt-5.1"
)

type OpenAIConfig struct {
	Key       string `yaml:"api-key"`
	ModelName string `yaml:"model"`
}

func (c *OpenAIConfig) applyEnv() {
	if key := os.Getenv(apiKeyEnvKey); key != "" {
		c.Key = key
	}
	if model := os.Getenv(modelEnvKey); model != "" {
		c.ModelName = model
	} else if model := os.Getenv(modelFallbackEnvKey); model != "" {
		c.ModelName = model
	}
}

func (c *OpenAIConfig) ApiKey() string {
	return c.Key
}

func (c *OpenAIConfig) Model() string {
	if c.ModelName == "" {
		return defaultModel
	}
	return c.ModelName
}
