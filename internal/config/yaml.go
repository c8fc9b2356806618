package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type yamlEditor struct {
	TabStop        int    `yaml:"tab_stop"`
	MessageTimeout string `yaml:"message_timeout"`
	PollInterval   string `yaml:"poll_interval"`
	SavePrompt     string `yaml:"save_prompt"`
}

type yamlLog struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

type yamlConfig struct {
	Editor yamlEditor          `yaml:"editor"`
	Log    yamlLog             `yaml:"log"`
	Keys   map[string][]string `yaml:"keys,omitempty"`
}

// MarshalYAML writes durations in the same form the config file accepts.
func (c Config) MarshalYAML() (any, error) {
	return yamlConfig{
		Editor: yamlEditor{
			TabStop:        c.Editor.TabStop,
			MessageTimeout: c.Editor.MessageTimeout.String(),
			PollInterval:   c.Editor.PollInterval.String(),
			SavePrompt:     c.Editor.SavePrompt,
		},
		Log: yamlLog{
			File:  c.Log.File,
			Level: c.Log.Level,
		},
		Keys: c.Keys,
	}, nil
}

// YAML renders the configuration as a config file.
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("error marshaling config: %w", err)
	}
	return out, nil
}
