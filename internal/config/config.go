// Package config loads the assistant's on-disk configuration and applies
// environment overrides.
//
// NOTE: the config file contains access tokens. Keep it chmod 0600.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "500ms".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// OpenAI holds conversational-platform credentials.
type OpenAI struct {
	APIKey      string `yaml:"api_key"`
	AssistantID string `yaml:"assistant_id"`
}

// Facebook holds ads-platform credentials and object IDs.
type Facebook struct {
	PageID      string `yaml:"page_id"`
	AdAccountID string `yaml:"ad_account_id"`
	AccessToken string `yaml:"access_token"`
	// AppID/AppSecret are only needed by the token-exchange subcommand.
	AppID     string `yaml:"app_id,omitempty"`
	AppSecret string `yaml:"app_secret,omitempty"`
}

// Turn tunes the poll loop.
type Turn struct {
	PollInterval Duration `yaml:"poll_interval,omitempty"`
	MaxPolls     int      `yaml:"max_polls,omitempty"`
	// Backoff switches the wait strategy from a fixed delay to a capped
	// exponential backoff starting at PollInterval.
	Backoff    bool     `yaml:"backoff,omitempty"`
	MaxBackoff Duration `yaml:"max_backoff,omitempty"`
}

// Config is the on-disk configuration for the assistant.
type Config struct {
	OpenAI         OpenAI   `yaml:"openai"`
	Facebook       Facebook `yaml:"facebook"`
	Turn           Turn     `yaml:"turn,omitempty"`
	TranscriptPath string   `yaml:"transcript_path,omitempty"`
}

const (
	defaultPollInterval = 500 * time.Millisecond
	defaultMaxPolls     = 240
	defaultMaxBackoff   = 5 * time.Second
)

// DefaultConfigPath returns ~/.ads-assistant/config.yaml, falling back to a
// file in the working directory when the home dir is unknown.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return "ads-assistant.yaml"
	}
	return filepath.Join(home, ".ads-assistant", "config.yaml")
}

// Load reads path, applies env overrides and validates. A missing file is
// fine when the environment supplies everything.
func Load(path string) (*Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// fall through to env
	default:
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// applyEnv lets the conventional env vars override file values.
func (c *Config) applyEnv() {
	override := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	override(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	override(&c.OpenAI.AssistantID, "OPENAI_ASSISTANT_ID")
	override(&c.Facebook.PageID, "FB_PAGE_ID")
	override(&c.Facebook.AdAccountID, "FB_AD_ACCOUNT_ID")
	override(&c.Facebook.AccessToken, "FB_ACCESS_TOKEN")
	override(&c.Facebook.AppID, "FB_APP_ID")
	override(&c.Facebook.AppSecret, "FB_APP_SECRET")
}

func (c *Config) applyDefaults() {
	if c.Turn.PollInterval == 0 {
		c.Turn.PollInterval = Duration(defaultPollInterval)
	}
	if c.Turn.MaxPolls == 0 {
		c.Turn.MaxPolls = defaultMaxPolls
	}
	if c.Turn.MaxBackoff == 0 {
		c.Turn.MaxBackoff = Duration(defaultMaxBackoff)
	}
	if c.TranscriptPath == "" {
		c.TranscriptPath = "conversation.json"
	}
}

// Validate checks required fields and normalizes the ad account ID to its
// "act_" form. Using the page ID as the ad account ID is a common setup
// mistake and is rejected outright.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OpenAI.APIKey) == "" {
		return errors.New("missing openai.api_key (or OPENAI_API_KEY)")
	}
	if strings.TrimSpace(c.OpenAI.AssistantID) == "" {
		return errors.New("missing openai.assistant_id (or OPENAI_ASSISTANT_ID)")
	}
	if strings.TrimSpace(c.Facebook.PageID) == "" {
		return errors.New("missing facebook.page_id (or FB_PAGE_ID)")
	}
	if strings.TrimSpace(c.Facebook.AccessToken) == "" {
		return errors.New("missing facebook.access_token (or FB_ACCESS_TOKEN)")
	}
	account := strings.TrimSpace(c.Facebook.AdAccountID)
	if account == "" {
		return errors.New("missing facebook.ad_account_id (or FB_AD_ACCOUNT_ID)")
	}
	if !strings.HasPrefix(account, "act_") {
		account = "act_" + account
	}
	if strings.TrimPrefix(account, "act_") == strings.TrimSpace(c.Facebook.PageID) {
		return errors.New("facebook.ad_account_id is set to the page ID; use the ad account ID (prefixed with 'act_')")
	}
	c.Facebook.AdAccountID = account

	if c.Turn.PollInterval.Std() < 0 || c.Turn.MaxPolls < 0 {
		return errors.New("turn.poll_interval and turn.max_polls must not be negative")
	}
	return nil
}
