/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"

	applog "gocanvaseditor/internal/log"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.

type EditorConfig struct {
	HistoryLimit        int          `yaml:"history_limit"`
	FilterDebounceMs    int          `yaml:"filter_debounce_ms"`
	ThumbnailDebounceMs int          `yaml:"thumbnail_debounce_ms"`
	ThumbnailMax        int          `yaml:"thumbnail_max"`
	MaxCanvas           int          `yaml:"max_canvas"`
	Fonts               []FontConfig `yaml:"fonts,omitempty"`
}

// FontConfig registers a TTF/OTF file under a family name.
type FontConfig struct {
	Family string `yaml:"family"`
	Path   string `yaml:"path"`
	Bold   bool   `yaml:"bold,omitempty"`
	Italic bool   `yaml:"italic,omitempty"`
}

type AIConfig struct {
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	TimeoutMs int    `yaml:"timeout_ms"`
	// The API key is not stored on disk; it lives in the OS keychain.
}

type PreviewsConfig struct {
	Path     string `yaml:"path"` // sqlite file, or ":memory:"
	MaxBytes int64  `yaml:"max_bytes"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Source     bool   `yaml:"source"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type AppConfig struct {
	ConfigVersion int            `yaml:"config_version"`
	Editor        EditorConfig   `yaml:"editor"`
	AI            AIConfig       `yaml:"ai"`
	Previews      PreviewsConfig `yaml:"previews"`
	Logging       LoggingConfig  `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Editor: EditorConfig{
			HistoryLimit:        20,
			FilterDebounceMs:    800,
			ThumbnailDebounceMs: 500,
			ThumbnailMax:        300,
			MaxCanvas:           4096,
		},
		AI: AIConfig{
			BaseURL:   "https://generativelanguage.googleapis.com/v1beta",
			Model:     "gemini-2.5-flash-image",
			TimeoutMs: 60000,
		},
		Previews: PreviewsConfig{Path: ":memory:", MaxBytes: 64 << 20},
		Logging:  LoggingConfig{Level: "info", Format: "console", Source: false, File: "", MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 28},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath     = "GCE_CONFIG"
	EnvHistoryLimit   = "GCE_HISTORY_LIMIT"
	EnvMaxCanvas      = "GCE_MAX_CANVAS"
	EnvAIBaseURL      = "GCE_AI_BASE_URL"
	EnvAIModel        = "GCE_AI_MODEL"
	EnvAITimeoutMs    = "GCE_AI_TIMEOUT_MS"
	EnvAIAPIKey       = "GCE_AI_API_KEY"
	EnvPreviewsPath   = "GCE_PREVIEWS_PATH"
	EnvPreviewsMaxLen = "GCE_PREVIEWS_MAX_BYTES"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "GCE_LOG_LEVEL"
	EnvLogFormat = "GCE_LOG_FORMAT"
	EnvLogSource = "GCE_LOG_SOURCE"
	EnvLogFile   = "GCE_LOG_FILE"
)

// Service/keys for OS keyring.
const (
	keyringService = "GoCanvasEditor"
	keyringAIKey   = "ai_api_key"
)

// tokenStore abstracts keyring, so we can stub in tests.
var tokenStore TokenStore = osKeyring{}

type TokenStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

// SetTokenStore swaps the secret backend and returns the previous one.
func SetTokenStore(s TokenStore) TokenStore {
	old := tokenStore
	tokenStore = s
	return old
}

// osKeyring implements TokenStore using the OS keyring via github.com/zalando/go-keyring.
type osKeyring struct{}

func (osKeyring) Get(service, key string) (string, error) { return keyring.Get(service, key) }
func (osKeyring) Set(service, key, value string) error    { return keyring.Set(service, key, value) }
func (osKeyring) Delete(service, key string) error {
	if err := keyring.Delete(service, key); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}

// ConfigPath returns the per-user config file path. GCE_CONFIG overrides it.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "GoCanvasEditor")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "GoCanvasEditor")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "gocanvaseditor")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
// The AI API key comes from GCE_AI_API_KEY, else from the keyring; it is returned separately.
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, "", fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	}
	applyEnvOverrides(&cfg)
	key := strings.TrimSpace(os.Getenv(EnvAIAPIKey))
	if key == "" {
		key, _ = tokenStore.Get(keyringService, keyringAIKey)
	}
	return cfg, key, nil
}

// Save writes the user config YAML and persists the API key into the OS keyring (if non-empty).
func Save(cfg AppConfig, apiKey string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if apiKey != "" {
		if err := tokenStore.Set(keyringService, keyringAIKey, apiKey); err != nil {
			return err
		}
	}
	return nil
}

// ForgetAPIKey removes the stored AI key.
func ForgetAPIKey() error { return tokenStore.Delete(keyringService, keyringAIKey) }

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// editor
	setInt(&dst.Editor.HistoryLimit, src.Editor.HistoryLimit)
	setInt(&dst.Editor.FilterDebounceMs, src.Editor.FilterDebounceMs)
	setInt(&dst.Editor.ThumbnailDebounceMs, src.Editor.ThumbnailDebounceMs)
	setInt(&dst.Editor.ThumbnailMax, src.Editor.ThumbnailMax)
	setInt(&dst.Editor.MaxCanvas, src.Editor.MaxCanvas)
	if len(src.Editor.Fonts) > 0 {
		dst.Editor.Fonts = append([]FontConfig(nil), src.Editor.Fonts...)
	}
	// ai
	if strings.TrimSpace(src.AI.BaseURL) != "" {
		dst.AI.BaseURL = strings.TrimSpace(src.AI.BaseURL)
	}
	if strings.TrimSpace(src.AI.Model) != "" {
		dst.AI.Model = strings.TrimSpace(src.AI.Model)
	}
	setInt(&dst.AI.TimeoutMs, src.AI.TimeoutMs)
	// previews
	if strings.TrimSpace(src.Previews.Path) != "" {
		dst.Previews.Path = strings.TrimSpace(src.Previews.Path)
	}
	if src.Previews.MaxBytes > 0 {
		dst.Previews.MaxBytes = src.Previews.MaxBytes
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
	setInt(&dst.Logging.MaxSizeMB, src.Logging.MaxSizeMB)
	setInt(&dst.Logging.MaxBackups, src.Logging.MaxBackups)
	setInt(&dst.Logging.MaxAgeDays, src.Logging.MaxAgeDays)
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = n
		}
	}
}

func envBool(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	envInt(EnvHistoryLimit, &cfg.Editor.HistoryLimit)
	envInt(EnvMaxCanvas, &cfg.Editor.MaxCanvas)
	if v := strings.TrimSpace(os.Getenv(EnvAIBaseURL)); v != "" {
		cfg.AI.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAIModel)); v != "" {
		cfg.AI.Model = v
	}
	envInt(EnvAITimeoutMs, &cfg.AI.TimeoutMs)
	if v := strings.TrimSpace(os.Getenv(EnvPreviewsPath)); v != "" {
		cfg.Previews.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPreviewsMaxLen)); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.Previews.MaxBytes = n
		}
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = envBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

var envKeys = map[string]string{
	"editor.history_limit": EnvHistoryLimit,
	"editor.max_canvas":    EnvMaxCanvas,
	"ai.base_url":          EnvAIBaseURL,
	"ai.model":             EnvAIModel,
	"ai.timeout_ms":        EnvAITimeoutMs,
	"ai.api_key":           EnvAIAPIKey,
	"previews.path":        EnvPreviewsPath,
	"previews.max_bytes":   EnvPreviewsMaxLen,
	"logging.level":        EnvLogLevel,
	"logging.format":       EnvLogFormat,
	"logging.source":       EnvLogSource,
	"logging.file":         EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	name, ok := envKeys[key]
	if !ok || os.Getenv(name) == "" {
		return "", false
	}
	return name, true
}

func ms(v, def int) time.Duration {
	if v <= 0 {
		v = def
	}
	return time.Duration(v) * time.Millisecond
}

// FilterDelay is the filter commit debounce.
func (e EditorConfig) FilterDelay() time.Duration {
	return ms(e.FilterDebounceMs, Defaults().Editor.FilterDebounceMs)
}

// ThumbnailDelay is the thumbnail debounce.
func (e EditorConfig) ThumbnailDelay() time.Duration {
	return ms(e.ThumbnailDebounceMs, Defaults().Editor.ThumbnailDebounceMs)
}

// Timeout returns the request timeout for the generative edit client.
func (a AIConfig) Timeout() time.Duration { return ms(a.TimeoutMs, Defaults().AI.TimeoutMs) }

// LogOptions maps the section onto logger options.
func (l LoggingConfig) LogOptions() applog.Options {
	return applog.Options{
		Level:      l.Level,
		Format:     l.Format,
		AddSource:  l.Source,
		File:       l.File,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
	}
}
