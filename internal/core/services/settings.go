package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
	"github.com/custodia-labs/sercha-assist/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-assist/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyCrawlLinkLimit     = "crawl.link_limit"
	keyCrawlMinContent    = "crawl.min_content_length"
	keyCrawlConcurrency   = "crawl.concurrency"
	keyCrawlRPS           = "crawl.requests_per_second"
	keyCrawlTimeout       = "crawl.timeout_seconds"
	keyCrawlUserAgent     = "crawl.user_agent"
	keyIndexEngine        = "index.engine"
	keyIndexTitleBoost    = "index.title_boost"
	keyIndexFuzzy         = "index.fuzzy"
	keyIndexPrefix        = "index.prefix"
	keyAnswerMaxDocuments = "answer.max_documents"
	keyAnswerMaxSnippets  = "answer.max_snippets"
	keyAnswerReadyTimeout = "answer.ready_timeout_seconds"
	keyAnswerCacheSize    = "answer.cache_size"
	keyContactAttribute   = "contact.attribute"
	keyContactMessage     = "contact.message"
	keySessionsMax        = "sessions.max"
	keySessionsIdle       = "sessions.idle_timeout_seconds"
)

type valueKind int

const (
	kindInt valueKind = iota
	kindPositiveInt
	kindFloat
	kindFraction
	kindBool
	kindString
	kindEngine
)

// settingKeys lists the recognised keys in display order.
var settingKeys = []struct {
	key  string
	kind valueKind
}{
	{keyCrawlLinkLimit, kindPositiveInt},
	{keyCrawlMinContent, kindInt},
	{keyCrawlConcurrency, kindPositiveInt},
	{keyCrawlRPS, kindFloat},
	{keyCrawlTimeout, kindPositiveInt},
	{keyCrawlUserAgent, kindString},
	{keyIndexEngine, kindEngine},
	{keyIndexTitleBoost, kindFloat},
	{keyIndexFuzzy, kindFraction},
	{keyIndexPrefix, kindBool},
	{keyAnswerMaxDocuments, kindPositiveInt},
	{keyAnswerMaxSnippets, kindPositiveInt},
	{keyAnswerReadyTimeout, kindPositiveInt},
	{keyAnswerCacheSize, kindInt},
	{keyContactAttribute, kindString},
	{keyContactMessage, kindString},
	{keySessionsMax, kindPositiveInt},
	{keySessionsIdle, kindPositiveInt},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing or invalid values
// fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Crawl: domain.CrawlSettings{
			LinkLimit:         s.getPositiveInt(keyCrawlLinkLimit, d.Crawl.LinkLimit),
			MinContentLength:  s.getInt(keyCrawlMinContent, d.Crawl.MinContentLength),
			Concurrency:       s.getPositiveInt(keyCrawlConcurrency, d.Crawl.Concurrency),
			RequestsPerSecond: s.getFloat(keyCrawlRPS, d.Crawl.RequestsPerSecond),
			Timeout:           s.getSeconds(keyCrawlTimeout, d.Crawl.Timeout),
			UserAgent:         s.getString(keyCrawlUserAgent, d.Crawl.UserAgent),
		},
		Index: domain.IndexSettings{
			Engine:     s.getEngine(d.Index.Engine),
			TitleBoost: s.getFloat(keyIndexTitleBoost, d.Index.TitleBoost),
			Fuzzy:      s.getFraction(keyIndexFuzzy, d.Index.Fuzzy),
			Prefix:     s.getBool(keyIndexPrefix, d.Index.Prefix),
		},
		Answer: domain.AnswerSettings{
			MaxDocuments: s.getPositiveInt(keyAnswerMaxDocuments, d.Answer.MaxDocuments),
			MaxSnippets:  s.getPositiveInt(keyAnswerMaxSnippets, d.Answer.MaxSnippets),
			ReadyTimeout: s.getSeconds(keyAnswerReadyTimeout, d.Answer.ReadyTimeout),
			CacheSize:    s.getInt(keyAnswerCacheSize, d.Answer.CacheSize),
		},
		Contact: domain.ContactSettings{
			Attribute: s.getString(keyContactAttribute, d.Contact.Attribute),
			Message:   s.getString(keyContactMessage, d.Contact.Message),
		},
		Sessions: domain.SessionSettings{
			MaxOpen:     s.getPositiveInt(keySessionsMax, d.Sessions.MaxOpen),
			IdleTimeout: s.getSeconds(keySessionsIdle, d.Sessions.IdleTimeout),
		},
	}

	return settings, nil
}

// Set validates value for key and persists it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := kindOf(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	parsed, err := parseValue(kind, strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns the recognised setting keys in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	for i, k := range settingKeys {
		keys[i] = k.key
	}
	return keys
}

// Value returns the effective value of key formatted for display.
func (s *SettingsService) Value(key string) (string, error) {
	settings, err := s.Get()
	if err != nil {
		return "", err
	}

	switch key {
	case keyCrawlLinkLimit:
		return strconv.Itoa(settings.Crawl.LinkLimit), nil
	case keyCrawlMinContent:
		return strconv.Itoa(settings.Crawl.MinContentLength), nil
	case keyCrawlConcurrency:
		return strconv.Itoa(settings.Crawl.Concurrency), nil
	case keyCrawlRPS:
		return formatFloat(settings.Crawl.RequestsPerSecond), nil
	case keyCrawlTimeout:
		return strconv.Itoa(int(settings.Crawl.Timeout / time.Second)), nil
	case keyCrawlUserAgent:
		return settings.Crawl.UserAgent, nil
	case keyIndexEngine:
		return settings.Index.Engine.String(), nil
	case keyIndexTitleBoost:
		return formatFloat(settings.Index.TitleBoost), nil
	case keyIndexFuzzy:
		return formatFloat(settings.Index.Fuzzy), nil
	case keyIndexPrefix:
		return strconv.FormatBool(settings.Index.Prefix), nil
	case keyAnswerMaxDocuments:
		return strconv.Itoa(settings.Answer.MaxDocuments), nil
	case keyAnswerMaxSnippets:
		return strconv.Itoa(settings.Answer.MaxSnippets), nil
	case keyAnswerReadyTimeout:
		return strconv.Itoa(int(settings.Answer.ReadyTimeout / time.Second)), nil
	case keyAnswerCacheSize:
		return strconv.Itoa(settings.Answer.CacheSize), nil
	case keyContactAttribute:
		return settings.Contact.Attribute, nil
	case keyContactMessage:
		return settings.Contact.Message, nil
	case keySessionsMax:
		return strconv.Itoa(settings.Sessions.MaxOpen), nil
	case keySessionsIdle:
		return strconv.Itoa(int(settings.Sessions.IdleTimeout / time.Second)), nil
	default:
		return "", fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
}

func kindOf(key string) (valueKind, bool) {
	for _, k := range settingKeys {
		if k.key == key {
			return k.kind, true
		}
	}
	return 0, false
}

func parseValue(kind valueKind, value string) (any, error) {
	switch kind {
	case kindInt, kindPositiveInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("not an integer: %q", value)
		}
		if n < 0 || (kind == kindPositiveInt && n == 0) {
			return nil, fmt.Errorf("out of range: %d", n)
		}
		return n, nil
	case kindFloat, kindFraction:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", value)
		}
		if f < 0 || (kind == kindFraction && f > 1) {
			return nil, fmt.Errorf("out of range: %s", value)
		}
		return f, nil
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("not a boolean: %q", value)
		}
		return b, nil
	case kindEngine:
		engine := domain.SearchEngineKind(strings.ToLower(value))
		if !engine.IsValid() {
			return nil, fmt.Errorf("unknown engine %q", value)
		}
		return engine.String(), nil
	default:
		if value == "" {
			return nil, fmt.Errorf("empty value")
		}
		return value, nil
	}
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	if val := s.configStore.GetInt(key); val >= 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	if val := s.configStore.GetInt(key); val > 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	if val := s.configStore.GetFloat(key); val >= 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getFraction(key string, defaultVal float64) float64 {
	val := s.getFloat(key, defaultVal)
	if val > 1 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	if val := s.configStore.GetInt(key); val > 0 {
		return time.Duration(val) * time.Second
	}
	return defaultVal
}

func (s *SettingsService) getEngine(defaultVal domain.SearchEngineKind) domain.SearchEngineKind {
	engine := domain.SearchEngineKind(s.configStore.GetString(keyIndexEngine))
	if engine.IsValid() {
		return engine
	}
	return defaultVal
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
