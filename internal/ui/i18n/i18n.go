// Пакет i18n — интернационализация Admin Console.
// Поддерживаемые языки: English (en), Русский (ru).
// Язык определяется middleware: cookie "lang" → Accept-Language → default "en".
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/text/language"
)

// DefaultLang — язык по умолчанию и fallback для отсутствующих ключей.
const DefaultLang = "en"

// localeFS — встроенные JSON-каталоги переводов.
//
//go:embed locales/*.json
var localeFS embed.FS

var (
	// SupportedLanguages — поддерживаемые теги языков; первый — по умолчанию.
	SupportedLanguages = []language.Tag{
		language.English,
		language.Russian,
	}

	matcher = language.NewMatcher(SupportedLanguages)
)

type contextKey struct{}

// Bundle — хранилище переводов для всех языков.
type Bundle struct {
	mu       sync.RWMutex
	catalogs map[string]map[string]string // lang → key → translation
	logger   *slog.Logger
}

// NewBundle создаёт пустой Bundle.
func NewBundle(logger *slog.Logger) *Bundle {
	return &Bundle{
		catalogs: make(map[string]map[string]string),
		logger:   logger,
	}
}

// Load создаёт Bundle со встроенными каталогами en и ru.
func Load(logger *slog.Logger) (*Bundle, error) {
	b := NewBundle(logger)
	for _, lang := range []string{"en", "ru"} {
		path := fmt.Sprintf("locales/%s.json", lang)
		data, err := localeFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("i18n: не удалось прочитать %s: %w", path, err)
		}
		if err := b.LoadMessages(lang, data); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// LoadMessages загружает плоский JSON-каталог {"key": "translation"} языка lang.
func (b *Bundle) LoadMessages(lang string, data []byte) error {
	var messages map[string]string
	if err := json.Unmarshal(data, &messages); err != nil {
		return fmt.Errorf("i18n: ошибка парсинга каталога %s: %w", lang, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.catalogs[lang] = messages

	if b.logger != nil {
		b.logger.Debug("i18n каталог загружен",
			slog.String("lang", lang),
			slog.Int("keys", len(messages)),
		)
	}
	return nil
}

// Translate возвращает перевод ключа. Порядок поиска: lang → en → сам ключ.
func (b *Bundle) Translate(lang, key string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if msg, ok := b.catalogs[lang][key]; ok {
		return msg
	}
	if msg, ok := b.catalogs[DefaultLang][key]; ok {
		return msg
	}
	return key
}

// For возвращает Translator для языка lang.
func (b *Bundle) For(lang string) Translator {
	return Translator{bundle: b, lang: lang}
}

// Translator — переводы одного языка; передаётся в views.
// Нулевое значение возвращает ключи как есть.
type Translator struct {
	bundle *Bundle
	lang   string
}

// Lang — код языка.
func (t Translator) Lang() string {
	if t.lang == "" {
		return DefaultLang
	}
	return t.lang
}

// T возвращает перевод ключа.
func (t Translator) T(key string) string {
	if t.bundle == nil {
		return key
	}
	return t.bundle.Translate(t.Lang(), key)
}

// Tf возвращает перевод ключа с подстановкой аргументов.
// Формат-строка приходит из каталога, поэтому вызов идёт через formatFunc.
func (t Translator) Tf(key string, args ...any) string {
	return formatFunc(t.T(key), args...)
}

//nolint:govet // формат-строки загружаются из каталогов во время выполнения
var formatFunc = fmt.Sprintf

// WithLang помещает язык в контекст.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, contextKey{}, lang)
}

// LangFromContext извлекает язык из контекста. Default: "en".
func LangFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(contextKey{}).(string); ok && lang != "" {
		return lang
	}
	return DefaultLang
}

// MatchLanguage определяет лучший поддерживаемый язык по Accept-Language.
func MatchLanguage(acceptLanguage string) string {
	tag, _ := language.MatchStrings(matcher, acceptLanguage)
	base, _ := tag.Base()
	if base.String() == "ru" {
		return "ru"
	}
	return DefaultLang
}

// IsSupported проверяет код языка.
func IsSupported(lang string) bool {
	return lang == "en" || lang == "ru"
}
