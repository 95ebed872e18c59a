package locale

import (
	"embed"
	"fmt"
	"path"
	"regexp"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Base is the locale every lookup falls back to before giving up
const Base = "en"

//go:embed locales/*.yml
var catalogFiles embed.FS

var placeholderRegex = regexp.MustCompile(`%\{(\w+)\}`)

// Args are the named values interpolated into a message
type Args map[string]interface{}

// Translator looks up messages in the embedded catalogs
type Translator struct {
	catalogs map[string]map[string]string
	names    []string
	matcher  language.Matcher

	// DefaultLocale returns the locale used when a request expresses
	// no usable preference.
	DefaultLocale func() string
}

// New loads the embedded catalogs. defaultLocale may be nil, in which
// case Base is used.
func New(defaultLocale func() string) (*Translator, error) {
	entries, err := catalogFiles.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogs: %w", err)
	}

	t := &Translator{
		catalogs:      make(map[string]map[string]string),
		DefaultLocale: defaultLocale,
	}

	// The base locale goes first so the matcher treats it as the default
	t.names = append(t.names, Base)
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))

		data, err := catalogFiles.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", name, err)
		}

		var tree map[string]interface{}
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("failed to parse catalog %s: %w", name, err)
		}

		messages := make(map[string]string)
		flatten("", tree, messages)
		t.catalogs[name] = messages

		if name != Base {
			t.names = append(t.names, name)
		}
	}

	if _, ok := t.catalogs[Base]; !ok {
		return nil, fmt.Errorf("missing %s catalog", Base)
	}

	tags := make([]language.Tag, 0, len(t.names))
	for _, name := range t.names {
		tags = append(tags, language.Make(name))
	}
	t.matcher = language.NewMatcher(tags)

	return t, nil
}

func flatten(prefix string, tree map[string]interface{}, out map[string]string) {
	for key, value := range tree {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		switch v := value.(type) {
		case map[string]interface{}:
			flatten(fullKey, v, out)
		default:
			out[fullKey] = fmt.Sprint(v)
		}
	}
}

// Locales returns the names of the loaded catalogs, base first.
func (t *Translator) Locales() []string {
	return append([]string(nil), t.names...)
}

// Match picks the catalog best matching an Accept-Language header value.
func (t *Translator) Match(acceptLanguage string) string {
	fallback := t.fallback()

	if strings.TrimSpace(acceptLanguage) == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}

	_, index, confidence := t.matcher.Match(tags...)
	if confidence == language.No {
		return fallback
	}
	return t.names[index]
}

func (t *Translator) fallback() string {
	if t.DefaultLocale != nil {
		if name := t.DefaultLocale(); name != "" {
			if _, ok := t.catalogs[name]; ok {
				return name
			}
		}
	}
	return Base
}

// T returns the message for key in the given locale with args
// interpolated. Lookups fall back to Base and then to the key itself.
func (t *Translator) T(locale, key string, args Args) string {
	message, ok := t.catalogs[locale][key]
	if !ok {
		message, ok = t.catalogs[Base][key]
	}
	if !ok {
		return key
	}
	return interpolate(message, args)
}

func interpolate(message string, args Args) string {
	if len(args) == 0 {
		return message
	}
	return placeholderRegex.ReplaceAllStringFunc(message, func(match string) string {
		name := placeholderRegex.FindStringSubmatch(match)[1]
		value, ok := args[name]
		if !ok {
			return match
		}
		return fmt.Sprint(value)
	})
}
