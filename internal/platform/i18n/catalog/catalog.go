// Package catalog loads the embedded locale catalogs and registers them with
// golang.org/x/text/message.
//
// Catalogs live at locales/<locale>/<namespace>.yaml. A key may appear in only
// one namespace per locale.
package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the source locale every other catalog is compared with.
const BaseLocale = "en"

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// Bundle holds the flattened messages of every loaded locale.
type Bundle struct {
	messages   map[string]map[string]string
	namespaces map[string][]string
}

//go:embed locales/*/*.yaml
var embeddedFS embed.FS

var defaultBundle = mustLoadEmbedded()

// Default returns the embedded bundle, already registered with x/text.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded loads the catalogs compiled into the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS loads every locales/*/*.yaml file of fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, errors.New("no catalog files found")
	}
	slices.Sort(paths)

	b := &Bundle{
		messages:   map[string]map[string]string{},
		namespaces: map[string][]string{},
	}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		file, err := decodeCatalog(data)
		if err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := b.add(p, file); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", p, err)
		}
	}
	if !b.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	return b, nil
}

func decodeCatalog(data []byte) (catalogFile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file catalogFile
	if err := dec.Decode(&file); err != nil {
		return catalogFile{}, err
	}
	file.Locale = strings.TrimSpace(file.Locale)
	file.Namespace = strings.TrimSpace(file.Namespace)
	switch {
	case file.Locale == "":
		return catalogFile{}, errors.New("missing locale")
	case file.Namespace == "":
		return catalogFile{}, errors.New("missing namespace")
	case len(file.Messages) == 0:
		return catalogFile{}, errors.New("missing messages")
	}
	return file, nil
}

func (b *Bundle) add(p string, file catalogFile) error {
	dirLocale := path.Base(path.Dir(p))
	if file.Locale != dirLocale {
		return fmt.Errorf("locale %q must match path locale %q", file.Locale, dirLocale)
	}
	fileNamespace := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if file.Namespace != fileNamespace {
		return fmt.Errorf("namespace %q must match filename namespace %q", file.Namespace, fileNamespace)
	}
	if slices.Contains(b.namespaces[file.Locale], file.Namespace) {
		return fmt.Errorf("namespace %q already defined for locale %q", file.Namespace, file.Locale)
	}

	messages, ok := b.messages[file.Locale]
	if !ok {
		messages = map[string]string{}
		b.messages[file.Locale] = messages
	}
	for rawKey, value := range file.Messages {
		key := strings.TrimSpace(rawKey)
		if key == "" {
			return errors.New("message key cannot be blank")
		}
		if _, dup := messages[key]; dup {
			return fmt.Errorf("duplicate key %q in locale %q", key, file.Locale)
		}
		messages[key] = value
	}
	b.namespaces[file.Locale] = append(b.namespaces[file.Locale], file.Namespace)
	return nil
}

// Register installs every message with x/text/message. Regional locales are
// also registered under their base language.
func (b *Bundle) Register() error {
	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		tags := []language.Tag{tag}
		if base, conf := tag.Base(); conf != language.No {
			if baseTag := language.Make(base.String()); baseTag.String() != tag.String() {
				tags = append(tags, baseTag)
			}
		}
		messages := b.messages[locale]
		for _, key := range slices.Sorted(maps.Keys(messages)) {
			for _, t := range tags {
				if err := message.SetString(t, key, messages[key]); err != nil {
					return fmt.Errorf("register %s %q: %w", t, key, err)
				}
			}
		}
	}
	return nil
}

// HasLocale reports whether locale has a catalog.
func (b *Bundle) HasLocale(locale string) bool {
	if b == nil {
		return false
	}
	_, ok := b.messages[strings.TrimSpace(locale)]
	return ok
}

// Locales returns the loaded locale identifiers in sorted order.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(b.messages))
}

// Namespaces returns the namespaces loaded for locale in sorted order.
func (b *Bundle) Namespaces(locale string) []string {
	if b == nil {
		return nil
	}
	return slices.Sorted(slices.Values(b.namespaces[strings.TrimSpace(locale)]))
}

// LocaleMessages returns a copy of the messages of exactly locale.
func (b *Bundle) LocaleMessages(locale string) map[string]string {
	if b == nil {
		return map[string]string{}
	}
	messages := b.messages[strings.TrimSpace(locale)]
	if messages == nil {
		return map[string]string{}
	}
	return maps.Clone(messages)
}

// Tags returns the language tag of every locale, base locale first.
func (b *Bundle) Tags() []language.Tag {
	if b == nil {
		return nil
	}
	tags := []language.Tag{language.Make(BaseLocale)}
	for _, locale := range b.Locales() {
		if locale != BaseLocale {
			tags = append(tags, language.Make(locale))
		}
	}
	return tags
}

// MissingKeys lists base-locale keys that locale does not translate.
func (b *Bundle) MissingKeys(locale string) []string {
	if b == nil {
		return nil
	}
	translated := b.messages[strings.TrimSpace(locale)]
	var missing []string
	for key := range b.messages[BaseLocale] {
		if _, ok := translated[key]; !ok {
			missing = append(missing, key)
		}
	}
	slices.Sort(missing)
	return missing
}

// Messages returns the messages of locale, or of the base locale when locale
// has none.
func (b *Bundle) Messages(locale string) map[string]string {
	if messages := b.LocaleMessages(locale); len(messages) > 0 {
		return messages
	}
	return b.LocaleMessages(BaseLocale)
}

// Message looks key up in locale, falling back to the base locale.
func (b *Bundle) Message(locale, key string) (string, bool) {
	if b == nil {
		return "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false
	}
	if value, ok := b.messages[strings.TrimSpace(locale)][key]; ok {
		return value, true
	}
	value, ok := b.messages[BaseLocale][key]
	return value, ok
}

func mustLoadEmbedded() *Bundle {
	b, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	if err := b.Register(); err != nil {
		panic(err)
	}
	return b
}
