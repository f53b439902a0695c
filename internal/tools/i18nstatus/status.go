// Package i18nstatus reports translation coverage of the message catalogs.
package i18nstatus

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	i18ncatalog "github.com/louisbranch/agenda/internal/platform/i18n/catalog"
)

// Report summarizes every locale against the base locale.
type Report struct {
	BaseLocale string         `json:"base_locale"`
	Locales    []LocaleStatus `json:"locales"`
}

// LocaleStatus is the coverage of one locale.
type LocaleStatus struct {
	Locale      string   `json:"locale"`
	BaseKeys    int      `json:"base_keys"`
	Translated  int      `json:"translated"`
	Missing     int      `json:"missing"`
	Extra       int      `json:"extra"`
	Completion  float64  `json:"completion"`
	MissingKeys []string `json:"missing_keys"`
	ExtraKeys   []string `json:"extra_keys"`
}

// Build compares every locale in bundle with the base locale.
func Build(bundle *i18ncatalog.Bundle) (Report, error) {
	if !bundle.HasLocale(i18ncatalog.BaseLocale) {
		return Report{}, fmt.Errorf("base locale %q is missing from catalogs", i18ncatalog.BaseLocale)
	}
	base := bundle.LocaleMessages(i18ncatalog.BaseLocale)

	rep := Report{BaseLocale: i18ncatalog.BaseLocale}
	for _, locale := range bundle.Locales() {
		messages := bundle.LocaleMessages(locale)
		missing := bundle.MissingKeys(locale)
		extra := []string{}
		for key := range messages {
			if _, ok := base[key]; !ok {
				extra = append(extra, key)
			}
		}
		sort.Strings(extra)
		if missing == nil {
			missing = []string{}
		}

		translated := len(base) - len(missing)
		rep.Locales = append(rep.Locales, LocaleStatus{
			Locale:      locale,
			BaseKeys:    len(base),
			Translated:  translated,
			Missing:     len(missing),
			Extra:       len(extra),
			Completion:  completion(translated, len(base)),
			MissingKeys: missing,
			ExtraKeys:   extra,
		})
	}
	return rep, nil
}

// Complete reports whether every locale translates every base key.
func (r Report) Complete() bool {
	for _, status := range r.Locales {
		if status.Missing > 0 {
			return false
		}
	}
	return true
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(out io.Writer, rep Report) error {
	if out == nil {
		return errors.New("output is required")
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// WriteMarkdown writes the report as a markdown table followed by the
// missing keys of each incomplete locale.
func WriteMarkdown(out io.Writer, rep Report) error {
	if out == nil {
		return errors.New("output is required")
	}
	var b strings.Builder
	b.WriteString("# i18n status\n\n")
	fmt.Fprintf(&b, "Base locale: `%s`\n\n", rep.BaseLocale)
	b.WriteString("| Locale | Translated | Missing | Extra | Completion |\n")
	b.WriteString("|---|---:|---:|---:|---:|\n")
	for _, status := range rep.Locales {
		fmt.Fprintf(&b, "| `%s` | %d/%d | %d | %d | %.1f%% |\n",
			status.Locale, status.Translated, status.BaseKeys, status.Missing, status.Extra, status.Completion)
	}
	for _, status := range rep.Locales {
		if len(status.MissingKeys) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## Missing in `%s`\n\n", status.Locale)
		for _, key := range status.MissingKeys {
			fmt.Fprintf(&b, "- `%s`\n", key)
		}
	}
	_, err := io.WriteString(out, b.String())
	return err
}

func completion(translated, total int) float64 {
	if total == 0 {
		return 100
	}
	return math.Round(float64(translated)/float64(total)*1000) / 10
}
