package i18nstatus

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"testing/fstest"

	i18ncatalog "github.com/louisbranch/agenda/internal/platform/i18n/catalog"
)

func loadBundle(t *testing.T, files fstest.MapFS) *i18ncatalog.Bundle {
	t.Helper()
	bundle, err := i18ncatalog.LoadFromFS(files)
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	return bundle
}

func TestEmbeddedCatalogsAreComplete(t *testing.T) {
	bundle, err := i18ncatalog.LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	rep, err := Build(bundle)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if !rep.Complete() {
		for _, status := range rep.Locales {
			if status.Missing > 0 {
				t.Errorf("locale %s misses %v", status.Locale, status.MissingKeys)
			}
		}
	}
}

func TestBuildCountsMissingAndExtraKeys(t *testing.T) {
	bundle := loadBundle(t, fstest.MapFS{
		"locales/en/pages.yaml": {Data: []byte(`locale: "en"
namespace: "pages"
messages:
  "a": "A"
  "b": "B"
`)},
		"locales/es/pages.yaml": {Data: []byte(`locale: "es"
namespace: "pages"
messages:
  "a": "A"
  "c": "C"
`)},
	})
	rep, err := Build(bundle)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	var es LocaleStatus
	for _, status := range rep.Locales {
		if status.Locale == "es" {
			es = status
		}
	}
	if es.Missing != 1 || es.MissingKeys[0] != "b" {
		t.Fatalf("missing = %d %v, want [b]", es.Missing, es.MissingKeys)
	}
	if es.Extra != 1 || es.ExtraKeys[0] != "c" {
		t.Fatalf("extra = %d %v, want [c]", es.Extra, es.ExtraKeys)
	}
	if es.Completion != 50 {
		t.Fatalf("completion = %v, want 50", es.Completion)
	}
	if rep.Complete() {
		t.Fatal("expected incomplete report")
	}
}

func TestBuildRequiresBaseLocale(t *testing.T) {
	if _, err := Build(nil); err == nil {
		t.Fatal("expected error without base locale")
	}
}

func TestWriters(t *testing.T) {
	rep := Report{BaseLocale: "en", Locales: []LocaleStatus{
		{Locale: "en", BaseKeys: 2, Translated: 2, Completion: 100},
		{Locale: "es", BaseKeys: 2, Translated: 1, Missing: 1, Completion: 50, MissingKeys: []string{"b"}},
	}}

	var md bytes.Buffer
	if err := WriteMarkdown(&md, rep); err != nil {
		t.Fatalf("write markdown: %v", err)
	}
	if !strings.Contains(md.String(), "| `es` | 1/2 | 1 | 0 | 50.0% |") {
		t.Fatalf("markdown missing es row:\n%s", md.String())
	}
	if !strings.Contains(md.String(), "## Missing in `es`") {
		t.Fatalf("markdown missing es section:\n%s", md.String())
	}

	var js bytes.Buffer
	if err := WriteJSON(&js, rep); err != nil {
		t.Fatalf("write json: %v", err)
	}
	var decoded Report
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(decoded.Locales) != 2 {
		t.Fatalf("decoded locales = %d, want 2", len(decoded.Locales))
	}

	if err := WriteMarkdown(nil, rep); err == nil {
		t.Fatal("expected error for nil output")
	}
}
