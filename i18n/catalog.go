// Package i18n loads YAML message catalogs for recurrence summaries.
//
// Catalogs are nested YAML maps whose keys are flattened with dots:
//
//	recurrence:
//	  summary:
//	    every_one: "Repeats every {{unit}}"
//	    every_other: "Repeats every {{count}} {{unit}}"
//
// When the params passed to Translate contain "count", the "_one" or "_other"
// variant of the key is preferred over the bare key.
package i18n

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var locales embed.FS

// Catalog is an immutable set of translated messages for one language.
type Catalog struct {
	lang     string
	messages map[string]string
}

// Parse builds a catalog from YAML data.
func Parse(lang string, data []byte) (*Catalog, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parse catalog %q: %w", lang, err)
	}
	c := &Catalog{lang: lang, messages: make(map[string]string)}
	flatten("", tree, c.messages)
	return c, nil
}

// LoadFile reads a catalog from disk. The language is the file name without
// its extension.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	lang := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Parse(lang, data)
}

// Builtin returns one of the embedded catalogs.
func Builtin(lang string) (*Catalog, error) {
	data, err := locales.ReadFile("locales/" + lang + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("no built-in catalog for %q (have %s)", lang, strings.Join(Languages(), ", "))
	}
	return Parse(lang, data)
}

// Languages lists the embedded catalogs.
func Languages() []string {
	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil
	}
	var langs []string
	for _, e := range entries {
		langs = append(langs, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	slices.Sort(langs)
	return langs
}

func flatten(prefix string, node any, out map[string]string) {
	switch v := node.(type) {
	case map[string]any:
		for k, child := range v {
			flatten(join(prefix, k), child, out)
		}
	case map[any]any:
		for k, child := range v {
			flatten(join(prefix, fmt.Sprint(k)), child, out)
		}
	case nil:
	default:
		out[prefix] = fmt.Sprint(v)
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// Lang returns the catalog's language tag.
func (c *Catalog) Lang() string {
	return c.lang
}

// Lookup returns the raw message for key.
func (c *Catalog) Lookup(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	msg, ok := c.messages[key]
	return msg, ok
}

// Translate resolves key, falling back to fallback when the catalog has no
// entry, and interpolates params into the result. A nil catalog only
// interpolates the fallback.
func (c *Catalog) Translate(key, fallback string, params map[string]any) string {
	msg, ok := "", false
	if count, has := params["count"]; has {
		msg, ok = c.Lookup(key + "_" + pluralCategory(count))
	}
	if !ok {
		msg, ok = c.Lookup(key)
	}
	if !ok {
		msg = fallback
	}
	return Interpolate(msg, params)
}

// pluralCategory implements the one/other rule shared by English and German.
func pluralCategory(count any) string {
	switch n := count.(type) {
	case int:
		if n == 1 {
			return "one"
		}
	case int64:
		if n == 1 {
			return "one"
		}
	case float64:
		if n == 1 {
			return "one"
		}
	}
	return "other"
}

// FormatDate renders t with the catalog's format.date pattern. The pattern
// may reference {{day}}, {{month}}, {{monthShort}} and {{year}}.
func (c *Catalog) FormatDate(t time.Time) string {
	pattern, ok := c.Lookup("format.date")
	if !ok {
		pattern = "{{monthShort}} {{day}}, {{year}}"
	}
	m := t.Month()
	return Interpolate(pattern, map[string]any{
		"day":        t.Day(),
		"month":      c.Translate(fmt.Sprintf("recurrence.month.%d", int(m)), m.String(), nil),
		"monthShort": c.Translate(fmt.Sprintf("recurrence.monthShort.%d", int(m)), m.String()[:3], nil),
		"year":       t.Year(),
	})
}

var placeholder = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// Interpolate replaces {{name}} with params["name"]. Unknown names are left
// in place.
func Interpolate(msg string, params map[string]any) string {
	if len(params) == 0 || !strings.Contains(msg, "{{") {
		return msg
	}
	return placeholder.ReplaceAllStringFunc(msg, func(m string) string {
		name := placeholder.FindStringSubmatch(m)[1]
		if v, ok := params[name]; ok {
			return fmt.Sprint(v)
		}
		return m
	})
}
