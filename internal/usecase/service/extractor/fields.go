package extractor

import (
	"encoding/json"
	"html"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// humanCount захватывает счётчик вместе с сокращением: "1,2 млн", "3.5K", "12 345"
const humanCount = `(\d[\d\s.,\x{00a0}]*(?:тыс\.?|млрд|млн|[KkMmBb]|[кКмМ])?)`

// FieldExtractor достаёт одно числовое поле из тела ответа
type FieldExtractor func(body string) (int64, bool)

// TextExtractor достаёт одно текстовое поле из тела ответа
type TextExtractor func(body string) (string, bool)

func regexInt(pattern string) FieldExtractor {
	re := regexp.MustCompile(pattern)
	return func(body string) (int64, bool) {
		m := re.FindStringSubmatch(body)
		if len(m) < 2 {
			return 0, false
		}
		return ParseHumanNumber(m[1])
	}
}

// countMatches считает вхождения шаблона, например размеченные schema.org комментарии
func countMatches(pattern string) FieldExtractor {
	re := regexp.MustCompile(pattern)
	return func(body string) (int64, bool) {
		n := len(re.FindAllStringIndex(body, -1))
		return int64(n), n > 0
	}
}

// sumMatches складывает все найденные счётчики, например реакции под постом
func sumMatches(pattern string) FieldExtractor {
	re := regexp.MustCompile(pattern)
	return func(body string) (int64, bool) {
		var total int64
		found := false
		for _, m := range re.FindAllStringSubmatch(body, -1) {
			if v, ok := ParseHumanNumber(m[1]); ok {
				total += v
				found = true
			}
		}
		return total, found
	}
}

func regexText(pattern string) TextExtractor {
	re := regexp.MustCompile(pattern)
	return func(body string) (string, bool) {
		m := re.FindStringSubmatch(body)
		if len(m) < 2 {
			return "", false
		}
		text := cleanText(m[1])
		return text, text != ""
	}
}

// metaContent читает <meta property|name="..." content="..."> при любом порядке атрибутов
func metaContent(name string) TextExtractor {
	quoted := regexp.QuoteMeta(name)
	direct := regexp.MustCompile(`<meta[^>]+(?:property|name|itemprop)=["']` + quoted + `["'][^>]*content=["']([^"']*)["']`)
	reversed := regexp.MustCompile(`<meta[^>]+content=["']([^"']*)["'][^>]*(?:property|name|itemprop)=["']` + quoted + `["']`)
	return func(body string) (string, bool) {
		for _, re := range []*regexp.Regexp{direct, reversed} {
			if m := re.FindStringSubmatch(body); len(m) == 2 {
				if text := cleanText(m[1]); text != "" {
					return text, true
				}
			}
		}
		return "", false
	}
}

// firstInt возвращает первое положительное значение по порядку экстракторов
func firstInt(body string, extractors []FieldExtractor) int64 {
	for _, extract := range extractors {
		if v, ok := extract(body); ok && v > 0 {
			return v
		}
	}
	return 0
}

func firstText(body string, extractors []TextExtractor) string {
	for _, extract := range extractors {
		if v, ok := extract(body); ok {
			return v
		}
	}
	return ""
}

var (
	tagsRe       = regexp.MustCompile(`<[^>]+>`)
	spacesRe     = regexp.MustCompile(`\s+`)
	jsonEscapeRe = regexp.MustCompile(`\\u[0-9a-fA-F]{4}`)
)

const maxTitleLength = 300

// cleanText снимает теги, html и json экранирование, схлопывает пробелы
func cleanText(s string) string {
	s = tagsRe.ReplaceAllString(s, " ")
	s = jsonEscapeRe.ReplaceAllStringFunc(s, func(esc string) string {
		if r, err := strconv.ParseUint(esc[2:], 16, 32); err == nil {
			return string(rune(r))
		}
		return esc
	})
	s = strings.NewReplacer(`\n`, " ", `\"`, `"`, `\/`, "/").Replace(s)
	s = html.UnescapeString(s)
	s = strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
	return truncate(s, maxTitleLength)
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:limit]))
}

// jsonInt ищет первый из ключей на любой глубине документа.
// Ключи проверяются по порядку на каждом уровне, потом поиск уходит вглубь.
func jsonInt(doc any, keys ...string) (int64, bool) {
	var found int64
	ok := walkJSON(doc, keys, func(v any) bool {
		n, ok := jsonNumber(v)
		if ok && n > 0 {
			found = n
		}
		return ok && n > 0
	})
	return found, ok
}

func jsonString(doc any, keys ...string) (string, bool) {
	var found string
	ok := walkJSON(doc, keys, func(v any) bool {
		switch t := v.(type) {
		case string:
			found = cleanText(t)
		case map[string]any:
			// caption в ответах instagram приходит объектом с полем text
			if text, ok := t["text"].(string); ok {
				found = cleanText(text)
			}
		}
		return found != ""
	})
	return found, ok
}

func walkJSON(node any, keys []string, accept func(any) bool) bool {
	switch t := node.(type) {
	case map[string]any:
		for _, key := range keys {
			if v, ok := t[key]; ok && accept(v) {
				return true
			}
		}
		for _, k := range slices.Sorted(maps.Keys(t)) {
			if walkJSON(t[k], keys, accept) {
				return true
			}
		}
	case []any:
		for _, v := range t {
			if walkJSON(v, keys, accept) {
				return true
			}
		}
	}
	return false
}

func jsonNumber(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		return toInt(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, n >= 0
		}
	case string:
		return ParseHumanNumber(t)
	case map[string]any:
		// edge_liked_by: {"count": 123}
		if c, ok := t["count"]; ok {
			return jsonNumber(c)
		}
	}
	return 0, false
}
