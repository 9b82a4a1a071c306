package connstr

import (
	"net/url"
	"strings"
)

// WithApplicationName returns cs with its application name set to name,
// replacing any existing value. Three layouts are recognised:
//
//   - URLs ("postgres://...") get an application_name query parameter;
//   - semicolon-separated strings ("Server=...;Database=...") get an
//     "Application Name" key;
//   - anything else is treated as libpq keyword/value pairs and gets an
//     application_name pair.
func WithApplicationName(cs, name string) string {
	switch {
	case strings.Contains(cs, "://"):
		return urlWithAppName(cs, name)
	case strings.Contains(cs, ";"):
		return semicolonWithAppName(cs, name)
	default:
		return keywordWithAppName(cs, name)
	}
}

func urlWithAppName(cs, name string) string {
	base, query, _ := strings.Cut(cs, "?")
	query, fragment, hasFragment := strings.Cut(query, "#")

	parts := []string{}
	for _, p := range strings.Split(query, "&") {
		if p == "" {
			continue
		}
		key, _, _ := strings.Cut(p, "=")
		if k, err := url.QueryUnescape(key); err == nil && k == "application_name" {
			continue
		}
		parts = append(parts, p)
	}
	parts = append(parts, "application_name="+url.QueryEscape(name))

	out := base + "?" + strings.Join(parts, "&")
	if hasFragment {
		out += "#" + fragment
	}
	return out
}

var adoAppNameKeys = []string{"application name", "applicationname", "app name", "app"}

func semicolonWithAppName(cs, name string) string {
	parts := []string{}
	for _, p := range strings.Split(cs, ";") {
		if strings.TrimSpace(p) == "" {
			continue
		}
		key, _, _ := strings.Cut(p, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		drop := false
		for _, k := range adoAppNameKeys {
			if key == k {
				drop = true
				break
			}
		}
		if !drop {
			parts = append(parts, p)
		}
	}
	parts = append(parts, "Application Name="+name)
	return strings.Join(parts, ";")
}

func keywordWithAppName(cs, name string) string {
	pairs := splitKeywords(cs)
	out := make([]string, 0, len(pairs)+1)
	for _, p := range pairs {
		key, _, _ := strings.Cut(p, "=")
		if strings.TrimSpace(key) == "application_name" {
			continue
		}
		out = append(out, p)
	}
	out = append(out, "application_name="+quoteKeyword(name))
	return strings.Join(out, " ")
}

// splitKeywords splits libpq keyword/value pairs on whitespace, keeping
// single-quoted values intact.
func splitKeywords(cs string) []string {
	var (
		pairs   []string
		cur     strings.Builder
		quoted  bool
		escaped bool
	)
	flush := func() {
		if cur.Len() > 0 {
			pairs = append(pairs, cur.String())
			cur.Reset()
		}
	}
	for _, r := range cs {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && quoted:
			escaped = true
		case r == '\'':
			quoted = !quoted
		case (r == ' ' || r == '\t' || r == '\n') && !quoted:
			flush()
			continue
		}
		cur.WriteRune(r)
	}
	flush()
	return pairs
}

func quoteKeyword(v string) string {
	if v != "" && !strings.ContainsAny(v, " \t\n'\\") {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
