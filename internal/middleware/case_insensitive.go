package middleware

import (
	"net/http"
	"regexp"
	"strings"
)

type segment struct {
	literal string
	pattern *regexp.Regexp // nil for literals and unconstrained variables
	isVar   bool
}

type template struct {
	segments []segment
	prefix   bool
}

func parseTemplate(tpl string) template {
	t := template{prefix: strings.HasSuffix(tpl, "/")}
	for _, part := range strings.Split(strings.Trim(tpl, "/"), "/") {
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			seg := segment{isVar: true}
			if i := strings.Index(part, ":"); i > 0 {
				seg.pattern = regexp.MustCompile("^(?:" + part[i+1:len(part)-1] + ")$")
			}
			t.segments = append(t.segments, seg)
			continue
		}
		t.segments = append(t.segments, segment{literal: strings.ToLower(part)})
	}
	return t
}

// lower lowercases the literal segments of parts when they match t
func (t template) lower(parts []string) bool {
	if len(parts) < len(t.segments) || (!t.prefix && len(parts) != len(t.segments)) {
		return false
	}
	for i, seg := range t.segments {
		switch {
		case !seg.isVar:
			if strings.ToLower(parts[i]) != seg.literal {
				return false
			}
		case seg.pattern != nil && !seg.pattern.MatchString(parts[i]):
			return false
		}
	}
	for i, seg := range t.segments {
		if !seg.isVar {
			parts[i] = seg.literal
		}
	}
	return true
}

// CaseInsensitiveMiddleware lowercases the fixed parts of paths that match
// one of the route templates, so /API/DASHBOARD/KPIS reaches the same handler
// as /api/dashboard/kpis. Path variables such as room names keep their case.
// Useful for QR codes where uppercase letters are more efficient.
func CaseInsensitiveMiddleware(templates []string) func(http.Handler) http.Handler {
	parsed := make([]template, 0, len(templates))
	for _, tpl := range templates {
		parsed = append(parsed, parseTemplate(tpl))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			trailing := strings.HasSuffix(r.URL.Path, "/")
			parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
			for _, t := range parsed {
				if t.lower(parts) {
					path := "/" + strings.Join(parts, "/")
					if trailing && path != "/" {
						path += "/"
					}
					r.URL.Path = path
					r.URL.RawPath = ""
					break
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
