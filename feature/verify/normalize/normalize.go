package normalize

import (
	"net/url"
	"regexp"
	"strings"

	"sync-verifier/core/rawval"
)

// WorkMode is the canonical work mode enum.
type WorkMode int

const (
	// WorkModeUnknown marks input that no accepted encoding matched.
	WorkModeUnknown WorkMode = iota
	// WorkModeOnSite is an in-office position (raw 0 / false / "onsite").
	WorkModeOnSite
	// WorkModeRemote is a fully remote position (raw 1 / true / "remote").
	WorkModeRemote
	// WorkModeHybrid is a mixed position (raw 2 / "hybrid").
	WorkModeHybrid
)

// String returns the canonical name of the work mode.
func (m WorkMode) String() string {
	switch m {
	case WorkModeOnSite:
		return "ON_SITE"
	case WorkModeRemote:
		return "REMOTE"
	case WorkModeHybrid:
		return "HYBRID"
	default:
		return "UNKNOWN"
	}
}

// Known reports whether the mode carries information.
func (m WorkMode) Known() bool { return m != WorkModeUnknown }

// WorkModeOf converts a raw work mode encoding into the canonical enum.
// It accepts integers 0/1/2, booleans (true means remote), and string tokens
// in any case. Sequences use their first element. Anything unrecognized maps
// to WorkModeUnknown; the function never fails.
func WorkModeOf(raw rawval.Value) WorkMode {
	raw = raw.First()

	switch raw.Kind() {
	case rawval.KindNull:
		return WorkModeUnknown
	case rawval.KindInt:
		return workModeFromCode(raw.Int64())
	case rawval.KindBool:
		if raw.BoolVal() {
			return WorkModeRemote
		}
		return WorkModeOnSite
	default:
		switch strings.ToLower(strings.TrimSpace(raw.String())) {
		case "0", "false", "not remote", "onsite", "on-site", "on_site", "on site":
			return WorkModeOnSite
		case "1", "true", "remote":
			return WorkModeRemote
		case "2", "hybrid":
			return WorkModeHybrid
		default:
			return WorkModeUnknown
		}
	}
}

func workModeFromCode(code int64) WorkMode {
	switch code {
	case 0:
		return WorkModeOnSite
	case 1:
		return WorkModeRemote
	case 2:
		return WorkModeHybrid
	default:
		return WorkModeUnknown
	}
}

// Domain reduces a URL-like string to its canonical host: lowercased, with a
// leading "www." stripped. A missing scheme is assumed to be https before
// parsing. Empty or unparseable input yields the empty string.
func Domain(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// SkillSet converts a raw skills encoding into a set of canonical tokens.
// Strings are split on commas, sequences are used element-wise; every token
// is trimmed and lowercased, empty tokens are dropped. Order is not
// preserved and duplicates collapse.
func SkillSet(raw rawval.Value) map[string]struct{} {
	var tokens []string
	switch raw.Kind() {
	case rawval.KindNull:
		return map[string]struct{}{}
	case rawval.KindSeq:
		tokens = raw.Strings()
	default:
		tokens = strings.Split(raw.String(), ",")
	}

	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		token = strings.ToLower(strings.TrimSpace(token))
		if token != "" {
			set[token] = struct{}{}
		}
	}
	return set
}

// Text trims and case-folds a raw scalar. Null maps to the empty string;
// single-element sequences flatten to their element.
func Text(raw rawval.Value) string {
	return strings.ToLower(strings.TrimSpace(raw.First().String()))
}

var (
	nonAlnumPattern   = regexp.MustCompile(`[^a-z0-9\s]+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Fold reduces text to its alphanumeric skeleton: lowercased, every Unicode
// space variant treated as a plain space, punctuation dropped, whitespace
// squeezed. Two strings that fold equal differ only in case, punctuation, or
// space encoding, all of which the indexing pipeline introduces.
func Fold(s string) string {
	folded := strings.Map(func(r rune) rune {
		switch r {
		case ' ', ' ', ' ', ' ', ' ', ' ',
			' ', ' ', ' ', ' ', ' ', ' ', ' ':
			return ' '
		}
		return r
	}, strings.ToLower(s))
	folded = nonAlnumPattern.ReplaceAllString(folded, " ")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(folded, " "))
}

var embeddedIDPattern = regexp.MustCompile(`/(\d+)(?:[/_]|$)`)

// URLParts splits a URL-like string into its canonical domain, lowercased
// path without a trailing slash, and the path's last segment.
func URLParts(raw string) (domain, path, lastSegment string) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", "", ""
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return "", "", ""
	}
	domain = strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	path = strings.TrimRight(strings.ToLower(parsed.EscapedPath()), "/")
	if path != "" {
		segments := strings.Split(path, "/")
		lastSegment = segments[len(segments)-1]
	}
	return domain, path, lastSegment
}

// EmbeddedID extracts the first numeric path segment from a URL, e.g.
// "acme.com/job/42" yields "42". Postings commonly embed the record ID in
// the path, which identifies the same job across mirror domains.
func EmbeddedID(raw string) string {
	_, path, _ := URLParts(raw)
	match := embeddedIDPattern.FindStringSubmatch(path + "/")
	if match == nil {
		return ""
	}
	return match[1]
}
