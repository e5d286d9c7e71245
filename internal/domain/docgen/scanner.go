package docgen

import (
	"regexp"
	"sort"
	"strings"
)

// Syntax classifies which placeholder grammar a document uses. The
// classification is produced by Scan and nowhere else.
type Syntax string

const (
	// SyntaxExpression is the canonical grammar: {{ name }} and {% if/for %}.
	SyntaxExpression Syntax = "expression"
	// SyntaxLegacy is the deprecated << free text >> grammar.
	SyntaxLegacy Syntax = "legacy"
	// SyntaxMixed means legacy tokens co-occur with expression tokens.
	SyntaxMixed Syntax = "mixed"
	// SyntaxUnknown means no placeholder of either grammar was found.
	SyntaxUnknown Syntax = "unknown"
)

var (
	// {{ variavel }}, {{ cliente.nome }}, with optional filters after it
	exprVarRe = regexp.MustCompile(`{{\s*([a-zA-Z_][\w.]*)[^}]*}}`)
	// {% if variavel %} / {% for item %} control blocks
	exprCtrlRe = regexp.MustCompile(`{%\s*(?:if|for)\s+([a-zA-Z_][\w.]*)`)
	// << texto livre >> legacy tokens
	legacyRe = regexp.MustCompile(`<<\s*([^<>]+?)\s*>>`)
	// any {{ ... }} print, for validating the inner expression
	anyPrintRe = regexp.MustCompile(`{{\s*(.*?)\s*}}`)
	// identifier path optionally followed by chained filters: a.b | f | g(x)
	allowedExprRe = regexp.MustCompile(`^[A-Za-z_][\w.]*(?:\s*\|\s*[A-Za-z_]\w*(?:\([^)]*\))?)*$`)
)

// Field is a placeholder variable discovered in a document. Derived, never
// persisted.
type Field struct {
	Raw    string    `json:"raw"`
	Name   string    `json:"name"`
	Kind   ValueKind `json:"type"`
	Legacy bool      `json:"legacy,omitempty"`
}

// ScanResult is the scanner's full report on one document.
type ScanResult struct {
	Syntax             Syntax   `json:"syntax"`
	Fields             []Field  `json:"fields"`
	LegacyTokens       []string `json:"legacy_tokens,omitempty"`
	InvalidExpressions []string `json:"invalid_prints,omitempty"`
}

// HasLegacy reports whether any legacy-bracket token is present.
func (r *ScanResult) HasLegacy() bool {
	return len(r.LegacyTokens) > 0
}

// RequiredNames returns the normalized variable names the document needs.
func (r *ScanResult) RequiredNames() []string {
	names := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		names = append(names, f.Name)
	}
	return names
}

// stripFilters reduces a raw token body to its leading identifier path.
func stripFilters(s string) string {
	if i := strings.IndexByte(s, '|'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// rootName returns the top-level data-map key for a possibly dotted path.
func rootName(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// Scan extracts placeholder variables from a document archive and classifies
// its syntax. Expression tokens take precedence: when both grammars occur
// the result is SyntaxMixed and the field list comes from the expression
// tokens (the legacy ones are reported separately for migration).
func Scan(doc []byte) (*ScanResult, error) {
	text, raw, err := textStreams(doc)
	if err != nil {
		return nil, err
	}

	exprNames := map[string]struct{}{}
	for _, m := range exprVarRe.FindAllStringSubmatch(text, -1) {
		if name := stripFilters(m[1]); name != "" {
			exprNames[name] = struct{}{}
		}
	}
	for _, m := range exprCtrlRe.FindAllStringSubmatch(text, -1) {
		if name := stripFilters(m[1]); name != "" {
			exprNames[name] = struct{}{}
		}
	}

	// Legacy tokens are matched against the raw run-merged XML: stripping
	// markup first would eat their angle brackets together with the tags.
	legacySeen := map[string]struct{}{}
	var legacyTokens []string
	for _, m := range legacyRe.FindAllStringSubmatch(raw, -1) {
		raw := stripFilters(m[1])
		if raw == "" {
			continue
		}
		if _, ok := legacySeen[raw]; !ok {
			legacySeen[raw] = struct{}{}
			legacyTokens = append(legacyTokens, raw)
		}
	}
	sort.Strings(legacyTokens)

	result := &ScanResult{
		Syntax:             SyntaxUnknown,
		LegacyTokens:       legacyTokens,
		InvalidExpressions: findInvalidExpressions(text),
	}

	switch {
	case len(exprNames) > 0 && len(legacyTokens) > 0:
		result.Syntax = SyntaxMixed
	case len(exprNames) > 0:
		result.Syntax = SyntaxExpression
	case len(legacyTokens) > 0:
		result.Syntax = SyntaxLegacy
	}

	if len(exprNames) > 0 {
		names := make([]string, 0, len(exprNames))
		for name := range exprNames {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			result.Fields = append(result.Fields, Field{
				Raw:  name,
				Name: name,
				Kind: GuessKind(name),
			})
		}
		return result, nil
	}

	for _, raw := range legacyTokens {
		name := Slugify(raw)
		result.Fields = append(result.Fields, Field{
			Raw:    raw,
			Name:   name,
			Kind:   GuessKind(name),
			Legacy: true,
		})
	}
	return result, nil
}

// findInvalidExpressions lists {{ ... }} prints whose inner expression does
// not match the restricted grammar (identifier path plus chained filters).
// These are authoring mistakes that would blow up at render time.
func findInvalidExpressions(text string) []string {
	var bad []string
	seen := map[string]struct{}{}
	for _, m := range anyPrintRe.FindAllStringSubmatch(text, -1) {
		inner := strings.TrimSpace(m[1])
		if inner == "" || allowedExprRe.MatchString(inner) {
			continue
		}
		if _, ok := seen[inner]; !ok {
			seen[inner] = struct{}{}
			bad = append(bad, inner)
		}
	}
	return bad
}
