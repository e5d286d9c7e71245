package docgen

// Migrate rewrites every legacy-bracket token in a document as the
// equivalent expression token, producing a new archive. Names come from the
// supplied raw-text -> variable mapping; tokens absent from the mapping are
// slugified fresh, exactly as the scanner would.
//
// Non-text parts are copied byte for byte. The transform is deterministic
// and idempotent: a document with no legacy tokens passes through unchanged.
func Migrate(doc []byte, mapping map[string]string) ([]byte, error) {
	return rewriteParts(doc, func(name string, data []byte) ([]byte, error) {
		merged := mergeAdjacentRuns(string(data))
		xml := legacyRe.ReplaceAllStringFunc(merged, func(token string) string {
			m := legacyRe.FindStringSubmatch(token)
			if m == nil {
				return token
			}
			raw := stripFilters(m[1])
			safe := mapping[raw]
			if safe == "" {
				safe = Slugify(raw)
			}
			return "{{ " + safe + " }}"
		})
		return []byte(xml), nil
	})
}

// MigrationMapping derives the raw -> slug mapping Migrate would apply to a
// document, letting operators review it before committing the rewrite.
func MigrationMapping(doc []byte) (map[string]string, error) {
	scan, err := Scan(doc)
	if err != nil {
		return nil, err
	}
	mapping := make(map[string]string, len(scan.LegacyTokens))
	for _, raw := range scan.LegacyTokens {
		mapping[raw] = Slugify(raw)
	}
	return mapping, nil
}
