package docgen

// MissingVariables returns the required names without a corresponding key in
// the data map. A dotted path like "cliente.nome" is satisfied by the
// top-level "cliente" key, since that is what the engine resolves against.
func MissingVariables(fields []Field, data map[string]any) []string {
	var missing []string
	for _, f := range fields {
		if _, ok := data[rootName(f.Name)]; !ok {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

// Validate is the gate between scanning and rendering.
//
// Legacy-bracket tokens are a hard stop regardless of strictness: they must
// be migrated, never rendered. Malformed expression prints are likewise
// rejected before the engine ever opens the document. Missing variables are
// an error only in strict mode; in non-strict mode the engine renders them
// blank (see Render).
func Validate(scan *ScanResult, data map[string]any, strict bool) error {
	if scan.HasLegacy() {
		return &PipelineError{
			Kind:   ErrKindUnmigratedSyntax,
			Detail: "template uses legacy '<< >>' placeholders; migrate to '{{ }}' before rendering",
		}
	}

	if len(scan.InvalidExpressions) > 0 {
		return &PipelineError{
			Kind:    ErrKindInvalidExpression,
			Detail:  "template contains malformed placeholder expressions",
			Invalid: scan.InvalidExpressions,
		}
	}

	if strict {
		if missing := MissingVariables(scan.Fields, data); len(missing) > 0 {
			return &PipelineError{
				Kind:     ErrKindMissingVariables,
				Detail:   "context is missing required variables",
				Missing:  missing,
				Required: scan.RequiredNames(),
			}
		}
	}
	return nil
}
