package docgen

// ErrorKind classifies render-pipeline failures. The values are part of the
// HTTP error payload and must stay stable.
type ErrorKind string

const (
	ErrKindDependencyUnavailable ErrorKind = "dependency-unavailable"
	ErrKindUnmigratedSyntax      ErrorKind = "unmigrated-syntax"
	ErrKindMissingVariables      ErrorKind = "missing-variables"
	ErrKindInvalidExpression     ErrorKind = "invalid-expression-syntax"
	ErrKindTemplateNotFound      ErrorKind = "template-not-found"
	ErrKindRenderException       ErrorKind = "render-exception"
)

// PipelineError is the structured error produced by the scanner, validation
// gate and renderer. Missing/Required/Invalid carry variable names so the
// caller can self-correct and resubmit.
type PipelineError struct {
	Kind     ErrorKind `json:"kind"`
	Detail   string    `json:"detail"`
	Missing  []string  `json:"missing,omitempty"`
	Required []string  `json:"required,omitempty"`
	Invalid  []string  `json:"invalid_prints,omitempty"`
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	return e.Detail
}

// NewPipelineError creates a pipeline error with the given kind and detail
func NewPipelineError(kind ErrorKind, detail string) *PipelineError {
	return &PipelineError{Kind: kind, Detail: detail}
}
