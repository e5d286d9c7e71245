package docgen

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// RenderOptions configures one render call.
type RenderOptions struct {
	// Strict is informational here: missing variables are rejected by
	// Validate before Render is called. The engine itself renders an
	// undefined variable as an empty string, so the strict flag fully
	// controls undefined-variable behavior end to end and non-strict
	// requests never fail late on a merely absent variable.
	Strict bool

	// MediaRoot is the directory holding referenced image files.
	MediaRoot string
	// MediaURLPrefix is stripped from stored-file references before they
	// are resolved under MediaRoot (e.g. "/media/").
	MediaURLPrefix string
	// ImageFields lists context keys whose values are stored-file
	// references to embed as inline images.
	ImageFields []string
	// ImageWidthPx is the fixed display width of embedded images.
	ImageWidthPx int
}

// DefaultImageWidthPx is used when RenderOptions.ImageWidthPx is zero.
const DefaultImageWidthPx = 150

var engineSetup sync.Once

// setupEngine configures the global pongo2 state once. Autoescaping is off
// because the output is OOXML, not HTML; values are escaped explicitly when
// the engine context is built.
func setupEngine() {
	pongo2.SetAutoescape(false)
	mustRegisterFilter("cpf_format", filterCPFFormat)
	mustRegisterFilter("cep_format", filterCEPFormat)
	mustRegisterFilter("cnpj_format", filterCNPJFormat)
}

func mustRegisterFilter(name string, fn pongo2.FilterFunction) {
	if err := pongo2.RegisterFilter(name, fn); err != nil {
		panic(fmt.Sprintf("register filter %s: %v", name, err))
	}
}

// partSet is an in-memory working copy of an archive, keeping part order so
// the output zip is laid out like the input.
type partSet struct {
	order []string
	data  map[string][]byte
}

func newPartSet(doc []byte) (*partSet, error) {
	zr, err := openArchive(doc)
	if err != nil {
		return nil, err
	}
	ps := &partSet{data: make(map[string][]byte, len(zr.File))}
	for _, f := range zr.File {
		content, err := readPart(f)
		if err != nil {
			return nil, err
		}
		ps.order = append(ps.order, f.Name)
		ps.data[f.Name] = content
	}
	return ps, nil
}

func (ps *partSet) add(name string, content []byte) {
	if _, exists := ps.data[name]; !exists {
		ps.order = append(ps.order, name)
	}
	ps.data[name] = content
}

func (ps *partSet) bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range ps.order {
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("create part %s: %w", name, err)
		}
		if _, err := w.Write(ps.data[name]); err != nil {
			return nil, fmt.Errorf("write part %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

// Render substitutes the resolved data map into a validated document and
// returns the new archive bytes. The operation is all-or-nothing: any engine
// failure yields a render-exception error and no output, and the source
// archive is never touched.
func Render(doc []byte, data map[string]any, opts RenderOptions) ([]byte, error) {
	engineSetup.Do(setupEngine)

	ps, err := newPartSet(doc)
	if err != nil {
		return nil, &PipelineError{Kind: ErrKindRenderException, Detail: err.Error()}
	}

	ctx := buildEngineContext(data)
	if err := embedImages(ps, ctx, opts); err != nil {
		return nil, &PipelineError{Kind: ErrKindRenderException, Detail: err.Error()}
	}

	for _, name := range ps.order {
		if !isTextPart(name) {
			continue
		}
		merged := mergeAdjacentRuns(string(ps.data[name]))
		tmpl, err := pongo2.FromBytes([]byte(merged))
		if err != nil {
			return nil, &PipelineError{
				Kind:   ErrKindRenderException,
				Detail: fmt.Sprintf("parse %s: %v", name, err),
			}
		}
		out, err := tmpl.ExecuteBytes(pongo2.Context(ctx))
		if err != nil {
			return nil, &PipelineError{
				Kind:   ErrKindRenderException,
				Detail: fmt.Sprintf("render %s: %v", name, err),
			}
		}
		ps.data[name] = out
	}

	rendered, err := ps.bytes()
	if err != nil {
		return nil, &PipelineError{Kind: ErrKindRenderException, Detail: err.Error()}
	}
	return rendered, nil
}

var xmlValueEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// buildEngineContext deep-copies the data map, escaping every string value
// so substituted text cannot break the surrounding XML.
func buildEngineContext(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = escapeValue(v)
	}
	return out
}

func escapeValue(v any) any {
	switch t := v.(type) {
	case string:
		return xmlValueEscaper.Replace(t)
	case map[string]any:
		return buildEngineContext(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = escapeValue(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = buildEngineContext(item)
		}
		return out
	}
	return v
}
