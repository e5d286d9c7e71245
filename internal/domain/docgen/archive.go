package docgen

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
)

// A .docx file is a zip of XML parts. Only a handful of parts carry visible
// text; everything else (styles, relationships, media, settings) is copied
// untouched by every transform in this package.

var (
	// Word may split a single visible run of text across adjacent <w:t>
	// fragments. Joining them first keeps tokens like "{{ nome }}" whole.
	runJoinRe    = regexp.MustCompile(`(?is)</w:t>\s*<w:t[^>]*>`)
	markupRe     = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// isTextPart reports whether an archive part holds visible document text:
// the main body, headers, footers and foot/endnotes.
func isTextPart(name string) bool {
	if !strings.HasPrefix(name, "word/") || !strings.HasSuffix(name, ".xml") {
		return false
	}
	base := path.Base(name)
	if strings.Contains(name[len("word/"):], "/") {
		return false
	}
	switch {
	case base == "document.xml", base == "footnotes.xml", base == "endnotes.xml":
		return true
	case strings.HasPrefix(base, "header"), strings.HasPrefix(base, "footer"):
		return true
	}
	return false
}

// openArchive opens an in-memory .docx archive for reading.
func openArchive(doc []byte) (*zip.Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return nil, fmt.Errorf("open document archive: %w", err)
	}
	return zr, nil
}

// readPart reads the full content of one archive part.
func readPart(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open part %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read part %s: %w", f.Name, err)
	}
	return data, nil
}

// mergeAdjacentRuns joins adjacent text fragments so placeholder tokens are
// never split across run boundaries.
func mergeAdjacentRuns(xml string) string {
	return runJoinRe.ReplaceAllString(xml, "")
}

// textStreams returns two views of every text-bearing part: plain text with
// markup stripped, and run-merged XML with the markup intact. Legacy
// "<< >>" tokens survive only in the raw view; markup stripping consumes
// their angle brackets along with the tags.
func textStreams(doc []byte) (plain, raw string, err error) {
	zr, err := openArchive(doc)
	if err != nil {
		return "", "", err
	}
	var plainParts, rawParts []string
	for _, f := range zr.File {
		if !isTextPart(f.Name) {
			continue
		}
		data, err := readPart(f)
		if err != nil {
			return "", "", err
		}
		merged := mergeAdjacentRuns(string(data))
		rawParts = append(rawParts, merged)
		s := markupRe.ReplaceAllString(merged, "")
		s = whitespaceRe.ReplaceAllString(s, " ")
		plainParts = append(plainParts, strings.TrimSpace(s))
	}
	return strings.Join(plainParts, "\n"), strings.Join(rawParts, "\n"), nil
}

// rewriteParts builds a new archive from the old one part by part. The
// transform is applied only to text-bearing parts; every other part is
// copied verbatim. The source archive is never modified, so a failed
// transform produces no output at all.
func rewriteParts(doc []byte, transform func(name string, data []byte) ([]byte, error)) ([]byte, error) {
	zr, err := openArchive(doc)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range zr.File {
		data, err := readPart(f)
		if err != nil {
			return nil, err
		}
		if isTextPart(f.Name) {
			data, err = transform(f.Name, data)
			if err != nil {
				return nil, err
			}
		}
		w, err := zw.Create(f.Name)
		if err != nil {
			return nil, fmt.Errorf("create part %s: %w", f.Name, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("write part %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
