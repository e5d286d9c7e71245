package docgen

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Inline image embedding: a context value that references a stored file is
// replaced with OOXML drawing markup, the picture bytes become a new media
// part and a relationship is added for the main document part. Only the
// main body is patched; headers and footers keep the raw value.

const (
	emuPerPixel       = 9525
	documentRelsPart  = "word/_rels/document.xml.rels"
	contentTypesPart  = "[Content_Types].xml"
	imageRelationship = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

var relIDRe = regexp.MustCompile(`Id="rId(\d+)"`)

// embedImages rewrites image-field context values into inline drawing XML,
// mutating the part set with the media parts and relationships it needs.
// Values whose file does not exist are left untouched.
func embedImages(ps *partSet, ctx map[string]any, opts RenderOptions) error {
	if opts.MediaRoot == "" || len(opts.ImageFields) == 0 {
		return nil
	}
	width := opts.ImageWidthPx
	if width <= 0 {
		width = DefaultImageWidthPx
	}

	seq := 0
	for _, field := range opts.ImageFields {
		ref, ok := ctx[field].(string)
		if !ok || strings.TrimSpace(ref) == "" {
			continue
		}
		path, ok := resolveMediaPath(opts, ref)
		if !ok {
			continue
		}
		img, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		seq++
		relID, err := addImagePart(ps, img, mediaExtension(path), seq)
		if err != nil {
			return err
		}
		ctx[field] = drawingXML(relID, seq, width, scaledHeight(img, width))
	}
	return nil
}

// resolveMediaPath turns a stored-file reference into an absolute path under
// the media root. References escaping the root are rejected.
func resolveMediaPath(opts RenderOptions, ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if opts.MediaURLPrefix != "" {
		ref = strings.TrimPrefix(ref, opts.MediaURLPrefix)
	}
	ref = strings.TrimPrefix(ref, "/")
	clean := filepath.Clean(ref)
	if clean == "." || strings.HasPrefix(clean, "..") {
		return "", false
	}
	full := filepath.Join(opts.MediaRoot, clean)
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", false
	}
	return full, true
}

func mediaExtension(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "jpg" {
		ext = "jpeg"
	}
	if ext == "" {
		ext = "png"
	}
	return ext
}

// scaledHeight keeps the picture's aspect ratio at the fixed width, falling
// back to a square when the bytes cannot be decoded.
func scaledHeight(img []byte, width int) int {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil || cfg.Width <= 0 {
		return width
	}
	return width * cfg.Height / cfg.Width
}

// addImagePart stores the picture bytes as a media part and registers the
// relationship and content type it needs, returning the relationship ID.
func addImagePart(ps *partSet, img []byte, ext string, seq int) (string, error) {
	partName := fmt.Sprintf("word/media/render_image_%d.%s", seq, ext)
	ps.add(partName, img)

	rels, ok := ps.data[documentRelsPart]
	if !ok {
		return "", fmt.Errorf("archive has no %s part", documentRelsPart)
	}
	relID := nextRelID(string(rels))
	entry := fmt.Sprintf(`<Relationship Id="%s" Type="%s" Target="media/%s"/>`,
		relID, imageRelationship, filepath.Base(partName))
	patched := strings.Replace(string(rels), "</Relationships>", entry+"</Relationships>", 1)
	if patched == string(rels) {
		return "", fmt.Errorf("malformed %s part", documentRelsPart)
	}
	ps.data[documentRelsPart] = []byte(patched)

	ensureContentType(ps, ext)
	return relID, nil
}

func nextRelID(rels string) string {
	max := 0
	for _, m := range relIDRe.FindAllStringSubmatch(rels, -1) {
		var n int
		fmt.Sscanf(m[1], "%d", &n)
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("rId%d", max+1)
}

func ensureContentType(ps *partSet, ext string) {
	ct, ok := ps.data[contentTypesPart]
	if !ok {
		return
	}
	if strings.Contains(string(ct), fmt.Sprintf(`Extension="%s"`, ext)) {
		return
	}
	entry := fmt.Sprintf(`<Default Extension="%s" ContentType="image/%s"/>`, ext, ext)
	patched := strings.Replace(string(ct), "</Types>", entry+"</Types>", 1)
	ps.data[contentTypesPart] = []byte(patched)
}

// drawingXML produces the inline picture markup. The surrounding token sits
// inside a <w:t> element, so the markup closes the text element, emits the
// drawing as a sibling inside the same run, and reopens a text element.
func drawingXML(relID string, seq, widthPx, heightPx int) string {
	cx := widthPx * emuPerPixel
	cy := heightPx * emuPerPixel
	return fmt.Sprintf(`</w:t><w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%d" cy="%d"/><wp:docPr id="%d" name="Imagem %d"/>`+
		`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">`+
		`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:nvPicPr><pic:cNvPr id="%d" name="Imagem %d"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" r:embed="%s"/>`+
		`<a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing><w:t xml:space="preserve">`,
		cx, cy, seq, seq, seq, seq, relID, cx, cy)
}
