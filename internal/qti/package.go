package qti

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/mind-engage/mindengage-portal/internal/quizbank"
)

var ErrNoManifest = errors.New("qti: imsmanifest.xml not found")

type imsManifest struct {
	XMLName   xml.Name      `xml:"manifest"`
	Resources []imsResource `xml:"resources>resource"`
}
type imsResource struct {
	Identifier string `xml:"identifier,attr"`
	Href       string `xml:"href,attr"`
	Type       string `xml:"type,attr"`
}

// Skipped records a package resource that could not become a template.
type Skipped struct {
	Href   string `json:"href"`
	Reason string `json:"reason"`
}

// IsPackage reports whether b starts like a zip archive.
func IsPackage(b []byte) bool {
	return bytes.HasPrefix(b, []byte("PK\x03\x04"))
}

// ParsePackage reads a QTI content package (zip) in memory and returns its
// single-choice items in manifest order. Items the portal cannot use are
// listed in skipped rather than failing the whole package.
func ParsePackage(r io.ReaderAt, size int64) (items []Item, skipped []Skipped, err error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, nil, fmt.Errorf("qti: open package: %w", err)
	}
	files := map[string]*zip.File{}
	for _, f := range zr.File {
		if !f.FileInfo().IsDir() {
			files[path.Clean(f.Name)] = f
		}
	}

	var mf imsManifest
	found := false
	for _, name := range []string{"imsmanifest.xml", "manifest.xml"} {
		f, ok := files[name]
		if !ok {
			continue
		}
		if err := decodeZipXML(f, &mf); err != nil {
			return nil, nil, fmt.Errorf("qti: manifest: %w", err)
		}
		found = true
		break
	}
	if !found {
		return nil, nil, ErrNoManifest
	}

	for _, res := range mf.Resources {
		href := strings.ToLower(res.Href)
		if !strings.HasSuffix(href, ".xml") || strings.Contains(href, "manifest") {
			continue
		}
		f, ok := files[path.Clean(res.Href)]
		if !ok {
			skipped = append(skipped, Skipped{Href: res.Href, Reason: "missing from package"})
			continue
		}
		rc, err := f.Open()
		if err != nil {
			skipped = append(skipped, Skipped{Href: res.Href, Reason: err.Error()})
			continue
		}
		it, err := ParseItem(rc)
		rc.Close()
		if err != nil {
			skipped = append(skipped, Skipped{Href: res.Href, Reason: err.Error()})
			continue
		}
		items = append(items, it)
	}
	return items, skipped, nil
}

func decodeZipXML(f *zip.File, v any) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return xml.NewDecoder(rc).Decode(v)
}

// Templates maps items onto question templates, skipping the ones that are
// not single choice or carry no usable answer key.
func Templates(items []Item) ([]quizbank.QuestionTemplate, []Skipped) {
	var (
		out     []quizbank.QuestionTemplate
		skipped []Skipped
	)
	for _, it := range items {
		t, err := it.Template()
		if err != nil {
			skipped = append(skipped, Skipped{Href: it.ID, Reason: err.Error()})
			continue
		}
		out = append(out, t)
	}
	return out, skipped
}
