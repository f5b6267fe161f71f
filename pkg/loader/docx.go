package loader

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/docportal/docportal/pkg/domain"
)

// loadDocx pulls the text runs out of word/document.xml. DOCX has no page
// structure at the XML level, so the whole body becomes one page record.
func (s *Service) loadDocx(path, name string) ([]domain.PageRecord, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a valid docx archive", domain.ErrUnsupportedFormat, name)
	}
	defer func() { _ = reader.Close() }()

	var docXML *zip.File
	for _, f := range reader.File {
		if f.Name == "word/document.xml" {
			docXML = f
			break
		}
	}
	if docXML == nil {
		return nil, fmt.Errorf("%w: %s has no word/document.xml", domain.ErrUnsupportedFormat, name)
	}

	rc, err := docXML.Open()
	if err != nil {
		return nil, fmt.Errorf("opening document.xml in %s: %w", name, err)
	}
	defer func() { _ = rc.Close() }()

	text, err := extractDocxText(rc)
	if err != nil {
		return nil, fmt.Errorf("parsing document.xml in %s: %w", name, err)
	}

	return []domain.PageRecord{{Source: name, Page: 1, Text: text}}, nil
}

func extractDocxText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var (
		b      strings.Builder
		inText bool
	)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return strings.TrimSpace(b.String()), nil
}
