package site

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
)

// Expectation is what a rendered page must contain.
type Expectation struct {
	Language  string
	Direction string
	Maqamat   int
	Ajnas     int
}

// VerifyError lists every structural problem found in a page.
type VerifyError struct {
	Problems []string
}

func (e *VerifyError) Error() string {
	return "page verification failed: " + strings.Join(e.Problems, "; ")
}

// VerifyFile parses the page at path as XHTML and checks it against expect.
func VerifyFile(path string, expect Expectation) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read page: %w", err)
	}
	return Verify(data, expect)
}

// Verify parses page as XHTML and checks its structure against expect.
func Verify(page []byte, expect Expectation) error {
	doc, err := xmlquery.Parse(bytes.NewReader(page))
	if err != nil {
		return &VerifyError{Problems: []string{"not well-formed: " + err.Error()}}
	}

	var problems []string
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	root := xmlquery.FindOne(doc, "/html")
	if root == nil {
		return &VerifyError{Problems: []string{"missing html root element"}}
	}
	if lang := root.SelectAttr("lang"); lang != expect.Language {
		addf("html lang %q, want %q", lang, expect.Language)
	}
	if expect.Direction != "" {
		if dir := root.SelectAttr("dir"); dir != expect.Direction {
			addf("html dir %q, want %q", dir, expect.Direction)
		}
	}
	if title := xmlquery.FindOne(doc, "//head/title"); title == nil || strings.TrimSpace(title.InnerText()) == "" {
		addf("missing page title")
	}

	sections := xmlquery.Find(doc, "//section[@class='maqam']")
	if len(sections) != expect.Maqamat {
		addf("found %d maqam sections, want %d", len(sections), expect.Maqamat)
	}
	for _, section := range sections {
		name := section.SelectAttr("data-name")
		if heading := xmlquery.FindOne(section, "./h3"); heading == nil || strings.TrimSpace(heading.InnerText()) == "" {
			addf("maqam %q has no heading", name)
		}
		if xmlquery.FindOne(section, ".//div[@class='tonic']/div[@class='jins']") == nil {
			addf("maqam %q has no tonic jins", name)
		}
		if len(xmlquery.Find(section, "./ol[@class='views']/li")) == 0 {
			addf("maqam %q has no binary views", name)
		}
	}

	if ajnas := xmlquery.Find(doc, "//section[@id='ajnas']/div[@class='jins']"); len(ajnas) != expect.Ajnas {
		addf("found %d ajnas, want %d", len(ajnas), expect.Ajnas)
	}

	script := xmlquery.FindOne(doc, "//script[@id='maqamat-data']")
	if script == nil {
		addf("missing finder data")
	} else if text := strings.TrimSpace(script.InnerText()); strings.HasPrefix(text, "{") {
		var data MatchData
		if err := json.Unmarshal([]byte(text), &data); err != nil {
			addf("finder data is not valid JSON: %v", err)
		} else if len(data.Maqamat) != expect.Maqamat {
			addf("finder data has %d maqamat, want %d", len(data.Maqamat), expect.Maqamat)
		}
	}

	if len(problems) > 0 {
		return &VerifyError{Problems: problems}
	}
	return nil
}
