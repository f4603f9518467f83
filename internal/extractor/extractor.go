// Package extractor splits raw policy documents into labelled sections
// with page provenance. Splitting is driven by structural cues: numbered
// clauses, short heading lines and page breaks.
package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/claimsight/claimsight-cli/internal/core/domain"
	"github.com/claimsight/claimsight-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.SectionExtractor = (*Extractor)(nil)

// DefaultSectionTitle labels text that precedes the first detected heading.
const DefaultSectionTitle = "General Information"

// maxTitleLen is the longest line still considered a candidate heading.
const maxTitleLen = 120

// Extractor converts policy document bytes into ordered sections.
// It is a pure function of the content; query text is never consulted.
type Extractor struct{}

// New creates a new section extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract parses raw bytes into sections. PDF input is split per page;
// plain text is treated as a single page unless it carries explicit
// "--- Page N ---" markers. Unreadable content fails with a wrapped
// domain.ErrExtraction.
func (e *Extractor) Extract(ctx context.Context, name string, content []byte) ([]domain.Section, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: empty document", domain.ErrExtraction)
	}

	var pages []pageText
	var err error

	if isPDF(name, content) {
		pages, err = pdfPages(content)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrExtraction, name, err)
		}
	} else {
		pages, err = textPages(content)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrExtraction, name, err)
		}
	}

	var sections []domain.Section
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sections = append(sections, sectionsFromPage(page)...)
	}

	return sections, nil
}

// pageText is one page of source text before sectioning.
type pageText struct {
	number int
	text   string
}

// pageMarker matches the "--- Page N ---" separators some exports carry.
var pageMarker = regexp.MustCompile(`(?m)^---\s*Page\s+(\d+)[^-]*---\s*$`)

// textPages splits plain text input into pages. Without explicit markers
// the whole input is a single page 1.
func textPages(content []byte) ([]pageText, error) {
	text := string(content)
	if !utf8Valid(text) {
		return nil, fmt.Errorf("content is not valid text")
	}

	locs := pageMarker.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return []pageText{{number: 1, text: text}}, nil
	}

	var pages []pageText
	// Text before the first marker, if any, belongs to page 1.
	if lead := strings.TrimSpace(text[:locs[0][0]]); lead != "" {
		pages = append(pages, pageText{number: 1, text: lead})
	}
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		num := atoiOr(text[loc[2]:loc[3]], i+1)
		pages = append(pages, pageText{number: num, text: text[loc[1]:end]})
	}
	return pages, nil
}

// sectionsFromPage runs the heading/junk heuristics over one page and
// assembles sections. Every non-junk line lands in exactly one section, so
// the section texts together reconstruct the page's policy content.
func sectionsFromPage(page pageText) []domain.Section {
	var sections []domain.Section

	title := DefaultSectionTitle
	var block strings.Builder

	flush := func() {
		text := collapseWhitespace(block.String())
		if text != "" {
			sections = append(sections, domain.Section{
				ID:         uuid.New().String(),
				Title:      title,
				Text:       text,
				PageNumber: page.number,
			})
		}
		block.Reset()
	}

	for _, line := range strings.Split(page.text, "\n") {
		switch {
		case isJunk(line):
			// Boilerplate is checked first: short capitalised junk such as
			// page footers would otherwise pass for headings.
		case isTitle(line):
			flush()
			title = strings.TrimSpace(line)
		default:
			block.WriteString(" ")
			block.WriteString(strings.TrimSpace(line))
		}
	}
	flush()

	return sections
}

// clauseNumbering matches numbered clauses, lettered items, roman-numeral
// items and bullets at the start of a line.
var clauseNumbering = regexp.MustCompile(`^\s*(\d{1,2}\.|[A-Z]\.|\([a-z]\)|\([ivx]+\)|•)\s+`)

// isTitle reports whether a line looks like a section heading.
func isTitle(line string) bool {
	line = strings.TrimSpace(line)

	if line == "" || len(line) > maxTitleLen {
		return false
	}
	if strings.HasSuffix(line, ".") {
		return false
	}
	if clauseNumbering.MatchString(line) {
		return true
	}

	// Short capitalised lines are likely headings.
	if len(strings.Fields(line)) < 8 {
		if line == strings.ToUpper(line) && strings.IndexFunc(line, unicode.IsLetter) >= 0 {
			return true
		}
		if isTitleCase(line) {
			return true
		}
	}
	return false
}

// junkKeywords flag boilerplate lines: regulator identifiers, contact
// details and footers that carry no policy meaning.
var junkKeywords = []string{
	"uin:", "irda", "regn. no.", "reg. no.", "cin:", "gstin",
	"subject matter of solicitation", "trade logo", "corporate office",
	"registered office", "toll-free", "website:", "e-mail", ".com", ".in",
	"confidential", "internal use",
}

var pageFooter = regexp.MustCompile(`^(page\s*\d+|\d+\s*of\s*\d+)$`)

// isJunk reports whether a line is boilerplate (headers, footers, contact
// blocks). Junk lines are the only text the extractor drops, and only by
// this explicit rule.
func isJunk(line string) bool {
	line = strings.ToLower(strings.TrimSpace(line))
	if line == "" {
		return true
	}
	for _, kw := range junkKeywords {
		if strings.Contains(line, kw) {
			return true
		}
	}
	return pageFooter.MatchString(line)
}

// isTitleCase reports whether every word starts with an upper-case letter.
func isTitleCase(s string) bool {
	words := strings.Fields(s)
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		r := []rune(w)[0]
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func utf8Valid(s string) bool {
	for _, r := range s {
		if r == unicode.ReplacementChar {
			return false
		}
	}
	return true
}

func atoiOr(s string, fallback int) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return fallback
		}
		n = n*10 + int(r-'0')
	}
	if n == 0 {
		return fallback
	}
	return n
}

func isPDF(name string, content []byte) bool {
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		return true
	}
	return len(content) >= 5 && string(content[:5]) == "%PDF-"
}
