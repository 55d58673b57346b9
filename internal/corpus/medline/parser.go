// Package medline converts PubMed MEDLINE text exports into raw corpus records.
//
// A MEDLINE record is a sequence of "TAG - value" lines; long values wrap onto
// continuation lines indented with spaces. Only the tags below are kept:
//
//	TI   title
//	AB   abstract
//	FAU  full author name (repeated)
//	AID  article identifier; the one ending in [doi] is kept
//	MH   MeSH heading (repeated)
//	OT   other term (repeated)
//	DP   publication date
//
// A PMID line starts a new record. Exports without PMID lines fall back to
// starting one at each TI. Records that never receive a title are dropped.
package medline

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	domdoc "github.com/kailas-cloud/litsearch/internal/domain/document"
)

// maxLineBytes bounds a single MEDLINE line.
const maxLineBytes = 1 << 20

var (
	tagLine = regexp.MustCompile(`^([A-Z]{2,4})\s*- (.*)$`)
	doiID   = regexp.MustCompile(`^(.+) \[doi\]$`)
)

// Parse reads every record in r.
func Parse(r io.Reader) ([]domdoc.Raw, error) {
	p := parser{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		p.line(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read medline: %w", err)
	}
	p.flush()
	return p.out, nil
}

type parser struct {
	out      []domdoc.Raw
	cur      *domdoc.Raw
	abstract []string
	// field receiving continuation lines: "TI", "AB" or "".
	open string
}

func (p *parser) line(raw string) {
	line := strings.TrimRight(raw, " \t\r")
	if strings.TrimSpace(line) == "" {
		p.open = ""
		return
	}

	m := tagLine.FindStringSubmatch(line)
	if m == nil {
		p.continuation(strings.TrimSpace(line))
		return
	}
	tag, value := m[1], strings.TrimSpace(m[2])
	p.open = ""

	switch tag {
	case "PMID":
		p.start()
		return
	case "TI":
		if p.cur == nil || p.cur.Title != "" {
			p.start()
		}
		p.cur.Title = value
		p.open = "TI"
		return
	}
	if p.cur == nil {
		return
	}

	switch tag {
	case "AB":
		p.abstract = append(p.abstract, value)
		p.open = "AB"
	case "AID":
		if d := doiID.FindStringSubmatch(value); d != nil {
			p.cur.DOI = d[1]
		}
	case "FAU":
		p.cur.Authors = append(p.cur.Authors, value)
	case "MH":
		p.cur.MeshHeadings = append(p.cur.MeshHeadings, value)
	case "OT":
		p.cur.OtherTerms = append(p.cur.OtherTerms, value)
	case "DP":
		p.cur.PublicationDate = value
	}
}

func (p *parser) continuation(text string) {
	if p.cur == nil {
		return
	}
	switch p.open {
	case "TI":
		p.cur.Title += " " + text
	case "AB":
		p.abstract = append(p.abstract, text)
	}
}

func (p *parser) start() {
	p.flush()
	p.cur = &domdoc.Raw{Authors: []string{}}
}

func (p *parser) flush() {
	if p.cur == nil {
		return
	}
	if p.cur.Title != "" {
		p.cur.Abstract = strings.Join(p.abstract, " ")
		p.out = append(p.out, *p.cur)
	}
	p.cur = nil
	p.abstract = nil
	p.open = ""
}
