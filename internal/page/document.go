package page

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is a parsed page
type Document struct {
	url    *url.URL
	doc    *goquery.Document
	layout Layout
}

// Element is the first match of a role inside a Document.
type Element struct {
	sel  *goquery.Selection
	base *url.URL
}

// Anchor is a link found inside an Element.
type Anchor struct {
	Text string // trimmed display text
	Href string // raw href attribute
	URL  string // Href resolved against the document URL
}

// Parse reads HTML from r. pageURL is used to resolve relative links.
func Parse(r io.Reader, pageURL string, layout Layout) (*Document, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parsing page URL: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	if layout == nil {
		layout = DefaultLayout
	}

	return &Document{url: u, doc: doc, layout: layout}, nil
}

// URL returns the address the document was loaded from.
func (d *Document) URL() string {
	return d.url.String()
}

// FindByRole returns the first element matching role, or false when the page has no
// such element or the layout does not define the role.
func (d *Document) FindByRole(role Role) (*Element, bool) {
	selector, ok := d.layout[role]
	if !ok || selector == "" {
		return nil, false
	}

	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, false
	}

	return &Element{sel: sel, base: d.url}, true
}

// Text returns the element text with surrounding whitespace removed.
func (e *Element) Text() string {
	return strings.TrimSpace(e.sel.Text())
}

// Anchors returns every link inside the element in document order. URL is empty when
// the link has no href or the href cannot be parsed.
func (e *Element) Anchors() []Anchor {
	anchors := make([]Anchor, 0)

	e.sel.Find("a").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		a := Anchor{
			Text: strings.TrimSpace(s.Text()),
			Href: strings.TrimSpace(href),
		}
		if a.Href != "" {
			if ref, err := url.Parse(a.Href); err == nil {
				a.URL = e.base.ResolveReference(ref).String()
			}
		}
		anchors = append(anchors, a)
	})

	return anchors
}
