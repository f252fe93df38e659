package browser

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// FetchFunc retrieves raw HTML for a URL. Production use wires the utls
// fetcher; tests inject canned markup.
type FetchFunc func(ctx context.Context, url string) ([]byte, error)

// StaticPage implements Page over a plainly fetched, parsed DOM. It covers
// server-rendered listing pages without paying for a browser, and doubles
// as the test substrate for everything selector-driven.
//
// It cannot execute JavaScript: click dispatch, in-page evaluation, frame
// traversal and staleness waits all fail with ErrCapability. The config
// layer rejects pagination modes that would need them.
type StaticPage struct {
	ctx   context.Context
	fetch FetchFunc
	doc   *goquery.Document
	url   string
}

type staticElement struct {
	sel *goquery.Selection
}

// NewStaticPage creates a static page backed by fetch. The page holds no
// document until the first Navigate.
func NewStaticPage(ctx context.Context, fetch FetchFunc) *StaticPage {
	return &StaticPage{ctx: ctx, fetch: fetch}
}

func (p *StaticPage) Navigate(url string) error {
	body, err := p.fetch(p.ctx, url)
	if err != nil {
		return err
	}
	node, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("static: parse %s: %w", url, err)
	}
	p.doc = goquery.NewDocumentFromNode(node)
	p.url = url
	return nil
}

func (p *StaticPage) Elements(scope Element, selector string) ([]Element, error) {
	root := p.root()
	if root == nil {
		return nil, fmt.Errorf("static: no document loaded")
	}
	if scope != nil {
		root = scope.(*staticElement).sel
	}
	var out []Element
	root.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, &staticElement{sel: s})
	})
	return out, nil
}

func (p *StaticPage) Exists(selector string) (bool, error) {
	root := p.root()
	if root == nil {
		return false, nil
	}
	return root.Find(selector).Length() > 0, nil
}

func (p *StaticPage) WaitStale(Element, time.Duration) error {
	return fmt.Errorf("static: staleness wait: %w", ErrCapability)
}

func (p *StaticPage) Eval(Element, string) error {
	return fmt.Errorf("static: script evaluation: %w", ErrCapability)
}

func (p *StaticPage) EnterFrame(Element) error {
	return fmt.Errorf("static: frame traversal: %w", ErrCapability)
}

func (p *StaticPage) ExitFrames() {}

func (p *StaticPage) CurrentURL() string { return p.url }

func (p *StaticPage) HTML() (string, error) {
	root := p.root()
	if root == nil {
		return "", fmt.Errorf("static: no document loaded")
	}
	return goquery.OuterHtml(root)
}

func (p *StaticPage) Close() error { return nil }

func (p *StaticPage) root() *goquery.Selection {
	if p.doc == nil {
		return nil
	}
	return p.doc.Selection
}

func (e *staticElement) Text() (string, error) {
	return e.sel.Text(), nil
}

func (e *staticElement) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

func (e *staticElement) Tag() (string, error) {
	return goquery.NodeName(e.sel), nil
}

func (e *staticElement) OuterHTML() (string, error) {
	return goquery.OuterHtml(e.sel)
}

func (e *staticElement) Click() error {
	return fmt.Errorf("static: click dispatch: %w", ErrCapability)
}

func (e *staticElement) Visible() (bool, error) {
	// Without layout there is no visibility; treat everything as visible.
	return true, nil
}
