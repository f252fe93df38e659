package browser

import (
	"errors"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/proto"
)

// ErrCapability is returned by engines that cannot perform a requested
// operation (e.g. the static engine cannot dispatch clicks or hold frames).
var ErrCapability = errors.New("operation requires the live browser engine")

// Page is the capability the extraction engine needs from a rendered
// document. The rod engine backs it with a live Chromium tab; the static
// engine backs it with a fetched, parsed DOM.
//
// A Page is owned by exactly one component at a time. Element handles are
// only valid while the render that produced them is live.
type Page interface {
	// Navigate replaces the current render with the given URL.
	Navigate(url string) error

	// Elements returns all descendants of scope matching selector, in
	// document order. A nil scope means the current document. A selector
	// with no matches yields an empty slice, not an error.
	Elements(scope Element, selector string) ([]Element, error)

	// Exists reports whether at least one element matches selector in the
	// current document, without waiting.
	Exists(selector string) (bool, error)

	// WaitStale blocks until el is detached or invisible, or the timeout
	// elapses.
	WaitStale(el Element, timeout time.Duration) error

	// Eval runs script in the page context. When el is non-nil the script
	// is evaluated with the element bound as `this`.
	Eval(el Element, script string) error

	// EnterFrame switches the document context into the nested document
	// hosted by frameEl. ExitFrames restores the top-level document and is
	// safe to call when no frame is entered.
	EnterFrame(frameEl Element) error
	ExitFrames()

	// CurrentURL returns the URL of the current render.
	CurrentURL() string

	// HTML returns the full markup of the current render.
	HTML() (string, error)

	// Close releases the render and any resources behind it.
	Close() error
}

// Element is a transient handle to one element of the current render.
type Element interface {
	// Text returns the element's rendered text.
	Text() (string, error)

	// Attr returns the named attribute and whether it is present. A bare
	// attribute (present, no value) yields ("", true).
	Attr(name string) (string, bool)

	// Tag returns the lowercase tag name.
	Tag() (string, error)

	// OuterHTML returns the element's outer markup.
	OuterHTML() (string, error)

	// Click dispatches a real click on the element.
	Click() error

	// Visible reports whether the element is rendered visibly.
	Visible() (bool, error)
}

// Activate triggers el: a direct click first, then a forced click in the
// page context when an overlay intercepts the direct one. The two tactics
// are tried in fixed order; callers never duplicate the fallback.
func Activate(p Page, el Element) error {
	if err := el.Click(); err == nil {
		return nil
	}
	return p.Eval(el, `() => this.click()`)
}

// rodPage adapts a rod page to the Page interface. Frame traversal swaps
// the current document pointer; the top-level document is kept so every
// exit path can restore it.
type rodPage struct {
	root *rod.Page
	cur  *rod.Page

	// router is the resource-blocking hijack router, if one was installed.
	// It runs in its own goroutine and is stopped on Close.
	router *rod.HijackRouter
}

type rodElement struct {
	el *rod.Element
}

func (p *rodPage) Navigate(url string) error {
	p.ExitFrames()
	if err := p.root.Navigate(url); err != nil {
		return err
	}
	// Dynamically rendered listings keep mutating after load; settle the
	// DOM instead of waiting for network idle (which conflicts with the
	// hijack router's Fetch domain usage). An unsettled DOM is still
	// scrapable, so the wait is best effort.
	_ = p.root.WaitDOMStable(300*time.Millisecond, 0.1)
	return nil
}

func (p *rodPage) Elements(scope Element, selector string) ([]Element, error) {
	var els rod.Elements
	var err error
	if scope == nil {
		els, err = p.cur.Elements(selector)
	} else {
		els, err = scope.(*rodElement).el.Elements(selector)
	}
	if err != nil {
		return nil, err
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el})
	}
	return out, nil
}

func (p *rodPage) Exists(selector string) (bool, error) {
	has, _, err := p.cur.Has(selector)
	return has, err
}

func (p *rodPage) WaitStale(el Element, timeout time.Duration) error {
	return staleWaitResult(el.(*rodElement).el.Timeout(timeout).WaitInvisible())
}

// staleWaitResult normalizes the invisibility wait. A cross-document
// navigation destroys the old render's JS context instead of hiding the
// element, so element evals start failing with "object/context gone"
// errors. That destruction is exactly the staleness being waited for;
// only a genuine deadline is a failure.
func staleWaitResult(err error) error {
	if err == nil {
		return nil
	}
	var gone *rod.ObjectNotFoundError
	if errors.As(err, &gone) {
		return nil
	}
	if errors.Is(err, cdp.ErrCtxNotFound) || errors.Is(err, cdp.ErrObjNotFound) {
		return nil
	}
	return err
}

func (p *rodPage) Eval(el Element, script string) error {
	if el != nil {
		_, err := el.(*rodElement).el.Eval(script)
		return err
	}
	_, err := p.cur.Eval(script)
	return err
}

func (p *rodPage) EnterFrame(frameEl Element) error {
	frame, err := frameEl.(*rodElement).el.Frame()
	if err != nil {
		return err
	}
	p.cur = frame
	return nil
}

func (p *rodPage) ExitFrames() {
	p.cur = p.root
}

func (p *rodPage) CurrentURL() string {
	res, err := p.root.Eval(`() => window.location.href`)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

func (p *rodPage) HTML() (string, error) {
	return p.cur.HTML()
}

func (p *rodPage) Close() error {
	if p.router != nil {
		_ = p.router.Stop()
	}
	return p.root.Close()
}

func (e *rodElement) Text() (string, error) {
	return e.el.Text()
}

func (e *rodElement) Attr(name string) (string, bool) {
	v, err := e.el.Attribute(name)
	if err != nil || v == nil {
		return "", false
	}
	return *v, true
}

func (e *rodElement) Tag() (string, error) {
	res, err := e.el.Eval(`() => this.tagName.toLowerCase()`)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func (e *rodElement) OuterHTML() (string, error) {
	return e.el.HTML()
}

func (e *rodElement) Click() error {
	return e.el.Click(proto.InputMouseButtonLeft, 1)
}

func (e *rodElement) Visible() (bool, error) {
	return e.el.Visible()
}
