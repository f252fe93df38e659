package scraper

// DebugSink receives page and element markup for offline selector-chain
// tuning. It is a side output: extraction never depends on it.
type DebugSink interface {
	Dump(name, markup string)
}

// Dump file names emitted by the page scraper.
const (
	DumpPage      = "debug_page.html"
	DumpFirstItem = "debug_first_item.html"
)
