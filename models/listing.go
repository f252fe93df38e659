package models

// Listing is one extracted marketplace item.
//
// Price is the raw display text as rendered on the page; currency
// normalization is left to downstream consumers.
type Listing struct {
	ID    string
	Title string
	Price string
	Link  string
}

// CSVHeader is the fixed column order used for persistence.
var CSVHeader = []string{"id", "title", "price", "link"}

// CSVRecord returns the listing's fields in CSVHeader order.
func (l Listing) CSVRecord() []string {
	return []string{l.ID, l.Title, l.Price, l.Link}
}

// Keep reports whether the listing carries enough identity to be worth
// retaining. A record with neither a link nor an id is extraction noise.
func (l Listing) Keep() bool {
	return l.Link != "" || l.ID != ""
}
