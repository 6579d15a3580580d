package event

// ProductSearchRequested is published when a widget asks for a product search.
type ProductSearchRequested struct {
	Term   string
	Source string
}

func NewProductSearchRequested(term, source string) *ProductSearchRequested {
	return &ProductSearchRequested{Term: term, Source: source}
}

func (e *ProductSearchRequested) EventTopic() Topic {
	return TopicProductSearchRequest
}

// ProductSearchCompleted carries the results of a product search back to
// whichever widgets display them.
type ProductSearchCompleted struct {
	Term    string
	Results []ProductSummary
	Source  string
}

func NewProductSearchCompleted(term string, results []ProductSummary, source string) *ProductSearchCompleted {
	return &ProductSearchCompleted{Term: term, Results: results, Source: source}
}

func (e *ProductSearchCompleted) EventTopic() Topic {
	return TopicProductSearchResult
}

// ProductSelected is published when a product becomes the current selection,
// either picked by the user or auto-selected from a single search result.
type ProductSelected struct {
	Product      ProductSummary
	AutoSelected bool
	Source       string
}

func NewProductSelected(p ProductSummary, auto bool, source string) *ProductSelected {
	return &ProductSelected{Product: p, AutoSelected: auto, Source: source}
}

func (e *ProductSelected) EventTopic() Topic {
	return TopicProductSelected
}

// ScanCompleted is published when a barcode has been read. Producers running
// outside the UI loop must marshal onto it before publishing.
type ScanCompleted struct {
	Code   string
	Source string
}

func NewScanCompleted(code, source string) *ScanCompleted {
	return &ScanCompleted{Code: code, Source: source}
}

func (e *ScanCompleted) EventTopic() Topic {
	return TopicScanCompleted
}

// ValidationFailed is published when a selection or entry fails a business
// rule. It leaves the offending widget stale and lets the rest of the UI
// continue.
type ValidationFailed struct {
	Message string
	Details []string
	Source  string
}

func NewValidationFailed(message string, details []string, source string) *ValidationFailed {
	return &ValidationFailed{Message: message, Details: details, Source: source}
}

func (e *ValidationFailed) EventTopic() Topic {
	return TopicValidationFailed
}

// QuantityFocusRequested asks the movement form to focus its quantity field
// after a successful product selection.
type QuantityFocusRequested struct {
	ProductID int64
}

func NewQuantityFocusRequested(productID int64) *QuantityFocusRequested {
	return &QuantityFocusRequested{ProductID: productID}
}

func (e *QuantityFocusRequested) EventTopic() Topic {
	return TopicQuantityFocusRequested
}
