package domain

// TodoItem is a checkable item derived from document content.
// It is recomputed on every parse and never stored on its own.
type TodoItem struct {
	// ID is derived from the habit tag, the item's position in the
	// document and the first 50 characters of its text. It is stable
	// across re-parses of unchanged content only.
	ID string `json:"id"`

	// Text is the cleaned action text including continuation lines.
	Text string `json:"text"`

	// LineText is the cleaned text of the action line alone. Edits replace
	// this part and leave continuation lines in place.
	LineText string `json:"lineText"`

	// Tag is the habit the item was listed under, empty when none.
	Tag string `json:"tag,omitempty"`

	// Completed is set from the caller-supplied completed set.
	Completed bool `json:"completed"`

	// OriginalLine is the raw source line of the action.
	OriginalLine string `json:"originalLine"`
}
