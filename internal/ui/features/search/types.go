package search

// Signals is the datastar signal payload posted by the search box.
type Signals struct {
	Query string `json:"query"`
}
