package model

// Category is a user-defined spending or income bucket. The AI fallback only
// ever suggests categories from the active set for the transaction's
// direction; an ID outside that set is discarded, never trusted.
type Category struct {
	ID        string
	Name      string
	Direction Direction
	Active    bool
}

// FilterByDirection returns the active categories whose direction matches
// d, preserving order.
func FilterByDirection(categories []Category, d Direction) []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		if c.Active && c.Direction == d {
			out = append(out, c)
		}
	}
	return out
}
