package model

// ClassificationSource records how a category was assigned to a transaction.
type ClassificationSource string

// Classification source constants.
const (
	SourceRule  ClassificationSource = "rule"
	SourceAI    ClassificationSource = "ai"
	SourceCache ClassificationSource = "cache"
	SourceNone  ClassificationSource = "none"
)

// ClassificationResult is the outcome of classifying one transaction.
// CategoryID is empty when nothing matched; Source is SourceNone in that
// case. Reason is a human-readable trace (which rule fired, or the model's
// own explanation) kept for auditability.
type ClassificationResult struct {
	CategoryID   string
	CategoryName string
	Reason       string
	Tags         []string
	Source       ClassificationSource
	Score        float64
}

// Classified reports whether the result carries a category.
func (r ClassificationResult) Classified() bool {
	return r.CategoryID != ""
}
