package model

// CategoryDefinition is one business category of the taxonomy table.
// Keywords are lowercase substrings; their order only matters for display,
// while the order of definitions in the table decides matching priority.
type CategoryDefinition struct {
	ID       string   `json:"id" yaml:"id"`
	Label    string   `json:"label" yaml:"label"`
	Keywords []string `json:"keywords" yaml:"keywords"`
	Fallback bool     `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// CategoryBucket holds every classification record assigned to a category.
type CategoryBucket struct {
	Definition CategoryDefinition
	Items      []ClassificationRecord
}

// Count returns the number of records in the bucket.
func (b *CategoryBucket) Count() int {
	return len(b.Items)
}
