package domain

// ProductType is one entry of the packaged-food taxonomy. The taxonomy is
// immutable configuration data with significant declaration order: the first
// entry whose Keywords match a text wins.
type ProductType struct {
	// Name labels the type (e.g. "chips").
	Name string

	// Keywords detect the type: any one contained in the text is a match.
	Keywords []string

	// MustContain gates candidates: at least one must be present in a
	// candidate's text for it to count as this type. Never empty.
	MustContain []string

	// Exclude vetoes candidates: any one present rejects the candidate,
	// regardless of MustContain hits. Prevents cross-category leakage
	// ("chocolate chip cookie" must not pass the chips type).
	Exclude []string

	// FallbackQuery is the free-text search phrase for this type when
	// subcategory matching comes up empty.
	FallbackQuery string

	// Homemade lists homemade-alternative suggestions shown next to swaps.
	Homemade []string
}
