package domain

// Category is one of the four fixed answer slots of a round
type Category string

const (
	CategoryPeople  Category = "people"
	CategoryAnimals Category = "animals"
	CategoryPlaces  Category = "places"
	CategoryThings  Category = "things"
)

// String returns the string representation of the category
func (c Category) String() string {
	return string(c)
}

// Categories returns all categories in their fixed display order
func Categories() []Category {
	return []Category{CategoryPeople, CategoryAnimals, CategoryPlaces, CategoryThings}
}

// ParseCategory maps a wire string to a known category
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}
