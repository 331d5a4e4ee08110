package weather

import "strings"

// Category is the semantic weather category derived from a condition string.
// It drives presentation only (icon, background, animation preset).
type Category string

const (
	CategorySunny  Category = "SUNNY"
	CategoryCloudy Category = "CLOUDY"
	CategoryRainy  Category = "RAINY"
	CategoryOther  Category = "OTHER"
)

// Classify maps a free-text condition description to a Category.
// Matching is case-insensitive and first match wins, so a condition
// mentioning both sun and clouds resolves to Sunny. Total over any input;
// the empty string classifies as Other.
func Classify(condition string) Category {
	c := strings.ToLower(condition)

	switch {
	case strings.Contains(c, "sun"), strings.Contains(c, "clear"):
		return CategorySunny
	case strings.Contains(c, "cloud"), strings.Contains(c, "overcast"):
		return CategoryCloudy
	case strings.Contains(c, "rain"), strings.Contains(c, "drizzle"):
		return CategoryRainy
	default:
		return CategoryOther
	}
}
