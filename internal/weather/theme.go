package weather

// Theme is the presentation preset for a weather category. The rendering
// layer looks up icon, gradient, and animation exclusively through this
// table, keeping all condition matching in Classify.
type Theme struct {
	// Icon is the icon identifier for the category.
	Icon string `json:"icon"`

	// GradientFrom and GradientTo are the background gradient stops.
	GradientFrom string `json:"gradientFrom"`
	GradientTo   string `json:"gradientTo"`

	// Animation names the animation preset for the category.
	Animation string `json:"animation"`
}

// themes maps each category to its presentation preset.
var themes = map[Category]Theme{
	CategorySunny: {
		Icon:         "sun",
		GradientFrom: "yellow-300",
		GradientTo:   "orange-500",
		Animation:    "pulse",
	},
	CategoryCloudy: {
		Icon:         "cloud",
		GradientFrom: "gray-300",
		GradientTo:   "gray-500",
		Animation:    "drift",
	},
	CategoryRainy: {
		Icon:         "cloud-rain",
		GradientFrom: "blue-300",
		GradientTo:   "blue-600",
		Animation:    "fall",
	},
	CategoryOther: {
		Icon:         "cloud",
		GradientFrom: "purple-400",
		GradientTo:   "indigo-600",
		Animation:    "none",
	},
}

// ThemeFor returns the presentation preset for a category. Unknown
// categories fall back to the Other preset.
func ThemeFor(cat Category) Theme {
	if t, ok := themes[cat]; ok {
		return t
	}
	return themes[CategoryOther]
}

// Categories lists all categories in presentation order.
func Categories() []Category {
	return []Category{CategorySunny, CategoryCloudy, CategoryRainy, CategoryOther}
}
