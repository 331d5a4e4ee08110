package weather_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skycast/skycast/internal/weather"
)

func TestThemeFor(t *testing.T) {
	sunny := weather.ThemeFor(weather.CategorySunny)
	assert.Equal(t, "sun", sunny.Icon)
	assert.Equal(t, "yellow-300", sunny.GradientFrom)
	assert.Equal(t, "orange-500", sunny.GradientTo)

	rainy := weather.ThemeFor(weather.CategoryRainy)
	assert.Equal(t, "cloud-rain", rainy.Icon)
	assert.Equal(t, "fall", rainy.Animation)

	// Unknown categories fall back to the Other preset
	unknown := weather.ThemeFor(weather.Category("HURRICANE"))
	assert.Equal(t, weather.ThemeFor(weather.CategoryOther), unknown)
}

func TestCategories_CoveredByThemes(t *testing.T) {
	for _, cat := range weather.Categories() {
		theme := weather.ThemeFor(cat)
		assert.NotEmpty(t, theme.Icon, "category %s has no icon", cat)
		assert.NotEmpty(t, theme.GradientFrom, "category %s has no gradient", cat)
	}
}
