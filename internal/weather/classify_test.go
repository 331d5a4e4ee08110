package weather_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skycast/skycast/internal/weather"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		condition string
		expected  weather.Category
	}{
		{"Clear", weather.CategorySunny},
		{"clear", weather.CategorySunny},
		{"Sunny", weather.CategorySunny},
		{"partly sunny", weather.CategorySunny},
		{"Overcast", weather.CategoryCloudy},
		{"Partly Cloudy", weather.CategoryCloudy},
		{"cloudy", weather.CategoryCloudy},
		{"Light Rain", weather.CategoryRainy},
		{"drizzle", weather.CategoryRainy},
		{"rain, partially cloudy", weather.CategoryRainy},
		{"Snow", weather.CategoryOther},
		{"fog", weather.CategoryOther},
		{"", weather.CategoryOther},
	}

	for _, tc := range tests {
		t.Run(tc.condition, func(t *testing.T) {
			assert.Equal(t, tc.expected, weather.Classify(tc.condition))
		})
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	// The sun/clear check runs before the cloud check, so a mixed
	// condition resolves to Sunny.
	assert.Equal(t, weather.CategorySunny, weather.Classify("sun behind clouds"))
	assert.Equal(t, weather.CategorySunny, weather.Classify("clearing clouds"))

	// Cloud beats rain in the same way.
	assert.Equal(t, weather.CategoryCloudy, weather.Classify("cloudy with rain"))
}

func TestSnapshot_Category(t *testing.T) {
	snap := &weather.Snapshot{Condition: "light rain"}
	assert.Equal(t, weather.CategoryRainy, snap.Category())

	empty := &weather.Snapshot{}
	assert.Equal(t, weather.CategoryOther, empty.Category())
}
