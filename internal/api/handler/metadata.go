package handler

import (
	"net/http"

	"github.com/skycast/skycast/internal/api/models"
	"github.com/skycast/skycast/internal/api/response"
	"github.com/skycast/skycast/internal/weather"
)

// MetadataHandler serves static presentation metadata.
type MetadataHandler struct{}

// NewMetadataHandler creates a new MetadataHandler.
func NewMetadataHandler() *MetadataHandler {
	return &MetadataHandler{}
}

// GetThemes handles GET /v1/metadata/themes. It exposes the category to
// presentation-preset table so the rendering layer holds no condition logic.
func (h *MetadataHandler) GetThemes(w http.ResponseWriter, r *http.Request) {
	items := make([]models.CategoryTheme, 0, len(weather.Categories()))
	for _, cat := range weather.Categories() {
		theme := weather.ThemeFor(cat)
		items = append(items, models.CategoryTheme{
			Category:     string(cat),
			Icon:         theme.Icon,
			GradientFrom: theme.GradientFrom,
			GradientTo:   theme.GradientTo,
			Animation:    theme.Animation,
		})
	}

	response.JSON(w, r, http.StatusOK, models.ThemesResponse{Items: items})
}
