package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/univisa-api/internal/middleware"
	"github.com/noah-isme/univisa-api/internal/models"
	appErrors "github.com/noah-isme/univisa-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// referenceDate reads the optional ?date=YYYY-MM-DD query. A zero Date means today.
func referenceDate(c *gin.Context) (models.Date, error) {
	raw := strings.TrimSpace(c.Query("date"))
	if raw == "" {
		return models.Date{}, nil
	}
	date, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	return date, nil
}
