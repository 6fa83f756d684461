package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/middleware"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"
	appErrors "github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/errors"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/response"
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

// requireClaims writes a 401 and returns nil when the request is anonymous.
func requireClaims(c *gin.Context) *models.JWTClaims {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
	}
	return claims
}

func intParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid "+name))
		return 0, false
	}
	return id, true
}
