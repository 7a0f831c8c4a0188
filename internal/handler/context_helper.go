package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/middleware"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/models"
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

func actingUser(c *gin.Context) models.User {
	claims := claimsFromContext(c)
	if claims == nil {
		return models.User{}
	}
	return models.User{
		ID:           claims.UserID,
		Role:         claims.Role,
		Name:         claims.Name,
		LinkedID:     claims.LinkedID,
		IsRegistered: claims.IsRegistered,
	}
}
