package handler

import (
	"net/http"

	"github.com/ukai02/iitk-transport/config"
	"github.com/ukai02/iitk-transport/internal/auth"
	"github.com/ukai02/iitk-transport/internal/domain"
	"github.com/ukai02/iitk-transport/internal/repository"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	cfg    *config.Config
	admins *repository.AdminRepository
}

func NewAuthHandler(cfg *config.Config, admins *repository.AdminRepository) *AuthHandler {
	return &AuthHandler{cfg: cfg, admins: admins}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges panel credentials for a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	admin, err := h.admins.GetByUsername(req.Username)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	token, err := auth.GenerateToken(&h.cfg.JWT, admin.ID, admin.Username, domain.RoleAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "username": admin.Username})
}
