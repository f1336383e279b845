package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/eventhub/internal/helpers"
	"github.com/farellandr/eventhub/internal/middleware"
	"github.com/farellandr/eventhub/internal/service"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithBindError(c, err, http.StatusUnprocessableEntity)
		return
	}

	user, err := h.services.Auth.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondUnprocessable(c, err, "Registration failed.")
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *Handlers) Login(c *gin.Context) {
	h.login(c, false)
}

func (h *Handlers) AdminLogin(c *gin.Context) {
	h.login(c, true)
}

func (h *Handlers) login(c *gin.Context, adminOnly bool) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithBindError(c, err, http.StatusUnprocessableEntity)
		return
	}

	user, token, err := h.services.Auth.Login(c.Request.Context(), req.Email, req.Password, adminOnly)
	if err != nil {
		respondUnprocessable(c, err, "Login failed.")
		return
	}

	maxAge := 0
	if h.cfg.TokenTTL > 0 {
		maxAge = int(h.cfg.TokenTTL.Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, maxAge, "/", "", h.cfg.CookieSecure, true)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

func (h *Handlers) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.cfg.CookieSecure, true)
	c.JSON(http.StatusOK, true)
}
