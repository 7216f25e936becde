package dto

import (
	"bloghub/internal/httpapi/models"
)

type RegisterDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user"`
}
