package model

import "github.com/golang-jwt/jwt/v5"

// AdminClaims is the JWT payload for question-management access
type AdminClaims struct {
	AdminID string `json:"adminId"`
	jwt.RegisteredClaims
}

// LoginResponse is returned on successful admin login
type LoginResponse struct {
	Token   string `json:"token"`
	AdminID string `json:"adminId"`
}
