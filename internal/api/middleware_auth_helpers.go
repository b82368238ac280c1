package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/daylog/internal/models"
)

var (
	errMissingAuthCookie = errors.New("missing auth cookie")
	errInvalidAuthToken  = errors.New("invalid token")
)

func (handler *Handler) authenticateRequest(c *fiber.Ctx) (*models.User, error) {
	rawToken := strings.TrimSpace(c.Cookies(authCookieName))
	if rawToken == "" {
		return nil, errMissingAuthCookie
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return handler.secretKey, nil
	}, jwt.WithTimeFunc(handler.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid || strings.TrimSpace(claims.Username) == "" {
		return nil, errInvalidAuthToken
	}

	user, err := handler.authService.FindByUsername(claims.Username)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
