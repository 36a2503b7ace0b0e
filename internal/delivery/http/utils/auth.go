package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	RoleAdmin   = "admin"
	RoleCreator = "creator"

	sessionCookie = "session"
)

type Auth interface {
	CheckAuth(tokenString string) (*Session, error)
	CheckAuthFromContext(c echo.Context) (*Session, error)
	CreateToken(userID int, role string) (string, error)
}

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Session - проверенные данные токена
type Session struct {
	UserID int
	Role   string
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

type jwtLoginClaims struct {
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type AuthManager struct {
	jwtSecretKey  []byte
	tokenLifetime time.Duration
}

func NewAuthManager(jwtSecretKey []byte, tokenLifetime time.Duration) *AuthManager {
	return &AuthManager{
		jwtSecretKey:  jwtSecretKey,
		tokenLifetime: tokenLifetime,
	}
}

// CheckAuth проверяет подпись и срок токена.
// Если токен невалиден, то возвращается ErrUnauthorized.
func (a *AuthManager) CheckAuth(tokenString string) (*Session, error) {
	claims := jwtLoginClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return a.jwtSecretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || claims.UserID <= 0 {
		return nil, ErrUnauthorized
	}
	return &Session{UserID: claims.UserID, Role: claims.Role}, nil
}

// CheckAuthFromContext берёт токен из cookie session, а при её отсутствии из заголовка Authorization: Bearer
func (a *AuthManager) CheckAuthFromContext(c echo.Context) (*Session, error) {
	if cookie, err := c.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return a.CheckAuth(cookie.Value)
	}
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, ErrUnauthorized
	}
	return a.CheckAuth(strings.TrimSpace(token))
}

// CreateToken создает токен для пользователя
func (a *AuthManager) CreateToken(userID int, role string) (string, error) {
	claims := jwtLoginClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.tokenLifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecretKey)
}

// RequireAdmin возвращает сессию администратора, иначе ErrUnauthorized или ErrForbidden
func RequireAdmin(a Auth, c echo.Context) (*Session, error) {
	session, err := a.CheckAuthFromContext(c)
	if err != nil {
		return nil, err
	}
	if !session.IsAdmin() {
		return nil, ErrForbidden
	}
	return session, nil
}
