package middlewares

import (
	"context"
	"fmt"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

// Authentication validates the bearer token and puts the authenticated
// person id on the request context for the controllers.
func (m *Middlewares) Authentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get(constvars.HeaderAuthorization)
		if authHeader == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		personID, err := m.parseToken(tokenString)
		if err != nil {
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_PERSON_ID_KEY, personID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middlewares) parseToken(tokenString string) (string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf(constvars.ErrDevAuthSigningMethod)
		}
		return []byte(m.InternalConfig.JWT.Secret), nil
	})
	if err != nil || !token.Valid {
		return "", exceptions.ErrTokenInvalidOrExpired(err)
	}

	personID, ok := claims["sub"].(string)
	if !ok || personID == "" {
		return "", exceptions.ErrTokenInvalidOrExpired(nil)
	}
	return personID, nil
}
