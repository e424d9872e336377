package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/minsu-dev/eduops/internal/model"
)

// Parser validates HS256 access tokens and extracts the Principal.
type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

func (p *Parser) Parse(tokenString string) (model.Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return model.Principal{}, err
	}
	if !token.Valid {
		return model.Principal{}, fmt.Errorf("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return model.Principal{}, fmt.Errorf("unexpected claims type")
	}

	rawUserID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return model.Principal{}, fmt.Errorf("invalid user_id claim")
	}

	rawRole, _ := claims["role"].(string)
	role := model.Role(rawRole)
	switch role {
	case model.RoleAdmin, model.RoleStaff, model.RoleInstructor:
	default:
		return model.Principal{}, fmt.Errorf("invalid role claim %q", rawRole)
	}

	return model.Principal{UserID: userID, Role: role}, nil
}
