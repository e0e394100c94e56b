package usecase

import (
	"marketplace-checkout/internal/domain/identity"
	"marketplace-checkout/internal/pkg/jwt"
)

//go:generate mockgen -source=$GOFILE -destination=../../tests/mock/usecase/mock_token_validator.go -package=usecasemock

// TokenValidator turns a bearer token into the acting user.
type TokenValidator interface {
	ValidateToken(tokenString string) (identity.Actor, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (identity.Actor, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return identity.Actor{}, err
	}

	role, err := identity.NewRole(claims.Role)
	if err != nil {
		return identity.Actor{}, err
	}

	return identity.Actor{UserID: claims.UserID, Role: role}, nil
}
