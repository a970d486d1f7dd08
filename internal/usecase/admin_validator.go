package usecase

import (
	"crypto/subtle"

	"coffee-loyalty/internal/pkg/errs"
	"coffee-loyalty/internal/pkg/jwt"
)

// AdminValidator provides admin capability checks for middleware
type AdminValidator interface {
	ValidateKey(key string) bool
	ValidateSession(token string) error
}

type adminValidatorImpl struct {
	key        []byte
	storeID    string
	jwtService *jwt.Service
}

func NewAdminValidator(key, storeID string, jwtService *jwt.Service) AdminValidator {
	return &adminValidatorImpl{
		key:        []byte(key),
		storeID:    storeID,
		jwtService: jwtService,
	}
}

func (v *adminValidatorImpl) ValidateKey(key string) bool {
	if key == "" || len(v.key) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), v.key) == 1
}

func (v *adminValidatorImpl) ValidateSession(token string) error {
	claims, err := v.jwtService.ValidateToken(token)
	if err != nil {
		return errs.Wrap(errs.ErrForbidden, err.Error())
	}
	if claims.StoreID != v.storeID {
		return errs.Wrap(errs.ErrForbidden, "session issued for another store")
	}
	return nil
}
