package usecase

import (
	"regexp"

	"github.com/google/uuid"
)

// MaxCustomerIDLength bounds client-supplied identifiers.
const MaxCustomerIDLength = 128

var customerIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// IdentityResolver maps an optional client token (the cid cookie) to a
// customer id. It never touches storage.
type IdentityResolver interface {
	Resolve(clientToken string) (customerID string, isNew bool)
}

type identityResolverImpl struct {
	newID func() string
}

func NewIdentityResolver() IdentityResolver {
	return &identityResolverImpl{newID: uuid.NewString}
}

// NewIdentityResolverWithGenerator is used by tests that need stable ids.
func NewIdentityResolverWithGenerator(newID func() string) IdentityResolver {
	return &identityResolverImpl{newID: newID}
}

func (r *identityResolverImpl) Resolve(clientToken string) (string, bool) {
	if ValidCustomerID(clientToken) {
		return clientToken, false
	}
	return r.newID(), true
}

// ValidCustomerID reports whether id is acceptable as a customer key.
func ValidCustomerID(id string) bool {
	return len(id) > 0 && len(id) <= MaxCustomerIDLength && customerIDPattern.MatchString(id)
}
