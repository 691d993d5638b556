package infrastructure

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/mateusmacedo/go-railbooking/internal/user/domain"
)

type bcryptPasswordHasher struct {
	cost int
}

// NewBcryptPasswordHasher cria o colaborador de hashing de senhas com bcrypt.
func NewBcryptPasswordHasher() domain.PasswordHasher {
	return &bcryptPasswordHasher{cost: bcrypt.DefaultCost}
}

func (h *bcryptPasswordHasher) Hash(raw string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(raw), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (h *bcryptPasswordHasher) Verify(raw, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(raw)) == nil
}
