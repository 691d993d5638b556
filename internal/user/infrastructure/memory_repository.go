package infrastructure

import (
	"context"
	"strings"
	"sync"

	"github.com/mateusmacedo/go-railbooking/internal/user/domain"
	pkgApp "github.com/mateusmacedo/go-railbooking/pkg/application"
)

// InMemoryUserRepository guarda a coleção apenas em memória, com a mesma
// semântica do repositório com snapshot.
type InMemoryUserRepository struct {
	mu     sync.RWMutex
	users  []domain.User
	logger pkgApp.AppLogger
}

func NewInMemoryUserRepository(logger pkgApp.AppLogger) *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users:  []domain.User{},
		logger: logger,
	}
}

func (r *InMemoryUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, len(r.users))
	copy(users, r.users)
	return users, nil
}

func (r *InMemoryUserRepository) FindByID(ctx context.Context, userID string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.UserID == userID {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) FindByName(ctx context.Context, name string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if strings.EqualFold(user.Name, name) {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) Save(ctx context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users = append(r.users, user)
	return nil
}

func (r *InMemoryUserRepository) Update(ctx context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.users {
		if existing.UserID == user.UserID {
			r.users[i] = user
			return nil
		}
	}

	r.logger.Error(ctx, "user not found for update", map[string]interface{}{"user_id": user.UserID})
	return domain.ErrUserNotFound
}
