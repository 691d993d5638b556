package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mateusmacedo/go-railbooking/internal/user/domain"
	pkgApp "github.com/mateusmacedo/go-railbooking/pkg/application"
)

// SnapshotUserRepository mantém a coleção de usuários em memória e a regrava
// por inteiro no arquivo JSON a cada mutação.
type SnapshotUserRepository struct {
	mu     sync.RWMutex
	path   string
	users  []domain.User
	logger pkgApp.AppLogger
}

// NewSnapshotUserRepository carrega a coleção do arquivo, ou cria um arquivo
// com a coleção vazia quando ele ainda não existe.
func NewSnapshotUserRepository(path string, logger pkgApp.AppLogger) (*SnapshotUserRepository, error) {
	repo := &SnapshotUserRepository{
		path:   path,
		logger: logger,
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating snapshot directory: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Info(context.Background(), "user snapshot not found, creating an empty one", map[string]interface{}{
			"path": path,
		})
		repo.users = []domain.User{}
		if err := repo.persist(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("reading user snapshot: %w", err)
	default:
		if err := json.Unmarshal(data, &repo.users); err != nil {
			return nil, fmt.Errorf("decoding user snapshot: %w", err)
		}
	}

	return repo, nil
}

func (r *SnapshotUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, len(r.users))
	copy(users, r.users)
	return users, nil
}

func (r *SnapshotUserRepository) FindByID(ctx context.Context, userID string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.UserID == userID {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (r *SnapshotUserRepository) FindByName(ctx context.Context, name string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if strings.EqualFold(user.Name, name) {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (r *SnapshotUserRepository) Save(ctx context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users = append(r.users, user)
	if err := r.persist(); err != nil {
		pkgApp.LogError(ctx, r.logger, "error saving user snapshot", err, map[string]interface{}{
			"path": r.path,
		})
		return err
	}

	pkgApp.LogInfo(ctx, r.logger, "user saved", map[string]interface{}{"user_id": user.UserID})
	return nil
}

func (r *SnapshotUserRepository) Update(ctx context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, existing := range r.users {
		if existing.UserID == user.UserID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.ErrUserNotFound
	}

	r.users[idx] = user
	if err := r.persist(); err != nil {
		pkgApp.LogError(ctx, r.logger, "error saving user snapshot", err, map[string]interface{}{
			"path": r.path,
		})
		return err
	}

	pkgApp.LogInfo(ctx, r.logger, "user updated", map[string]interface{}{"user_id": user.UserID})
	return nil
}

// persist exige r.mu.
func (r *SnapshotUserRepository) persist() error {
	data, err := json.MarshalIndent(r.users, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding user snapshot: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("writing user snapshot: %w", err)
	}
	return nil
}
