package infrastructure

import (
	"context"
	"strings"
	"sync"

	"github.com/mateusmacedo/go-railbooking/internal/train/domain"
	pkgApp "github.com/mateusmacedo/go-railbooking/pkg/application"
)

// InMemoryTrainRepository guarda a coleção apenas em memória, na mesma ordem e
// com a mesma semântica de substituição do repositório com snapshot.
type InMemoryTrainRepository struct {
	mu     sync.RWMutex
	trains []domain.Train
	logger pkgApp.AppLogger
}

func NewInMemoryTrainRepository(logger pkgApp.AppLogger) *InMemoryTrainRepository {
	return &InMemoryTrainRepository{
		trains: []domain.Train{},
		logger: logger,
	}
}

func (r *InMemoryTrainRepository) FindAll(ctx context.Context) ([]domain.Train, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trains := make([]domain.Train, len(r.trains))
	copy(trains, r.trains)
	return trains, nil
}

func (r *InMemoryTrainRepository) FindByID(ctx context.Context, trainID string) (domain.Train, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, train := range r.trains {
		if strings.EqualFold(train.TrainID, trainID) {
			return train, nil
		}
	}
	return domain.Train{}, domain.ErrTrainNotFound
}

func (r *InMemoryTrainRepository) SearchRoutes(ctx context.Context, source, destination string) ([]domain.Train, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := []domain.Train{}
	for _, train := range r.trains {
		if train.HasRoute(source, destination) {
			matches = append(matches, train)
		}
	}
	return matches, nil
}

func (r *InMemoryTrainRepository) Save(ctx context.Context, train domain.Train) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.trains {
		if strings.EqualFold(existing.TrainID, train.TrainID) {
			r.trains[i] = train
			return nil
		}
	}
	r.trains = append(r.trains, train)
	return nil
}

func (r *InMemoryTrainRepository) UpdateSeats(ctx context.Context, train domain.Train) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.trains {
		if strings.EqualFold(existing.TrainID, train.TrainID) {
			r.trains[i] = train
			return nil
		}
	}

	r.logger.Error(ctx, "warning: seat update for a train not in the collection", map[string]interface{}{
		"train_id": train.TrainID,
	})
	return nil
}
