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

	"github.com/mateusmacedo/go-railbooking/internal/train/domain"
	pkgApp "github.com/mateusmacedo/go-railbooking/pkg/application"
)

// SnapshotTrainRepository mantém a coleção de trens em memória e a regrava por
// inteiro no arquivo JSON a cada mutação. A ordem da coleção é a ordem do
// arquivo.
type SnapshotTrainRepository struct {
	mu     sync.RWMutex
	path   string
	trains []domain.Train
	logger pkgApp.AppLogger
}

// NewSnapshotTrainRepository carrega a coleção do arquivo, ou cria um arquivo
// com a coleção vazia quando ele ainda não existe.
func NewSnapshotTrainRepository(path string, logger pkgApp.AppLogger) (*SnapshotTrainRepository, error) {
	repo := &SnapshotTrainRepository{
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
		logger.Info(context.Background(), "train snapshot not found, creating an empty one", map[string]interface{}{
			"path": path,
		})
		repo.trains = []domain.Train{}
		if err := repo.persist(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("reading train snapshot: %w", err)
	default:
		if err := json.Unmarshal(data, &repo.trains); err != nil {
			return nil, fmt.Errorf("decoding train snapshot: %w", err)
		}
	}

	return repo, nil
}

func (r *SnapshotTrainRepository) FindAll(ctx context.Context) ([]domain.Train, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trains := make([]domain.Train, len(r.trains))
	copy(trains, r.trains)
	return trains, nil
}

func (r *SnapshotTrainRepository) FindByID(ctx context.Context, trainID string) (domain.Train, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, train := range r.trains {
		if strings.EqualFold(train.TrainID, trainID) {
			return train, nil
		}
	}
	return domain.Train{}, domain.ErrTrainNotFound
}

func (r *SnapshotTrainRepository) SearchRoutes(ctx context.Context, source, destination string) ([]domain.Train, error) {
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

func (r *SnapshotTrainRepository) Save(ctx context.Context, train domain.Train) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if idx := r.indexOf(train.TrainID); idx >= 0 {
		r.trains[idx] = train
		pkgApp.LogInfo(ctx, r.logger, "train updated", map[string]interface{}{"train_id": train.TrainID})
	} else {
		r.trains = append(r.trains, train)
		pkgApp.LogInfo(ctx, r.logger, "train added", map[string]interface{}{"train_id": train.TrainID})
	}

	if err := r.persist(); err != nil {
		pkgApp.LogError(ctx, r.logger, "error saving train snapshot", err, map[string]interface{}{
			"path": r.path,
		})
		return err
	}
	return nil
}

func (r *SnapshotTrainRepository) UpdateSeats(ctx context.Context, train domain.Train) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(train.TrainID)
	if idx < 0 {
		r.logger.Error(ctx, "warning: seat update for a train not in the collection", map[string]interface{}{
			"train_id": train.TrainID,
		})
		return nil
	}

	r.trains[idx] = train
	if err := r.persist(); err != nil {
		pkgApp.LogError(ctx, r.logger, "error saving train snapshot", err, map[string]interface{}{
			"path": r.path,
		})
		return err
	}

	pkgApp.LogInfo(ctx, r.logger, "seats updated", map[string]interface{}{"train_id": train.TrainID})
	return nil
}

// indexOf exige r.mu.
func (r *SnapshotTrainRepository) indexOf(trainID string) int {
	for i, train := range r.trains {
		if strings.EqualFold(train.TrainID, trainID) {
			return i
		}
	}
	return -1
}

// persist exige r.mu.
func (r *SnapshotTrainRepository) persist() error {
	data, err := json.MarshalIndent(r.trains, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding train snapshot: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("writing train snapshot: %w", err)
	}
	return nil
}
