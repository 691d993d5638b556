package application

import (
	"context"
	"errors"
	"strings"

	"github.com/mateusmacedo/go-railbooking/internal/train/domain"
	pkgApp "github.com/mateusmacedo/go-railbooking/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbooking/pkg/domain"
)

type saveTrainHandler struct {
	eventBus   pkgApp.EventBus[pkgDomain.Event[string], string]
	repository domain.TrainRepository
	logger     pkgApp.AppLogger
}

func (h *saveTrainHandler) Handle(ctx context.Context, command pkgDomain.Command[SaveTrainData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "contexto cancelado", ctx.Err(), nil)
		return ctx.Err()
	}

	data := command.Payload()
	if strings.TrimSpace(data.TrainID) == "" {
		return errors.New("train id cannot be empty")
	}

	train := domain.Train{
		TrainID:      data.TrainID,
		TrainNo:      data.TrainNo,
		Seats:        data.Seats,
		StationTimes: data.StationTimes,
		Stations:     data.Stations,
	}

	if err := h.repository.Save(ctx, train); err != nil {
		pkgApp.LogError(ctx, h.logger, "erro ao salvar trem", err, map[string]interface{}{"train_id": train.TrainID})
		return err
	}

	event := NewTrainSavedEvent("train " + train.TrainID + " saved")
	if err := h.eventBus.Publish(ctx, event); err != nil {
		pkgApp.LogError(ctx, h.logger, "erro ao publicar evento", err, nil)
		return err
	}

	h.logger.Info(ctx, "trem salvo com sucesso", map[string]interface{}{"train_id": train.TrainID})
	return nil
}

func NewSaveTrainHandler(eventBus pkgApp.EventBus[pkgDomain.Event[string], string], repo domain.TrainRepository, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[SaveTrainData], SaveTrainData] {
	return &saveTrainHandler{
		eventBus:   eventBus,
		repository: repo,
		logger:     logger,
	}
}

type searchTrainsHandler struct {
	repository domain.TrainRepository
	logger     pkgApp.AppLogger
}

func (h *searchTrainsHandler) Handle(ctx context.Context, query pkgDomain.Query[SearchTrainsData]) ([]domain.Train, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "contexto cancelado", ctx.Err(), nil)
		return nil, ctx.Err()
	}

	data := query.Payload()
	if strings.TrimSpace(data.Source) == "" || strings.TrimSpace(data.Destination) == "" {
		return nil, errors.New("source and destination cannot be empty")
	}

	trains, err := h.repository.SearchRoutes(ctx, data.Source, data.Destination)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "erro ao buscar trens", err, map[string]interface{}{
			"source":      data.Source,
			"destination": data.Destination,
		})
		return nil, err
	}

	pkgApp.LogInfo(ctx, h.logger, "busca de rota concluída", map[string]interface{}{
		"source":      data.Source,
		"destination": data.Destination,
		"matches":     len(trains),
	})
	return trains, nil
}

func NewSearchTrainsHandler(repo domain.TrainRepository, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[SearchTrainsData], SearchTrainsData, []domain.Train] {
	return &searchTrainsHandler{
		repository: repo,
		logger:     logger,
	}
}

type fetchSeatsHandler struct {
	repository domain.TrainRepository
	logger     pkgApp.AppLogger
}

// Handle devolve a grade e a contagem de assentos livres. Um trem desconhecido
// resulta em um mapa vazio com zero assentos, nunca em erro.
func (h *fetchSeatsHandler) Handle(ctx context.Context, query pkgDomain.Query[FetchSeatsData]) (SeatMap, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "contexto cancelado", ctx.Err(), nil)
		return SeatMap{}, ctx.Err()
	}

	data := query.Payload()
	train, err := h.repository.FindByID(ctx, data.TrainID)
	if err != nil {
		pkgApp.LogInfo(ctx, h.logger, "trem não encontrado para consulta de assentos", map[string]interface{}{
			"train_id": data.TrainID,
		})
		return SeatMap{TrainID: data.TrainID, Seats: [][]int{}, Available: 0}, nil
	}

	return SeatMap{
		TrainID:   train.TrainID,
		Seats:     train.Seats,
		Available: train.AvailableSeats(),
	}, nil
}

func NewFetchSeatsHandler(repo domain.TrainRepository, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[FetchSeatsData], FetchSeatsData, SeatMap] {
	return &fetchSeatsHandler{
		repository: repo,
		logger:     logger,
	}
}
