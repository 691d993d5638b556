package train

import (
	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-railbooking/internal/train/application"
	"github.com/mateusmacedo/go-railbooking/internal/train/domain"
	"github.com/mateusmacedo/go-railbooking/internal/train/infrastructure"
	pkgApp "github.com/mateusmacedo/go-railbooking/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbooking/pkg/domain"
)

type TrainSlice struct {
	httpHandler *infrastructure.TrainHTTPHandler
}

func NewTrainSlice(
	commandBus pkgApp.CommandBus[pkgDomain.Command[application.SaveTrainData], application.SaveTrainData],
	searchQueryBus pkgApp.QueryBus[pkgDomain.Query[application.SearchTrainsData], application.SearchTrainsData, []domain.Train],
	seatsQueryBus pkgApp.QueryBus[pkgDomain.Query[application.FetchSeatsData], application.FetchSeatsData, application.SeatMap],
	logger pkgApp.AppLogger,
	eventBus pkgApp.EventBus[pkgDomain.Event[string], string],
	repository domain.TrainRepository,
) *TrainSlice {
	saveHandler := application.NewSaveTrainHandler(eventBus, repository, logger)
	searchHandler := application.NewSearchTrainsHandler(repository, logger)
	seatsHandler := application.NewFetchSeatsHandler(repository, logger)

	commandBus.RegisterHandler("SaveTrain", saveHandler)
	searchQueryBus.RegisterHandler("SearchTrains", searchHandler)
	seatsQueryBus.RegisterHandler("FetchSeats", seatsHandler)

	httpHandler := infrastructure.NewTrainHTTPHandler(commandBus, searchQueryBus, seatsQueryBus)

	return &TrainSlice{
		httpHandler: httpHandler,
	}
}

func (s *TrainSlice) RegisterRoutes(router *chi.Mux) {
	s.httpHandler.RegisterRoutes(router)
}
