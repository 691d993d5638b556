package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-railbooking/internal/train/application"
	"github.com/mateusmacedo/go-railbooking/internal/train/domain"
	pkgApp "github.com/mateusmacedo/go-railbooking/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbooking/pkg/domain"
)

type TrainHTTPHandler struct {
	commandBus     pkgApp.CommandBus[pkgDomain.Command[application.SaveTrainData], application.SaveTrainData]
	searchQueryBus pkgApp.QueryBus[pkgDomain.Query[application.SearchTrainsData], application.SearchTrainsData, []domain.Train]
	seatsQueryBus  pkgApp.QueryBus[pkgDomain.Query[application.FetchSeatsData], application.FetchSeatsData, application.SeatMap]
}

func NewTrainHTTPHandler(
	commandBus pkgApp.CommandBus[pkgDomain.Command[application.SaveTrainData], application.SaveTrainData],
	searchQueryBus pkgApp.QueryBus[pkgDomain.Query[application.SearchTrainsData], application.SearchTrainsData, []domain.Train],
	seatsQueryBus pkgApp.QueryBus[pkgDomain.Query[application.FetchSeatsData], application.FetchSeatsData, application.SeatMap],
) *TrainHTTPHandler {
	return &TrainHTTPHandler{
		commandBus:     commandBus,
		searchQueryBus: searchQueryBus,
		seatsQueryBus:  seatsQueryBus,
	}
}

func (h *TrainHTTPHandler) HandleSaveTrain(w http.ResponseWriter, r *http.Request) {
	var data application.SaveTrainData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		handleError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	command := application.NewSaveTrainCommand(data)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.commandBus.Dispatch(ctx, command); err != nil {
		handleError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"message": "Train saved", "train_id": data.TrainID}); err != nil {
		handleError(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *TrainHTTPHandler) HandleSearchTrains(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	destination := r.URL.Query().Get("destination")
	if source == "" || destination == "" {
		handleError(w, "source and destination are required", http.StatusBadRequest)
		return
	}

	query := application.NewSearchTrainsQuery(application.SearchTrainsData{
		Source:      source,
		Destination: destination,
	})

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	trains, err := h.searchQueryBus.Dispatch(ctx, query)
	if err != nil {
		handleError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(trains); err != nil {
		handleError(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *TrainHTTPHandler) HandleFetchSeats(w http.ResponseWriter, r *http.Request) {
	trainID := chi.URLParam(r, "trainID")

	query := application.NewFetchSeatsQuery(application.FetchSeatsData{TrainID: trainID})

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	seatMap, err := h.seatsQueryBus.Dispatch(ctx, query)
	if err != nil {
		handleError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(seatMap); err != nil {
		handleError(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *TrainHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Post("/trains", h.HandleSaveTrain)
	router.Get("/trains", h.HandleSearchTrains)
	router.Get("/trains/{trainID}/seats", h.HandleFetchSeats)
}

func handleError(w http.ResponseWriter, message string, statusCode int) {
	http.Error(w, message, statusCode)
}
