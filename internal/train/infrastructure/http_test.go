package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-railbooking/internal/train/application"
	"github.com/mateusmacedo/go-railbooking/internal/train/domain"
	pkgDomain "github.com/mateusmacedo/go-railbooking/pkg/domain"
	pkginfra "github.com/mateusmacedo/go-railbooking/pkg/infrastructure"
)

func newTrainServer(t *testing.T) (*chi.Mux, *InMemoryTrainRepository) {
	t.Helper()

	repo := NewInMemoryTrainRepository(nopLogger{})
	eventBus := pkginfra.NewSimpleEventBus[pkgDomain.Event[string], string](nopLogger{})

	commandBus := pkginfra.NewSimpleCommandBus[pkgDomain.Command[application.SaveTrainData], application.SaveTrainData](nopLogger{})
	commandBus.RegisterHandler("SaveTrain", application.NewSaveTrainHandler(eventBus, repo, nopLogger{}))

	searchBus := pkginfra.NewSimpleQueryBus[pkgDomain.Query[application.SearchTrainsData], application.SearchTrainsData, []domain.Train](nopLogger{})
	searchBus.RegisterHandler("SearchTrains", application.NewSearchTrainsHandler(repo, nopLogger{}))

	seatsBus := pkginfra.NewSimpleQueryBus[pkgDomain.Query[application.FetchSeatsData], application.FetchSeatsData, application.SeatMap](nopLogger{})
	seatsBus.RegisterHandler("FetchSeats", application.NewFetchSeatsHandler(repo, nopLogger{}))

	router := chi.NewRouter()
	NewTrainHTTPHandler(commandBus, searchBus, seatsBus).RegisterRoutes(router)
	return router, repo
}

const trainPayload = `{
	"train_id": "T1",
	"train_no": "1001",
	"seats": [[0, 1], [0, 0]],
	"station_times": {"lisboa": "08:00:00", "porto": "11:30:00"},
	"stations": ["lisboa", "porto"]
}`

func TestTrainHTTPHandler(t *testing.T) {
	t.Run("Saving a train persists it", func(t *testing.T) {
		router, repo := newTrainServer(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/trains", strings.NewReader(trainPayload)))
		require.Equal(t, http.StatusCreated, rec.Code)

		train, err := repo.FindByID(context.Background(), "T1")
		require.NoError(t, err)
		assert.Equal(t, "1001", train.TrainNo)
		require.Len(t, train.StationTimes, 2)
		assert.Equal(t, "lisboa", train.StationTimes[0].Station)
	})

	t.Run("Route search returns matching trains", func(t *testing.T) {
		router, _ := newTrainServer(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/trains", strings.NewReader(trainPayload)))
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trains?source=LISBOA&destination=porto", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var trains []domain.Train
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trains))
		require.Len(t, trains, 1)
		assert.Equal(t, "T1", trains[0].TrainID)
	})

	t.Run("Route search without both stations is a bad request", func(t *testing.T) {
		router, _ := newTrainServer(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trains?source=lisboa", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Seat map reports the free seat count", func(t *testing.T) {
		router, _ := newTrainServer(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/trains", strings.NewReader(trainPayload)))
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trains/T1/seats", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var seatMap application.SeatMap
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &seatMap))
		assert.Equal(t, "T1", seatMap.TrainID)
		assert.Equal(t, 3, seatMap.Available)
	})

	t.Run("Seat map of an unknown train is empty, not an error", func(t *testing.T) {
		router, _ := newTrainServer(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trains/ghost/seats", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var seatMap application.SeatMap
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &seatMap))
		assert.Equal(t, "ghost", seatMap.TrainID)
		assert.Empty(t, seatMap.Seats)
		assert.Zero(t, seatMap.Available)
	})
}
