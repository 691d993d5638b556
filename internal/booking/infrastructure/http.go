package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-railbooking/internal/booking/application"
	"github.com/mateusmacedo/go-railbooking/internal/booking/domain"
	traindomain "github.com/mateusmacedo/go-railbooking/internal/train/domain"
	userdomain "github.com/mateusmacedo/go-railbooking/internal/user/domain"
	pkgApp "github.com/mateusmacedo/go-railbooking/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbooking/pkg/domain"
)

type BookingHTTPHandler struct {
	bookCommandBus   pkgApp.CommandBus[pkgDomain.Command[application.BookSeatData], application.BookSeatData]
	cancelCommandBus pkgApp.CommandBus[pkgDomain.Command[application.CancelBookingData], application.CancelBookingData]
	listQueryBus     pkgApp.QueryBus[pkgDomain.Query[application.ListBookingsData], application.ListBookingsData, []userdomain.Ticket]
}

func NewBookingHTTPHandler(
	bookCommandBus pkgApp.CommandBus[pkgDomain.Command[application.BookSeatData], application.BookSeatData],
	cancelCommandBus pkgApp.CommandBus[pkgDomain.Command[application.CancelBookingData], application.CancelBookingData],
	listQueryBus pkgApp.QueryBus[pkgDomain.Query[application.ListBookingsData], application.ListBookingsData, []userdomain.Ticket],
) *BookingHTTPHandler {
	return &BookingHTTPHandler{
		bookCommandBus:   bookCommandBus,
		cancelCommandBus: cancelCommandBus,
		listQueryBus:     listQueryBus,
	}
}

func (h *BookingHTTPHandler) HandleBookSeat(w http.ResponseWriter, r *http.Request) {
	var data application.BookSeatData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		handleError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	command := application.NewBookSeatCommand(data)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.bookCommandBus.Dispatch(ctx, command); err != nil {
		handleError(w, err.Error(), statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"message": "Seat booked", "data": data}); err != nil {
		handleError(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *BookingHTTPHandler) HandleCancelBooking(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketID")

	command := application.NewCancelBookingCommand(application.CancelBookingData{TicketID: ticketID})

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.cancelCommandBus.Dispatch(ctx, command); err != nil {
		handleError(w, err.Error(), statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"message": "Booking cancelled", "ticket_id": ticketID}); err != nil {
		handleError(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *BookingHTTPHandler) HandleListBookings(w http.ResponseWriter, r *http.Request) {
	query := application.NewListBookingsQuery(application.ListBookingsData{})

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tickets, err := h.listQueryBus.Dispatch(ctx, query)
	if err != nil {
		handleError(w, err.Error(), statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(tickets); err != nil {
		handleError(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *BookingHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Post("/bookings", h.HandleBookSeat)
	router.Get("/bookings", h.HandleListBookings)
	router.Delete("/bookings/{ticketID}", h.HandleCancelBooking)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidSeat), errors.Is(err, domain.ErrEmptyTicketID):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSeatTaken):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTicketNotFound),
		errors.Is(err, domain.ErrNoBookings),
		errors.Is(err, traindomain.ErrTrainNotFound),
		errors.Is(err, userdomain.ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func handleError(w http.ResponseWriter, message string, statusCode int) {
	http.Error(w, message, statusCode)
}
