package booking

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-railbooking/internal/booking/application"
	"github.com/mateusmacedo/go-railbooking/internal/booking/infrastructure"
	traindomain "github.com/mateusmacedo/go-railbooking/internal/train/domain"
	userdomain "github.com/mateusmacedo/go-railbooking/internal/user/domain"
	pkgApp "github.com/mateusmacedo/go-railbooking/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbooking/pkg/domain"
)

type BookingSlice struct {
	httpHandler *infrastructure.BookingHTTPHandler
}

func NewBookingSlice(
	bookCommandBus pkgApp.CommandBus[pkgDomain.Command[application.BookSeatData], application.BookSeatData],
	cancelCommandBus pkgApp.CommandBus[pkgDomain.Command[application.CancelBookingData], application.CancelBookingData],
	listQueryBus pkgApp.QueryBus[pkgDomain.Query[application.ListBookingsData], application.ListBookingsData, []userdomain.Ticket],
	idGenerator pkgDomain.IDGenerator[string],
	session *userdomain.Session,
	logger pkgApp.AppLogger,
	eventBus pkgApp.EventBus[pkgDomain.Event[string], string],
	trains traindomain.TrainRepository,
	users userdomain.UserRepository,
) *BookingSlice {
	bookHandler := application.NewBookSeatHandler(eventBus, trains, users, session, idGenerator, time.Now, logger)
	cancelHandler := application.NewCancelBookingHandler(eventBus, users, session, logger)
	listHandler := application.NewListBookingsHandler(users, session, logger)

	bookCommandBus.RegisterHandler("BookSeat", bookHandler)
	cancelCommandBus.RegisterHandler("CancelBooking", cancelHandler)
	listQueryBus.RegisterHandler("ListBookings", listHandler)

	httpHandler := infrastructure.NewBookingHTTPHandler(bookCommandBus, cancelCommandBus, listQueryBus)

	return &BookingSlice{
		httpHandler: httpHandler,
	}
}

func (s *BookingSlice) RegisterRoutes(router *chi.Mux) {
	s.httpHandler.RegisterRoutes(router)
}
