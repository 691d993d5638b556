package application

import (
	"context"
	"strings"
	"time"

	"github.com/mateusmacedo/go-railbooking/internal/booking/domain"
	traindomain "github.com/mateusmacedo/go-railbooking/internal/train/domain"
	userdomain "github.com/mateusmacedo/go-railbooking/internal/user/domain"
	pkgApp "github.com/mateusmacedo/go-railbooking/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbooking/pkg/domain"
)

const unknownStation = "N/A"

type bookSeatHandler struct {
	eventBus    pkgApp.EventBus[pkgDomain.Event[string], string]
	trains      traindomain.TrainRepository
	users       userdomain.UserRepository
	session     *userdomain.Session
	idGenerator pkgDomain.IDGenerator[string]
	now         func() time.Time
	logger      pkgApp.AppLogger
}

// Handle reserva um assento: marca a célula na grade, persiste o trem, cria a
// reserva com o snapshot do trem e substitui o registro do usuário. Uma falha
// de persistência após a marcação em memória não é revertida.
func (h *bookSeatHandler) Handle(ctx context.Context, command pkgDomain.Command[BookSeatData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "contexto cancelado", ctx.Err(), nil)
		return ctx.Err()
	}

	current, ok := h.session.Current()
	if !ok {
		h.logger.Info(ctx, "reserva sem usuário autenticado", nil)
		return domain.ErrNoSession
	}

	data := command.Payload()
	train, err := h.trains.FindByID(ctx, data.TrainID)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "trem não encontrado para reserva", err, map[string]interface{}{
			"train_id": data.TrainID,
		})
		return err
	}

	if !train.SeatInBounds(data.Row, data.Col) {
		return domain.ErrInvalidSeat
	}
	if train.Seats[data.Row][data.Col] != traindomain.SeatAvailable {
		h.logger.Info(ctx, "assento já reservado", map[string]interface{}{
			"train_id": train.TrainID,
			"row":      data.Row,
			"col":      data.Col,
		})
		return domain.ErrSeatTaken
	}

	train.Seats[data.Row][data.Col] = traindomain.SeatBooked
	if err := h.trains.UpdateSeats(ctx, train); err != nil {
		pkgApp.LogError(ctx, h.logger, "erro ao persistir assentos", err, map[string]interface{}{
			"train_id": train.TrainID,
		})
		return err
	}

	// origem e destino vêm da ordem das chaves de station_times, não da
	// lista stations usada na busca
	source := unknownStation
	if station, ok := train.StationTimes.First(); ok {
		source = station
	}
	destination := unknownStation
	if station, ok := train.StationTimes.Last(); ok {
		destination = station
	}

	ticket := userdomain.Ticket{
		TicketID:     h.idGenerator(),
		UserID:       current.UserID,
		Source:       source,
		Destination:  destination,
		DateOfTravel: h.now().Format(time.RFC3339),
		Train:        train,
	}

	current.TicketsBooked = append(current.TicketsBooked, ticket)
	if err := h.users.Update(ctx, current); err != nil {
		pkgApp.LogError(ctx, h.logger, "erro ao persistir usuário após reserva", err, map[string]interface{}{
			"user_id": current.UserID,
		})
		return err
	}
	h.session.Set(current)

	event := NewSeatBookedEvent("seat (" + ticket.TicketID + ") booked for " + current.Name)
	if err := h.eventBus.Publish(ctx, event); err != nil {
		pkgApp.LogError(ctx, h.logger, "erro ao publicar evento", err, nil)
		return err
	}

	h.logger.Info(ctx, "assento reservado com sucesso", map[string]interface{}{
		"ticket_id": ticket.TicketID,
		"train_id":  train.TrainID,
		"row":       data.Row,
		"col":       data.Col,
	})
	return nil
}

func NewBookSeatHandler(
	eventBus pkgApp.EventBus[pkgDomain.Event[string], string],
	trains traindomain.TrainRepository,
	users userdomain.UserRepository,
	session *userdomain.Session,
	idGenerator pkgDomain.IDGenerator[string],
	now func() time.Time,
	logger pkgApp.AppLogger,
) pkgApp.CommandHandler[pkgDomain.Command[BookSeatData], BookSeatData] {
	if now == nil {
		now = time.Now
	}
	return &bookSeatHandler{
		eventBus:    eventBus,
		trains:      trains,
		users:       users,
		session:     session,
		idGenerator: idGenerator,
		now:         now,
		logger:      logger,
	}
}

type cancelBookingHandler struct {
	eventBus pkgApp.EventBus[pkgDomain.Event[string], string]
	users    userdomain.UserRepository
	session  *userdomain.Session
	logger   pkgApp.AppLogger
}

// Handle remove a reserva do usuário e persiste a coleção. O assento na grade
// do trem não é liberado: a reserva guarda o snapshot do trem, não a posição.
func (h *cancelBookingHandler) Handle(ctx context.Context, command pkgDomain.Command[CancelBookingData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "contexto cancelado", ctx.Err(), nil)
		return ctx.Err()
	}

	current, ok := h.session.Current()
	if !ok {
		h.logger.Info(ctx, "cancelamento sem usuário autenticado", nil)
		return domain.ErrNoSession
	}

	data := command.Payload()
	if strings.TrimSpace(data.TicketID) == "" {
		return domain.ErrEmptyTicketID
	}

	user, err := h.users.FindByID(ctx, current.UserID)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "usuário da sessão ausente da coleção", err, map[string]interface{}{
			"user_id": current.UserID,
		})
		return err
	}

	if len(user.TicketsBooked) == 0 {
		return domain.ErrNoBookings
	}

	if !user.RemoveTicket(data.TicketID) {
		h.logger.Info(ctx, "reserva não encontrada", map[string]interface{}{
			"ticket_id": data.TicketID,
			"user_id":   user.UserID,
		})
		return domain.ErrTicketNotFound
	}

	if err := h.users.Update(ctx, user); err != nil {
		pkgApp.LogError(ctx, h.logger, "erro ao persistir usuário após cancelamento", err, map[string]interface{}{
			"user_id": user.UserID,
		})
		return err
	}
	h.session.Set(user)

	h.logger.Debug(ctx, "assento não liberado na grade do trem", map[string]interface{}{
		"ticket_id": data.TicketID,
	})

	event := NewBookingCancelledEvent("booking " + data.TicketID + " cancelled")
	if err := h.eventBus.Publish(ctx, event); err != nil {
		pkgApp.LogError(ctx, h.logger, "erro ao publicar evento", err, nil)
		return err
	}

	h.logger.Info(ctx, "reserva cancelada com sucesso", map[string]interface{}{
		"ticket_id": data.TicketID,
	})
	return nil
}

func NewCancelBookingHandler(
	eventBus pkgApp.EventBus[pkgDomain.Event[string], string],
	users userdomain.UserRepository,
	session *userdomain.Session,
	logger pkgApp.AppLogger,
) pkgApp.CommandHandler[pkgDomain.Command[CancelBookingData], CancelBookingData] {
	return &cancelBookingHandler{
		eventBus: eventBus,
		users:    users,
		session:  session,
		logger:   logger,
	}
}

type listBookingsHandler struct {
	users   userdomain.UserRepository
	session *userdomain.Session
	logger  pkgApp.AppLogger
}

// Handle relê as reservas do usuário da sessão a partir da coleção.
func (h *listBookingsHandler) Handle(ctx context.Context, query pkgDomain.Query[ListBookingsData]) ([]userdomain.Ticket, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "contexto cancelado", ctx.Err(), nil)
		return nil, ctx.Err()
	}

	current, ok := h.session.Current()
	if !ok {
		return nil, domain.ErrNoSession
	}

	user, err := h.users.FindByID(ctx, current.UserID)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "usuário da sessão ausente da coleção", err, map[string]interface{}{
			"user_id": current.UserID,
		})
		return nil, err
	}

	if user.TicketsBooked == nil {
		return []userdomain.Ticket{}, nil
	}
	return user.TicketsBooked, nil
}

func NewListBookingsHandler(
	users userdomain.UserRepository,
	session *userdomain.Session,
	logger pkgApp.AppLogger,
) pkgApp.QueryHandler[pkgDomain.Query[ListBookingsData], ListBookingsData, []userdomain.Ticket] {
	return &listBookingsHandler{
		users:   users,
		session: session,
		logger:  logger,
	}
}
