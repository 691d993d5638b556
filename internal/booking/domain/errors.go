package domain

import "errors"

var (
	// ErrNoSession indica que nenhum usuário está autenticado no processo.
	ErrNoSession = errors.New("no user logged in")

	// ErrInvalidSeat indica linha ou coluna fora da grade de assentos.
	ErrInvalidSeat = errors.New("invalid row or column index")

	// ErrSeatTaken indica que a célula alvo já está reservada.
	ErrSeatTaken = errors.New("seat is already booked")

	// ErrEmptyTicketID indica um cancelamento sem identificador.
	ErrEmptyTicketID = errors.New("ticket id cannot be empty")

	// ErrNoBookings indica que o usuário não tem reservas para cancelar.
	ErrNoBookings = errors.New("no bookings to cancel")

	// ErrTicketNotFound indica que nenhuma reserva do usuário tem o id.
	ErrTicketNotFound = errors.New("ticket not found")
)
