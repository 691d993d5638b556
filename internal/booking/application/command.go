package application

import (
	pkgDomain "github.com/mateusmacedo/go-railbooking/pkg/domain"
)

// BookSeatData identifica o trem e a posição do assento a reservar.
type BookSeatData struct {
	TrainID string `json:"train_id"`
	Row     int    `json:"row"`
	Col     int    `json:"col"`
}

type bookSeatCommand struct {
	data BookSeatData
}

func (c bookSeatCommand) CommandName() string {
	return "BookSeat"
}

func (c bookSeatCommand) Payload() BookSeatData {
	return c.data
}

// NewBookSeatCommand cria um novo comando de reserva de assento.
func NewBookSeatCommand(data BookSeatData) pkgDomain.Command[BookSeatData] {
	return bookSeatCommand{data: data}
}

// CancelBookingData identifica a reserva a cancelar.
type CancelBookingData struct {
	TicketID string `json:"ticket_id"`
}

type cancelBookingCommand struct {
	data CancelBookingData
}

func (c cancelBookingCommand) CommandName() string {
	return "CancelBooking"
}

func (c cancelBookingCommand) Payload() CancelBookingData {
	return c.data
}

// NewCancelBookingCommand cria um novo comando de cancelamento de reserva.
func NewCancelBookingCommand(data CancelBookingData) pkgDomain.Command[CancelBookingData] {
	return cancelBookingCommand{data: data}
}
