package application

import (
	"github.com/mateusmacedo/go-railbooking/pkg/domain"
)

type seatBookedEvent struct {
	data string
}

func (e seatBookedEvent) EventName() string {
	return "SeatBooked"
}

func (e seatBookedEvent) Payload() string {
	return e.data
}

// NewSeatBookedEvent cria um evento de assento reservado.
func NewSeatBookedEvent(data string) domain.Event[string] {
	return seatBookedEvent{data: data}
}

type bookingCancelledEvent struct {
	data string
}

func (e bookingCancelledEvent) EventName() string {
	return "BookingCancelled"
}

func (e bookingCancelledEvent) Payload() string {
	return e.data
}

// NewBookingCancelledEvent cria um evento de reserva cancelada.
func NewBookingCancelledEvent(data string) domain.Event[string] {
	return bookingCancelledEvent{data: data}
}
