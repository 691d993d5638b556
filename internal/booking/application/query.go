package application

import (
	pkgDomain "github.com/mateusmacedo/go-railbooking/pkg/domain"
)

// ListBookingsData consulta as reservas do usuário da sessão.
type ListBookingsData struct{}

type listBookingsQuery struct {
	data ListBookingsData
}

func (q listBookingsQuery) QueryName() string {
	return "ListBookings"
}

func (q listBookingsQuery) Payload() ListBookingsData {
	return q.data
}

func NewListBookingsQuery(data ListBookingsData) pkgDomain.Query[ListBookingsData] {
	return listBookingsQuery{data: data}
}
