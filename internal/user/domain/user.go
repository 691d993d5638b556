package domain

import (
	"context"

	traindomain "github.com/mateusmacedo/go-railbooking/internal/train/domain"
)

// Ticket é uma reserva de assento. Ele embute o trem como estava no momento da
// reserva, não uma referência.
type Ticket struct {
	TicketID     string            `json:"ticket_id"`
	UserID       string            `json:"user_id"`
	Source       string            `json:"source"`
	Destination  string            `json:"destination"`
	DateOfTravel string            `json:"date_of_travel"`
	Train        traindomain.Train `json:"train"`
}

// User representa uma conta com suas reservas. A senha em texto claro nunca é
// persistida, apenas o digest.
type User struct {
	UserID         string   `json:"user_id" gorm:"primaryKey"`
	Name           string   `json:"name"`
	HashedPassword string   `json:"hashed_password"`
	TicketsBooked  []Ticket `json:"tickets_booked" gorm:"serializer:json"`
}

// RemoveTicket retira a primeira reserva com o ticketID informado e indica se
// algo foi removido.
func (u *User) RemoveTicket(ticketID string) bool {
	for i, ticket := range u.TicketsBooked {
		if ticket.TicketID == ticketID {
			u.TicketsBooked = append(u.TicketsBooked[:i], u.TicketsBooked[i+1:]...)
			return true
		}
	}
	return false
}

// UserRepository define a interface para a coleção de usuários.
type UserRepository interface {
	FindAll(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, userID string) (User, error)

	// FindByName localiza um usuário sem diferenciar maiúsculas no nome.
	FindByName(ctx context.Context, name string) (User, error)

	// Save acrescenta um novo usuário à coleção.
	Save(ctx context.Context, user User) error

	// Update substitui o registro de mesmo userID.
	Update(ctx context.Context, user User) error
}
