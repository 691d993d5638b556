package application

import (
	"github.com/mateusmacedo/go-railbooking/pkg/domain"
)

type userSignedUpEvent struct {
	data string
}

func (e userSignedUpEvent) EventName() string {
	return "UserSignedUp"
}

func (e userSignedUpEvent) Payload() string {
	return e.data
}

// NewUserSignedUpEvent cria um evento de conta criada.
func NewUserSignedUpEvent(data string) domain.Event[string] {
	return userSignedUpEvent{data: data}
}
