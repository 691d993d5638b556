package application

import (
	"github.com/mateusmacedo/go-railbooking/pkg/domain"
)

type trainSavedEvent struct {
	data string
}

func (e trainSavedEvent) EventName() string {
	return "TrainSaved"
}

func (e trainSavedEvent) Payload() string {
	return e.data
}

// NewTrainSavedEvent cria um evento de trem cadastrado ou atualizado.
func NewTrainSavedEvent(data string) domain.Event[string] {
	return trainSavedEvent{data: data}
}
