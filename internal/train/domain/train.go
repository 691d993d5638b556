package domain

import (
	"context"
	"strings"
)

const (
	// SeatAvailable e SeatBooked são os códigos de estado de um assento na grade.
	SeatAvailable = 0
	SeatBooked    = 1
)

// Train representa um trem com sua rota e grade de assentos.
type Train struct {
	TrainID      string       `json:"train_id" gorm:"primaryKey"`
	TrainNo      string       `json:"train_no"`
	Seats        [][]int      `json:"seats" gorm:"serializer:json"`
	StationTimes StationTimes `json:"station_times" gorm:"serializer:json"`
	Stations     []string     `json:"stations" gorm:"serializer:json"`
}

// HasRoute informa se o trem serve o trajeto source -> destination, comparando
// nomes de estação sem diferenciar maiúsculas e exigindo que a origem venha
// antes do destino na rota.
func (t Train) HasRoute(source, destination string) bool {
	if len(t.Stations) == 0 {
		return false
	}

	sourceIndex := -1
	destinationIndex := -1
	for i, station := range t.Stations {
		if sourceIndex == -1 && strings.EqualFold(station, source) {
			sourceIndex = i
		}
		if destinationIndex == -1 && strings.EqualFold(station, destination) {
			destinationIndex = i
		}
	}

	return sourceIndex != -1 && destinationIndex != -1 && sourceIndex < destinationIndex
}

// AvailableSeats conta as células livres da grade. Um trem ou grade ausente
// conta como zero.
func (t *Train) AvailableSeats() int {
	if t == nil || t.Seats == nil {
		return 0
	}

	count := 0
	for _, row := range t.Seats {
		for _, status := range row {
			if status == SeatAvailable {
				count++
			}
		}
	}
	return count
}

// SeatInBounds informa se a posição cai dentro da grade de assentos.
func (t Train) SeatInBounds(row, col int) bool {
	return row >= 0 && row < len(t.Seats) && col >= 0 && col < len(t.Seats[row])
}

// TrainRepository define a interface para a coleção de trens.
type TrainRepository interface {
	FindAll(ctx context.Context) ([]Train, error)
	FindByID(ctx context.Context, trainID string) (Train, error)
	SearchRoutes(ctx context.Context, source, destination string) ([]Train, error)

	// Save substitui o trem de mesmo trainID na posição atual ou o acrescenta
	// ao final da coleção.
	Save(ctx context.Context, train Train) error

	// UpdateSeats substitui um trem existente para refletir a grade de
	// assentos. Um trainID desconhecido é registrado e ignorado, sem erro.
	UpdateSeats(ctx context.Context, train Train) error
}
