package application

import (
	pkgDomain "github.com/mateusmacedo/go-railbooking/pkg/domain"
)

// SearchTrainsData contém o par de estações de uma busca de rota.
type SearchTrainsData struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

type searchTrainsQuery struct {
	data SearchTrainsData
}

func (q searchTrainsQuery) QueryName() string {
	return "SearchTrains"
}

func (q searchTrainsQuery) Payload() SearchTrainsData {
	return q.data
}

func NewSearchTrainsQuery(data SearchTrainsData) pkgDomain.Query[SearchTrainsData] {
	return searchTrainsQuery{data: data}
}

// FetchSeatsData identifica o trem cuja grade de assentos será consultada.
type FetchSeatsData struct {
	TrainID string `json:"train_id"`
}

// SeatMap é a visão da grade de assentos devolvida ao chamador.
type SeatMap struct {
	TrainID   string  `json:"train_id"`
	Seats     [][]int `json:"seats"`
	Available int     `json:"available"`
}

type fetchSeatsQuery struct {
	data FetchSeatsData
}

func (q fetchSeatsQuery) QueryName() string {
	return "FetchSeats"
}

func (q fetchSeatsQuery) Payload() FetchSeatsData {
	return q.data
}

func NewFetchSeatsQuery(data FetchSeatsData) pkgDomain.Query[FetchSeatsData] {
	return fetchSeatsQuery{data: data}
}
