package application

import (
	"github.com/mateusmacedo/go-railbooking/internal/train/domain"
	pkgDomain "github.com/mateusmacedo/go-railbooking/pkg/domain"
)

// SaveTrainData contém os dados para cadastrar ou substituir um trem.
type SaveTrainData struct {
	TrainID      string              `json:"train_id"`
	TrainNo      string              `json:"train_no"`
	Seats        [][]int             `json:"seats"`
	StationTimes domain.StationTimes `json:"station_times"`
	Stations     []string            `json:"stations"`
}

type saveTrainCommand struct {
	data SaveTrainData
}

func (c saveTrainCommand) CommandName() string {
	return "SaveTrain"
}

func (c saveTrainCommand) Payload() SaveTrainData {
	return c.data
}

// NewSaveTrainCommand cria um novo comando para cadastrar ou substituir um trem.
func NewSaveTrainCommand(data SaveTrainData) pkgDomain.Command[SaveTrainData] {
	return saveTrainCommand{data: data}
}
