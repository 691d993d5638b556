package main

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	bookingApp "github.com/mateusmacedo/go-railbooking/internal/booking/application"
	trainApp "github.com/mateusmacedo/go-railbooking/internal/train/application"
	trainDomain "github.com/mateusmacedo/go-railbooking/internal/train/domain"
	trainInfra "github.com/mateusmacedo/go-railbooking/internal/train/infrastructure"
	userApp "github.com/mateusmacedo/go-railbooking/internal/user/application"
	userDomain "github.com/mateusmacedo/go-railbooking/internal/user/domain"
	userInfra "github.com/mateusmacedo/go-railbooking/internal/user/infrastructure"
	pkgDomain "github.com/mateusmacedo/go-railbooking/pkg/domain"
	"github.com/mateusmacedo/go-railbooking/pkg/infrastructure/watermill/adapter"
	zapAdapter "github.com/mateusmacedo/go-railbooking/pkg/infrastructure/zaplogger/adapter"
)

// Demonstra o fluxo completo de reserva sobre o pub/sub em memória do
// Watermill: cadastro, busca de rota, reserva e cancelamento.
func main() {
	appLogger, err := zapAdapter.NewZapAppLogger()
	if err != nil {
		panic(err)
	}

	logger := adapter.NewWatermillLoggerAdapter(appLogger)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, logger)

	trainRepo := trainInfra.NewInMemoryTrainRepository(appLogger)
	userRepo := userInfra.NewInMemoryUserRepository(appLogger)
	session := userDomain.NewSession()
	hasher := userInfra.NewBcryptPasswordHasher()

	idGenerator := func() string {
		return uuid.New().String()
	}

	eventBus := adapter.NewWatermillEventBus[pkgDomain.Event[string], string](pubSub, pubSub, appLogger)

	saveTrainBus := adapter.NewWatermillCommandBus[pkgDomain.Command[trainApp.SaveTrainData], trainApp.SaveTrainData](pubSub, pubSub, appLogger)
	searchBus := adapter.NewWatermillQueryBus[pkgDomain.Query[trainApp.SearchTrainsData], trainApp.SearchTrainsData, []trainDomain.Train](pubSub, pubSub, appLogger)
	signUpBus := adapter.NewWatermillCommandBus[pkgDomain.Command[userApp.SignUpUserData], userApp.SignUpUserData](pubSub, pubSub, appLogger)
	bookBus := adapter.NewWatermillCommandBus[pkgDomain.Command[bookingApp.BookSeatData], bookingApp.BookSeatData](pubSub, pubSub, appLogger)
	cancelBus := adapter.NewWatermillCommandBus[pkgDomain.Command[bookingApp.CancelBookingData], bookingApp.CancelBookingData](pubSub, pubSub, appLogger)
	listBus := adapter.NewWatermillQueryBus[pkgDomain.Query[bookingApp.ListBookingsData], bookingApp.ListBookingsData, []userDomain.Ticket](pubSub, pubSub, appLogger)

	saveTrainBus.RegisterHandler("SaveTrain", trainApp.NewSaveTrainHandler(eventBus, trainRepo, appLogger))
	searchBus.RegisterHandler("SearchTrains", trainApp.NewSearchTrainsHandler(trainRepo, appLogger))
	signUpBus.RegisterHandler("SignUpUser", userApp.NewSignUpUserHandler(eventBus, userRepo, hasher, session, idGenerator, appLogger))
	bookBus.RegisterHandler("BookSeat", bookingApp.NewBookSeatHandler(eventBus, trainRepo, userRepo, session, idGenerator, time.Now, appLogger))
	cancelBus.RegisterHandler("CancelBooking", bookingApp.NewCancelBookingHandler(eventBus, userRepo, session, appLogger))
	listBus.RegisterHandler("ListBookings", bookingApp.NewListBookingsHandler(userRepo, session, appLogger))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Cadastro do trem e do usuário
	saveTrain := trainApp.NewSaveTrainCommand(trainApp.SaveTrainData{
		TrainID: "T1",
		TrainNo: "12051",
		Seats:   [][]int{{0, 0}, {0, 0}},
		StationTimes: trainDomain.StationTimes{
			{Station: "Lisboa", Time: "08:00"},
			{Station: "Coimbra", Time: "10:05"},
			{Station: "Porto", Time: "11:20"},
		},
		Stations: []string{"Lisboa", "Coimbra", "Porto"},
	})
	if err := saveTrainBus.Dispatch(ctx, saveTrain); err != nil {
		appLogger.Error(ctx, "erro ao despachar comando de cadastro de trem", map[string]interface{}{"error": err})
		return
	}

	signUp := userApp.NewSignUpUserCommand(userApp.SignUpUserData{Name: "alice", Password: "pw1"})
	if err := signUpBus.Dispatch(ctx, signUp); err != nil {
		appLogger.Error(ctx, "erro ao despachar comando de cadastro de usuário", map[string]interface{}{"error": err})
		return
	}

	// Espera breve para permitir o processamento das mensagens
	time.Sleep(1 * time.Second)

	// Busca de rota
	trains, err := searchBus.Dispatch(ctx, trainApp.NewSearchTrainsQuery(trainApp.SearchTrainsData{
		Source:      "lisboa",
		Destination: "porto",
	}))
	if err != nil {
		appLogger.Error(ctx, "erro ao despachar consulta de rota", map[string]interface{}{"error": err})
		return
	}
	appLogger.Info(ctx, "trens encontrados", map[string]interface{}{"trains": trains})

	// Reserva de assento
	book := bookingApp.NewBookSeatCommand(bookingApp.BookSeatData{TrainID: "T1", Row: 0, Col: 0})
	if err := bookBus.Dispatch(ctx, book); err != nil {
		appLogger.Error(ctx, "erro ao despachar comando de reserva", map[string]interface{}{"error": err})
		return
	}

	time.Sleep(1 * time.Second)

	tickets, err := listBus.Dispatch(ctx, bookingApp.NewListBookingsQuery(bookingApp.ListBookingsData{}))
	if err != nil {
		appLogger.Error(ctx, "erro ao despachar consulta de reservas", map[string]interface{}{"error": err})
		return
	}
	appLogger.Info(ctx, "reservas do usuário", map[string]interface{}{"tickets": tickets})

	// Cancelamento da reserva recém-criada
	if len(tickets) > 0 {
		cancelCmd := bookingApp.NewCancelBookingCommand(bookingApp.CancelBookingData{TicketID: tickets[0].TicketID})
		if err := cancelBus.Dispatch(ctx, cancelCmd); err != nil {
			appLogger.Error(ctx, "erro ao despachar comando de cancelamento", map[string]interface{}{"error": err})
			return
		}
	}

	time.Sleep(1 * time.Second)
	appLogger.Info(ctx, "fluxo de demonstração concluído", nil)
}
