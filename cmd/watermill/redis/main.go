package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mateusmacedo/go-railbooking/internal/booking"
	bookingApp "github.com/mateusmacedo/go-railbooking/internal/booking/application"
	"github.com/mateusmacedo/go-railbooking/internal/train"
	trainApp "github.com/mateusmacedo/go-railbooking/internal/train/application"
	trainDomain "github.com/mateusmacedo/go-railbooking/internal/train/domain"
	trainInfra "github.com/mateusmacedo/go-railbooking/internal/train/infrastructure"
	"github.com/mateusmacedo/go-railbooking/internal/user"
	userApp "github.com/mateusmacedo/go-railbooking/internal/user/application"
	userDomain "github.com/mateusmacedo/go-railbooking/internal/user/domain"
	userInfra "github.com/mateusmacedo/go-railbooking/internal/user/infrastructure"
	pkgDomain "github.com/mateusmacedo/go-railbooking/pkg/domain"
	redisAdapter "github.com/mateusmacedo/go-railbooking/pkg/infrastructure/redis/adapter"
	"github.com/mateusmacedo/go-railbooking/pkg/infrastructure/watermill/adapter"
	zapAdapter "github.com/mateusmacedo/go-railbooking/pkg/infrastructure/zaplogger/adapter"
)

// Servidor HTTP com os barramentos sobre Redis Streams.
func main() {
	appLogger, err := zapAdapter.NewZapAppLogger()
	if err != nil {
		panic(err)
	}

	logger := adapter.NewWatermillLoggerAdapter(appLogger)

	redisClient := redisAdapter.NewRedisClient()
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: redisClient,
	}, logger)
	if err != nil {
		appLogger.Error(ctx, "erro ao criar publisher", map[string]interface{}{"error": err})
		panic(err)
	}
	defer publisher.Close()

	subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        redisClient,
		ConsumerGroup: "railbooking_group",
		Consumer:      "railbooking_consumer",
	}, logger)
	if err != nil {
		appLogger.Error(ctx, "erro ao criar subscriber", map[string]interface{}{"error": err})
		panic(err)
	}
	defer subscriber.Close()

	trainRepo := trainInfra.NewInMemoryTrainRepository(appLogger)
	userRepo := userInfra.NewInMemoryUserRepository(appLogger)
	session := userDomain.NewSession()
	hasher := userInfra.NewBcryptPasswordHasher()

	idGenerator := func() string {
		return uuid.New().String()
	}

	eventBus := adapter.NewWatermillEventBus[pkgDomain.Event[string], string](publisher, subscriber, appLogger)

	trainCommandBus := adapter.NewWatermillCommandBus[pkgDomain.Command[trainApp.SaveTrainData], trainApp.SaveTrainData](publisher, subscriber, appLogger)
	searchQueryBus := adapter.NewWatermillQueryBus[pkgDomain.Query[trainApp.SearchTrainsData], trainApp.SearchTrainsData, []trainDomain.Train](publisher, subscriber, appLogger)
	seatsQueryBus := adapter.NewWatermillQueryBus[pkgDomain.Query[trainApp.FetchSeatsData], trainApp.FetchSeatsData, trainApp.SeatMap](publisher, subscriber, appLogger)

	userCommandBus := adapter.NewWatermillCommandBus[pkgDomain.Command[userApp.SignUpUserData], userApp.SignUpUserData](publisher, subscriber, appLogger)
	authQueryBus := adapter.NewWatermillQueryBus[pkgDomain.Query[userApp.AuthenticateUserData], userApp.AuthenticateUserData, userDomain.User](publisher, subscriber, appLogger)

	bookCommandBus := adapter.NewWatermillCommandBus[pkgDomain.Command[bookingApp.BookSeatData], bookingApp.BookSeatData](publisher, subscriber, appLogger)
	cancelCommandBus := adapter.NewWatermillCommandBus[pkgDomain.Command[bookingApp.CancelBookingData], bookingApp.CancelBookingData](publisher, subscriber, appLogger)
	listQueryBus := adapter.NewWatermillQueryBus[pkgDomain.Query[bookingApp.ListBookingsData], bookingApp.ListBookingsData, []userDomain.Ticket](publisher, subscriber, appLogger)

	trainSlice := train.NewTrainSlice(trainCommandBus, searchQueryBus, seatsQueryBus, appLogger, eventBus, trainRepo)
	userSlice := user.NewUserSlice(userCommandBus, authQueryBus, idGenerator, hasher, session, appLogger, eventBus, userRepo)
	bookingSlice := booking.NewBookingSlice(bookCommandBus, cancelCommandBus, listQueryBus, idGenerator, session, appLogger, eventBus, trainRepo, userRepo)

	router := chi.NewRouter()
	trainSlice.RegisterRoutes(router)
	userSlice.RegisterRoutes(router)
	bookingSlice.RegisterRoutes(router)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		appLogger.Info(ctx, "sinal capturado", map[string]interface{}{"signal": sig})
		cancel()
	}()

	serverAddress := ":8080"
	if addr := os.Getenv("RAILBOOKING_ADDR"); addr != "" {
		serverAddress = addr
	}
	server := &http.Server{
		Addr:    serverAddress,
		Handler: router,
	}

	go func() {
		appLogger.Info(ctx, "server starting on "+serverAddress, nil)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error(ctx, "erro ao iniciar o servidor", map[string]interface{}{"error": err})
		}
	}()

	<-ctx.Done()
	appLogger.Info(ctx, "encerrando servidor...", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(context.Background(), "erro ao encerrar servidor", map[string]interface{}{"error": err})
	}
}
