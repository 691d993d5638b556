package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

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
	pkgApp "github.com/mateusmacedo/go-railbooking/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbooking/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-railbooking/pkg/infrastructure"
	zapAdapter "github.com/mateusmacedo/go-railbooking/pkg/infrastructure/zaplogger/adapter"
)

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appLogger, err := zapAdapter.NewZapAppLogger()
	if err != nil {
		panic(err)
	}

	idGenerator := pkgDomain.IDGenerator[string](pkgInfra.GenerateUUID)

	trainRepo, userRepo, err := buildRepositories(ctx, appLogger)
	if err != nil {
		appLogger.Error(ctx, "erro ao inicializar os repositórios", map[string]interface{}{
			"error": err,
		})
		panic(err)
	}

	session := userDomain.NewSession()
	hasher := userInfra.NewBcryptPasswordHasher()

	eventBus := pkgInfra.NewSimpleEventBus[pkgDomain.Event[string], string](appLogger)

	trainCommandBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[trainApp.SaveTrainData], trainApp.SaveTrainData](appLogger)
	searchQueryBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[trainApp.SearchTrainsData], trainApp.SearchTrainsData, []trainDomain.Train](appLogger)
	seatsQueryBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[trainApp.FetchSeatsData], trainApp.FetchSeatsData, trainApp.SeatMap](appLogger)

	userCommandBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[userApp.SignUpUserData], userApp.SignUpUserData](appLogger)
	authQueryBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[userApp.AuthenticateUserData], userApp.AuthenticateUserData, userDomain.User](appLogger)

	bookCommandBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[bookingApp.BookSeatData], bookingApp.BookSeatData](appLogger)
	cancelCommandBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[bookingApp.CancelBookingData], bookingApp.CancelBookingData](appLogger)
	listQueryBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[bookingApp.ListBookingsData], bookingApp.ListBookingsData, []userDomain.Ticket](appLogger)

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

	serverAddress := envOr("RAILBOOKING_ADDR", ":8080")
	server := &http.Server{
		Addr:    serverAddress,
		Handler: router,
	}

	go func() {
		appLogger.Info(ctx, "server starting on "+serverAddress, nil)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error(ctx, "erro ao iniciar o servidor", map[string]interface{}{
				"error": err,
			})
		}
	}()

	<-ctx.Done()
	appLogger.Info(ctx, "encerrando servidor...", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(context.Background(), "erro ao encerrar servidor", map[string]interface{}{
			"error": err,
		})
	}

	appLogger.Info(context.Background(), "servidor encerrado", nil)
}

// buildRepositories escolhe o backend: postgres via GORM quando RAILBOOKING_DSN
// está definido, senão snapshots JSON locais.
func buildRepositories(ctx context.Context, appLogger pkgApp.AppLogger) (trainDomain.TrainRepository, userDomain.UserRepository, error) {
	if dsn := os.Getenv("RAILBOOKING_DSN"); dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, nil, err
		}

		trainRepo, err := trainInfra.NewGormTrainRepository(db, appLogger)
		if err != nil {
			return nil, nil, err
		}
		userRepo, err := userInfra.NewGormUserRepository(db, appLogger)
		if err != nil {
			return nil, nil, err
		}

		appLogger.Info(ctx, "usando repositórios GORM", nil)
		return trainRepo, userRepo, nil
	}

	trainRepo, err := trainInfra.NewSnapshotTrainRepository(envOr("RAILBOOKING_TRAINS_PATH", "localdb/trains.json"), appLogger)
	if err != nil {
		return nil, nil, err
	}
	userRepo, err := userInfra.NewSnapshotUserRepository(envOr("RAILBOOKING_USERS_PATH", "localdb/users.json"), appLogger)
	if err != nil {
		return nil, nil, err
	}

	appLogger.Info(ctx, "usando repositórios com snapshot JSON", nil)
	return trainRepo, userRepo, nil
}
