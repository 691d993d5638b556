package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Shopify/sarama"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
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

// Fluxo de reserva despachado sobre tópicos Kafka.
func main() {
	appLogger, err := zapAdapter.NewZapAppLogger()
	if err != nil {
		panic(err)
	}

	logger := adapter.NewWatermillLoggerAdapter(appLogger)

	brokers := strings.Split(brokersFromEnv(), ",")
	marshaler := kafka.DefaultMarshaler{}

	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   brokers,
		Marshaler: marshaler,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create Kafka publisher: %v", err)
	}
	defer publisher.Close()

	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V1_0_0_0
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.ClientID = "railbooking"

	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:               brokers,
		Unmarshaler:           marshaler,
		ConsumerGroup:         "railbooking_consumer_group",
		OverwriteSaramaConfig: saramaConfig,
		InitializeTopicDetails: &sarama.TopicDetail{
			NumPartitions:     1,
			ReplicationFactor: 1,
		},
	}, logger)
	if err != nil {
		log.Fatalf("failed to create Kafka subscriber: %v", err)
	}
	defer subscriber.Close()

	for _, topic := range []string{"SaveTrain", "SignUpUser", "BookSeat", "SeatBooked"} {
		if err := subscriber.SubscribeInitialize(topic); err != nil {
			log.Fatalf("failed to initialize Kafka topic %q: %v", topic, err)
		}
	}

	trainRepo := trainInfra.NewInMemoryTrainRepository(appLogger)
	userRepo := userInfra.NewInMemoryUserRepository(appLogger)
	session := userDomain.NewSession()
	hasher := userInfra.NewBcryptPasswordHasher()

	idGenerator := func() string {
		return uuid.New().String()
	}

	eventBus := adapter.NewWatermillEventBus[pkgDomain.Event[string], string](publisher, subscriber, appLogger)

	saveTrainBus := adapter.NewWatermillCommandBus[pkgDomain.Command[trainApp.SaveTrainData], trainApp.SaveTrainData](publisher, subscriber, appLogger)
	signUpBus := adapter.NewWatermillCommandBus[pkgDomain.Command[userApp.SignUpUserData], userApp.SignUpUserData](publisher, subscriber, appLogger)
	bookBus := adapter.NewWatermillCommandBus[pkgDomain.Command[bookingApp.BookSeatData], bookingApp.BookSeatData](publisher, subscriber, appLogger)

	saveTrainBus.RegisterHandler("SaveTrain", trainApp.NewSaveTrainHandler(eventBus, trainRepo, appLogger))
	signUpBus.RegisterHandler("SignUpUser", userApp.NewSignUpUserHandler(eventBus, userRepo, hasher, session, idGenerator, appLogger))
	bookBus.RegisterHandler("BookSeat", bookingApp.NewBookSeatHandler(eventBus, trainRepo, userRepo, session, idGenerator, time.Now, appLogger))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	saveTrain := trainApp.NewSaveTrainCommand(trainApp.SaveTrainData{
		TrainID: "T1",
		TrainNo: "12051",
		Seats:   [][]int{{0, 0}, {0, 0}},
		StationTimes: trainDomain.StationTimes{
			{Station: "Lisboa", Time: "08:00"},
			{Station: "Porto", Time: "11:20"},
		},
		Stations: []string{"Lisboa", "Porto"},
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

	// Espera o consumo dos comandos de cadastro antes da reserva
	time.Sleep(3 * time.Second)

	book := bookingApp.NewBookSeatCommand(bookingApp.BookSeatData{TrainID: "T1", Row: 0, Col: 0})
	if err := bookBus.Dispatch(ctx, book); err != nil {
		appLogger.Error(ctx, "erro ao despachar comando de reserva", map[string]interface{}{"error": err})
		return
	}

	time.Sleep(3 * time.Second)
	appLogger.Info(ctx, "fluxo de demonstração concluído", nil)
}

func brokersFromEnv() string {
	if brokers := os.Getenv("RAILBOOKING_KAFKA_BROKERS"); brokers != "" {
		return brokers
	}
	return "localhost:9092"
}
