package application_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-railbooking/internal/booking/application"
	"github.com/mateusmacedo/go-railbooking/internal/booking/domain"
	traindomain "github.com/mateusmacedo/go-railbooking/internal/train/domain"
	traininfra "github.com/mateusmacedo/go-railbooking/internal/train/infrastructure"
	userdomain "github.com/mateusmacedo/go-railbooking/internal/user/domain"
	userinfra "github.com/mateusmacedo/go-railbooking/internal/user/infrastructure"
	pkgApp "github.com/mateusmacedo/go-railbooking/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbooking/pkg/domain"
)

type nopLogger struct{}

func (nopLogger) Info(ctx context.Context, msg string, fields map[string]interface{})  {}
func (nopLogger) Debug(ctx context.Context, msg string, fields map[string]interface{}) {}
func (nopLogger) Error(ctx context.Context, msg string, fields map[string]interface{}) {}
func (nopLogger) Trace(ctx context.Context, msg string, fields map[string]interface{}) {}

type recordingEventBus struct {
	published []pkgDomain.Event[string]
}

func (b *recordingEventBus) RegisterHandler(eventName string, handler pkgApp.EventHandler[pkgDomain.Event[string], string]) {
}

func (b *recordingEventBus) Publish(ctx context.Context, event pkgDomain.Event[string]) error {
	b.published = append(b.published, event)
	return nil
}

type fixture struct {
	trains   *traininfra.InMemoryTrainRepository
	users    *userinfra.InMemoryUserRepository
	session  *userdomain.Session
	eventBus *recordingEventBus
	clock    time.Time
	nextID   int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		trains:   traininfra.NewInMemoryTrainRepository(nopLogger{}),
		users:    userinfra.NewInMemoryUserRepository(nopLogger{}),
		session:  userdomain.NewSession(),
		eventBus: &recordingEventBus{},
		clock:    time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) idGenerator() string {
	f.nextID++
	return []string{"tk1", "tk2", "tk3"}[f.nextID-1]
}

func (f *fixture) bookHandler() pkgApp.CommandHandler[pkgDomain.Command[application.BookSeatData], application.BookSeatData] {
	return application.NewBookSeatHandler(f.eventBus, f.trains, f.users, f.session, f.idGenerator, func() time.Time { return f.clock }, nopLogger{})
}

func (f *fixture) cancelHandler() pkgApp.CommandHandler[pkgDomain.Command[application.CancelBookingData], application.CancelBookingData] {
	return application.NewCancelBookingHandler(f.eventBus, f.users, f.session, nopLogger{})
}

func (f *fixture) listHandler() pkgApp.QueryHandler[pkgDomain.Query[application.ListBookingsData], application.ListBookingsData, []userdomain.Ticket] {
	return application.NewListBookingsHandler(f.users, f.session, nopLogger{})
}

func (f *fixture) withTrain(t *testing.T, train traindomain.Train) {
	t.Helper()
	require.NoError(t, f.trains.Save(context.Background(), train))
}

func (f *fixture) withLoggedInUser(t *testing.T) userdomain.User {
	t.Helper()
	user := userdomain.User{
		UserID:         "u1",
		Name:           "alice",
		HashedPassword: "digest",
		TicketsBooked:  []userdomain.Ticket{},
	}
	require.NoError(t, f.users.Save(context.Background(), user))
	f.session.Set(user)
	return user
}

func twoByTwoTrain() traindomain.Train {
	return traindomain.Train{
		TrainID: "T1",
		TrainNo: "1001",
		Seats: [][]int{
			{traindomain.SeatAvailable, traindomain.SeatAvailable},
			{traindomain.SeatAvailable, traindomain.SeatAvailable},
		},
		StationTimes: traindomain.StationTimes{
			{Station: "lisboa", Time: "08:00:00"},
			{Station: "coimbra", Time: "09:45:00"},
			{Station: "porto", Time: "11:30:00"},
		},
		Stations: []string{"lisboa", "coimbra", "porto"},
	}
}

func TestBookSeatHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("Booking marks the seat and records the ticket", func(t *testing.T) {
		f := newFixture(t)
		f.withTrain(t, twoByTwoTrain())
		f.withLoggedInUser(t)
		handler := f.bookHandler()

		err := handler.Handle(ctx, application.NewBookSeatCommand(application.BookSeatData{
			TrainID: "T1", Row: 0, Col: 0,
		}))
		require.NoError(t, err)

		train, err := f.trains.FindByID(ctx, "T1")
		require.NoError(t, err)
		assert.Equal(t, traindomain.SeatBooked, train.Seats[0][0])
		assert.Equal(t, 3, train.AvailableSeats())

		stored, err := f.users.FindByID(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, stored.TicketsBooked, 1)

		ticket := stored.TicketsBooked[0]
		assert.Equal(t, "tk1", ticket.TicketID)
		assert.Equal(t, "u1", ticket.UserID)
		assert.Equal(t, "lisboa", ticket.Source)
		assert.Equal(t, "porto", ticket.Destination)
		assert.Equal(t, "2026-08-30T10:00:00Z", ticket.DateOfTravel)
		assert.Equal(t, traindomain.SeatBooked, ticket.Train.Seats[0][0])

		current, ok := f.session.Current()
		require.True(t, ok)
		assert.Len(t, current.TicketsBooked, 1)

		require.Len(t, f.eventBus.published, 1)
		assert.Equal(t, "SeatBooked", f.eventBus.published[0].EventName())
	})

	t.Run("Ticket endpoints fall back when the timetable is empty", func(t *testing.T) {
		f := newFixture(t)
		train := twoByTwoTrain()
		train.StationTimes = nil
		f.withTrain(t, train)
		f.withLoggedInUser(t)

		err := f.bookHandler().Handle(ctx, application.NewBookSeatCommand(application.BookSeatData{
			TrainID: "T1", Row: 0, Col: 0,
		}))
		require.NoError(t, err)

		stored, err := f.users.FindByID(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, stored.TicketsBooked, 1)
		assert.Equal(t, "N/A", stored.TicketsBooked[0].Source)
		assert.Equal(t, "N/A", stored.TicketsBooked[0].Destination)
	})

	t.Run("Booking a taken seat fails without a second ticket", func(t *testing.T) {
		f := newFixture(t)
		f.withTrain(t, twoByTwoTrain())
		f.withLoggedInUser(t)
		handler := f.bookHandler()

		command := application.NewBookSeatCommand(application.BookSeatData{TrainID: "T1", Row: 1, Col: 1})
		require.NoError(t, handler.Handle(ctx, command))

		err := handler.Handle(ctx, command)
		assert.ErrorIs(t, err, domain.ErrSeatTaken)

		stored, err := f.users.FindByID(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, stored.TicketsBooked, 1)

		train, err := f.trains.FindByID(ctx, "T1")
		require.NoError(t, err)
		assert.Equal(t, 3, train.AvailableSeats())
	})

	t.Run("Seat outside the grid is invalid", func(t *testing.T) {
		f := newFixture(t)
		f.withTrain(t, twoByTwoTrain())
		f.withLoggedInUser(t)
		handler := f.bookHandler()

		for _, data := range []application.BookSeatData{
			{TrainID: "T1", Row: 2, Col: 0},
			{TrainID: "T1", Row: 0, Col: 2},
			{TrainID: "T1", Row: -1, Col: 0},
		} {
			err := handler.Handle(ctx, application.NewBookSeatCommand(data))
			assert.ErrorIs(t, err, domain.ErrInvalidSeat)
		}
	})

	t.Run("Unknown train fails the booking", func(t *testing.T) {
		f := newFixture(t)
		f.withLoggedInUser(t)

		err := f.bookHandler().Handle(ctx, application.NewBookSeatCommand(application.BookSeatData{
			TrainID: "ghost", Row: 0, Col: 0,
		}))
		assert.ErrorIs(t, err, traindomain.ErrTrainNotFound)
	})

	t.Run("No session means no booking", func(t *testing.T) {
		f := newFixture(t)
		f.withTrain(t, twoByTwoTrain())

		err := f.bookHandler().Handle(ctx, application.NewBookSeatCommand(application.BookSeatData{
			TrainID: "T1", Row: 0, Col: 0,
		}))
		assert.ErrorIs(t, err, domain.ErrNoSession)
	})
}

// breakSnapshot troca o arquivo de snapshot por um diretório para que o
// próximo persist falhe.
func breakSnapshot(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0o755))
}

func TestBookSeatPersistenceFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("Failed seat persist surfaces and the flip is not rolled back", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "trains.json")
		trains, err := traininfra.NewSnapshotTrainRepository(path, nopLogger{})
		require.NoError(t, err)
		require.NoError(t, trains.Save(ctx, twoByTwoTrain()))

		users := userinfra.NewInMemoryUserRepository(nopLogger{})
		user := userdomain.User{UserID: "u1", Name: "alice", TicketsBooked: []userdomain.Ticket{}}
		require.NoError(t, users.Save(ctx, user))
		session := userdomain.NewSession()
		session.Set(user)

		eventBus := &recordingEventBus{}
		handler := application.NewBookSeatHandler(eventBus, trains, users, session, func() string { return "tk1" }, nil, nopLogger{})

		breakSnapshot(t, path)

		err = handler.Handle(ctx, application.NewBookSeatCommand(application.BookSeatData{
			TrainID: "T1", Row: 0, Col: 0,
		}))
		require.Error(t, err)

		stored, err := users.FindByID(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, stored.TicketsBooked)
		assert.Empty(t, eventBus.published)

		train, err := trains.FindByID(ctx, "T1")
		require.NoError(t, err)
		assert.Equal(t, traindomain.SeatBooked, train.Seats[0][0])
	})

	t.Run("Failed ticket persist surfaces without touching the session", func(t *testing.T) {
		trains := traininfra.NewInMemoryTrainRepository(nopLogger{})
		require.NoError(t, trains.Save(ctx, twoByTwoTrain()))

		path := filepath.Join(t.TempDir(), "users.json")
		users, err := userinfra.NewSnapshotUserRepository(path, nopLogger{})
		require.NoError(t, err)
		user := userdomain.User{UserID: "u1", Name: "alice", TicketsBooked: []userdomain.Ticket{}}
		require.NoError(t, users.Save(ctx, user))
		session := userdomain.NewSession()
		session.Set(user)

		handler := application.NewBookSeatHandler(&recordingEventBus{}, trains, users, session, func() string { return "tk1" }, nil, nopLogger{})

		breakSnapshot(t, path)

		err = handler.Handle(ctx, application.NewBookSeatCommand(application.BookSeatData{
			TrainID: "T1", Row: 0, Col: 0,
		}))
		require.Error(t, err)

		current, ok := session.Current()
		require.True(t, ok)
		assert.Empty(t, current.TicketsBooked)

		train, err := trains.FindByID(ctx, "T1")
		require.NoError(t, err)
		assert.Equal(t, traindomain.SeatBooked, train.Seats[0][0])
	})
}

func TestCancelBookingPersistenceFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("Failed user persist surfaces after the ticket removal", func(t *testing.T) {
		trains := traininfra.NewInMemoryTrainRepository(nopLogger{})
		require.NoError(t, trains.Save(ctx, twoByTwoTrain()))

		path := filepath.Join(t.TempDir(), "users.json")
		users, err := userinfra.NewSnapshotUserRepository(path, nopLogger{})
		require.NoError(t, err)
		user := userdomain.User{UserID: "u1", Name: "alice", TicketsBooked: []userdomain.Ticket{}}
		require.NoError(t, users.Save(ctx, user))
		session := userdomain.NewSession()
		session.Set(user)

		book := application.NewBookSeatHandler(&recordingEventBus{}, trains, users, session, func() string { return "tk1" }, nil, nopLogger{})
		require.NoError(t, book.Handle(ctx, application.NewBookSeatCommand(application.BookSeatData{
			TrainID: "T1", Row: 0, Col: 0,
		})))

		breakSnapshot(t, path)

		cancel := application.NewCancelBookingHandler(&recordingEventBus{}, users, session, nopLogger{})
		err = cancel.Handle(ctx, application.NewCancelBookingCommand(application.CancelBookingData{
			TicketID: "tk1",
		}))
		require.Error(t, err)

		stored, err := users.FindByID(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, stored.TicketsBooked)

		current, ok := session.Current()
		require.True(t, ok)
		require.Len(t, current.TicketsBooked, 1)
		assert.Equal(t, "tk1", current.TicketsBooked[0].TicketID)
	})
}

func TestCancelBookingHandler(t *testing.T) {
	ctx := context.Background()

	booked := func(t *testing.T) *fixture {
		t.Helper()
		f := newFixture(t)
		f.withTrain(t, twoByTwoTrain())
		f.withLoggedInUser(t)
		require.NoError(t, f.bookHandler().Handle(ctx, application.NewBookSeatCommand(application.BookSeatData{
			TrainID: "T1", Row: 0, Col: 0,
		})))
		return f
	}

	t.Run("Cancel removes exactly one ticket and keeps the seat marked", func(t *testing.T) {
		f := booked(t)

		err := f.cancelHandler().Handle(ctx, application.NewCancelBookingCommand(application.CancelBookingData{
			TicketID: "tk1",
		}))
		require.NoError(t, err)

		stored, err := f.users.FindByID(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, stored.TicketsBooked)

		train, err := f.trains.FindByID(ctx, "T1")
		require.NoError(t, err)
		assert.Equal(t, traindomain.SeatBooked, train.Seats[0][0])

		current, ok := f.session.Current()
		require.True(t, ok)
		assert.Empty(t, current.TicketsBooked)
	})

	t.Run("Cancelling the same ticket twice fails", func(t *testing.T) {
		f := booked(t)
		handler := f.cancelHandler()
		command := application.NewCancelBookingCommand(application.CancelBookingData{TicketID: "tk1"})

		require.NoError(t, handler.Handle(ctx, command))

		err := handler.Handle(ctx, command)
		assert.ErrorIs(t, err, domain.ErrNoBookings)
	})

	t.Run("Unknown ticket among existing bookings", func(t *testing.T) {
		f := booked(t)

		err := f.cancelHandler().Handle(ctx, application.NewCancelBookingCommand(application.CancelBookingData{
			TicketID: "ghost",
		}))
		assert.ErrorIs(t, err, domain.ErrTicketNotFound)

		stored, err := f.users.FindByID(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, stored.TicketsBooked, 1)
	})

	t.Run("Blank ticket id is rejected", func(t *testing.T) {
		f := booked(t)

		err := f.cancelHandler().Handle(ctx, application.NewCancelBookingCommand(application.CancelBookingData{
			TicketID: "  ",
		}))
		assert.ErrorIs(t, err, domain.ErrEmptyTicketID)
	})

	t.Run("No session means no cancellation", func(t *testing.T) {
		f := newFixture(t)

		err := f.cancelHandler().Handle(ctx, application.NewCancelBookingCommand(application.CancelBookingData{
			TicketID: "tk1",
		}))
		assert.ErrorIs(t, err, domain.ErrNoSession)
	})
}

func TestListBookingsHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("Lists the tickets of the session user", func(t *testing.T) {
		f := newFixture(t)
		f.withTrain(t, twoByTwoTrain())
		f.withLoggedInUser(t)
		book := f.bookHandler()
		require.NoError(t, book.Handle(ctx, application.NewBookSeatCommand(application.BookSeatData{TrainID: "T1", Row: 0, Col: 0})))
		require.NoError(t, book.Handle(ctx, application.NewBookSeatCommand(application.BookSeatData{TrainID: "T1", Row: 0, Col: 1})))

		tickets, err := f.listHandler().Handle(ctx, application.NewListBookingsQuery(application.ListBookingsData{}))
		require.NoError(t, err)
		require.Len(t, tickets, 2)
		assert.Equal(t, "tk1", tickets[0].TicketID)
		assert.Equal(t, "tk2", tickets[1].TicketID)
	})

	t.Run("User without bookings gets an empty list", func(t *testing.T) {
		f := newFixture(t)
		f.withLoggedInUser(t)

		tickets, err := f.listHandler().Handle(ctx, application.NewListBookingsQuery(application.ListBookingsData{}))
		require.NoError(t, err)
		assert.Empty(t, tickets)
	})

	t.Run("No session means no listing", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.listHandler().Handle(ctx, application.NewListBookingsQuery(application.ListBookingsData{}))
		assert.ErrorIs(t, err, domain.ErrNoSession)
	})
}
