package user

import (
	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-railbooking/internal/user/application"
	"github.com/mateusmacedo/go-railbooking/internal/user/domain"
	"github.com/mateusmacedo/go-railbooking/internal/user/infrastructure"
	pkgApp "github.com/mateusmacedo/go-railbooking/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbooking/pkg/domain"
)

type UserSlice struct {
	httpHandler *infrastructure.UserHTTPHandler
}

func NewUserSlice(
	commandBus pkgApp.CommandBus[pkgDomain.Command[application.SignUpUserData], application.SignUpUserData],
	queryBus pkgApp.QueryBus[pkgDomain.Query[application.AuthenticateUserData], application.AuthenticateUserData, domain.User],
	idGenerator pkgDomain.IDGenerator[string],
	hasher domain.PasswordHasher,
	session *domain.Session,
	logger pkgApp.AppLogger,
	eventBus pkgApp.EventBus[pkgDomain.Event[string], string],
	repository domain.UserRepository,
) *UserSlice {
	signUpHandler := application.NewSignUpUserHandler(eventBus, repository, hasher, session, idGenerator, logger)
	authenticateHandler := application.NewAuthenticateUserHandler(repository, hasher, session, logger)

	commandBus.RegisterHandler("SignUpUser", signUpHandler)
	queryBus.RegisterHandler("AuthenticateUser", authenticateHandler)

	httpHandler := infrastructure.NewUserHTTPHandler(commandBus, queryBus, session)

	return &UserSlice{
		httpHandler: httpHandler,
	}
}

func (s *UserSlice) RegisterRoutes(router *chi.Mux) {
	s.httpHandler.RegisterRoutes(router)
}
