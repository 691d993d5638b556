package application

import (
	"context"
	"errors"
	"strings"

	"github.com/mateusmacedo/go-railbooking/internal/user/domain"
	pkgApp "github.com/mateusmacedo/go-railbooking/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbooking/pkg/domain"
)

type signUpUserHandler struct {
	eventBus    pkgApp.EventBus[pkgDomain.Event[string], string]
	repository  domain.UserRepository
	hasher      domain.PasswordHasher
	session     *domain.Session
	idGenerator pkgDomain.IDGenerator[string]
	logger      pkgApp.AppLogger
}

func (h *signUpUserHandler) Handle(ctx context.Context, command pkgDomain.Command[SignUpUserData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "contexto cancelado", ctx.Err(), nil)
		return ctx.Err()
	}

	data := command.Payload()
	if strings.TrimSpace(data.Name) == "" || data.Password == "" {
		return errors.New("name and password cannot be empty")
	}

	if _, err := h.repository.FindByName(ctx, data.Name); err == nil {
		h.logger.Info(ctx, "nome de usuário já existe", map[string]interface{}{"name": data.Name})
		return domain.ErrNameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	digest, err := h.hasher.Hash(data.Password)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "erro ao gerar digest da senha", err, nil)
		return err
	}

	user := domain.User{
		UserID:         h.idGenerator(),
		Name:           data.Name,
		HashedPassword: digest,
		TicketsBooked:  []domain.Ticket{},
	}

	if err := h.repository.Save(ctx, user); err != nil {
		pkgApp.LogError(ctx, h.logger, "erro ao salvar usuário", err, map[string]interface{}{"name": data.Name})
		return err
	}

	h.session.Set(user)

	event := NewUserSignedUpEvent("user " + user.Name + " signed up")
	if err := h.eventBus.Publish(ctx, event); err != nil {
		pkgApp.LogError(ctx, h.logger, "erro ao publicar evento", err, nil)
		return err
	}

	h.logger.Info(ctx, "usuário cadastrado com sucesso", map[string]interface{}{"user_id": user.UserID})
	return nil
}

func NewSignUpUserHandler(
	eventBus pkgApp.EventBus[pkgDomain.Event[string], string],
	repo domain.UserRepository,
	hasher domain.PasswordHasher,
	session *domain.Session,
	idGenerator pkgDomain.IDGenerator[string],
	logger pkgApp.AppLogger,
) pkgApp.CommandHandler[pkgDomain.Command[SignUpUserData], SignUpUserData] {
	return &signUpUserHandler{
		eventBus:    eventBus,
		repository:  repo,
		hasher:      hasher,
		session:     session,
		idGenerator: idGenerator,
		logger:      logger,
	}
}

type authenticateUserHandler struct {
	repository domain.UserRepository
	hasher     domain.PasswordHasher
	session    *domain.Session
	logger     pkgApp.AppLogger
}

func (h *authenticateUserHandler) Handle(ctx context.Context, query pkgDomain.Query[AuthenticateUserData]) (domain.User, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "contexto cancelado", ctx.Err(), nil)
		return domain.User{}, ctx.Err()
	}

	data := query.Payload()
	user, err := h.repository.FindByName(ctx, data.Name)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, err
	}

	if !h.hasher.Verify(data.Password, user.HashedPassword) {
		h.logger.Info(ctx, "senha incorreta", map[string]interface{}{"name": data.Name})
		return domain.User{}, domain.ErrInvalidCredentials
	}

	h.session.Set(user)
	h.logger.Info(ctx, "usuário autenticado", map[string]interface{}{"user_id": user.UserID})
	return user, nil
}

func NewAuthenticateUserHandler(
	repo domain.UserRepository,
	hasher domain.PasswordHasher,
	session *domain.Session,
	logger pkgApp.AppLogger,
) pkgApp.QueryHandler[pkgDomain.Query[AuthenticateUserData], AuthenticateUserData, domain.User] {
	return &authenticateUserHandler{
		repository: repo,
		hasher:     hasher,
		session:    session,
		logger:     logger,
	}
}
