package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-railbooking/internal/user/application"
	"github.com/mateusmacedo/go-railbooking/internal/user/domain"
	pkgApp "github.com/mateusmacedo/go-railbooking/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbooking/pkg/domain"
)

type UserHTTPHandler struct {
	commandBus pkgApp.CommandBus[pkgDomain.Command[application.SignUpUserData], application.SignUpUserData]
	queryBus   pkgApp.QueryBus[pkgDomain.Query[application.AuthenticateUserData], application.AuthenticateUserData, domain.User]
	session    *domain.Session
}

func NewUserHTTPHandler(
	commandBus pkgApp.CommandBus[pkgDomain.Command[application.SignUpUserData], application.SignUpUserData],
	queryBus pkgApp.QueryBus[pkgDomain.Query[application.AuthenticateUserData], application.AuthenticateUserData, domain.User],
	session *domain.Session,
) *UserHTTPHandler {
	return &UserHTTPHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		session:    session,
	}
}

// userResponse omite o digest da senha nas respostas.
type userResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

func (h *UserHTTPHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var data application.SignUpUserData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		handleError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	command := application.NewSignUpUserCommand(data)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.commandBus.Dispatch(ctx, command); err != nil {
		if errors.Is(err, domain.ErrNameTaken) {
			handleError(w, err.Error(), http.StatusConflict)
			return
		}
		handleError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{"message": "User signed up"}
	if user, ok := h.session.Current(); ok {
		response["user"] = userResponse{UserID: user.UserID, Name: user.Name}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		handleError(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *UserHTTPHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var data application.AuthenticateUserData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		handleError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	query := application.NewAuthenticateUserQuery(data)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := h.queryBus.Dispatch(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			handleError(w, err.Error(), http.StatusUnauthorized)
			return
		}
		handleError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(userResponse{UserID: user.UserID, Name: user.Name}); err != nil {
		handleError(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *UserHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Post("/users", h.HandleSignUp)
	router.Post("/sessions", h.HandleLogin)
}

func handleError(w http.ResponseWriter, message string, statusCode int) {
	http.Error(w, message, statusCode)
}
