package application

import (
	pkgDomain "github.com/mateusmacedo/go-railbooking/pkg/domain"
)

// AuthenticateUserData contém as credenciais de login.
type AuthenticateUserData struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type authenticateUserQuery struct {
	data AuthenticateUserData
}

func (q authenticateUserQuery) QueryName() string {
	return "AuthenticateUser"
}

func (q authenticateUserQuery) Payload() AuthenticateUserData {
	return q.data
}

func NewAuthenticateUserQuery(data AuthenticateUserData) pkgDomain.Query[AuthenticateUserData] {
	return authenticateUserQuery{data: data}
}
