package application

import (
	pkgDomain "github.com/mateusmacedo/go-railbooking/pkg/domain"
)

// SignUpUserData contém os dados para criar uma conta.
type SignUpUserData struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type signUpUserCommand struct {
	data SignUpUserData
}

func (c signUpUserCommand) CommandName() string {
	return "SignUpUser"
}

func (c signUpUserCommand) Payload() SignUpUserData {
	return c.data
}

// NewSignUpUserCommand cria um novo comando de cadastro de usuário.
func NewSignUpUserCommand(data SignUpUserData) pkgDomain.Command[SignUpUserData] {
	return signUpUserCommand{data: data}
}
