package domain

// Command representa uma intenção de mudança de estado no sistema.
type Command[T any] interface {
	CommandName() string
	Payload() T
}
