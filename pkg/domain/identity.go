package domain

// IDGenerator gera identificadores únicos para entidades do domínio.
type IDGenerator[T any] func() T
