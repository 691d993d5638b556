package domain

// PasswordHasher é o colaborador de hashing de senhas. Os manipuladores nunca
// inspecionam o algoritmo.
type PasswordHasher interface {
	Hash(raw string) (string, error)
	Verify(raw, digest string) bool
}
