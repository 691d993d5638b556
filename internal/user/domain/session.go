package domain

import "sync"

// Session guarda o usuário autenticado do processo. É um objeto explícito
// passado aos manipuladores, não um estado global; sobrescrito a cada login ou
// cadastro e nunca persistido.
type Session struct {
	mu      sync.RWMutex
	current *User
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) Set(user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &user
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Current devolve uma cópia do usuário da sessão, se houver.
func (s *Session) Current() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return User{}, false
	}
	return *s.current, true
}
