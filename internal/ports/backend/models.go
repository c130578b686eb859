package backend

import "time"

// Identity es la identidad autenticada que entrega el backend (live o mock).
type Identity struct {
	ID        string
	Email     string
	Metadata  map[string]string // user metadata adjunta al sign-up (full_name, role, phone)
	CreatedAt time.Time
}

// Session es el token de sesión + identidad, con la misma forma en ambos bindings.
type Session struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int // segundos; 0 = sin expiración conocida
	User        Identity
}
