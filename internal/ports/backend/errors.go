package backend

import "fmt"

// Kind clasifica errores del backend sin depender del texto del mensaje.
type Kind string

const (
	KindInvalidCredentials Kind = "invalid_credentials"
	KindEmailTaken         Kind = "email_taken"
	KindNoData             Kind = "no_data"
	KindUnavailable        Kind = "unavailable"
	KindUnauthorized       Kind = "unauthorized"
	KindUpstream           Kind = "upstream"
)

// Error es el error estructurado que devuelve cualquier binding (live o mock).
// Los callers lo reciben tal cual; no se traduce ni se envuelve.
type Error struct {
	Kind    Kind
	Message string
	Status  int // HTTP status del backend, 0 si no aplica
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("backend: %s (status=%d)", e.Message, e.Status)
	}
	return "backend: " + e.Message
}

// Errf construye un Error con mensaje formateado.
func Errf(kind Kind, status int, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Status:  status,
		Message: fmt.Sprintf(format, args...),
	}
}

// KindOf extrae el Kind de un error, o "" si no es un *Error.
func KindOf(err error) Kind {
	if be, ok := err.(*Error); ok {
		return be.Kind
	}
	return ""
}
