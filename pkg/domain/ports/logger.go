package ports

// Logger define a interface para logging estruturado.
// args segue a convenção chave/valor do slog ("code", "COMMON_400", ...).
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	With(args ...any) Logger
}
