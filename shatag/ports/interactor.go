package ports

// Interactor is where user-facing results go: status lines on Output,
// problems on Warning and Error.
type Interactor interface {
	Output(message string)
	Warning(message string)
	Error(message string, err error)
}
