package transport

// Notifier is the fire-and-forget sink for user-facing error messages.
type Notifier interface {
	ShowError(title, message string)
}

// NotifierFunc adapts a function to the [Notifier] interface.
type NotifierFunc func(title, message string)

func (f NotifierFunc) ShowError(title, message string) { f(title, message) }

// Navigator forces a navigation, used by the unauthorized-response stage to
// send the user to the login route.
type Navigator interface {
	NavigateTo(path string)
}

// NavigatorFunc adapts a function to the [Navigator] interface.
type NavigatorFunc func(path string)

func (f NavigatorFunc) NavigateTo(path string) { f(path) }
