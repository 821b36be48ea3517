package secret

import "errors"

var (
	// ErrMissingEnv is returned when ${NAME} refers to an unset variable.
	ErrMissingEnv = errors.New("secret: missing environment variable")

	// ErrUnknownProvider is returned for references to unregistered providers.
	ErrUnknownProvider = errors.New("secret: provider not registered")

	// ErrSecretNotFound is returned when a provider has no value for a ref.
	ErrSecretNotFound = errors.New("secret: not found")

	// ErrEmptySecret is returned in strict mode for empty values.
	ErrEmptySecret = errors.New("secret: empty value")

	// ErrInvalidRef is returned for malformed references.
	ErrInvalidRef = errors.New("secret: invalid reference")
)
