package schema_registry

import (
	"errors"
	"fmt"
)

// ErrSubjectNotFound is returned when a subject has no registered versions.
var ErrSubjectNotFound = errors.New("schema_registry: subject not found")

// IsSubjectNotFound checks if the error indicates a missing subject.
func IsSubjectNotFound(err error) bool {
	return errors.Is(err, ErrSubjectNotFound)
}

// Registry error codes from the Confluent HTTP API that map to a missing
// subject or version.
const (
	errCodeSubjectNotFound = 40401
	errCodeVersionNotFound = 40402
)

// RegistrationError is returned when the registry rejects a schema POST.
// It carries the raw status and body so broker/registry misconfiguration is
// diagnosable without additional tooling.
type RegistrationError struct {
	Subject    string
	StatusCode int
	Body       string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("schema_registry: registering schema for subject %q failed with status %d: %s",
		e.Subject, e.StatusCode, e.Body)
}
