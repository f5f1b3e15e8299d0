package entity

import "errors"

// Error kinds reported through ErrorClassifier.
const (
	KindValidation = "validation"
	KindNotFound   = "not_found"
	KindInput      = "input"
)

// ErrorClassifier allows errors to declare their classification so callers
// can choose exit codes and hints without matching on messages.
type ErrorClassifier interface {
	ErrorKind() string
}

// KindOf returns the classification of the first error in err's chain that
// implements ErrorClassifier, or "" when none does.
func KindOf(err error) string {
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		return classifier.ErrorKind()
	}
	return ""
}
