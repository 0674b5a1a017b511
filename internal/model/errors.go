package model

import "errors"

// Error taxonomy shared by every component. Callers match with errors.Is;
// concrete failures wrap one of these with fmt.Errorf("%w: ...").
var (
	// ErrStorage means the persisted state document could not be read or written.
	ErrStorage = errors.New("storage error")
	// ErrModelLoad means the classifier snapshot could not be located or compiled.
	ErrModelLoad = errors.New("model load error")
	// ErrEncoding means the intent text could not be turned into a feature vector.
	ErrEncoding = errors.New("encoding error")
	// ErrInference means scoring failed or was abandoned.
	ErrInference = errors.New("classifier inference error")
	// ErrInvalidInput means a caller supplied a value the gate cannot use.
	ErrInvalidInput = errors.New("invalid input")
)
