package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies failures so callers can map them without string matching.
type Kind int

const (
	KindUnknown Kind = iota
	KindDuplicateKey
	KindNotFound
	KindInsufficientStock
	KindValidation
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindDuplicateKey:
		return "duplicate_key"
	case KindNotFound:
		return "not_found"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindValidation:
		return "validation"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. Every *Error matches the sentinel of its Kind.
var (
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrValidation        = errors.New("validation failed")
	ErrStorage           = errors.New("storage failure")
)

type Error struct {
	Kind    Kind
	Op      string // e.g. "product.Create"
	Entity  string
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Field)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return sentinel(e.Kind) == target
}

func sentinel(k Kind) error {
	switch k {
	case KindDuplicateKey:
		return ErrDuplicateKey
	case KindNotFound:
		return ErrNotFound
	case KindInsufficientStock:
		return ErrInsufficientStock
	case KindValidation:
		return ErrValidation
	case KindStorage:
		return ErrStorage
	}
	return nil
}

// KindOf returns the kind of the first *Error in the chain.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

func DuplicateKey(op, entity, field string, err error) error {
	return &Error{Kind: KindDuplicateKey, Op: op, Entity: entity, Field: field, Message: entity + " " + field + " already exists", Err: err}
}

func NotFound(op, entity string, id int64) error {
	return &Error{Kind: KindNotFound, Op: op, Entity: entity, Message: fmt.Sprintf("%s %d not found", entity, id)}
}

func InsufficientStock(op string, productID int64, name string, available, requested int) error {
	return &Error{
		Kind:    KindInsufficientStock,
		Op:      op,
		Entity:  "product",
		Message: fmt.Sprintf("insufficient stock for product %d %q: available %d, requested %d", productID, name, available, requested),
	}
}

func Validation(op, field, message string) error {
	return &Error{Kind: KindValidation, Op: op, Field: field, Message: message}
}

// Storage wraps an engine error. Errors that already carry a kind are returned unchanged.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != KindUnknown {
		return err
	}
	return &Error{Kind: KindStorage, Op: op, Err: err}
}
