package store

import (
	"github.com/pkg/errors"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNilKey          = errors.Wrap(ErrInvalidArgument, "nil key")
	ErrIndexOutOfRange = errors.Wrap(ErrInvalidArgument, "index out of range")

	ErrDuplicateKey = errors.New("duplicate key")
	ErrKeyNotFound  = errors.New("key not found")

	ErrWrongType = errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")
)
