package command

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/lojhan/custom-collections/internal/resp"
	"github.com/lojhan/custom-collections/internal/store"
)

func LPushCommand(s *store.Store) resp.Handler {
	return pushCommand("lpush", s.LPush)
}

func RPushCommand(s *store.Store) resp.Handler {
	return pushCommand("rpush", s.RPush)
}

func pushCommand(name string, push func(key string, values ...string) (int64, error)) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) < 2 {
			return wrongArgs(name)
		}

		strs, ok := stringArgs(args)
		if !ok {
			return errInvalidType
		}

		length, err := push(strs[0], strs[1:]...)
		if err != nil {
			return errorReply(err)
		}
		return resp.IntegerValue(length)
	}
}

func LPopCommand(s *store.Store) resp.Handler {
	return popCommand("lpop", s.LPop)
}

func RPopCommand(s *store.Store) resp.Handler {
	return popCommand("rpop", s.RPop)
}

func popCommand(name string, pop func(key string) (string, error)) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) != 1 {
			return wrongArgs(name)
		}

		if args[0].Type != resp.BulkString {
			return errInvalidType
		}

		value, err := pop(args[0].Str)
		if errors.Is(err, store.ErrKeyNotFound) {
			return resp.NullBulkStringValue()
		}
		if err != nil {
			return errorReply(err)
		}
		return resp.BulkStringValue(value)
	}
}

func LLenCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) != 1 {
			return wrongArgs("llen")
		}

		if args[0].Type != resp.BulkString {
			return errInvalidType
		}

		length, err := s.LLen(args[0].Str)
		if err != nil {
			return errorReply(err)
		}
		return resp.IntegerValue(length)
	}
}

func LIndexCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) != 2 {
			return wrongArgs("lindex")
		}

		strs, ok := stringArgs(args)
		if !ok {
			return errInvalidType
		}

		index, ok := parseInt(strs[1])
		if !ok {
			return errNotInteger
		}

		value, err := s.LIndex(strs[0], index)
		if errors.Is(err, store.ErrKeyNotFound) || errors.Is(err, store.ErrIndexOutOfRange) {
			return resp.NullBulkStringValue()
		}
		if err != nil {
			return errorReply(err)
		}
		return resp.BulkStringValue(value)
	}
}

func LSetCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) != 3 {
			return wrongArgs("lset")
		}

		strs, ok := stringArgs(args)
		if !ok {
			return errInvalidType
		}

		index, ok := parseInt(strs[1])
		if !ok {
			return errNotInteger
		}

		if err := s.LSet(strs[0], index, strs[2]); err != nil {
			return errorReply(err)
		}
		return resp.OKValue()
	}
}

// LInsertCommand implements LINSERT key BEFORE|AFTER pivot element.
func LInsertCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) != 4 {
			return wrongArgs("linsert")
		}

		strs, ok := stringArgs(args)
		if !ok {
			return errInvalidType
		}

		var before bool
		switch strings.ToUpper(strs[1]) {
		case "BEFORE":
			before = true
		case "AFTER":
			before = false
		default:
			return errSyntax
		}

		length, err := s.LInsert(strs[0], before, strs[2], strs[3])
		if err != nil {
			return errorReply(err)
		}
		return resp.IntegerValue(length)
	}
}

func LRemCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) != 3 {
			return wrongArgs("lrem")
		}

		strs, ok := stringArgs(args)
		if !ok {
			return errInvalidType
		}

		count, ok := parseInt(strs[1])
		if !ok {
			return errNotInteger
		}

		removed, err := s.LRem(strs[0], count, strs[2])
		if err != nil {
			return errorReply(err)
		}
		return resp.IntegerValue(removed)
	}
}

func LRangeCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) != 3 {
			return wrongArgs("lrange")
		}

		strs, ok := stringArgs(args)
		if !ok {
			return errInvalidType
		}

		start, ok := parseInt(strs[1])
		if !ok {
			return errNotInteger
		}
		stop, ok := parseInt(strs[2])
		if !ok {
			return errNotInteger
		}

		values, err := s.LRange(strs[0], start, stop)
		if err != nil {
			return errorReply(err)
		}
		return resp.BulkStrings(values)
	}
}

func LPosCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) != 2 {
			return wrongArgs("lpos")
		}

		strs, ok := stringArgs(args)
		if !ok {
			return errInvalidType
		}

		index, err := s.LPos(strs[0], strs[1])
		if err != nil {
			return errorReply(err)
		}
		if index < 0 {
			return resp.NullBulkStringValue()
		}
		return resp.IntegerValue(index)
	}
}
