package command

import (
	"github.com/pkg/errors"

	"github.com/lojhan/custom-collections/internal/resp"
	"github.com/lojhan/custom-collections/internal/store"
)

func HSetCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) < 3 || len(args)%2 == 0 {
			return wrongArgs("hset")
		}

		strs, ok := stringArgs(args)
		if !ok {
			return errInvalidType
		}

		key := strs[0]
		added := int64(0)
		for i := 1; i < len(strs); i += 2 {
			count, err := s.HSet(key, strs[i], strs[i+1])
			if err != nil {
				return errorReply(err)
			}
			added += count
		}

		return resp.IntegerValue(added)
	}
}

func HSetNXCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) != 3 {
			return wrongArgs("hsetnx")
		}

		strs, ok := stringArgs(args)
		if !ok {
			return errInvalidType
		}

		set, err := s.HSetNX(strs[0], strs[1], strs[2])
		if err != nil {
			return errorReply(err)
		}
		if set {
			return resp.IntegerValue(1)
		}
		return resp.IntegerValue(0)
	}
}

func HGetCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) != 2 {
			return wrongArgs("hget")
		}

		strs, ok := stringArgs(args)
		if !ok {
			return errInvalidType
		}

		value, err := s.HGet(strs[0], strs[1])
		if errors.Is(err, store.ErrKeyNotFound) {
			return resp.NullBulkStringValue()
		}
		if err != nil {
			return errorReply(err)
		}
		return resp.BulkStringValue(value)
	}
}

func HDelCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) < 2 {
			return wrongArgs("hdel")
		}

		strs, ok := stringArgs(args)
		if !ok {
			return errInvalidType
		}

		count, err := s.HDel(strs[0], strs[1:]...)
		if err != nil {
			return errorReply(err)
		}
		return resp.IntegerValue(count)
	}
}

func HExistsCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) != 2 {
			return wrongArgs("hexists")
		}

		strs, ok := stringArgs(args)
		if !ok {
			return errInvalidType
		}

		exists, err := s.HExists(strs[0], strs[1])
		if err != nil {
			return errorReply(err)
		}
		if exists {
			return resp.IntegerValue(1)
		}
		return resp.IntegerValue(0)
	}
}

func HLenCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) != 1 {
			return wrongArgs("hlen")
		}

		if args[0].Type != resp.BulkString {
			return errInvalidType
		}

		length, err := s.HLen(args[0].Str)
		if err != nil {
			return errorReply(err)
		}
		return resp.IntegerValue(length)
	}
}

func HGetAllCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) != 1 {
			return wrongArgs("hgetall")
		}

		if args[0].Type != resp.BulkString {
			return errInvalidType
		}

		entries, err := s.HGetAll(args[0].Str)
		if err != nil {
			return errorReply(err)
		}

		result := make([]resp.Value, 0, len(entries)*2)
		for _, e := range entries {
			result = append(result, resp.BulkStringValue(e.Key), resp.BulkStringValue(e.Value))
		}
		return resp.ArrayValue(result...)
	}
}

func HKeysCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) != 1 {
			return wrongArgs("hkeys")
		}

		if args[0].Type != resp.BulkString {
			return errInvalidType
		}

		fields, err := s.HKeys(args[0].Str)
		if err != nil {
			return errorReply(err)
		}
		return resp.BulkStrings(fields)
	}
}

func HValsCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) != 1 {
			return wrongArgs("hvals")
		}

		if args[0].Type != resp.BulkString {
			return errInvalidType
		}

		values, err := s.HVals(args[0].Str)
		if err != nil {
			return errorReply(err)
		}
		return resp.BulkStrings(values)
	}
}
