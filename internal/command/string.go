package command

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/lojhan/custom-collections/internal/resp"
	"github.com/lojhan/custom-collections/internal/store"
)

func SetCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) < 2 {
			return wrongArgs("set")
		}

		strs, ok := stringArgs(args)
		if !ok {
			return errInvalidType
		}
		key, value := strs[0], strs[1]

		nx, xx := false, false
		for _, option := range strs[2:] {
			switch strings.ToUpper(option) {
			case "NX":
				nx = true
			case "XX":
				xx = true
			default:
				return errSyntax
			}
		}

		if nx && xx {
			return errSyntax
		}

		var (
			applied = true
			err     error
		)
		switch {
		case nx:
			applied, err = s.SetNX(key, value)
		case xx:
			applied, err = s.SetXX(key, value)
		default:
			err = s.Set(key, value)
		}
		if err != nil {
			return errorReply(err)
		}
		if !applied {
			return resp.NullBulkStringValue()
		}
		return resp.OKValue()
	}
}

func SetNXCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) != 2 {
			return wrongArgs("setnx")
		}

		strs, ok := stringArgs(args)
		if !ok {
			return errInvalidType
		}

		set, err := s.SetNX(strs[0], strs[1])
		if err != nil {
			return errorReply(err)
		}
		if set {
			return resp.IntegerValue(1)
		}
		return resp.IntegerValue(0)
	}
}

func GetCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) != 1 {
			return wrongArgs("get")
		}

		if args[0].Type != resp.BulkString {
			return errInvalidType
		}

		value, err := s.Get(args[0].Str)
		if errors.Is(err, store.ErrKeyNotFound) {
			return resp.NullBulkStringValue()
		}
		if err != nil {
			return errorReply(err)
		}
		return resp.BulkStringValue(value)
	}
}

func DelCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) == 0 {
			return wrongArgs("del")
		}

		keys, ok := stringArgs(args)
		if !ok {
			return errInvalidType
		}

		return resp.IntegerValue(s.Delete(keys...))
	}
}

func ExistsCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) == 0 {
			return wrongArgs("exists")
		}

		keys, ok := stringArgs(args)
		if !ok {
			return errInvalidType
		}

		return resp.IntegerValue(s.Exists(keys...))
	}
}

func TypeCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) != 1 {
			return wrongArgs("type")
		}

		if args[0].Type != resp.BulkString {
			return errInvalidType
		}

		typ, ok := s.Type(args[0].Str)
		if !ok {
			return resp.SimpleStringValue("none")
		}
		return resp.SimpleStringValue(typ.String())
	}
}

// KeysCommand only supports the match-everything pattern.
func KeysCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) != 1 {
			return wrongArgs("keys")
		}

		if args[0].Type != resp.BulkString || args[0].Str != "*" {
			return resp.ErrorValue("ERR only the '*' pattern is supported")
		}

		return resp.BulkStrings(s.Keys())
	}
}

func DBSizeCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) != 0 {
			return wrongArgs("dbsize")
		}
		return resp.IntegerValue(int64(s.DBSize()))
	}
}

func FlushDBCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		s.FlushDB()
		return resp.OKValue()
	}
}
