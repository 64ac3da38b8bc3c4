package command

import (
	"github.com/pkg/errors"

	"github.com/lojhan/custom-collections/internal/resp"
	"github.com/lojhan/custom-collections/internal/store"
)

func SAddCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) < 2 {
			return wrongArgs("sadd")
		}

		strs, ok := stringArgs(args)
		if !ok {
			return errInvalidType
		}

		added, err := s.SAdd(strs[0], strs[1:]...)
		if err != nil {
			return errorReply(err)
		}
		return resp.IntegerValue(added)
	}
}

func SRemCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) < 2 {
			return wrongArgs("srem")
		}

		strs, ok := stringArgs(args)
		if !ok {
			return errInvalidType
		}

		removed, err := s.SRem(strs[0], strs[1:]...)
		if err != nil {
			return errorReply(err)
		}
		return resp.IntegerValue(removed)
	}
}

func SIsMemberCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) != 2 {
			return wrongArgs("sismember")
		}

		strs, ok := stringArgs(args)
		if !ok {
			return errInvalidType
		}

		member, err := s.SIsMember(strs[0], strs[1])
		if err != nil {
			return errorReply(err)
		}
		if member {
			return resp.IntegerValue(1)
		}
		return resp.IntegerValue(0)
	}
}

func SMembersCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) != 1 {
			return wrongArgs("smembers")
		}

		if args[0].Type != resp.BulkString {
			return errInvalidType
		}

		members, err := s.SMembers(args[0].Str)
		if err != nil {
			return errorReply(err)
		}
		return resp.BulkStrings(members)
	}
}

func SCardCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) != 1 {
			return wrongArgs("scard")
		}

		if args[0].Type != resp.BulkString {
			return errInvalidType
		}

		card, err := s.SCard(args[0].Str)
		if err != nil {
			return errorReply(err)
		}
		return resp.IntegerValue(card)
	}
}

func SPopCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		if len(args) != 1 {
			return wrongArgs("spop")
		}

		if args[0].Type != resp.BulkString {
			return errInvalidType
		}

		member, err := s.SPop(args[0].Str)
		if errors.Is(err, store.ErrKeyNotFound) {
			return resp.NullBulkStringValue()
		}
		if err != nil {
			return errorReply(err)
		}
		return resp.BulkStringValue(member)
	}
}
