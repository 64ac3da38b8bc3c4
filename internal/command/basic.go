package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/lojhan/custom-collections/internal/resp"
	"github.com/lojhan/custom-collections/internal/store"
)

type Registrar interface {
	RegisterCommand(name string, handler resp.Handler)
}

// Register installs every command backed by s.
func Register(r Registrar, s *store.Store) {
	r.RegisterCommand("PING", PingCommand)
	r.RegisterCommand("ECHO", EchoCommand)
	r.RegisterCommand("COMMAND", CommandCommand)
	r.RegisterCommand("INFO", InfoCommand(s))

	r.RegisterCommand("SET", SetCommand(s))
	r.RegisterCommand("SETNX", SetNXCommand(s))
	r.RegisterCommand("GET", GetCommand(s))
	r.RegisterCommand("DEL", DelCommand(s))
	r.RegisterCommand("EXISTS", ExistsCommand(s))
	r.RegisterCommand("TYPE", TypeCommand(s))
	r.RegisterCommand("KEYS", KeysCommand(s))
	r.RegisterCommand("DBSIZE", DBSizeCommand(s))
	r.RegisterCommand("FLUSHDB", FlushDBCommand(s))

	r.RegisterCommand("HSET", HSetCommand(s))
	r.RegisterCommand("HSETNX", HSetNXCommand(s))
	r.RegisterCommand("HGET", HGetCommand(s))
	r.RegisterCommand("HDEL", HDelCommand(s))
	r.RegisterCommand("HEXISTS", HExistsCommand(s))
	r.RegisterCommand("HLEN", HLenCommand(s))
	r.RegisterCommand("HGETALL", HGetAllCommand(s))
	r.RegisterCommand("HKEYS", HKeysCommand(s))
	r.RegisterCommand("HVALS", HValsCommand(s))

	r.RegisterCommand("LPUSH", LPushCommand(s))
	r.RegisterCommand("RPUSH", RPushCommand(s))
	r.RegisterCommand("LPOP", LPopCommand(s))
	r.RegisterCommand("RPOP", RPopCommand(s))
	r.RegisterCommand("LLEN", LLenCommand(s))
	r.RegisterCommand("LINDEX", LIndexCommand(s))
	r.RegisterCommand("LSET", LSetCommand(s))
	r.RegisterCommand("LINSERT", LInsertCommand(s))
	r.RegisterCommand("LREM", LRemCommand(s))
	r.RegisterCommand("LRANGE", LRangeCommand(s))
	r.RegisterCommand("LPOS", LPosCommand(s))

	r.RegisterCommand("SADD", SAddCommand(s))
	r.RegisterCommand("SREM", SRemCommand(s))
	r.RegisterCommand("SISMEMBER", SIsMemberCommand(s))
	r.RegisterCommand("SMEMBERS", SMembersCommand(s))
	r.RegisterCommand("SCARD", SCardCommand(s))
	r.RegisterCommand("SPOP", SPopCommand(s))
}

func PingCommand(args []resp.Value) resp.Value {
	if len(args) == 0 {
		return resp.PongValue()
	}

	if len(args) > 1 {
		return wrongArgs("ping")
	}

	if args[0].Type != resp.BulkString {
		return resp.ErrorValue("ERR invalid argument type")
	}

	return args[0]
}

func EchoCommand(args []resp.Value) resp.Value {
	if len(args) != 1 {
		return wrongArgs("echo")
	}

	if args[0].Type != resp.BulkString {
		return resp.ErrorValue("ERR invalid argument type")
	}

	return args[0]
}

func CommandCommand(args []resp.Value) resp.Value {
	return resp.ArrayValue()
}

func InfoCommand(s *store.Store) resp.Handler {
	return func(args []resp.Value) resp.Value {
		section := "keyspace"
		if len(args) > 0 && args[0].Type == resp.BulkString {
			section = strings.ToLower(args[0].Str)
		}

		stats := s.Stats()
		var b strings.Builder
		switch section {
		case "stats":
			b.WriteString("# Stats\r\n")
			fmt.Fprintf(&b, "keyspace_hits:%d\r\n", stats.Hits)
			fmt.Fprintf(&b, "keyspace_misses:%d\r\n", stats.Misses)
			fmt.Fprintf(&b, "keyspace_writes:%d\r\n", stats.Writes)
		case "keyspace":
			b.WriteString("# Keyspace\r\n")
			fmt.Fprintf(&b, "keys:%d\r\n", stats.Keys)
			fmt.Fprintf(&b, "buckets:%d\r\n", stats.Buckets)
			fmt.Fprintf(&b, "load_factor:%s\r\n", strconv.FormatFloat(stats.LoadFactor, 'f', 3, 64))
		default:
			return resp.ErrorValue("ERR unknown INFO section '" + section + "'")
		}

		return resp.BulkStringValue(b.String())
	}
}

func wrongArgs(name string) resp.Value {
	return resp.ErrorValue("ERR wrong number of arguments for '" + name + "' command")
}

// stringArgs returns the arguments as strings, failing if any is not a bulk
// string.
func stringArgs(args []resp.Value) ([]string, bool) {
	strs := make([]string, len(args))
	for i, arg := range args {
		if arg.Type != resp.BulkString || arg.Null {
			return nil, false
		}
		strs[i] = arg.Str
	}
	return strs, true
}

func parseInt(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil
}

func errorReply(err error) resp.Value {
	switch {
	case errors.Is(err, store.ErrWrongType):
		return resp.ErrorValue(store.ErrWrongType.Error())
	case errors.Is(err, store.ErrIndexOutOfRange):
		return resp.ErrorValue("ERR index out of range")
	case errors.Is(err, store.ErrKeyNotFound):
		return resp.ErrorValue("ERR no such key")
	default:
		return resp.ErrorValue("ERR " + err.Error())
	}
}

var (
	errNotInteger  = resp.ErrorValue("ERR value is not an integer or out of range")
	errInvalidType = resp.ErrorValue("ERR invalid argument type")
	errSyntax      = resp.ErrorValue("ERR syntax error")
)
