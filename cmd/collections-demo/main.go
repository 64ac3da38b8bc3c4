package main

import (
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lojhan/custom-collections/internal/logging"
	"github.com/lojhan/custom-collections/internal/store"
)

func main() {
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	logger := logging.New(logging.Config{Debug: *debug})
	defer logger.Sync()

	err := multierr.Combine(
		runHashMap(logger.Named("hashmap")),
		runDynamicArray(logger.Named("array")),
	)
	if err != nil {
		for _, e := range multierr.Errors(err) {
			logger.Error("demo step failed", zap.Error(e))
		}
		logger.Sync()
		os.Exit(1)
	}
}

func runHashMap(logger *zap.Logger) error {
	table := store.NewHashMap[int, int]()

	err := table.InsertAll(
		store.Entry[int, int]{Key: 1, Value: 1},
		store.Entry[int, int]{Key: 2, Value: 2},
		store.Entry[int, int]{Key: 3, Value: 3},
		store.Entry[int, int]{Key: 4, Value: 4},
		store.Entry[int, int]{Key: 6, Value: 5},
	)
	if err != nil {
		return err
	}

	logger.Info("inserted", zap.Int("count", table.Len()), zap.Int("capacity", table.Cap()))
	logger.Info("contains key 5", zap.Bool("found", table.ContainsKey(5)))
	logger.Info("remove key 2", zap.Bool("removed", table.Remove(2)))

	if err := table.Insert(6, 6); err != nil {
		logger.Info("duplicate insert rejected", zap.Error(err))
	}

	for k, v := range table.All() {
		logger.Info("entry", zap.Int("key", k), zap.Int("value", v))
	}
	return nil
}

func runDynamicArray(logger *zap.Logger) error {
	array := store.NewDynamicArray[int]()
	for _, v := range []int{1, 3, 4, 5, 6} {
		array.Add(v)
	}

	logger.Info("contains 3", zap.Bool("found", array.Contains(3)))
	logger.Info("remove 3", zap.Bool("removed", array.Remove(3)))

	err := multierr.Append(array.Insert(1, 2), array.RemoveAt(2))
	logger.Info("final sequence", zap.Ints("items", array.ToSlice()))
	return err
}
