// Command strata inspects and mutates a bolt-backed strata store file.
//
// Keys are addressed by zero or more --sub path segments followed by the
// key itself, mirroring how materialized records partition the store.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/strata-kv/strata/bolt"
	"github.com/strata-kv/strata/kv"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type flags struct {
	storePath string
	subs      []string
	verbose   bool
}

func newRootCommand() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:           "strata",
		Short:         "inspect and mutate a strata store file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	viper.SetEnvPrefix("STRATA")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	cmd.PersistentFlags().StringVar(&f.storePath, "store", "strata.db", "path to the boltdb store file")
	cmd.PersistentFlags().StringArrayVar(&f.subs, "sub", nil, "descend into the sub-store at this path segment (repeatable)")
	cmd.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "log store operations")
	_ = viper.BindPFlag("store", cmd.PersistentFlags().Lookup("store"))

	cmd.AddCommand(
		newGetCommand(&f),
		newPutCommand(&f),
		newDeleteCommand(&f),
	)
	return cmd
}

// openStore opens the bolt store and descends into the requested
// sub-stores. The cleanup function closes the underlying file.
func (f *flags) openStore() (kv.Store, func(), error) {
	logger := zap.NewNop()
	if f.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, nil, err
		}
		logger = l
	}

	path := f.storePath
	if v := viper.GetString("store"); v != "" {
		path = v
	}

	s := bolt.NewKVStore(path)
	s.WithLogger(logger)
	if err := s.Open(context.Background()); err != nil {
		return nil, nil, err
	}

	var store kv.Store = s
	for _, seg := range f.subs {
		store = store.Sub([]byte(seg))
	}
	return store, func() { _ = s.Close() }, nil
}

func newGetCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "print the value stored at a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, done, err := f.openStore()
			if err != nil {
				return err
			}
			defer done()

			v, err := store.Get([]byte(args[0]))
			if err != nil {
				return err
			}
			if v == nil {
				return fmt.Errorf("key %q not found", args[0])
			}
			fmt.Printf("%x\n", v)
			return nil
		},
	}
}

func newPutCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "put <key> <value>",
		Short: "set the value stored at a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, done, err := f.openStore()
			if err != nil {
				return err
			}
			defer done()

			return store.Put([]byte(args[0]), []byte(args[1]))
		},
	}
}

func newDeleteCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "remove a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, done, err := f.openStore()
			if err != nil {
				return err
			}
			defer done()

			return store.Delete([]byte(args[0]))
		},
	}
}
