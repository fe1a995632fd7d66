// Package kv implements the tempo kv subcommands.
package kv

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tempo/internal/cli"
	kvstore "github.com/thenoetrevino/tempo/internal/kv"
)

// KVCmd returns the kv parent command
func KVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kv",
		Short: "Read and write stored preferences",
		Long:  "The key/value store keeps small UI preferences such as the overlay pin state.",
	}

	cmd.AddCommand(GetCmd())
	cmd.AddCommand(SetCmd())
	cmd.AddCommand(DeleteCmd())
	cmd.AddCommand(ListCmd())

	return cmd
}

// GetCmd returns the kv get subcommand
func GetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print the value stored at key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := cli.NewFormatter(cmd)
			def, _ := cmd.Flags().GetString("default")

			store, err := openStore(cmd, formatter)
			if err != nil {
				return err
			}
			value, err := store.Get(args[0], def)
			if err != nil {
				return formatter.Fail(cli.ExitCode(err), "KV_ERROR", err, "")
			}

			if formatter.JSON {
				return formatter.Success(map[string]string{"key": args[0], "value": value})
			}
			fmt.Fprintln(formatter.Out, value)
			return nil
		},
	}

	cmd.Flags().String("default", "", "Value printed when the key is not set")
	cli.AddOutputFlags(cmd.Flags())
	return cmd
}

// SetCmd returns the kv set subcommand
func SetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store value at key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := cli.NewFormatter(cmd)

			store, err := openStore(cmd, formatter)
			if err != nil {
				return err
			}
			if err := store.Set(args[0], args[1]); err != nil {
				return formatter.Fail(cli.ExitCode(err), "KV_ERROR", err, "")
			}

			if formatter.JSON {
				return formatter.Success(map[string]string{"key": args[0], "value": args[1]})
			}
			formatter.Printf("✓ %s set\n", args[0])
			return nil
		},
	}

	cli.AddOutputFlags(cmd.Flags())
	return cmd
}

// DeleteCmd returns the kv delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := cli.NewFormatter(cmd)

			store, err := openStore(cmd, formatter)
			if err != nil {
				return err
			}
			if err := store.Delete(args[0]); err != nil {
				return formatter.Fail(cli.ExitCode(err), "KV_ERROR", err, "")
			}

			if formatter.JSON {
				return formatter.Success(map[string]string{"key": args[0]})
			}
			formatter.Printf("✓ %s deleted\n", args[0])
			return nil
		},
	}

	cli.AddOutputFlags(cmd.Flags())
	return cmd
}

// ListCmd returns the kv list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := cli.NewFormatter(cmd)

			store, err := openStore(cmd, formatter)
			if err != nil {
				return err
			}
			keys := store.Keys(cmd.Context())

			if formatter.JSON {
				return formatter.Success(keys)
			}
			for _, k := range keys {
				fmt.Fprintln(formatter.Out, k)
			}
			return nil
		},
	}

	cli.AddOutputFlags(cmd.Flags())
	return cmd
}

func openStore(cmd *cobra.Command, formatter *cli.OutputFormatter) (*kvstore.Store, error) {
	store, err := cli.KVFromContext(cmd.Context())
	if err != nil {
		return nil, formatter.Fail(cli.ExitDataErr, "CONFIG_ERROR", err, "Check your tempo config file")
	}
	return store, nil
}
