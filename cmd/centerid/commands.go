package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ceyewan/centerid/idgen"
	"github.com/ceyewan/centerid/xerrors"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create bookkeeping tables and install this center.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			conn, err := a.database(ctx)
			if err != nil {
				return err
			}
			if err := idgen.EnsureSchema(ctx, conn.GetClient(), &a.cfg.IDGen); err != nil {
				return err
			}
			gen, err := a.generator(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "center_id: %d\n", gen.CenterID())
			fmt.Fprintf(out, "fresh_install: %t\n", gen.IsFreshInstall())
			return nil
		},
	}
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the center id, install time and id range of this center.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen, err := a.generator(cmd.Context())
			if err != nil {
				return err
			}
			installed, err := gen.InstallTimestamp()
			if err != nil {
				return err
			}
			p := gen.Partition()
			c := gen.CenterID()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "center_id: %d\n", c)
			fmt.Fprintf(out, "installed: %s\n", installed.Format(time.RFC3339))
			fmt.Fprintf(out, "range: %d-%d\n", p.MinID(c), p.MaxID(c))
			return nil
		},
	}
}

func newNextCmd(a *app) *cobra.Command {
	var (
		table, column, where, prefix string
		count                        int
	)
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Allocate ids for a table in this center's range.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 1 {
				return xerrors.WithCode(xerrors.ErrInvalidInput, "count_must_be_positive")
			}
			ctx := cmd.Context()
			gen, err := a.generator(ctx)
			if err != nil {
				return err
			}

			var opts []idgen.NextOption
			if cmd.Flags().Changed("where") {
				opts = append(opts, idgen.WithWhere(where))
			}
			if prefix != "" {
				opts = append(opts, idgen.WithPrefix(prefix))
			}
			for range count {
				id, err := gen.NextID(ctx, table, column, opts...)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "table name")
	cmd.Flags().StringVar(&column, "column", "id", "id column")
	cmd.Flags().StringVar(&where, "where", "", "where clause selecting a logical sequence")
	cmd.Flags().StringVar(&prefix, "prefix", "", "table prefix of the data table")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of ids to allocate")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}

func newLinearCmd(a *app) *cobra.Command {
	var table, column string
	cmd := &cobra.Command{
		Use:   "linear",
		Short: "Allocate the smallest unused non-negative id of a table.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			gen, err := a.generator(ctx)
			if err != nil {
				return err
			}
			id, err := gen.NextLinearID(ctx, table, column)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "table name")
	cmd.Flags().StringVar(&column, "column", "id", "id column")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}

func newCapacityCmd(a *app) *cobra.Command {
	var table, field string
	cmd := &cobra.Command{
		Use:   "capacity",
		Short: "Show the declared capacity of a field.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			gen, err := a.generator(ctx)
			if err != nil {
				return err
			}
			n, err := gen.FieldCapacity(ctx, table, field)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "table name, optionally SCHEMA.TABLE")
	cmd.Flags().StringVar(&field, "field", "", "field name")
	_ = cmd.MarkFlagRequired("table")
	_ = cmd.MarkFlagRequired("field")
	return cmd
}

// newDecodeCmd 只做区间换算，不访问数据库
func newDecodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <id>...",
		Short: "Print the center and offset of ids.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := idgen.NewPartition(a.cfg.IDGen.Range)
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return xerrors.Wrapf(xerrors.ErrInvalidInput, "id %q", arg)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d center=%d offset=%d\n", id, p.CenterOf(id), p.Offset(id))
			}
			return nil
		},
	}
}
