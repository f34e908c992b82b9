package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newSchemaCommand(a *app) *cobra.Command {
	schema := &cobra.Command{
		Use:   "schema",
		Short: "Manage the database schema",
	}

	schema.AddCommand(&cobra.Command{
		Use:   "upgrade",
		Short: "Apply migrations of the schema repository not applied yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.schemaRepo == "" {
				return errors.New("schema repository is not specified (--schema-repo or $TODOFAB_SCHEMA)")
			}
			_, todo, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer todo.Close()

			db := todo.Schema().Database()
			if err := db.Upgrade(cmd.Context()); err != nil {
				return err
			}
			v, err := db.Version(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema is upgraded to version %d\n", v)
			return nil
		},
	})

	schema.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show schema versions of the database and the repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, todo, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer todo.Close()

			db := todo.Schema().Database()
			current, err := db.Version(cmd.Context())
			if err != nil {
				return err
			}
			latest, err := db.Latest()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "database: %d\nrepository: %d\n", current, latest)
			return nil
		},
	})

	return schema
}
