package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/socialhub/go-services/internal/credentials"
	"github.com/socialhub/go-services/internal/database"
)

type mongoFlags struct {
	uri      string
	database string
	timeout  time.Duration
}

func newRootCmd() *cobra.Command {
	mf := &mongoFlags{}
	cmd := &cobra.Command{
		Use:          "credential",
		Short:        "Manage login credentials for the socialhub service",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&mf.uri, "mongo-uri", os.Getenv("MONGODB_URI"), "MongoDB connection URI")
	cmd.PersistentFlags().StringVar(&mf.database, "database", envOr("MONGODB_DATABASE", "socialhub"), "MongoDB database")
	cmd.PersistentFlags().DurationVar(&mf.timeout, "timeout", 10*time.Second, "connect timeout")

	cmd.AddCommand(newHashCmd(), newPutCmd(mf), newDeleteCmd(mf))
	return cmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func readSecret(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	secret := strings.TrimSpace(string(b))
	if secret == "" {
		return "", fmt.Errorf("empty secret on stdin")
	}
	return secret, nil
}

func newHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash",
		Short: "Print the argon2id hash of the secret read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := readSecret(cmd.InOrStdin())
			if err != nil {
				return err
			}
			hash, err := credentials.NewHasher(credentials.DefaultParams).Hash(secret)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}

func withStore(ctx context.Context, mf *mongoFlags, fn func(*credentials.MongoStore) error) error {
	if mf.uri == "" {
		return fmt.Errorf("--mongo-uri (or MONGODB_URI) is required")
	}
	client, err := database.ConnectMongo(ctx, mf.uri, mf.timeout)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	col := client.Database(mf.database).Collection(credentials.Collection)
	return fn(credentials.NewMongoStore(col, credentials.NewHasher(credentials.DefaultParams)))
}

func newPutCmd(mf *mongoFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "put <identity>",
		Short: "Create or replace a credential; the secret is read from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := readSecret(cmd.InOrStdin())
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), mf, func(s *credentials.MongoStore) error {
				if err := s.Upsert(cmd.Context(), args[0], secret); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "stored credential for %s\n", args[0])
				return err
			})
		},
	}
}

func newDeleteCmd(mf *mongoFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <identity>",
		Short: "Remove a stored credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), mf, func(s *credentials.MongoStore) error {
				if err := s.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted credential for %s\n", args[0])
				return err
			})
		},
	}
}
