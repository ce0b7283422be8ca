/*
Copyright © 2025 David Stockton <dave@davidstockton.com>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dstockto/brewctl/fakebackend"
	"github.com/spf13/cobra"
)

var devBackendCmd = &cobra.Command{
	Use:    "dev-backend",
	Short:  "Serve an in-memory brewery backend for local testing",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		seed, _ := cmd.Flags().GetBool("seed")

		store := fakebackend.NewStore()
		if seed {
			store.Seed()
		}
		log := logFor(cmd)
		srv := &http.Server{
			Addr:              addr,
			Handler:           fakebackend.NewServer(store, log).Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		cmd.SilenceUsage = true
		ctx := cmd.Context()
		go func() {
			<-ctx.Done()
			shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdown)
		}()

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Fake backend listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devBackendCmd)
	devBackendCmd.Flags().String("addr", ":8000", "address to listen on")
	devBackendCmd.Flags().Bool("seed", true, "start with sample ingredients and recipes")
}
