package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"photomanager/internal/app"
	"photomanager/internal/channel"
	"photomanager/internal/handlers"
)

var errNotImplemented = errors.New("method not implemented")

func newListCmd() *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Run one channel invocation and print the reply envelope",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			a, err := app.New(cmd.Context(), cfg, log, app.Deps{})
			if err != nil {
				return err
			}
			defer a.Close()

			reply, err := invoke(cmd.Context(), a.Registry, method)
			if err != nil {
				return err
			}
			if len(reply) == 0 {
				return fmt.Errorf("%s: %w", method, errNotImplemented)
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(reply))

			decoded, err := channel.DecodeReply(reply)
			if err != nil {
				return err
			}
			if decoded.Kind == channel.ReplyError {
				return fmt.Errorf("%s: %s", decoded.Code, decoded.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&method, "method", "m", handlers.MethodGetImagePaths, "channel method to call")
	return cmd
}

func invoke(ctx context.Context, reg *channel.Registry, method string) ([]byte, error) {
	payload, err := channel.EncodeMethodCall(channel.MethodCall{Method: method})
	if err != nil {
		return nil, err
	}

	replies := make(chan []byte, 1)
	reg.HandleMessage(ctx, payload, func(b []byte) { replies <- b })
	return <-replies, nil
}
