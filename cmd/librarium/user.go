// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

package main

import (
	"context"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/librarium/librarium/internal/auth"
)

// NewUserCmd creates the user administration command.
func NewUserCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Administer user credentials",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "deactivate ID",
		Short: "Soft-delete a user; their sessions stop verifying immediately",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeactivate(cmd, deps, args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-role ID ROLE",
		Short: "Change a user's role (USER or ADMIN); applies to sessions issued afterwards",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetRole(cmd, deps, args[0], args[1])
		},
	})

	return cmd
}

func parseUserID(rawID string) (ulid.ULID, error) {
	id, err := ulid.ParseStrict(strings.TrimSpace(rawID))
	if err != nil {
		return ulid.ULID{}, oops.Code("INVALID_USER_ID").With("id", rawID).Wrap(err)
	}
	return id, nil
}

func runDeactivate(cmd *cobra.Command, deps *Deps, rawID string) error {
	id, err := parseUserID(rawID)
	if err != nil {
		return err
	}

	return withService(cmd, deps, func(ctx context.Context, svc *auth.Service) error {
		if err := svc.Deactivate(ctx, id); err != nil {
			return err
		}
		cmd.Printf("Deactivated user %s\n", id)
		return nil
	})
}

func runSetRole(cmd *cobra.Command, deps *Deps, rawID, rawRole string) error {
	id, err := parseUserID(rawID)
	if err != nil {
		return err
	}

	role := auth.Role(strings.ToUpper(strings.TrimSpace(rawRole)))
	return withService(cmd, deps, func(ctx context.Context, svc *auth.Service) error {
		user, err := svc.SetRole(ctx, id, role)
		if err != nil {
			return err
		}
		cmd.Printf("Set role of user %s to %s\n", user.ID, user.Role)
		return nil
	})
}

// withService loads configuration, opens the database and runs fn against
// a fully wired service.
func withService(cmd *cobra.Command, deps *Deps, fn func(context.Context, *auth.Service) error) error {
	d := deps.withDefaults()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := setupLogging(cfg.Log, d)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	db, err := openDatabase(ctx, cfg, d, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	svc, release, err := buildService(ctx, cfg, db, d, nil, logger)
	if err != nil {
		return err
	}
	defer release()

	return fn(ctx, svc)
}
