package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"go-advisory-contact/internal/domain"

	"github.com/spf13/cobra"
)

// draftCmd groups draft maintenance
var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Inspect or discard the saved draft",
}

var draftShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved draft as JSON",
	RunE:  runDraftShow,
}

var draftClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the saved draft",
	RunE:  runDraftClear,
}

func runDraftShow(cmd *cobra.Command, args []string) error {
	store := openDraftStore(cfg, logger)
	draft, err := store.Load(cmd.Context())
	if errors.Is(err, domain.ErrDraftNotFound) {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved draft.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load draft: %w", err)
	}

	out, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func runDraftClear(cmd *cobra.Command, args []string) error {
	store := openDraftStore(cfg, logger)
	if err := store.Delete(cmd.Context()); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Draft cleared.")
	return nil
}
