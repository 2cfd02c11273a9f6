package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/industry-atlas/internal/cli"
	"github.com/Veraticus/industry-atlas/internal/common"
	"github.com/Veraticus/industry-atlas/internal/handoff"
	"github.com/Veraticus/industry-atlas/internal/model"
	"github.com/Veraticus/industry-atlas/internal/taxonomy"
)

// draftKey holds the selection being edited, before it is applied.
const draftKey = "draftSelection"

func selectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Choose business categories for the next company search",
		Long: `Build a selection of business categories, then apply it. The applied
selection is picked up, once, by the next 'atlas companies search' that has
no --category flag.`,
	}

	cmd.AddCommand(selectEditCmd("add", "Add categories to the selection",
		func(sel *model.FilterSelection, id string) { sel.Add(id) }))
	cmd.AddCommand(selectEditCmd("remove", "Remove categories from the selection",
		func(sel *model.FilterSelection, id string) { sel.Remove(id) }))
	cmd.AddCommand(selectEditCmd("toggle", "Toggle categories in the selection",
		func(sel *model.FilterSelection, id string) { sel.Toggle(id) }))
	cmd.AddCommand(selectClearCmd())
	cmd.AddCommand(selectShowCmd())
	cmd.AddCommand(selectApplyCmd())

	return cmd
}

func selectEditCmd(use, short string, edit func(*model.FilterSelection, string)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, e *env, store handoff.Store) error {
				ids, err := resolveIDs(e.table, args)
				if err != nil {
					return err
				}

				sel, err := loadDraft(ctx, store)
				if err != nil {
					return err
				}
				for _, id := range ids {
					edit(&sel, id)
				}
				if err := saveDraft(ctx, store, sel); err != nil {
					return err
				}
				return writeSelection(cmd.OutOrStdout(), e.table, sel)
			})
		},
	}
}

func selectClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the selection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(ctx context.Context, _ *env, store handoff.Store) error {
				sel, err := loadDraft(ctx, store)
				if err != nil {
					return err
				}
				sel.Clear()
				if err := saveDraft(ctx, store, sel); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Selection cleared."))
				return nil
			})
		},
	}
}

func selectShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the selection and the keywords it filters on",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(ctx context.Context, e *env, store handoff.Store) error {
				sel, err := loadDraft(ctx, store)
				if err != nil {
					return err
				}
				// Take cleared it.
				if err := saveDraft(ctx, store, sel); err != nil {
					return err
				}
				return writeSelection(cmd.OutOrStdout(), e.table, sel)
			})
		},
	}
}

func selectApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Hand the selection to the next company search",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(ctx context.Context, _ *env, store handoff.Store) error {
				sel, err := loadDraft(ctx, store)
				if err != nil {
					return err
				}
				if err := saveDraft(ctx, store, sel); err != nil {
					return err
				}
				if err := handoff.SaveSelection(ctx, store, sel); err != nil {
					return err
				}

				msg := fmt.Sprintf("Applied %d categories to the next search.", sel.Len())
				if sel.IsEmpty() {
					msg = "Applied an empty selection; the next search is not filtered by category."
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(msg))
				return nil
			})
		},
	}
}

func withSession(cmd *cobra.Command, fn func(context.Context, *env, handoff.Store) error) error {
	ctx := cmd.Context()

	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	store, err := e.session(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, e, store)
}

func loadDraft(ctx context.Context, store handoff.Store) (model.FilterSelection, error) {
	data, ok, err := store.Take(ctx, draftKey)
	if err != nil {
		return model.FilterSelection{}, fmt.Errorf("failed to load selection: %w", err)
	}
	var sel model.FilterSelection
	if !ok {
		return sel, nil
	}
	if err := json.Unmarshal(data, &sel); err != nil {
		return model.FilterSelection{}, fmt.Errorf("failed to decode selection: %w", err)
	}
	return sel, nil
}

func saveDraft(ctx context.Context, store handoff.Store, sel model.FilterSelection) error {
	data, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("failed to encode selection: %w", err)
	}
	if err := store.Put(ctx, draftKey, data); err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}
	return nil
}

// resolveIDs splits comma separated arguments into category ids, matching
// them case-insensitively against table.
func resolveIDs(table *taxonomy.Table, args []string) ([]string, error) {
	byFold := make(map[string]string, table.Len())
	for _, id := range table.IDs() {
		byFold[strings.ToUpper(id)] = id
	}

	var ids, unknown []string
	for _, arg := range args {
		for _, raw := range strings.Split(arg, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			if id, ok := byFold[strings.ToUpper(raw)]; ok {
				ids = append(ids, id)
			} else {
				unknown = append(unknown, raw)
			}
		}
	}

	if len(unknown) > 0 {
		return nil, common.NewUserError(
			fmt.Sprintf("unknown categories: %s (see 'atlas taxonomy list')", strings.Join(unknown, ", ")), nil)
	}
	return ids, nil
}

func writeSelection(w io.Writer, table *taxonomy.Table, sel model.FilterSelection) error {
	if sel.IsEmpty() {
		fmt.Fprintln(w, cli.FormatInfo("No categories selected."))
		return nil
	}

	out := cli.NewTable(w, "ID", "Category", "Keywords")
	for _, id := range sel.IDs() {
		def, ok := table.ByID(id)
		if !ok {
			out.Row(id, cli.SubtleStyle.Render("(unknown)"), "")
			continue
		}
		out.Row(def.ID, def.Label, strings.Join(def.Keywords, ", "))
	}
	return out.Flush()
}
