// Package workflow drives one ingestion cycle: raw command in, validated
// and approved shortcut committed to the store and pushed to the remote,
// or a typed abort.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/cmdshelf/cmdshelf/pkg/store"
)

// CommandFormatter produces the model's raw text for a command.
type CommandFormatter interface {
	Format(ctx context.Context, rawCommand string, st *store.Store) (string, error)
}

// Pusher uploads the local store to the remote blob after a commit.
type Pusher interface {
	Push(ctx context.Context, localPath string) error
}

// Confirmer asks the user a yes/no question and blocks until answered.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// Reporter carries the short interactive summaries. The durable log gets
// the full detail separately.
type Reporter interface {
	Info(msg string)
	Success(msg string)
	Warn(msg string)
	Error(msg string)
	JSON(label string, v any)
}

// Options configures a workflow.
type Options struct {
	StorePath   string
	PendingPath string
	Formatter   CommandFormatter
	Pusher      Pusher // optional; nil disables remote sync
	Confirm     Confirmer
	UI          Reporter
	Log         arbor.ILogger
}

// Workflow owns the in-memory store for the duration of one cycle. Cycles
// never overlap: the caller runs one to completion before starting the
// next.
type Workflow struct {
	storePath   string
	pendingPath string
	formatter   CommandFormatter
	pusher      Pusher
	confirm     Confirmer
	ui          Reporter
	log         arbor.ILogger
}

// New creates a workflow.
func New(opts Options) *Workflow {
	return &Workflow{
		storePath:   opts.StorePath,
		pendingPath: opts.PendingPath,
		formatter:   opts.Formatter,
		pusher:      opts.Pusher,
		confirm:     opts.Confirm,
		ui:          opts.UI,
		log:         opts.Log,
	}
}

// ConsumePending reads the pending-input file, runs one cycle on its
// contents, and truncates the file to empty regardless of the outcome so a
// bad command is never reprocessed.
func (w *Workflow) ConsumePending(ctx context.Context) error {
	data, err := os.ReadFile(w.pendingPath)
	if err != nil {
		return fmt.Errorf("read pending input: %w", err)
	}

	runErr := w.Run(ctx, string(data))

	if err := os.WriteFile(w.pendingPath, nil, 0644); err != nil {
		w.log.Error().Err(err).Str("path", w.pendingPath).Msg("failed to clear pending input")
	} else {
		w.log.Info().Str("path", w.pendingPath).Msg("cleared pending input")
	}

	return runErr
}

// Run executes one ingestion cycle for rawCommand. It returns nil when the
// cycle commits or when there was nothing to do, and a typed error for
// every abort. No disk mutation happens before user approval.
func (w *Workflow) Run(ctx context.Context, rawCommand string) error {
	rawCommand = strings.TrimSpace(rawCommand)
	if rawCommand == "" {
		w.log.Info().Msg("no command provided to process")
		w.ui.Warn("No command provided to process.")
		return nil
	}

	w.ui.Info("New command detected: " + rawCommand)

	st, err := store.Load(w.storePath)
	if err != nil {
		w.ui.Error("Cannot read shortcut store. Aborting.")
		return err
	}

	text, err := w.formatter.Format(ctx, rawCommand, st)
	if err != nil {
		w.log.Error().Err(err).Msg("formatter failed, aborting cycle")
		w.ui.Error("Failed to get a formatted command from the model. Aborting.")
		return err
	}

	cand, err := parseCandidate(text)
	if err != nil {
		// Surface the full raw text so the shortcut can be recovered by hand.
		w.log.Error().Err(err).Str("raw_response", text).Msg("model output did not parse")
		w.ui.Error("Model did not return a valid candidate. Response was:\n" + text)
		return err
	}
	w.ui.Success("Model response is valid JSON.")

	category := store.NormalizeCategory(cand.Category)
	if category == "" {
		w.log.Error().Msg("candidate has no category")
		w.ui.Error("Model response did not include a category. Aborting.")
		return ErrMissingCategory
	}
	w.ui.Success("Category resolved: " + category)

	if !st.HasCategory(category) {
		w.log.Warn().Str("category", category).Msg("category does not exist")
		ok, err := w.confirm.Confirm(fmt.Sprintf("Category %q does not exist. Create it?", category))
		if err != nil {
			return fmt.Errorf("confirm category: %w", err)
		}
		if !ok {
			w.log.Warn().Msg("user declined new category")
			w.ui.Warn("Aborted by user.")
			return ErrCategoryRejected
		}
		w.log.Info().Str("category", category).Msg("user approved new category")
		st.AddCategory(category)
	}

	if st.HasCommand(category, cand.Command) {
		w.log.Warn().Str("category", category).Str("command", cand.Command).Msg("duplicate command")
		w.ui.Warn(fmt.Sprintf("This command already exists in the %q category. Aborting.", category))
		return fmt.Errorf("%w: %q in %q", ErrDuplicateCommand, cand.Command, category)
	}
	w.ui.Success("Command is not a duplicate.")

	w.ui.JSON("Proposed shortcut to add", cand)
	ok, err := w.confirm.Confirm("Do you approve this shortcut?")
	if err != nil {
		return fmt.Errorf("confirm shortcut: %w", err)
	}
	if !ok {
		w.log.Warn().Msg("shortcut not approved by user")
		w.ui.Warn("Shortcut not approved. Aborting.")
		return ErrCandidateRejected
	}
	w.log.Info().Msg("user approved shortcut, committing")

	return w.commit(ctx, st, category, cand)
}

// commit appends the candidate and persists, validates, and syncs the
// store. Everything here runs strictly after approval.
func (w *Workflow) commit(ctx context.Context, st *store.Store, category string, cand Candidate) error {
	linesBefore, err := store.LineCount(w.storePath)
	if err != nil {
		return err
	}

	if err := st.Append(category, cand.Entry()); err != nil {
		return fmt.Errorf("%w: %v", ErrDuplicateCommand, err)
	}

	data, err := st.MarshalIndent()
	if err != nil {
		return err
	}

	if err := store.SafeWrite(w.storePath, data); err != nil {
		if errors.Is(err, store.ErrWriteGuard) {
			w.log.Error().Err(err).Int("lines_before", linesBefore).Msg("shrink guard refused write")
			w.ui.Error("Refused to shrink the store file. Aborting.")
		}
		return err
	}

	linesAfter, err := store.LineCount(w.storePath)
	if err != nil {
		return err
	}
	delta := linesAfter - linesBefore

	if ok, msg := store.Validate(w.storePath); !ok {
		w.log.Error().
			Str("diagnostic", msg).
			Int("line_delta", delta).
			Msg("store failed validation after write, manual inspection required")
		w.ui.Error(fmt.Sprintf("Store failed validation after write (%+d lines): %s", delta, msg))
		return fmt.Errorf("%w: %s", ErrPostWriteCorruption, msg)
	}

	w.log.Info().Int("lines_before", linesBefore).Int("lines_after", linesAfter).Msg("store updated")
	w.ui.Success(fmt.Sprintf("Successfully updated %s (%+d lines).", w.storePath, delta))
	w.ui.Success("Store passed validation.")

	// Local-first: a failed push never reverts the commit.
	if w.pusher != nil {
		if err := w.pusher.Push(ctx, w.storePath); err != nil {
			w.log.Warn().Err(err).Msg("remote sync failed, local commit stands")
			w.ui.Warn("Remote sync failed; the shortcut is saved locally.")
		} else {
			w.ui.Success("Synced to remote store.")
		}
	}

	return nil
}
