package main

import (
	"context"
	"iter"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"codereview/internal/review"
	"codereview/internal/ui"
)

type reviewOutcome struct {
	result *review.Result
	err    error
}

// runReviewWithUI runs the tree scan while a progress view consumes its
// events. ctrl+c in the view cancels the scan.
func runReviewWithUI(ctx context.Context, title string, paths iter.Seq[string], opts review.TreeOptions) (*review.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan review.Event, 256)
	outcomeCh := make(chan reviewOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = review.ChannelSink{Ch: events}
		res, err := review.ReviewTree(ctx, paths, optsCopy)
		outcomeCh <- reviewOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, events, cancel)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		cancel()
	}
	// the view may quit before the scan ends; keep the producer unblocked
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
