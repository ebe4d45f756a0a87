package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"ferry/internal/driver"
	"ferry/internal/pipeline"
	"ferry/internal/ui"
)

type runOutcome struct {
	result *driver.Result
	err    error
}

type runFunc func(ctx context.Context, req driver.Request) (*driver.Result, error)

// runWithUI drives the pipeline in a goroutine and feeds its events into
// the Bubble Tea progress view. The pipeline owns the event channel and
// closes it when done, which quits the view.
func runWithUI(ctx context.Context, title string, files []string, req driver.Request, fn runFunc) (*driver.Result, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		reqCopy := req
		reqCopy.Progress = pipeline.ChannelSink{Ch: events}
		res, err := fn(ctx, reqCopy)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
