// Package infra contains infrastructure adapters for the scanner context.
package infra

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardika/scanarb/business/scanner/domain"
	"github.com/ardika/scanarb/pkg/ui"
)

// TUIReporter drives the Bubble Tea dashboard.
type TUIReporter struct {
	program *tea.Program

	mu      sync.Mutex
	started bool
	done    chan struct{}
	runErr  error
}

// NewTUIReporter builds the dashboard program for one chain.
func NewTUIReporter(chain string) *TUIReporter {
	return &TUIReporter{
		program: tea.NewProgram(ui.New(chain), tea.WithAltScreen()),
		done:    make(chan struct{}),
	}
}

// Start launches the Bubble Tea program in the background. The program
// owns the terminal until Stop or user quit.
func (r *TUIReporter) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return nil
	}
	r.started = true
	r.mu.Unlock()

	go func() {
		_, err := r.program.Run()
		r.mu.Lock()
		r.runErr = err
		r.mu.Unlock()
		close(r.done)
	}()

	go func() {
		select {
		case <-ctx.Done():
			r.program.Quit()
		case <-r.done:
		}
	}()

	return nil
}

// Report forwards the opportunity to the dashboard model.
func (r *TUIReporter) Report(opp *domain.Opportunity) {
	r.program.Send(ui.OpportunityMsg{Opportunity: opp})
}

// Cycle forwards scan-cycle progress to the status line.
func (r *TUIReporter) Cycle(count uint64, took time.Duration) {
	r.program.Send(ui.CycleMsg{Count: count, Duration: took})
}

// Send pushes any dashboard message, for status and cycle updates.
func (r *TUIReporter) Send(msg tea.Msg) {
	r.program.Send(msg)
}

// Done is closed when the user quits the dashboard.
func (r *TUIReporter) Done() <-chan struct{} {
	return r.done
}

// Stop quits the program and waits briefly for the terminal restore.
func (r *TUIReporter) Stop() error {
	r.mu.Lock()
	started := r.started
	r.mu.Unlock()
	if !started {
		return nil
	}

	r.program.Quit()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runErr
}
