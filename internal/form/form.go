// Package form runs guided multi-step conversations. A Flow is a fixed list
// of prompts; each incoming message answers the current step, and the flow
// commits once after the last step. At most one flow is active per
// conversation and starting another discards the previous one.
package form

import (
	"context"
	"errors"
	"fmt"
	"maps"
)

// ErrUnknownFlow is returned by Start for a flow name that was never registered.
var ErrUnknownFlow = errors.New("unknown flow")

// Parser validates and normalizes one answer.
type Parser func(ctx context.Context, input string) (string, error)

// CommitFunc performs the flow's single persistence action and returns the
// confirmation to show.
type CommitFunc func(ctx context.Context, conversationID int64, values map[string]string) (string, error)

// Step is one prompt of a flow.
type Step struct {
	Field  string
	Prompt string
	Parse  Parser
}

// Flow is an ordered set of steps followed by a commit.
type Flow struct {
	Name   string
	Steps  []Step
	Commit CommitFunc
}

// Session is the scratch state of one conversation.
type Session struct {
	ConversationID int64
	Flow           string
	Step           int
	Values         map[string]string
}

// Store persists sessions. Load returns nil when the conversation is idle.
type Store interface {
	Load(ctx context.Context, conversationID int64) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context, conversationID int64) error
}

// Result describes what an answer did.
type Result struct {
	Flow      string
	Reply     string
	Completed bool
	// Invalid is set when the answer was rejected and the step re-prompted.
	Invalid bool
}

// Engine drives registered flows over a session store.
type Engine struct {
	store Store
	flows map[string]*Flow
}

// NewEngine registers flows. It panics on a nameless, empty or duplicate
// flow since those are programming errors.
func NewEngine(store Store, flows ...*Flow) *Engine {
	e := &Engine{store: store, flows: make(map[string]*Flow, len(flows))}
	for _, f := range flows {
		if f.Name == "" || len(f.Steps) == 0 || f.Commit == nil {
			panic(fmt.Sprintf("form: incomplete flow %q", f.Name))
		}
		if _, ok := e.flows[f.Name]; ok {
			panic(fmt.Sprintf("form: duplicate flow %q", f.Name))
		}
		e.flows[f.Name] = f
	}
	return e
}

// Start begins a flow, replacing whatever the conversation had in progress,
// and returns the first prompt. Preset values are passed through to the
// commit untouched.
func (e *Engine) Start(ctx context.Context, conversationID int64, name string, preset map[string]string) (string, error) {
	f, ok := e.flows[name]
	if !ok {
		return "", fmt.Errorf("starting %q: %w", name, ErrUnknownFlow)
	}

	values := make(map[string]string, len(f.Steps)+len(preset))
	maps.Copy(values, preset)

	err := e.store.Save(ctx, &Session{
		ConversationID: conversationID,
		Flow:           name,
		Values:         values,
	})
	if err != nil {
		return "", fmt.Errorf("starting %q: %w", name, err)
	}
	return f.Steps[0].Prompt, nil
}

// Active returns the name of the conversation's flow, or "" when idle.
func (e *Engine) Active(ctx context.Context, conversationID int64) (string, error) {
	s, err := e.store.Load(ctx, conversationID)
	if err != nil || s == nil {
		return "", err
	}
	return s.Flow, nil
}

// Reset returns the conversation to idle.
func (e *Engine) Reset(ctx context.Context, conversationID int64) error {
	return e.store.Clear(ctx, conversationID)
}

// Advance feeds one answer to the active flow. It returns nil when the
// conversation is idle. A rejected answer leaves the session untouched and
// the reply is the validation message. After the last step the flow commits
// and the conversation goes back to idle whether or not the commit succeeded.
func (e *Engine) Advance(ctx context.Context, conversationID int64, input string) (*Result, error) {
	s, err := e.store.Load(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if s == nil {
		return nil, nil
	}

	f, ok := e.flows[s.Flow]
	if !ok || s.Step < 0 || s.Step >= len(f.Steps) {
		// Left over from a flow that no longer exists.
		return nil, e.store.Clear(ctx, conversationID)
	}

	step := f.Steps[s.Step]
	value, err := step.parse(ctx, input)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return &Result{Flow: f.Name, Reply: ve.Message, Invalid: true}, nil
		}
		return nil, fmt.Errorf("parsing %s.%s: %w", f.Name, step.Field, err)
	}

	if s.Values == nil {
		s.Values = map[string]string{}
	}
	s.Values[step.Field] = value
	s.Step++

	if s.Step < len(f.Steps) {
		if err := e.store.Save(ctx, s); err != nil {
			return nil, fmt.Errorf("saving session: %w", err)
		}
		return &Result{Flow: f.Name, Reply: f.Steps[s.Step].Prompt}, nil
	}

	reply, commitErr := f.Commit(ctx, conversationID, s.Values)
	if err := e.store.Clear(ctx, conversationID); err != nil {
		return nil, fmt.Errorf("clearing session: %w", err)
	}
	if commitErr != nil {
		var ve *ValidationError
		if errors.As(commitErr, &ve) {
			return &Result{Flow: f.Name, Reply: ve.Message, Invalid: true}, nil
		}
		return nil, fmt.Errorf("committing %s: %w", f.Name, commitErr)
	}
	return &Result{Flow: f.Name, Reply: reply, Completed: true}, nil
}

func (s Step) parse(ctx context.Context, input string) (string, error) {
	if s.Parse == nil {
		return Text("")(ctx, input)
	}
	return s.Parse(ctx, input)
}
