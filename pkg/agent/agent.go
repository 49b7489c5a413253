// Copyright 2026 © The UAP Authors
// SPDX-License-Identifier: Apache-2.0

// Package agent drives the chat/tool loop between an LLM collaborator
// and the UAP tools. It is the orchestrating caller: the confirmation
// gate for actions flagged confirm "user" is enforced here, before any
// invocation reaches the wire.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	uaperrors "github.com/jllopis/uap/pkg/errors"
	"github.com/jllopis/uap/pkg/invoker"
	"github.com/jllopis/uap/pkg/llm"
	"github.com/jllopis/uap/pkg/telemetry"
	"github.com/jllopis/uap/pkg/tools"
)

// DefaultMaxTurns bounds the tool loop; a run that has not produced a
// final answer by then fails rather than spin.
const DefaultMaxTurns = 8

var ErrMissingProvider = errors.New("llm provider is required")
var ErrMissingRegistry = errors.New("tool registry is required")

// Agent runs one resolution task per Run call. It holds no mutable
// conversation state between runs.
type Agent struct {
	id           string
	provider     llm.Provider
	registry     *tools.Registry
	tracker      *tools.GateTracker
	confirmer    Confirmer
	metrics      *telemetry.AgentMetrics
	model        string
	systemPrompt string
	temperature  float64
	maxTurns     int
	tracer       trace.Tracer
}

// Option configures an Agent instance.
type Option func(*Agent) error

// New creates an Agent with a required id, provider, and registry.
func New(id string, provider llm.Provider, registry *tools.Registry, opts ...Option) (*Agent, error) {
	a := &Agent{
		id:        id,
		provider:  provider,
		registry:  registry,
		confirmer: DenyAll{},
		maxTurns:  DefaultMaxTurns,
		tracer:    otel.Tracer("uap/agent"),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	if a.id == "" {
		return nil, errors.New("agent id is required")
	}
	if a.provider == nil {
		return nil, ErrMissingProvider
	}
	if a.registry == nil {
		return nil, ErrMissingRegistry
	}
	return a, nil
}

// WithModel sets the model name passed to the provider.
func WithModel(model string) Option {
	return func(a *Agent) error {
		a.model = model
		return nil
	}
}

// WithSystemPrompt sets the system prompt for every run.
func WithSystemPrompt(prompt string) Option {
	return func(a *Agent) error {
		a.systemPrompt = prompt
		return nil
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) Option {
	return func(a *Agent) error {
		a.temperature = temperature
		return nil
	}
}

// WithMaxTurns bounds the tool loop.
func WithMaxTurns(turns int) Option {
	return func(a *Agent) error {
		if turns <= 0 {
			return errors.New("max turns must be positive")
		}
		a.maxTurns = turns
		return nil
	}
}

// WithConfirmer sets the policy that obtains explicit user intent for
// gated actions. The default denies everything.
func WithConfirmer(confirmer Confirmer) Option {
	return func(a *Agent) error {
		if confirmer == nil {
			return errors.New("confirmer must not be nil")
		}
		a.confirmer = confirmer
		return nil
	}
}

// WithGateTracker attaches the tracker fed by the discover tool so the
// agent can recognize gated invocations.
func WithGateTracker(tracker *tools.GateTracker) Option {
	return func(a *Agent) error {
		a.tracker = tracker
		return nil
	}
}

// WithMetrics attaches agent metrics.
func WithMetrics(metrics *telemetry.AgentMetrics) Option {
	return func(a *Agent) error {
		a.metrics = metrics
		return nil
	}
}

// ID returns the agent identifier.
func (a *Agent) ID() string { return a.id }

// Run executes one chat/tool loop for the user's text and returns the
// collaborator's final answer. Tool failures are reported back to the
// model as tool output so it can retry with corrected arguments;
// provider failures and an exhausted loop are errors.
func (a *Agent) Run(ctx context.Context, userText string) (string, error) {
	ctx, span := a.tracer.Start(ctx, "Agent.Run", trace.WithAttributes(
		attribute.String("agent.id", a.id),
	))
	defer span.End()

	log := slog.Default()

	messages := make([]llm.Message, 0, 2)
	if a.systemPrompt != "" {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: a.systemPrompt})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: userText})

	for turn := 0; turn < a.maxTurns; turn++ {
		resp, err := a.provider.Chat(ctx, llm.ChatRequest{
			Model:       a.model,
			Messages:    messages,
			Tools:       a.registry.Definitions(),
			Temperature: a.temperature,
		})
		if err != nil {
			return "", uaperrors.New(uaperrors.CodeLLMError, "provider chat failed", err).
				WithContext("turn", turn)
		}

		if len(resp.ToolCalls) == 0 {
			log.Info("agent.run.complete",
				slog.String("agent_id", a.id),
				slog.Int("turns", turn+1),
			)
			return resp.Content, nil
		}

		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, call := range resp.ToolCalls {
			output := a.executeToolCall(ctx, log, call)
			messages = append(messages, llm.Message{
				Role:       llm.RoleTool,
				Content:    output,
				ToolCallID: call.ID,
			})
		}
	}

	return "", uaperrors.New(uaperrors.CodeLLMError,
		fmt.Sprintf("no final answer after %d turns", a.maxTurns), nil)
}

// executeToolCall runs one tool call, gating uap_http invocations of
// confirm "user" actions on the confirmer. The result is always text
// for the model: failures are rendered, not raised, so the collaborator
// can correct its arguments and continue.
func (a *Agent) executeToolCall(ctx context.Context, log *slog.Logger, call llm.ToolCall) string {
	name := call.Function.Name
	ctx, span := a.tracer.Start(ctx, "Agent.ToolCall", trace.WithAttributes(
		attribute.String("tool.name", name),
	))
	defer span.End()

	if refusal, refused := a.checkGate(ctx, log, call); refused {
		return refusal
	}

	output, err := a.registry.CallJSON(ctx, name, call.Function.Arguments)
	a.metrics.RecordToolCall(ctx, name, err)
	if err != nil {
		log.Warn("agent.tool.error",
			slog.String("agent_id", a.id),
			slog.String("tool", name),
			slog.String("error", err.Error()),
		)
		return fmt.Sprintf("Tool %s failed: %v", name, err)
	}
	log.Debug("agent.tool.complete",
		slog.String("agent_id", a.id),
		slog.String("tool", name),
	)
	return output
}

// checkGate consults the confirmer for uap_http calls that target a
// gated action. A declined or failed confirmation refuses the
// invocation before any request is made.
func (a *Agent) checkGate(ctx context.Context, log *slog.Logger, call llm.ToolCall) (string, bool) {
	if call.Function.Name != tools.HTTPToolName || a.tracker == nil {
		return "", false
	}

	target, ok := invocationTarget(call.Function.Arguments)
	if !ok {
		return "", false
	}

	action, gated := a.tracker.Gated(target.method, target.url)
	if !gated && target.expanded != "" {
		action, gated = a.tracker.Gated(target.method, target.expanded)
	}
	if !gated {
		return "", false
	}

	confirmed, err := a.confirmer.Confirm(ctx, action, target.method, target.url)
	if err != nil || !confirmed {
		a.metrics.RecordConfirmationRefused(ctx, action.ID)
		log.Info("agent.gate.refused",
			slog.String("agent_id", a.id),
			slog.String("action_id", action.ID),
		)
		return fmt.Sprintf(
			"Invocation refused: action %q requires explicit user confirmation and none was given.",
			action.ID), true
	}

	log.Info("agent.gate.confirmed",
		slog.String("agent_id", a.id),
		slog.String("action_id", action.ID),
	)
	return "", false
}

type target struct {
	method   string
	url      string
	expanded string
}

// invocationTarget decodes method, url, and params from uap_http
// arguments, pre-expanding the href so templated gate entries match.
func invocationTarget(argsJSON string) (target, bool) {
	args := struct {
		Method string                 `json:"method"`
		URL    string                 `json:"url"`
		Params map[string]interface{} `json:"params"`
	}{}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return target{}, false
	}
	if args.Method == "" || args.URL == "" {
		return target{}, false
	}
	params := make(map[string]string, len(args.Params))
	for key, value := range args.Params {
		params[key] = fmt.Sprintf("%v", value)
	}
	out := target{method: args.Method, url: args.URL}
	if expanded, _, err := invoker.ExpandHref(args.URL, params); err == nil && expanded != args.URL {
		out.expanded = expanded
	}
	return out, true
}
