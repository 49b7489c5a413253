// Copyright 2026 © The UAP Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AgentMetrics tracks tool-loop activity for production monitoring.
// A nil *AgentMetrics is a no-op, so callers never guard record calls.
type AgentMetrics struct {
	// toolCallCounter tracks tool executions by tool name and outcome
	toolCallCounter metric.Int64Counter

	// confirmationRefusedCounter tracks gated invocations that were
	// refused for lack of user confirmation
	confirmationRefusedCounter metric.Int64Counter
}

// NewAgentMetrics creates agent metrics on the global meter.
func NewAgentMetrics() (*AgentMetrics, error) {
	meter := otel.Meter("uap/agent")

	toolCallCounter, err := meter.Int64Counter(
		"uap.agent.tool_calls",
		metric.WithDescription("Tool executions by tool name and outcome"),
	)
	if err != nil {
		return nil, err
	}

	confirmationRefusedCounter, err := meter.Int64Counter(
		"uap.agent.confirmations_refused",
		metric.WithDescription("Gated invocations refused for lack of user confirmation"),
	)
	if err != nil {
		return nil, err
	}

	return &AgentMetrics{
		toolCallCounter:            toolCallCounter,
		confirmationRefusedCounter: confirmationRefusedCounter,
	}, nil
}

// RecordToolCall counts one tool execution.
func (m *AgentMetrics) RecordToolCall(ctx context.Context, tool string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.toolCallCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("tool", tool),
			attribute.String("outcome", outcome),
		),
	)
}

// RecordConfirmationRefused counts one refused gated invocation.
func (m *AgentMetrics) RecordConfirmationRefused(ctx context.Context, actionID string) {
	if m == nil {
		return
	}
	m.confirmationRefusedCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("action_id", actionID)),
	)
}
