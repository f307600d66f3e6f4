// Package agent drives the multi-turn tool-calling exchange with the model.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"cotizador_backend/platform/logger"
	"cotizador_backend/platform/validator"
)

// maxToolRounds bounds the tool-call/response round-trips inside one user
// message. The only guard against a model that keeps requesting tools.
const maxToolRounds = 5

// Generator is the model transport the agent depends on.
type Generator interface {
	GenerateContent(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	ModelName() string
}

// Turn is one prior conversation turn threaded back to the model.
type Turn struct {
	Role string // genai.RoleUser or genai.RoleModel
	Text string
}

// Result is the outcome of one Converse call.
type Result struct {
	// Text is the model's final textual reply, empty when NoAnswer is set.
	Text string
	// NoAnswer is set when the model produced no usable text; the caller
	// substitutes a clarification prompt.
	NoAnswer bool
	// BudgetExhausted is set when the loop stopped because the tool-round
	// budget ran out while the model still wanted tools.
	BudgetExhausted bool
	// ToolRounds is how many tool-dispatch rounds ran.
	ToolRounds int
}

// Agent orchestrates the conversation loop between the model and the tool
// dispatcher.
type Agent struct {
	model Generator
	val   *validator.Validator
	log   *logger.Logger
}

// New creates a conversation agent.
func New(model Generator, val *validator.Validator, log *logger.Logger) *Agent {
	return &Agent{model: model, val: val, log: log}
}

// Converse sends the history plus the new user message to the model and
// services its tool invocations until it answers in text or the round budget
// is exhausted. Tool faults are fed back to the model as structured errors;
// model transport errors propagate untouched so the caller can classify them.
func (a *Agent) Converse(ctx context.Context, history []Turn, message string, tools Dispatcher) (Result, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		contents = append(contents, &genai.Content{
			Role:  turn.Role,
			Parts: []*genai.Part{{Text: turn.Text}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: message}},
	})

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
		Tools:             toolDeclarations(),
	}

	resp, err := a.generate(ctx, contents, cfg, 0)
	if err != nil {
		return Result{}, err
	}

	budget := maxToolRounds
	rounds := 0
	for len(resp.FunctionCalls()) > 0 && budget > 0 {
		budget--
		rounds++

		calls := resp.FunctionCalls()
		if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
			contents = append(contents, resp.Candidates[0].Content)
		}

		parts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			result := a.dispatch(ctx, call, tools)
			parts = append(parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					ID:       call.ID,
					Name:     call.Name,
					Response: map[string]interface{}{"result": result},
				},
			})
		}

		contents = append(contents, &genai.Content{
			Role:  genai.RoleUser,
			Parts: parts,
		})

		resp, err = a.generate(ctx, contents, cfg, rounds)
		if err != nil {
			return Result{}, err
		}
	}

	result := Result{ToolRounds: rounds}
	if budget == 0 && len(resp.FunctionCalls()) > 0 {
		// The model still wanted tools when the budget ran out; the last
		// textual response (possibly empty) is all we have.
		result.BudgetExhausted = true
		a.log.Warn("tool round budget exhausted", "rounds", rounds)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		result.NoAnswer = true
		return result, nil
	}
	result.Text = text
	return result, nil
}

func (a *Agent) generate(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig, round int) (*genai.GenerateContentResponse, error) {
	start := time.Now()
	resp, err := a.model.GenerateContent(ctx, contents, cfg)
	if err != nil {
		return nil, err
	}
	a.log.ModelCall(a.model.ModelName(), round, len(resp.FunctionCalls()), float64(time.Since(start).Milliseconds()))
	return resp, nil
}

var errUnknownTool = errors.New("unknown function")

// Structured tool faults fed back to the model.
var (
	resultUnknownTool = map[string]string{"error": "Unknown function"}
	resultToolFailed  = map[string]string{"error": "Tool execution failed"}
)

// dispatch runs one tool invocation. Failures of any shape (unknown name,
// malformed arguments, handler error, panic) become structured error payloads
// and never abort the conversation turn.
func (a *Agent) dispatch(ctx context.Context, call *genai.FunctionCall, tools Dispatcher) (result interface{}) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("tool handler panicked", "tool", call.Name, "panic", fmt.Sprint(r))
			a.log.ToolDispatch(call.Name, call.ID, true)
			result = resultToolFailed
		}
	}()

	payload, err := a.invoke(ctx, call, tools)
	if err != nil {
		a.log.Error("tool invocation failed", "tool", call.Name, "error", err.Error())
		a.log.ToolDispatch(call.Name, call.ID, true)
		if errors.Is(err, errUnknownTool) {
			return resultUnknownTool
		}
		return resultToolFailed
	}

	a.log.ToolDispatch(call.Name, call.ID, false)
	return payload
}

func (a *Agent) invoke(ctx context.Context, call *genai.FunctionCall, tools Dispatcher) (interface{}, error) {
	switch call.Name {
	case ToolSearchProducts:
		var args SearchProductsArgs
		if err := a.decodeArgs(call.Args, &args); err != nil {
			return nil, err
		}
		return tools.SearchProducts(ctx, args)

	case ToolUpdateQuote:
		var args UpdateQuoteArgs
		if err := a.decodeArgs(call.Args, &args); err != nil {
			return nil, err
		}
		return tools.UpdateQuote(ctx, args)

	case ToolCreateOrder:
		var args CreateOrderArgs
		if err := a.decodeArgs(call.Args, &args); err != nil {
			return nil, err
		}
		return tools.CreateOrder(ctx, args)

	default:
		return nil, errUnknownTool
	}
}

// decodeArgs converts the model's loosely-typed argument map into the typed
// per-tool struct and validates it. Invalid shapes are tool faults, not
// crashes.
func (a *Agent) decodeArgs(raw map[string]interface{}, dst interface{}) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode tool args: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode tool args: %w", err)
	}
	if err := a.val.Struct(dst); err != nil {
		return fmt.Errorf("validate tool args: %w", err)
	}
	return nil
}
