package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daytrip/internal/tools"
)

// completionServer replays responses in order and records each request.
type completionServer struct {
	t         *testing.T
	responses []openai.ChatCompletionResponse
	requests  []openai.ChatCompletionRequest
}

func (c *completionServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/chat/completions" {
		http.NotFound(w, r)
		return
	}
	assert.Equal(c.t, "Bearer hf-token", r.Header.Get("Authorization"))

	var req openai.ChatCompletionRequest
	require.NoError(c.t, json.NewDecoder(r.Body).Decode(&req))
	c.requests = append(c.requests, req)

	if len(c.responses) == 0 {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"no scripted response","type":"server_error"}}`))
		return
	}
	resp := c.responses[0]
	c.responses = c.responses[1:]
	w.Header().Set("Content-Type", "application/json")
	require.NoError(c.t, json.NewEncoder(w).Encode(resp))
}

func choice(msg openai.ChatCompletionMessage) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{Message: msg}}}
}

func TestOpenAIRunDispatchesToolCalls(t *testing.T) {
	stub := &durationStub{reply: tools.Success("20 mins")}
	cs := &completionServer{t: t, responses: []openai.ChatCompletionResponse{
		choice(openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleAssistant,
			ToolCalls: []openai.ToolCall{{
				ID:   "call_1",
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tools.DurationToolName,
					Arguments: `{"start_location":"Tokyo Station","destination_location":"Shibuya Station","transportation_mode":"transit"}`,
				},
			}},
		}),
		choice(openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "09:00 Tokyo Station"}),
	}}
	srv := httptest.NewServer(cs)
	defer srv.Close()

	agent := NewOpenAIAgent("hf-token", srv.URL+"/", newTestRegistry(t, stub), Options{Model: "Qwen/Qwen2.5-72B-Instruct"})
	out, err := agent.Run(context.Background(), "plan a day in Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "09:00 Tokyo Station", out)
	require.Len(t, stub.calls, 1)

	require.Len(t, cs.requests, 2)
	first := cs.requests[0]
	assert.Equal(t, "Qwen/Qwen2.5-72B-Instruct", first.Model)
	require.Len(t, first.Tools, 1)
	assert.Equal(t, tools.DurationToolName, first.Tools[0].Function.Name)
	assert.Equal(t, openai.ChatMessageRoleSystem, first.Messages[0].Role)
	assert.Equal(t, "plan a day in Tokyo", first.Messages[1].Content)

	second := cs.requests[1]
	last := second.Messages[len(second.Messages)-1]
	assert.Equal(t, openai.ChatMessageRoleTool, last.Role)
	assert.Equal(t, "call_1", last.ToolCallID)
	assert.Equal(t, "20 mins", last.Content)
}

func TestOpenAIRunEndpointError(t *testing.T) {
	srv := httptest.NewServer(&completionServer{t: t})
	defer srv.Close()

	agent := NewOpenAIAgent("hf-token", srv.URL, newTestRegistry(t), Options{})
	_, err := agent.Run(context.Background(), "q")
	assert.Error(t, err)
}

func TestOpenAIRunEmptyContent(t *testing.T) {
	srv := httptest.NewServer(&completionServer{t: t, responses: []openai.ChatCompletionResponse{
		choice(openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "  "}),
	}})
	defer srv.Close()

	agent := NewOpenAIAgent("hf-token", srv.URL, newTestRegistry(t), Options{})
	_, err := agent.Run(context.Background(), "q")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

type loopingCompleter struct{ n int }

func (l *loopingCompleter) CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	l.n++
	return choice(openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleAssistant,
		ToolCalls: []openai.ToolCall{{
			ID:       "call",
			Type:     openai.ToolTypeFunction,
			Function: openai.FunctionCall{Name: "missing_tool", Arguments: `{}`},
		}},
	}), nil
}

func TestOpenAIRunMaxSteps(t *testing.T) {
	client := &loopingCompleter{}
	agent := newOpenAIAgent(client, newTestRegistry(t), Options{MaxSteps: 3})

	_, err := agent.Run(context.Background(), "q")
	assert.ErrorIs(t, err, ErrMaxSteps)
	assert.Equal(t, 3, client.n)
}
