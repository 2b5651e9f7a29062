// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package chat runs a model conversation that can call the registered
// tools. Tool results, including failures, are fed back to the model as
// tool messages; the session itself never errors on a tool failure.
package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"toolhost/internal/config"
	"toolhost/internal/tools"
)

const systemPrompt = `You are a careful assistant with access to a calculator, a sandboxed file tool, a web tool and a time tool. Use tools when they help, report tool errors honestly, and never invent tool output.`

// ChatClient is the completion surface used by the session, an
// interface so tests can substitute a scripted client.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Session holds a conversation and the tool registry serving it.
// Message operations are mutex-protected.
type Session struct {
	client   ChatClient
	cfg      *config.Config
	registry *tools.Registry

	mu       sync.Mutex
	messages []openai.ChatCompletionMessage
}

// NewSession creates a session backed by the OpenAI API.
func NewSession(cfg *config.Config, registry *tools.Registry) (*Session, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required (set api_key in the config file or OPENAI_API_KEY)")
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.APIURL != "" {
		clientConfig.BaseURL = cfg.APIURL
	}
	return NewSessionWithClient(cfg, openai.NewClientWithConfig(clientConfig), registry), nil
}

// NewSessionWithClient creates a session with a provided client.
func NewSessionWithClient(cfg *config.Config, client ChatClient, registry *tools.Registry) *Session {
	return &Session{
		client:   client,
		cfg:      cfg,
		registry: registry,
		messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		},
	}
}

func (s *Session) addMessage(msg openai.ChatCompletionMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

func (s *Session) snapshot() []openai.ChatCompletionMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := make([]openai.ChatCompletionMessage, len(s.messages))
	copy(msgs, s.messages)
	return msgs
}

// Ask sends a user prompt and resolves tool calls until the model
// produces a text answer or the round cap is hit. The cap keeps a
// misbehaving model from looping on tool calls forever.
func (s *Session) Ask(ctx context.Context, prompt string) (string, error) {
	s.addMessage(openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	for round := 0; round < s.cfg.MaxToolRounds; round++ {
		req := openai.ChatCompletionRequest{
			Model:    s.cfg.Model,
			Messages: s.snapshot(),
			Tools:    s.registry.OpenAITools(),
		}
		if s.cfg.Temperature != nil {
			req.Temperature = *s.cfg.Temperature
		}
		if s.cfg.MaxTokens != nil {
			req.MaxTokens = *s.cfg.MaxTokens
		}

		resp, err := s.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", fmt.Errorf("completion request failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("completion returned no choices")
		}

		response := resp.Choices[0].Message
		s.addMessage(openai.ChatCompletionMessage{
			Role:      openai.ChatMessageRoleAssistant,
			Content:   response.Content,
			ToolCalls: response.ToolCalls,
		})

		if len(response.ToolCalls) == 0 {
			return response.Content, nil
		}

		for _, call := range response.ToolCalls {
			s.addMessage(s.runToolCall(ctx, call))
		}
	}

	return "", fmt.Errorf("no final answer after %d tool rounds", s.cfg.MaxToolRounds)
}

// runToolCall dispatches one tool call and shapes the outcome as a tool
// message for the model.
func (s *Session) runToolCall(ctx context.Context, call openai.ToolCall) openai.ChatCompletionMessage {
	name := call.Function.Name
	result := s.registry.Dispatch(ctx, name, call.Function.Arguments)

	event := log.Debug().Str("tool", name).Bool("ok", result.OK)
	if result.Kind != "" {
		event = event.Str("kind", string(result.Kind))
	}
	event.Msg("tool call")

	content := result.Text
	if !result.OK {
		content = fmt.Sprintf("Error: %s", result.Text)
	}
	if name == "" {
		name = "unknown_tool"
	}
	return openai.ChatCompletionMessage{
		Role:       openai.ChatMessageRoleTool,
		Content:    content,
		Name:       name,
		ToolCallID: call.ID,
	}
}

// History renders the conversation transcript for inspection.
func (s *Session) History() string {
	var sb strings.Builder
	for _, msg := range s.snapshot() {
		if msg.Role == openai.ChatMessageRoleSystem {
			continue
		}
		fmt.Fprintf(&sb, "[%s] %s\n", msg.Role, msg.Content)
	}
	return strings.TrimRight(sb.String(), "\n")
}
