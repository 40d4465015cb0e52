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

// Package chat drives an OpenAI-compatible model against the mcpfsd tool
// server: model tool calls are forwarded over HTTP and their results fed
// back until the model produces a final text answer.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"mcpfs/internal/config"
	"mcpfs/internal/mcpclient"
	"mcpfs/internal/tools"
)

const systemPrompt = `You are a helpful assistant with access to a sandboxed filesystem through three tools: read_file, list_directory and write_file. All paths are relative to the sandbox root. When a write fails because the file exists, ask the user before retrying with overwrite=true.`

// Session holds one conversation with the model.
//
// Thread-safety: message operations are protected by an internal mutex. The
// tool runner and chat client carry their own guarantees.
type Session struct {
	Client   ChatClient
	Runner   ToolRunner
	Config   *config.Chat
	Messages []openai.ChatCompletionMessage
	Logger   zerolog.Logger

	toolDefs          []openai.Tool
	mu                sync.Mutex
	lastSavedMsgCount int
}

// NewSession creates a session with a real OpenAI client and a live
// connection to the tool server. The server's discovery listing is fetched
// once here; an unreachable server is a startup error, not something to
// discover mid-conversation.
func NewSession(ctx context.Context, cfg *config.Chat) (*Session, error) {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.APIURL != "" {
		clientConfig.BaseURL = cfg.APIURL
		clientConfig.HTTPClient = &http.Client{}
	}
	client := openai.NewClientWithConfig(clientConfig)

	remote := mcpclient.New(cfg.ServerURL)
	specs, err := remote.Tools(ctx)
	if err != nil {
		return nil, err
	}

	return NewSessionWithClients(cfg, client, remote, specs), nil
}

// NewSessionWithClients creates a session with injected dependencies (for
// testing).
func NewSessionWithClients(cfg *config.Chat, client ChatClient, runner ToolRunner, specs []tools.ToolSpec) *Session {
	return &Session{
		Client:   client,
		Runner:   runner,
		Config:   cfg,
		Logger:   zerolog.Nop(),
		toolDefs: openAITools(specs),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		},
	}
}

// openAITools converts the server's discovery listing into OpenAI tool
// definitions.
func openAITools(specs []tools.ToolSpec) []openai.Tool {
	defs := make([]openai.Tool, 0, len(specs))
	for _, spec := range specs {
		defs = append(defs, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        spec.Name,
				Description: spec.Description,
				Parameters:  spec.InputSchema,
			},
		})
	}
	return defs
}

// ToolNames returns the names of the tools the session offers the model.
func (s *Session) ToolNames() []string {
	names := make([]string, 0, len(s.toolDefs))
	for _, def := range s.toolDefs {
		names = append(names, def.Function.Name)
	}
	return names
}

// AddMessage adds a message to the conversation history.
func (s *Session) AddMessage(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, openai.ChatCompletionMessage{
		Role:    role,
		Content: content,
	})
}

// AddAssistantMessage adds an assistant message with optional tool calls.
func (s *Session) AddAssistantMessage(content string, toolCalls []openai.ToolCall) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, openai.ChatCompletionMessage{
		Role:      openai.ChatMessageRoleAssistant,
		Content:   content,
		ToolCalls: toolCalls,
	})
}

// AddToolResultMessage appends a tool result message.
func (s *Session) AddToolResultMessage(call openai.ToolCall, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := call.Function.Name
	if name == "" {
		name = "unknown_tool"
	}
	s.Messages = append(s.Messages, openai.ChatCompletionMessage{
		Role:       openai.ChatMessageRoleTool,
		Content:    content,
		Name:       name,
		ToolCallID: call.ID,
	})
}

// MessagesSnapshot returns a copy of the current messages.
func (s *Session) MessagesSnapshot() []openai.ChatCompletionMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := make([]openai.ChatCompletionMessage, len(s.Messages))
	copy(msgs, s.Messages)
	return msgs
}

// GetResponseWithContext sends the prompt and handles tool calls until the
// model returns a final text response.
func (s *Session) GetResponseWithContext(ctx context.Context, prompt string) (string, error) {
	s.AddMessage(openai.ChatMessageRoleUser, prompt)

	for {
		req := openai.ChatCompletionRequest{
			Model:    s.Config.Model,
			Messages: s.MessagesSnapshot(),
			Tools:    s.toolDefs,
		}
		if s.Config.Temperature != nil {
			req.Temperature = *s.Config.Temperature
		}
		if s.Config.MaxTokens != nil {
			req.MaxTokens = *s.Config.MaxTokens
		}

		resp, err := s.Client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", &APIError{Operation: "create_completion", Err: err}
		}
		if len(resp.Choices) == 0 {
			return "", &APIError{Operation: "create_completion", Err: fmt.Errorf("empty choices in response")}
		}

		response := resp.Choices[0].Message
		s.AddAssistantMessage(response.Content, response.ToolCalls)

		if len(response.ToolCalls) == 0 {
			return response.Content, nil
		}

		for _, toolCall := range response.ToolCalls {
			content, err := s.runToolCall(ctx, toolCall)
			if err != nil {
				return "", err
			}
			s.AddToolResultMessage(toolCall, content)
		}
	}
}

// runToolCall executes one model-requested tool call on the remote server.
// The raw result object goes back to the model verbatim; it contains the
// error strings the model is expected to react to.
func (s *Session) runToolCall(ctx context.Context, call openai.ToolCall) (string, error) {
	params := map[string]interface{}{}
	if call.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &params); err != nil {
			s.Logger.Warn().Str("tool", call.Function.Name).Err(err).Msg("invalid tool arguments from model")
			return fmt.Sprintf(`{"error": "invalid tool arguments: %v"}`, err), nil
		}
	}

	s.Logger.Info().Str("tool", call.Function.Name).RawJSON("params", jsonOrEmpty(call.Function.Arguments)).Msg("executing tool call")

	raw, err := s.Runner.Execute(ctx, call.Function.Name, params)
	if err != nil {
		return "", &ToolExecutionError{ToolName: call.Function.Name, Err: err}
	}
	return string(raw), nil
}

func jsonOrEmpty(s string) []byte {
	if json.Valid([]byte(s)) {
		return []byte(s)
	}
	return []byte("{}")
}

// ClearHistory clears the conversation history, keeping the system message.
func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	systemMsg := s.Messages[0]
	s.Messages = []openai.ChatCompletionMessage{systemMsg}
}

// GetHistory returns the conversation history excluding the system message.
func (s *Session) GetHistory() []openai.ChatCompletionMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Messages) <= 1 {
		return []openai.ChatCompletionMessage{}
	}
	history := make([]openai.ChatCompletionMessage, len(s.Messages)-1)
	copy(history, s.Messages[1:])
	return history
}

// SaveConversationHistory appends new messages to the history file as JSONL.
func (s *Session) SaveConversationHistory(filepath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.Messages[1:]
	if len(history) <= s.lastSavedMsgCount {
		return nil
	}

	file, err := os.OpenFile(filepath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return &HistoryError{Operation: "open", Filepath: filepath, Err: err}
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	for i := s.lastSavedMsgCount; i < len(history); i++ {
		if err := encoder.Encode(history[i]); err != nil {
			return &HistoryError{Operation: "encode", Filepath: filepath, Err: err}
		}
	}

	s.lastSavedMsgCount = len(history)
	return nil
}

// LoadConversationHistory loads conversation history, keeping at most
// maxMessages of the newest entries.
func (s *Session) LoadConversationHistory(filepath string, maxMessages int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &HistoryError{Operation: "open", Filepath: filepath, Err: err}
	}
	defer file.Close()

	var messages []openai.ChatCompletionMessage
	decoder := json.NewDecoder(file)
	for {
		var msg openai.ChatCompletionMessage
		if err := decoder.Decode(&msg); err != nil {
			if err == io.EOF {
				break
			}
			return &HistoryError{Operation: "decode", Filepath: filepath, Err: err}
		}
		messages = append(messages, msg)
	}

	if maxMessages > 0 && len(messages) > maxMessages {
		messages = messages[len(messages)-maxMessages:]
	}

	s.Messages = append(s.Messages, messages...)
	s.lastSavedMsgCount = len(messages)
	return nil
}
