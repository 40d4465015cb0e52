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

package chat

import (
	"context"
	"encoding/json"

	"github.com/sashabaranov/go-openai"
)

// ChatClient abstracts the OpenAI client so tests can inject a mock instead
// of making real API calls.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ToolRunner abstracts the remote tool server so tests can run tool calls
// without a live mcpfsd. mcpclient.Client is the production implementation.
type ToolRunner interface {
	Execute(ctx context.Context, name string, params map[string]interface{}) (json.RawMessage, error)
}

// Verify that openai.Client implements ChatClient at compile time.
var _ ChatClient = (*openai.Client)(nil)
