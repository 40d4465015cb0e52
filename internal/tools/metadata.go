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

package tools

// ToolSpec describes one tool for discovery. The listing is static: it
// declares the contract, it is not computed from executor state.
type ToolSpec struct {
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	InputSchema  map[string]interface{} `json:"input_schema"`
	OutputSchema map[string]interface{} `json:"output_schema"`
}

var toolSpecs = []ToolSpec{
	{
		Name:        OpReadFile.Name(),
		Description: "Reads content from a file within the allowed sandboxed directory.",
		InputSchema: mustSchemaParametersFor[ReadFileParams](),
		OutputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"content": map[string]interface{}{"type": "string", "description": "File content."},
				"error":   map[string]interface{}{"type": "string", "description": "Error message if any."},
			},
		},
	},
	{
		Name:        OpListDirectory.Name(),
		Description: "Lists items in a directory within the allowed sandboxed directory.",
		InputSchema: mustSchemaParametersFor[ListDirectoryParams](),
		OutputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"items": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "List of items.",
				},
				"error": map[string]interface{}{"type": "string", "description": "Error message if any."},
			},
		},
	},
	{
		Name:        OpWriteFile.Name(),
		Description: "Writes content to a specified file within the allowed sandboxed directory. Can optionally overwrite.",
		InputSchema: mustSchemaParametersFor[WriteFileParams](),
		OutputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"success": map[string]interface{}{"type": "boolean", "description": "True if write was successful."},
				"message": map[string]interface{}{"type": "string", "description": "Status message."},
				"error":   map[string]interface{}{"type": "string", "description": "Error message if any."},
			},
		},
	},
}

// Metadata returns the discovery listing for the three operations.
func Metadata() []ToolSpec {
	specs := make([]ToolSpec, len(toolSpecs))
	copy(specs, toolSpecs)
	return specs
}
