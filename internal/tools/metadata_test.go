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

import "testing"

func TestMetadataListsThreeTools(t *testing.T) {
	specs := Metadata()
	if len(specs) != 3 {
		t.Fatalf("expected 3 tools, got %d", len(specs))
	}

	byName := make(map[string]ToolSpec, len(specs))
	for _, spec := range specs {
		byName[spec.Name] = spec
	}
	for _, name := range []string{"read_file", "list_directory", "write_file"} {
		spec, ok := byName[name]
		if !ok {
			t.Fatalf("missing tool %q", name)
		}
		if spec.Description == "" {
			t.Errorf("%s: empty description", name)
		}
		if spec.InputSchema["type"] != "object" {
			t.Errorf("%s: input schema is not an object schema: %v", name, spec.InputSchema)
		}
		if spec.OutputSchema["type"] != "object" {
			t.Errorf("%s: output schema is not an object schema: %v", name, spec.OutputSchema)
		}
	}
}

func TestInputSchemaProperties(t *testing.T) {
	for _, spec := range Metadata() {
		props, ok := spec.InputSchema["properties"].(map[string]interface{})
		if !ok {
			t.Fatalf("%s: input schema has no properties map", spec.Name)
		}
		if _, ok := props["path"]; !ok && spec.Name != "list_directory" {
			t.Errorf("%s: missing 'path' property", spec.Name)
		}
		if spec.Name == "write_file" {
			for _, key := range []string{"path", "content", "overwrite"} {
				if _, ok := props[key]; !ok {
					t.Errorf("write_file: missing %q property", key)
				}
			}
		}
	}
}

func TestOpNameRoundTrip(t *testing.T) {
	for _, op := range []Op{OpReadFile, OpListDirectory, OpWriteFile} {
		got, ok := OpFromName(op.Name())
		if !ok || got != op {
			t.Fatalf("OpFromName(%q) = %v, %v", op.Name(), got, ok)
		}
	}
	if _, ok := OpFromName("rm_rf"); ok {
		t.Fatal("unknown name must not map to an operation")
	}
}
