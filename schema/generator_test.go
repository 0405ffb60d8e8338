/*
Copyright 2026 Model Arena, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package schema_test

import (
	"strings"
	"testing"

	"github.com/modelarena/winrate/judge"
	"github.com/modelarena/winrate/schema"
)

func TestReflect(t *testing.T) {
	type sample struct {
		Name  string `json:"name" jsonschema:"description=Name,required"`
		Count int    `json:"count,omitempty"`
	}

	s := schema.Reflect(&sample{})
	if s == nil {
		t.Fatal("expected schema")
	}

	if s.Type != "object" {
		t.Errorf("schema type: got = %q, wanted = %q", s.Type, "object")
	}

	if len(s.Required) != 1 || s.Required[0] != "name" {
		t.Fatalf("unexpected required: %#v", s.Required)
	}

	name, ok := s.Properties.Get("name")
	if !ok {
		t.Fatal("missing name property")
	}
	if name.Description != "Name" {
		t.Fatalf("unexpected description: %q", name.Description)
	}
}

func TestVerdictSchema(t *testing.T) {
	s := schema.ReflectType[judge.Verdict]()
	if s == nil {
		t.Fatal("expected schema")
	}

	for _, prop := range []string{"preferred_index", "reasoning"} {
		if _, ok := s.Properties.Get(prop); !ok {
			t.Errorf("property %q: got = absent, wanted = present", prop)
		}
	}

	required := map[string]bool{}
	for _, r := range s.Required {
		required[r] = true
	}
	if !required["preferred_index"] || !required["reasoning"] {
		t.Errorf("required fields: got = %v, wanted preferred_index and reasoning", s.Required)
	}
}

func TestMarshalType(t *testing.T) {
	got, err := schema.MarshalType[judge.Verdict]()
	if err != nil {
		t.Fatalf("MarshalType() error = %v", err)
	}
	for _, fragment := range []string{`"preferred_index"`, `"reasoning"`, `"type": "object"`} {
		if !strings.Contains(got, fragment) {
			t.Errorf("MarshalType() output missing %s:\n%s", fragment, got)
		}
	}
}
