// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePrompt_Guided(t *testing.T) {
	p := GuidedPrompt{Subject: "a cat", Style: "pop art", Mood: "happy", Lighting: "neon"}

	assert.Equal(t, "a cat in pop art style with happy mood and neon lighting", ResolvePrompt(p))
}

func TestResolvePrompt_GuidedMissingFields(t *testing.T) {
	p := GuidedPrompt{Subject: "a cat"}

	assert.Equal(t, "a cat in  style with  mood and  lighting", ResolvePrompt(p))
}

func TestResolvePrompt_CustomIsVerbatim(t *testing.T) {
	p := CustomPrompt{Text: "  a cat {subject} in %s style  "}

	assert.Equal(t, "  a cat {subject} in %s style  ", ResolvePrompt(p))
}

func TestResolvePrompt_Nil(t *testing.T) {
	assert.Equal(t, "", ResolvePrompt(nil))
}

func TestPromptRequest_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Prompt
	}{
		{
			name: "custom prompt",
			body: `{"customPrompt":"a red fox"}`,
			want: CustomPrompt{Text: "a red fox"},
		},
		{
			name: "custom prompt wins over guided fields",
			body: `{"customPrompt":"a red fox","subject":"a cat"}`,
			want: CustomPrompt{Text: "a red fox"},
		},
		{
			name: "guided prompt",
			body: `{"subject":"a cat","style":"pop art","mood":"happy","lighting":"neon"}`,
			want: GuidedPrompt{Subject: "a cat", Style: "pop art", Mood: "happy", Lighting: "neon"},
		},
		{
			name: "guided prompt with missing and null fields",
			body: `{"subject":"a cat","mood":null}`,
			want: GuidedPrompt{Subject: "a cat"},
		},
		{
			name: "guided prompt with non-string field",
			body: `{"subject":"a cat","style":3}`,
			want: GuidedPrompt{Subject: "a cat", Style: "3"},
		},
		{
			name: "plain string",
			body: `"a red fox"`,
			want: RawPrompt{Text: "a red fox"},
		},
		{
			name: "number",
			body: `42`,
			want: RawPrompt{Text: "42"},
		},
		{
			name: "array",
			body: `["a","b"]`,
			want: RawPrompt{Text: `['a', 'b']`},
		},
		{
			name: "guided prompt with boolean field",
			body: `{"subject":"a cat","mood":true}`,
			want: GuidedPrompt{Subject: "a cat", Mood: "True"},
		},
		{
			name: "null",
			body: `null`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req PromptRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.Prompt)
		})
	}
}

func TestPromptRequest_UnmarshalJSON_Invalid(t *testing.T) {
	var req PromptRequest
	err := json.Unmarshal([]byte(`{"customPrompt":`), &req)

	assert.Error(t, err)
}

func TestPromptRequest_UnmarshalJSON_OtherShapesRendering(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{body: `true`, want: "True"},
		{body: `false`, want: "False"},
		{body: `1.5`, want: "1.5"},
		{body: `[1,2]`, want: "[1, 2]"},
		{body: `[]`, want: "[]"},
		{body: `[true,null,"x"]`, want: "[True, None, 'x']"},
		{body: `["it's"]`, want: `["it's"]`},
		{body: `[[1],{"a":[2]}]`, want: "[[1], {'a': [2]}]"},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var req PromptRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, RawPrompt{Text: tt.want}, req.Prompt)
			assert.Equal(t, tt.want, ResolvePrompt(req.Prompt))
		})
	}
}
