// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// guidedPromptTemplate combines the guided form fields into a single sentence.
// Field order: subject, style, mood, lighting.
const guidedPromptTemplate = "%s in %s style with %s mood and %s lighting"

// Prompt is the payload of an image generation request. It is one of
// [CustomPrompt], [GuidedPrompt] or [RawPrompt]; use [ResolvePrompt] to obtain
// the text sent to the generation provider.
type Prompt interface {
	isPrompt()
}

// CustomPrompt is free text entered by the user. It is used verbatim.
type CustomPrompt struct {
	Text string
}

// GuidedPrompt is the structured form. Missing fields are empty strings.
type GuidedPrompt struct {
	Subject  string `json:"subject"`
	Style    string `json:"style"`
	Mood     string `json:"mood"`
	Lighting string `json:"lighting"`
}

// RawPrompt is any other request shape, coerced to its string representation.
type RawPrompt struct {
	Text string
}

func (CustomPrompt) isPrompt() {}
func (GuidedPrompt) isPrompt() {}
func (RawPrompt) isPrompt()    {}

// ResolvePrompt returns the final prompt text for p.
// A nil prompt resolves to the empty string.
func ResolvePrompt(p Prompt) string {
	switch v := p.(type) {
	case CustomPrompt:
		return v.Text
	case GuidedPrompt:
		return fmt.Sprintf(guidedPromptTemplate, v.Subject, v.Style, v.Mood, v.Lighting)
	case RawPrompt:
		return v.Text
	default:
		return ""
	}
}

// PromptRequest is the body of POST /image/generate.
//
// Accepted shapes:
//
//	{"customPrompt": "a red fox"}                        -> CustomPrompt
//	{"subject": "...", "style": "...", ...}              -> GuidedPrompt
//	"a red fox" / 42 / [1,2]                             -> RawPrompt
//
// Non-string values are rendered the way a Python client would print them:
// true becomes "True", [1,2] becomes "[1, 2]", nested strings are quoted
// ('a') and numbers keep their JSON spelling. An empty body or JSON null
// leaves Prompt nil; a null guided field is treated as missing.
type PromptRequest struct {
	Prompt Prompt
}

// UnmarshalJSON implements [json.Unmarshaler].
func (r *PromptRequest) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		r.Prompt = nil
		return nil
	}

	switch trimmed[0] {
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return fmt.Errorf("error decoding prompt object: %w", err)
		}

		if custom, ok := fields["customPrompt"]; ok {
			r.Prompt = CustomPrompt{Text: rawToString(custom)}
			return nil
		}

		r.Prompt = GuidedPrompt{
			Subject:  rawToString(fields["subject"]),
			Style:    rawToString(fields["style"]),
			Mood:     rawToString(fields["mood"]),
			Lighting: rawToString(fields["lighting"]),
		}
		return nil
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return fmt.Errorf("error decoding prompt string: %w", err)
		}
		r.Prompt = RawPrompt{Text: text}
		return nil
	default:
		text, err := displayString(trimmed)
		if err != nil {
			return fmt.Errorf("error decoding prompt: %w", err)
		}
		r.Prompt = RawPrompt{Text: text}
		return nil
	}
}

// rawToString returns the string value of a JSON string, "" for a missing
// value or null, and the display form of anything else.
func rawToString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	text, err := displayString(raw)
	if err != nil {
		return string(raw)
	}
	return text
}

// displayString renders a JSON value for use in prompt text. A top-level
// string is returned unquoted.
func displayString(raw []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var b strings.Builder
	if err := writeDisplayValue(dec, &b, true); err != nil {
		return "", err
	}
	if _, err := dec.Token(); err == nil {
		return "", errors.New("unexpected data after value")
	}
	return b.String(), nil
}

func writeDisplayValue(dec *json.Decoder, b *strings.Builder, top bool) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '[':
			b.WriteByte('[')
			for i := 0; dec.More(); i++ {
				if i > 0 {
					b.WriteString(", ")
				}
				if err = writeDisplayValue(dec, b, false); err != nil {
					return err
				}
			}
			b.WriteByte(']')
		case '{':
			b.WriteByte('{')
			for i := 0; dec.More(); i++ {
				if i > 0 {
					b.WriteString(", ")
				}
				key, err := dec.Token()
				if err != nil {
					return err
				}
				b.WriteString(quoteDisplay(key.(string)))
				b.WriteString(": ")
				if err = writeDisplayValue(dec, b, false); err != nil {
					return err
				}
			}
			b.WriteByte('}')
		default:
			return fmt.Errorf("unexpected delimiter %q", v)
		}
		// closing delimiter
		_, err = dec.Token()
		return err
	case string:
		if top {
			b.WriteString(v)
		} else {
			b.WriteString(quoteDisplay(v))
		}
	case json.Number:
		b.WriteString(v.String())
	case bool:
		if v {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case nil:
		b.WriteString("None")
	}
	return nil
}

// quoteDisplay quotes s with single quotes, switching to double quotes when
// s contains a single quote and no double quote.
func quoteDisplay(s string) string {
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		return `"` + strings.ReplaceAll(s, `\`, `\\`) + `"`
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
