/*
Copyright 2026 Model Arena, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"github.com/modelarena/winrate/promptbuilder"
	"github.com/modelarena/winrate/schema"
)

// pairwisePrompt is the prompt for pairwise preference judgment. The first
// completion is always the policy's, the second the reference model's; the
// judge is never told which is which.
var pairwisePrompt = promptbuilder.MustNewPrompt(`<task>
You are comparing two completions written for the same prompt.
Decide which completion better satisfies the evaluation criterion.
</task>

{{prompt}}

{{completion_0}}

{{completion_1}}

{{criterion}}

<instructions>
1. Read the prompt, then both completions, before deciding.
2. Judge SOLELY against the given criterion - ignore superficial differences
   such as length or formatting unless the criterion makes them relevant.
3. You must pick exactly one winner. If the completions seem equally good,
   pick the one with fewer weaknesses against the criterion.
4. Explain the decision briefly, naming the specific strengths or failures
   that decided it.
</instructions>

<output_format>
Return your judgment as a JSON object matching this schema:

{{output_schema}}

"preferred_index" is 0 when completion_0 is better and 1 when completion_1 is better.
</output_format>

Respond with only the JSON object, no additional text.`)

var _ promptbuilder.Bindable = (*request)(nil)

// request binds one prompt/pair combination to the pairwise template.
type request struct {
	// Prompt is the user-facing prompt text both completions respond to.
	Prompt string

	// Completions holds the policy completion at index 0 and the reference
	// completion at index 1.
	Completions [2]string

	// Criterion is the preference criterion.
	Criterion string
}

// Bind implements promptbuilder.Bindable for request.
func (r *request) Bind(prompt *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	var err error

	if prompt, err = prompt.BindXML("prompt", struct {
		XMLName struct{} `xml:"prompt"`
		Content string   `xml:",chardata"`
	}{
		Content: r.Prompt,
	}); err != nil {
		return nil, err
	}

	if prompt, err = prompt.BindXML("completion_0", struct {
		XMLName struct{} `xml:"completion_0"`
		Content string   `xml:",chardata"`
	}{
		Content: r.Completions[0],
	}); err != nil {
		return nil, err
	}

	if prompt, err = prompt.BindXML("completion_1", struct {
		XMLName struct{} `xml:"completion_1"`
		Content string   `xml:",chardata"`
	}{
		Content: r.Completions[1],
	}); err != nil {
		return nil, err
	}

	if prompt, err = prompt.BindXML("criterion", struct {
		XMLName struct{} `xml:"criterion"`
		Content string   `xml:",chardata"`
	}{
		Content: r.Criterion,
	}); err != nil {
		return nil, err
	}

	// The schema is derived from the Verdict type so the prompt contract and
	// the parsed response can never drift apart.
	return prompt.BindJSON("output_schema", schema.ReflectType[Verdict]())
}

// buildPairwisePrompt binds a request and renders the final prompt text.
func buildPairwisePrompt(prompt string, pair [2]string, criterion string) (string, error) {
	req := &request{
		Prompt:      prompt,
		Completions: pair,
		Criterion:   criterion,
	}
	bound, err := req.Bind(pairwisePrompt)
	if err != nil {
		return "", err
	}
	return bound.Build()
}
