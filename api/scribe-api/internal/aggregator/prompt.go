// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_aggregator

import (
	"fmt"

	"github.com/flosch/pongo2/v6"
)

// DefaultSummaryPrompt is rendered with the full transcript log.
const DefaultSummaryPrompt = `Considering everything said in the conversation so far, summarize the whole discussion in three bullet points{% if language %} written in {{ language }}{% endif %}. Return nothing except the summary.

{{ transcript|safe }}`

type promptBuilder struct {
	tpl *pongo2.Template
}

func newPromptBuilder(source string) (*promptBuilder, error) {
	if source == "" {
		source = DefaultSummaryPrompt
	}
	tpl, err := pongo2.FromString(source)
	if err != nil {
		return nil, fmt.Errorf("parsing summary prompt: %w", err)
	}
	return &promptBuilder{tpl: tpl}, nil
}

func (p *promptBuilder) Build(transcript string, segments int, language string) (string, error) {
	return p.tpl.Execute(pongo2.Context{
		"transcript": transcript,
		"segments":   segments,
		"language":   language,
	})
}
