// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"encoding/json"

	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/ollama"
)

// OllamaInference implements StructuredInference and ModelChecker on top
// of an Ollama client.
type OllamaInference struct {
	client       *ollama.Client
	systemPrompt string
	options      *ollama.Options
}

var (
	_ StructuredInference = (*OllamaInference)(nil)
	_ ModelChecker        = (*OllamaInference)(nil)
)

// NewOllamaInference wraps client. A non-empty systemPrompt is sent ahead
// of the transcript on every request.
func NewOllamaInference(client *ollama.Client, systemPrompt string) *OllamaInference {
	return &OllamaInference{client: client, systemPrompt: systemPrompt}
}

// WithOptions sets model parameters sent with every request.
func (o *OllamaInference) WithOptions(opts *ollama.Options) *OllamaInference {
	o.options = opts
	return o
}

func (o *OllamaInference) request(modelID string, msgs []model.Message, format json.RawMessage) *ollama.ChatRequest {
	return &ollama.ChatRequest{
		Model:    modelID,
		Messages: model.ToOllamaMessages(o.systemPrompt, msgs),
		Format:   format,
		Options:  o.options,
	}
}

// Complete implements Inference.
func (o *OllamaInference) Complete(ctx context.Context, modelID string, msgs []model.Message) (model.Message, error) {
	resp, err := o.client.Chat(ctx, o.request(modelID, msgs, nil))
	if err != nil {
		return model.Message{}, err
	}
	return model.NewAssistantMessage(resp.Message.Content), nil
}

// Stream implements Inference.
func (o *OllamaInference) Stream(ctx context.Context, modelID string, msgs []model.Message, fn FragmentFunc) error {
	return o.client.ChatStream(ctx, o.request(modelID, msgs, nil), chunkAdapter(fn))
}

// CompleteStructured implements StructuredInference.
func (o *OllamaInference) CompleteStructured(ctx context.Context, modelID string, msgs []model.Message, schema json.RawMessage) (string, error) {
	resp, err := o.client.Chat(ctx, o.request(modelID, msgs, schema))
	if err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}

// StreamStructured implements StructuredInference.
func (o *OllamaInference) StreamStructured(ctx context.Context, modelID string, msgs []model.Message, schema json.RawMessage, fn FragmentFunc) error {
	return o.client.ChatStream(ctx, o.request(modelID, msgs, schema), chunkAdapter(fn))
}

// ListModels implements Inference.
func (o *OllamaInference) ListModels(ctx context.Context) ([]ModelSummary, error) {
	infos, err := o.client.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	models := make([]ModelSummary, 0, len(infos))
	for i := range infos {
		models = append(models, ModelSummary{
			Name:          infos[i].Name,
			Size:          infos[i].FormatSize(),
			ParameterSize: infos[i].Details.ParameterSize,
			Family:        infos[i].Details.Family,
		})
	}
	return models, nil
}

// HasModel implements ModelChecker.
func (o *OllamaInference) HasModel(ctx context.Context, name string) (bool, error) {
	return o.client.ModelExists(ctx, name)
}

func chunkAdapter(fn FragmentFunc) ollama.StreamCallback {
	return func(chunk ollama.StreamChunk) error {
		f := Fragment{Text: chunk.Content, Done: chunk.Done}
		if chunk.Done && (chunk.CompletionTokens > 0 || chunk.EvalDuration > 0) {
			f.Usage = &Usage{
				PromptTokens:     chunk.PromptTokens,
				CompletionTokens: chunk.CompletionTokens,
				EvalDuration:     chunk.EvalDuration,
				TotalDuration:    chunk.TotalDuration,
			}
		}
		return fn(f)
	}
}
