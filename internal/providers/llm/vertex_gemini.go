package llm

import (
	"context"
	"errors"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-1.5-flash"

var ErrEmptyResponse = errors.New("model returned no text")

type VertexConfig struct {
	ProjectID       string
	Location        string
	Model           string
	CredentialsFile string // optional, ADC otherwise
	Temperature     float32
	MaxOutputTokens int32
}

type VertexGemini struct {
	client *vertexgenai.Client
	model  *vertexgenai.GenerativeModel
}

func NewVertexGemini(ctx context.Context, cfg VertexConfig) (*VertexGemini, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	c, err := vertexgenai.NewClient(ctx, cfg.ProjectID, cfg.Location, opts...)
	if err != nil {
		return nil, err
	}

	name := cfg.Model
	if name == "" {
		name = defaultModel
	}

	m := c.GenerativeModel(name)
	m.ResponseMIMEType = "application/json"
	if cfg.Temperature > 0 {
		m.SetTemperature(cfg.Temperature)
	}
	if cfg.MaxOutputTokens > 0 {
		m.SetMaxOutputTokens(cfg.MaxOutputTokens)
	}
	return &VertexGemini{client: c, model: m}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := v.model.GenerateContent(ctx, vertexgenai.Text(prompt))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(vertexgenai.Text); ok {
				b.WriteString(string(t))
			}
		}
		if b.Len() > 0 {
			break
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}
