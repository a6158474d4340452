package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Writer produces short texts for profiles and matches.
type Writer interface {
	GenerateBio(ctx context.Context, in BioInput) ([]string, error)
	GenerateIcebreakers(ctx context.Context, me, them Brief) ([]string, error)
}

type BioInput struct {
	DisplayName string
	Role        string
	Skills      []string
	Interests   []string
	LookingFor  []string
}

// Brief is what the model is told about one side of a match.
type Brief struct {
	Name      string
	Role      string
	Skills    []string
	Interests []string
}

type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-1.5-flash")
	model.SetTemperature(0.7)

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Close() {
	c.client.Close()
}

func (c *GeminiClient) GenerateBio(ctx context.Context, in BioInput) ([]string, error) {
	prompt := fmt.Sprintf(`
		Write 3 short first-person bios (max 280 characters each) for a collaboration app
		where people look for partners for side projects.
		Name: %s
		Role: %s
		Skills: %v
		Interests: %v
		Looking for: %v
		Output: JSON array of strings.
	`, in.DisplayName, in.Role, in.Skills, in.Interests, in.LookingFor)

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseStringList(text)
}

func (c *GeminiClient) GenerateIcebreakers(ctx context.Context, me, them Brief) ([]string, error) {
	prompt := fmt.Sprintf(`
		Two people matched on a collaboration app.
		Me: %s, %s, skills %v, interests %v
		Them: %s, %s, skills %v, interests %v
		Task: Create 3 distinct opening lines I could send them.
		Focus on a project they could build together.
		Output: JSON array of strings.
	`, me.Name, me.Role, me.Skills, me.Interests, them.Name, them.Role, them.Skills, them.Interests)

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseStringList(text)
}

func (c *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no content generated")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}

// parseStringList accepts a JSON array, optionally inside a markdown code
// fence, or falls back to one item per non-empty line.
func parseStringList(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var items []string
	if err := json.Unmarshal([]byte(text), &items); err == nil {
		return compact(items)
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*0123456789. ")
		if line == "" || line == "[" || line == "]" {
			continue
		}
		items = append(items, strings.Trim(line, `",`))
	}
	return compact(items)
}

func compact(items []string) ([]string, error) {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty model response")
	}
	return out, nil
}
