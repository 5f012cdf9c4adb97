package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/futig/docqa/internal/config"
	"github.com/futig/docqa/internal/entity"
	"github.com/futig/docqa/internal/pkg/chunker"
	"github.com/futig/docqa/internal/pkg/prompt"
)

type fakeClient struct {
	answer  string
	err     error
	prompts []string
	models  []string
}

func (f *fakeClient) Generate(_ context.Context, model, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.models = append(f.models, model)
	return f.answer, f.err
}

func newPipeline(t *testing.T, client ModelClient, topK int) *Pipeline {
	t.Helper()

	c, err := chunker.New(20, 5)
	if err != nil {
		t.Fatalf("chunker: %v", err)
	}
	return New(c, topK, prompt.NewAssembler(prompt.DefaultHistoryWindow), client, config.DefaultModelCatalog())
}

func TestRun_SelectsTopFragments(t *testing.T) {
	client := &fakeClient{answer: "<think>dogs make noise</think>\nYes, dogs bark."}
	p := newPipeline(t, client, 2)

	result, err := p.Run(context.Background(), Request{
		Mode:      prompt.ModeDocumentQA,
		Model:     "gemma3:1b",
		Documents: []entity.Document{{Text: "cats and dogs are pets. dogs bark loudly.", SourceName: "pets.pdf (page 1)"}},
		Question:  "dogs bark",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(client.prompts) != 1 {
		t.Fatalf("expected one model call, got %d", len(client.prompts))
	}
	if !strings.Contains(client.prompts[0], "Documents:\nets. dogs bark \ncats and dogs are ") {
		t.Errorf("fragments must be ordered by score:\n%s", client.prompts[0])
	}
	if !strings.HasSuffix(client.prompts[0], "Question: dogs bark") {
		t.Errorf("prompt must end with the question:\n%s", client.prompts[0])
	}

	if result.Answer != "Yes, dogs bark." {
		t.Errorf("unexpected answer: %q", result.Answer)
	}
	if result.Reasoning == nil || *result.Reasoning != "<think>dogs make noise</think>" {
		t.Errorf("unexpected reasoning: %v", result.Reasoning)
	}
	if result.Model != "gemma3:1b" || len(result.Sources) != 2 {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.Sources[0].Offset != 19 || result.Sources[0].SourceName != "pets.pdf (page 1)" {
		t.Errorf("unexpected top source: %+v", result.Sources[0])
	}
}

func TestRun_NoDocuments(t *testing.T) {
	client := &fakeClient{answer: "Hello!"}
	p := newPipeline(t, client, 6)

	result, err := p.Run(context.Background(), Request{
		Mode:     prompt.ModeChat,
		Model:    "gemma3:270m",
		Question: "hi",
	})
	if err != nil {
		t.Fatalf("empty context must not be an error: %v", err)
	}
	if strings.Contains(client.prompts[0], "Documents:") {
		t.Errorf("no documents section expected:\n%s", client.prompts[0])
	}
	if result.Answer != "Hello!" || result.Reasoning != nil {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.Sources == nil || len(result.Sources) != 0 {
		t.Errorf("expected empty sources, got %v", result.Sources)
	}
}

func TestRun_ModelFailure(t *testing.T) {
	client := &fakeClient{err: errors.New("connection refused")}
	p := newPipeline(t, client, 6)

	_, err := p.Run(context.Background(), Request{Mode: prompt.ModeChat, Model: "qwen3:4b", Question: "hi"})

	var invErr *entity.ModelInvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ModelInvocationError, got %v", err)
	}
	if invErr.Model != "qwen3:4b" || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRun_ChatHistoryInPrompt(t *testing.T) {
	client := &fakeClient{answer: "Rex."}
	p := newPipeline(t, client, 6)

	_, err := p.Run(context.Background(), Request{
		Mode:  prompt.ModeChat,
		Model: "gemma3:1b",
		History: []entity.ConversationTurn{
			{Role: entity.RoleUser, Content: "my dog is Rex"},
			{Role: entity.RoleAssistant, Content: "Nice name."},
		},
		Question: "what is my dog called?",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(client.prompts[0], "Conversation:\nuser: my dog is Rex\nassistant: Nice name.") {
		t.Errorf("history missing from prompt:\n%s", client.prompts[0])
	}
}
