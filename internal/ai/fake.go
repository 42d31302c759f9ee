package ai

import (
	"context"
	"sync"
)

// FakeClient is a scripted in-memory Client for tests. Responses are
// consumed in order; when the script runs out the last entry repeats.
type FakeClient struct {
	ChatResponses    []string
	ChatErr          error
	AnalyzeResponses []string
	AnalyzeErr       error

	mu           sync.Mutex
	chatCalls    int
	analyzeCalls int
	LastSystem   string
	LastHistory  []Turn
	LastMessage  string
	LastPrompt   string
	LastImage    []byte
}

// Chat returns the next scripted chat response
func (f *FakeClient) Chat(_ context.Context, system string, history []Turn, message string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.chatCalls++
	f.LastSystem = system
	f.LastHistory = append([]Turn(nil), history...)
	f.LastMessage = message

	if f.ChatErr != nil {
		return "", f.ChatErr
	}
	return pick(f.ChatResponses, f.chatCalls-1), nil
}

// AnalyzeImage returns the next scripted analysis response
func (f *FakeClient) AnalyzeImage(_ context.Context, prompt string, imageJPEG []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.analyzeCalls++
	f.LastPrompt = prompt
	f.LastImage = append([]byte(nil), imageJPEG...)

	if f.AnalyzeErr != nil {
		return "", f.AnalyzeErr
	}
	return pick(f.AnalyzeResponses, f.analyzeCalls-1), nil
}

// ChatCalls returns how many chat requests were made
func (f *FakeClient) ChatCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chatCalls
}

// AnalyzeCalls returns how many analysis requests were made
func (f *FakeClient) AnalyzeCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.analyzeCalls
}

func pick(responses []string, i int) string {
	if len(responses) == 0 {
		return ""
	}
	if i >= len(responses) {
		i = len(responses) - 1
	}
	return responses[i]
}

// Ensure FakeClient implements Client
var _ Client = (*FakeClient)(nil)
