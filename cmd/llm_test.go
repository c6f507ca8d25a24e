package cmd

import (
	"testing"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/store"
)

func TestAggregateUsage(t *testing.T) {
	events := []store.LLMRequestEventRecord{
		{LLMRequestEventData: store.LLMRequestEventData{Purpose: "answer", Model: "m1", InputTokens: 10, OutputTokens: 5, LatencyMs: 100}},
		{LLMRequestEventData: store.LLMRequestEventData{Purpose: "answer", Model: "m2", InputTokens: 20, OutputTokens: 5, LatencyMs: 300}},
		{LLMRequestEventData: store.LLMRequestEventData{Purpose: "expand", Model: "m1", InputTokens: 1, OutputTokens: 1, LatencyMs: 50}},
	}

	got := aggregateUsage(events, func(e store.LLMRequestEventRecord) string { return e.Purpose })
	if len(got) != 2 {
		t.Fatalf("got %d groups, want 2", len(got))
	}
	if got[0].Key != "answer" || got[0].Calls != 2 || got[0].InputTokens != 30 || got[0].AvgLatencyMs() != 200 {
		t.Errorf("answer group = %+v", got[0])
	}
	if got[1].Key != "expand" || got[1].Calls != 1 {
		t.Errorf("expand group = %+v", got[1])
	}
}

func TestResolveChoice(t *testing.T) {
	opts := []string{"3", "4", "5", "6"}
	tests := []struct {
		in, want string
	}{
		{"b", "4"},
		{"B", "4"},
		{"4", "4"},
		{"z", "z"},
		{"loop", "loop"},
	}
	for _, tt := range tests {
		if got := resolveChoice(tt.in, opts); got != tt.want {
			t.Errorf("resolveChoice(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := resolveChoice("a", nil); got != "a" {
		t.Errorf("resolveChoice without options = %q", got)
	}
}
