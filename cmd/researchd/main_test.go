package main

import (
	"testing"

	"github.com/aletheia-lab/researchd/internal/orchestrator"
)

func TestReportCommand(t *testing.T) {
	tests := []struct {
		line      string
		wantDepth orchestrator.Depth
		wantTopic string
		wantOK    bool
	}{
		{"research edge computing", orchestrator.DepthBasic, "edge computing", true},
		{"intermediate edge computing", orchestrator.DepthIntermediate, "edge computing", true},
		{"deep edge computing", orchestrator.DepthDeep, "edge computing", true},
		{"deep deep learning", orchestrator.DepthDeep, "deep learning", true},
		{"Research  spaced  topic", orchestrator.DepthBasic, "spaced  topic", true},
		{"research", "", "", false},
		{"research   ", "", "", false},
		{"status", "", "", false},
		{"tell me about research", "", "", false},
	}
	for _, tt := range tests {
		depth, topic, ok := reportCommand(tt.line)
		if ok != tt.wantOK || depth != tt.wantDepth || topic != tt.wantTopic {
			t.Errorf("reportCommand(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.line, depth, topic, ok, tt.wantDepth, tt.wantTopic, tt.wantOK)
		}
	}
}
