package reasoning

import (
	"strings"
	"testing"
)

func TestSplit_ThinkBlock(t *testing.T) {
	resp := Split("<think>reasoning here</think>Final answer.")

	if resp.Answer != "Final answer." {
		t.Errorf("unexpected answer: %q", resp.Answer)
	}
	if resp.Reasoning == nil || *resp.Reasoning != "<think>reasoning here</think>" {
		t.Errorf("unexpected reasoning: %v", resp.Reasoning)
	}
}

func TestSplit_RoundTrip(t *testing.T) {
	cases := []struct{ pre, mid, post string }{
		{"", "", ""},
		{"  intro ", "step 1\nstep 2", " outro\n"},
		{"A", "x", "B"},
		{"\n", "multi\n\nline", "answer with </think> inside"},
	}

	for _, tc := range cases {
		raw := tc.pre + OpenMarker + tc.mid + CloseMarker + tc.post
		resp := Split(raw)

		wantReasoning := OpenMarker + tc.mid + CloseMarker
		if resp.Reasoning == nil || *resp.Reasoning != wantReasoning {
			t.Errorf("%q: unexpected reasoning %v", raw, resp.Reasoning)
		}
		if want := strings.TrimSpace(tc.pre + tc.post); resp.Answer != want {
			t.Errorf("%q: want answer %q, got %q", raw, want, resp.Answer)
		}
	}
}

func TestSplit_NoMarkers(t *testing.T) {
	raw := "  plain answer with spaces  "
	resp := Split(raw)

	if resp.Answer != raw {
		t.Errorf("answer should be unchanged, got %q", resp.Answer)
	}
	if resp.Reasoning != nil {
		t.Errorf("reasoning should be absent, got %q", *resp.Reasoning)
	}
}

func TestSplit_Malformed(t *testing.T) {
	for _, raw := range []string{
		"<think>never closed",
		"closed only</think> answer",
		"</think>reversed<think> markers",
	} {
		resp := Split(raw)
		if resp.Reasoning != nil {
			t.Errorf("%q: reasoning should be absent", raw)
		}
		if resp.Answer != raw {
			t.Errorf("%q: answer should be the whole response, got %q", raw, resp.Answer)
		}
	}
}

func TestSplit_OnlyFirstPair(t *testing.T) {
	resp := Split("<think>a</think>middle<think>b</think>end")

	if *resp.Reasoning != "<think>a</think>" {
		t.Errorf("unexpected reasoning: %q", *resp.Reasoning)
	}
	if resp.Answer != "middle<think>b</think>end" {
		t.Errorf("text after the first pair must stay in the answer, got %q", resp.Answer)
	}
}
