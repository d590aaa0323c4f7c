package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"notary/internal/core/proof"

	dom "notary/internal/services/stamping/domain"
)

// stubLedger scripts PollStatus replies in order and counts calls
type stubLedger struct {
	mu sync.Mutex

	uid       string
	submitErr error
	polls     []pollReply
	linkErr   error

	submitCalls int
	pollCalls   int
	linkCalls   int
	lastReqID   string
}

type pollReply struct {
	report dom.StatusReport
	err    error
}

func (l *stubLedger) SubmitHash(_ context.Context, _ string, requestID string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.submitCalls++
	l.lastReqID = requestID
	return l.uid, l.submitErr
}

func (l *stubLedger) PollStatus(context.Context, []string) (dom.StatusReport, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.pollCalls
	l.pollCalls++
	if i >= len(l.polls) {
		return pending(), nil
	}
	return l.polls[i].report, l.polls[i].err
}

func (l *stubLedger) RequestArtifactLink(context.Context, []string, string) (dom.ArtifactLink, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.linkCalls++
	if l.linkErr != nil {
		return dom.ArtifactLink{}, l.linkErr
	}
	return dom.ArtifactLink{Status: "success", DownloadURL: "https://files/proof.json", Filename: "proof.json"}, nil
}

func pending() dom.StatusReport {
	return dom.StatusReport{Status: dom.StatusSuccess, Records: []dom.StatusRecord{{Onchain: false}}}
}

func onchain(b proof.Bundle) dom.StatusReport {
	return dom.StatusReport{Status: dom.StatusSuccess, Records: []dom.StatusRecord{{Onchain: true, Bundle: b}}}
}

func newSvc(l *stubLedger, cfg Config) (*Svc, *[]time.Duration) {
	s := New(l, cfg)
	s.now = func() time.Time { return time.Unix(1700000000, 0) }
	var slept []time.Duration
	s.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return s, &slept
}

var validHash = strings.Repeat("a", 40)

func TestShortHashesNeverSubmit(t *testing.T) {
	for _, h := range []string{"", "abc", strings.Repeat("f", 31), strings.Repeat("é", 16), strings.Repeat("é", 32)} {
		l := &stubLedger{uid: "u1"}
		s, _ := newSvc(l, Config{MaxAttempts: 3})
		res := s.StampAndConfirm(context.Background(), h, "caller", nil)
		if res.Success || res.Message != MsgInvalidHash {
			t.Fatalf("hash %q: want validation failure, got %+v", h, res)
		}
		if l.submitCalls != 0 || l.pollCalls != 0 {
			t.Fatalf("hash %q: ledger was called (%d submits, %d polls)", h, l.submitCalls, l.pollCalls)
		}
	}
}

func TestScenarioConfirmedOnSecondPoll(t *testing.T) {
	want := proof.Bundle{Proof: "p", Root: "r", Address: "x", Data: "d"}
	l := &stubLedger{uid: "u1", polls: []pollReply{{report: pending()}, {report: onchain(want)}}}
	s, slept := newSvc(l, Config{MaxAttempts: 10, Delay: 10 * time.Second})

	res := s.StampAndConfirm(context.Background(), validHash, "agent1qxyzabcdef", nil)
	if !res.Success || !res.Onchain || res.Proof == nil || *res.Proof != want {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.UID != "u1" || l.pollCalls != 2 {
		t.Fatalf("uid=%s polls=%d", res.UID, l.pollCalls)
	}
	if len(*slept) != 1 || (*slept)[0] != 10*time.Second {
		t.Fatalf("sleeps = %v", *slept)
	}
	if l.lastReqID != "agent1qx-1700000000" {
		t.Fatalf("request id = %q", l.lastReqID)
	}
}

func TestConfirmationAtAttemptNStopsPolling(t *testing.T) {
	for n := 1; n <= 5; n++ {
		want := proof.Bundle{Proof: "p", Root: "r", Address: "a", Data: "d"}
		var polls []pollReply
		for range n - 1 {
			polls = append(polls, pollReply{report: pending()})
		}
		polls = append(polls, pollReply{report: onchain(want)})
		l := &stubLedger{uid: "u", polls: polls}
		s, _ := newSvc(l, Config{MaxAttempts: 5})

		res := s.StampAndConfirm(context.Background(), validHash, "c", nil)
		if !res.Onchain || *res.Proof != want {
			t.Fatalf("n=%d: not confirmed %+v", n, res)
		}
		if l.pollCalls != n {
			t.Fatalf("n=%d: polls = %d", n, l.pollCalls)
		}
	}
}

func TestExhaustionIsNotAnError(t *testing.T) {
	l := &stubLedger{uid: "u1"}
	s, slept := newSvc(l, Config{MaxAttempts: 4, Delay: time.Second})

	res := s.StampAndConfirm(context.Background(), validHash, "c", nil)
	if !res.Success || res.Onchain || res.Proof != nil {
		t.Fatalf("want pending result, got %+v", res)
	}
	if l.pollCalls != 4 {
		t.Fatalf("polls = %d, want 4", l.pollCalls)
	}
	if len(*slept) != 3 {
		t.Fatalf("no sleep expected after the last attempt, slept %d times", len(*slept))
	}
	if !strings.Contains(res.Message, "Still waiting") {
		t.Fatalf("message = %q", res.Message)
	}
}

func TestWaitForOnchainEmptyFieldsOnExhaustion(t *testing.T) {
	l := &stubLedger{uid: "u1"}
	s, _ := newSvc(l, Config{MaxAttempts: 3})
	conf := s.WaitForOnchain(context.Background(), "u1", nil)
	if conf.Onchain || !conf.Proof.IsZero() || conf.Attempts != 3 {
		t.Fatalf("got %+v", conf)
	}
}

func TestFailedLookupTerminatesImmediately(t *testing.T) {
	cases := map[string]pollReply{
		"transport":   {err: errors.New("boom")},
		"non-success": {report: dom.StatusReport{Status: "error"}},
	}
	for name, bad := range cases {
		l := &stubLedger{uid: "u1", polls: []pollReply{{report: pending()}, bad, {report: onchain(proof.Bundle{Proof: "p"})}}}
		s, _ := newSvc(l, Config{MaxAttempts: 10})
		conf := s.WaitForOnchain(context.Background(), "u1", nil)
		if conf.Onchain || !conf.Proof.IsZero() {
			t.Fatalf("%s: want not-onchain, got %+v", name, conf)
		}
		if l.pollCalls != 2 {
			t.Fatalf("%s: polls = %d, want 2", name, l.pollCalls)
		}
	}
}

func TestSubmitFailure(t *testing.T) {
	l := &stubLedger{submitErr: errors.New("down")}
	s, _ := newSvc(l, Config{})
	res := s.StampAndConfirm(context.Background(), validHash, "c", nil)
	if res.Success || res.Message != MsgSubmitFailed || l.pollCalls != 0 {
		t.Fatalf("got %+v polls=%d", res, l.pollCalls)
	}
}

func TestProgressNotices(t *testing.T) {
	l := &stubLedger{uid: "u1", polls: []pollReply{{report: pending()}, {report: pending()}, {report: onchain(proof.Bundle{Proof: "p", Root: "r", Address: "a", Data: "d"})}}}
	s, _ := newSvc(l, Config{MaxAttempts: 5})

	ch := make(chan dom.Progress, 16)
	s.StampAndConfirm(context.Background(), validHash, "c", ch)
	close(ch)

	var got []dom.Progress
	for p := range ch {
		got = append(got, p)
	}
	if len(got) != 2 {
		t.Fatalf("want submitted + one attempt notice, got %+v", got)
	}
	if got[0].Stage != dom.StageSubmitted || got[0].UID != "u1" {
		t.Fatalf("first notice %+v", got[0])
	}
	if got[1].Stage != dom.StageAttempt || got[1].Attempt != 2 || got[1].MaxAttempts != 5 || !strings.Contains(got[1].Text, "2/5") {
		t.Fatalf("attempt notice %+v", got[1])
	}
}

func TestFullProgressChannelNeverBlocks(t *testing.T) {
	l := &stubLedger{uid: "u1"}
	s, _ := newSvc(l, Config{MaxAttempts: 6})
	ch := make(chan dom.Progress) // unbuffered and never read

	done := make(chan dom.StampResult, 1)
	go func() { done <- s.StampAndConfirm(context.Background(), validHash, "c", ch) }()
	select {
	case res := <-done:
		if !res.Success || res.Onchain {
			t.Fatalf("got %+v", res)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("workflow blocked on progress channel")
	}
}

func TestArtifactLink(t *testing.T) {
	b := proof.Bundle{Proof: "p", Root: "r", Address: "a", Data: "d"}

	l := &stubLedger{uid: "u1", polls: []pollReply{{report: onchain(b)}}}
	s, _ := newSvc(l, Config{MaxAttempts: 2, ArtifactLinks: true})
	res := s.StampAndConfirm(context.Background(), validHash, "c", nil)
	if res.ArtifactLink == nil || res.ArtifactLink.Filename != "proof.json" || l.linkCalls != 1 {
		t.Fatalf("link missing: %+v", res)
	}

	l = &stubLedger{uid: "u1", polls: []pollReply{{report: onchain(b)}}, linkErr: errors.New("nope")}
	s, _ = newSvc(l, Config{MaxAttempts: 2, ArtifactLinks: true})
	res = s.StampAndConfirm(context.Background(), validHash, "c", nil)
	if !res.Success || !res.Onchain || res.ArtifactLink != nil || !strings.Contains(res.Message, MsgLinkMissing) {
		t.Fatalf("link failure should degrade, got %+v", res)
	}

	l = &stubLedger{uid: "u1", polls: []pollReply{{report: onchain(b)}}}
	s, _ = newSvc(l, Config{MaxAttempts: 2})
	s.StampAndConfirm(context.Background(), validHash, "c", nil)
	if l.linkCalls != 0 {
		t.Fatalf("links disabled but requested")
	}
}

func TestCancelledSleepStopsPolling(t *testing.T) {
	l := &stubLedger{uid: "u1"}
	s := New(l, Config{MaxAttempts: 10, Delay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	conf := s.WaitForOnchain(ctx, "u1", nil)
	if conf.Onchain || l.pollCalls != 1 {
		t.Fatalf("got %+v after %d polls", conf, l.pollCalls)
	}
}

func TestRequestID(t *testing.T) {
	now := time.Unix(42, 0)
	cases := map[string]string{
		"":                "stamp-42",
		"abc":             "abc-42",
		"chat-agent1qabc": "chat-age-42",
	}
	for in, want := range cases {
		if got := RequestID(in, now); got != want {
			t.Fatalf("RequestID(%q) = %q, want %q", in, got, want)
		}
	}
}
