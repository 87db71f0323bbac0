package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ignite/internal/api"
	"ignite/internal/logstream"
	"ignite/internal/preflight"
)

type fakeAPI struct {
	mu          sync.Mutex
	generateErr error
	statuses    []api.StatusResponse
	statusIdx   int
	regenErr    error

	generateCalls int
	statusCalls   int
	regenCalls    int
}

func (f *fakeAPI) Generate(ctx context.Context, req api.GenerateRequest) (api.GenerateResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generateCalls++
	if f.generateErr != nil {
		return api.GenerateResponse{}, f.generateErr
	}
	return api.GenerateResponse{RunID: "run-1", Status: "queued"}, nil
}

func (f *fakeAPI) Status(ctx context.Context, runID string) (api.StatusResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	if len(f.statuses) == 0 {
		return api.StatusResponse{RunID: runID, Status: "running"}, nil
	}
	resp := f.statuses[f.statusIdx]
	if f.statusIdx < len(f.statuses)-1 {
		f.statusIdx++
	}
	return resp, nil
}

func (f *fakeAPI) RegenerateScene(ctx context.Context, runID, sceneID string, req api.RegenerateSceneRequest) (api.GenerateResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regenCalls++
	if f.regenErr != nil {
		return api.GenerateResponse{}, f.regenErr
	}
	return api.GenerateResponse{RunID: runID, Status: "queued"}, nil
}

func (f *fakeAPI) calls() (generate, status, regen int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generateCalls, f.statusCalls, f.regenCalls
}

func newTestController(t *testing.T, client GenerationAPI) *Controller {
	t.Helper()
	ctrl, err := New(Options{
		Client:       client,
		UserID:       "user-1",
		PollInterval: 10 * time.Millisecond,
		PollCeiling:  500 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(ctrl.Stop)
	return ctrl
}

func startRequest() StartRequest {
	return StartRequest{
		Preflight: preflight.Request{
			ProjectTitle:    "Summer Launch",
			Prompt:          "a coffee ad",
			DurationSeconds: 15,
		},
		KnownBalance: -1,
	}
}

func waitForState(t *testing.T, ctrl *Controller, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ctrl.State() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("state = %q, want %q", ctrl.State(), want)
}

func TestStartRunsToCompletion(t *testing.T) {
	client := &fakeAPI{
		statuses: []api.StatusResponse{
			{Status: "running", Assets: map[string]string{"Hook_image": "https://cdn/h.png"}},
			{Status: "running", Assets: map[string]string{"Hook_video": "https://cdn/h.mp4"}},
			{
				Status: "completed",
				Result: &api.RunResult{
					VideoURL:   "https://cdn/final.mp4",
					ScenesList: []api.SceneInfo{{ID: "Hook", Narrative: "opening shot"}},
				},
			},
		},
	}
	ctrl := newTestController(t, client)

	runID, err := ctrl.Start(context.Background(), startRequest())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if runID != "run-1" {
		t.Errorf("runID = %q", runID)
	}
	waitForState(t, ctrl, StateCompleted)

	snap := ctrl.Snapshot()
	if snap.FinalVideoURL != "https://cdn/final.mp4" {
		t.Errorf("FinalVideoURL = %q", snap.FinalVideoURL)
	}
	if snap.Assets["Hook_image"] == "" || snap.Assets["Hook_video"] == "" {
		t.Errorf("assets dropped across polls: %v", snap.Assets)
	}
	if len(snap.Scenes) != 1 || snap.Scenes[0].ID != "Hook" {
		t.Errorf("scenes = %+v", snap.Scenes)
	}
}

func TestStartPreflightFailureMakesNoNetworkCalls(t *testing.T) {
	client := &fakeAPI{}
	ctrl := newTestController(t, client)

	req := startRequest()
	req.KnownBalance = 1
	_, err := ctrl.Start(context.Background(), req)
	if !errors.Is(err, preflight.ErrInsufficientCredits) {
		t.Fatalf("expected insufficient credits, got %v", err)
	}
	if gen, status, _ := client.calls(); gen != 0 || status != 0 {
		t.Errorf("network calls made: generate=%d status=%d", gen, status)
	}
	if ctrl.State() != StateIdle {
		t.Errorf("state = %q, want idle", ctrl.State())
	}
}

func TestRunFailureCarriesReason(t *testing.T) {
	client := &fakeAPI{
		statuses: []api.StatusResponse{
			{Status: "running"},
			{Status: "failed", FailureReason: "render worker crashed"},
		},
	}
	ctrl := newTestController(t, client)

	if _, err := ctrl.Start(context.Background(), startRequest()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitForState(t, ctrl, StateFailed)
	if snap := ctrl.Snapshot(); snap.FailureReason != "render worker crashed" {
		t.Errorf("FailureReason = %q", snap.FailureReason)
	}
}

func TestWatchTimesOutAtCeiling(t *testing.T) {
	client := &fakeAPI{} // always running
	ctrl, err := New(Options{
		Client:       client,
		UserID:       "user-1",
		PollInterval: 10 * time.Millisecond,
		PollCeiling:  60 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(ctrl.Stop)

	if _, err := ctrl.Start(context.Background(), startRequest()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitForState(t, ctrl, StateTimedOut)
}

func TestStartWhileActiveIsRejected(t *testing.T) {
	client := &fakeAPI{} // always running
	ctrl := newTestController(t, client)

	if _, err := ctrl.Start(context.Background(), startRequest()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := ctrl.Start(context.Background(), startRequest()); !errors.Is(err, ErrRunActive) {
		t.Fatalf("expected ErrRunActive, got %v", err)
	}
}

func TestRegenerateSceneRequiresCompletion(t *testing.T) {
	ctrl := newTestController(t, &fakeAPI{})
	if err := ctrl.RegenerateScene(context.Background(), "Hook", ""); !errors.Is(err, ErrNotCompleted) {
		t.Fatalf("expected ErrNotCompleted, got %v", err)
	}
}

func TestRegenerateSceneThrottledRestoresCompleted(t *testing.T) {
	client := &fakeAPI{
		statuses: []api.StatusResponse{
			{Status: "completed", Result: &api.RunResult{VideoURL: "https://cdn/final.mp4"}},
		},
		regenErr: api.NewStatusError(429, "rate limit exceeded"),
	}
	ctrl := newTestController(t, client)

	if _, err := ctrl.Start(context.Background(), startRequest()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitForState(t, ctrl, StateCompleted)

	err := ctrl.RegenerateScene(context.Background(), "Hook", "punchier opener")
	if !errors.Is(err, ErrRegenThrottled) {
		t.Fatalf("expected ErrRegenThrottled, got %v", err)
	}
	if ctrl.State() != StateCompleted {
		t.Errorf("state = %q, want completed", ctrl.State())
	}
}

func TestRegenerateSceneKeepsFirstVideoURL(t *testing.T) {
	client := &fakeAPI{
		statuses: []api.StatusResponse{
			{Status: "completed", Result: &api.RunResult{VideoURL: "https://cdn/v1.mp4"}},
		},
	}
	ctrl := newTestController(t, client)

	if _, err := ctrl.Start(context.Background(), startRequest()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitForState(t, ctrl, StateCompleted)

	// The regenerated run completes with a new URL; the snapshot keeps the
	// one the user already has.
	client.mu.Lock()
	client.statuses = []api.StatusResponse{
		{Status: "completed", Result: &api.RunResult{
			VideoURL:     "https://cdn/v2.mp4",
			VideoHistory: []string{"https://cdn/v1.mp4"},
		}},
	}
	client.statusIdx = 0
	client.mu.Unlock()

	if err := ctrl.RegenerateScene(context.Background(), "Hook", ""); err != nil {
		t.Fatalf("RegenerateScene failed: %v", err)
	}
	ctrl.Wait()
	if snap := ctrl.Snapshot(); snap.FinalVideoURL != "https://cdn/v1.mp4" {
		t.Errorf("FinalVideoURL = %q, want the first one", snap.FinalVideoURL)
	}
}

func TestRegenerateInsufficientCredits(t *testing.T) {
	client := &fakeAPI{
		statuses: []api.StatusResponse{
			{Status: "completed", Result: &api.RunResult{VideoURL: "https://cdn/final.mp4"}},
		},
		regenErr: api.NewStatusError(402, "insufficient credits"),
	}
	ctrl := newTestController(t, client)

	if _, err := ctrl.Start(context.Background(), startRequest()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitForState(t, ctrl, StateCompleted)

	err := ctrl.RegenerateScene(context.Background(), "CTA", "")
	if !errors.Is(err, ErrRegenInsufficientCredits) {
		t.Fatalf("expected ErrRegenInsufficientCredits, got %v", err)
	}
	if ctrl.State() != StateCompleted {
		t.Errorf("state = %q, want completed", ctrl.State())
	}
}

// fakeFollower blocks inside Follow until its context is cancelled, the way
// the real stream parks in a socket read. Wait only returns once every
// follow has been released, so a leaked stream shows up as a hung test.
type fakeFollower struct {
	mu      sync.Mutex
	follows int
}

func (f *fakeFollower) Follow(ctx context.Context, runID string, handle func(logstream.Line)) error {
	f.mu.Lock()
	f.follows++
	f.mu.Unlock()
	handle(logstream.Line{RunID: runID, Text: "Generating script"})
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeFollower) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.follows
}

func newStreamingController(t *testing.T, client GenerationAPI, follower *fakeFollower, ceiling time.Duration) *Controller {
	t.Helper()
	ctrl, err := New(Options{
		Client:       client,
		Logs:         follower,
		UserID:       "user-1",
		PollInterval: 10 * time.Millisecond,
		PollCeiling:  ceiling,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(ctrl.Stop)
	return ctrl
}

func waitDone(t *testing.T, ctrl *Controller) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		ctrl.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not tear down; the log stream is still open")
	}
}

func TestCompletionClosesLogStream(t *testing.T) {
	client := &fakeAPI{
		statuses: []api.StatusResponse{
			{Status: "completed", Result: &api.RunResult{VideoURL: "https://cdn/final.mp4"}},
		},
	}
	follower := &fakeFollower{}
	ctrl := newStreamingController(t, client, follower, 500*time.Millisecond)

	if _, err := ctrl.Start(context.Background(), startRequest()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitDone(t, ctrl)
	if ctrl.State() != StateCompleted {
		t.Errorf("state = %q, want completed", ctrl.State())
	}
	if follower.count() != 1 {
		t.Errorf("follows = %d, want 1", follower.count())
	}
}

func TestFailureClosesLogStream(t *testing.T) {
	client := &fakeAPI{
		statuses: []api.StatusResponse{
			{Status: "failed", FailureReason: "render error"},
		},
	}
	follower := &fakeFollower{}
	ctrl := newStreamingController(t, client, follower, 500*time.Millisecond)

	if _, err := ctrl.Start(context.Background(), startRequest()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitDone(t, ctrl)
	if ctrl.State() != StateFailed {
		t.Errorf("state = %q, want failed", ctrl.State())
	}
}

func TestTimeoutClosesLogStream(t *testing.T) {
	client := &fakeAPI{} // always running
	follower := &fakeFollower{}
	ctrl := newStreamingController(t, client, follower, 60*time.Millisecond)

	if _, err := ctrl.Start(context.Background(), startRequest()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitDone(t, ctrl)
	if ctrl.State() != StateTimedOut {
		t.Errorf("state = %q, want timed_out", ctrl.State())
	}
}

func TestRegenerationReopensAndClosesLogStream(t *testing.T) {
	client := &fakeAPI{
		statuses: []api.StatusResponse{
			{Status: "completed", Result: &api.RunResult{VideoURL: "https://cdn/v1.mp4"}},
		},
	}
	follower := &fakeFollower{}
	ctrl := newStreamingController(t, client, follower, 500*time.Millisecond)

	if _, err := ctrl.Start(context.Background(), startRequest()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitDone(t, ctrl)
	if follower.count() != 1 {
		t.Fatalf("follows after first run = %d, want 1", follower.count())
	}

	client.mu.Lock()
	client.statuses = []api.StatusResponse{
		{Status: "completed", Result: &api.RunResult{VideoURL: "https://cdn/v2.mp4"}},
	}
	client.statusIdx = 0
	client.mu.Unlock()

	if err := ctrl.RegenerateScene(context.Background(), "Hook", ""); err != nil {
		t.Fatalf("RegenerateScene failed: %v", err)
	}
	waitDone(t, ctrl)
	if follower.count() != 2 {
		t.Errorf("follows after regeneration = %d, want 2", follower.count())
	}
	if ctrl.State() != StateCompleted {
		t.Errorf("state = %q, want completed", ctrl.State())
	}
}

func TestStopReturnsToIdle(t *testing.T) {
	client := &fakeAPI{} // always running
	ctrl := newTestController(t, client)

	if _, err := ctrl.Start(context.Background(), startRequest()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	ctrl.Stop()
	if state := ctrl.State(); state != StateIdle {
		t.Errorf("state after Stop = %q, want idle", state)
	}
}
