package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"ignite/internal/api"
	"ignite/internal/historycache"
	"ignite/internal/logging"
	"ignite/internal/logstream"
	"ignite/internal/notifications"
	"ignite/internal/preflight"
	"ignite/internal/runstore"
)

// GenerationAPI is the slice of the REST client the controller drives.
type GenerationAPI interface {
	Generate(ctx context.Context, req api.GenerateRequest) (api.GenerateResponse, error)
	Status(ctx context.Context, runID string) (api.StatusResponse, error)
	RegenerateScene(ctx context.Context, runID, sceneID string, req api.RegenerateSceneRequest) (api.GenerateResponse, error)
}

// LogFollower streams a run's log feed. A nil follower disables streaming.
type LogFollower interface {
	Follow(ctx context.Context, runID string, handle func(logstream.Line)) error
}

// Options configure a Controller.
type Options struct {
	Client       GenerationAPI
	Logs         LogFollower
	Store        *runstore.Store
	HistoryCache *historycache.Cache
	Notifier     notifications.Service
	Logger       *slog.Logger
	UserID       string

	PollInterval time.Duration
	PollCeiling  time.Duration

	// OnEvent receives progress events. Called from the watch goroutine,
	// sometimes with internal locks held; it must not call back into the
	// Controller.
	OnEvent func(Event)

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// Snapshot is a point-in-time copy of the controller's view of the run.
type Snapshot struct {
	State         State
	RunID         string
	Title         string
	Assets        map[string]string
	Scenes        []api.SceneInfo
	FinalVideoURL string
	FailureReason string
	LastFriendly  string
	StartedAt     time.Time
}

// Controller owns one run at a time.
type Controller struct {
	client   GenerationAPI
	logs     LogFollower
	store    *runstore.Store
	cache    *historycache.Cache
	notifier notifications.Service
	logger   *slog.Logger
	userID   string

	pollInterval time.Duration
	pollCeiling  time.Duration
	onEvent      func(Event)
	now          func() time.Time

	mu            sync.RWMutex
	state         State
	runID         string
	title         string
	prompt        string
	creditCost    int
	assets        map[string]string
	scenes        []api.SceneInfo
	finalVideoURL string
	failureReason string
	lastFriendly  string
	startedAt     time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs a Controller. Client is required; everything else degrades
// to a quiet default.
func New(opts Options) (*Controller, error) {
	if opts.Client == nil {
		return nil, errors.New("lifecycle: client is required")
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 3 * time.Second
	}
	if opts.PollCeiling <= opts.PollInterval {
		opts.PollCeiling = 10 * time.Minute
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notifications.NewNoop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Controller{
		client:       opts.Client,
		logs:         opts.Logs,
		store:        opts.Store,
		cache:        opts.HistoryCache,
		notifier:     notifier,
		logger:       logger,
		userID:       strings.TrimSpace(opts.UserID),
		pollInterval: opts.PollInterval,
		pollCeiling:  opts.PollCeiling,
		onEvent:      opts.OnEvent,
		now:          now,
		state:        StateIdle,
	}, nil
}

// StartRequest carries everything needed to kick off a run.
type StartRequest struct {
	Preflight        preflight.Request
	ProductImagePath string
	Config           *api.GenerationConfig

	// KnownBalance enables the advisory credit check. Negative skips it.
	KnownBalance int
}

// ErrRunActive is returned when Start is called while a watch is in flight.
var ErrRunActive = errors.New("lifecycle: a run is already being watched; stop it first")

// Start validates the request, submits the run, and begins watching it.
// Preflight failures return before any network call is made.
func (c *Controller) Start(ctx context.Context, req StartRequest) (string, error) {
	checked, err := preflight.Check(req.Preflight, req.KnownBalance)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	if c.state.Active() {
		c.mu.Unlock()
		return "", ErrRunActive
	}
	c.setStateLocked(StateStarting, "")
	c.mu.Unlock()

	genReq := api.GenerateRequest{
		Prompt:           req.Preflight.Prompt,
		ProductImagePath: req.ProductImagePath,
		Config:           req.Config,
	}
	resp, err := c.client.Generate(ctx, genReq)
	if err != nil {
		c.mu.Lock()
		c.setStateLocked(StateIdle, "")
		c.mu.Unlock()
		return "", err
	}

	c.mu.Lock()
	c.runID = resp.RunID
	c.title = req.Preflight.ProjectTitle
	c.prompt = req.Preflight.Prompt
	c.creditCost = checked.EstimatedCost
	c.assets = nil
	c.scenes = nil
	c.finalVideoURL = ""
	c.failureReason = ""
	c.lastFriendly = ""
	c.startedAt = c.now()
	c.mu.Unlock()

	c.recordRun(ctx, string(api.StatusQueued))
	if err := c.notifier.NotifyRunStarted(ctx, req.Preflight.ProjectTitle, checked.EstimatedCost); err != nil {
		c.logger.Warn("run started notification failed", logging.Error(err))
	}

	c.beginWatch()
	return resp.RunID, nil
}

// Attach resumes watching an existing run, e.g. after a CLI restart.
func (c *Controller) Attach(runID, title string) error {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return errors.New("lifecycle: run id is required")
	}
	c.mu.Lock()
	if c.state.Active() {
		c.mu.Unlock()
		return ErrRunActive
	}
	c.runID = runID
	c.title = title
	c.assets = nil
	c.scenes = nil
	c.finalVideoURL = ""
	c.failureReason = ""
	c.lastFriendly = ""
	c.startedAt = c.now()
	c.setStateLocked(StateStarting, "")
	c.mu.Unlock()

	c.beginWatch()
	return nil
}

// Stop tears down the active watch, if any, and waits for it to exit. The
// server-side run keeps going; only the local watch ends.
func (c *Controller) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	c.wg.Wait()

	c.mu.Lock()
	if c.state.Active() {
		c.setStateLocked(StateIdle, "")
	}
	c.mu.Unlock()
}

// Wait blocks until the active watch goroutine exits.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Snapshot returns a copy of the controller's current view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	assets := make(map[string]string, len(c.assets))
	for k, v := range c.assets {
		assets[k] = v
	}
	scenes := append([]api.SceneInfo(nil), c.scenes...)
	return Snapshot{
		State:         c.state,
		RunID:         c.runID,
		Title:         c.title,
		Assets:        assets,
		Scenes:        scenes,
		FinalVideoURL: c.finalVideoURL,
		FailureReason: c.failureReason,
		LastFriendly:  c.lastFriendly,
		StartedAt:     c.startedAt,
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) setStateLocked(state State, reason string) {
	if c.state == state {
		return
	}
	c.state = state
	c.failureReason = reason
	c.logger.Info("state changed",
		logging.String("state", string(state)),
		logging.String(logging.FieldRunID, c.runID))
	c.emit(Event{Kind: EventStateChanged, State: state, RunID: c.runID, Message: reason})
}

func (c *Controller) emit(event Event) {
	if c.onEvent != nil {
		c.onEvent(event)
	}
}

// recordRun mirrors the run's current state into the local journal and drops
// the history snapshot so the next history read sees the change.
func (c *Controller) recordRun(ctx context.Context, status string) {
	c.mu.RLock()
	run := runstore.Run{
		RunID:         c.runID,
		UserID:        c.userID,
		Status:        status,
		Prompt:        c.prompt,
		Title:         c.title,
		VideoURL:      c.finalVideoURL,
		CreditsSpent:  c.creditCost,
		FailureReason: c.failureReason,
	}
	runID := c.runID
	c.mu.RUnlock()

	if c.userID == "" || run.RunID == "" {
		return
	}
	if c.store != nil {
		if err := c.store.Upsert(ctx, run); err != nil {
			c.logger.Warn("run journal update failed", logging.Error(err))
		}
	}
	if c.cache != nil {
		c.cache.InvalidateForRun(runID)
	}
}

func elapsedSince(now func() time.Time, start time.Time) time.Duration {
	if start.IsZero() {
		return 0
	}
	return now().Sub(start)
}
