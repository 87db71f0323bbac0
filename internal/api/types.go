package api

import (
	"strings"
	"time"
)

// RunStatus is the server-reported state of a generation run.
type RunStatus string

const (
	StatusQueued    RunStatus = "queued"
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
	StatusUnknown   RunStatus = "unknown"
)

// ParseRunStatus maps arbitrary server strings onto the known statuses.
func ParseRunStatus(value string) RunStatus {
	switch RunStatus(strings.ToLower(strings.TrimSpace(value))) {
	case StatusQueued:
		return StatusQueued
	case StatusRunning:
		return StatusRunning
	case StatusCompleted:
		return StatusCompleted
	case StatusFailed:
		return StatusFailed
	default:
		return StatusUnknown
	}
}

// Terminal reports whether the status ends a run's server-side processing.
func (s RunStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Features are the optional generation add-ons the user can enable.
type Features struct {
	GenerativeBackground bool `json:"generative_background"`
	PremiumTTS           bool `json:"premium_tts"`
	HighResolution       bool `json:"4k_resolution"`
}

// GenerationConfig is the configuration snapshot sent with a generate call.
type GenerationConfig struct {
	RunID             string   `json:"run_id,omitempty"`
	VideoModel        string   `json:"video_model,omitempty"`
	ImageProvider     string   `json:"image_provider,omitempty"`
	TargetDuration    string   `json:"target_duration,omitempty"`
	AspectRatio       string   `json:"aspect_ratio,omitempty"`
	MusicMood         string   `json:"music_mood,omitempty"`
	CustomMusicPrompt string   `json:"custom_music_prompt,omitempty"`
	WebsiteURL        string   `json:"website_url,omitempty"`
	ProjectTitle      string   `json:"project_title,omitempty"`
	Features          Features `json:"features"`
}

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	Prompt           string            `json:"prompt"`
	ProductImagePath string            `json:"product_image_path,omitempty"`
	Config           *GenerationConfig `json:"config,omitempty"`
}

// GenerateResponse is the body returned by POST /api/generate.
type GenerateResponse struct {
	RunID   string `json:"run_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// UploadResponse is the body returned by POST /api/upload.
type UploadResponse struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
	RunID    string `json:"run_id"`
}

// SceneInfo is one entry of a result's scenes_list.
type SceneInfo struct {
	ID              string `json:"id"`
	Narrative       string `json:"narrative,omitempty"`
	Description     string `json:"description,omitempty"`
	GeneratedPrompt string `json:"generated_prompt,omitempty"`
}

// Script returns the best available script text for the scene.
func (s SceneInfo) Script() string {
	if strings.TrimSpace(s.Narrative) != "" {
		return s.Narrative
	}
	return s.Description
}

// RunResult is the structured result attached to a completed status payload.
// Result carries the legacy string shape ("... tmp/<run>/final.mp4 ...") kept
// as a fallback for the pre-structured backend contract.
type RunResult struct {
	RemoteAssets map[string]string `json:"remote_assets,omitempty"`
	ScenesList   []SceneInfo       `json:"scenes_list,omitempty"`
	VideoURL     string            `json:"video_url,omitempty"`
	VideoHistory []string          `json:"video_history,omitempty"`
	AssetsURL    string            `json:"assets_url,omitempty"`
	LogURL       string            `json:"log_url,omitempty"`
	Result       string            `json:"result,omitempty"`
}

// StatusResponse is the body returned by GET /api/status/{run_id}.
type StatusResponse struct {
	RunID         string            `json:"run_id"`
	Status        string            `json:"status"`
	Assets        map[string]string `json:"assets,omitempty"`
	Result        *RunResult        `json:"result,omitempty"`
	FailureReason string            `json:"failure_reason,omitempty"`
	FallbackUsed  bool              `json:"fallback_used,omitempty"`
}

// Run is one generation job as reported by GET /api/history.
type Run struct {
	RunID     string     `json:"run_id"`
	UserID    string     `json:"user_id,omitempty"`
	Status    string     `json:"status"`
	Prompt    string     `json:"prompt,omitempty"`
	Title     string     `json:"project_title,omitempty"`
	VideoURL  string     `json:"video_url,omitempty"`
	UpdatedAt time.Time  `json:"updated_at,omitempty"`
	Result    *RunResult `json:"result,omitempty"`
}

// RegenerateSceneRequest is the body of POST /api/regenerate-scene/{run}/{scene}.
type RegenerateSceneRequest struct {
	Prompt string `json:"prompt,omitempty"`
}

// BrandConfig is the brand kit stored via GET|POST /api/brand.
type BrandConfig struct {
	Name    string   `json:"name,omitempty"`
	LogoURL string   `json:"logo_url,omitempty"`
	Colors  []string `json:"colors,omitempty"`
	Font    string   `json:"font,omitempty"`
	Tone    string   `json:"tone,omitempty"`
}

// CreditsResponse is the body returned by GET /api/payments/credits.
type CreditsResponse struct {
	Credits int `json:"credits"`
}

// CreateOrderRequest is the body of POST /api/payments/create-order.
type CreateOrderRequest struct {
	Tier string `json:"tier"`
}

// Order describes a created checkout order. Amount is in minor currency units.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
	Tier     string `json:"tier,omitempty"`
	Credits  int    `json:"credits,omitempty"`
}

// VerifyPaymentRequest is the body of POST /api/payments/verify.
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// VerifyPaymentResponse is the body returned by POST /api/payments/verify.
type VerifyPaymentResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	CreditsAdded int    `json:"credits_added"`
	NewBalance   int    `json:"new_balance"`
}

// AdminStats is the aggregate report returned by GET /api/admin/stats.
type AdminStats struct {
	TotalRuns     int     `json:"total_runs"`
	ActiveRuns    int     `json:"active_runs"`
	TotalUsers    int     `json:"total_users"`
	CreditsSpent  int64   `json:"credits_spent"`
	RevenueMinor  int64   `json:"revenue_minor"`
	EstimatedCOGS float64 `json:"estimated_cogs"`
}

// AdminRun is one row of GET /api/admin/runs.
type AdminRun struct {
	RunID     string    `json:"run_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	Credits   int       `json:"credits"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// RateLimitEntry is one row of GET /api/admin/rate-limits.
type RateLimitEntry struct {
	UserID    string `json:"user_id"`
	Window    string `json:"window"`
	Requests  int    `json:"requests"`
	Throttled int    `json:"throttled"`
}

// MarginEntry is one row of GET /api/admin/margins.
type MarginEntry struct {
	RunID        string  `json:"run_id"`
	CreditsSpent int     `json:"credits_spent"`
	COGS         float64 `json:"cogs"`
	MarginPct    float64 `json:"margin_pct"`
}

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
