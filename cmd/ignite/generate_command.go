package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"ignite/internal/api"
	"ignite/internal/lifecycle"
	"ignite/internal/preflight"
)

func newGenerateCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		title       string
		duration    int
		imagePath   string
		websiteURL  string
		aspectRatio string
		musicMood   string
		musicPrompt string
		videoModel  string
		imageModel  string
		genBG       bool
		premiumTTS  bool
		fourK       bool
		noWatch     bool
	)

	cmd := &cobra.Command{
		Use:   "generate [prompt]",
		Short: "Generate a new ad video from a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			apiClient, err := cmdCtx.apiClient()
			if err != nil {
				return err
			}

			if duration == 0 {
				duration = cfg.Generation.DefaultDuration
			}
			if aspectRatio == "" {
				aspectRatio = cfg.Generation.AspectRatio
			}
			if musicMood == "" {
				musicMood = cfg.Generation.MusicMood
			}
			if videoModel == "" {
				videoModel = cfg.Generation.VideoModel
			}
			if imageModel == "" {
				imageModel = cfg.Generation.ImageModel
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Balance is advisory; the server re-checks. An unreadable
			// balance just skips the early exit.
			balance := -1
			if credits, err := apiClient.Credits(ctx); err == nil {
				balance = credits
			}

			uploadedPath := ""
			if imagePath != "" {
				upload, err := apiClient.Upload(ctx, imagePath)
				if err != nil {
					return fmt.Errorf("upload product image: %w", err)
				}
				uploadedPath = upload.Path
				fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s\n", upload.Filename)
			}

			logClient, err := cmdCtx.logClient()
			if err != nil {
				return err
			}
			store, err := cmdCtx.openRunStore()
			if err != nil {
				return err
			}
			defer store.Close()
			cache, err := cmdCtx.openHistoryCache()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ctrl, err := lifecycle.New(lifecycle.Options{
				Client:       apiClient,
				Logs:         logClient,
				Store:        store,
				HistoryCache: cache,
				Notifier:     cmdCtx.notifier(),
				Logger:       cmdCtx.logger(),
				UserID:       cfg.Auth.UserID,
				PollInterval: cfg.PollInterval(),
				PollCeiling:  cfg.PollCeiling(),
				OnEvent: func(event lifecycle.Event) {
					switch event.Kind {
					case lifecycle.EventStateChanged:
						fmt.Fprintf(out, "-> %s\n", describeState(event.State))
					case lifecycle.EventLogLine:
						if strings.TrimSpace(event.Message) != "" {
							fmt.Fprintf(out, "   %s\n", event.Message)
						}
					}
				},
			})
			if err != nil {
				return err
			}

			runID, err := ctrl.Start(ctx, lifecycle.StartRequest{
				Preflight: preflight.Request{
					ProjectTitle:    title,
					Prompt:          args[0],
					DurationSeconds: duration,
					AspectRatio:     aspectRatio,
					ImageModel:      imageModel,
					Features: api.Features{
						GenerativeBackground: genBG,
						PremiumTTS:           premiumTTS,
						HighResolution:       fourK,
					},
				},
				ProductImagePath: uploadedPath,
				Config: &api.GenerationConfig{
					VideoModel:        videoModel,
					ImageProvider:     imageModel,
					TargetDuration:    strconv.Itoa(duration) + "s",
					AspectRatio:       aspectRatio,
					MusicMood:         musicMood,
					CustomMusicPrompt: musicPrompt,
					WebsiteURL:        websiteURL,
					ProjectTitle:      title,
					Features: api.Features{
						GenerativeBackground: genBG,
						PremiumTTS:           premiumTTS,
						HighResolution:       fourK,
					},
				},
				KnownBalance: balance,
			})
			if err != nil {
				if errors.Is(err, preflight.ErrInsufficientCredits) || api.IsPaymentRequired(err) {
					return fmt.Errorf("%w; run `ignite credits buy` to top up", err)
				}
				return err
			}

			fmt.Fprintf(out, "Run %s started\n", runID)
			if noWatch {
				ctrl.Stop()
				fmt.Fprintf(out, "Check progress with `ignite status %s`\n", runID)
				return nil
			}

			ctrl.Wait()
			if ctx.Err() != nil {
				ctrl.Stop()
				fmt.Fprintln(out, "Interrupted; the run continues server-side.")
				fmt.Fprintf(out, "Resume watching with `ignite status %s --watch`\n", runID)
				return nil
			}
			return reportOutcome(out, ctrl.Snapshot())
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Project title (required)")
	cmd.Flags().IntVarP(&duration, "duration", "d", 0, "Target duration in seconds")
	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "Product image to upload")
	cmd.Flags().StringVar(&websiteURL, "website", "", "Product website URL")
	cmd.Flags().StringVar(&aspectRatio, "aspect", "", "Aspect ratio (9:16, 16:9, 1:1)")
	cmd.Flags().StringVar(&musicMood, "music-mood", "", "Soundtrack mood")
	cmd.Flags().StringVar(&musicPrompt, "music-prompt", "", "Custom soundtrack prompt")
	cmd.Flags().StringVar(&videoModel, "video-model", "", "Video generation model")
	cmd.Flags().StringVar(&imageModel, "image-model", "", "Image generation model")
	cmd.Flags().BoolVar(&genBG, "generative-background", false, "Replace the product background with a generated one")
	cmd.Flags().BoolVar(&premiumTTS, "premium-tts", false, "Use the premium voice")
	cmd.Flags().BoolVar(&fourK, "4k", false, "Render at 4K resolution")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Start the run and exit without watching")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func describeState(state lifecycle.State) string {
	switch state {
	case lifecycle.StateStarting:
		return "Submitting run..."
	case lifecycle.StateBackgroundProcessing:
		return "Generating in the background..."
	case lifecycle.StateRegeneratingScene:
		return "Regenerating scene..."
	case lifecycle.StateCompleted:
		return "Completed"
	case lifecycle.StateFailed:
		return "Failed"
	case lifecycle.StateTimedOut:
		return "Timed out"
	default:
		return string(state)
	}
}

func reportOutcome(out io.Writer, snap lifecycle.Snapshot) error {
	switch snap.State {
	case lifecycle.StateCompleted:
		fmt.Fprintf(out, "Video ready: %s\n", snap.FinalVideoURL)
		if len(snap.Assets) > 0 {
			fmt.Fprintf(out, "Download it with `ignite download %s`\n", snap.RunID)
		}
		return nil
	case lifecycle.StateFailed:
		reason := snap.FailureReason
		if reason == "" {
			reason = "unknown"
		}
		return fmt.Errorf("run %s failed: %s", snap.RunID, reason)
	case lifecycle.StateTimedOut:
		return fmt.Errorf("gave up waiting for run %s; it may still finish, check `ignite status %s`", snap.RunID, snap.RunID)
	default:
		return fmt.Errorf("run %s ended in state %s", snap.RunID, snap.State)
	}
}
