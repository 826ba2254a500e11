package detection

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"clipforge/internal/config"
	"clipforge/internal/highlights"
	"clipforge/internal/logging"
	"clipforge/internal/queue"
	"clipforge/internal/services"
	"clipforge/internal/testsupport"
)

type stubAudioScanner struct {
	series highlights.TimeSeries
	err    error
}

func (s *stubAudioScanner) Scan(context.Context, string, float64) (highlights.TimeSeries, error) {
	return s.series, s.err
}

// chatExportJSON builds a TwitchDownloaderCLI-shaped export with the given
// number of messages at each offset.
func chatExportJSON(length float64, messagesAt map[float64]int) string {
	var comments []string
	for offset, count := range messagesAt {
		for i := 0; i < count; i++ {
			comments = append(comments, fmt.Sprintf(
				`{"content_offset_seconds": %.1f, "commenter": {"display_name": "user"}, "message": {"body": "Pog"}}`,
				offset))
		}
	}
	return fmt.Sprintf(`{"comments": [%s], "video": {"start": 0, "end": %.1f, "length": %.1f}}`,
		strings.Join(comments, ","), length, length)
}

// audioEnvelope builds a sampled amplitude series: loud between loudStart and
// loudEnd inclusive, quiet elsewhere.
func audioEnvelope(length, step, loudStart, loudEnd float64) highlights.TimeSeries {
	series := highlights.TimeSeries{Kind: highlights.KindAudio}
	for at := 0.0; at <= length; at += step {
		value := 0.1
		if at >= loudStart && at <= loudEnd {
			value = 0.9
		}
		series.Samples = append(series.Samples, highlights.Sample{At: at, Value: value})
	}
	return series
}

func detectionConfig(t *testing.T, mutate func(*config.Detection)) *config.Config {
	t.Helper()
	return testsupport.NewConfig(t, testsupport.WithDetection(func(det *config.Detection) {
		det.ChatThreshold = 3
		det.AudioThreshold = 0.5
		det.MinWindowSeconds = 10
		det.SmoothingWindowSeconds = 0
		det.MinGapSeconds = 10
		det.ChatBucketSeconds = 10
		det.RelaxFactor = 0.5
		det.MaxRelaxAttempts = 1
		if mutate != nil {
			mutate(det)
		}
	}))
}

func newDetectedItem(t *testing.T, cfg *config.Config, store *queue.Store, chatJSON string) *queue.Item {
	t.Helper()
	item := testsupport.NewVOD(t, store, "https://www.twitch.tv/videos/99", "Ranked grind")
	item.SourceFile = testsupport.WriteTextFile(t, testsupport.BaseDir(cfg), "vod.mp4", "not a real video")
	item.ChatLogFile = testsupport.WriteTextFile(t, testsupport.BaseDir(cfg), "chat.json", chatJSON)
	item.DurationSeconds = 300
	if err := store.Update(context.Background(), item); err != nil {
		t.Fatalf("Update: %v", err)
	}
	return item
}

func TestExecutePersistsCandidatesAndSeedsApprovals(t *testing.T) {
	cfg := detectionConfig(t, nil)
	store := testsupport.MustOpenStore(t, cfg)
	notifier := &testsupport.RecordingNotifier{}

	chatJSON := chatExportJSON(300, map[float64]int{100: 5, 110: 6, 120: 5})
	audio := &stubAudioScanner{series: audioEnvelope(300, 10, 100, 120)}
	detector := NewDetectorWithDependencies(cfg, store, logging.NewNop(), audio, notifier)

	item := newDetectedItem(t, cfg, store, chatJSON)
	if err := detector.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	records, err := queue.DecodeCandidates(item.CandidatesJSON)
	if err != nil {
		t.Fatalf("DecodeCandidates: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d candidates, want 1: %+v", len(records), records)
	}
	candidate := records[0]
	if candidate.Start != 100 || candidate.End != 120 {
		t.Errorf("candidate span = [%g, %g], want [100, 120]", candidate.Start, candidate.End)
	}
	if len(candidate.Kinds) != 2 {
		t.Errorf("candidate kinds = %v, want chat and audio", candidate.Kinds)
	}

	approvals, err := store.ApprovalsForItem(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("ApprovalsForItem: %v", err)
	}
	if len(approvals) != 1 {
		t.Fatalf("got %d approvals, want 1", len(approvals))
	}
	if approvals[0].StartSeconds != 100 || approvals[0].Approved {
		t.Errorf("approval = %+v, want undecided row at start 100", approvals[0])
	}

	if !notifier.Contains("candidates:Ranked grind:1") {
		t.Errorf("expected candidate notification, got %v", notifier.Events())
	}
	if !notifier.Contains("review:Ranked grind:1") {
		t.Errorf("expected review notification, got %v", notifier.Events())
	}
}

func TestExecuteRelaxesThresholdsWhenFirstPassIsEmpty(t *testing.T) {
	cfg := detectionConfig(t, func(det *config.Detection) {
		det.ChatThreshold = 8
		det.AudioThreshold = 0.95
	})
	store := testsupport.MustOpenStore(t, cfg)

	chatJSON := chatExportJSON(300, map[float64]int{100: 5, 110: 6, 120: 5})
	audio := &stubAudioScanner{series: audioEnvelope(300, 10, 100, 120)}
	detector := NewDetectorWithDependencies(cfg, store, logging.NewNop(), audio, &testsupport.RecordingNotifier{})

	item := newDetectedItem(t, cfg, store, chatJSON)
	if err := detector.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	records, err := queue.DecodeCandidates(item.CandidatesJSON)
	if err != nil {
		t.Fatalf("DecodeCandidates: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d candidates after relaxation, want 1", len(records))
	}
}

func TestExecuteNoCandidatesParksForReview(t *testing.T) {
	cfg := detectionConfig(t, func(det *config.Detection) {
		det.ChatThreshold = 1000
		det.AudioThreshold = 100
	})
	store := testsupport.MustOpenStore(t, cfg)

	chatJSON := chatExportJSON(300, map[float64]int{100: 5})
	audio := &stubAudioScanner{series: audioEnvelope(300, 10, 100, 120)}
	detector := NewDetectorWithDependencies(cfg, store, logging.NewNop(), audio, &testsupport.RecordingNotifier{})

	item := newDetectedItem(t, cfg, store, chatJSON)
	err := detector.Execute(context.Background(), item)
	if err == nil {
		t.Fatal("expected zero-candidate error")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation marker", err)
	}
	if services.FailureStatus(err) != queue.StatusReview {
		t.Errorf("FailureStatus = %v, want review", services.FailureStatus(err))
	}
}

func TestExecuteBadDetectorConfigIsConfigurationError(t *testing.T) {
	cfg := detectionConfig(t, func(det *config.Detection) {
		det.MinGapSeconds = 0
	})
	store := testsupport.MustOpenStore(t, cfg)

	chatJSON := chatExportJSON(300, map[float64]int{100: 5})
	audio := &stubAudioScanner{series: audioEnvelope(300, 10, 100, 120)}
	detector := NewDetectorWithDependencies(cfg, store, logging.NewNop(), audio, &testsupport.RecordingNotifier{})

	item := newDetectedItem(t, cfg, store, chatJSON)
	if err := detector.Execute(context.Background(), item); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("error = %v, want ErrConfiguration", err)
	}
}

func TestExecuteUnparseableChatLogFailsValidation(t *testing.T) {
	cfg := detectionConfig(t, nil)
	store := testsupport.MustOpenStore(t, cfg)
	detector := NewDetectorWithDependencies(cfg, store, logging.NewNop(),
		&stubAudioScanner{}, &testsupport.RecordingNotifier{})

	item := newDetectedItem(t, cfg, store, "{not json")
	if err := detector.Execute(context.Background(), item); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestPrepareRejectsMissingInputs(t *testing.T) {
	cfg := detectionConfig(t, nil)
	store := testsupport.MustOpenStore(t, cfg)
	detector := NewDetectorWithDependencies(cfg, store, logging.NewNop(),
		&stubAudioScanner{}, &testsupport.RecordingNotifier{})

	item := testsupport.NewVOD(t, store, "https://www.twitch.tv/videos/99", "t")
	if err := detector.Prepare(context.Background(), item); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation for missing source file", err)
	}
}
