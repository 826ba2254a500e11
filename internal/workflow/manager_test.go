package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"clipforge/internal/logging"
	"clipforge/internal/queue"
	"clipforge/internal/services"
	"clipforge/internal/stage"
	"clipforge/internal/testsupport"
)

type stubHandler struct {
	name       string
	prepareErr error
	executeErr error
	executed   int
	onExecute  func(item *queue.Item)
}

func (s *stubHandler) Prepare(_ context.Context, item *queue.Item) error {
	return s.prepareErr
}

func (s *stubHandler) Execute(_ context.Context, item *queue.Item) error {
	s.executed++
	if s.onExecute != nil {
		s.onExecute(item)
	}
	return s.executeErr
}

func (s *stubHandler) HealthCheck(context.Context) stage.Health {
	return stage.Healthy(s.name)
}

func managerFixture(t *testing.T) (*Manager, *queue.Store, *testsupport.RecordingNotifier) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.QueuePollInterval = 1
	store := testsupport.MustOpenStore(t, cfg)
	notifier := &testsupport.RecordingNotifier{}
	manager := NewManagerWithNotifier(cfg, store, logging.NewNop(), notifier)
	return manager, store, notifier
}

func fullStubSet() (StageSet, map[string]*stubHandler) {
	handlers := map[string]*stubHandler{
		"ingest":    {name: "ingest"},
		"detection": {name: "detection"},
		"slicing":   {name: "slicing"},
		"subtitles": {name: "subtitles"},
		"export":    {name: "export"},
		"upload":    {name: "upload"},
	}
	return StageSet{
		Ingest:    handlers["ingest"],
		Detection: handlers["detection"],
		Slicing:   handlers["slicing"],
		Subtitles: handlers["subtitles"],
		Export:    handlers["export"],
		Upload:    handlers["upload"],
	}, handlers
}

func waitForStatus(t *testing.T, store *queue.Store, id int64, want queue.Status) *queue.Item {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		item, err := store.GetByID(context.Background(), id)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if item != nil && item.Status == want {
			return item
		}
		time.Sleep(10 * time.Millisecond)
	}
	item, _ := store.GetByID(context.Background(), id)
	t.Fatalf("item never reached %s, last status %s", want, item.Status)
	return nil
}

func TestManagerRunsItemThroughDetectionGate(t *testing.T) {
	manager, store, _ := managerFixture(t)
	set, handlers := fullStubSet()
	manager.ConfigureStages(set)

	item := testsupport.NewVOD(t, store, "https://www.twitch.tv/videos/1", "t")

	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer manager.Stop()

	got := waitForStatus(t, store, item.ID, queue.StatusDetected)
	if handlers["ingest"].executed != 1 || handlers["detection"].executed != 1 {
		t.Errorf("ingest/detection executed %d/%d, want 1/1",
			handlers["ingest"].executed, handlers["detection"].executed)
	}
	if handlers["slicing"].executed != 0 {
		t.Errorf("slicing ran %d times before approval, want 0", handlers["slicing"].executed)
	}
	if got.Status != queue.StatusDetected {
		t.Errorf("status = %s, want detected (awaiting review)", got.Status)
	}
}

func TestManagerResumesApprovedItemToCompletion(t *testing.T) {
	manager, store, _ := managerFixture(t)
	set, handlers := fullStubSet()
	manager.ConfigureStages(set)

	item := testsupport.NewVOD(t, store, "https://www.twitch.tv/videos/2", "t")
	item.Status = queue.StatusApproved
	if err := store.Update(context.Background(), item); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer manager.Stop()

	got := waitForStatus(t, store, item.ID, queue.StatusCompleted)
	for _, name := range []string{"slicing", "subtitles", "export", "upload"} {
		if handlers[name].executed != 1 {
			t.Errorf("%s executed %d times, want 1", name, handlers[name].executed)
		}
	}
	if got.ProgressPercent != 100 {
		t.Errorf("ProgressPercent = %g, want 100 at completion", got.ProgressPercent)
	}
}

func TestManagerSkipsUploadWhenHandlerMissing(t *testing.T) {
	manager, store, _ := managerFixture(t)
	set, handlers := fullStubSet()
	set.Upload = nil
	manager.ConfigureStages(set)

	item := testsupport.NewVOD(t, store, "https://www.twitch.tv/videos/3", "t")
	item.Status = queue.StatusApproved
	if err := store.Update(context.Background(), item); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer manager.Stop()

	waitForStatus(t, store, item.ID, queue.StatusCompleted)
	if handlers["export"].executed != 1 {
		t.Errorf("export executed %d times, want 1", handlers["export"].executed)
	}
	if handlers["upload"].executed != 0 {
		t.Errorf("upload executed %d times, want 0", handlers["upload"].executed)
	}
}

func TestManagerValidationFailureParksItemInReview(t *testing.T) {
	manager, store, notifier := managerFixture(t)
	set, handlers := fullStubSet()
	handlers["detection"].executeErr = services.Wrap(
		services.ErrValidation, "detection", "detect highlights", "no candidates", nil)
	manager.ConfigureStages(set)

	item := testsupport.NewVOD(t, store, "https://www.twitch.tv/videos/4", "t")

	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer manager.Stop()

	got := waitForStatus(t, store, item.ID, queue.StatusReview)
	if !got.NeedsReview {
		t.Errorf("NeedsReview = false, want true")
	}
	if got.ReviewReason == "" {
		t.Errorf("ReviewReason empty, want failure message")
	}
	if !notifier.Contains("error:detection") {
		t.Errorf("expected error notification, got %v", notifier.Events())
	}
}

func TestManagerTransientFailureMarksItemFailed(t *testing.T) {
	manager, store, _ := managerFixture(t)
	set, handlers := fullStubSet()
	handlers["ingest"].executeErr = errors.New("network blip")
	manager.ConfigureStages(set)

	item := testsupport.NewVOD(t, store, "https://www.twitch.tv/videos/5", "t")

	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer manager.Stop()

	got := waitForStatus(t, store, item.ID, queue.StatusFailed)
	if got.ErrorMessage == "" {
		t.Errorf("ErrorMessage empty, want failure detail")
	}
}

func TestManagerPrepareFailureClassifiedLikeExecute(t *testing.T) {
	manager, store, _ := managerFixture(t)
	set, handlers := fullStubSet()
	handlers["ingest"].prepareErr = services.Wrap(
		services.ErrValidation, "ingest", "prepare", "bad url", nil)
	manager.ConfigureStages(set)

	item := testsupport.NewVOD(t, store, "https://www.twitch.tv/videos/6", "t")

	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer manager.Stop()

	waitForStatus(t, store, item.ID, queue.StatusReview)
	if handlers["ingest"].executed != 0 {
		t.Errorf("Execute ran %d times after failed Prepare, want 0", handlers["ingest"].executed)
	}
}

func TestManagerStartRequiresConfiguredStages(t *testing.T) {
	manager, _, _ := managerFixture(t)
	if err := manager.Start(context.Background()); err == nil {
		manager.Stop()
		t.Fatal("expected error starting without stages")
	}
}

func TestManagerStartTwiceFails(t *testing.T) {
	manager, _, _ := managerFixture(t)
	set, _ := fullStubSet()
	manager.ConfigureStages(set)

	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer manager.Stop()
	if err := manager.Start(context.Background()); err == nil {
		t.Fatal("expected error on second Start")
	}
}

func TestManagerStatusReportsStageHealth(t *testing.T) {
	manager, store, _ := managerFixture(t)
	set, _ := fullStubSet()
	manager.ConfigureStages(set)

	testsupport.NewVOD(t, store, "https://www.twitch.tv/videos/8", "t")

	summary := manager.Status(context.Background())
	if summary.Running {
		t.Errorf("Running = true before Start")
	}
	if len(summary.StageHealth) != 6 {
		t.Errorf("StageHealth has %d entries, want 6", len(summary.StageHealth))
	}
	for name, health := range summary.StageHealth {
		if !health.Ready {
			t.Errorf("stage %s unhealthy: %+v", name, health)
		}
	}
	if summary.QueueStats[queue.StatusPending] != 1 {
		t.Errorf("QueueStats = %v, want one pending item", summary.QueueStats)
	}
}

func TestCountActiveItemsIgnoresHumanGates(t *testing.T) {
	stats := map[queue.Status]int{
		queue.StatusPending:   0,
		queue.StatusDetected:  2,
		queue.StatusReview:    1,
		queue.StatusCompleted: 3,
		queue.StatusFailed:    1,
	}
	if got := countActiveItems(stats); got != 0 {
		t.Errorf("countActiveItems = %d, want 0", got)
	}
	stats[queue.StatusSlicing] = 1
	if got := countActiveItems(stats); got != 1 {
		t.Errorf("countActiveItems = %d, want 1", got)
	}
}

func TestDeriveStageLabel(t *testing.T) {
	if got := deriveStageLabel(queue.StatusDetecting); got != "Detecting highlights" {
		t.Errorf("label = %q", got)
	}
	if got := deriveStageLabel(queue.Status("weird")); got != "Weird" {
		t.Errorf("fallback label = %q", got)
	}
}
