package api

import (
	"context"
	"errors"
	"testing"

	"clipforge/internal/queue"
	"clipforge/internal/services"
	"clipforge/internal/testsupport"
)

func TestQueueServiceListAndDescribe(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	svc := NewQueueService(store)

	item := testsupport.NewVOD(t, store, "https://www.twitch.tv/videos/1", "Ranked grind")
	item.Status = queue.StatusDetected
	payload, err := queue.EncodeCandidates([]queue.CandidateRecord{{Start: 10, End: 30, Score: 5}})
	if err != nil {
		t.Fatalf("EncodeCandidates: %v", err)
	}
	item.CandidatesJSON = payload
	if err := store.Update(context.Background(), item); err != nil {
		t.Fatalf("Update: %v", err)
	}
	testsupport.NewVOD(t, store, "https://www.twitch.tv/videos/2", "Other")

	all, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d items, want 2", len(all))
	}

	detected, err := svc.List(context.Background(), queue.StatusDetected)
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if len(detected) != 1 || detected[0].Status != "detected" {
		t.Fatalf("filtered = %+v, want the detected item", detected)
	}
	if detected[0].CandidateCount != 1 {
		t.Errorf("CandidateCount = %d, want 1", detected[0].CandidateCount)
	}

	dto, err := svc.Describe(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if dto == nil || dto.VODURL != "https://www.twitch.tv/videos/1" {
		t.Errorf("Describe = %+v", dto)
	}

	missing, err := svc.Describe(context.Background(), 9999)
	if err != nil {
		t.Fatalf("Describe missing: %v", err)
	}
	if missing != nil {
		t.Errorf("Describe missing = %+v, want nil", missing)
	}
}

func TestQueueServiceAdd(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	svc := NewQueueService(store)

	dto, err := svc.Add(context.Background(), AddVODRequest{URL: " https://www.twitch.tv/videos/3 ", Title: "New VOD"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if dto.VODURL != "https://www.twitch.tv/videos/3" || dto.Status != "pending" {
		t.Errorf("Add = %+v, want trimmed pending item", dto)
	}

	if _, err := svc.Add(context.Background(), AddVODRequest{URL: "  "}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation for empty URL", err)
	}
}

func TestQueueServiceStats(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	svc := NewQueueService(store)

	testsupport.NewVOD(t, store, "https://www.twitch.tv/videos/1", "a")
	testsupport.NewVOD(t, store, "https://www.twitch.tv/videos/2", "b")

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats["pending"] != 2 {
		t.Errorf("stats = %v, want two pending", stats)
	}
}
