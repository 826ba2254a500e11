package main

import (
	"context"
	"fmt"
	"testing"

	"clipforge/internal/queue"
	"clipforge/internal/testsupport"
)

func seedDetectedItem(t *testing.T, env *cliTestEnv) *queue.Item {
	t.Helper()

	store := env.openStore(t)
	defer store.Close()

	item := testsupport.NewVOD(t, store, "https://www.twitch.tv/videos/9", "Ranked grind")
	payload, err := queue.EncodeCandidates([]queue.CandidateRecord{
		{Start: 100, End: 120, Score: 20, Kinds: []string{"chat", "audio"}},
		{Start: 300, End: 340, Score: 12, Kinds: []string{"chat"}},
	})
	if err != nil {
		t.Fatalf("EncodeCandidates: %v", err)
	}
	item.CandidatesJSON = payload
	item.Status = queue.StatusDetected
	if err := store.Update(context.Background(), item); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := store.SeedApprovals(context.Background(), item.ID, [][2]float64{{100, 120}, {300, 340}}); err != nil {
		t.Fatalf("SeedApprovals: %v", err)
	}
	return item
}

func TestReviewListShowsCandidates(t *testing.T) {
	env := setupCLITestEnv(t)
	item := seedDetectedItem(t, env)

	out, _, err := runCLI(t, []string{"review", "list", fmt.Sprintf("%d", item.ID)}, env.configPath)
	if err != nil {
		t.Fatalf("review list: %v", err)
	}
	requireContains(t, out, "chat+audio")
	requireContains(t, out, "01:40")
	requireContains(t, out, "05:00")
}

func TestReviewApproveAndRelease(t *testing.T) {
	env := setupCLITestEnv(t)
	item := seedDetectedItem(t, env)
	itemID := fmt.Sprintf("%d", item.ID)

	// Releasing before any approval is rejected.
	if _, _, err := runCLI(t, []string{"review", "release", itemID}, env.configPath); err == nil {
		t.Fatal("expected release to fail without approvals")
	}

	out, _, err := runCLI(t, []string{"review", "approve", itemID, "100", "--rating", "5"}, env.configPath)
	if err != nil {
		t.Fatalf("review approve: %v", err)
	}
	requireContains(t, out, "Approved candidate at 01:40")

	out, _, err = runCLI(t, []string{"review", "reject", itemID, "300"}, env.configPath)
	if err != nil {
		t.Fatalf("review reject: %v", err)
	}
	requireContains(t, out, "Rejected candidate at 05:00")

	out, _, err = runCLI(t, []string{"review", "release", itemID}, env.configPath)
	if err != nil {
		t.Fatalf("review release: %v", err)
	}
	requireContains(t, out, "released for slicing")

	store := env.openStore(t)
	defer store.Close()
	got, err := store.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != queue.StatusApproved {
		t.Errorf("status = %s, want approved", got.Status)
	}
}

func TestReviewApproveUnknownCandidate(t *testing.T) {
	env := setupCLITestEnv(t)
	item := seedDetectedItem(t, env)

	if _, _, err := runCLI(t, []string{"review", "approve", fmt.Sprintf("%d", item.ID), "999"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown candidate start")
	}
}

func TestReviewListUnknownItem(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"review", "list", "42"}, env.configPath); err == nil {
		t.Fatal("expected error for missing item")
	}
}
