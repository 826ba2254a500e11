package highlights

import (
	"math"
	"testing"
)

func TestMergeSpikesCoOccurringPair(t *testing.T) {
	chat := []SpikeWindow{{Start: 10, End: 14, Peak: 50, Kind: KindChat}}
	audio := []SpikeWindow{{Start: 12, End: 16, Peak: 0.8, Kind: KindAudio}}

	candidates := MergeSpikes(chat, audio, MergeConfig{OverlapBonus: 10, MinGap: 1})
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	cand := candidates[0]
	if cand.Start != 10 || cand.End != 16 {
		t.Errorf("span = [%.1f, %.1f], want [10.0, 16.0]", cand.Start, cand.End)
	}
	if math.Abs(cand.Score-60.8) > 1e-9 {
		t.Errorf("score = %.4f, want 60.8", cand.Score)
	}
	if !cand.HasKind(KindChat) || !cand.HasKind(KindAudio) {
		t.Errorf("kinds = %v, want both chat and audio", cand.Kinds)
	}
	if cand.Reason == "" {
		t.Error("expected a non-empty reason")
	}
}

func TestMergeSpikesNearAdjacencyWithinMinGap(t *testing.T) {
	chat := []SpikeWindow{{Start: 10, End: 14, Peak: 30, Kind: KindChat}}
	audio := []SpikeWindow{{Start: 14.5, End: 18, Peak: 0.5, Kind: KindAudio}}

	candidates := MergeSpikes(chat, audio, MergeConfig{OverlapBonus: 5, MinGap: 1})
	if len(candidates) != 1 {
		t.Fatalf("expected a merged candidate, got %d", len(candidates))
	}
	if candidates[0].Start != 10 || candidates[0].End != 18 {
		t.Errorf("span = [%.1f, %.1f], want [10.0, 18.0]", candidates[0].Start, candidates[0].End)
	}
}

func TestMergeSpikesGapBeyondMinGapStaysSeparate(t *testing.T) {
	chat := []SpikeWindow{{Start: 10, End: 14, Peak: 30, Kind: KindChat}}
	audio := []SpikeWindow{{Start: 20, End: 24, Peak: 0.5, Kind: KindAudio}}

	candidates := MergeSpikes(chat, audio, MergeConfig{OverlapBonus: 5, MinGap: 2})
	if len(candidates) != 2 {
		t.Fatalf("expected 2 singleton candidates, got %d", len(candidates))
	}
	if len(candidates[0].Kinds) != 1 || len(candidates[1].Kinds) != 1 {
		t.Errorf("expected single-signal candidates, got %v and %v", candidates[0].Kinds, candidates[1].Kinds)
	}
}

func TestMergeSpikesSingletonAudio(t *testing.T) {
	audio := []SpikeWindow{{Start: 100, End: 103, Peak: 0.9, Kind: KindAudio}}

	candidates := MergeSpikes(nil, audio, MergeConfig{OverlapBonus: 10, MinGap: 1})
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	cand := candidates[0]
	if cand.Start != 100 || cand.End != 103 {
		t.Errorf("span = [%.1f, %.1f], want [100.0, 103.0]", cand.Start, cand.End)
	}
	if cand.Score != 0.9 {
		t.Errorf("score = %.2f, want 0.9", cand.Score)
	}
	if len(cand.Kinds) != 1 || cand.Kinds[0] != KindAudio {
		t.Errorf("kinds = %v, want [audio]", cand.Kinds)
	}
}

func TestMergeSpikesOverlapResolutionKeepsHigherScore(t *testing.T) {
	// Two same-signal spikes cannot merge with each other, so they reach
	// overlap resolution as competing candidates.
	chat := []SpikeWindow{
		{Start: 5, End: 9, Peak: 30, Kind: KindChat},
		{Start: 7, End: 11, Peak: 45, Kind: KindChat},
	}
	candidates := MergeSpikes(chat, nil, MergeConfig{OverlapBonus: 10, MinGap: 1})
	if len(candidates) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(candidates))
	}
	cand := candidates[0]
	if cand.Start != 7 || cand.End != 11 || cand.Score != 45 {
		t.Errorf("survivor = [%.1f, %.1f] score %.1f, want [7.0, 11.0] score 45", cand.Start, cand.End, cand.Score)
	}
}

func TestMergeSpikesMultipleChatSpikesOneAudioSpike(t *testing.T) {
	chat := []SpikeWindow{
		{Start: 5, End: 9, Peak: 20, Kind: KindChat},
		{Start: 10, End: 14, Peak: 35, Kind: KindChat},
	}
	audio := []SpikeWindow{{Start: 8, End: 11, Peak: 10, Kind: KindAudio}}

	// First chat spike claims the audio spike; the merged span [5, 11] then
	// overlaps the second chat spike's candidate and the higher score wins.
	candidates := MergeSpikes(chat, audio, MergeConfig{OverlapBonus: 0, MinGap: 0.5})
	if len(candidates) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(candidates))
	}
	if candidates[0].Start != 10 || candidates[0].End != 14 || candidates[0].Score != 35 {
		t.Errorf("survivor = %+v, want chat singleton [10, 14] score 35", candidates[0])
	}
}

func TestMergeSpikesTieBreakKeepsEarlierStart(t *testing.T) {
	chat := []SpikeWindow{
		{Start: 5, End: 9, Peak: 40, Kind: KindChat},
		{Start: 8, End: 12, Peak: 40, Kind: KindChat},
	}
	candidates := MergeSpikes(chat, nil, MergeConfig{OverlapBonus: 10, MinGap: 1})
	if len(candidates) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(candidates))
	}
	if candidates[0].Start != 5 {
		t.Errorf("survivor start = %.1f, want 5.0 (earlier start wins ties)", candidates[0].Start)
	}
}

func TestMergeSpikesCapKeepsTopScoresInChronologicalOrder(t *testing.T) {
	chat := []SpikeWindow{
		{Start: 10, End: 12, Peak: 10, Kind: KindChat},
		{Start: 20, End: 22, Peak: 40, Kind: KindChat},
		{Start: 30, End: 32, Peak: 25, Kind: KindChat},
		{Start: 40, End: 42, Peak: 5, Kind: KindChat},
		{Start: 50, End: 52, Peak: 60, Kind: KindChat},
	}
	candidates := MergeSpikes(chat, nil, MergeConfig{OverlapBonus: 10, MinGap: 1, MaxCandidates: 3})
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}
	wantScores := []float64{40, 25, 60}
	wantStarts := []float64{20, 30, 50}
	for i, cand := range candidates {
		if cand.Score != wantScores[i] || cand.Start != wantStarts[i] {
			t.Errorf("candidate %d = start %.1f score %.1f, want start %.1f score %.1f",
				i, cand.Start, cand.Score, wantStarts[i], wantScores[i])
		}
	}
}

func TestMergeSpikesEmptyInputs(t *testing.T) {
	candidates := MergeSpikes(nil, nil, MergeConfig{OverlapBonus: 10, MinGap: 1})
	if len(candidates) != 0 {
		t.Fatalf("expected empty candidate list, got %d", len(candidates))
	}
}

func TestMergeSpikesOutputNonOverlappingAndSorted(t *testing.T) {
	chat := []SpikeWindow{
		{Start: 0, End: 4, Peak: 15, Kind: KindChat},
		{Start: 10, End: 13, Peak: 22, Kind: KindChat},
		{Start: 30, End: 33, Peak: 8, Kind: KindChat},
	}
	audio := []SpikeWindow{
		{Start: 2, End: 6, Peak: 0.7, Kind: KindAudio},
		{Start: 12, End: 18, Peak: 0.9, Kind: KindAudio},
		{Start: 40, End: 44, Peak: 0.4, Kind: KindAudio},
	}
	candidates := MergeSpikes(chat, audio, MergeConfig{OverlapBonus: 10, MinGap: 1.5})
	if len(candidates) == 0 {
		t.Fatal("expected candidates")
	}
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Start <= candidates[i-1].End {
			t.Errorf("candidates %d and %d share time: %+v %+v", i-1, i, candidates[i-1], candidates[i])
		}
	}
}
