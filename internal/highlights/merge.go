package highlights

import (
	"fmt"
	"sort"
)

// MergeConfig configures how spike windows from the two signals combine.
type MergeConfig struct {
	OverlapBonus  float64
	MinGap        float64
	MaxCandidates int
}

// MergeSpikes combines time-ordered chat and audio spike windows into a
// ranked candidate list. Chat/audio pairs that overlap, or sit closer than
// MinGap seconds, merge into one candidate spanning the union of both
// intervals with an agreement bonus added to the score; leftover spikes
// become single-signal candidates. The returned list is strictly
// non-overlapping and chronological; ranking by score only decides which
// candidates survive the MaxCandidates cap.
func MergeSpikes(chatSpikes, audioSpikes []SpikeWindow, cfg MergeConfig) []Candidate {
	candidates := pairSpikes(chatSpikes, audioSpikes, cfg)
	candidates = resolveOverlaps(candidates)
	candidates = capByScore(candidates, cfg.MaxCandidates)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Start < candidates[j].Start
	})
	return candidates
}

func pairSpikes(chatSpikes, audioSpikes []SpikeWindow, cfg MergeConfig) []Candidate {
	var candidates []Candidate
	usedAudio := make([]bool, len(audioSpikes))

	for _, chat := range chatSpikes {
		merged := false
		for i, audio := range audioSpikes {
			if usedAudio[i] || !coOccur(chat, audio, cfg.MinGap) {
				continue
			}
			usedAudio[i] = true
			candidates = append(candidates, Candidate{
				Start: minFloat(chat.Start, audio.Start),
				End:   maxFloat(chat.End, audio.End),
				Score: chat.Peak + audio.Peak + cfg.OverlapBonus,
				Kinds: []Kind{KindChat, KindAudio},
				Reason: fmt.Sprintf("chat spike (peak %.1f) coincides with audio spike (peak %.2f)",
					chat.Peak, audio.Peak),
			})
			merged = true
			break
		}
		if !merged {
			candidates = append(candidates, singleton(chat))
		}
	}
	for i, audio := range audioSpikes {
		if !usedAudio[i] {
			candidates = append(candidates, singleton(audio))
		}
	}
	return candidates
}

func singleton(win SpikeWindow) Candidate {
	reason := fmt.Sprintf("audio spike (peak %.2f)", win.Peak)
	if win.Kind == KindChat {
		reason = fmt.Sprintf("chat spike (peak %.1f)", win.Peak)
	}
	return Candidate{
		Start:  win.Start,
		End:    win.End,
		Score:  win.Peak,
		Kinds:  []Kind{win.Kind},
		Reason: reason,
	}
}

// coOccur reports whether two spikes from different signals overlap by any
// positive duration or are separated by less than minGap seconds.
func coOccur(a, b SpikeWindow, minGap float64) bool {
	if a.Start < b.End && b.Start < a.End {
		return true
	}
	gap := a.Start - b.End
	if b.Start > a.End {
		gap = b.Start - a.End
	}
	return gap < minGap
}

// resolveOverlaps drops the lower-scoring candidate whenever two candidates
// still share any point in time, which happens when several spikes from one
// signal map near a single spike from the other. Ties keep the earlier start.
func resolveOverlaps(candidates []Candidate) []Candidate {
	if len(candidates) < 2 {
		return candidates
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Start != candidates[j].Start {
			return candidates[i].Start < candidates[j].Start
		}
		return candidates[i].End < candidates[j].End
	})

	kept := candidates[:0:0]
	for _, cand := range candidates {
		dropped := false
		for len(kept) > 0 {
			last := kept[len(kept)-1]
			if cand.Start > last.End {
				break
			}
			// Earlier start wins ties by staying in place.
			if cand.Score <= last.Score {
				dropped = true
				break
			}
			kept = kept[:len(kept)-1]
		}
		if !dropped {
			kept = append(kept, cand)
		}
	}
	return kept
}

func capByScore(candidates []Candidate, max int) []Candidate {
	if max <= 0 || len(candidates) <= max {
		return candidates
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Start < candidates[j].Start
	})
	return candidates[:max]
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
