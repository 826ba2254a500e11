package stage

import (
	"clipforge/internal/queue"
	"clipforge/internal/services"
)

// DecodeCandidates parses the candidate list stored on an item. On failure it
// returns a services.ErrValidation suitable for stage Execute methods.
func DecodeCandidates(item *queue.Item) ([]queue.CandidateRecord, error) {
	candidates, err := queue.DecodeCandidates(item.CandidatesJSON)
	if err != nil {
		return nil, services.Wrap(
			services.ErrValidation, "stage", "decode candidates",
			"Candidate list missing or invalid; rerun detection", err)
	}
	return candidates, nil
}

// DecodeClips parses the clip list stored on an item. On failure it returns a
// services.ErrValidation suitable for stage Execute methods.
func DecodeClips(item *queue.Item) ([]queue.Clip, error) {
	clips, err := queue.DecodeClips(item.ClipsJSON)
	if err != nil {
		return nil, services.Wrap(
			services.ErrValidation, "stage", "decode clips",
			"Clip list missing or invalid; rerun slicing", err)
	}
	return clips, nil
}
