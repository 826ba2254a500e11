package highlights

// Detect runs the full detection pass: validate options and both series,
// extract spikes per signal, then merge and rank. It holds no state and
// performs no I/O, so it is safe to call concurrently for different videos
// and safe to re-call with relaxed options when a pass finds nothing.
// An empty candidate list is a valid result.
func Detect(chat, audio TimeSeries, opts Options) ([]Candidate, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	chat.Kind = KindChat
	audio.Kind = KindAudio

	chatSpikes, err := FindSpikes(chat, SpikeConfig{
		Threshold:       opts.ChatThreshold,
		MinWindow:       opts.MinWindow,
		SmoothingWindow: opts.SmoothingWindow,
	})
	if err != nil {
		return nil, err
	}
	audioSpikes, err := FindSpikes(audio, SpikeConfig{
		Threshold:       opts.AudioThreshold,
		MinWindow:       opts.MinWindow,
		SmoothingWindow: opts.SmoothingWindow,
	})
	if err != nil {
		return nil, err
	}

	candidates := MergeSpikes(chatSpikes, audioSpikes, MergeConfig{
		OverlapBonus:  opts.OverlapBonus,
		MinGap:        opts.MinGap,
		MaxCandidates: opts.MaxCandidates,
	})
	for i := range candidates {
		if candidates[i].Start < 0 {
			candidates[i].Start = 0
		}
	}
	return candidates, nil
}
