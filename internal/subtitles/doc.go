// Package subtitles transcribes sliced clips with whisper and optionally
// burns the resulting SRT into the video for caption-first platforms.
package subtitles
