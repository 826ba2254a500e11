package queue

import "testing"

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input string
		want  Status
		ok    bool
	}{
		{"pending", StatusPending, true},
		{"  Detected ", StatusDetected, true},
		{"UPLOADING", StatusUploading, true},
		{"", "", false},
		{"ripping", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseStatus(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseStatus(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseStatus(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestProcessingAndAwaitingHelpers(t *testing.T) {
	if !(Item{Status: StatusSlicing}).IsProcessing() {
		t.Error("slicing should count as processing")
	}
	if (Item{Status: StatusSliced}).IsProcessing() {
		t.Error("sliced should not count as processing")
	}
	if !(Item{Status: StatusDetected}).AwaitsUser() {
		t.Error("detected should await user")
	}
	if !(Item{Status: StatusReview}).AwaitsUser() {
		t.Error("review should await user")
	}
	if (Item{Status: StatusApproved}).AwaitsUser() {
		t.Error("approved should not await user")
	}
}

func TestSetFailedClearsProgress(t *testing.T) {
	item := Item{Status: StatusExporting, ProgressPercent: 80}
	item.SetFailed("export crashed")
	if item.Status != StatusFailed {
		t.Errorf("status = %s, want failed", item.Status)
	}
	if item.ProgressPercent != 0 {
		t.Errorf("progress percent = %v, want 0", item.ProgressPercent)
	}
	if item.ErrorMessage != "export crashed" {
		t.Errorf("error message = %q", item.ErrorMessage)
	}
}
