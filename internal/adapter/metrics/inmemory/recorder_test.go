package inmemory

import (
	"errors"
	"testing"

	"molttactics/internal/app/ports"
)

func TestRecorderSnapshot(t *testing.T) {
	r := NewRecorder()
	r.RecordSubmission("accepted")
	r.RecordSubmission("accepted")
	r.RecordSubmission("stale_turn")
	r.RecordResolution(false)
	r.RecordResolution(true)
	r.RecordFinalization(nil)
	r.RecordFinalization(errors.New("db down"))

	s := r.Snapshot()
	if s.SubmissionTotal != 3 {
		t.Fatalf("expected total 3, got %d", s.SubmissionTotal)
	}
	if s.SubmissionAccepted != 2 || s.SubmissionRejected != 1 {
		t.Fatalf("expected accepted 2 rejected 1, got %d/%d", s.SubmissionAccepted, s.SubmissionRejected)
	}
	if s.ByResultCode["stale_turn"] != 1 {
		t.Fatalf("expected stale_turn count 1")
	}
	if s.Resolutions != 2 || s.MatchesFinished != 1 {
		t.Fatalf("expected resolutions 2 finished 1, got %d/%d", s.Resolutions, s.MatchesFinished)
	}
	if s.FinalizationSuccess != 1 || s.FinalizationFailure != 1 {
		t.Fatalf("expected finalization 1/1, got %d/%d", s.FinalizationSuccess, s.FinalizationFailure)
	}
}

func TestRecorderSnapshotIsACopy(t *testing.T) {
	r := NewRecorder()
	r.RecordSubmission("accepted")
	s := r.Snapshot()
	s.ByResultCode["accepted"] = 99
	if got := r.Snapshot().ByResultCode["accepted"]; got != 1 {
		t.Fatalf("snapshot mutation leaked into recorder, got %d", got)
	}
}

var _ ports.TurnMetrics = (*Recorder)(nil)
