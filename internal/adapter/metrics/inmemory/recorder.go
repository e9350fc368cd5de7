package inmemory

import "sync"

type Snapshot struct {
	SubmissionTotal     uint64            `json:"submission_total"`
	SubmissionAccepted  uint64            `json:"submission_accepted"`
	SubmissionRejected  uint64            `json:"submission_rejected"`
	ByResultCode        map[string]uint64 `json:"by_result_code"`
	Resolutions         uint64            `json:"resolutions"`
	MatchesFinished     uint64            `json:"matches_finished"`
	FinalizationSuccess uint64            `json:"finalization_success"`
	FinalizationFailure uint64            `json:"finalization_failure"`
}

type Recorder struct {
	mu          sync.Mutex
	accepted    uint64
	rejected    uint64
	byResult    map[string]uint64
	resolutions uint64
	finished    uint64
	finalizeOK  uint64
	finalizeErr uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byResult: map[string]uint64{},
	}
}

func (r *Recorder) RecordSubmission(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if code == "accepted" {
		r.accepted++
	} else {
		r.rejected++
	}
	r.byResult[code]++
}

func (r *Recorder) RecordResolution(finished bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolutions++
	if finished {
		r.finished++
	}
}

func (r *Recorder) RecordFinalization(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.finalizeErr++
		return
	}
	r.finalizeOK++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		SubmissionAccepted:  r.accepted,
		SubmissionRejected:  r.rejected,
		SubmissionTotal:     r.accepted + r.rejected,
		ByResultCode:        make(map[string]uint64, len(r.byResult)),
		Resolutions:         r.resolutions,
		MatchesFinished:     r.finished,
		FinalizationSuccess: r.finalizeOK,
		FinalizationFailure: r.finalizeErr,
	}
	for k, v := range r.byResult {
		out.ByResultCode[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
