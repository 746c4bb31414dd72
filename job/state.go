package job

import (
	"github.com/fwojciec/ebook2pdf"
)

// next lists the success-path successor of each state.
var next = map[ebook2pdf.JobState]ebook2pdf.JobState{
	ebook2pdf.JobCreated:         ebook2pdf.JobSessionAcquired,
	ebook2pdf.JobSessionAcquired: ebook2pdf.JobDownloaded,
	ebook2pdf.JobDownloaded:      ebook2pdf.JobConverted,
	ebook2pdf.JobConverted:       ebook2pdf.JobAssembled,
	ebook2pdf.JobAssembled:       ebook2pdf.JobDelivered,
}

// job is the mutable bookkeeping of one Run.
type job struct {
	id    string
	state ebook2pdf.JobState
	stage string
}

// advance moves the job to to, which must be the successor of its current
// state.
func (j *job) advance(to ebook2pdf.JobState) error {
	if next[j.state] != to {
		return ebook2pdf.Errorf(ebook2pdf.EINTERNAL, "invalid job transition %s -> %s", j.state, to)
	}
	j.state = to
	return nil
}

// fail moves the job to JobFailed from any non-terminal state.
func (j *job) fail() error {
	if j.state.Terminal() {
		return ebook2pdf.Errorf(ebook2pdf.EINTERNAL, "invalid job transition %s -> %s", j.state, ebook2pdf.JobFailed)
	}
	j.state = ebook2pdf.JobFailed
	return nil
}

func (j *job) result(err error) *ebook2pdf.JobResult {
	return &ebook2pdf.JobResult{JobID: j.id, State: j.state, Err: err}
}
