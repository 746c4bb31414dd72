package ebook2pdf

import (
	"context"
	"net/url"
	"path"
	"strings"
)

// DefaultArtifactName is used when the entry URL has no usable path segment.
const DefaultArtifactName = "ebook.pdf"

// ArtifactExt is the extension of every merged document.
const ArtifactExt = ".pdf"

// JobRequest is the client's request to convert one ebook.
// It is supplied once per job and never modified.
type JobRequest struct {
	EntryURL string `json:"entryURL"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate returns an error if the request cannot start a job.
// Credentials are passed through untouched; the remote login decides.
func (r *JobRequest) Validate() error {
	if r.EntryURL == "" {
		return Errorf(EINVALID, "entry URL required")
	}
	u, err := url.Parse(r.EntryURL)
	if err != nil {
		return WrapError(EINVALID, err, "entry URL %q does not parse", r.EntryURL)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Errorf(EINVALID, "entry URL %q must be an absolute http(s) URL", r.EntryURL)
	}
	return nil
}

// BaseURL returns the directory that holds the ebook's resources: the entry
// URL without its last path segment, query or fragment.
// Example: https://x/book/abc/index.html → https://x/book/abc
func BaseURL(entryURL string) (string, error) {
	u, err := url.Parse(entryURL)
	if err != nil {
		return "", WrapError(EINVALID, err, "entry URL %q does not parse", entryURL)
	}
	u.Path = path.Dir(u.Path)
	if u.Path == "/" || u.Path == "." {
		u.Path = ""
	}
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// ArtifactName derives the download filename from the entry URL's
// second-to-last path segment.
// Example: https://x/book/abc/index.html → abc.pdf
func ArtifactName(entryURL string) string {
	u, err := url.Parse(entryURL)
	if err != nil {
		return DefaultArtifactName
	}
	segments := strings.Split(u.Path, "/")
	if len(segments) < 2 {
		return DefaultArtifactName
	}
	name := segments[len(segments)-2]
	if name == "" || name == "." || name == ".." {
		return DefaultArtifactName
	}
	return name + ArtifactExt
}

// JobState is a step in the life of a job.
type JobState string

// JobState constants. A job moves forward through the success path one state
// at a time, or to JobFailed from any non-terminal state.
const (
	JobCreated         JobState = "created"
	JobSessionAcquired JobState = "session_acquired"
	JobDownloaded      JobState = "downloaded"
	JobConverted       JobState = "converted"
	JobAssembled       JobState = "assembled"
	JobDelivered       JobState = "delivered"
	JobFailed          JobState = "failed"
)

// Terminal reports whether no further transition is possible.
func (s JobState) Terminal() bool {
	return s == JobDelivered || s == JobFailed
}

// JobResult is the outcome of one job.
type JobResult struct {
	JobID    string
	State    JobState
	Artifact string // path of the merged document, set once assembled
	Err      error
}

// JobRunner runs a job to completion, reporting progress and delivering the
// artifact or a single error notice through live.
type JobRunner interface {
	Run(ctx context.Context, req *JobRequest, live LiveChannel) *JobResult
}

// Simulator stands in for the real stages when the remote site must not be
// contacted. It reports the usual progress and writes a placeholder artifact
// to outputPath.
type Simulator interface {
	Simulate(ctx context.Context, req *JobRequest, outputPath string, p Progress) error
}
