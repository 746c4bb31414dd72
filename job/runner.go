// Package job runs one ebook conversion from credentials to delivered PDF.
package job

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/fwojciec/ebook2pdf"
	"github.com/fwojciec/ebook2pdf/fs"
	"github.com/fwojciec/ebook2pdf/progress"
	"github.com/google/uuid"
)

// Stage names recorded in diagnostics and operator logs.
const (
	StageSetup    = "setup"
	StageSession  = "session"
	StageDownload = "download"
	StageConvert  = "convert"
	StageAssemble = "assemble"
	StageDeliver  = "deliver"
)

// Ensure Runner implements ebook2pdf.JobRunner at compile time.
var _ ebook2pdf.JobRunner = (*Runner)(nil)

// Runner sequences the stages of a job. Each call to Run owns a fresh
// workspace; a Runner may serve concurrent jobs.
type Runner struct {
	Config     *ebook2pdf.Config
	Acquirer   ebook2pdf.SessionAcquirer
	Downloader ebook2pdf.Downloader
	Transcoder ebook2pdf.FontTranscoder
	FontCache  ebook2pdf.FontCache
	Renderer   ebook2pdf.PageRenderer
	Assembler  ebook2pdf.Assembler
	Simulator  ebook2pdf.Simulator
	Logger     *slog.Logger

	// Now and NewID default to time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

// Run executes the job and returns its outcome. Progress goes to live as it
// happens; on success the merged document is sent with SendFile, on failure
// live receives exactly one generic error notice and the details go to the
// workspace log.
func (r *Runner) Run(ctx context.Context, req *ebook2pdf.JobRequest, live ebook2pdf.LiveChannel) *ebook2pdf.JobResult {
	start := r.now()
	j := &job{id: r.newID(), state: ebook2pdf.JobCreated, stage: StageSetup}
	logger := r.logger().With("job_id", j.id)
	defer func() {
		logger.Info("job finished", "state", j.state, "stage", j.stage, "duration", time.Since(start))
	}()

	ws, err := fs.CreateWorkspace(r.config().TmpDir, start)
	if err != nil {
		logger.Error("workspace", "err", err)
		_ = live.SendError(progress.GenericErrorMessage)
		_ = j.fail()
		return j.result(err)
	}
	defer func() {
		if err := ws.CloseLog(); err != nil {
			logger.Warn("closing job log", "err", err)
		}
		if r.config().DebugNoCleanup {
			logger.Info("workspace retained", "path", ws.Root())
			return
		}
		if err := ws.Remove(); err != nil {
			logger.Warn("removing workspace", "err", err)
		}
	}()

	p := progress.New(live, ws.Log(), progress.WithLogger(logger))
	artifact := ws.Path(ebook2pdf.ArtifactName(req.EntryURL))

	if err := r.execute(ctx, j, req, ws, artifact, p); err != nil {
		r.report(j, err, p, live)
		return j.result(err)
	}

	j.stage = StageDeliver
	if err := r.deliver(artifact, p, live); err != nil {
		r.report(j, err, p, live)
		return j.result(err)
	}
	if err := j.advance(ebook2pdf.JobDelivered); err != nil {
		r.report(j, err, p, live)
		return j.result(err)
	}
	res := j.result(nil)
	res.Artifact = artifact
	return res
}

// execute runs the stages up to Assembled. A panic in any stage is returned
// as an EINTERNAL error carrying the stack.
func (r *Runner) execute(ctx context.Context, j *job, req *ebook2pdf.JobRequest, ws *fs.Workspace, artifact string, p *progress.Logger) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &panicError{value: v, stack: debug.Stack()}
		}
	}()

	if err := req.Validate(); err != nil {
		return err
	}
	p.Emit(ebook2pdf.LevelInfo, fmt.Sprintf("Create temporary directories under '%s'.", ws.Root()))

	if r.config().DebugNoop {
		j.stage = StageSession
		if err := r.Simulator.Simulate(ctx, req, artifact, p); err != nil {
			return err
		}
		for _, s := range []ebook2pdf.JobState{ebook2pdf.JobSessionAcquired, ebook2pdf.JobDownloaded, ebook2pdf.JobConverted, ebook2pdf.JobAssembled} {
			if err := j.advance(s); err != nil {
				return err
			}
		}
		return nil
	}

	baseURL, err := ebook2pdf.BaseURL(req.EntryURL)
	if err != nil {
		return err
	}

	j.stage = StageSession
	screenshots := ""
	if r.config().DebugScreenshots {
		screenshots = ws.ScreenshotDir()
	}
	sess, err := r.Acquirer.Acquire(ctx, req, screenshots, p)
	if err != nil {
		return err
	}
	if err := j.advance(ebook2pdf.JobSessionAcquired); err != nil {
		return err
	}

	j.stage = StageDownload
	pageCount := sess.PageCount
	if limit := r.config().DebugMaxPages; limit > 0 && pageCount > limit {
		p.Emit(ebook2pdf.LevelDebug, fmt.Sprintf("Limit the download to %d of %d pages.", limit, pageCount))
		pageCount = limit
	}
	if _, err := r.Downloader.DownloadPages(ctx, baseURL, sess.Cookies, pageCount, ws.SVGDir(), p); err != nil {
		return err
	}
	manifest, err := r.Downloader.DownloadFontManifest(ctx, baseURL, sess.Cookies, ws.Root(), p)
	if err != nil {
		return err
	}
	if _, err := r.Downloader.DownloadFonts(ctx, baseURL, sess.Cookies, manifest, ws.FontDir(), p); err != nil {
		return err
	}
	if err := j.advance(ebook2pdf.JobDownloaded); err != nil {
		return err
	}

	j.stage = StageConvert
	fonts, err := r.Transcoder.Transcode(ctx, ws.FontDir(), p)
	if err != nil {
		return err
	}
	if len(fonts) > 0 {
		if err := r.FontCache.Install(ctx, fonts, p); err != nil {
			return err
		}
	}
	if _, err := r.Renderer.Render(ctx, ws.SVGDir(), ws.PDFDir(), p); err != nil {
		return err
	}
	if err := j.advance(ebook2pdf.JobConverted); err != nil {
		return err
	}

	j.stage = StageAssemble
	if err := r.Assembler.Assemble(ctx, ws.PDFDir(), artifact, p); err != nil {
		return err
	}
	return j.advance(ebook2pdf.JobAssembled)
}

func (r *Runner) deliver(artifact string, p *progress.Logger, live ebook2pdf.LiveChannel) error {
	if p.Muted() {
		return ebook2pdf.Errorf(ebook2pdf.EINTERNAL, "live channel closed before delivery")
	}
	data, err := os.ReadFile(artifact)
	if err != nil {
		return ebook2pdf.WrapError(ebook2pdf.EASSEMBLY, err, "reading artifact")
	}
	p.Emit(ebook2pdf.LevelInfo, "Send the PDF file.")
	if err := live.SendFile(filepath.Base(artifact), data); err != nil {
		return ebook2pdf.WrapError(ebook2pdf.EINTERNAL, err, "sending artifact")
	}
	return nil
}

// report records the failure in the job log and sends the generic notice,
// unless the live channel already failed and sent one.
func (r *Runner) report(j *job, err error, p *progress.Logger, live ebook2pdf.LiveChannel) {
	p.Record(ebook2pdf.LevelCritical, diagnostic(j, err))
	if ferr := j.fail(); ferr != nil {
		p.Record(ebook2pdf.LevelCritical, ferr.Error())
	}
	if !p.Muted() {
		_ = live.SendError(progress.GenericErrorMessage)
	}
}

func diagnostic(j *job, err error) string {
	msg := fmt.Sprintf("Job %s failed in stage %s (state %s).\ncode: %s\nmessage: %s\nerror: %v",
		j.id, j.stage, j.state, ebook2pdf.ErrorCode(err), ebook2pdf.ErrorMessage(err), err)
	if pe, ok := err.(*panicError); ok {
		msg += "\n" + string(pe.stack)
	}
	return msg
}

func (r *Runner) config() *ebook2pdf.Config {
	if r.Config == nil {
		return ebook2pdf.NewConfig()
	}
	return r.Config
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *Runner) newID() string {
	if r.NewID == nil {
		return uuid.NewString()
	}
	return r.NewID()
}

// panicError is a recovered stage panic.
type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}
