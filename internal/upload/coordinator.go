package upload

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/noisevisionproductions/Vitema-sub001/internal/logger"
	"github.com/noisevisionproductions/Vitema-sub001/internal/models"
	"github.com/noisevisionproductions/Vitema-sub001/internal/spreadsheet"
)

// Request selects what to upload and for whom.
type Request struct {
	File        File
	AccountIDs  []string
	Period      models.Period
	RequestedBy string
}

// ParseAccountIDs accepts repeated and comma-separated values, dropping blanks
// and duplicates while keeping the first-seen order.
func ParseAccountIDs(values []string) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			id = strings.TrimSpace(id)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

func (r Request) validate() error {
	if len(r.File.Data) == 0 {
		return ErrNoFile
	}
	if len(r.AccountIDs) == 0 {
		return ErrNoAccounts
	}
	if !r.Period.Valid() {
		return ErrInvalidPeriod
	}
	return nil
}

// plan is a validated, parsed upload waiting to be fanned out.
type plan struct {
	file        File
	diet        *models.StructuredDiet
	accounts    []models.Account
	period      models.Period
	requestedBy string
}

// Coordinator drives the upload state machine. Runs are sequential: starting
// a new one cancels the previous run and waits for it before proceeding.
type Coordinator struct {
	deps     Deps
	pipeline *Pipeline
	detector *ConflictDetector

	scope       context.Context
	cancelScope context.CancelFunc

	mu        sync.Mutex
	state     State
	request   *Request
	pending   *plan
	gen       uint64
	runCancel context.CancelFunc
	runDone   chan struct{}
	subs      map[int]chan State
	nextSub   int
	closed    bool
}

// NewCoordinator returns a coordinator in the Initial state owned by ctx.
// Cancelling ctx cancels the in-flight store call of the current run.
func NewCoordinator(ctx context.Context, deps Deps) *Coordinator {
	scope, cancel := context.WithCancel(ctx)
	return &Coordinator{
		deps:        deps,
		pipeline:    NewPipeline(deps),
		detector:    NewConflictDetector(deps.Diets),
		scope:       scope,
		cancelScope: cancel,
		state:       Initial{},
		subs:        make(map[int]chan State),
	}
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// StartUpload selects req and starts a run. It replaces any run in progress.
func (c *Coordinator) StartUpload(req Request) error {
	req.AccountIDs = ParseAccountIDs(req.AccountIDs)
	if err := req.validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.request = &req
	c.pending = nil
	c.launchLocked(c.prepare(req))
	return nil
}

// Confirm accepts the overwrite prompt and fans the pending upload out.
func (c *Coordinator) Confirm() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if _, ok := c.state.(NeedsConfirmation); !ok || c.pending == nil {
		return ErrInvalidTransition
	}
	p := c.pending
	c.pending = nil
	c.launchLocked(c.fanOut(p))
	return nil
}

// Dismiss discards the pending upload. Nothing has been written at this point.
func (c *Coordinator) Dismiss() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.state.(NeedsConfirmation); !ok {
		return ErrInvalidTransition
	}
	c.pending = nil
	c.request = nil
	c.resetLocked(Initial{})
	return nil
}

// Retry re-runs the last request, including conflict detection.
func (c *Coordinator) Retry() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if !Settled(c.state) {
		return ErrInvalidTransition
	}
	if c.request == nil || len(c.request.File.Data) == 0 {
		return ErrNoFile
	}
	c.launchLocked(c.prepare(*c.request))
	return nil
}

// NewFile clears the selected file and returns to Initial. The account and
// period selection is kept.
func (c *Coordinator) NewFile() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !Settled(c.state) {
		return ErrInvalidTransition
	}
	if c.request != nil {
		c.request.File = File{}
	}
	c.resetLocked(Initial{})
	return nil
}

// Selection returns the current account and period selection.
func (c *Coordinator) Selection() (accountIDs []string, period models.Period, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.request == nil {
		return nil, models.Period{}, false
	}
	return append([]string(nil), c.request.AccountIDs...), c.request.Period, true
}

// Subscribe returns a conflated stream of states starting with the current
// one. Slow readers only see the latest state.
func (c *Coordinator) Subscribe() (<-chan State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan State, 1)
	if c.closed {
		ch <- c.state
		close(ch)
		return ch, func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.state

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if _, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(ch)
			}
		})
	}
}

// Await blocks until the coordinator leaves the Loading state.
func (c *Coordinator) Await(ctx context.Context) (State, error) {
	states, cancel := c.Subscribe()
	defer cancel()

	for {
		select {
		case s, ok := <-states:
			if !ok {
				return c.State(), ErrClosed
			}
			if _, loading := s.(Loading); !loading {
				return s, nil
			}
		case <-ctx.Done():
			return c.State(), ctx.Err()
		}
	}
}

// Close cancels the owning scope and waits for the current run to stop.
// Accounts already written stay written.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.cancelScope()
	done := c.runDone
	c.mu.Unlock()

	if done != nil {
		<-done
	}

	c.mu.Lock()
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
	c.mu.Unlock()
}

type runFunc func(ctx context.Context, gen uint64)

func (c *Coordinator) launchLocked(run runFunc) {
	if c.runCancel != nil {
		c.runCancel()
	}
	prev := c.runDone

	c.gen++
	gen := c.gen
	ctx, cancel := context.WithCancel(c.scope)
	done := make(chan struct{})
	c.runCancel, c.runDone = cancel, done
	c.publishLocked(Loading{Message: "Starting upload", Stage: StageUploading})

	go func() {
		defer close(done)
		defer cancel()
		if prev != nil {
			<-prev
		}
		run(ctx, gen)
	}()
}

func (c *Coordinator) resetLocked(s State) {
	if c.runCancel != nil {
		c.runCancel()
		c.runCancel = nil
	}
	c.gen++
	c.publishLocked(s)
}

// setState publishes s unless the run that produced it was superseded.
func (c *Coordinator) setState(gen uint64, s State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.gen {
		return false
	}
	c.publishLocked(s)
	return true
}

func (c *Coordinator) publishLocked(s State) {
	c.state = s
	switch v := s.(type) {
	case Loading:
		logger.Debug("upload state", "state", KindOf(s), "stage", v.Stage, "progress", v.Progress)
	case Failed:
		logger.Error("upload failed", "message", v.Message, "entries", len(v.History))
	case Success:
		logger.Info("upload finished", "entries", len(v.History))
	default:
		logger.Debug("upload state", "state", KindOf(s))
	}
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}

// prepare validates, parses and checks conflicts before anything is written.
func (c *Coordinator) prepare(req Request) runFunc {
	return func(ctx context.Context, gen uint64) {
		c.setState(gen, Loading{Message: "Validating " + req.File.Name, Stage: StageUploading})

		wb, mimeType, err := spreadsheet.Open(req.File.Data, req.File.MimeType)
		if err == nil {
			err = spreadsheet.Validate(wb)
		}
		if err != nil {
			logger.Warn("diet file rejected", "file", req.File.Name, "err", err)
			c.setState(gen, Failed{Message: err.Error()})
			return
		}

		diet, err := spreadsheet.Parse(wb)
		if err != nil {
			logger.Warn("diet file parse failed", "file", req.File.Name, "err", err)
			c.setState(gen, Failed{
				Message: err.Error(),
				History: History{}.Append(Result{Stage: StageParsing, Status: StatusError, Message: err.Error()}),
			})
			return
		}

		accounts, err := c.lookup(ctx, req.AccountIDs)
		if err != nil {
			c.setState(gen, Failed{Message: err.Error()})
			return
		}

		c.setState(gen, Loading{Message: "Checking existing diets", Stage: StageUploading})
		conflicts, err := c.detector.Detect(ctx, accounts, req.Period)
		if err != nil {
			c.setState(gen, Failed{Message: err.Error()})
			return
		}

		file := req.File
		file.MimeType = mimeType
		p := &plan{file: file, diet: diet, accounts: accounts, period: req.Period, requestedBy: req.RequestedBy}

		if len(conflicts) > 0 {
			c.mu.Lock()
			if !c.closed && gen == c.gen {
				c.pending = p
				c.publishLocked(NeedsConfirmation{
					Message:   ConfirmationMessage(conflicts, req.Period),
					Conflicts: conflicts,
				})
			}
			c.mu.Unlock()
			return
		}

		c.fanOut(p)(ctx, gen)
	}
}

func (c *Coordinator) lookup(ctx context.Context, ids []string) ([]models.Account, error) {
	accounts, err := c.deps.Accounts.Lookup(ctx, ids)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrUnknownAccount, err)
		}
		return nil, &StorageError{Op: "account lookup", Err: err}
	}
	if len(accounts) != len(ids) {
		return nil, fmt.Errorf("%w: found %d of %d selected accounts", ErrUnknownAccount, len(accounts), len(ids))
	}
	return accounts, nil
}

// fanOut runs the pipeline for each account in turn. A failure stops the
// loop; accounts already written are not rolled back.
func (c *Coordinator) fanOut(p *plan) runFunc {
	return func(ctx context.Context, gen uint64) {
		var history History
		for i, acc := range p.accounts {
			label := fmt.Sprintf("%s (%d/%d)", acc.Label(), i+1, len(p.accounts))
			t := newTracker(acc.ID)
			job := Job{Account: acc, File: p.file, Diet: p.diet, Period: p.period, RequestedBy: p.requestedBy}

			var terminal *ProgressEvent
			for ev := range c.pipeline.Run(ctx, job) {
				history = t.observe(history, ev)
				if ev.Done || ev.Err != nil {
					ev := ev
					terminal = &ev
					continue
				}
				c.setState(gen, Loading{
					Message:  stageMessage(ev.Stage) + " for " + label,
					Progress: ev.Percent,
					Stage:    ev.Stage,
					History:  history,
				})
			}

			if terminal == nil {
				err := ctx.Err()
				if err == nil {
					err = errors.New("pipeline ended without a result")
				}
				terminal = &ProgressEvent{Stage: t.stage, Err: err}
				history = t.observe(history, *terminal)
			}
			if terminal.Err != nil {
				logger.Error("account upload failed", "account", acc.ID, "stage", terminal.Stage, "file", p.file.Name, "err", terminal.Err)
				c.setState(gen, Failed{Message: terminal.Err.Error(), History: history})
				return
			}
			logger.Info("account upload finished", "account", acc.ID, "file", p.file.Name)
		}
		c.setState(gen, Success{History: history})
	}
}

func stageMessage(s Stage) string {
	switch s {
	case StageUploading:
		return "Uploading file"
	case StageParsing:
		return "Processing diet"
	case StageSaving:
		return "Saving diet"
	}
	return s.String()
}
