package upload_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noisevisionproductions/Vitema-sub001/internal/models"
	"github.com/noisevisionproductions/Vitema-sub001/internal/upload"
)

func await(t *testing.T, c *upload.Coordinator) upload.State {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := c.Await(ctx)
	require.NoError(t, err)
	return s
}

func newCoordinator(t *testing.T, e *env) *upload.Coordinator {
	t.Helper()
	c := upload.NewCoordinator(context.Background(), e.deps())
	t.Cleanup(c.Close)
	return c
}

func stages(h upload.History) []string {
	out := make([]string, len(h))
	for i, r := range h {
		out[i] = r.Stage.String() + ":" + string(r.Status)
	}
	return out
}

var fullSuccess = []string{"UPLOADING:SUCCESS", "PARSING:SUCCESS", "SAVING:SUCCESS"}

func TestCoordinator_SingleAccountSuccess(t *testing.T) {
	e := newEnv()
	c := newCoordinator(t, e)

	require.NoError(t, c.StartUpload(upload.Request{
		File:        validFile(t),
		AccountIDs:  []string{"acc-a"},
		Period:      period(t, "2025-03-03", "2025-03-09"),
		RequestedBy: "admin-1",
	}))

	s := await(t, c)
	success, ok := s.(upload.Success)
	require.True(t, ok, "got %T", s)
	assert.Equal(t, fullSuccess, stages(success.History))

	stored, ok := e.diets.Get("acc-a")
	require.True(t, ok)
	assert.Equal(t, 2, stored.diet.MealCount())
	assert.Equal(t, []models.FileStatus{models.FileStatusProcessed}, e.files.Statuses())
	assert.Equal(t, 1, e.blobs.Calls())
}

func TestCoordinator_MissingColumnWritesNothing(t *testing.T) {
	e := newEnv()
	c := newCoordinator(t, e)

	file := workbookWithHeader(t, []interface{}{"Notes", "Meal", "Preparation"}, []interface{}{"", "Omelette", "Fry"})

	require.NoError(t, c.StartUpload(upload.Request{
		File:       file,
		AccountIDs: []string{"acc-a"},
		Period:     period(t, "2025-03-03", "2025-03-09"),
	}))

	s := await(t, c)
	failed, ok := s.(upload.Failed)
	require.True(t, ok, "got %T", s)
	assert.Contains(t, failed.Message, "column D")
	assert.Empty(t, failed.History)
	assert.Zero(t, e.storeCalls())
}

func TestCoordinator_ParseErrorRecordsParsingEntry(t *testing.T) {
	e := newEnv()
	c := newCoordinator(t, e)

	require.NoError(t, c.StartUpload(upload.Request{
		File: workbook(t,
			[]interface{}{"", "Omelette", "Fry", "eggs"},
			[]interface{}{"", "Toast", "", "bread"},
		),
		AccountIDs: []string{"acc-a"},
		Period:     period(t, "2025-03-03", "2025-03-09"),
	}))

	failed, ok := await(t, c).(upload.Failed)
	require.True(t, ok)
	assert.Equal(t, []string{"PARSING:ERROR"}, stages(failed.History))
	assert.Contains(t, failed.Message, "row 3")
	assert.Zero(t, e.storeCalls())
}

func TestCoordinator_ConflictGating(t *testing.T) {
	e := newEnv()
	p := period(t, "2025-03-03", "2025-03-09")
	e.diets.seed("acc-x", period(t, "2025-03-08", "2025-03-14"))
	c := newCoordinator(t, e)

	require.NoError(t, c.StartUpload(upload.Request{
		File:       validFile(t),
		AccountIDs: []string{"acc-x", "acc-y"},
		Period:     p,
	}))

	s := await(t, c)
	prompt, ok := s.(upload.NeedsConfirmation)
	require.True(t, ok, "got %T", s)
	require.Len(t, prompt.Conflicts, 1)
	assert.Equal(t, "acc-x", prompt.Conflicts[0].ID)
	assert.Contains(t, prompt.Message, "x@example.com")
	assert.NotContains(t, prompt.Message, "y@example.com")
	assert.Zero(t, e.storeCalls())

	require.NoError(t, c.Confirm())
	success, ok := await(t, c).(upload.Success)
	require.True(t, ok)

	assert.Equal(t, fullSuccess, stages(success.History.ForAccount("acc-x")))
	assert.Equal(t, fullSuccess, stages(success.History.ForAccount("acc-y")))

	x, _ := e.diets.Get("acc-x")
	assert.Equal(t, p, x.period)
	assert.Equal(t, 2, x.diet.MealCount())
	_, ok = e.diets.Get("acc-y")
	assert.True(t, ok)
}

func TestCoordinator_Dismiss(t *testing.T) {
	e := newEnv()
	e.diets.seed("acc-x", period(t, "2025-03-01", "2025-03-31"))
	c := newCoordinator(t, e)

	require.NoError(t, c.StartUpload(upload.Request{
		File:       validFile(t),
		AccountIDs: []string{"acc-x"},
		Period:     period(t, "2025-03-03", "2025-03-09"),
	}))
	_, ok := await(t, c).(upload.NeedsConfirmation)
	require.True(t, ok)

	require.NoError(t, c.Dismiss())
	assert.IsType(t, upload.Initial{}, c.State())
	assert.ErrorIs(t, c.Confirm(), upload.ErrInvalidTransition)
	assert.Zero(t, e.storeCalls())
}

func TestCoordinator_PartialFailureKeepsEarlierAccounts(t *testing.T) {
	e := newEnv()
	e.diets.failSave = map[string]bool{"acc-b": true}
	c := newCoordinator(t, e)

	require.NoError(t, c.StartUpload(upload.Request{
		File:       validFile(t),
		AccountIDs: []string{"acc-a", "acc-b"},
		Period:     period(t, "2025-03-03", "2025-03-09"),
	}))

	failed, ok := await(t, c).(upload.Failed)
	require.True(t, ok)

	assert.Equal(t, append(append([]string{}, fullSuccess...),
		"UPLOADING:SUCCESS", "PARSING:SUCCESS", "SAVING:ERROR"), stages(failed.History))
	assert.Equal(t, "acc-a", failed.History[0].AccountID)
	assert.Equal(t, "acc-b", failed.History[5].AccountID)
	assert.Contains(t, failed.Message, "diet save")

	_, ok = e.diets.Get("acc-a")
	assert.True(t, ok, "earlier account must stay committed")
	assert.Equal(t, []models.FileStatus{models.FileStatusProcessed, models.FileStatusFailed}, e.files.Statuses())
}

func TestCoordinator_MetadataFailureStopsBeforeDietWrite(t *testing.T) {
	e := newEnv()
	e.files.failSave = map[string]bool{"acc-a": true}
	c := newCoordinator(t, e)

	require.NoError(t, c.StartUpload(upload.Request{
		File:       validFile(t),
		AccountIDs: []string{"acc-a"},
		Period:     period(t, "2025-03-03", "2025-03-09"),
	}))

	failed, ok := await(t, c).(upload.Failed)
	require.True(t, ok)

	got := stages(failed.History)
	require.NotEmpty(t, got)
	assert.Equal(t, "UPLOADING:ERROR", got[len(got)-1])
	assert.NotContains(t, got, "PARSING:SUCCESS")
	assert.Contains(t, failed.Message, "file metadata save")
	assert.Equal(t, 1, e.blobs.Calls())
	assert.Zero(t, e.diets.SaveCalls())
}

func TestCoordinator_ConflictCheckFailureWritesNothing(t *testing.T) {
	e := newEnv()
	e.diets.failCheck = map[string]bool{"acc-b": true}
	c := newCoordinator(t, e)

	require.NoError(t, c.StartUpload(upload.Request{
		File:       validFile(t),
		AccountIDs: []string{"acc-a", "acc-b"},
		Period:     period(t, "2025-03-03", "2025-03-09"),
	}))

	s := await(t, c)
	failed, ok := s.(upload.Failed)
	require.True(t, ok, "got %T", s)
	assert.Contains(t, failed.Message, "conflict check")
	assert.Contains(t, failed.Message, "acc-b")
	assert.Empty(t, failed.History)
	assert.Zero(t, e.storeCalls())
}

func TestCoordinator_FailureStopsLaterAccounts(t *testing.T) {
	e := newEnv()
	e.blobs.failFor = map[string]bool{"acc-a": true}
	c := newCoordinator(t, e)

	require.NoError(t, c.StartUpload(upload.Request{
		File:       validFile(t),
		AccountIDs: []string{"acc-a", "acc-b"},
		Period:     period(t, "2025-03-03", "2025-03-09"),
	}))

	failed, ok := await(t, c).(upload.Failed)
	require.True(t, ok)
	assert.Equal(t, "UPLOADING:ERROR", stages(failed.History)[len(failed.History)-1])
	assert.Empty(t, failed.History.ForAccount("acc-b"))
	assert.Equal(t, 1, e.blobs.Calls())
	assert.Zero(t, e.files.Calls())
}

func TestCoordinator_HistoryIsMonotonicPerAccount(t *testing.T) {
	e := newEnv()
	c := newCoordinator(t, e)
	states, cancel := c.Subscribe()
	defer cancel()

	require.NoError(t, c.StartUpload(upload.Request{
		File:       validFile(t),
		AccountIDs: []string{"acc-a", "acc-b"},
		Period:     period(t, "2025-03-03", "2025-03-09"),
	}))

	var final upload.State
	timeout := time.After(5 * time.Second)
	for final == nil {
		select {
		case s := <-states:
			if upload.Settled(s) {
				final = s
			}
			if l, ok := s.(upload.Loading); ok {
				assert.GreaterOrEqual(t, l.Progress, 0)
				assert.LessOrEqual(t, l.Progress, 100)
			}
		case <-timeout:
			t.Fatal("upload did not settle")
		}
	}

	history := upload.HistoryOf(final)
	for _, acc := range []string{"acc-a", "acc-b"} {
		entries := history.ForAccount(acc)
		require.Len(t, entries, 3)
		for i := 1; i < len(entries); i++ {
			assert.Less(t, entries[i-1].Stage, entries[i].Stage)
		}
	}
}

func TestCoordinator_RetryReusesSelection(t *testing.T) {
	e := newEnv()
	e.diets.failSave = map[string]bool{"acc-a": true}
	c := newCoordinator(t, e)

	require.NoError(t, c.StartUpload(upload.Request{
		File:       validFile(t),
		AccountIDs: []string{"acc-a"},
		Period:     period(t, "2025-03-03", "2025-03-09"),
	}))
	_, ok := await(t, c).(upload.Failed)
	require.True(t, ok)

	e.diets.mu.Lock()
	e.diets.failSave = nil
	e.diets.mu.Unlock()

	require.NoError(t, c.Retry())
	success, ok := await(t, c).(upload.Success)
	require.True(t, ok)
	assert.Equal(t, fullSuccess, stages(success.History))
	assert.Equal(t, 2, e.blobs.Calls())
}

func TestCoordinator_NewFileClearsFileOnly(t *testing.T) {
	e := newEnv()
	c := newCoordinator(t, e)
	p := period(t, "2025-03-03", "2025-03-09")

	require.NoError(t, c.StartUpload(upload.Request{File: validFile(t), AccountIDs: []string{"acc-a"}, Period: p}))
	await(t, c)

	require.NoError(t, c.NewFile())
	assert.IsType(t, upload.Initial{}, c.State())

	ids, selected, ok := c.Selection()
	require.True(t, ok)
	assert.Equal(t, []string{"acc-a"}, ids)
	assert.Equal(t, p, selected)

	assert.ErrorIs(t, c.Retry(), upload.ErrInvalidTransition)
}

func TestCoordinator_InvalidTransitions(t *testing.T) {
	c := newCoordinator(t, newEnv())

	assert.ErrorIs(t, c.Confirm(), upload.ErrInvalidTransition)
	assert.ErrorIs(t, c.Dismiss(), upload.ErrInvalidTransition)
	assert.ErrorIs(t, c.Retry(), upload.ErrInvalidTransition)
	assert.ErrorIs(t, c.NewFile(), upload.ErrInvalidTransition)
}

func TestCoordinator_RequestValidation(t *testing.T) {
	c := newCoordinator(t, newEnv())
	p := period(t, "2025-03-03", "2025-03-09")

	assert.ErrorIs(t, c.StartUpload(upload.Request{AccountIDs: []string{"acc-a"}, Period: p}), upload.ErrNoFile)
	assert.ErrorIs(t, c.StartUpload(upload.Request{File: validFile(t), Period: p}), upload.ErrNoAccounts)
	assert.ErrorIs(t, c.StartUpload(upload.Request{
		File:       validFile(t),
		AccountIDs: []string{"acc-a"},
		Period:     period(t, "2025-03-09", "2025-03-03"),
	}), upload.ErrInvalidPeriod)
	assert.IsType(t, upload.Initial{}, c.State())
}

func TestCoordinator_UnknownAccount(t *testing.T) {
	e := newEnv()
	c := newCoordinator(t, e)

	require.NoError(t, c.StartUpload(upload.Request{
		File:       validFile(t),
		AccountIDs: []string{"acc-missing"},
		Period:     period(t, "2025-03-03", "2025-03-09"),
	}))

	failed, ok := await(t, c).(upload.Failed)
	require.True(t, ok)
	assert.Contains(t, failed.Message, "unknown account")
	assert.Zero(t, e.storeCalls())
}

func TestCoordinator_CloseCancelsInFlightUpload(t *testing.T) {
	e := newEnv()
	e.blobs.block = true
	c := upload.NewCoordinator(context.Background(), e.deps())

	require.NoError(t, c.StartUpload(upload.Request{
		File:       validFile(t),
		AccountIDs: []string{"acc-a", "acc-b"},
		Period:     period(t, "2025-03-03", "2025-03-09"),
	}))
	require.Eventually(t, func() bool { return e.blobs.Calls() == 1 }, 5*time.Second, 10*time.Millisecond)

	c.Close()

	assert.Equal(t, 1, e.blobs.Calls())
	assert.Zero(t, e.diets.SaveCalls())
	assert.ErrorIs(t, c.StartUpload(upload.Request{
		File:       validFile(t),
		AccountIDs: []string{"acc-a"},
		Period:     period(t, "2025-03-03", "2025-03-09"),
	}), upload.ErrClosed)
}

func TestCoordinator_StartReplacesRunningUpload(t *testing.T) {
	e := newEnv()
	e.blobs.block = true
	c := newCoordinator(t, e)
	p := period(t, "2025-03-03", "2025-03-09")

	require.NoError(t, c.StartUpload(upload.Request{File: validFile(t), AccountIDs: []string{"acc-a"}, Period: p}))
	require.Eventually(t, func() bool { return e.blobs.Calls() == 1 }, 5*time.Second, 10*time.Millisecond)

	e.blobs.mu.Lock()
	e.blobs.block = false
	e.blobs.mu.Unlock()

	require.NoError(t, c.StartUpload(upload.Request{File: validFile(t), AccountIDs: []string{"acc-b"}, Period: p}))
	success, ok := await(t, c).(upload.Success)
	require.True(t, ok, "got %T", c.State())
	assert.Len(t, success.History.ForAccount("acc-b"), 3)
	assert.Empty(t, success.History.ForAccount("acc-a"))
	_, ok = e.diets.Get("acc-a")
	assert.False(t, ok)
}

func TestParseAccountIDs(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, upload.ParseAccountIDs([]string{"a, b", "b", " ", "c,"}))
	assert.Empty(t, upload.ParseAccountIDs(nil))
}

func TestCoordinator_DuplicateAccountsWrittenOnce(t *testing.T) {
	e := newEnv()
	c := newCoordinator(t, e)

	require.NoError(t, c.StartUpload(upload.Request{
		File:       validFile(t),
		AccountIDs: []string{"acc-a", "acc-a", " acc-a "},
		Period:     period(t, "2025-03-03", "2025-03-09"),
	}))

	succeeded, ok := await(t, c).(upload.Success)
	require.True(t, ok)
	assert.Equal(t, fullSuccess, stages(succeeded.History))
	assert.Equal(t, 1, e.diets.SaveCalls())
	assert.Equal(t, 1, e.blobs.Calls())
}
