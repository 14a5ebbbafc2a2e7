package upload_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/noisevisionproductions/Vitema-sub001/internal/models"
	"github.com/noisevisionproductions/Vitema-sub001/internal/spreadsheet"
	"github.com/noisevisionproductions/Vitema-sub001/internal/upload"
)

var errBoom = errors.New("boom")

type fakeBlobs struct {
	mu      sync.Mutex
	calls   int
	objects map[string][]byte
	failFor map[string]bool
	// block, when set, makes Upload wait for the context to end.
	block bool
}

func (f *fakeBlobs) Upload(ctx context.Context, path string, body io.Reader, _ int64, _ string) (string, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	fail := false
	for acc := range f.failFor {
		if strings.HasPrefix(path, "diets/"+acc+"/") {
			fail = true
		}
	}
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if fail {
		return "", errBoom
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[path] = data
	return "https://blobs.test/" + path, nil
}

func (f *fakeBlobs) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeFiles struct {
	mu       sync.Mutex
	calls    int
	records  map[string]*models.FileMetadata
	statuses map[string]models.FileStatus
	failSave map[string]bool
}

func (f *fakeFiles) Save(_ context.Context, meta *models.FileMetadata) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failSave[meta.OwnerID] {
		return "", errBoom
	}
	if f.records == nil {
		f.records = map[string]*models.FileMetadata{}
		f.statuses = map[string]models.FileStatus{}
	}
	id := fmt.Sprintf("file-%d", f.calls)
	copied := *meta
	copied.ID = id
	f.records[id] = &copied
	f.statuses[id] = meta.Status
	return id, nil
}

func (f *fakeFiles) UpdateStatus(_ context.Context, id string, status models.FileStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = status
	return nil
}

func (f *fakeFiles) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeFiles) Statuses() []models.FileStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.FileStatus
	for i := 1; i <= f.calls; i++ {
		out = append(out, f.statuses[fmt.Sprintf("file-%d", i)])
	}
	return out
}

type storedDiet struct {
	diet   *models.StructuredDiet
	period models.Period
}

type fakeDiets struct {
	mu        sync.Mutex
	saveCalls int
	diets     map[string]storedDiet
	failSave  map[string]bool
	failCheck map[string]bool
}

func (f *fakeDiets) seed(accountID string, period models.Period) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.diets == nil {
		f.diets = map[string]storedDiet{}
	}
	f.diets[accountID] = storedDiet{diet: &models.StructuredDiet{}, period: period}
}

func (f *fakeDiets) Save(_ context.Context, accountID string, diet *models.StructuredDiet, period models.Period) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	if f.failSave[accountID] {
		return errBoom
	}
	if f.diets == nil {
		f.diets = map[string]storedDiet{}
	}
	f.diets[accountID] = storedDiet{diet: diet, period: period}
	return nil
}

func (f *fakeDiets) HasOverlapping(_ context.Context, accountID string, period models.Period) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCheck[accountID] {
		return false, errBoom
	}
	d, ok := f.diets[accountID]
	return ok && d.period.Overlaps(period), nil
}

func (f *fakeDiets) Get(accountID string) (storedDiet, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.diets[accountID]
	return d, ok
}

func (f *fakeDiets) SaveCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saveCalls
}

type fakeAccounts map[string]models.Account

func (f fakeAccounts) Lookup(_ context.Context, ids []string) ([]models.Account, error) {
	out := make([]models.Account, 0, len(ids))
	for _, id := range ids {
		acc, ok := f[id]
		if !ok {
			return nil, fmt.Errorf("%s: %w", id, models.ErrAccountNotFound)
		}
		out = append(out, acc)
	}
	return out, nil
}

type env struct {
	blobs    *fakeBlobs
	files    *fakeFiles
	diets    *fakeDiets
	accounts fakeAccounts
}

func newEnv() *env {
	return &env{
		blobs: &fakeBlobs{},
		files: &fakeFiles{},
		diets: &fakeDiets{},
		accounts: fakeAccounts{
			"acc-a": {ID: "acc-a", Email: "a@example.com"},
			"acc-b": {ID: "acc-b", Email: "b@example.com"},
			"acc-x": {ID: "acc-x", Email: "x@example.com"},
			"acc-y": {ID: "acc-y", Email: "y@example.com"},
		},
	}
}

func (e *env) deps() upload.Deps {
	return upload.Deps{Blobs: e.blobs, Files: e.files, Diets: e.diets, Accounts: e.accounts}
}

func (e *env) storeCalls() int {
	return e.blobs.Calls() + e.files.Calls() + e.diets.SaveCalls()
}

func period(t *testing.T, from, to string) models.Period {
	t.Helper()
	p, err := models.NewPeriod(from, to)
	require.NoError(t, err)
	return p
}

// workbook builds an xlsx file with one day sheet holding rows after a header.
func workbook(t *testing.T, rows ...[]interface{}) upload.File {
	t.Helper()
	return workbookWithHeader(t, []interface{}{"Notes", "Meal", "Preparation", "Ingredients", "Macros"}, rows...)
}

func workbookWithHeader(t *testing.T, header []interface{}, rows ...[]interface{}) upload.File {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "Day 1"))

	all := append([][]interface{}{header}, rows...)
	for i, row := range all {
		ref, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := row
		require.NoError(t, f.SetSheetRow("Day 1", ref, &values))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return upload.File{Name: "week.xlsx", MimeType: spreadsheet.MimeXLSX, Data: buf.Bytes()}
}

func validFile(t *testing.T) upload.File {
	return workbook(t,
		[]interface{}{"", "Owsianka", "Ugotuj owies", "owies, mleko", "300,10,5,50"},
		[]interface{}{"", "Kanapka", "Posmaruj", "chleb, masło"},
	)
}
