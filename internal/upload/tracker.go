package upload

// tracker turns one account's progress stream into stage-history entries.
type tracker struct {
	account string
	stage   Stage
	// recorded counts the leading stages that already have a SUCCESS entry.
	recorded int
}

func newTracker(account string) *tracker {
	return &tracker{account: account, stage: StageUploading}
}

func (t *tracker) observe(h History, ev ProgressEvent) History {
	if ev.Err != nil {
		return h.Append(Result{AccountID: t.account, Stage: ev.Stage, Status: StatusError, Message: ev.Err.Error()})
	}
	if ev.Done {
		return t.succeedThrough(h, StageSaving+1)
	}
	if ev.Stage > t.stage {
		h = t.succeedThrough(h, ev.Stage)
		t.stage = ev.Stage
	}
	if ev.Stage == StageUploading && ev.Percent >= UploadThreshold {
		h = t.succeedThrough(h, StageParsing)
	}
	return h
}

// succeedThrough appends SUCCESS for every unrecorded stage before limit.
func (t *tracker) succeedThrough(h History, limit Stage) History {
	for s := Stage(t.recorded); s < limit; s++ {
		h = h.Append(Result{AccountID: t.account, Stage: s, Status: StatusSuccess})
		t.recorded++
	}
	return h
}
