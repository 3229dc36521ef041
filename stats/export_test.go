package stats

// SetStageHook installs fn as the Derive stage hook and returns a restore func.
func SetStageHook(fn func(stage string)) (restore func()) {
	if fn == nil {
		stageHook.Store(nil)
	} else {
		stageHook.Store(&fn)
	}
	return func() { stageHook.Store(nil) }
}
