package engine

// Controls bundles the navigation surface of an Engine for delegation to a
// presentation layer.
//
// The flag fields are read when Controls is called and do not update
// afterwards. Callers that need change detection should call Controls again
// from a Listener.
type Controls struct {
	Position   int
	History    func() ([]any, error)
	Go         func(target int) error
	Back       func(n int) error
	Forward    func(n int) error
	Reset      func()
	CanBack    bool
	CanForward bool

	// Archive is nil in auto-archive mode.
	Archive    func()
	CanArchive bool
}

// Controls returns the navigation surface at the current position.
func (e *Engine) Controls() Controls {
	c := Controls{
		Position:   e.position,
		History:    e.History,
		Go:         e.Go,
		Back:       e.Back,
		Forward:    e.Forward,
		Reset:      e.Reset,
		CanBack:    e.CanBack(),
		CanForward: e.CanForward(),
	}
	if !e.autoArchive {
		c.Archive = e.Archive
		c.CanArchive = e.CanArchive()
	}
	return c
}
