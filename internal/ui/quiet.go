package ui

// quietPresenter consumes events but produces no output.
type quietPresenter struct{}

func (p *quietPresenter) Run(events <-chan Event) error {
	for range events {
		// Counters live on the collector; nothing to display.
	}
	return nil
}

func (p *quietPresenter) Summary() string {
	return ""
}
