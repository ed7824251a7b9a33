package reactive

// Listener is notified when a signal it read has changed.
type Listener interface {
	// MarkDirty is called when a dependency changes.
	MarkDirty()

	// ID returns a unique identifier used for deduplication.
	ID() uint64
}

// sourceTracker is implemented by listeners that remember their sources so
// they can unsubscribe before re-running.
type sourceTracker interface {
	Listener
	addSource(source *signalBase)
}
