package reactive

// IsReadable reports whether v is an observable value.
func IsReadable(v any) bool {
	_, ok := v.(Readable)
	return ok
}

// Unwrap returns the current value of v if it is Readable, subscribing the
// current listener. Plain values are returned unchanged.
func Unwrap(v any) any {
	if r, ok := v.(Readable); ok {
		return r.GetAny()
	}
	return v
}

// Peek returns the current value of v if it is Readable without
// subscribing. Plain values are returned unchanged.
func Peek(v any) any {
	if r, ok := v.(Readable); ok {
		return r.PeekAny()
	}
	return v
}
