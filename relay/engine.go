package relay

// KeyFunc extracts the cursor key of an item
type KeyFunc[T any, K comparable] func(item T) K

// Engine paginates ordered in-memory sequences of T keyed by K.
// It holds no per-call state and is safe for concurrent use.
type Engine[T any, K comparable] struct {
	key     KeyFunc[T, K]
	codec   Codec[K]
	options *Options
}

// NewEngine creates an engine for one relation kind
func NewEngine[T any, K comparable](key KeyFunc[T, K], codec Codec[K], opts *Options) *Engine[T, K] {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Engine[T, K]{
		key:     key,
		codec:   codec,
		options: opts,
	}
}

// Options returns the engine options
func (e *Engine[T, K]) Options() *Options {
	return e.options
}

// Cursor returns the cursor of item
func (e *Engine[T, K]) Cursor(item T) string {
	return e.codec.Encode(e.key(item))
}

// Window is the output of the slicer
type Window[T any] struct {
	// Items is the window, in sequence order. It shares storage with the input sequence.
	Items []T

	// Filtered is the number of items left after the after/before filters
	Filtered int

	// HeadTrimmed counts items removed in front of the window, by the after filter
	// (including the cursor item itself) or by last truncation
	HeadTrimmed int

	// TailTrimmed counts items removed behind the window, by the before filter
	// (including the cursor item itself) or by first truncation
	TailTrimmed int
}

// Slice applies the after/before filters and then the first/last count to seq.
// seq must already be in the relation's order; it is never reordered or modified.
func (e *Engine[T, K]) Slice(seq []T, args Args) (*Window[T], error) {
	if err := args.Validate(); err != nil {
		return nil, err
	}

	var (
		afterKey, beforeKey K
		err                 error
	)
	if args.After != "" {
		if afterKey, err = e.codec.Decode(args.After); err != nil {
			return nil, CursorDecodeError("after", err)
		}
	}
	if args.Before != "" {
		if beforeKey, err = e.codec.Decode(args.Before); err != nil {
			return nil, CursorDecodeError("before", err)
		}
	}

	w := &Window[T]{Items: seq}

	// A cursor that matches nothing leaves the sequence unchanged.
	if args.After != "" {
		if i := e.indexOf(w.Items, afterKey); i >= 0 {
			w.HeadTrimmed += i + 1
			w.Items = w.Items[i+1:]
		}
	}
	if args.Before != "" {
		if i := e.indexOf(w.Items, beforeKey); i >= 0 {
			w.TailTrimmed += len(w.Items) - i
			w.Items = w.Items[:i]
		}
	}

	w.Filtered = len(w.Items)

	if args.First != nil {
		n := min(e.options.ValidatePageSize(*args.First), w.Filtered)
		w.TailTrimmed += w.Filtered - n
		w.Items = w.Items[:n]
	} else {
		n := min(e.options.ValidatePageSize(*args.Last), w.Filtered)
		w.HeadTrimmed += w.Filtered - n
		w.Items = w.Items[w.Filtered-n:]
	}

	return w, nil
}

// indexOf returns the position of the first item whose key equals key, or -1
func (e *Engine[T, K]) indexOf(items []T, key K) int {
	for i, item := range items {
		if e.key(item) == key {
			return i
		}
	}
	return -1
}

// Edges zips the window items with their cursors, preserving order
func (e *Engine[T, K]) Edges(items []T) []Edge[T] {
	edges := make([]Edge[T], len(items))
	for i, item := range items {
		edges[i] = Edge[T]{
			Cursor: e.Cursor(item),
			Node:   item,
		}
	}
	return edges
}

// Paginate slices seq according to args and assembles the connection
func (e *Engine[T, K]) Paginate(seq []T, args Args) (*Connection[T], error) {
	w, err := e.Slice(seq, args)
	if err != nil {
		return nil, err
	}

	edges := e.Edges(w.Items)
	return &Connection[T]{
		Edges:    edges,
		PageInfo: NewPageInfo(w, edges),
	}, nil
}

// Paginate is a one-shot form of Engine.Paginate with default options
func Paginate[T any, K comparable](seq []T, key KeyFunc[T, K], codec Codec[K], args Args) (*Connection[T], error) {
	return NewEngine(key, codec, nil).Paginate(seq, args)
}
