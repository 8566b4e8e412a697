// Package relay implements Relay-style cursor connections over ordered, in-memory
// sequences.
//
// A relation is paginated in three steps: the caller materializes the whole relation in
// its domain order, the Engine slices it with the after/before/first/last arguments,
// and the window is returned as edges plus page info:
//
//	engine := relay.NewEngine(func(c Comment) primitive.ObjectID { return c.ID }, relay.ObjectIDCodec{}, nil)
//	conn, err := engine.Paginate(comments, relay.Forward(10, after))
//	if relay.IsClientError(err) {
//	    // report relay.CodeOf(err) to the client
//	}
//
// # Cursor semantics
//
// after and before are exclusive. A cursor that decodes but matches no item leaves the
// sequence unchanged. Exactly one of first and last must be supplied; last keeps the
// tail of the filtered items in their original order.
//
// # Limitations
//
// The full relation is materialized before slicing, so cost is linear in its length.
// Successive calls observe whatever the relation holds at fetch time: items inserted or
// removed between two calls can be skipped or repeated across pages.
package relay
