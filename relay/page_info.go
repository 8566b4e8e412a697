package relay

// NewPageInfo derives the page info of a window from its trim counts.
// edges must be the edges assembled from w.Items.
func NewPageInfo[T any](w *Window[T], edges []Edge[T]) PageInfo {
	info := PageInfo{
		HasPreviousPage: w.HeadTrimmed > 0,
		HasNextPage:     w.TailTrimmed > 0,
	}
	if len(edges) > 0 {
		start := edges[0].Cursor
		end := edges[len(edges)-1].Cursor
		info.StartCursor = &start
		info.EndCursor = &end
	}
	return info
}
