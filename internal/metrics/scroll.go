package metrics

import "github.com/uxbench/uxbench/internal/event"

// processScroll copies the producer's running scroll totals.
func processScroll(st *State, ev event.Scroll) {
	sd := &st.Report.Metrics.ScrollDistance

	page := ev.PageScrollPx
	container := ev.ContainerScrollPx
	horizontal := ev.HorizontalPx
	count := ev.ScrollEventCount

	sd.TotalPx = ev.TotalPx
	sd.PageScrollPx = &page
	sd.ContainerScrollPx = &container
	sd.TotalHorizontalPx = &horizontal
	sd.ScrollEvents = &count
	if ev.HeaviestContainer != "" {
		heaviest := ev.HeaviestContainer
		sd.HeaviestContainer = &heaviest
	} else {
		sd.HeaviestContainer = nil
	}
}
