package vellum

import "github.com/ayn2op/vellum/datasource"

// Event is a notification emitted by the engine for the host to consume.
// Hosts drain events with [Engine.TakeEvents] after every entry-point call.
type Event any

// FetchRequestEvent asks the host to load a batch of list items from its data
// backend. The host is expected to eventually answer through
// [Engine.ProcessDataSourceUpdate] with a payload echoing the correlation
// token.
type FetchRequestEvent struct {
	// Type is the registered data source type ("tokenList", "indexList").
	Type string
	// Value carries the request fields as they appear on the wire.
	Value datasource.FetchRequestValue
}

// DataSourceErrorEvent signals that a data source queued one or more errors.
// The host inspects and clears them via [Engine.PendingErrors].
type DataSourceErrorEvent struct {
	Type string
}

// PressEvent reports a press on a touchable component.
type PressEvent struct {
	Target Component
}

// SwipeDoneEvent reports a fulfilled swipe-away on a touchable component.
type SwipeDoneEvent struct {
	Target    Component
	Direction string
}

// PageChangedEvent reports that a Pager settled on a new page.
type PageChangedEvent struct {
	Target Component
	Page   int
}

// QuitEvent is surfaced when a handler issued a QuitCommand.
type QuitEvent struct{}
