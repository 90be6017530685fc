package vellum

// Command is a side effect requested by a component or gesture during event
// handling. Commands are executed by the engine after the handler returns.
type Command any

// BatchCommand groups multiple commands into a single command.
type BatchCommand []Command

// AppendCommand appends next to current and returns a merged command value.
// It flattens nested BatchCommand values.
func AppendCommand(current Command, next Command) Command {
	if next == nil {
		return current
	}
	if current == nil {
		return next
	}

	var batch BatchCommand
	switch c := current.(type) {
	case BatchCommand:
		batch = append(batch, c...)
	default:
		batch = append(batch, c)
	}

	switch n := next.(type) {
	case BatchCommand:
		batch = append(batch, n...)
	default:
		batch = append(batch, n)
	}
	return batch
}

// RedrawCommand requests that the host re-render after the current event.
type RedrawCommand struct{}

// EmitEventCommand appends an event to the engine's host event queue.
type EmitEventCommand struct {
	Event Event
}

// QuitCommand requests stopping the host loop. The engine itself ignores it
// beyond surfacing it as a QuitEvent; hosts act on it.
type QuitCommand struct{}
