package arena

// Temp is a checkpoint on an arena. End rewinds the arena to the position it
// had when the checkpoint was taken.
//
// Temps on the same arena must be ended in LIFO order, exactly once each.
// Violating the order is not detected in general; ending a Temp whose position
// is ahead of the arena panics.
type Temp struct {
	arena *Arena
	pos   int
}

// Temp takes a checkpoint at the current position.
func (a *Arena) Temp() Temp {
	return Temp{arena: a, pos: a.pos}
}

// Arena returns the arena the checkpoint belongs to.
func (t Temp) Arena() *Arena {
	return t.arena
}

// Pos returns the saved position.
func (t Temp) Pos() int {
	return t.pos
}

// End rewinds the arena to the saved position.
func (t Temp) End() {
	t.arena.PopTo(t.pos)
}
