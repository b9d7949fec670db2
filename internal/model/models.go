package model

// All lists the tables owned by the board, in migration order.
func All() []interface{} {
	return []interface{}{
		&Checkpoint{},
		&Canvas{},
		&Note{},
	}
}
