package canvas

import "errors"

var (
	ErrCheckpointNotFound = errors.New("checkpoint not found")
	ErrCanvasNotFound     = errors.New("canvas not found")
	ErrNoteNotFound       = errors.New("note not found")
	ErrInvalidSector      = errors.New("invalid business sector")
	ErrDuplicateTitle     = errors.New("a sticky note with this title already exists at this level")
	ErrPathNotFound       = errors.New("path does not exist")
	ErrInvalidHierarchy   = errors.New("invalid canvas hierarchy")
)
