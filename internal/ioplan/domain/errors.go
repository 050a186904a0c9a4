package ioplan

import "errors"

var (
	// ErrPointNotFound indicates no point matched the lookup.
	ErrPointNotFound = errors.New("io point not found")
	// ErrCardNotFound indicates no card matched the lookup.
	ErrCardNotFound = errors.New("card not found")
	// ErrProjectNotFound indicates no project matched the lookup.
	ErrProjectNotFound = errors.New("project not found")
	// ErrDuplicateCard indicates a card identity triple is already in use.
	ErrDuplicateCard = errors.New("card position already in use")
	// ErrDuplicateTag indicates a point tag is already in use.
	ErrDuplicateTag = errors.New("point tag already in use")
)
