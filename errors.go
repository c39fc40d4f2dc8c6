package epdimg

import (
	"errors"

	"go.afab.re/epdimg/header"
	"go.afab.re/epdimg/nibble"
)

// All errors returned by a conversion wrap one of these.
var (
	ErrInvalidDimensions = nibble.ErrInvalidDimensions
	ErrInvalidSymbolName = header.ErrInvalidName
	ErrUnreadableInput   = errors.New("unreadable input")
	ErrUnwritableOutput  = errors.New("unwritable output")
)
