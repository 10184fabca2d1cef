package io

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Device errors
	ErrShortWrite = errors.New(f("short device write"))
)
