package repository

import "errors"

var ErrVideoNotFound = errors.New("video not found")
