package api

import "errors"

var errBadRequest = errors.New("api: bad request")
