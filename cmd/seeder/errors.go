package main

import "errors"

var (
	errNotAnArray     = errors.New("samples document is not a JSON array")
	errMissingHost    = errors.New("missing host")
	errServiceNotUp   = errors.New("service did not become healthy in time")
	errStatusNotOK    = errors.New("server rejected sample")
	errNoHostsAndFile = errors.New("either a samples file or a hosts list is required")
)
