/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package errs holds the error taxonomy shared by the editing engine.
//
// Every failure the engine reports is classified by one of the sentinel kinds
// below. Callers test with errors.Is(err, errs.ErrInvalidInput) and friends;
// OpError carries the operation label that is shown to the user.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks requests rejected by validation before any state change.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDecodeFailure marks raster bytes that cannot be decoded.
	ErrDecodeFailure = errors.New("decode failure")
	// ErrRenderContextUnavailable marks a scratch surface that could not be allocated.
	ErrRenderContextUnavailable = errors.New("render context unavailable")
	// ErrRemoteEditFailure marks a generative edit that was blocked or returned nothing usable.
	ErrRemoteEditFailure = errors.New("remote edit failure")
)

// OpError ties a failure to the operation that produced it.
type OpError struct {
	Op   string // user facing context label, e.g. "Failed to crop image"
	Kind error  // one of the sentinel kinds
	Err  error  // underlying cause, may be nil
}

func (e *OpError) Error() string {
	switch {
	case e.Err != nil && e.Op != "":
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	case e.Op != "":
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	default:
		return fmt.Sprint(e.Kind)
	}
}

func (e *OpError) Unwrap() error { return e.Err }

// Is reports a match against the error kind, so errors.Is works on the sentinel
// even when the cause is an unrelated error.
func (e *OpError) Is(target error) bool { return e.Kind != nil && target == e.Kind }

// New creates an OpError of the given kind with a formatted cause.
func New(op string, kind error, format string, args ...any) error {
	return &OpError{Op: op, Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Wrap classifies err under kind. A nil err yields nil.
func Wrap(op string, kind error, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Kind: kind, Err: err}
}

// Invalid is shorthand for a validation failure.
func Invalid(op, format string, args ...any) error {
	return New(op, ErrInvalidInput, format, args...)
}

// Label returns the operation label of err, if it carries one.
func Label(err error) string {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Op
	}
	return ""
}
