// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Timur Takhirov

package service

import "errors"

// ErrNoSession is returned when a sync pass is invoked without a live
// session token. The pass aborts before any record is touched.
var ErrNoSession = errors.New("no active session for sync")
