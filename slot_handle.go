// Copyright 2026 The objpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objpool

import (
	"reflect"
	"sync/atomic"
	"unsafe"
)

// handleSlot is the handle layout: state is the handle
// itself, nil meaning empty, claimed/placed with a single CAS on one
// machine word. It is only valid for T whose in-memory representation
// is exactly one pointer-sized, GC-trackable word — Ptr, Chan, Map,
// UnsafePointer, and Func — which handleKindOK (slot_select.go) checks
// before a handleSlot is ever constructed.
//
// The bit-reinterpretation technique (take T's only word through
// unsafe.Pointer and CAS it as a *byte) mirrors runtime.lfstackPack /
// lfstackUnpack's packing of a typed *lfnode into a uint64 word: both
// rely on the pointee staying reachable through a differently-typed
// pointer to the same address, which the Go GC honors.
type handleSlot[T any] struct {
	word atomic.Pointer[byte]
}

// handleKindOK reports whether T's kind is representable by handleSlot.
func handleKindOK(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Chan, reflect.Map, reflect.UnsafePointer, reflect.Func:
		return true
	default:
		return false
	}
}

func handleToWord[T any](v T) unsafe.Pointer {
	return *(*unsafe.Pointer)(unsafe.Pointer(&v))
}

func wordToHandle[T any](p unsafe.Pointer) T {
	var v T
	*(*unsafe.Pointer)(unsafe.Pointer(&v)) = p
	return v
}

func (s *handleSlot[T]) tryClaim() (T, bool) {
	old := s.word.Load()
	if old == nil {
		var zero T
		return zero, false
	}
	if s.word.CompareAndSwap(old, nil) {
		return wordToHandle[T](unsafe.Pointer(old)), true
	}
	// Lost the race: another claimer got here first. Benign — the
	// caller proceeds as if the slot had been empty all along.
	var zero T
	return zero, false
}

func (s *handleSlot[T]) tryPlace(v T) bool {
	p := handleToWord(v)
	if p == nil {
		return false
	}
	if s.word.Load() != nil {
		return false
	}
	return s.word.CompareAndSwap(nil, (*byte)(p))
}

func (s *handleSlot[T]) hasValueUnsynchronized() bool {
	return s.word.Load() != nil
}

func (s *handleSlot[T]) clear() (T, bool) {
	old := s.word.Swap(nil)
	if old == nil {
		var zero T
		return zero, false
	}
	return wordToHandle[T](unsafe.Pointer(old)), true
}

func (s *handleSlot[T]) exchange(v T) (T, bool) {
	p := (*byte)(handleToWord(v))
	old := s.word.Swap(p)
	if old == nil {
		var zero T
		return zero, false
	}
	return wordToHandle[T](unsafe.Pointer(old)), true
}
