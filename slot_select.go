// Copyright 2026 The objpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objpool

import "reflect"

// newSlot selects the slot layout class for T, the way runtime.map
// inspects a key type's layout once at map-creation time rather than
// per-operation (src/runtime/map.go): handleSlot for single-word
// nilable kinds, packedSlot for small pointer-free values, mutexSlot
// for everything else.
func newSlot[T any]() slot[T] {
	t := reflectTypeOf[T]()
	switch {
	case handleKindOK(t):
		return &handleSlot[T]{}
	case packedKindOK(t):
		return &packedSlot[T]{}
	default:
		return &mutexSlot[T]{}
	}
}

// reflectTypeOf returns T's static reflect.Type even when T is an
// interface type or its zero value would otherwise produce a nil
// reflect.Type through reflect.TypeOf.
func reflectTypeOf[T any]() reflect.Type {
	var zero T
	return reflect.TypeOf(&zero).Elem()
}

// nilCheckFor builds a zero-allocation nil test for T, used by Return
// to reject nil elements with ErrNilElement. It reads only T's
// first machine word, which for every nilable kind (Ptr, Map, Chan,
// Func, Slice, UnsafePointer, and Interface's type-descriptor word) is
// exactly the word that is nil in a literal nil value — the same
// "first word" Go's own `v == nil` comparison inspects.
func nilCheckFor[T any]() func(T) bool {
	t := reflectTypeOf[T]()
	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Slice, reflect.UnsafePointer, reflect.Interface:
		return func(v T) bool { return handleToWord(v) == nil }
	default:
		return func(T) bool { return false }
	}
}
