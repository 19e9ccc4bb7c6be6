// Package access is the facade through which the core reads user-owned
// primitive and predicate containers (spec.md §4.8). It never touches user
// storage directly: every read goes through an Accessor, so the core stays
// agnostic to how the caller represents its data.
package access

import (
	"fmt"
	"reflect"
)

// MemorySpaceID identifies the memory/execution space an adapter's data
// lives in. The core itself does not interpret the value; it is carried
// through to the backend (package bvhbackend) so a caller wiring a device
// backend can assert its accessors actually live where the backend expects.
type MemorySpaceID string

// HostSpace is the memory space ordinary Go slices live in.
const HostSpace MemorySpaceID = "host"

// Accessor is the generic shape the core reads any sequence of T through:
// a memory-space tag, a count, and a positional getter. Primitive boxes and
// predicate objects both flow through this same interface.
type Accessor[T any] interface {
	// MemorySpace identifies where this accessor's backing storage lives.
	MemorySpace() MemorySpaceID
	// Size returns the number of elements in the sequence.
	Size() int
	// Get returns the element at position i. Implementations need not
	// bounds-check; the core only calls Get with 0 <= i < Size().
	Get(i int) T
}

// SliceAccessor adapts a plain Go slice into an Accessor — the common case
// when the caller already holds everything in host memory.
type SliceAccessor[T any] struct {
	Space MemorySpaceID
	Data  []T
}

// NewSliceAccessor wraps data as a host-space Accessor.
func NewSliceAccessor[T any](data []T) SliceAccessor[T] {
	return SliceAccessor[T]{Space: HostSpace, Data: data}
}

// MemorySpace implements Accessor.
func (a SliceAccessor[T]) MemorySpace() MemorySpaceID { return a.Space }

// Size implements Accessor.
func (a SliceAccessor[T]) Size() int { return len(a.Data) }

// Get implements Accessor.
func (a SliceAccessor[T]) Get(i int) T { return a.Data[i] }

// MisuseKind enumerates the access-facade misuse scenarios spec.md §4.8
// requires the core to reject, modeled on ArborX's tstAccessTraits.cpp.
type MisuseKind string

const (
	// MisuseMissingSpecialization: no adapter was supplied (nil), or the
	// adapter lacks Size or Get.
	MisuseMissingSpecialization MisuseKind = "missing_specialization"
	// MisuseEmptySpecialization: the adapter type exists but declares none
	// of Size/Get/MemorySpace.
	MisuseEmptySpecialization MisuseKind = "empty_specialization"
	// MisuseMissingMemorySpace: Size and Get are present but MemorySpace is
	// not.
	MisuseMissingMemorySpace MisuseKind = "missing_memory_space"
	// MisuseNonStaticSize: Size requires a receiver value to compute (in Go
	// terms: it is not safe to call on the zero value), which in the
	// Kokkos-style traits world corresponds to a non-static size() member.
	MisuseNonStaticSize MisuseKind = "non_static_size"
)

// MisuseError reports which access-facade requirement a candidate adapter
// fails to meet.
type MisuseError struct {
	Kind   MisuseKind
	Detail string
}

func (e *MisuseError) Error() string {
	return fmt.Sprintf("access: adapter misuse (%s): %s", e.Kind, e.Detail)
}

// Diagnose runtime-checks an arbitrary candidate adapter's method set via
// reflection and reports the first unmet Accessor requirement. It is the
// "run-time fallback ... where static checking is unavailable" spec.md §9
// calls for: ordinary callers satisfy Accessor[T] at compile time simply by
// passing a value of the wrong shape where one is required, which Go's
// compiler already rejects; Diagnose exists for boundaries where an adapter
// arrives as an interface{} (e.g. loaded from a plugin or constructed
// reflectively) and must be checked before it can be used.
func Diagnose(v interface{}) error {
	if v == nil {
		return &MisuseError{Kind: MisuseMissingSpecialization, Detail: "adapter is nil"}
	}

	t := reflect.TypeOf(v)
	hasSize := methodExists(t, "Size", 0, 1)
	hasGet := methodExists(t, "Get", 1, 1)
	hasMemorySpace := methodExists(t, "MemorySpace", 0, 1)

	if !hasSize && !hasGet && !hasMemorySpace {
		return &MisuseError{Kind: MisuseEmptySpecialization, Detail: fmt.Sprintf("type %s declares none of Size, Get, MemorySpace", t)}
	}
	if !hasSize {
		return &MisuseError{Kind: MisuseMissingSpecialization, Detail: fmt.Sprintf("type %s has no Size() method", t)}
	}
	if !hasGet {
		return &MisuseError{Kind: MisuseMissingSpecialization, Detail: fmt.Sprintf("type %s has no Get(int) method", t)}
	}
	if !hasMemorySpace {
		return &MisuseError{Kind: MisuseMissingMemorySpace, Detail: fmt.Sprintf("type %s has no MemorySpace() method", t)}
	}

	if sizePanicsOnZeroValue(t) {
		return &MisuseError{Kind: MisuseNonStaticSize, Detail: fmt.Sprintf("type %s's Size method is not safe to call without instance state (panicked on a zero value)", t)}
	}

	return nil
}

// sizePanicsOnZeroValue reports whether t's Size method panics when invoked
// on a freshly zeroed receiver. A well-formed adapter's Size is safe to call
// on any instance of the type, including a zero value; one that isn't is the
// Go analogue of a non-static size() member that depends on state a bare
// type can't provide.
func sizePanicsOnZeroValue(t reflect.Type) (panicked bool) {
	var recv reflect.Value
	if _, ok := t.MethodByName("Size"); ok {
		recv = reflect.Zero(t)
	} else if t.Kind() != reflect.Ptr {
		recv = reflect.New(t)
	}
	method := recv.MethodByName("Size")
	if !method.IsValid() {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			panicked = true
		}
	}()
	method.Call(nil)
	return false
}

// methodExists reports whether t (or *t) has a method named name taking
// numIn arguments (excluding the receiver) and returning numOut values.
func methodExists(t reflect.Type, name string, numIn, numOut int) bool {
	m, ok := t.MethodByName(name)
	if !ok {
		if t.Kind() != reflect.Ptr {
			pt := reflect.PointerTo(t)
			m, ok = pt.MethodByName(name)
		}
	}
	if !ok {
		return false
	}
	// m.Func includes the receiver as the first argument.
	return m.Func.Type().NumIn()-1 == numIn && m.Func.Type().NumOut() == numOut
}
