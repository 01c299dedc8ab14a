// © 2026 Robin Language Authors
//
// SPDX-License-Identifier: Apache-2.0

package optional

type Optional[T any] struct {
	present bool
	value   T
}

func (o Optional[T]) IsPresent() bool {
	return o.present
}

func (o Optional[T]) Value() T {
	return o.value
}

func (o Optional[T]) OrElse(fallback T) T {
	if o.present {
		return o.value
	}
	return fallback
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{
		present: true,
		value:   v,
	}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}
