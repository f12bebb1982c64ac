// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package hwheel

// CallbackEvent is the free-function adapter: it binds a plain callback
// plus a caller-supplied argument, mirroring the teacher's
// TimerHandlerF(h Handler, label string, data TL) shape but expressed as
// a self-contained Executor instead of a pointer+function pair threaded
// through the wheel's API.
type CallbackEvent struct {
	EventNode
	fn  func(arg interface{})
	arg interface{}
}

// NewCallbackEvent returns a CallbackEvent ready to be passed to
// Wheel.Schedule/ScheduleInRange. It is not active until scheduled.
func NewCallbackEvent(fn func(arg interface{}), arg interface{}) *CallbackEvent {
	ce := &CallbackEvent{fn: fn, arg: arg}
	ce.exec = ce
	return ce
}

// Execute invokes the bound callback with its bound argument.
func (ce *CallbackEvent) Execute() {
	ce.fn(ce.arg)
}

// MethodEvent binds a single receiver's method, fixed at construction
// time (no indirect dispatch table, no interface boxing per call): it
// stores the receiver and a method expression taking it, and the
// generic parameter types both.
type MethodEvent[T any] struct {
	EventNode
	receiver T
	method   func(T)
}

// NewMethodEvent returns a MethodEvent bound to method, to be called
// with receiver when the event fires. Typical use:
//
//	ev := hwheel.NewMethodEvent(session, (*Session).onTimeout)
func NewMethodEvent[T any](receiver T, method func(T)) *MethodEvent[T] {
	me := &MethodEvent[T]{receiver: receiver, method: method}
	me.exec = me
	return me
}

// Execute invokes the bound method on the bound receiver.
func (me *MethodEvent[T]) Execute() {
	me.method(me.receiver)
}
