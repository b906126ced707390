package debuginfo

import (
	"fmt"

	"glint/internal/metadata"
	"glint/internal/source"
)

// SetLocation records scope and loc as the current emission context and
// materializes the matching location node on the sink. Re-setting the same
// context is a no-op; callers in instruction-visiting loops rely on that.
// A nil loc marks the position as unknown (line 0) without losing the
// scope attribution.
func (e *Emitter) SetLocation(scope *Scope, loc *source.Location) {
	full := source.FullLocation{}
	if loc != nil {
		full = source.At(*loc)
	}
	e.SetFullLocation(scope, full)
}

// SetFullLocation is SetLocation for contexts whose line-table and scope
// attributions diverge, as they do inside expanded code.
func (e *Emitter) SetFullLocation(scope *Scope, full source.FullLocation) {
	e.ensureLive()
	if scope == e.lastScope && full == e.lastLoc {
		return
	}
	e.lastScope = scope
	e.lastLoc = full
	if scope == nil {
		e.curLocNode = metadata.NoNode
		return
	}
	sn := e.resolveScopeChain(scope)
	e.curLocNode = e.sink.CreateLocation(full.LineTable.Line, full.LineTable.Col, sn)
}

// ClearLocation drops the current context entirely. Code emitted afterwards
// carries no location until the next SetLocation.
func (e *Emitter) ClearLocation() {
	e.ensureLive()
	e.lastScope = nil
	e.lastLoc = source.FullLocation{}
	e.curLocNode = metadata.NoNode
}

// PushArtificialLocation saves the current context and switches to the
// artificial location: line 0, same scope. Compiler-generated code emitted
// under it stays attributed to the enclosing scope without pointing at any
// source line.
func (e *Emitter) PushArtificialLocation() {
	e.ensureLive()
	e.locStack = append(e.locStack, savedContext{
		loc:     e.lastLoc,
		scope:   e.lastScope,
		locNode: e.curLocNode,
	})
	e.lastLoc = e.lastLoc.AsArtificial()
	if e.lastScope != nil {
		sn := e.resolveScopeChain(e.lastScope)
		e.curLocNode = e.sink.CreateLocation(0, 0, sn)
	} else {
		e.curLocNode = metadata.NoNode
	}
}

// PopLocation restores the context saved by the matching push. Popping an
// empty stack is a driver bug.
func (e *Emitter) PopLocation() {
	e.ensureLive()
	n := len(e.locStack)
	if n == 0 {
		panic("debuginfo: PopLocation on empty location stack")
	}
	saved := e.locStack[n-1]
	e.locStack = e.locStack[:n-1]
	e.lastLoc = saved.loc
	e.lastScope = saved.scope
	e.curLocNode = saved.locNode
}

// WithArtificialLocation runs fn under a pushed artificial location and
// restores the context afterwards, even on panic.
func (e *Emitter) WithArtificialLocation(fn func()) {
	e.PushArtificialLocation()
	defer e.PopLocation()
	fn()
}

// CurrentScope returns the scope of the current emission context.
func (e *Emitter) CurrentScope() *Scope { return e.lastScope }

// CurrentLocation returns the location of the current emission context.
func (e *Emitter) CurrentLocation() source.FullLocation { return e.lastLoc }

// ArgNo returns the zero-based index of v among fn's arguments.
//
// Code generators visit arguments roughly in order, so the search starts
// where the previous call on the same function left off and wraps around;
// in-order traversal is O(1) per argument, out-of-order still finds the
// value. Asking for a value that is not an argument of fn is a bug.
func (e *Emitter) ArgNo(fn *Func, v *Value) int {
	if fn == nil || v == nil {
		panic("debuginfo: ArgNo on nil function or value")
	}
	if fn != e.lastFn {
		e.lastFn = fn
		e.argCursor = 0
	}
	n := len(fn.Args)
	for i := 0; i < n; i++ {
		idx := e.argCursor + i
		if idx >= n {
			idx -= n
		}
		if fn.Args[idx] == v {
			e.argCursor = idx + 1
			if e.argCursor == n {
				e.argCursor = 0
			}
			return idx
		}
	}
	panic(fmt.Sprintf("debuginfo: %q is not an argument of %q", v.Name, fn.Name))
}
