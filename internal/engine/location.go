package engine

import (
	"reflect"
	"runtime"
	"strings"
)

const maxStackDepth = 64

var (
	enginePkg      = reflect.TypeOf(T{}).PkgPath()
	tMethodPrefix  = enginePkg + ".(*T)."
	valueAsPrefix  = enginePkg + ".valueAs["
	testifyPackage = "github.com/stretchr/testify/"
)

// callerFunction returns the fully qualified name of the function skip
// frames above the caller of callerFunction.
func callerFunction(skip int) string {
	pc, _, _, ok := runtime.Caller(skip + 1)
	if !ok {
		return ""
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return ""
	}
	return fn.Name()
}

// callerLocation finds the first frame that belongs to user code: not a
// method of T, not testify and not a function registered with Helper.
func (t *T) callerLocation() (string, int) {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if !t.skipFrame(f.Function) {
			return f.File, f.Line
		}
		if !more {
			return "unknown", 0
		}
	}
}

func (t *T) skipFrame(fn string) bool {
	switch {
	case strings.HasPrefix(fn, tMethodPrefix),
		strings.HasPrefix(fn, valueAsPrefix),
		strings.HasPrefix(fn, testifyPackage):
		return true
	}
	_, helper := t.helpers[fn]
	return helper
}

// panicLocation is called from a deferred recover and returns the frame
// that panicked: the first non-runtime frame below runtime.gopanic.
func panicLocation() (string, int) {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(1, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	seenPanic := false
	for {
		f, more := frames.Next()
		switch {
		case f.Function == "runtime.gopanic":
			seenPanic = true
		case seenPanic && !strings.HasPrefix(f.Function, "runtime."):
			return f.File, f.Line
		}
		if !more {
			return "unknown", 0
		}
	}
}
