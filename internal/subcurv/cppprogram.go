package subcurv

/*
#cgo LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>

// sc_call_entry casts the resolved symbol to SubCurv's one supported
// entry-point shape (a scalar in, scalar out function) and calls it.
// There is no call path for vector/matrix-typed entries.
static double sc_call_entry(void *fn, double arg) {
	double (*f)(double) = (double (*)(double))fn;
	return f(arg);
}
*/
import "C"

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"unsafe"

	"github.com/google/uuid"
)

// Program compiles a CompileFunction-rendered translation unit with
// the system C++ toolchain and dlopens the result, so a SubCurv
// compilation can be exercised end to end in a Go unit test without a
// GPU present. It is a test-harness-only back end: the primary
// consumer of SubCurv's compiled output is the GPU shader pipeline
// (external to this repository), not Program.
//
// Grounded on the teacher's pkg/codegen package having no executable
// back end of its own (WGSL text is handed to wgpu at runtime);
// Program fills the analogous role here using cgo + dlopen, the
// standard Go pattern for loading a just-built shared object, rather
// than hand-rolling an ELF loader.
type Program struct {
	path   string
	handle unsafe.Pointer
}

// Build writes src to a uniquely-named temporary .cc file, compiles it
// to a shared library with the system c++ compiler, and dlopens it.
// The unique name (via google/uuid) avoids stale dlopen cache
// collisions across repeated test runs in the same process, since
// dlopen may return a cached handle for a previously-seen path.
func Build(src string) (*Program, error) {
	dir := os.TempDir()
	base := "subcurv_" + uuid.NewString()
	srcPath := filepath.Join(dir, base+".cc")
	soPath := filepath.Join(dir, base+".so")

	if err := os.WriteFile(srcPath, []byte(src), 0o600); err != nil {
		return nil, fmt.Errorf("subcurv: writing generated source: %w", err)
	}
	defer os.Remove(srcPath)

	cmd := exec.Command("c++", "-std=c++17", "-shared", "-fPIC", "-O2", "-o", soPath, srcPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("subcurv: compiling generated C++: %w\n%s", err, out)
	}

	cPath := C.CString(soPath)
	defer C.free(unsafe.Pointer(cPath))
	handle := C.dlopen(cPath, C.RTLD_NOW)
	if handle == nil {
		os.Remove(soPath)
		return nil, fmt.Errorf("subcurv: dlopen %s: %s", soPath, C.GoString(C.dlerror()))
	}
	return &Program{path: soPath, handle: handle}, nil
}

// Call invokes the compiled `entry` symbol as `double entry(double)`.
// It is only valid for a scalar-typed entry: CompileFunction emits no
// marshalling wrapper for vector/matrix-typed entries, so those cannot
// be called through Program.
func (p *Program) Call(arg float64) (float64, error) {
	sym := C.CString("entry")
	defer C.free(unsafe.Pointer(sym))
	fn := C.dlsym(p.handle, sym)
	if fn == nil {
		return 0, fmt.Errorf("subcurv: symbol entry not found: %s", C.GoString(C.dlerror()))
	}
	return float64(C.sc_call_entry(fn, C.double(arg))), nil
}

// Close dlcloses the loaded library and removes the compiled shared
// object from disk.
func (p *Program) Close() error {
	if p.handle != nil {
		C.dlclose(p.handle)
		p.handle = nil
	}
	return os.Remove(p.path)
}
