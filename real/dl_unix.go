//go:build (darwin || linux || freebsd) && (amd64 || arm64)

package real

import "github.com/ebitengine/purego"

func dlopen(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
}

func dlsym(lib uintptr, name string) (uintptr, error) {
	return purego.Dlsym(lib, name)
}

func dlclose(lib uintptr) error {
	return purego.Dlclose(lib)
}
