//go:build windows && (amd64 || arm64)

package real

import "golang.org/x/sys/windows"

func dlopen(path string) (uintptr, error) {
	h, err := windows.LoadLibrary(path)
	return uintptr(h), err
}

func dlsym(lib uintptr, name string) (uintptr, error) {
	return windows.GetProcAddress(windows.Handle(lib), name)
}

func dlclose(lib uintptr) error {
	return windows.FreeLibrary(windows.Handle(lib))
}
