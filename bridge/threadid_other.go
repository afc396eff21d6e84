//go:build !linux && !windows && !darwin

package bridge

func currentThreadID() (uint64, bool) {
	return 0, false
}
