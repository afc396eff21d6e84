package bridge

import (
	"sync"

	"github.com/ebitengine/purego"
	"github.com/sirupsen/logrus"
)

var (
	pthreadOnce       sync.Once
	pthreadThreadIDNP func(thread uintptr, tid *uint64) int32
)

func loadPthreadThreadID() {
	lib, err := purego.Dlopen("/usr/lib/libSystem.B.dylib", purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "loadPthreadThreadID",
			"error":    err.Error(),
		}).Warn("libSystem not available, callback nesting will not be tracked")
		return
	}
	purego.RegisterLibFunc(&pthreadThreadIDNP, lib, "pthread_threadid_np")
}

func currentThreadID() (uint64, bool) {
	pthreadOnce.Do(loadPthreadThreadID)
	if pthreadThreadIDNP == nil {
		return 0, false
	}
	var tid uint64
	if pthreadThreadIDNP(0, &tid) != 0 {
		return 0, false
	}
	return tid, true
}
