package sessevent

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/yinyihanbing/gutils/logs"

	"sessevent/module"
	"sessevent/storage"
)

// Run registers and initializes mods, such as event dispatchers, then
// blocks until SIGINT or SIGTERM and shuts everything down.
func Run(mods ...module.Module) {
	logs.Info("sessevent starting up")

	for i := 0; i < len(mods); i++ {
		module.Register(mods[i])
	}
	module.Init()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	sig := <-c
	logs.Info("sessevent closing down (signal: %v)", sig)
	Stop()
}

// Stop destroys the modules in reverse order, then the storage clients.
func Stop() {
	module.Destroy()
	storage.Destroy()
}
