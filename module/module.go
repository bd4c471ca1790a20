package module

import (
	"runtime"
	"sync"

	"github.com/yinyihanbing/gutils/logs"

	"sessevent/conf"
)

// Module defines a component with a lifecycle managed by this package,
// such as an event dispatcher.
type Module interface {
	OnInit()                // Called once before Run.
	OnDestroy()             // Called after Run has returned.
	Run(closeSig chan bool) // Runs until a value arrives on closeSig.
}

type module struct {
	mi       Module
	closeSig chan bool
	wg       sync.WaitGroup
}

var (
	mu   sync.Mutex
	mods []*module
)

// Register adds a module. Modules are initialized in registration order
// and destroyed in reverse order.
func Register(mi Module) {
	mu.Lock()
	defer mu.Unlock()

	mods = append(mods, &module{
		mi:       mi,
		closeSig: make(chan bool, 1),
	})
}

// Init initializes every registered module and starts its Run loop.
func Init() {
	mu.Lock()
	defer mu.Unlock()

	for _, m := range mods {
		m.mi.OnInit()
		m.wg.Add(1)
		go run(m)
	}
}

// Destroy stops every module in reverse order and forgets them.
func Destroy() {
	mu.Lock()
	defer mu.Unlock()

	for i := len(mods) - 1; i >= 0; i-- {
		m := mods[i]
		m.closeSig <- true
		m.wg.Wait()
		safeDestroy(m)
	}
	mods = nil
}

// run executes the module's Run method. A panicking Run is logged.
func run(m *module) {
	defer m.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			logError(r)
		}
	}()
	m.mi.Run(m.closeSig)
}

// safeDestroy calls OnDestroy, recovering from panics.
func safeDestroy(m *module) {
	defer func() {
		if r := recover(); r != nil {
			logError(r)
		}
	}()
	m.mi.OnDestroy()
}

// logError logs r with a stack trace when conf.LenStackBuf allows it.
func logError(r any) {
	if conf.LenStackBuf > 0 {
		buf := make([]byte, conf.LenStackBuf)
		l := runtime.Stack(buf, false)
		logs.Error("%v: %s", r, buf[:l])
	} else {
		logs.Error("%v", r)
	}
}
