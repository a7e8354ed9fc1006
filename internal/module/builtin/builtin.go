// Package builtin provides the content modules shipped with inkframe.
package builtin

import (
	"github.com/jonboulle/clockwork"

	"git.home.luguber.info/inful/inkframe/internal/module"
)

// Registry returns the registry of built-in modules using the real clock.
func Registry() *module.Registry {
	return RegistryWithClock(clockwork.NewRealClock())
}

// RegistryWithClock returns the built-in registry with clock injected into
// time-dependent modules.
func RegistryWithClock(clock clockwork.Clock) *module.Registry {
	reg := module.NewRegistry()
	reg.MustRegister("blank", NewBlank)
	reg.MustRegister("text", NewText)
	reg.MustRegister("image", NewImage)
	reg.MustRegister("clock", func(s module.Spec) (module.Module, error) { return NewClock(s, clock) })
	return reg
}
