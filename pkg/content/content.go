// Package content holds the game's narrative modules. Each NPC ships as
// one self-contained module that registers its events, state configs,
// and dialog builders against an engine. Modules never touch each other
// directly; they coordinate through event ids and the registry's data
// store.
package content

import "github.com/FJavierRG/mansion-ambar/pkg/engine"

// Modules returns every content module in load order. Order matters for
// NPC spawn priority: companions must load after the NPC they follow.
func Modules() []engine.Module {
	return []engine.Module{
		{Name: "wanderer", Register: RegisterWanderer},
		{Name: "merchant", Register: RegisterMerchant},
		{Name: "librarian", Register: RegisterLibrarian},
		{Name: "stranger", Register: RegisterStranger},
		{Name: "keeper", Register: RegisterKeeper},
	}
}
