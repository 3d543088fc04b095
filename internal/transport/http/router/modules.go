package router

import (
	"sort"

	"usercenter/internal/transport/http/ez"
)

// Module 挂载到某个分组的一组接口
type Module interface{ Mount(ez.EZ) }

// ModuleFunc 让普通函数满足 Module
type ModuleFunc func(ez.EZ)

func (f ModuleFunc) Mount(e ez.EZ) { f(e) }

// 可选：实现该接口可控制挂载顺序（数值越小越先挂）
// 不实现则默认 100
type prioritizer interface{ Priority() int }

func mountAll(e ez.EZ, mods ...Module) {
	sorted := append([]Module(nil), mods...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return priorityOf(sorted[i]) < priorityOf(sorted[j])
	})
	for _, m := range sorted {
		m.Mount(e)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
