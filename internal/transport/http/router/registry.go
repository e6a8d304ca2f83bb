package router

import (
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

// APIModule mounts routes on /api/v1. public has no auth; authed requires a valid token.
type APIModule interface {
	MountAPI(public, authed *gin.RouterGroup)
}

// AdminModule mounts routes on /admin/v1, already restricted to Admin tokens.
type AdminModule interface {
	MountAdmin(admin *gin.RouterGroup)
}

// Lower priorities mount first. Modules without one get 100.
type prioritizer interface{ Priority() int }

type Registry struct {
	mu        sync.RWMutex
	apiMods   []APIModule
	adminMods []AdminModule
}

func NewRegistry(mods ...any) *Registry {
	r := &Registry{}
	for _, m := range mods {
		r.Register(m)
	}
	return r
}

// Register files mod under every module interface it implements.
func (r *Registry) Register(mod any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := mod.(APIModule); ok {
		r.apiMods = append(r.apiMods, m)
	}
	if m, ok := mod.(AdminModule); ok {
		r.adminMods = append(r.adminMods, m)
	}
}

func (r *Registry) MountAllAPI(public, authed *gin.RouterGroup) {
	r.mu.RLock()
	mods := append([]APIModule(nil), r.apiMods...)
	r.mu.RUnlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAPI(public, authed)
	}
}

func (r *Registry) MountAllAdmin(admin *gin.RouterGroup) {
	r.mu.RLock()
	mods := append([]AdminModule(nil), r.adminMods...)
	r.mu.RUnlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAdmin(admin)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
