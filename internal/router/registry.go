package router

import "github.com/gin-gonic/gin"

// APIPrefix is the group every module registers under.
const APIPrefix = "/api"

type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	api := engine.Group(APIPrefix)
	return &Registry{Engine: engine, API: api}
}

// Use adds middleware that runs on every API route, in order, before any module handler.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	if mod == nil {
		return
	}
	r.modules = append(r.modules, mod)
}

// Len reports how many modules are queued.
func (r *Registry) Len() int { return len(r.modules) }

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
