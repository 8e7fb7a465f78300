package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/atelier-hq/workplane/pkg/metrics"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewMetricsMgr)
}

// MetricsMgr exposes the prometheus scrape endpoint.
type MetricsMgr struct {
	name string
}

func NewMetricsMgr(_ *RegisterConfig) Manager {
	return &MetricsMgr{name: "metrics"}
}

func (mgr *MetricsMgr) GetName() string { return mgr.name }

func (mgr *MetricsMgr) RegisterPublic(g *gin.RouterGroup) {
	g.GET("", metrics.Handler())
}

func (mgr *MetricsMgr) RegisterProtected(_ *gin.RouterGroup) {}
func (mgr *MetricsMgr) RegisterAdmin(_ *gin.RouterGroup)     {}
