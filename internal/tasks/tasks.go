package tasks

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/babytube/internal/services"
	"github.com/desertthunder/babytube/internal/shared"
)

const (
	defaultWorkers   = 4
	maxWorkers       = 10
	defaultRateLimit = 5.0
)

// Engine runs catalog tasks against a [services.Catalog] and an optional [services.TitleService].
type Engine struct {
	catalog services.Catalog
	titles  services.TitleService
	logger  *log.Logger
}

// NewEngine creates an [Engine]. titles may be nil when title lookup is disabled.
func NewEngine(catalog services.Catalog, titles services.TitleService, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{
		catalog: catalog,
		titles:  titles,
		logger:  shared.WithLogger(logger, "component", "tasks"),
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
