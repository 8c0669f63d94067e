package events

import "github.com/strumapp/strum/internal/logging"

type PlayerTracer struct{}

type CatalogTracer struct{}

var (
	Player  = PlayerTracer{}
	Catalog = CatalogTracer{}
)

func (PlayerTracer) Load(path string, tracks int) {
	logging.Trace("player.load", map[string]interface{}{"path": path, "tracks": tracks})
}

func (PlayerTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("player.error", map[string]interface{}{"error": err.Error()})
}

func (PlayerTracer) Previous(path string) {
	logging.Trace("player.previous", map[string]interface{}{"path": path})
}

func (PlayerTracer) Random(path string, attempts int) {
	logging.Trace("player.random", map[string]interface{}{"path": path, "attempts": attempts})
}

func (PlayerTracer) RandomExhausted(attempts int) {
	logging.Trace("player.random-exhausted", map[string]interface{}{"attempts": attempts})
}

func (CatalogTracer) Built(dir string, entries int) {
	logging.Trace("catalog.built", map[string]interface{}{"dir": dir, "entries": entries})
}

func (CatalogTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("catalog.error", map[string]interface{}{"error": err.Error()})
}
