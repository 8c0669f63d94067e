package events

import "github.com/strumapp/strum/internal/logging"

type BrowserTracer struct{}

type FilterTracer struct{}

var (
	Browser = BrowserTracer{}
	Filter  = FilterTracer{}
)

func (BrowserTracer) Open(dir string, count int) {
	logging.Trace("browser.open", map[string]interface{}{"dir": dir, "items": count})
}

func (BrowserTracer) Select(path string, leaf bool) {
	logging.Trace("browser.select", map[string]interface{}{"path": path, "leaf": leaf})
}

func (BrowserTracer) Cursor(selected, offset int) {
	logging.Trace("browser.cursor", map[string]interface{}{"selected": selected, "offset": offset})
}

func (BrowserTracer) Parent(dir string) {
	logging.Trace("browser.parent", map[string]interface{}{"dir": dir})
}

func (BrowserTracer) RandomPage(offset int) {
	logging.Trace("browser.random-page", map[string]interface{}{"offset": offset})
}

func (FilterTracer) Insert(query string) {
	logging.Trace("filter.insert", map[string]interface{}{"query": query})
}

func (FilterTracer) Delete(query string) {
	logging.Trace("filter.delete", map[string]interface{}{"query": query})
}

func (FilterTracer) Cleared() {
	logging.Trace("filter.clear", nil)
}

func (FilterTracer) Cursor(pos int) {
	logging.Trace("filter.cursor", map[string]interface{}{"cursor": pos})
}
