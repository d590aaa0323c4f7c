package httpkit

import "net/http"

// fakeRouter records registrations; Route and Group run inline on itself
type fakeRouter struct {
	prefixes []string
	mwCount  []int
	routes   []string
	handlers []Handler
}

func (f *fakeRouter) Mux() http.Handler { return http.NotFoundHandler() }

func (f *fakeRouter) Route(prefix string, fn func(Router)) {
	f.prefixes = append(f.prefixes, prefix)
	fn(f)
}

func (f *fakeRouter) Group(fn func(Router)) { fn(f) }

func (f *fakeRouter) Use(mw ...func(http.Handler) http.Handler) {
	f.mwCount = append(f.mwCount, len(mw))
}

func (f *fakeRouter) Handle(path string, h http.Handler) {
	f.routes = append(f.routes, "HANDLE "+path)
	f.handlers = append(f.handlers, h.ServeHTTP)
}

func (f *fakeRouter) Get(path string, h Handler) {
	f.routes = append(f.routes, "GET "+path)
	f.handlers = append(f.handlers, h)
}

func (f *fakeRouter) Post(path string, h Handler) {
	f.routes = append(f.routes, "POST "+path)
	f.handlers = append(f.handlers, h)
}
