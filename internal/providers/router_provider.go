package providers

import (
	"falci/internal/structures"
	"net/http"
	"sort"
	"strings"
)

type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	Post(url string, handler http.Handler)
	Use(middleware func(http.Handler) http.Handler)
	GetRoutes() []structures.Route
}

type RouterProvider struct {
	order      []string
	methods    map[string]map[string]http.Handler
	middleware []func(http.Handler) http.Handler
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.add(http.MethodGet, url, handler)
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.add(http.MethodPost, url, handler)
}

// Use wraps every route registered on the router. Middleware applies in
// registration order, the first one being the outermost.
func (rp *RouterProvider) Use(middleware func(http.Handler) http.Handler) {
	rp.middleware = append(rp.middleware, middleware)
}

func (rp *RouterProvider) add(method string, url string, handler http.Handler) {
	byMethod, ok := rp.methods[url]
	if !ok {
		byMethod = make(map[string]http.Handler)
		rp.methods[url] = byMethod
		rp.order = append(rp.order, url)
	}
	byMethod[method] = handler
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	routes := make([]structures.Route, 0, len(rp.order))
	for _, url := range rp.order {
		var handler http.Handler = methodHandler(rp.methods[url])
		for i := len(rp.middleware) - 1; i >= 0; i-- {
			handler = rp.middleware[i](handler)
		}
		routes = append(routes, structures.Route{Url: url, Handler: handler})
	}
	return routes
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{methods: make(map[string]map[string]http.Handler)}
}

func methodHandler(handlers map[string]http.Handler) http.Handler {
	allowed := make([]string, 0, len(handlers))
	for m := range handlers {
		allowed = append(allowed, m)
	}
	sort.Strings(allowed)
	allow := strings.Join(allowed, ", ")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler, ok := handlers[r.Method]
		if !ok {
			w.Header().Set("Allow", allow)
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
