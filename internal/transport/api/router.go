package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface is implemented by the HTTP transport.
type ServerInterface interface {
	// GET /search/universal
	SearchUniversal(w http.ResponseWriter, r *http.Request, params SearchUniversalParams)
	// GET /search/suggestions
	SearchSuggestions(w http.ResponseWriter, r *http.Request, params SearchSuggestionsParams)
	// GET /search/related
	SearchRelated(w http.ResponseWriter, r *http.Request, params SearchRelatedParams)
	// GET /resolve/{referenceId}
	Resolve(w http.ResponseWriter, r *http.Request, referenceId string)
	// POST /entities/{kind}
	CreateEntity(w http.ResponseWriter, r *http.Request, kind string)
	// GET /entities/{referenceId}
	GetEntity(w http.ResponseWriter, r *http.Request, referenceId string)
	// DELETE /entities/{referenceId}
	DeleteEntity(w http.ResponseWriter, r *http.Request, referenceId string)
	// GET /sessions/{session}/recent
	ListRecent(w http.ResponseWriter, r *http.Request, session string)
	// DELETE /sessions/{session}/recent
	ClearRecent(w http.ResponseWriter, r *http.Request, session string)
	// GET /health
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// GET /metrics
	Metrics(w http.ResponseWriter, r *http.Request)
}

// MiddlewareFunc wraps a single bound handler.
type MiddlewareFunc func(http.Handler) http.Handler

// InvalidParamFormatError reports a parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// ServerInterfaceWrapper binds parameters and forwards to the handler.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *ServerInterfaceWrapper) serve(w http.ResponseWriter, r *http.Request, h http.HandlerFunc) {
	var handler http.Handler = h
	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}
	handler.ServeHTTP(w, r)
}

func (siw *ServerInterfaceWrapper) query(w http.ResponseWriter, r *http.Request, name string, required bool, dest any) bool {
	if err := runtime.BindQueryParameter("form", true, required, name, r.URL.Query(), dest); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return false
	}
	return true
}

func (siw *ServerInterfaceWrapper) path(w http.ResponseWriter, r *http.Request, name string, dest *string) bool {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return false
	}
	return true
}

// SearchUniversal operation middleware.
func (siw *ServerInterfaceWrapper) SearchUniversal(w http.ResponseWriter, r *http.Request) {
	var params SearchUniversalParams
	if !siw.query(w, r, "q", true, &params.Q) ||
		!siw.query(w, r, "lat", false, &params.Lat) ||
		!siw.query(w, r, "lng", false, &params.Lng) ||
		!siw.query(w, r, "limit", false, &params.Limit) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.SearchUniversal(w, r, params)
	})
}

// SearchSuggestions operation middleware.
func (siw *ServerInterfaceWrapper) SearchSuggestions(w http.ResponseWriter, r *http.Request) {
	var params SearchSuggestionsParams
	if !siw.query(w, r, "q", false, &params.Q) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.SearchSuggestions(w, r, params)
	})
}

// SearchRelated operation middleware.
func (siw *ServerInterfaceWrapper) SearchRelated(w http.ResponseWriter, r *http.Request) {
	var params SearchRelatedParams
	if !siw.query(w, r, "referenceId", true, &params.ReferenceId) ||
		!siw.query(w, r, "limit", false, &params.Limit) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.SearchRelated(w, r, params)
	})
}

// Resolve operation middleware.
func (siw *ServerInterfaceWrapper) Resolve(w http.ResponseWriter, r *http.Request) {
	var referenceId string
	if !siw.path(w, r, "referenceId", &referenceId) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.Resolve(w, r, referenceId)
	})
}

// CreateEntity operation middleware.
func (siw *ServerInterfaceWrapper) CreateEntity(w http.ResponseWriter, r *http.Request) {
	var kind string
	if !siw.path(w, r, "kind", &kind) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.CreateEntity(w, r, kind)
	})
}

// GetEntity operation middleware.
func (siw *ServerInterfaceWrapper) GetEntity(w http.ResponseWriter, r *http.Request) {
	var referenceId string
	if !siw.path(w, r, "referenceId", &referenceId) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetEntity(w, r, referenceId)
	})
}

// DeleteEntity operation middleware.
func (siw *ServerInterfaceWrapper) DeleteEntity(w http.ResponseWriter, r *http.Request) {
	var referenceId string
	if !siw.path(w, r, "referenceId", &referenceId) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.DeleteEntity(w, r, referenceId)
	})
}

// ListRecent operation middleware.
func (siw *ServerInterfaceWrapper) ListRecent(w http.ResponseWriter, r *http.Request) {
	var session string
	if !siw.path(w, r, "session", &session) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ListRecent(w, r, session)
	})
}

// ClearRecent operation middleware.
func (siw *ServerInterfaceWrapper) ClearRecent(w http.ResponseWriter, r *http.Request) {
	var session string
	if !siw.path(w, r, "session", &session) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ClearRecent(w, r, session)
	})
}

// HealthCheck operation middleware.
func (siw *ServerInterfaceWrapper) HealthCheck(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.HealthCheck)
}

// Metrics operation middleware.
func (siw *ServerInterfaceWrapper) Metrics(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.Metrics)
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Handler creates an http.Handler with routing matching the contract.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

// HandlerWithOptions registers every route on the base router (a new one when nil).
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	base := options.BaseURL
	r.Get(base+"/search/universal", wrapper.SearchUniversal)
	r.Get(base+"/search/suggestions", wrapper.SearchSuggestions)
	r.Get(base+"/search/related", wrapper.SearchRelated)
	r.Get(base+"/resolve/{referenceId}", wrapper.Resolve)
	r.Post(base+"/entities/{kind}", wrapper.CreateEntity)
	r.Get(base+"/entities/{referenceId}", wrapper.GetEntity)
	r.Delete(base+"/entities/{referenceId}", wrapper.DeleteEntity)
	r.Get(base+"/sessions/{session}/recent", wrapper.ListRecent)
	r.Delete(base+"/sessions/{session}/recent", wrapper.ClearRecent)
	r.Get(base+"/health", wrapper.HealthCheck)
	r.Get(base+"/metrics", wrapper.Metrics)
	return r
}
