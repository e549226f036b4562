package admin

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-kit/kit/ratelimit"
	"github.com/go-kit/kit/transport"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/go-kit/log"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/go-kit/toggle"
)

// ErrBadRouting is returned when an expected path variable is missing.
// It always indicates programmer error.
var ErrBadRouting = errors.New("inconsistent mapping between route and handler (programmer error)")

// MakeHTTPHandler mounts all of the service endpoints into an http.Handler.
func MakeHTTPHandler(e Endpoints, logger log.Logger) http.Handler {
	r := mux.NewRouter()
	options := []httptransport.ServerOption{
		httptransport.ServerErrorHandler(transport.NewLogErrorHandler(logger)),
		httptransport.ServerErrorEncoder(encodeError),
	}

	// GET    /groups/                              lists every group
	// GET    /groups/:group                        retrieves one group
	// PUT    /groups/:group/flags/:flag            enables a flag
	// DELETE /groups/:group/flags/:flag            disables a flag
	// POST   /groups/:group/flags/:flag/toggle     flips a flag

	r.Methods("GET").Path("/groups/").Handler(httptransport.NewServer(
		e.GroupsEndpoint,
		decodeGroupsRequest,
		encodeResponse,
		options...,
	))
	r.Methods("GET").Path("/groups/{group}").Handler(httptransport.NewServer(
		e.GroupEndpoint,
		decodeGroupRequest,
		encodeResponse,
		options...,
	))
	r.Methods("PUT").Path("/groups/{group}/flags/{flag}").Handler(httptransport.NewServer(
		e.SetFlagEndpoint,
		decodeSetFlagRequest(true),
		encodeResponse,
		options...,
	))
	r.Methods("DELETE").Path("/groups/{group}/flags/{flag}").Handler(httptransport.NewServer(
		e.SetFlagEndpoint,
		decodeSetFlagRequest(false),
		encodeResponse,
		options...,
	))
	r.Methods("POST").Path("/groups/{group}/flags/{flag}/toggle").Handler(httptransport.NewServer(
		e.ToggleFlagEndpoint,
		decodeFlagRequest,
		encodeResponse,
		options...,
	))
	return r
}

func decodeGroupsRequest(_ context.Context, r *http.Request) (request interface{}, err error) {
	return groupsRequest{}, nil
}

func decodeGroupRequest(_ context.Context, r *http.Request) (request interface{}, err error) {
	vars := mux.Vars(r)
	group, ok := vars["group"]
	if !ok {
		return nil, ErrBadRouting
	}
	return groupRequest{Group: group}, nil
}

func decodeFlagRequest(_ context.Context, r *http.Request) (request interface{}, err error) {
	vars := mux.Vars(r)
	group, ok := vars["group"]
	if !ok {
		return nil, ErrBadRouting
	}
	flag, ok := vars["flag"]
	if !ok {
		return nil, ErrBadRouting
	}
	return flagRequest{Group: group, Flag: flag}, nil
}

func decodeSetFlagRequest(enabled bool) httptransport.DecodeRequestFunc {
	return func(ctx context.Context, r *http.Request) (interface{}, error) {
		req, err := decodeFlagRequest(ctx, r)
		if err != nil {
			return nil, err
		}
		fr := req.(flagRequest)
		return setFlagRequest{Group: fr.Group, Flag: fr.Flag, Enabled: enabled}, nil
	}
}

// errorer is implemented by all concrete response types that may contain
// errors. It allows us to change the HTTP response code without needing to
// trigger an endpoint (transport-level) error.
type errorer interface {
	error() error
}

// encodeResponse is the common method to encode all response types to the
// client.
func encodeResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	if e, ok := response.(errorer); ok && e.error() != nil {
		encodeError(ctx, e.error(), w)
		return nil
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(w).Encode(response)
}

func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	if err == nil {
		panic("encodeError with nil error")
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(codeFrom(err))
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
	})
}

func codeFrom(err error) int {
	switch {
	case errors.Is(err, toggle.ErrUnknownGroup), errors.Is(err, toggle.ErrUnknownFlag):
		return http.StatusNotFound
	case errors.Is(err, ratelimit.ErrLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrBadRouting):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
