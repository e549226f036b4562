package admin

import (
	"context"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/ratelimit"

	"github.com/go-kit/toggle"
)

// Endpoints collects all of the endpoints that compose the admin service.
type Endpoints struct {
	GroupsEndpoint     endpoint.Endpoint
	GroupEndpoint      endpoint.Endpoint
	SetFlagEndpoint    endpoint.Endpoint
	ToggleFlagEndpoint endpoint.Endpoint
}

// MakeServerEndpoints returns an Endpoints struct where each endpoint invokes
// the corresponding method on the provided service.
func MakeServerEndpoints(s Service) Endpoints {
	return Endpoints{
		GroupsEndpoint:     MakeGroupsEndpoint(s),
		GroupEndpoint:      MakeGroupEndpoint(s),
		SetFlagEndpoint:    MakeSetFlagEndpoint(s),
		ToggleFlagEndpoint: MakeToggleFlagEndpoint(s),
	}
}

// LimitWrites wraps the endpoints that change flags with an erroring rate
// limiter. Rejected requests fail with ratelimit.ErrLimited. A
// *rate.Limiter from golang.org/x/time/rate is a ratelimit.Allower.
func LimitWrites(e Endpoints, limit ratelimit.Allower) Endpoints {
	mw := ratelimit.NewErroringLimiter(limit)
	e.SetFlagEndpoint = mw(e.SetFlagEndpoint)
	e.ToggleFlagEndpoint = mw(e.ToggleFlagEndpoint)
	return e
}

// MakeGroupsEndpoint returns an endpoint via the passed service.
func MakeGroupsEndpoint(s Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		groups, e := s.Groups(ctx)
		return groupsResponse{Groups: groups, Err: e}, nil
	}
}

// MakeGroupEndpoint returns an endpoint via the passed service.
func MakeGroupEndpoint(s Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(groupRequest)
		g, e := s.Group(ctx, req.Group)
		return groupResponse{Group: g, Err: e}, nil
	}
}

// MakeSetFlagEndpoint returns an endpoint via the passed service.
func MakeSetFlagEndpoint(s Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(setFlagRequest)
		st, e := s.SetFlag(ctx, req.Group, req.Flag, req.Enabled)
		return flagResponse{Flag: st, Err: e}, nil
	}
}

// MakeToggleFlagEndpoint returns an endpoint via the passed service.
func MakeToggleFlagEndpoint(s Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(flagRequest)
		st, e := s.ToggleFlag(ctx, req.Group, req.Flag)
		return flagResponse{Flag: st, Err: e}, nil
	}
}

// Service (business logic) errors travel in the response objects rather
// than as endpoint errors, so transport-level concerns such as the rate
// limiter only see transport failures. The errorer interface in
// transport.go turns them back into HTTP status codes.

type groupsRequest struct{}

type groupsResponse struct {
	Groups []GroupState `json:"groups,omitempty"`
	Err    error        `json:"err,omitempty"`
}

func (r groupsResponse) error() error { return r.Err }

type groupRequest struct {
	Group string
}

type groupResponse struct {
	Group GroupState `json:"group"`
	Err   error      `json:"err,omitempty"`
}

func (r groupResponse) error() error { return r.Err }

type flagRequest struct {
	Group string
	Flag  string
}

type setFlagRequest struct {
	Group   string
	Flag    string
	Enabled bool
}

type flagResponse struct {
	Flag toggle.FlagState `json:"flag"`
	Err  error            `json:"err,omitempty"`
}

func (r flagResponse) error() error { return r.Err }
