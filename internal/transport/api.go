// Package transport exposes the chain gateway over HTTP and gRPC.
package transport

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/controller"
	"github.com/Tribo-Hackathon/Tribo/internal/governance"
	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

const (
	defaultRetry   = 5 * time.Second
	maxBodyBytes   = 64 << 10
	historyLimit   = 500
	requestIDKey   = "X-Request-Id"
	allCommunities = "all"
)

type requestIDContextKey struct{}

// ProposalView adds the display split to a proposal.
type ProposalView struct {
	model.Proposal
	Percentages governance.Percentages `json:"percentages"`
}

// ProposalList is the body of the proposal list route.
type ProposalList struct {
	Proposals []ProposalView `json:"proposals"`
	FromBlock uint64         `json:"fromBlock"`
	ToBlock   uint64         `json:"toBlock"`
	Partial   bool           `json:"partial"`
}

// API serves the JSON routes. Write routes are registered only when the
// gateway has a wallet.
type API struct {
	registry    Registry
	communities Communities
	governance  Governance
	history     History
	metrics     Metrics
	logger      *zap.Logger
	writable    bool

	communityList *controller.Group[[]model.Community]
	community     *controller.Group[model.Community]
	profiles      *controller.Group[model.CommunityProfile]
	proposals     *controller.Group[governance.Discovery]
	actions       *controller.Actions
}

type Option func(*API)

// WithHistory enables the proposal history route.
func WithHistory(h History) Option {
	return func(a *API) { a.history = h }
}

// WithWrites enables the transaction routes.
func WithWrites() Option {
	return func(a *API) { a.writable = true }
}

func NewAPI(registry Registry, communities Communities, gov Governance, metrics Metrics, logger *zap.Logger, loaderOpts []controller.Option, opts ...Option) (*API, error) {
	if registry == nil || communities == nil || gov == nil {
		return nil, errors.New("registry, community and governance readers are required")
	}
	if metrics == nil {
		return nil, errors.New("api metrics is required")
	}

	a := &API{
		registry:    registry,
		communities: communities,
		governance:  gov,
		metrics:     metrics,
		logger:      logger.Named("api"),
		actions:     controller.NewActions(logger),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.communityList = controller.NewGroup("communities", func(ctx context.Context, _ string) ([]model.Community, error) {
		return a.registry.ListCommunities(ctx), nil
	}, logger, loaderOpts...)
	a.community = controller.NewGroup("community", func(ctx context.Context, key string) (model.Community, error) {
		id, _ := new(big.Int).SetString(key, 10)
		return a.registry.GetCommunity(ctx, id)
	}, logger, loaderOpts...)
	a.profiles = controller.NewGroup("profile", func(ctx context.Context, key string) (model.CommunityProfile, error) {
		id, _ := new(big.Int).SetString(key, 10)
		return a.communities.GetCommunityProfile(ctx, id)
	}, logger, loaderOpts...)
	a.proposals = controller.NewGroup("proposals", func(ctx context.Context, key string) (governance.Discovery, error) {
		d := a.governance.DiscoverProposals(ctx, common.HexToAddress(key))
		if d.Degraded {
			return d, governance.ErrDiscoveryIncomplete
		}
		return d, nil
	}, logger, loaderOpts...)
	return a, nil
}

type route struct {
	method  string
	pattern string
	handle  gwruntime.HandlerFunc
}

func (a *API) routes() []route {
	rs := []route{
		{http.MethodGet, "/v1/communities", a.listCommunities},
		{http.MethodGet, "/v1/communities/{id}", a.getCommunity},
		{http.MethodGet, "/v1/communities/{id}/profile", a.getProfile},
		{http.MethodGet, "/v1/communities/{id}/status/{user}", a.getUserStatus},
		{http.MethodGet, "/v1/communities/{id}/eligibility/{user}", a.getEligibility},
		{http.MethodGet, "/v1/creators/{address}/community", a.getCreatorCommunity},
		{http.MethodGet, "/v1/governors/{governor}/proposals", a.listProposals},
		{http.MethodGet, "/v1/governors/{governor}/proposals/{id}", a.getProposal},
		{http.MethodGet, "/v1/governors/{governor}/proposals/{id}/votes", a.listVotes},
	}
	if a.history != nil {
		rs = append(rs, route{http.MethodGet, "/v1/governors/{governor}/proposals/{id}/history", a.getHistory})
	}
	if a.writable {
		rs = append(rs,
			route{http.MethodPost, "/v1/governors/{governor}/proposals", a.createProposal},
			route{http.MethodPost, "/v1/governors/{governor}/proposals/{id}/votes", a.castVote},
			route{http.MethodPost, "/v1/nfts/{nft}/delegate", a.delegate},
			route{http.MethodPost, "/v1/nfts/{nft}/mint", a.mint},
		)
	}
	return rs
}

// Register mounts every route on mux.
func (a *API) Register(mux *gwruntime.ServeMux) error {
	for _, rt := range a.routes() {
		if err := mux.HandlePath(rt.method, rt.pattern, a.observe(rt.pattern, rt.handle)); err != nil {
			return err
		}
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.code = code
	s.ResponseWriter.WriteHeader(code)
}

func (a *API) observe(pattern string, next gwruntime.HandlerFunc) gwruntime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		started := time.Now()
		id := r.Header.Get(requestIDKey)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDKey, id)
		r = r.WithContext(context.WithValue(r.Context(), requestIDContextKey{}, id))

		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next(rec, r, params)

		a.metrics.ObserveRequest(pattern, rec.code, started)
		a.logger.Debug("request served",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("route", pattern),
			zap.Int("code", rec.code),
			zap.Duration("took", time.Since(started)),
		)
	}
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDContextKey{}).(string)
	return id
}

func refresh(r *http.Request) bool {
	v := r.URL.Query().Get("refresh")
	return v == "1" || v == "true"
}

func identity[T any](v T) any { return v }

func (a *API) listCommunities(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	writeView(w, r, a.communityList.Load(r.Context(), allCommunities, refresh(r)), identity[[]model.Community])
}

func (a *API) getCommunity(w http.ResponseWriter, r *http.Request, params map[string]string) {
	id, err := parseID(params["id"])
	if err != nil {
		writeBadRequest(w, r, err)
		return
	}
	writeView(w, r, a.community.Load(r.Context(), id.String(), refresh(r)), identity[model.Community])
}

func (a *API) getProfile(w http.ResponseWriter, r *http.Request, params map[string]string) {
	id, err := parseID(params["id"])
	if err != nil {
		writeBadRequest(w, r, err)
		return
	}
	writeView(w, r, a.profiles.Load(r.Context(), id.String(), refresh(r)), identity[model.CommunityProfile])
}

// loadCommunity resolves the community of a route, answering the request
// itself when it cannot.
func (a *API) loadCommunity(w http.ResponseWriter, r *http.Request, rawID string) (model.Community, bool) {
	id, err := parseID(rawID)
	if err != nil {
		writeBadRequest(w, r, err)
		return model.Community{}, false
	}
	v := a.community.Load(r.Context(), id.String(), false)
	if !v.HasData() {
		writeView(w, r, v, identity[model.Community])
		return model.Community{}, false
	}
	return v.Data, true
}

func (a *API) getUserStatus(w http.ResponseWriter, r *http.Request, params map[string]string) {
	user, err := parseAddress(params["user"])
	if err != nil {
		writeBadRequest(w, r, err)
		return
	}
	community, ok := a.loadCommunity(w, r, params["id"])
	if !ok {
		return
	}
	status := a.communities.GetUserStatus(r.Context(), user, community)
	writeJSON(w, http.StatusOK, envelope{Data: status, Status: controller.StatusReady, Request: requestID(r)})
}

func (a *API) getEligibility(w http.ResponseWriter, r *http.Request, params map[string]string) {
	user, err := parseAddress(params["user"])
	if err != nil {
		writeBadRequest(w, r, err)
		return
	}
	community, ok := a.loadCommunity(w, r, params["id"])
	if !ok {
		return
	}
	report := a.governance.CheckEligibility(r.Context(), community, user)
	writeJSON(w, http.StatusOK, envelope{Data: report, Status: controller.StatusReady, Request: requestID(r)})
}

func (a *API) getCreatorCommunity(w http.ResponseWriter, r *http.Request, params map[string]string) {
	creator, err := parseAddress(params["address"])
	if err != nil {
		writeBadRequest(w, r, err)
		return
	}
	community, err := a.registry.FindByCreator(r.Context(), creator)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: community, Status: controller.StatusReady, Request: requestID(r)})
}

func toList(d governance.Discovery, filter governance.Filter) ProposalList {
	proposals := governance.FilterProposals(d.Proposals, filter)
	out := ProposalList{
		Proposals: make([]ProposalView, 0, len(proposals)),
		FromBlock: d.FromBlock,
		ToBlock:   d.ToBlock,
		Partial:   d.Partial,
	}
	for _, p := range proposals {
		out.Proposals = append(out.Proposals, ProposalView{Proposal: p, Percentages: governance.VotePercentages(p.Votes)})
	}
	return out
}

func (a *API) listProposals(w http.ResponseWriter, r *http.Request, params map[string]string) {
	governor, err := parseAddress(params["governor"])
	if err != nil {
		writeBadRequest(w, r, err)
		return
	}
	filter, err := governance.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		writeBadRequest(w, r, err)
		return
	}
	v := a.proposals.Load(r.Context(), governor.Hex(), refresh(r))
	writeView(w, r, v, func(d governance.Discovery) any { return toList(d, filter) })
}

func (a *API) getProposal(w http.ResponseWriter, r *http.Request, params map[string]string) {
	governor, err := parseAddress(params["governor"])
	if err != nil {
		writeBadRequest(w, r, err)
		return
	}
	id, err := parseID(params["id"])
	if err != nil {
		writeBadRequest(w, r, err)
		return
	}

	v := a.proposals.Load(r.Context(), governor.Hex(), refresh(r))
	if !v.HasData() {
		writeView(w, r, v, identity[governance.Discovery])
		return
	}
	p, err := v.Data.Find(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Data:    ProposalView{Proposal: p, Percentages: governance.VotePercentages(p.Votes)},
		Status:  v.Status,
		Request: requestID(r),
	})
}

func (a *API) listVotes(w http.ResponseWriter, r *http.Request, params map[string]string) {
	governor, err := parseAddress(params["governor"])
	if err != nil {
		writeBadRequest(w, r, err)
		return
	}
	id, err := parseID(params["id"])
	if err != nil {
		writeBadRequest(w, r, err)
		return
	}
	votes, err := a.governance.ListVotes(r.Context(), governor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: votes, Status: controller.StatusReady, Request: requestID(r)})
}

func (a *API) getHistory(w http.ResponseWriter, r *http.Request, params map[string]string) {
	governor, err := parseAddress(params["governor"])
	if err != nil {
		writeBadRequest(w, r, err)
		return
	}
	id, err := parseID(params["id"])
	if err != nil {
		writeBadRequest(w, r, err)
		return
	}
	snapshots, err := a.history.ProposalHistory(r.Context(), governor, id, historyLimit)
	if err != nil {
		a.logger.Warn("proposal history unavailable", zap.Error(err))
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: snapshots, Status: controller.StatusReady, Request: requestID(r)})
}

type voteRequest struct {
	Support string `json:"support"`
	Reason  string `json:"reason"`
}

type delegateRequest struct {
	Delegatee string `json:"delegatee"`
}

func (a *API) createProposal(w http.ResponseWriter, r *http.Request, params map[string]string) {
	governor, err := parseAddress(params["governor"])
	if err != nil {
		writeBadRequest(w, r, err)
		return
	}
	var req governance.ProposalParams
	if err := decodeBody(w, r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}
	res := a.actions.Submit(r.Context(), "propose:"+governor.Hex(), func(ctx context.Context) (common.Hash, error) {
		return a.governance.CreateProposal(ctx, governor, req)
	})
	if res.Err == nil {
		a.proposals.Invalidate(governor.Hex())
	}
	writeAction(w, r, res)
}

func (a *API) castVote(w http.ResponseWriter, r *http.Request, params map[string]string) {
	governor, err := parseAddress(params["governor"])
	if err != nil {
		writeBadRequest(w, r, err)
		return
	}
	id, err := parseID(params["id"])
	if err != nil {
		writeBadRequest(w, r, err)
		return
	}
	var req voteRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}
	support, err := model.ParseVoteSupport(req.Support)
	if err != nil {
		writeError(w, r, governance.ErrInvalidSupport)
		return
	}

	key := "vote:" + governor.Hex() + ":" + id.String()
	res := a.actions.Submit(r.Context(), key, func(ctx context.Context) (common.Hash, error) {
		return a.governance.CastVote(ctx, governor, id, support, req.Reason)
	})
	if res.Err == nil {
		a.proposals.Invalidate(governor.Hex())
	}
	writeAction(w, r, res)
}

func (a *API) delegate(w http.ResponseWriter, r *http.Request, params map[string]string) {
	nft, err := parseAddress(params["nft"])
	if err != nil {
		writeBadRequest(w, r, err)
		return
	}
	var req delegateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}
	delegatee, err := parseAddress(req.Delegatee)
	if err != nil {
		writeBadRequest(w, r, err)
		return
	}
	res := a.actions.Submit(r.Context(), "delegate:"+nft.Hex(), func(ctx context.Context) (common.Hash, error) {
		return a.governance.DelegateVotes(ctx, nft, delegatee)
	})
	writeAction(w, r, res)
}

func (a *API) mint(w http.ResponseWriter, r *http.Request, params map[string]string) {
	nft, err := parseAddress(params["nft"])
	if err != nil {
		writeBadRequest(w, r, err)
		return
	}
	res := a.actions.Submit(r.Context(), "mint:"+nft.Hex(), func(ctx context.Context) (common.Hash, error) {
		return a.communities.Mint(ctx, nft)
	})
	writeAction(w, r, res)
}
