package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantgate/pkg/access"
	"github.com/dmitrymomot/tenantgate/pkg/identity"
	"github.com/dmitrymomot/tenantgate/pkg/plans"
	"github.com/dmitrymomot/tenantgate/pkg/rbac"
	"github.com/dmitrymomot/tenantgate/pkg/subscription"
)

type authorizeRequest struct {
	OrganizationID uuid.UUID `json:"organization_id"`
	Application    string    `json:"application"`
	Permission     string    `json:"permission"`
	Resource       string    `json:"resource,omitempty"`
	SizeMB         float64   `json:"size_mb,omitempty"`
}

type activateRequest struct {
	Tier           plans.Tier `json:"tier"`
	DurationMonths int        `json:"duration_months"`
}

type trialRequest struct {
	Tier plans.Tier `json:"tier"`
}

type projectRequest struct {
	Name string `json:"name"`
}

// authorize answers 200 for both outcomes; only failures use error statuses.
func (h *handler) authorize(w http.ResponseWriter, r *http.Request) {
	var body authorizeRequest
	if err := decode(w, r, &body); err != nil {
		writeFailure(w, r, h.log, err)
		return
	}
	req := access.Request{
		Identity:       identity.FromContext(r.Context()),
		OrganizationID: body.OrganizationID,
		Application:    plans.Application(body.Application),
		Permission:     rbac.Permission(body.Permission),
	}

	var (
		d   access.Decision
		err error
	)
	if body.Resource != "" {
		d, err = h.Facade.AuthorizeCreate(r.Context(), access.CreateRequest{
			Request:  req,
			Resource: plans.Resource(body.Resource),
			SizeMB:   body.SizeMB,
		})
	} else {
		d, err = h.Facade.Authorize(r.Context(), req)
	}
	if err != nil {
		writeFailure(w, r, h.log, err)
		return
	}
	writeData(w, d)
}

func (h *handler) myModules(w http.ResponseWriter, r *http.Request) {
	orgID, err := uuid.Parse(r.URL.Query().Get("organization_id"))
	if err != nil {
		writeFailure(w, r, h.log, errors.Join(errBadRequest, errors.New("organization_id must be a UUID")))
		return
	}
	set, err := h.Facade.AccessibleModules(r.Context(), identity.FromContext(r.Context()), orgID)
	if err != nil {
		writeFailure(w, r, h.log, err)
		return
	}
	writeData(w, set)
}

func (h *handler) listPlans(w http.ResponseWriter, r *http.Request) {
	writeData(w, map[string]any{
		"version": h.Catalog.Version(),
		"plans":   h.Catalog.All(),
	})
}

func (h *handler) checkAccess(w http.ResponseWriter, r *http.Request) {
	orgID, app, ok := h.scope(w, r, nil)
	if !ok {
		return
	}
	res, err := h.Subscriptions.CheckAccess(r.Context(), orgID, app)
	if err != nil {
		writeFailure(w, r, h.log, err)
		return
	}
	writeData(w, res)
}

func (h *handler) quotaReport(w http.ResponseWriter, r *http.Request) {
	orgID, app, ok := h.scope(w, r, nil)
	if !ok {
		return
	}
	sub, err := h.Subscriptions.Get(r.Context(), orgID, app)
	if err != nil {
		writeFailure(w, r, h.log, err)
		return
	}
	report, err := h.Quotas.Report(r.Context(), orgID, app, sub.Tier)
	if err != nil {
		writeFailure(w, r, h.log, err)
		return
	}
	writeData(w, report)
}

func (h *handler) startTrial(w http.ResponseWriter, r *http.Request) {
	orgID, app, ok := h.scope(w, r, billing())
	if !ok {
		return
	}
	var body trialRequest
	if err := decode(w, r, &body); err != nil {
		writeFailure(w, r, h.log, err)
		return
	}
	sub, err := h.Subscriptions.StartTrial(r.Context(), orgID, app, body.Tier)
	h.changed(w, r, sub, err)
}

func (h *handler) activate(w http.ResponseWriter, r *http.Request) {
	orgID, app, ok := h.scope(w, r, billing())
	if !ok {
		return
	}
	var body activateRequest
	if err := decode(w, r, &body); err != nil {
		writeFailure(w, r, h.log, err)
		return
	}
	sub, err := h.Subscriptions.Activate(r.Context(), orgID, app, body.Tier, body.DurationMonths)
	h.changed(w, r, sub, err)
}

func (h *handler) cancel(w http.ResponseWriter, r *http.Request) {
	orgID, app, ok := h.scope(w, r, billing())
	if !ok {
		return
	}
	sub, err := h.Subscriptions.Cancel(r.Context(), orgID, app)
	h.changed(w, r, sub, err)
}

func (h *handler) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.member(w, r, nil)
	if !ok {
		return
	}
	if sid := r.Header.Get(SessionHeader); sid != "" {
		key := sessionKey(identity.FromContext(r.Context()), sid)
		s, err := h.Subscriptions.SessionSubscriptions(r.Context(), key, orgID)
		if err != nil {
			writeFailure(w, r, h.log, err)
			return
		}
		writeData(w, nonNil(s.Subscriptions))
		return
	}
	subs, err := h.Subscriptions.ListForOrganization(r.Context(), orgID)
	if err != nil {
		writeFailure(w, r, h.log, err)
		return
	}
	writeData(w, nonNil(subs))
}

func nonNil(subs []subscription.AppSubscription) []subscription.AppSubscription {
	if subs == nil {
		return []subscription.AppSubscription{}
	}
	return subs
}

// sessionKey scopes a client session ID to its user, so callers can only
// read or close their own cached views.
func sessionKey(id *access.Identity, sid string) string {
	if id == nil {
		return uuid.Nil.String() + ":" + sid
	}
	return id.UserID.String() + ":" + sid
}

func (h *handler) closeSession(w http.ResponseWriter, r *http.Request) {
	id := identity.FromContext(r.Context())
	if !id.Authenticated() {
		writeError(w, http.StatusUnauthorized, string(access.ReasonUnauthenticated), "authentication required")
		return
	}
	if err := h.Subscriptions.CloseSession(r.Context(), sessionKey(id, chi.URLParam(r, "session"))); err != nil {
		writeFailure(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// createProject checks the caller and plan, then creates through the
// admission-guarded store, which re-counts under lock.
func (h *handler) createProject(w http.ResponseWriter, r *http.Request) {
	orgID, err := uuid.Parse(chi.URLParam(r, "org"))
	if err != nil {
		writeFailure(w, r, h.log, errors.Join(errBadRequest, errors.New("organization must be a UUID")))
		return
	}
	var body projectRequest
	if err := decode(w, r, &body); err != nil {
		writeFailure(w, r, h.log, err)
		return
	}

	d, err := h.Facade.AuthorizeCreate(r.Context(), access.CreateRequest{
		Request: access.Request{
			Identity:       identity.FromContext(r.Context()),
			OrganizationID: orgID,
			Application:    plans.Application(chi.URLParam(r, "app")),
			Permission:     rbac.PermCreateProjects,
		},
		Resource: plans.ResourceProjects,
	})
	if err != nil {
		writeFailure(w, r, h.log, err)
		return
	}
	if !d.Allowed {
		writeError(w, denialStatus(d.Reason), string(d.Reason), "access denied")
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		writeFailure(w, r, h.log, errors.Join(errBadRequest, errors.New("name is required")))
		return
	}

	prj, err := h.Projects.Create(r.Context(), orgID, body.Name, d.Usage.Limit)
	if err != nil {
		writeFailure(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, Envelope{Data: prj})
}

func (h *handler) changed(w http.ResponseWriter, r *http.Request, sub *subscription.AppSubscription, err error) {
	if err != nil {
		writeFailure(w, r, h.log, err)
		return
	}
	h.Metrics.RecordTransition(string(sub.Application), string(sub.Status))
	writeData(w, sub)
}

// scope parses {org} and {app} and checks the caller's membership, and when
// module is set, access to that module.
func (h *handler) scope(w http.ResponseWriter, r *http.Request, module *rbac.Module) (uuid.UUID, plans.Application, bool) {
	orgID, ok := h.member(w, r, module)
	if !ok {
		return uuid.Nil, "", false
	}
	app, err := plans.ParseApplication(chi.URLParam(r, "app"))
	if err != nil {
		writeFailure(w, r, h.log, errors.Join(errBadRequest, err))
		return uuid.Nil, "", false
	}
	return orgID, app, true
}

func (h *handler) member(w http.ResponseWriter, r *http.Request, module *rbac.Module) (uuid.UUID, bool) {
	orgID, err := uuid.Parse(chi.URLParam(r, "org"))
	if err != nil {
		writeFailure(w, r, h.log, errors.Join(errBadRequest, errors.New("organization must be a UUID")))
		return uuid.Nil, false
	}
	id := identity.FromContext(r.Context())

	var reason access.Reason
	if module != nil {
		d, err := h.Facade.ModuleAccess(r.Context(), id, orgID, *module)
		if err != nil {
			writeFailure(w, r, h.log, err)
			return uuid.Nil, false
		}
		reason = d.Reason
	} else {
		set, err := h.Facade.AccessibleModules(r.Context(), id, orgID)
		if err != nil {
			writeFailure(w, r, h.log, err)
			return uuid.Nil, false
		}
		reason = set.Reason
	}
	if reason != access.ReasonNone {
		writeError(w, denialStatus(reason), string(reason), "access denied")
		return uuid.Nil, false
	}
	return orgID, true
}

func billing() *rbac.Module {
	m := rbac.ModuleBilling
	return &m
}

// decode reads a JSON body. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Join(errBadRequest, fmt.Errorf("decode body: %w", err))
	}
	return nil
}
