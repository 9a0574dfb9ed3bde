package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/airtimehq/airtime/internal/common"
	"github.com/airtimehq/airtime/internal/server/auth"
	"github.com/airtimehq/airtime/internal/server/models"
)

func decodeBody(w http.ResponseWriter, req *http.Request, v any) bool {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func pathUint32(req *http.Request, name string) (uint32, bool) {
	v, err := strconv.ParseUint(req.PathValue(name), 10, 32)
	return uint32(v), err == nil
}

func pathUint64(req *http.Request, name string) (uint64, bool) {
	v, err := strconv.ParseUint(req.PathValue(name), 10, 64)
	return v, err == nil
}

// queryNow reads the optional now query parameter, defaulting to the wall
// clock. Reports false after writing a 400 when the value does not parse.
func (r *Router) queryNow(w http.ResponseWriter, req *http.Request) (uint64, bool) {
	raw := req.URL.Query().Get("now")
	if raw == "" {
		return r.now(), true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid now parameter"})
		return 0, false
	}
	return v, true
}

// subject returns the authenticated principal or fails the request with 401.
func subject(w http.ResponseWriter, req *http.Request) (string, bool) {
	s, ok := auth.SubjectFromContext(req.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: common.ErrUnauthorized.Error()})
		return "", false
	}
	return s, true
}

// handleIssueToken mints a bearer token for a subject. Only the admin may
// mint tokens; the admin's own first token is provisioned out of band with
// the shared secret.
func (r *Router) handleIssueToken(w http.ResponseWriter, req *http.Request) {
	caller, ok := subject(w, req)
	if !ok {
		return
	}

	var body struct {
		Subject string `json:"subject"`
	}
	if !decodeBody(w, req, &body) {
		return
	}
	if body.Subject == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "subject is required"})
		return
	}

	admin, err := r.svc.Admin(req.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if caller != admin {
		writeError(w, common.ErrUnauthorized)
		return
	}

	token, err := auth.GenerateToken(body.Subject, []byte(r.secretKey), r.tokenValidity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (r *Router) handleSetPackage(w http.ResponseWriter, req *http.Request) {
	id, ok := pathUint32(req, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid package id"})
		return
	}

	var pkg models.Package
	if !decodeBody(w, req, &pkg) {
		return
	}

	if err := r.svc.SetPackage(req.Context(), id, pkg); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.CatalogEntry{ID: id, Pkg: pkg})
}

func (r *Router) handleGetPackage(w http.ResponseWriter, req *http.Request) {
	id, ok := pathUint32(req, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid package id"})
		return
	}

	pkg, err := r.svc.GetPackage(req.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}

func (r *Router) handleListPackages(w http.ResponseWriter, req *http.Request) {
	entries, err := r.svc.GetAllPackages(req.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (r *Router) handleBuyOrder(w http.ResponseWriter, req *http.Request) {
	owner, ok := subject(w, req)
	if !ok {
		return
	}

	var body struct {
		PackageID uint32 `json:"package_id"`
	}
	if !decodeBody(w, req, &body) {
		return
	}

	orderID, err := r.svc.BuyOrder(req.Context(), owner, body.PackageID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]uint64{"order_id": orderID})
}

func (r *Router) handleGrant(w http.ResponseWriter, req *http.Request) {
	caller, ok := subject(w, req)
	if !ok {
		return
	}
	owner := req.PathValue("owner")
	orderID, ok := pathUint64(req, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid order id"})
		return
	}

	if err := r.svc.Grant(req.Context(), caller, owner, orderID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "granted"})
}

func (r *Router) handleListOrders(w http.ResponseWriter, req *http.Request) {
	ids, err := r.svc.GetUserOrdersList(req.Context(), req.PathValue("owner"))
	if err != nil {
		writeError(w, err)
		return
	}
	if ids == nil {
		ids = []uint64{}
	}
	writeJSON(w, http.StatusOK, ids)
}

func (r *Router) handleUserPackages(w http.ResponseWriter, req *http.Request) {
	pkgs, err := r.svc.GetUserPackages(req.Context(), req.PathValue("owner"))
	if err != nil {
		writeError(w, err)
		return
	}
	if pkgs == nil {
		pkgs = []models.UserPackage{}
	}
	writeJSON(w, http.StatusOK, pkgs)
}

func (r *Router) handleStart(w http.ResponseWriter, req *http.Request) {
	owner, ok := subject(w, req)
	if !ok {
		return
	}
	if err := r.svc.Start(req.Context(), owner); err != nil {
		writeError(w, err)
		return
	}
	r.writeSession(w, req, owner)
}

func (r *Router) handlePause(w http.ResponseWriter, req *http.Request) {
	owner, ok := subject(w, req)
	if !ok {
		return
	}
	if err := r.svc.Pause(req.Context(), owner); err != nil {
		writeError(w, err)
		return
	}
	r.writeSession(w, req, owner)
}

func (r *Router) writeSession(w http.ResponseWriter, req *http.Request, owner string) {
	sess, err := r.svc.GetSession(req.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (r *Router) handleStartOrder(w http.ResponseWriter, req *http.Request) {
	owner, ok := subject(w, req)
	if !ok {
		return
	}
	orderID, ok := pathUint64(req, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid order id"})
		return
	}
	if err := r.svc.StartOrder(req.Context(), owner, orderID); err != nil {
		writeError(w, err)
		return
	}
	r.writeOrderSession(w, req, owner, orderID)
}

func (r *Router) handlePauseOrder(w http.ResponseWriter, req *http.Request) {
	owner, ok := subject(w, req)
	if !ok {
		return
	}
	orderID, ok := pathUint64(req, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid order id"})
		return
	}
	if err := r.svc.PauseOrder(req.Context(), owner, orderID); err != nil {
		writeError(w, err)
		return
	}
	r.writeOrderSession(w, req, owner, orderID)
}

func (r *Router) writeOrderSession(w http.ResponseWriter, req *http.Request, owner string, orderID uint64) {
	osess, err := r.svc.GetOrderSession(req.Context(), owner, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, osess)
}

func (r *Router) handleGetSession(w http.ResponseWriter, req *http.Request) {
	r.writeSession(w, req, req.PathValue("owner"))
}

func (r *Router) handleGetOrderSession(w http.ResponseWriter, req *http.Request) {
	orderID, ok := pathUint64(req, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid order id"})
		return
	}
	r.writeOrderSession(w, req, req.PathValue("owner"), orderID)
}

func (r *Router) handleRemaining(w http.ResponseWriter, req *http.Request) {
	now, ok := r.queryNow(w, req)
	if !ok {
		return
	}
	rem, err := r.svc.Remaining(req.Context(), req.PathValue("owner"), now)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"remaining_secs": rem})
}

func (r *Router) handleRemainingByOrder(w http.ResponseWriter, req *http.Request) {
	orderID, ok := pathUint64(req, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid order id"})
		return
	}
	now, ok := r.queryNow(w, req)
	if !ok {
		return
	}
	rem, err := r.svc.RemainingByOrder(req.Context(), req.PathValue("owner"), orderID, now)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"remaining_secs": rem})
}

func (r *Router) handleIsActive(w http.ResponseWriter, req *http.Request) {
	now, ok := r.queryNow(w, req)
	if !ok {
		return
	}
	active, err := r.svc.IsActive(req.Context(), req.PathValue("owner"), now)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"active": active})
}

func (r *Router) handleIsOrderActive(w http.ResponseWriter, req *http.Request) {
	orderID, ok := pathUint64(req, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid order id"})
		return
	}
	now, ok := r.queryNow(w, req)
	if !ok {
		return
	}
	active, err := r.svc.IsOrderActive(req.Context(), req.PathValue("owner"), orderID, now)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"active": active})
}

func (r *Router) handleActiveOrders(w http.ResponseWriter, req *http.Request) {
	now, ok := r.queryNow(w, req)
	if !ok {
		return
	}
	ids, err := r.svc.GetActiveOrders(req.Context(), req.PathValue("owner"), now)
	if err != nil {
		writeError(w, err)
		return
	}
	if ids == nil {
		ids = []uint64{}
	}
	writeJSON(w, http.StatusOK, ids)
}

func (r *Router) handleGetAccess(w http.ResponseWriter, req *http.Request) {
	acc, err := r.svc.GetAccess(req.Context(), req.PathValue("owner"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acc)
}
