package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"gatherly/internal/delivery/http/helpers"
	"gatherly/internal/delivery/http/middleware"
	"gatherly/internal/domain"
)

// InviteRequest is the request body for POST /events/{eventID}/invites.
type InviteRequest struct {
	Email string `json:"email"`
}

// Validate implements Validator.
func (i InviteRequest) Validate() []string {
	var errs []string
	email := strings.TrimSpace(strings.ToLower(i.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	return errs
}

// InviteResponse is the data payload for POST /events/{eventID}/invites (201).
// JoinLink carries the raw token and is present only for token-mode invites.
type InviteResponse struct {
	Invite   *domain.EventInvite `json:"invite"`
	JoinLink string              `json:"join_link,omitempty"`
}

// InviteSuccessResponse is the success response envelope for POST /events/{eventID}/invites (201).
type InviteSuccessResponse struct {
	Data  InviteResponse    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListInvitesResponse is the data payload for paginated invite lists.
type ListInvitesResponse struct {
	Items      []*domain.EventInvite  `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListInvitesSuccessResponse is the success response envelope for paginated invite lists (200).
type ListInvitesSuccessResponse struct {
	Data  ListInvitesResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// JoinRequest is the request body for POST /events/join.
type JoinRequest struct {
	Token string `json:"token"`
}

// Validate implements Validator.
func (j JoinRequest) Validate() []string {
	if strings.TrimSpace(j.Token) == "" {
		return []string{"token is required"}
	}
	return nil
}

// InviteDecisionSuccessResponse is the success response envelope for join, accept, and decline (200).
type InviteDecisionSuccessResponse struct {
	Data  *domain.EventInvite `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// InviteController handles the invite lifecycle endpoints.
type InviteController struct {
	Logger  *slog.Logger
	Service domain.InviteService
}

// NewInviteController creates an InviteController with the given logger and service.
func NewInviteController(logger *slog.Logger, svc domain.InviteService) *InviteController {
	return &InviteController{
		Logger:  logger,
		Service: svc,
	}
}

// Invite godoc
// @Summary Invite an email to an event
// @Description Invite an email address to the event. Only the event owner can invite. If the email has no account, a token invite with a 72h join link is created and emailed; if it maps to an account, an in-app invite is created. Re-inviting the same email refreshes the existing invite. Requires authentication.
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body InviteRequest true "Email to invite"
// @Success 201 {object} controllers.InviteSuccessResponse "data contains the invite and, for token invites, the join link"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already a member)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/invites [post]
func (c *InviteController) Invite(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req InviteRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	invite, joinLink, err := c.Service.Invite(r.Context(), eventID, userID, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		if errors.Is(err, domain.ErrAlreadyMember) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "already a member")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, InviteResponse{Invite: invite, JoinLink: joinLink})
}

// ListEventInvites godoc
// @Summary List invites for an event
// @Description Returns a paginated list of the event's invites. Only the event owner can list. Use page and page_size query params. Requires authentication.
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListInvitesSuccessResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/invites [get]
func (c *InviteController) ListEventInvites(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := helpers.ParsePagination(r)
	invites, total, err := c.Service.ListEventInvites(r.Context(), eventID, userID, params)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if invites == nil {
		invites = []*domain.EventInvite{}
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListInvitesResponse{Items: invites, Pagination: meta})
}

// Join godoc
// @Summary Join an event with an invite token
// @Description Redeem a raw invite token for the authenticated user. The account email must match the invited email. On success the user becomes a member and the invite is accepted. An expired token is marked expired on this access.
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body JoinRequest true "Raw invite token"
// @Success 200 {object} controllers.InviteDecisionSuccessResponse "data contains the accepted invite"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (invite is for a different email)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown token)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (invite already responded to)"
// @Failure 410 {object} helpers.APIResponse "error.code: gone (revoked or expired)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/join [post]
func (c *InviteController) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req JoinRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	invite, err := c.Service.Join(r.Context(), userID, strings.TrimSpace(req.Token))
	if err != nil {
		c.writeInviteError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, invite)
}

// Accept godoc
// @Summary Accept an invite
// @Description Accept a pending in-app invite. Only the invited user can accept. On success the user becomes a member of the event.
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param inviteID path string true "Invite ID (UUID)"
// @Success 200 {object} controllers.InviteDecisionSuccessResponse "data contains the accepted invite"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the invited user)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (invite already responded to)"
// @Failure 410 {object} helpers.APIResponse "error.code: gone (revoked)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites/{inviteID}/accept [post]
func (c *InviteController) Accept(w http.ResponseWriter, r *http.Request) {
	c.respond(w, r, c.Service.Accept)
}

// Decline godoc
// @Summary Decline an invite
// @Description Decline a pending in-app invite. Only the invited user can decline. No membership is created.
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param inviteID path string true "Invite ID (UUID)"
// @Success 200 {object} controllers.InviteDecisionSuccessResponse "data contains the declined invite"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the invited user)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (invite already responded to)"
// @Failure 410 {object} helpers.APIResponse "error.code: gone (revoked)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites/{inviteID}/decline [post]
func (c *InviteController) Decline(w http.ResponseWriter, r *http.Request) {
	c.respond(w, r, c.Service.Decline)
}

// respond handles the shared shape of accept and decline.
func (c *InviteController) respond(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, inviteID, userID string) (*domain.EventInvite, error)) {
	inviteID := r.PathValue("inviteID")
	if inviteID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing inviteID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	invite, err := op(r.Context(), inviteID, userID)
	if err != nil {
		c.writeInviteError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, invite)
}

// writeInviteError maps invite lifecycle errors to HTTP statuses.
func (c *InviteController) writeInviteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "invite not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrEmailMismatch):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "invite is for a different email address")
	case errors.Is(err, domain.ErrInviteNotPending):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "invite already responded to")
	case errors.Is(err, domain.ErrInviteRevoked):
		helpers.WriteJSONError(w, http.StatusGone, helpers.ErrCodeGone, "invite revoked")
	case errors.Is(err, domain.ErrInviteExpired):
		helpers.WriteJSONError(w, http.StatusGone, helpers.ErrCodeGone, "invite expired")
	case errors.Is(err, domain.ErrUserNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// ListMyInvites godoc
// @Summary List my pending invites
// @Description Returns a paginated list of the authenticated user's pending in-app invites. Use page and page_size query params.
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListInvitesSuccessResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/invites [get]
func (c *InviteController) ListMyInvites(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := helpers.ParsePagination(r)
	invites, total, err := c.Service.ListMyInvites(r.Context(), userID, params)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if invites == nil {
		invites = []*domain.EventInvite{}
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListInvitesResponse{Items: invites, Pagination: meta})
}
