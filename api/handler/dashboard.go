package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskhive/backend/pkg/httpcontext"
	dashboardUC "github.com/taskhive/backend/usecase/dashboard"
)

type DashboardHandler struct {
	baseHandler
	uc *dashboardUC.UseCase
}

func NewDashboardHandler(uc *dashboardUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// Summary serves the aggregated dashboard for the requesting user.
// Every role sees the same owner-or-tagged slice here, admins included.
func (h *DashboardHandler) Summary(ctx *fasthttp.RequestCtx) {
	actor, ok := h.currentUser(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	summary, err := h.uc.Summary(stdCtx, actor.ID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, summary)
}
