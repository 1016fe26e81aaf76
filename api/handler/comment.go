package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskhive/backend/api/transport"
	"github.com/taskhive/backend/pkg/httpcontext"
	commentUC "github.com/taskhive/backend/usecase/comment"
)

type CommentHandler struct {
	baseHandler
	uc *commentUC.UseCase
}

func NewCommentHandler(uc *commentUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

func (h *CommentHandler) List(ctx *fasthttp.RequestCtx) {
	actor, ok := h.currentUser(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	comments, err := h.uc.List(stdCtx, actor, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, comments)
}

func (h *CommentHandler) Create(ctx *fasthttp.RequestCtx) {
	actor, ok := h.currentUser(ctx)
	if !ok {
		return
	}
	var req transport.CommentRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, actor, pathParam(ctx, "id"), req.Content)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

func (h *CommentHandler) Delete(ctx *fasthttp.RequestCtx) {
	actor, ok := h.currentUser(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, actor, pathParam(ctx, "commentId")); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}
