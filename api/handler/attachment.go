package handler

import (
	"io"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/pkg/httpcontext"
	attachmentUC "github.com/taskhive/backend/usecase/attachment"
)

type AttachmentHandler struct {
	baseHandler
	uc *attachmentUC.UseCase
}

func NewAttachmentHandler(uc *attachmentUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AttachmentHandler {
	return &AttachmentHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

func (h *AttachmentHandler) List(ctx *fasthttp.RequestCtx) {
	actor, ok := h.currentUser(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	attachments, err := h.uc.List(stdCtx, actor, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, attachments)
}

// Upload accepts a multipart form with a single "file" part.
func (h *AttachmentHandler) Upload(ctx *fasthttp.RequestCtx) {
	actor, ok := h.currentUser(ctx)
	if !ok {
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		h.respondError(ctx, domain.NewError(domain.ErrCodeInvalid, "file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		h.respondError(ctx, domain.WrapError(domain.ErrCodeInvalid, "unreadable upload", err))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		h.respondError(ctx, domain.WrapError(domain.ErrCodeInvalid, "unreadable upload", err))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Upload(stdCtx, actor, pathParam(ctx, "id"), header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

func (h *AttachmentHandler) Delete(ctx *fasthttp.RequestCtx) {
	actor, ok := h.currentUser(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, actor, pathParam(ctx, "attachmentId")); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}
