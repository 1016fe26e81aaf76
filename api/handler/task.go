package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskhive/backend/api/transport"
	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/pkg/httpcontext"
	taskUC "github.com/taskhive/backend/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

func (h *TaskHandler) List(ctx *fasthttp.RequestCtx) {
	actor, ok := h.currentUser(ctx)
	if !ok {
		return
	}

	filter := taskUC.ListFilter{
		Search:     string(ctx.QueryArgs().Peek("search")),
		Status:     string(ctx.QueryArgs().Peek("status")),
		CategoryID: string(ctx.QueryArgs().Peek("categoryId")),
	}
	if from, ok := parseQueryTime(ctx, "dueFrom"); ok {
		filter.DueFrom = from
	}
	if to, ok := parseQueryTime(ctx, "dueTo"); ok {
		filter.DueTo = to
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.List(stdCtx, actor, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

func (h *TaskHandler) Get(ctx *fasthttp.RequestCtx) {
	actor, ok := h.currentUser(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Get(stdCtx, actor, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

func (h *TaskHandler) Create(ctx *fasthttp.RequestCtx) {
	actor, ok := h.currentUser(ctx)
	if !ok {
		return
	}
	var req transport.TaskCreateRequest
	if !h.decode(ctx, &req) {
		return
	}

	task := &domain.Task{
		Title:         req.Title,
		Description:   req.Description,
		Status:        req.Status,
		Priority:      req.Priority,
		TaggedUserIDs: req.TaggedUserIDs,
	}
	if req.DueDate != "" {
		due, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			h.respondError(ctx, domain.NewError(domain.ErrCodeInvalid, "dueDate must be RFC 3339"))
			return
		}
		task.DueDate = &due
	}
	if req.CategoryID != "" {
		task.CategoryID = &req.CategoryID
	}
	if req.ProjectID != "" {
		task.ProjectID = &req.ProjectID
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, actor, task)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

func (h *TaskHandler) Update(ctx *fasthttp.RequestCtx) {
	actor, ok := h.currentUser(ctx)
	if !ok {
		return
	}
	var req transport.TaskUpdateRequest
	if !h.decode(ctx, &req) {
		return
	}

	input := taskUC.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			input.ClearDueDate = true
		} else {
			due, err := time.Parse(time.RFC3339, *req.DueDate)
			if err != nil {
				h.respondError(ctx, domain.NewError(domain.ErrCodeInvalid, "dueDate must be RFC 3339"))
				return
			}
			input.DueDate = &due
		}
	}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			input.ClearCategory = true
		} else {
			input.CategoryID = req.CategoryID
		}
	}
	if req.ProjectID != nil {
		if *req.ProjectID == "" {
			input.ClearProject = true
		} else {
			input.ProjectID = req.ProjectID
		}
	}
	if req.TaggedUserIDs != nil {
		tags := *req.TaggedUserIDs
		if tags == nil {
			tags = []string{}
		}
		input.TaggedUserIDs = tags
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, actor, pathParam(ctx, "id"), input)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

func (h *TaskHandler) Delete(ctx *fasthttp.RequestCtx) {
	actor, ok := h.currentUser(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, actor, pathParam(ctx, "id")); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}

func (h *TaskHandler) Activity(ctx *fasthttp.RequestCtx) {
	actor, ok := h.currentUser(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	entries, err := h.uc.Activity(stdCtx, actor, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, entries)
}

func parseQueryTime(ctx *fasthttp.RequestCtx, name string) (*time.Time, bool) {
	raw := string(ctx.QueryArgs().Peek(name))
	if raw == "" {
		return nil, false
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false
	}
	return &parsed, true
}
