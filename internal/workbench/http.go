package workbench

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/bookshelf/internal/platform/request"
	"github.com/taibuivan/bookshelf/internal/platform/respond"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
	"github.com/taibuivan/bookshelf/internal/workbench/session"
)

// selectionInput is the body of the selection endpoints.
type selectionInput struct {
	IDs []string `json:"ids"`
}

// confirmationInput answers the pending confirmation box.
type confirmationInput struct {
	ID     string `json:"id"`
	Action Action `json:"action"`
}

// step is one workbench operation applied to a loaded session.
type step func(ctx context.Context, s ViewState, request *http.Request) (ViewState, error)

// Handler exposes the workbench over HTTP. Every operation answers with the
// updated view; user-facing failures travel as messages inside it.
type Handler struct {
	controller *Controller
	sessions   session.Store[ViewState]
}

// NewHandler creates a workbench Handler.
func NewHandler(controller *Controller, sessions session.Store[ViewState]) *Handler {
	return &Handler{controller: controller, sessions: sessions}
}

// RegisterRoutes mounts the workbench endpoints. Callers apply authentication
// and role checks on the parent router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/sessions", handler.openSession)

	router.Route("/sessions/{sid}", func(sessionRoute chi.Router) {
		sessionRoute.Use(bindSessionID)

		sessionRoute.Get("/", handler.run(handler.view))
		sessionRoute.Delete("/", handler.closeSession)
		sessionRoute.Post("/confirmation", handler.run(handler.resolve))

		sessionRoute.Route("/authors", func(authorRoute chi.Router) {
			authorRoute.Put("/selection", handler.run(handler.selectAuthors))
			authorRoute.Post("/refresh", handler.run(handler.plain(handler.controller.RefreshAuthors)))
			authorRoute.Post("/dialog/add", handler.run(handler.plain(handler.controller.AddAuthor)))
			authorRoute.Post("/dialog/edit", handler.run(handler.plain(handler.controller.EditAuthor)))
			authorRoute.Post("/dialog/confirm", handler.run(handler.confirmAuthor))
			authorRoute.Post("/dialog/cancel", handler.run(handler.plain(handler.controller.CancelAuthor)))
			authorRoute.Post("/delete", handler.run(handler.plain(handler.controller.DeleteAuthor)))
		})

		sessionRoute.Route("/books", func(bookRoute chi.Router) {
			bookRoute.Put("/selection", handler.run(handler.selectBooks))
			bookRoute.Post("/refresh", handler.run(handler.plain(handler.controller.RefreshBooks)))
			bookRoute.Post("/dialog/add", handler.run(handler.plain(handler.controller.AddBook)))
			bookRoute.Post("/dialog/edit", handler.run(handler.plain(handler.controller.EditBook)))
			bookRoute.Post("/dialog/confirm", handler.run(handler.confirmBook))
			bookRoute.Post("/dialog/cancel", handler.run(handler.plain(handler.controller.CancelBook)))
			bookRoute.Post("/delete", handler.run(handler.plain(handler.controller.DeleteBook)))
		})
	})
}

// # Session lifecycle

func (handler *Handler) openSession(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := uuid.NewV7()
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	ctx := ctxutil.WithSessionID(request.Context(), id.String())
	state := handler.controller.Open(ctx, id.String(), userID)

	if err := handler.sessions.Create(ctx, state.SessionID, state); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ctxutil.GetLogger(ctx).Info("workbench_session_opened",
		slog.String("session_id", state.SessionID),
		slog.String("user_id", userID),
	)
	respond.Created(writer, state)
}

func (handler *Handler) closeSession(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	if _, err := handler.load(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.sessions.Delete(ctx, ctxutil.GetSessionID(ctx)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ctxutil.GetLogger(ctx).Info("workbench_session_closed", slog.String("session_id", ctxutil.GetSessionID(ctx)))
	respond.NoContent(writer)
}

// run loads the caller's session, applies op and persists the result.
func (handler *Handler) run(op step) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()

		state, err := handler.load(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		next, err := op(ctx, state, request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		if err := handler.sessions.Save(ctx, state.SessionID, next); err != nil {
			respond.Error(writer, request, err)
			return
		}

		respond.OK(writer, next)
	}
}

// load fetches the session named in the URL and checks it belongs to the caller.
func (handler *Handler) load(request *http.Request) (ViewState, error) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		return ViewState{}, err
	}

	ctx := request.Context()
	state, err := handler.sessions.Load(ctx, ctxutil.GetSessionID(ctx))
	if err != nil {
		return ViewState{}, err
	}

	if state.Owner != userID {
		return ViewState{}, apperr.Forbidden("This workbench session belongs to another user")
	}
	return state, nil
}

func bindSessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		sessionID := requestutil.Param(request, "sid")

		validator := &validate.Validator{}
		if err := validator.UUID("sid", sessionID).Err(); err != nil {
			respond.Error(writer, request, err)
			return
		}

		ctx := ctxutil.WithSessionID(request.Context(), sessionID)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// # Steps

// plain adapts a body-less controller operation.
func (handler *Handler) plain(op func(context.Context, ViewState) ViewState) step {
	return func(ctx context.Context, s ViewState, _ *http.Request) (ViewState, error) {
		return op(ctx, s), nil
	}
}

func (handler *Handler) view(_ context.Context, s ViewState, _ *http.Request) (ViewState, error) {
	return s, nil
}

func (handler *Handler) selectAuthors(ctx context.Context, s ViewState, request *http.Request) (ViewState, error) {
	var input selectionInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		return s, err
	}
	return handler.controller.SelectAuthors(ctx, s, input.IDs), nil
}

func (handler *Handler) selectBooks(ctx context.Context, s ViewState, request *http.Request) (ViewState, error) {
	var input selectionInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		return s, err
	}
	return handler.controller.SelectBooks(ctx, s, input.IDs), nil
}

func (handler *Handler) confirmAuthor(ctx context.Context, s ViewState, request *http.Request) (ViewState, error) {
	var input AuthorForm
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		return s, err
	}
	return handler.controller.ConfirmAuthor(ctx, s, input), nil
}

func (handler *Handler) confirmBook(ctx context.Context, s ViewState, request *http.Request) (ViewState, error) {
	var input BookForm
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		return s, err
	}
	return handler.controller.ConfirmBook(ctx, s, input), nil
}

func (handler *Handler) resolve(ctx context.Context, s ViewState, request *http.Request) (ViewState, error) {
	var input confirmationInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		return s, err
	}

	validator := &validate.Validator{}
	validator.OneOf("action", string(input.Action), string(ActionOK), string(ActionCancel))
	if err := validator.Err(); err != nil {
		return s, err
	}

	return handler.controller.Resolve(ctx, s, input.ID, input.Action), nil
}
