package endpoints

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/assets"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/audit"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/authz"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/identity"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/locale"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/logging"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/model"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/server"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/server/middleware"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/server/store"
)

// AppsListResponse is the view of GET /apps
type AppsListResponse struct {
	Title  string      `json:"title"`
	Notice string      `json:"notice,omitempty"`
	Apps   []model.App `json:"apps"`
}

// AppResponse is the view of a single app and of the app forms
type AppResponse struct {
	Title string     `json:"title"`
	App   *model.App `json:"app"`
}

// AppFormErrorResponse is the creation form rendered again after the app
// was rejected
type AppFormErrorResponse struct {
	Title  string              `json:"title"`
	App    *model.App          `json:"app"`
	Errors map[string][]string `json:"errors"`
}

type appsEndpoints struct {
	apps       store.AppsStore
	authorizer authz.Authorizer
	assets     assets.Store
	translator *locale.Translator
}

// RegisterAppsEndpoints registers the app management endpoints
func RegisterAppsEndpoints(s *server.Server) {
	e := &appsEndpoints{
		apps:       s.AppsStore,
		authorizer: s.Authorizer,
		assets:     s.Assets,
		translator: s.Translator,
	}

	r := s.Router.PathPrefix(appsPath).Subrouter()
	if s.Authenticate != nil {
		r.Use(s.Authenticate)
	}

	r.HandleFunc("", e.handleList()).Methods("GET")
	r.HandleFunc("", e.handleCreate()).Methods("POST")
	// "new" must be registered before {id}
	r.HandleFunc("/new", e.handleNew()).Methods("GET")
	r.HandleFunc("/{id}", e.handleShow()).Methods("GET")
	r.HandleFunc("/{id}/edit", e.handleEdit()).Methods("GET")
	r.HandleFunc("/{id}", e.handleUpdate()).Methods("PATCH", "PUT")
	r.HandleFunc("/{id}", e.handleDestroy()).Methods("DELETE")
}

func (e *appsEndpoints) handleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := translatorFor(e.translator, r)
		actor, _ := identity.Get(r.Context())

		if !e.authorizer.Allowed(actor, authz.ActionIndex, nil) {
			e.forbid(w, t)
			return
		}

		apps, err := e.apps.ListApps()
		if err != nil {
			e.internalError(w, t, "Failed to list apps", err)
			return
		}
		if apps == nil {
			apps = []model.App{}
		}

		respondWithJSON(w, http.StatusOK, AppsListResponse{
			Title:  t("apps.apps", nil),
			Notice: consumeNotice(w, r),
			Apps:   apps,
		})
	}
}

func (e *appsEndpoints) handleShow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := translatorFor(e.translator, r)
		actor, _ := identity.Get(r.Context())

		app, ok := e.setApp(w, r, t)
		if !ok {
			return
		}
		if !e.authorizer.Allowed(actor, authz.ActionShow, app) {
			e.forbid(w, t)
			return
		}

		respondWithJSON(w, http.StatusOK, AppResponse{Title: app.Name, App: app})
	}
}

func (e *appsEndpoints) handleNew() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := translatorFor(e.translator, r)
		actor, _ := identity.Get(r.Context())

		app := &model.App{}
		if !e.authorizer.Allowed(actor, authz.ActionNew, app) {
			e.forbid(w, t)
			return
		}

		// One blank scheme for the form to fill in
		app.Schemes = []model.Scheme{{}}

		respondWithJSON(w, http.StatusOK, AppResponse{Title: t("apps.new_app", nil), App: app})
	}
}

func (e *appsEndpoints) handleEdit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := translatorFor(e.translator, r)
		actor, _ := identity.Get(r.Context())

		app, ok := e.setApp(w, r, t)
		if !ok {
			return
		}
		if !e.authorizer.Allowed(actor, authz.ActionEdit, app) {
			e.forbid(w, t)
			return
		}

		respondWithJSON(w, http.StatusOK, AppResponse{Title: t("apps.edit_app", nil), App: app})
	}
}

func (e *appsEndpoints) handleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := translatorFor(e.translator, r)
		actor, _ := identity.Get(r.Context())

		params, err := decodeAppParams(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		// Scheme names and channel drive the nested records, not the app itself
		schemes := params.SchemesAttributes
		channel := params.ChannelValue()

		app := &model.App{}
		params.ApplyTo(app)

		if !e.authorizer.Allowed(actor, authz.ActionCreate, app) {
			e.audit(r, actor, app, audit.OperationCreate, errors.New("not authorized"))
			e.forbid(w, t)
			return
		}

		err = e.apps.Transaction(func(apps store.AppsStore) error {
			if err := apps.CreateApp(app); err != nil {
				return err
			}
			if actor != nil {
				if err := apps.AddMember(app.ID, actor.UserID); err != nil {
					return fmt.Errorf("failed to add app member: %w", err)
				}
			}
			if err := createSchemesBy(apps, app, schemes, channel); err != nil {
				return fmt.Errorf("failed to create app schemes: %w", err)
			}
			return nil
		})
		if err != nil {
			var ve *model.ValidationError
			if errors.As(err, &ve) && ve.Model == "app" {
				e.audit(r, actor, app, audit.OperationCreate, err)
				respondWithJSON(w, http.StatusUnprocessableEntity, AppFormErrorResponse{
					Title:  t("apps.new_app", nil),
					App:    app,
					Errors: localizeErrors(t, ve),
				})
				return
			}
			// Rolled back; the app does not exist
			app.ID = 0
			e.audit(r, actor, app, audit.OperationCreate, err)
			e.internalError(w, t, "Failed to create app", err)
			return
		}

		e.audit(r, actor, app, audit.OperationCreate, nil)
		redirectWithNotice(w, r, appsPath, t("apps.messages.create_app_success", locale.Args{"name": app.Name}))
	}
}

func (e *appsEndpoints) handleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := translatorFor(e.translator, r)
		actor, _ := identity.Get(r.Context())

		app, ok := e.setApp(w, r, t)
		if !ok {
			return
		}
		if !e.authorizer.Allowed(actor, authz.ActionUpdate, app) {
			e.audit(r, actor, app, audit.OperationUpdate, errors.New("not authorized"))
			e.forbid(w, t)
			return
		}

		params, err := decodeAppParams(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		params.ApplyTo(app)

		// The outcome of the save does not change the response
		if err := e.apps.UpdateApp(app); err != nil {
			logging.L().Warn("Failed to update app", zap.Uint("app_id", app.ID), zap.Error(err))
			e.audit(r, actor, app, audit.OperationUpdate, err)
		} else {
			e.audit(r, actor, app, audit.OperationUpdate, nil)
		}

		redirectWithNotice(w, r, appsPath, "")
	}
}

func (e *appsEndpoints) handleDestroy() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := translatorFor(e.translator, r)
		actor, _ := identity.Get(r.Context())

		app, ok := e.setApp(w, r, t)
		if !ok {
			return
		}
		if !e.authorizer.Allowed(actor, authz.ActionDestroy, app) {
			e.audit(r, actor, app, audit.OperationDestroy, errors.New("not authorized"))
			e.forbid(w, t)
			return
		}

		if err := e.apps.DeleteApp(app.ID); err != nil {
			if errors.Is(err, store.ErrAppNotFound) {
				e.notFound(w, r, t, strconv.FormatUint(uint64(app.ID), 10))
				return
			}
			e.internalError(w, t, "Failed to delete app", err)
			return
		}

		if err := DestroyAppData(r.Context(), e.assets, app.ID); err != nil {
			e.audit(r, actor, app, audit.OperationDestroy, err)
			e.internalError(w, t, "Failed to delete app binary and icons", err)
			return
		}

		e.audit(r, actor, app, audit.OperationDestroy, nil)
		redirectWithNotice(w, r, appsPath, "")
	}
}

// DestroyAppData removes every uploaded binary and icon of an app.
func DestroyAppData(ctx context.Context, assetStore assets.Store, appID uint) error {
	logging.L().Debug("Delete app all binary and icons", zap.String("path", assetStore.Location(appID)))
	return assetStore.RemoveApp(ctx, appID)
}

// setApp loads the app named by the {id} route variable. When there is no
// such app it redirects to the list with a notice and returns false.
func (e *appsEndpoints) setApp(w http.ResponseWriter, r *http.Request, t translateFunc) (*model.App, bool) {
	rawID := mux.Vars(r)["id"]

	id, err := model.ParseID(rawID)
	if err != nil {
		e.notFound(w, r, t, rawID)
		return nil, false
	}

	app, err := e.apps.FetchApp(id)
	if err != nil {
		if errors.Is(err, store.ErrAppNotFound) {
			e.notFound(w, r, t, rawID)
			return nil, false
		}
		e.internalError(w, t, "Failed to fetch app", err)
		return nil, false
	}
	return app, true
}

func (e *appsEndpoints) notFound(w http.ResponseWriter, r *http.Request, t translateFunc, id string) {
	redirectWithNotice(w, r, appsPath, t("apps.messages.not_found_app", locale.Args{"id": id}))
}

func (e *appsEndpoints) forbid(w http.ResponseWriter, t translateFunc) {
	respondWithError(w, http.StatusForbidden, t("errors.messages.not_authorized", nil))
}

func (e *appsEndpoints) internalError(w http.ResponseWriter, t translateFunc, msg string, err error) {
	logging.L().Error(msg, zap.Error(err))
	respondWithError(w, http.StatusInternalServerError, t("errors.messages.internal", nil))
}

func (e *appsEndpoints) audit(r *http.Request, actor *identity.Identity, app *model.App, operation string, err error) {
	event := audit.AppEvent{
		UserID:    identity.AuditName(actor),
		ClientIP:  middleware.ClientIP(r),
		AppID:     app.ID,
		AppName:   app.Name,
		Operation: operation,
		Success:   err == nil,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	audit.Log(event)
}

// localizeErrors renders the message keys of a validation failure.
func localizeErrors(t translateFunc, ve *model.ValidationError) map[string][]string {
	out := make(map[string][]string, len(ve.Fields))
	for field, keys := range ve.Fields {
		for _, key := range keys {
			out[field] = append(out[field], t("errors.messages."+key, nil))
		}
	}
	return out
}
