package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"pos-storefront/cart"
	"pos-storefront/catalog"
	"pos-storefront/checkout"
	"pos-storefront/helper"
	"pos-storefront/model"
	"pos-storefront/report"
	"pos-storefront/view"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// SessionStore holds the cart and preferences of each login session.
type SessionStore interface {
	Quantities(ctx context.Context, sessionID string) (map[int64]int, error)
	Add(ctx context.Context, sessionID string, productID int64) (int, error)
	Remove(ctx context.Context, sessionID string, productID int64) (int, error)
	Reset(ctx context.Context, sessionID string) error
	Theme(ctx context.Context, sessionID string) (string, error)
	ToggleTheme(ctx context.Context, sessionID string) (string, error)
}

type ProductStore interface {
	CreateProduct(ctx context.Context, p model.Product) (model.Product, error)
	UpdateProduct(ctx context.Context, id int64, p model.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type SupportNotifier interface {
	Send(ctx context.Context) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	StoreName string
	StoreBio  string

	Tokens   *helper.TokenManager
	Gate     *helper.PasswordGate
	Catalog  *catalog.Fetcher
	Products ProductStore
	Sessions SessionStore
	Checkout *checkout.Submitter
	Reports  *report.Service
	Support  SupportNotifier
	Health   Pinger
	Logger   *zap.Logger
}

func (a *App) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req model.LoginReq

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helper.WriteErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	role, ok := a.Gate.Role(req.Password)
	if !ok {
		helper.WriteErrorJSON(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, session, err := a.Tokens.GenerateJWT(role)
	if err != nil {
		helper.WriteErrorJSON(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	a.Logger.Info("login", zap.String("role", role), zap.String("session_id", session.ID))
	helper.WriteJSON(w, http.StatusOK, model.LoginResp{Token: token, Role: role})
}

func (a *App) ShellHandler(w http.ResponseWriter, r *http.Request) {
	session := helper.GetSessionFromContext(r.Context())
	helper.WriteJSON(w, http.StatusOK, view.Shell(a.StoreName, session.Role))
}

// cartLines joins the catalog with the session quantities.
func (a *App) cartLines(ctx context.Context) ([]model.Product, []cart.Line, error) {
	products, err := a.Catalog.Fetch(ctx)
	if err != nil {
		return nil, nil, err
	}
	quantities, err := a.Sessions.Quantities(ctx, helper.GetSessionFromContext(ctx).ID)
	if err != nil {
		return nil, nil, err
	}
	return products, cart.Lines(products, quantities), nil
}

func (a *App) CatalogHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	products, lines, err := a.cartLines(r.Context())
	if err != nil {
		helper.WriteAppError(w, err)
		return
	}

	helper.WriteJSON(w, http.StatusOK, view.Catalog(query, catalog.Search(products, query), lines))
}

func (a *App) CartHandler(w http.ResponseWriter, r *http.Request) {
	_, lines, err := a.cartLines(r.Context())
	if err != nil {
		helper.WriteAppError(w, err)
		return
	}

	helper.WriteJSON(w, http.StatusOK, view.Cart(lines))
}

func productIDVar(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, model.Validation("product id", errors.New("invalid product id"))
	}
	return id, nil
}

func (a *App) CartAddHandler(w http.ResponseWriter, r *http.Request) {
	a.changeCart(w, r, a.Sessions.Add)
}

func (a *App) CartRemoveHandler(w http.ResponseWriter, r *http.Request) {
	a.changeCart(w, r, a.Sessions.Remove)
}

func (a *App) changeCart(w http.ResponseWriter, r *http.Request, change func(context.Context, string, int64) (int, error)) {
	ctx := r.Context()

	productID, err := productIDVar(r)
	if err != nil {
		helper.WriteAppError(w, err)
		return
	}

	quantity, err := change(ctx, helper.GetSessionFromContext(ctx).ID, productID)
	if err != nil {
		helper.WriteAppError(w, err)
		return
	}

	_, lines, err := a.cartLines(ctx)
	if err != nil {
		helper.WriteAppError(w, err)
		return
	}

	helper.WriteJSON(w, http.StatusOK, model.CartChangeResp{
		ProductID: productID,
		Quantity:  quantity,
		Total:     cart.FormatCurrency(cart.Total(lines)),
	})
}

func (a *App) CartResetHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := a.Sessions.Reset(ctx, helper.GetSessionFromContext(ctx).ID); err != nil {
		helper.WriteAppError(w, err)
		return
	}
	helper.WriteJSON(w, http.StatusOK, view.Cart(nil))
}

func (a *App) CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := helper.GetSessionFromContext(ctx)

	var req model.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helper.WriteErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	_, lines, err := a.cartLines(ctx)
	if err != nil {
		helper.WriteAppError(w, err)
		return
	}

	resp, err := a.Checkout.Submit(ctx, req, lines)
	if err != nil {
		helper.WriteAppError(w, err)
		return
	}

	// the order is already stored; a stale cart is only logged
	if err := a.Sessions.Reset(ctx, session.ID); err != nil {
		a.Logger.Warn("cart reset after checkout failed", zap.String("session_id", session.ID), zap.Error(err))
	}

	helper.WriteJSON(w, http.StatusCreated, resp)
}

func (a *App) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := a.Catalog.Query(r.Context(), r.URL.Query().Get("q"), true)
	if err != nil {
		helper.WriteAppError(w, err)
		return
	}

	helper.WriteJSON(w, http.StatusOK, view.AdminProducts(products))
}

func decodeProductForm(r *http.Request) (model.Product, error) {
	var form model.ProductForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		return model.Product{}, model.Validation("product form", errors.New("invalid request body"))
	}
	return catalog.ParseProductForm(form)
}

func (a *App) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	p, err := decodeProductForm(r)
	if err != nil {
		helper.WriteAppError(w, err)
		return
	}

	created, err := a.Products.CreateProduct(r.Context(), p)
	if err != nil {
		helper.WriteAppError(w, err)
		return
	}

	helper.WriteJSON(w, http.StatusCreated, created)
}

func (a *App) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productIDVar(r)
	if err != nil {
		helper.WriteAppError(w, err)
		return
	}

	p, err := decodeProductForm(r)
	if err != nil {
		helper.WriteAppError(w, err)
		return
	}

	if err := a.Products.UpdateProduct(r.Context(), id, p); err != nil {
		helper.WriteAppError(w, err)
		return
	}

	p.ID = id
	helper.WriteJSON(w, http.StatusOK, p)
}

func (a *App) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productIDVar(r)
	if err != nil {
		helper.WriteAppError(w, err)
		return
	}

	if err := a.Products.DeleteProduct(r.Context(), id); err != nil {
		helper.WriteAppError(w, err)
		return
	}

	helper.WriteJSON(w, http.StatusOK, map[string]any{
		"id":     id,
		"status": "deleted",
	})
}

func (a *App) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	refresh := r.URL.Query().Get("refresh") == "1"

	summary, err := a.Reports.Dashboard(r.Context(), refresh)
	if err != nil {
		helper.WriteAppError(w, err)
		return
	}

	helper.WriteJSON(w, http.StatusOK, view.Dashboard(summary))
}

func (a *App) SettingsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	theme, err := a.Sessions.Theme(ctx, helper.GetSessionFromContext(ctx).ID)
	if err != nil {
		helper.WriteAppError(w, err)
		return
	}

	helper.WriteJSON(w, http.StatusOK, view.Settings(a.StoreName, a.StoreBio, theme))
}

func (a *App) ToggleThemeHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	theme, err := a.Sessions.ToggleTheme(ctx, helper.GetSessionFromContext(ctx).ID)
	if err != nil {
		helper.WriteAppError(w, err)
		return
	}

	helper.WriteJSON(w, http.StatusOK, model.ThemeResp{Theme: theme})
}

func (a *App) SupportHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.Support.Send(r.Context()); err != nil {
		a.Logger.Warn("support request failed", zap.Error(err))
		helper.WriteAppError(w, err)
		return
	}

	helper.WriteJSON(w, http.StatusOK, model.SupportResp{Status: "sent"})
}

func (a *App) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.Health.Ping(r.Context()); err != nil {
		helper.WriteErrorJSON(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	helper.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
